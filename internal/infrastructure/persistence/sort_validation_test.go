package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", "DESC"},
		{"ASC", "ASC"},
		{"asc", "ASC"},
		{"  asc  ", "ASC"},
		{"DESC", "DESC"},
		{"desc", "DESC"},
		{"sideways", "DESC"},
		{"   ", "DESC"},
		{"ASC; DROP TABLE products;--", "DESC"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidateSortOrder(tc.input), "input %q", tc.input)
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("whitelisted fields pass through", func(t *testing.T) {
		assert.Equal(t, "price", ValidateSortField("price", ProductSortFields, "created_at"))
		assert.Equal(t, "view_count", ValidateSortField("  view_count  ", ProductSortFields, "created_at"))
	})

	t.Run("empty or unknown fields fall back to the default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("", ProductSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("   ", ProductSortFields, "created_at"))
		assert.Equal(t, "created_at", ValidateSortField("margin", ProductSortFields, "created_at"))
		assert.Equal(t, "", ValidateSortField("margin", ProductSortFields, ""))
	})

	t.Run("lookup is case sensitive to match column names", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("PRICE", ProductSortFields, "created_at"))
	})
}

func TestSortFieldWhitelists(t *testing.T) {
	for name, fields := range map[string]map[string]bool{
		"UserSortFields":     UserSortFields,
		"ProductSortFields":  ProductSortFields,
		"CategorySortFields": CategorySortFields,
	} {
		assert.True(t, fields["created_at"], "%s misses created_at", name)
		assert.True(t, fields["id"], "%s misses id", name)
	}

	assert.True(t, ProductSortFields["contact_reveal_count"])
	assert.True(t, UserSortFields["last_login_at"])
	assert.False(t, CategorySortFields["price"])
}

func TestSortValidationRejectsInjection(t *testing.T) {
	payloads := []string{
		"price; DROP TABLE products;--",
		"price' OR '1'='1",
		"price UNION SELECT email FROM users",
		"price, (SELECT contact_phone FROM vendor_profiles)",
		"price/**/;DROP TABLE products",
		"price\n; DELETE FROM categories",
		"' OR ''='",
	}

	for _, payload := range payloads {
		assert.Equal(t, "created_at", ValidateSortField(payload, ProductSortFields, "created_at"),
			"field payload %q", payload)
		assert.Equal(t, "DESC", ValidateSortOrder(payload), "order payload %q", payload)
	}
}
