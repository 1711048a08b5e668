package persistence

import (
	"strings"
)

// ValidateSortOrder maps client input onto ASC or DESC. Anything that
// is not ASC, in any casing, falls back to DESC.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks a client-supplied column name against a
// whitelist before it is interpolated into ORDER BY. Unknown or empty
// input falls back to defaultField, never to the raw string.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Sortable columns per listing. Keep these in sync with the migration
// schemas; a column missing here is silently unsortable.

var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"name":          true,
	"status":        true,
	"last_login_at": true,
}

var ProductSortFields = map[string]bool{
	"id":                   true,
	"created_at":           true,
	"updated_at":           true,
	"name":                 true,
	"slug":                 true,
	"price":                true,
	"stock_quantity":       true,
	"view_count":           true,
	"contact_reveal_count": true,
}

var CategorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"slug":       true,
}
