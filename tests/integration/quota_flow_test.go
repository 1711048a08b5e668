package integration

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	catalogapp "github.com/sokohub/backend/internal/application/catalog"
	"github.com/sokohub/backend/internal/domain/shared"
	"github.com/sokohub/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newProductService wires a ProductService against the test database
func newProductService(tdb *TestDB) *catalogapp.ProductService {
	return catalogapp.NewProductService(
		persistence.NewGormProductRepository(tdb.DB),
		persistence.NewGormCategoryRepository(tdb.DB),
		persistence.NewGormUserRepository(tdb.DB),
		persistence.NewGormProfileRepository(tdb.DB),
		zap.NewNop(),
	)
}

func TestProductService_FreeTierQuota(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newProductService(tdb)
	ctx := context.Background()

	vendorID := tdb.CreateTestVendor("vendor@example.com", "free")
	categoryID := tdb.CreateTestCategory("Electronics", "electronics")

	// Fill the free tier quota of 10 listings
	for i := 0; i < 10; i++ {
		_, err := svc.Create(ctx, catalogapp.CreateProductInput{
			VendorID:      vendorID,
			CategoryID:    categoryID,
			Name:          fmt.Sprintf("Lamp %d", i),
			Description:   "A test listing",
			Price:         decimal.NewFromInt(100),
			StockQuantity: 5,
		})
		require.NoError(t, err)
	}

	// The eleventh listing must be rejected with the quota details
	_, err := svc.Create(ctx, catalogapp.CreateProductInput{
		VendorID:      vendorID,
		CategoryID:    categoryID,
		Name:          "One Too Many",
		Description:   "A test listing",
		Price:         decimal.NewFromInt(100),
		StockQuantity: 5,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrQuotaExceeded)

	var quotaErr *catalogapp.QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, int64(10), quotaErr.CurrentCount)
	assert.Equal(t, 10, quotaErr.Limit)
}

func TestProductService_SlugDisambiguation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newProductService(tdb)
	ctx := context.Background()

	vendorID := tdb.CreateTestVendor("vendor@example.com", "basic")
	categoryID := tdb.CreateTestCategory("Electronics", "electronics")

	var slugs []string
	for i := 0; i < 3; i++ {
		result, err := svc.Create(ctx, catalogapp.CreateProductInput{
			VendorID:      vendorID,
			CategoryID:    categoryID,
			Name:          "Solar Lamp",
			Description:   "A test listing",
			Price:         decimal.NewFromInt(100),
			StockQuantity: 5,
		})
		require.NoError(t, err)
		slugs = append(slugs, result.Slug)
	}

	assert.Equal(t, []string{"solar-lamp", "solar-lamp-1", "solar-lamp-2"}, slugs)
}
