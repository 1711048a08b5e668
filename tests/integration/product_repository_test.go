package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sokohub/backend/internal/domain/catalog"
	"github.com/sokohub/backend/internal/domain/shared"
	"github.com/sokohub/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, vendorID, categoryID uuid.UUID, name, slug string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(vendorID, categoryID, name, "A test listing", decimal.NewFromInt(100), 5)
	require.NoError(t, err)
	product.SetSlug(slug)
	return product
}

func TestProductRepository_CreateAndFind(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	repo := persistence.NewGormProductRepository(tdb.DB)
	ctx := context.Background()

	vendorID := tdb.CreateTestVendor("vendor@example.com", "free")
	categoryID := tdb.CreateTestCategory("Electronics", "electronics")

	product := newTestProduct(t, vendorID, categoryID, "Solar Lamp", "solar-lamp")
	require.NoError(t, repo.Create(ctx, product))

	found, err := repo.FindBySlug(ctx, "solar-lamp")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
	assert.Equal(t, "Solar Lamp", found.Name)
	assert.Equal(t, vendorID, found.VendorID)
	assert.True(t, found.IsActive)
	assert.True(t, found.InStock)

	byID, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "solar-lamp", byID.Slug)
}

func TestProductRepository_SlugUniqueIndex(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	repo := persistence.NewGormProductRepository(tdb.DB)
	ctx := context.Background()

	vendorID := tdb.CreateTestVendor("vendor@example.com", "free")
	categoryID := tdb.CreateTestCategory("Electronics", "electronics")

	first := newTestProduct(t, vendorID, categoryID, "Solar Lamp", "solar-lamp")
	require.NoError(t, repo.Create(ctx, first))

	// A concurrent insert with the same slug must be rejected by the
	// unique index so the service layer can retry with a suffix.
	second := newTestProduct(t, vendorID, categoryID, "Solar Lamp", "solar-lamp")
	err := repo.Create(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	second.SetSlug("solar-lamp-2")
	require.NoError(t, repo.Create(ctx, second))
}

func TestProductRepository_TierRanking(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	repo := persistence.NewGormProductRepository(tdb.DB)
	ctx := context.Background()

	categoryID := tdb.CreateTestCategory("Electronics", "electronics")

	// One vendor per tier, products inserted in reverse tier order so
	// insertion order cannot mask a broken ranking.
	tiers := []string{"free", "basic", "premium", "featured"}
	for _, tier := range tiers {
		vendorID := tdb.CreateTestVendor(tier+"@example.com", tier)
		product := newTestProduct(t, vendorID, categoryID, "Lamp "+tier, "lamp-"+tier)
		require.NoError(t, repo.Create(ctx, product))
	}

	products, total, err := repo.FindAllRanked(ctx, catalog.NewProductFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, products, 4)

	assert.Equal(t, "lamp-featured", products[0].Slug)
	assert.Equal(t, "lamp-premium", products[1].Slug)
	assert.Equal(t, "lamp-basic", products[2].Slug)
	assert.Equal(t, "lamp-free", products[3].Slug)
}

func TestProductRepository_Counters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	repo := persistence.NewGormProductRepository(tdb.DB)
	ctx := context.Background()

	vendorID := tdb.CreateTestVendor("vendor@example.com", "basic")
	categoryID := tdb.CreateTestCategory("Electronics", "electronics")

	product := newTestProduct(t, vendorID, categoryID, "Solar Lamp", "solar-lamp")
	require.NoError(t, repo.Create(ctx, product))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementViewCount(ctx, product.ID))
	}
	require.NoError(t, repo.IncrementContactReveals(ctx, product.ID))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.ViewCount)
	assert.Equal(t, int64(1), found.ContactRevealCount)

	stats, err := repo.StatsByVendor(ctx, vendorID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.ActiveProducts)
	assert.Equal(t, int64(3), stats.TotalViews)
	assert.Equal(t, int64(1), stats.TotalContacts)
}

func TestProductRepository_ConcurrentViewCounts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	repo := persistence.NewGormProductRepository(tdb.DB)
	ctx := context.Background()

	vendorID := tdb.CreateTestVendor("vendor@example.com", "basic")
	categoryID := tdb.CreateTestCategory("Electronics", "electronics")

	product := newTestProduct(t, vendorID, categoryID, "Solar Lamp", "solar-lamp")
	require.NoError(t, repo.Create(ctx, product))

	// Each bump is a single UPDATE expression, so N racing readers must
	// land exactly N increments with nothing lost.
	const readers = 20
	var wg sync.WaitGroup
	errs := make(chan error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.IncrementViewCount(ctx, product.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(readers), found.ViewCount)
}

func TestProductRepository_ActiveOnlyLookups(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	repo := persistence.NewGormProductRepository(tdb.DB)
	ctx := context.Background()

	vendorID := tdb.CreateTestVendor("vendor@example.com", "free")
	categoryID := tdb.CreateTestCategory("Electronics", "electronics")

	product := newTestProduct(t, vendorID, categoryID, "Solar Lamp", "solar-lamp")
	product.Deactivate()
	require.NoError(t, repo.Create(ctx, product))

	_, err := repo.FindActiveBySlug(ctx, "solar-lamp")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindActiveByID(ctx, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// The owner path still sees the listing
	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestProductRepository_CountByVendor(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	repo := persistence.NewGormProductRepository(tdb.DB)
	ctx := context.Background()

	vendorID := tdb.CreateTestVendor("vendor@example.com", "free")
	categoryID := tdb.CreateTestCategory("Electronics", "electronics")

	active := newTestProduct(t, vendorID, categoryID, "Lamp A", "lamp-a")
	require.NoError(t, repo.Create(ctx, active))

	inactive := newTestProduct(t, vendorID, categoryID, "Lamp B", "lamp-b")
	inactive.Deactivate()
	require.NoError(t, repo.Create(ctx, inactive))

	// Quota counting includes deactivated listings
	count, err := repo.CountByVendor(ctx, vendorID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	activeCount, err := repo.CountByVendor(ctx, vendorID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), activeCount)
}
