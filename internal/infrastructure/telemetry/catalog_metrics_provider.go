// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormCatalogMetricsProvider implements CatalogMetricsProvider using GORM.
// It queries the products and profiles tables directly for aggregated metrics.
type GormCatalogMetricsProvider struct {
	db *gorm.DB
}

// NewGormCatalogMetricsProvider creates a new GormCatalogMetricsProvider.
func NewGormCatalogMetricsProvider(db *gorm.DB) *GormCatalogMetricsProvider {
	return &GormCatalogMetricsProvider{db: db}
}

// GetActiveListingsByTier returns the number of active products per vendor tier.
func (p *GormCatalogMetricsProvider) GetActiveListingsByTier(ctx context.Context) (map[string]int64, error) {
	type result struct {
		VendorTier string `gorm:"column:vendor_tier"`
		Listings   int64  `gorm:"column:listings"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("products").
		Select("profiles.vendor_tier, COUNT(products.id) as listings").
		Joins("JOIN profiles ON profiles.user_id = products.vendor_id").
		Where("products.is_active = ?", true).
		Group("profiles.vendor_tier").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.VendorTier] = r.Listings
	}

	return m, nil
}

// GetLowStockListingCount returns count of active products at or below the threshold.
func (p *GormCatalogMetricsProvider) GetLowStockListingCount(ctx context.Context, threshold int64) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("products").
		Where("is_active = ?", true).
		Where("stock_quantity <= ?", threshold).
		Count(&count).Error

	return count, err
}
