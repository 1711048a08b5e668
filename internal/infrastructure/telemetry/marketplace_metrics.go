// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// MarketplaceMetrics tracks marketplace activity.
// It counts listing creation, product views, contact reveals, and quota
// rejections, and periodically collects gauge metrics over the catalog.
type MarketplaceMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	listingCreatedTotal *Counter
	productViewTotal    *Counter
	contactRevealTotal  *Counter
	quotaRejectedTotal  *Counter

	// Gauge metrics (point-in-time values)
	activeListings   *Gauge
	lowStockListings *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	catalogProvider CatalogMetricsProvider
}

// CatalogMetricsProvider provides catalog data for periodic metrics collection.
// This interface allows the telemetry layer to query catalog state without
// depending on the catalog domain directly.
type CatalogMetricsProvider interface {
	// GetActiveListingsByTier returns the number of active products per vendor tier
	GetActiveListingsByTier(ctx context.Context) (map[string]int64, error)

	// GetLowStockListingCount returns count of active products at or below the threshold
	GetLowStockListingCount(ctx context.Context, threshold int64) (int64, error)
}

// MarketplaceMetricsConfig holds configuration for marketplace metrics.
type MarketplaceMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration // Default: 5 minutes
	CatalogProvider   CatalogMetricsProvider
	LowStockThreshold int64 // Default: 3
}

// defaultLowStockThreshold is the stock level at or below which a listing
// counts as low stock during periodic collection.
const defaultLowStockThreshold int64 = 3

// NewMarketplaceMetrics creates a new MarketplaceMetrics instance.
func NewMarketplaceMetrics(cfg MarketplaceMetricsConfig) (*MarketplaceMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mm := &MarketplaceMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		catalogProvider: cfg.CatalogProvider,
	}

	// Initialize counter metrics
	var err error

	mm.listingCreatedTotal, err = NewCounter(
		cfg.Meter,
		"marketplace_listing_created_total",
		"Total number of product listings created",
		"{listings}",
	)
	if err != nil {
		return nil, err
	}

	mm.productViewTotal, err = NewCounter(
		cfg.Meter,
		"marketplace_product_view_total",
		"Total number of product detail views",
		"{views}",
	)
	if err != nil {
		return nil, err
	}

	mm.contactRevealTotal, err = NewCounter(
		cfg.Meter,
		"marketplace_contact_reveal_total",
		"Total number of vendor contact reveals",
		"{reveals}",
	)
	if err != nil {
		return nil, err
	}

	mm.quotaRejectedTotal, err = NewCounter(
		cfg.Meter,
		"marketplace_quota_rejected_total",
		"Total number of listing creations rejected by tier quota",
		"{rejections}",
	)
	if err != nil {
		return nil, err
	}

	// Gauge metrics
	mm.activeListings, err = NewGauge(
		cfg.Meter,
		"marketplace_active_listings",
		"Current number of active product listings",
		"{listings}",
	)
	if err != nil {
		return nil, err
	}

	mm.lowStockListings, err = NewGauge(
		cfg.Meter,
		"marketplace_low_stock_listings",
		"Number of active listings at or below the stock threshold",
		"{listings}",
	)
	if err != nil {
		return nil, err
	}

	return mm, nil
}

// =============================================================================
// Listing Metrics
// =============================================================================

// RecordListingCreated records a successful listing creation.
// This should be called from the application layer when a product is created.
func (mm *MarketplaceMetrics) RecordListingCreated(ctx context.Context, tier string) {
	mm.listingCreatedTotal.Inc(ctx,
		AttrVendorTier.String(tier),
	)
}

// RecordQuotaRejected records a listing creation rejected by the tier quota.
func (mm *MarketplaceMetrics) RecordQuotaRejected(ctx context.Context, tier string) {
	mm.quotaRejectedTotal.Inc(ctx,
		AttrVendorTier.String(tier),
	)
}

// =============================================================================
// Engagement Metrics
// =============================================================================

// RecordProductView records a product detail view.
func (mm *MarketplaceMetrics) RecordProductView(ctx context.Context) {
	mm.productViewTotal.Inc(ctx)
}

// RecordContactReveal records an authenticated contact reveal.
func (mm *MarketplaceMetrics) RecordContactReveal(ctx context.Context) {
	mm.contactRevealTotal.Inc(ctx)
}

// =============================================================================
// Catalog Gauges
// =============================================================================

// RecordActiveListings records the current active listing count for a tier.
// This is a gauge metric that should be updated periodically.
func (mm *MarketplaceMetrics) RecordActiveListings(ctx context.Context, tier string, count int64) {
	mm.activeListings.Record(ctx, count,
		AttrVendorTier.String(tier),
	)
}

// RecordLowStockListings records the number of listings at or below the
// stock threshold. This is a gauge metric that should be updated periodically.
func (mm *MarketplaceMetrics) RecordLowStockListings(ctx context.Context, count int64) {
	mm.lowStockListings.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects catalog metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (mm *MarketplaceMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	mm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go mm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (mm *MarketplaceMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	mm.collectCatalogMetrics(ctx)

	for {
		select {
		case <-mm.stopChan:
			mm.logger.Info("Stopping periodic marketplace metrics collection")
			return
		case <-ctx.Done():
			mm.logger.Info("Context cancelled, stopping periodic marketplace metrics collection")
			return
		case <-ticker.C:
			mm.collectCatalogMetrics(ctx)
		}
	}
}

// collectCatalogMetrics collects catalog gauge metrics.
func (mm *MarketplaceMetrics) collectCatalogMetrics(ctx context.Context) {
	if mm.catalogProvider == nil {
		mm.logger.Debug("No catalog provider configured, skipping catalog metrics collection")
		return
	}

	byTier, err := mm.catalogProvider.GetActiveListingsByTier(ctx)
	if err != nil {
		mm.logger.Warn("Failed to get active listing counts", zap.Error(err))
	} else {
		for tier, count := range byTier {
			mm.RecordActiveListings(ctx, tier, count)
		}
	}

	lowStock, err := mm.catalogProvider.GetLowStockListingCount(ctx, defaultLowStockThreshold)
	if err != nil {
		mm.logger.Warn("Failed to get low stock listing count", zap.Error(err))
	} else {
		mm.RecordLowStockListings(ctx, lowStock)
	}
}

// Stop stops the periodic collection.
func (mm *MarketplaceMetrics) Stop() {
	mm.stopOnce.Do(func() {
		close(mm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewMarketplaceMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
