package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sokohub/backend/internal/domain/identity"
)

// DashboardStats is the read model behind the admin dashboard. Every request
// recomputes it from the current store; there is no materialization.
type DashboardStats struct {
	TotalProducts  int64 `json:"total_products"`
	ActiveProducts int64 `json:"active_products"`
	TotalVendors   int64 `json:"total_vendors"`
	TotalCustomers int64 `json:"total_customers"`

	// Trailing 30-day counter totals, windowed by product creation time
	ViewsLast30Days    int64 `json:"views_last_30_days"`
	ContactsLast30Days int64 `json:"contacts_last_30_days"`

	TierDistribution map[identity.VendorTier]int64 `json:"tier_distribution"`

	TopByViews    []ProductRank   `json:"top_by_views"`
	TopByContacts []ProductRank   `json:"top_by_contacts"`
	Recent        []RecentProduct `json:"recent_products"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ProductRank is one row of a top-N product ranking
type ProductRank struct {
	ProductID          uuid.UUID       `json:"product_id"`
	Name               string          `json:"name"`
	Slug               string          `json:"slug"`
	Price              decimal.Decimal `json:"price"`
	ViewCount          int64           `json:"view_count"`
	ContactRevealCount int64           `json:"contact_reveal_count"`
}

// RecentProduct is a newly listed product with its vendor's email
type RecentProduct struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	VendorEmail string          `json:"vendor_email"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DashboardRepository runs the aggregate queries backing the dashboard
type DashboardRepository interface {
	// ProductCounts returns total and active product counts
	ProductCounts(ctx context.Context) (total, active int64, err error)

	// CounterTotalsSince sums view and contact counters across products
	// created after the cutoff
	CounterTotalsSince(ctx context.Context, cutoff time.Time) (views, contacts int64, err error)

	// TopProducts returns the top-N products ordered by the given counter
	TopProducts(ctx context.Context, orderBy RankOrder, limit int) ([]ProductRank, error)

	// RecentProducts returns products created after the cutoff, newest
	// first, capped at limit, joined with the vendor email
	RecentProducts(ctx context.Context, cutoff time.Time, limit int) ([]RecentProduct, error)
}

// RankOrder selects the counter a top-N ranking is ordered by
type RankOrder string

const (
	RankByViews    RankOrder = "view_count"
	RankByContacts RankOrder = "contact_reveal_count"
)
