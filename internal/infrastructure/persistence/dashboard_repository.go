package persistence

import (
	"context"
	"time"

	"github.com/sokohub/backend/internal/domain/report"
	"github.com/sokohub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDashboardRepository implements report.DashboardRepository using GORM
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// ProductCounts returns total and active product counts
func (r *GormDashboardRepository) ProductCounts(ctx context.Context) (int64, int64, error) {
	var row struct {
		Total  int64
		Active int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select(`COUNT(*) AS total, ` +
			`COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) AS active`).
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Total, row.Active, nil
}

// CounterTotalsSince sums view and contact counters across products
// created after the cutoff
func (r *GormDashboardRepository) CounterTotalsSince(ctx context.Context, cutoff time.Time) (int64, int64, error) {
	var row struct {
		Views    int64
		Contacts int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select(`COALESCE(SUM(view_count), 0) AS views, `+
			`COALESCE(SUM(contact_reveal_count), 0) AS contacts`).
		Where("created_at >= ?", cutoff).
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Views, row.Contacts, nil
}

// TopProducts returns the top-N active products ordered by the given
// counter. Deactivated listings never rank.
func (r *GormDashboardRepository) TopProducts(ctx context.Context, orderBy report.RankOrder, limit int) ([]report.ProductRank, error) {
	column := "view_count"
	if orderBy == report.RankByContacts {
		column = "contact_reveal_count"
	}

	var ranks []report.ProductRank
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select("id AS product_id, name, slug, price, view_count, contact_reveal_count").
		Where("is_active = ?", true).
		Order(column + " DESC").
		Limit(limit).
		Scan(&ranks).Error; err != nil {
		return nil, err
	}
	return ranks, nil
}

// RecentProducts returns products created after the cutoff, newest first,
// capped at limit, joined with the vendor email
func (r *GormDashboardRepository) RecentProducts(ctx context.Context, cutoff time.Time, limit int) ([]report.RecentProduct, error) {
	var recent []report.RecentProduct
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select("products.id AS product_id, products.name, products.slug, products.price, users.email AS vendor_email, products.created_at").
		Joins("JOIN users ON users.id = products.vendor_id").
		Where("products.created_at >= ?", cutoff).
		Order("products.created_at DESC").
		Limit(limit).
		Scan(&recent).Error; err != nil {
		return nil, err
	}
	return recent, nil
}
