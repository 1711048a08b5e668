package report

import (
	"context"
	"time"

	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/domain/report"
	"go.uber.org/zap"
)

const (
	counterWindow = 30 * 24 * time.Hour
	recentWindow  = 7 * 24 * time.Hour
	topLimit      = 10
	recentLimit   = 20
)

// DashboardService assembles the admin dashboard from live queries
type DashboardService struct {
	dashboardRepo report.DashboardRepository
	profileRepo   identity.ProfileRepository
	logger        *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	dashboardRepo report.DashboardRepository,
	profileRepo identity.ProfileRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		profileRepo:   profileRepo,
		logger:        logger,
	}
}

// Stats computes the marketplace KPI snapshot
func (s *DashboardService) Stats(ctx context.Context) (*report.DashboardStats, error) {
	now := time.Now()

	total, active, err := s.dashboardRepo.ProductCounts(ctx)
	if err != nil {
		return nil, err
	}

	vendors, err := s.profileRepo.CountByRole(ctx, identity.RoleVendor)
	if err != nil {
		return nil, err
	}
	customers, err := s.profileRepo.CountByRole(ctx, identity.RoleCustomer)
	if err != nil {
		return nil, err
	}

	views, contacts, err := s.dashboardRepo.CounterTotalsSince(ctx, now.Add(-counterWindow))
	if err != nil {
		return nil, err
	}

	tiers, err := s.profileRepo.CountByTier(ctx)
	if err != nil {
		return nil, err
	}

	topByViews, err := s.dashboardRepo.TopProducts(ctx, report.RankByViews, topLimit)
	if err != nil {
		return nil, err
	}
	topByContacts, err := s.dashboardRepo.TopProducts(ctx, report.RankByContacts, topLimit)
	if err != nil {
		return nil, err
	}

	recent, err := s.dashboardRepo.RecentProducts(ctx, now.Add(-recentWindow), recentLimit)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Dashboard stats computed",
		zap.Int64("total_products", total),
		zap.Int64("vendors", vendors))

	return &report.DashboardStats{
		TotalProducts:      total,
		ActiveProducts:     active,
		TotalVendors:       vendors,
		TotalCustomers:     customers,
		ViewsLast30Days:    views,
		ContactsLast30Days: contacts,
		TierDistribution:   tiers,
		TopByViews:         topByViews,
		TopByContacts:      topByContacts,
		Recent:             recent,
		GeneratedAt:        now,
	}, nil
}
