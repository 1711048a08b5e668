package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFilter contains filter options for listing products
type ProductFilter struct {
	// Free-text search over name, description, and category name
	Search string

	CategoryID *uuid.UUID
	VendorID   *uuid.UUID
	InStock    *bool
	Featured   *bool
	IsActive   *bool

	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal

	// Substring match on the vendor profile's location fields
	City     string
	District string

	// Pagination
	Page     int
	PageSize int

	// Optional explicit sort field; when empty, listings are ordered by
	// vendor tier priority descending, then created_at descending
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewProductFilter creates a filter that lists active products
func NewProductFilter() ProductFilter {
	active := true
	return ProductFilter{
		IsActive: &active,
		Page:     1,
		PageSize: 20,
	}
}

// WithCategory sets the category filter
func (f ProductFilter) WithCategory(categoryID uuid.UUID) ProductFilter {
	f.CategoryID = &categoryID
	return f
}

// WithVendor sets the vendor filter
func (f ProductFilter) WithVendor(vendorID uuid.UUID) ProductFilter {
	f.VendorID = &vendorID
	return f
}

// WithSearch sets the free-text search term
func (f ProductFilter) WithSearch(search string) ProductFilter {
	f.Search = search
	return f
}

// WithPagination sets the page and page size
func (f ProductFilter) WithPagination(page, pageSize int) ProductFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// VendorProductStats is the aggregate snapshot backing the vendor dashboard
type VendorProductStats struct {
	TotalProducts  int64
	ActiveProducts int64
	TotalViews     int64
	TotalContacts  int64
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create creates a new product. Returns shared.ErrAlreadyExists when
	// the slug collides with a concurrent insert so callers can retry
	// with the next suffix.
	Create(ctx context.Context, product *Product) error

	// Update updates an existing product, with the same slug-collision
	// contract as Create
	Update(ctx context.Context, product *Product) error

	// Delete hard-deletes a product by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a product by ID regardless of its active state.
	// Owner and admin paths use this.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by slug regardless of its active state
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// FindActiveByID finds an active product by ID. Deactivated products
	// surface as shared.ErrNotFound; public detail reads use this.
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindActiveBySlug finds an active product by slug, with the same
	// not-found contract as FindActiveByID
	FindActiveBySlug(ctx context.Context, slug string) (*Product, error)

	// FindAllRanked returns products matching the filter ordered by vendor
	// tier priority (featured first), then creation time descending.
	// Products whose vendor has no profile rank last.
	FindAllRanked(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)

	// FindFeatured returns active products from featured-tier vendors,
	// newest first, capped at limit
	FindFeatured(ctx context.Context, limit int) ([]*Product, error)

	// FindByVendor returns all products owned by a vendor, newest first
	FindByVendor(ctx context.Context, vendorID uuid.UUID, filter ProductFilter) ([]*Product, int64, error)

	// CountByVendor counts a vendor's products, optionally active only.
	// Quota enforcement reads this.
	CountByVendor(ctx context.Context, vendorID uuid.UUID, activeOnly bool) (int64, error)

	// IncrementViewCount atomically adds one to view_count
	IncrementViewCount(ctx context.Context, id uuid.UUID) error

	// IncrementContactReveals atomically adds one to contact_reveal_count
	IncrementContactReveals(ctx context.Context, id uuid.UUID) error

	// SlugExists checks whether a slug is taken, excluding the given ID
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	// StatsByVendor aggregates product counts and counter totals for a vendor
	StatsByVendor(ctx context.Context, vendorID uuid.UUID) (*VendorProductStats, error)
}
