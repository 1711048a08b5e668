package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/catalog"
	"github.com/sokohub/backend/internal/domain/shared"
	"github.com/sokohub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// tierPriorityExpr ranks vendors so paid tiers list first. Products whose
// vendor has no profile row fall into the ELSE bucket and rank last.
const tierPriorityExpr = `CASE profiles.vendor_tier ` +
	`WHEN 'featured' THEN 4 ` +
	`WHEN 'premium' THEN 3 ` +
	`WHEN 'basic' THEN 2 ` +
	`WHEN 'free' THEN 1 ` +
	`ELSE 0 END`

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create creates a new product. A slug collision surfaces as
// shared.ErrAlreadyExists so the caller can retry with the next suffix.
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing product, with the same slug-collision
// contract as Create
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete hard-deletes a product by ID
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a product by slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByID finds an active product by ID. Deactivated products
// are treated as not found.
func (r *GormProductRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("is_active = ?", true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveBySlug finds an active product by slug, with the same
// not-found contract as FindActiveByID
func (r *GormProductRepository) FindActiveBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		Where("is_active = ?", true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllRanked returns products matching the filter ordered by vendor
// tier priority, then creation time descending
func (r *GormProductRepository) FindAllRanked(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	var productModels []*models.ProductModel
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Joins("LEFT JOIN profiles ON profiles.user_id = products.vendor_id")
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.SortBy != "" {
		sortBy := ValidateSortField(filter.SortBy, ProductSortFields, "created_at")
		query = query.Order("products." + sortBy + " " + ValidateSortOrder(filter.SortOrder))
	} else {
		query = query.Order(tierPriorityExpr + " DESC").Order("products.created_at DESC")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	query = query.Offset((page - 1) * pageSize).Limit(pageSize)

	if err := query.Select("products.*").Find(&productModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainProducts(productModels), total, nil
}

// applyFilter translates a ProductFilter into WHERE clauses. The caller
// must have joined profiles already; the categories join is added here
// only when search needs it.
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.
			Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Where("products.name ILIKE ? OR products.description ILIKE ? OR categories.name ILIKE ?", pattern, pattern, pattern)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.VendorID != nil {
		query = query.Where("products.vendor_id = ?", *filter.VendorID)
	}
	if filter.InStock != nil {
		query = query.Where("products.in_stock = ?", *filter.InStock)
	}
	if filter.Featured != nil {
		query = query.Where("products.featured = ?", *filter.Featured)
	}
	if filter.IsActive != nil {
		query = query.Where("products.is_active = ?", *filter.IsActive)
	}
	if filter.PriceMin != nil {
		query = query.Where("products.price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("products.price <= ?", *filter.PriceMax)
	}
	if filter.City != "" {
		query = query.Where("profiles.city ILIKE ?", "%"+filter.City+"%")
	}
	if filter.District != "" {
		query = query.Where("profiles.district ILIKE ?", "%"+filter.District+"%")
	}
	return query
}

// FindFeatured returns active products from featured-tier vendors,
// newest first, capped at limit
func (r *GormProductRepository) FindFeatured(ctx context.Context, limit int) ([]*catalog.Product, error) {
	var productModels []*models.ProductModel
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Joins("JOIN profiles ON profiles.user_id = products.vendor_id").
		Where("profiles.vendor_tier = ?", "featured").
		Where("products.is_active = ?", true).
		Order("products.created_at DESC").
		Limit(limit).
		Select("products.*").
		Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(productModels), nil
}

// FindByVendor returns all products owned by a vendor, newest first
func (r *GormProductRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID, filter catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	var productModels []*models.ProductModel
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("vendor_id = ?", vendorID)
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&productModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainProducts(productModels), total, nil
}

// CountByVendor counts a vendor's products, optionally active only
func (r *GormProductRepository) CountByVendor(ctx context.Context, vendorID uuid.UUID, activeOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("vendor_id = ?", vendorID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// IncrementViewCount atomically adds one to view_count
func (r *GormProductRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.incrementCounter(ctx, id, "view_count")
}

// IncrementContactReveals atomically adds one to contact_reveal_count
func (r *GormProductRepository) IncrementContactReveals(ctx context.Context, id uuid.UUID) error {
	return r.incrementCounter(ctx, id, "contact_reveal_count")
}

func (r *GormProductRepository) incrementCounter(ctx context.Context, id uuid.UUID, column string) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SlugExists checks whether a slug is taken, excluding the given ID
func (r *GormProductRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// StatsByVendor aggregates product counts and counter totals for a vendor
func (r *GormProductRepository) StatsByVendor(ctx context.Context, vendorID uuid.UUID) (*catalog.VendorProductStats, error) {
	var row struct {
		TotalProducts  int64
		ActiveProducts int64
		TotalViews     int64
		TotalContacts  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select(`COUNT(*) AS total_products, `+
			`COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) AS active_products, `+
			`COALESCE(SUM(view_count), 0) AS total_views, `+
			`COALESCE(SUM(contact_reveal_count), 0) AS total_contacts`).
		Where("vendor_id = ?", vendorID).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	return &catalog.VendorProductStats{
		TotalProducts:  row.TotalProducts,
		ActiveProducts: row.ActiveProducts,
		TotalViews:     row.TotalViews,
		TotalContacts:  row.TotalContacts,
	}, nil
}

func toDomainProducts(productModels []*models.ProductModel) []*catalog.Product {
	products := make([]*catalog.Product, len(productModels))
	for i, m := range productModels {
		products[i] = m.ToDomain()
	}
	return products
}
