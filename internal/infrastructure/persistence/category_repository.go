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

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create creates a new category
func (r *GormCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	model := models.CategoryModelFromDomain(category)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing category
func (r *GormCategoryRepository) Update(ctx context.Context, category *catalog.Category) error {
	model := models.CategoryModelFromDomain(category)
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

// Delete deletes a category by ID
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a category by slug
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	var model models.CategoryModel
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

// FindAll returns categories matching the filter, ordered by name
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*catalog.Category, int64, error) {
	var categoryModels []*models.CategoryModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.CategoryModel{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.OrderBy, CategorySortFields, "name")
	sortOrder := filter.OrderDir
	if sortBy == "name" && sortOrder == "" {
		sortOrder = "asc"
	}
	query = query.Order(sortBy + " " + ValidateSortOrder(sortOrder))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	query = query.Offset((page - 1) * pageSize).Limit(pageSize)

	if err := query.Find(&categoryModels).Error; err != nil {
		return nil, 0, err
	}

	categories := make([]*catalog.Category, len(categoryModels))
	for i, m := range categoryModels {
		categories[i] = m.ToDomain()
	}
	return categories, total, nil
}

// ExistsByName checks for a name collision, case-insensitively,
// excluding the given ID
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SlugExists checks whether a slug is taken, excluding the given ID
func (r *GormCategoryRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
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
