package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/catalog"
	"github.com/sokohub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles the flat category taxonomy. Any signed-in
// account may create; changing existing categories is admin only, and
// the handler enforces the roles.
type CategoryService struct {
	catRepo     catalog.CategoryRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
	events      shared.EventPublisher
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CategoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	catRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		catRepo:     catRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a category. Names are unique case-insensitively; slugs
// disambiguate with a numeric suffix like product slugs do.
func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*CategoryResult, error) {
	exists, err := s.catRepo.ExistsByName(ctx, input.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_CATEGORY", "A category with this name already exists")
	}

	category, err := catalog.NewCategory(input.Name, input.Description)
	if err != nil {
		return nil, err
	}

	base := category.Slug
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := catalog.NextSlug(base, attempt)
		taken, err := s.catRepo.SlugExists(ctx, candidate, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		category.SetSlug(candidate)
		err = s.catRepo.Create(ctx, category)
		if err == nil {
			if s.events != nil {
				_ = s.events.Publish(ctx, category.GetDomainEvents()...)
				category.ClearDomainEvents()
			}
			s.logger.Info("Category created",
				zap.String("category_id", category.ID.String()),
				zap.String("slug", category.Slug))
			return newCategoryResult(category), nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
		// The lower(name) index fires here too when a concurrent create
		// wins the same name. Our row was rejected, so any row holding
		// the name now is the winner, not a slug collision.
		exists, checkErr := s.catRepo.ExistsByName(ctx, input.Name, uuid.Nil)
		if checkErr != nil {
			return nil, checkErr
		}
		if exists {
			return nil, shared.NewDomainError("DUPLICATE_CATEGORY", "A category with this name already exists")
		}
	}
	return nil, shared.NewDomainError("SLUG_EXHAUSTED", "Could not find a free slug for this category name")
}

// Update renames a category or changes its description
func (s *CategoryService) Update(ctx context.Context, input UpdateCategoryInput) (*CategoryResult, error) {
	category, err := s.catRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	slugChanged := false
	if input.Name != nil {
		exists, err := s.catRepo.ExistsByName(ctx, *input.Name, category.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("DUPLICATE_CATEGORY", "A category with this name already exists")
		}
		changed, err := category.Rename(*input.Name)
		if err != nil {
			return nil, err
		}
		slugChanged = changed
	}
	if input.Description != nil {
		category.SetDescription(*input.Description)
	}

	if !slugChanged {
		if err := s.catRepo.Update(ctx, category); err != nil {
			return nil, err
		}
		return newCategoryResult(category), nil
	}

	base := category.Slug
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := catalog.NextSlug(base, attempt)
		taken, err := s.catRepo.SlugExists(ctx, candidate, category.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		category.SetSlug(candidate)
		err = s.catRepo.Update(ctx, category)
		if err == nil {
			return newCategoryResult(category), nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
	}
	return nil, shared.NewDomainError("SLUG_EXHAUSTED", "Could not find a free slug for this category name")
}

// Delete removes an empty category. Categories still holding products
// cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, categoryID uuid.UUID) error {
	category, err := s.catRepo.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}

	filter := catalog.ProductFilter{CategoryID: &categoryID, Page: 1, PageSize: 1}
	_, count, err := s.productRepo.FindAllRanked(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("CATEGORY_IN_USE", "Cannot delete a category that still has products")
	}

	if err := s.catRepo.Delete(ctx, categoryID); err != nil {
		return err
	}

	s.logger.Info("Category deleted",
		zap.String("category_id", categoryID.String()),
		zap.String("name", category.Name))
	return nil
}

// GetBySlug returns one category
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryResult, error) {
	category, err := s.catRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return newCategoryResult(category), nil
}

// flatListCap bounds the unpaginated category list
const flatListCap = 500

// ListAll returns the whole taxonomy as a flat list for pickers
func (s *CategoryService) ListAll(ctx context.Context) ([]*CategoryRef, error) {
	filter := shared.Filter{Page: 1, PageSize: flatListCap, OrderBy: "name", OrderDir: "asc"}
	categories, _, err := s.catRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	refs := make([]*CategoryRef, len(categories))
	for i, c := range categories {
		refs[i] = &CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug}
	}
	return refs, nil
}

// List returns categories ordered by name
func (s *CategoryService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*CategoryResult], error) {
	categories, total, err := s.catRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	results := make([]*CategoryResult, len(categories))
	for i, c := range categories {
		results[i] = newCategoryResult(c)
	}
	paginated := shared.NewPaginated(results, total, filter.Page, filter.PageSize)
	return &paginated, nil
}
