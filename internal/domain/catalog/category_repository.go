package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *Category) error

	// Update updates an existing category
	Update(ctx context.Context, category *Category) error

	// Delete deletes a category by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAll returns categories matching the filter, ordered by name
	FindAll(ctx context.Context, filter shared.Filter) ([]*Category, int64, error)

	// ExistsByName checks for a name collision, case-insensitively,
	// excluding the given ID (uuid.Nil for creations)
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// SlugExists checks whether a slug is taken, excluding the given ID
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}
