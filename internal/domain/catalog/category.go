package catalog

import (
	"strings"
	"time"

	"github.com/sokohub/backend/internal/domain/shared"
)

// Category organizes products. Names are unique case-insensitively and the
// slug is derived from the name.
type Category struct {
	shared.BaseAggregateRoot
	Name        string
	Slug        string
	Description string
}

// TableName returns the database table name
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, description string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Slug:              Slugify(name),
		Description:       strings.TrimSpace(description),
	}

	category.AddDomainEvent(NewCategoryCreatedEvent(category))

	return category, nil
}

// Rename changes the category name and regenerates the base slug.
// Returns true when the slug changed and needs re-disambiguation.
func (c *Category) Rename(name string) (bool, error) {
	if err := validateCategoryName(name); err != nil {
		return false, err
	}

	name = strings.TrimSpace(name)
	slugChanged := Slugify(name) != c.Slug

	c.Name = name
	if slugChanged {
		c.Slug = Slugify(name)
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return slugChanged, nil
}

// SetDescription updates the description
func (c *Category) SetDescription(description string) {
	c.Description = strings.TrimSpace(description)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetSlug overrides the slug after uniqueness disambiguation
func (c *Category) SetSlug(slug string) {
	c.Slug = slug
	c.UpdatedAt = time.Now()
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
