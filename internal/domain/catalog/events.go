package catalog

import (
	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeProduct  = "Product"
	AggregateTypeCategory = "Category"
)

// Catalog domain event types
const (
	EventTypeProductCreated  = "ProductCreated"
	EventTypeCategoryCreated = "CategoryCreated"
	EventTypeContactRevealed = "ContactRevealed"
)

// ProductCreatedEvent is published when a product is listed
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	VendorID uuid.UUID `json:"vendor_id"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		Name:            product.Name,
		Slug:            product.Slug,
		VendorID:        product.VendorID,
	}
}

// CategoryCreatedEvent is published when a category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(category *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, AggregateTypeCategory, category.ID),
		Name:            category.Name,
		Slug:            category.Slug,
	}
}

// ContactRevealedEvent is published when a viewer reveals vendor contacts
type ContactRevealedEvent struct {
	shared.BaseDomainEvent
	VendorID uuid.UUID `json:"vendor_id"`
	ViewerID uuid.UUID `json:"viewer_id"`
}

// NewContactRevealedEvent creates a new ContactRevealedEvent
func NewContactRevealedEvent(product *Product, viewerID uuid.UUID) *ContactRevealedEvent {
	return &ContactRevealedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactRevealed, AggregateTypeProduct, product.ID),
		VendorID:        product.VendorID,
		ViewerID:        viewerID,
	}
}
