package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sokohub/backend/internal/domain/shared"
)

// Product is a marketplace listing owned by a vendor. Slugs are globally
// unique and regenerated only when the name changes. The view and
// contact-reveal counters are incremented atomically at the storage layer,
// never through this aggregate.
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	CategoryID  uuid.UUID
	VendorID    uuid.UUID

	Price         decimal.Decimal
	StockQuantity int
	InStock       bool

	ImageURL string
	Slug     string

	Featured bool
	IsActive bool

	ViewCount          int64
	ContactRevealCount int64
}

// TableName returns the database table name
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product listing
func NewProduct(vendorID, categoryID uuid.UUID, name, description string, price decimal.Decimal, stockQuantity int) (*Product, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR_ID", "Vendor ID cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY_ID", "Category ID cannot be empty")
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateStock(stockQuantity); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       strings.TrimSpace(description),
		CategoryID:        categoryID,
		VendorID:          vendorID,
		Price:             price,
		StockQuantity:     stockQuantity,
		InStock:           stockQuantity > 0,
		Slug:              Slugify(name),
		IsActive:          true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Rename changes the product name and regenerates the base slug.
// Returns true when the slug changed and needs re-disambiguation.
func (p *Product) Rename(name string) (bool, error) {
	if err := validateProductName(name); err != nil {
		return false, err
	}

	name = strings.TrimSpace(name)
	slugChanged := Slugify(name) != p.Slug

	p.Name = name
	if slugChanged {
		p.Slug = Slugify(name)
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return slugChanged, nil
}

// SetDescription updates the description
func (p *Product) SetDescription(description string) {
	p.Description = strings.TrimSpace(description)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetCategory moves the product to another category
func (p *Product) SetCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY_ID", "Category ID cannot be empty")
	}

	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrice updates the price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}

	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetStock updates the stock quantity. A zero quantity clears the in-stock
// flag; a positive one sets it.
func (p *Product) SetStock(quantity int) error {
	if err := validateStock(quantity); err != nil {
		return err
	}

	p.StockQuantity = quantity
	p.InStock = quantity > 0
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImageURL sets the product image reference
func (p *Product) SetImageURL(imageURL string) error {
	if len(imageURL) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}

	p.ImageURL = strings.TrimSpace(imageURL)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetFeatured toggles the featured flag
func (p *Product) SetFeatured(featured bool) {
	p.Featured = featured
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate makes the product visible in listings
func (p *Product) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate soft-removes the product from listings
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetSlug overrides the slug after uniqueness disambiguation
func (p *Product) SetSlug(slug string) {
	p.Slug = slug
	p.UpdatedAt = time.Now()
}

// IsAvailable returns true when the product can be purchased
func (p *Product) IsAvailable() bool {
	return p.IsActive && p.InStock && p.StockQuantity > 0
}

// IsOwnedBy returns true when the given user is the product's vendor
func (p *Product) IsOwnedBy(userID uuid.UUID) bool {
	return p.VendorID == userID
}

// Validation functions

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	return nil
}

func validateStock(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}
	return nil
}
