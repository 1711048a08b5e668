package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sokohub/backend/internal/domain/catalog"
	"github.com/sokohub/backend/internal/domain/identity"
)

// CreateProductInput contains the input for creating a product
type CreateProductInput struct {
	VendorID      uuid.UUID
	CategoryID    uuid.UUID
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	ImageURL      string
}

// UpdateProductInput contains the input for updating a product. Nil
// pointers leave the current value untouched.
type UpdateProductInput struct {
	ProductID uuid.UUID
	ActorID   uuid.UUID
	ActorRole identity.Role

	Name          *string
	Description   *string
	CategoryID    *uuid.UUID
	Price         *decimal.Decimal
	StockQuantity *int
	ImageURL      *string
	IsActive      *bool
	Featured      *bool
}

// ProductResult is the product view returned by the catalog operations
type ProductResult struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    uuid.UUID       `json:"category_id"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	InStock       bool            `json:"in_stock"`
	ImageURL      string          `json:"image_url"`
	Slug          string          `json:"slug"`
	Featured      bool            `json:"featured"`
	IsActive      bool            `json:"is_active"`
	ViewCount     int64           `json:"view_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func newProductResult(p *catalog.Product) *ProductResult {
	return &ProductResult{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		VendorID:      p.VendorID,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		InStock:       p.InStock,
		ImageURL:      p.ImageURL,
		Slug:          p.Slug,
		Featured:      p.Featured,
		IsActive:      p.IsActive,
		ViewCount:     p.ViewCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func newProductResults(products []*catalog.Product) []*ProductResult {
	results := make([]*ProductResult, len(products))
	for i, p := range products {
		results[i] = newProductResult(p)
	}
	return results
}

// ContactInfoResult is the vendor contact card returned by a reveal
type ContactInfoResult struct {
	Phone         string `json:"phone"`
	Whatsapp      string `json:"whatsapp"`
	Email         string `json:"email"`
	BusinessName  string `json:"business_name"`
	BusinessPhone string `json:"business_phone"`
}

// VendorStatsResult is the vendor dashboard snapshot. ProductsRemaining
// is nil for unlimited tiers.
type VendorStatsResult struct {
	TotalProducts     int64               `json:"total_products"`
	ActiveProducts    int64               `json:"active_products"`
	TotalViews        int64               `json:"total_views"`
	TotalContacts     int64               `json:"total_contacts"`
	Tier              identity.VendorTier `json:"tier"`
	ProductLimit      *int                `json:"product_limit"`
	ProductsRemaining *int                `json:"products_remaining"`
}

// CreateCategoryInput contains the input for creating a category
type CreateCategoryInput struct {
	Name        string
	Description string
}

// UpdateCategoryInput contains the input for updating a category
type UpdateCategoryInput struct {
	CategoryID  uuid.UUID
	Name        *string
	Description *string
}

// CategoryRef is the slim category reference used by flat listings
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// CategoryResult is the category view returned by the catalog operations
type CategoryResult struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newCategoryResult(c *catalog.Category) *CategoryResult {
	return &CategoryResult{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
