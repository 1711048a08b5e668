package handler

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sokohub/backend/internal/domain/catalog"
	"github.com/sokohub/backend/internal/domain/shared"
)

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=200" example:"Solar Lamp"`
	Description   string  `json:"description" binding:"omitempty,max=5000"`
	CategoryID    string  `json:"category_id" binding:"required,uuid"`
	Price         float64 `json:"price" binding:"required,gt=0" example:"12500.00"`
	StockQuantity int     `json:"stock_quantity" binding:"gte=0" example:"25"`
	ImageURL      string  `json:"image_url" binding:"omitempty,url,max=500"`
}

// UpdateProductRequest represents the request body for updating a product.
// All fields are optional; absent fields keep their current value.
type UpdateProductRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=2,max=200"`
	Description   *string  `json:"description" binding:"omitempty,max=5000"`
	CategoryID    *string  `json:"category_id" binding:"omitempty,uuid"`
	Price         *float64 `json:"price" binding:"omitempty,gt=0"`
	StockQuantity *int     `json:"stock_quantity" binding:"omitempty,gte=0"`
	ImageURL      *string  `json:"image_url" binding:"omitempty,max=500"`
	IsActive      *bool    `json:"is_active"`
	Featured      *bool    `json:"featured"`
}

// ListProductsRequest represents the query parameters for product browsing
type ListProductsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=200"`

	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	VendorID   string `form:"vendor_id" binding:"omitempty,uuid"`
	InStock    *bool  `form:"in_stock"`
	Featured   *bool  `form:"featured"`

	PriceMin *float64 `form:"price_min" binding:"omitempty,gte=0"`
	PriceMax *float64 `form:"price_max" binding:"omitempty,gte=0"`

	City     string `form:"city" binding:"omitempty,max=100"`
	District string `form:"district" binding:"omitempty,max=100"`

	SortBy string `form:"sort_by" binding:"omitempty,oneof=created_at price view_count"`
}

// toFilter converts the query parameters into the repository filter
func (r ListProductsRequest) toFilter() (catalog.ProductFilter, error) {
	filter := catalog.ProductFilter{
		Search:   r.Search,
		InStock:  r.InStock,
		Featured: r.Featured,
		City:     r.City,
		District: r.District,
		Page:     r.Page,
		PageSize: r.PageSize,
		SortBy:   r.SortBy,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	if r.CategoryID != "" {
		id, err := uuid.Parse(r.CategoryID)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_CATEGORY_ID", "Invalid category ID")
		}
		filter.CategoryID = &id
	}
	if r.VendorID != "" {
		id, err := uuid.Parse(r.VendorID)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_VENDOR_ID", "Invalid vendor ID")
		}
		filter.VendorID = &id
	}

	if r.PriceMin != nil {
		min := decimal.NewFromFloat(*r.PriceMin)
		filter.PriceMin = &min
	}
	if r.PriceMax != nil {
		max := decimal.NewFromFloat(*r.PriceMax)
		filter.PriceMax = &max
	}

	return filter, nil
}
