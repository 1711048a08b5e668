package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sokohub/backend/internal/domain/catalog"
	"github.com/sokohub/backend/internal/domain/shared"
)

// CategoryModel is the categories row. Slug carries the unique index
// that backs slug-collision suffixing.
type CategoryModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex:idx_categories_slug"`
	Description string `gorm:"type:text"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
	}
}

func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Slug = c.Slug
	m.Description = c.Description
}

// CategoryModelFromDomain maps a category aggregate onto a fresh row.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// ProductModel is the products row. ViewCount and ContactRevealCount
// are bumped with atomic SQL updates, not through FromDomain, so
// concurrent reads never clobber them.
type ProductModel struct {
	AggregateModel
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	VendorID    uuid.UUID `gorm:"type:uuid;not null;index"`

	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockQuantity int             `gorm:"not null;default:0"`
	InStock       bool            `gorm:"not null;default:true"`

	ImageURL string `gorm:"type:varchar(500)"`
	Slug     string `gorm:"type:varchar(220);not null;uniqueIndex:idx_products_slug"`

	Featured bool `gorm:"not null;default:false;index"`
	IsActive bool `gorm:"not null;default:true;index"`

	ViewCount          int64 `gorm:"not null;default:0"`
	ContactRevealCount int64 `gorm:"not null;default:0"`
}

func (ProductModel) TableName() string {
	return "products"
}

func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:               m.Name,
		Description:        m.Description,
		CategoryID:         m.CategoryID,
		VendorID:           m.VendorID,
		Price:              m.Price,
		StockQuantity:      m.StockQuantity,
		InStock:            m.InStock,
		ImageURL:           m.ImageURL,
		Slug:               m.Slug,
		Featured:           m.Featured,
		IsActive:           m.IsActive,
		ViewCount:          m.ViewCount,
		ContactRevealCount: m.ContactRevealCount,
	}
}

func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.CategoryID = p.CategoryID
	m.VendorID = p.VendorID
	m.Price = p.Price
	m.StockQuantity = p.StockQuantity
	m.InStock = p.InStock
	m.ImageURL = p.ImageURL
	m.Slug = p.Slug
	m.Featured = p.Featured
	m.IsActive = p.IsActive
	m.ViewCount = p.ViewCount
	m.ContactRevealCount = p.ContactRevealCount
}

// ProductModelFromDomain maps a product aggregate onto a fresh row.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
