package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storemanager/backend/internal/domain/shared"
)

// ProductType represents the kind of product
type ProductType string

const (
	ProductTypeSimple   ProductType = "simple"
	ProductTypeGrouped  ProductType = "grouped"
	ProductTypeExternal ProductType = "external"
	ProductTypeVariable ProductType = "variable"
)

// ProductStatus represents the publication status of a product
type ProductStatus string

const (
	ProductStatusDraft   ProductStatus = "draft"
	ProductStatusPending ProductStatus = "pending"
	ProductStatusPrivate ProductStatus = "private"
	ProductStatusPublish ProductStatus = "publish"
	ProductStatusTrash   ProductStatus = "trash"
)

// StockStatus represents the availability of a product
type StockStatus string

const (
	StockStatusInStock     StockStatus = "instock"
	StockStatusOutOfStock  StockStatus = "outofstock"
	StockStatusOnBackorder StockStatus = "onbackorder"
)

// CatalogVisibility controls where a product appears in the storefront
type CatalogVisibility string

const (
	VisibilityVisible CatalogVisibility = "visible"
	VisibilityCatalog CatalogVisibility = "catalog"
	VisibilitySearch  CatalogVisibility = "search"
	VisibilityHidden  CatalogVisibility = "hidden"
)

// BackorderPolicy controls whether purchases beyond stock are accepted
type BackorderPolicy string

const (
	BackordersNo     BackorderPolicy = "no"
	BackordersNotify BackorderPolicy = "notify"
	BackordersYes    BackorderPolicy = "yes"
)

// Product is the aggregate root for catalog operations
type Product struct {
	shared.Entity
	Name              string            `gorm:"type:varchar(255);not null"`
	Slug              string            `gorm:"type:varchar(255);not null;index"`
	Type              ProductType       `gorm:"type:varchar(20);not null;default:'simple'"`
	Status            ProductStatus     `gorm:"type:varchar(20);not null;default:'publish';index"`
	Featured          bool              `gorm:"not null;default:false"`
	CatalogVisibility CatalogVisibility `gorm:"type:varchar(20);not null;default:'visible'"`
	Description       string            `gorm:"type:text"`
	ShortDescription  string            `gorm:"type:text"`
	SKU               string            `gorm:"type:varchar(100);index"`
	RegularPrice      *decimal.Decimal  `gorm:"type:decimal(18,4)"`
	SalePrice         *decimal.Decimal  `gorm:"type:decimal(18,4)"`
	SaleStart         *time.Time
	SaleEnd           *time.Time
	ManageStock       bool             `gorm:"not null;default:false"`
	StockQuantity     *int64           `gorm:"index"`
	StockStatus       StockStatus      `gorm:"type:varchar(20);not null;default:'instock';index"`
	Backorders        BackorderPolicy  `gorm:"type:varchar(10);not null;default:'no'"`
	Weight            *decimal.Decimal `gorm:"type:decimal(12,4)"`
	Length            *decimal.Decimal `gorm:"type:decimal(12,4)"`
	Width             *decimal.Decimal `gorm:"type:decimal(12,4)"`
	Height            *decimal.Decimal `gorm:"type:decimal(12,4)"`
	ShippingClass     string           `gorm:"type:varchar(100)"`
	ParentID          int64            `gorm:"not null;default:0;index"`
	ImageID           int64            `gorm:"not null;default:0"`
	TotalSales        int64            `gorm:"not null;default:0"`
	AverageRating     decimal.Decimal  `gorm:"type:decimal(3,2);not null;default:0"`
	RatingCount       int              `gorm:"not null;default:0"`
	Categories        []Term           `gorm:"many2many:product_categories"`
	Tags              []Term           `gorm:"many2many:product_tags"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product with the platform defaults applied
func NewProduct(name string) (*Product, error) {
	if err := ValidateProductName(name); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Product{
		Entity:            shared.Entity{CreatedAt: now, UpdatedAt: now},
		Name:              name,
		Slug:              Slugify(name),
		Type:              ProductTypeSimple,
		Status:            ProductStatusPublish,
		CatalogVisibility: VisibilityVisible,
		StockStatus:       StockStatusInStock,
		Backorders:        BackordersNo,
		ManageStock:       false,
		AverageRating:     decimal.Zero,
	}, nil
}

// Rename changes the product name, regenerating the slug only when it was
// derived from the old name.
func (p *Product) Rename(name string) error {
	if err := ValidateProductName(name); err != nil {
		return err
	}
	if p.Slug == Slugify(p.Name) {
		p.Slug = Slugify(name)
	}
	p.Name = name
	p.Touch()
	return nil
}

// SetStockQuantity records the quantity. It has no effect unless stock
// management is enabled on the product.
func (p *Product) SetStockQuantity(qty int64) {
	if !p.ManageStock {
		return
	}
	p.StockQuantity = &qty
	p.Touch()
}

// SetSaleWindow schedules when the sale price takes effect. Either bound
// may be nil, leaving that side of the window open.
func (p *Product) SetSaleWindow(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return shared.NewDomainError("VALIDATION_ERROR",
			"date_on_sale_to cannot be before date_on_sale_from")
	}
	p.SaleStart = from
	p.SaleEnd = to
	p.Touch()
	return nil
}

// Trash soft-deletes the product by moving it to the trash status
func (p *Product) Trash() {
	p.Status = ProductStatusTrash
	p.Touch()
}

// IsTrashed reports whether the product has been soft-deleted
func (p *Product) IsTrashed() bool {
	return p.Status == ProductStatusTrash
}

// OnSale reports whether a sale price is currently in effect
func (p *Product) OnSale(now time.Time) bool {
	if p.SalePrice == nil || p.SalePrice.IsZero() {
		return false
	}
	if p.SaleStart != nil && now.Before(*p.SaleStart) {
		return false
	}
	if p.SaleEnd != nil && now.After(*p.SaleEnd) {
		return false
	}
	return true
}

// EffectivePrice returns the price a buyer would pay right now.
// Nil when the product has no price set.
func (p *Product) EffectivePrice(now time.Time) *decimal.Decimal {
	if p.OnSale(now) {
		return p.SalePrice
	}
	return p.RegularPrice
}

// Purchasable reports whether the product can currently be bought
func (p *Product) Purchasable() bool {
	if p.Status != ProductStatusPublish {
		return false
	}
	return p.RegularPrice != nil || p.SalePrice != nil
}

// BackordersAllowed reports whether purchases beyond stock are accepted
func (p *Product) BackordersAllowed() bool {
	return p.Backorders != BackordersNo
}

// LowOnStock reports whether the product qualifies for low-stock alerts
// at the given threshold. Products without managed stock never qualify.
func (p *Product) LowOnStock(threshold int64) bool {
	if !p.ManageStock || p.StockQuantity == nil {
		return false
	}
	if p.Status != ProductStatusPublish || p.StockStatus != StockStatusInStock {
		return false
	}
	return *p.StockQuantity <= threshold
}

// ValidateProductName validates a product name
func ValidateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.ErrProductNameRequired
	}
	if len(name) > 255 {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name cannot exceed 255 characters")
	}
	return nil
}

// ValidProductType reports whether the value is a known product type
func ValidProductType(t string) bool {
	switch ProductType(t) {
	case ProductTypeSimple, ProductTypeGrouped, ProductTypeExternal, ProductTypeVariable:
		return true
	}
	return false
}

// ValidProductStatus reports whether the value is a known product status
func ValidProductStatus(s string) bool {
	switch ProductStatus(s) {
	case ProductStatusDraft, ProductStatusPending, ProductStatusPrivate, ProductStatusPublish, ProductStatusTrash:
		return true
	}
	return false
}

// ValidStockStatus reports whether the value is a known stock status
func ValidStockStatus(s string) bool {
	switch StockStatus(s) {
	case StockStatusInStock, StockStatusOutOfStock, StockStatusOnBackorder:
		return true
	}
	return false
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a product name
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
