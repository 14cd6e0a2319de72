package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storemanager/backend/internal/domain/catalog"
)

// DimensionsDTO carries the shipping dimensions of a product
type DimensionsDTO struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// ProductDTO is the API representation of a product
type ProductDTO struct {
	ID                int64         `json:"id"`
	Name              string        `json:"name"`
	Slug              string        `json:"slug"`
	Permalink         string        `json:"permalink"`
	DateCreated       string        `json:"date_created"`
	DateCreatedGMT    string        `json:"date_created_gmt"`
	DateModified      string        `json:"date_modified"`
	DateModifiedGMT   string        `json:"date_modified_gmt"`
	Type              string        `json:"type"`
	Status            string        `json:"status"`
	Featured          bool          `json:"featured"`
	CatalogVisibility string        `json:"catalog_visibility"`
	Description       string        `json:"description"`
	ShortDescription  string        `json:"short_description"`
	SKU               string        `json:"sku"`
	Price             string        `json:"price"`
	RegularPrice      string        `json:"regular_price"`
	SalePrice         string        `json:"sale_price"`
	DateOnSaleFrom    string        `json:"date_on_sale_from"`
	DateOnSaleFromGMT string        `json:"date_on_sale_from_gmt"`
	DateOnSaleTo      string        `json:"date_on_sale_to"`
	DateOnSaleToGMT   string        `json:"date_on_sale_to_gmt"`
	OnSale            bool          `json:"on_sale"`
	Purchasable       bool          `json:"purchasable"`
	ManageStock       bool          `json:"manage_stock"`
	StockQuantity     *int64        `json:"stock_quantity"`
	StockStatus       string        `json:"stock_status"`
	Backorders        string        `json:"backorders"`
	BackordersAllowed bool          `json:"backorders_allowed"`
	Weight            string        `json:"weight"`
	Dimensions        DimensionsDTO `json:"dimensions"`
	ShippingClass     string        `json:"shipping_class"`
	ParentID          int64         `json:"parent_id"`
	ImageID           int64         `json:"image_id"`
	FeaturedImageURL  string        `json:"featured_image_url"`
	Categories        []string      `json:"categories"`
	CategoryIDs       []int64       `json:"category_ids"`
	Tags              []string      `json:"tags"`
	TagIDs            []int64       `json:"tag_ids"`
	TotalSales        int64         `json:"total_sales"`
	AverageRating     string        `json:"average_rating"`
	RatingCount       int           `json:"rating_count"`
}

// CreateProductRequest carries the fields accepted when creating a product
type CreateProductRequest struct {
	Name             string   `json:"name" binding:"required"`
	Slug             string   `json:"slug"`
	Type             string   `json:"type"`
	Status           string   `json:"status"`
	Featured         *bool    `json:"featured"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description"`
	SKU              string   `json:"sku"`
	RegularPrice     *string  `json:"regular_price"`
	SalePrice        *string  `json:"sale_price"`
	DateOnSaleFrom   *string  `json:"date_on_sale_from"`
	DateOnSaleTo     *string  `json:"date_on_sale_to"`
	ManageStock      *bool    `json:"manage_stock"`
	StockQuantity    *int64   `json:"stock_quantity"`
	StockStatus      string   `json:"stock_status"`
	Backorders       string   `json:"backorders"`
	Weight           *string  `json:"weight"`
	Length           *string  `json:"length"`
	Width            *string  `json:"width"`
	Height           *string  `json:"height"`
	ShippingClass    string   `json:"shipping_class"`
	ParentID         *int64   `json:"parent_id"`
	ImageID          *int64   `json:"image_id"`
	CategoryIDs      []int64  `json:"categories"`
	TagIDs           []int64  `json:"tags"`
}

// UpdateProductRequest carries a partial update; only non-nil fields mutate
type UpdateProductRequest struct {
	Name              *string  `json:"name"`
	Slug              *string  `json:"slug"`
	Type              *string  `json:"type"`
	Status            *string  `json:"status"`
	Featured          *bool    `json:"featured"`
	CatalogVisibility *string  `json:"catalog_visibility"`
	Description       *string  `json:"description"`
	ShortDescription  *string  `json:"short_description"`
	SKU               *string  `json:"sku"`
	RegularPrice      *string  `json:"regular_price"`
	SalePrice         *string  `json:"sale_price"`
	DateOnSaleFrom    *string  `json:"date_on_sale_from"`
	DateOnSaleTo      *string  `json:"date_on_sale_to"`
	ManageStock       *bool    `json:"manage_stock"`
	StockQuantity     *int64   `json:"stock_quantity"`
	StockStatus       *string  `json:"stock_status"`
	Backorders        *string  `json:"backorders"`
	Weight            *string  `json:"weight"`
	Length            *string  `json:"length"`
	Width             *string  `json:"width"`
	Height            *string  `json:"height"`
	ShippingClass     *string  `json:"shipping_class"`
	ImageID           *int64   `json:"image_id"`
	CategoryIDs       []int64  `json:"categories"`
	TagIDs            []int64  `json:"tags"`
}

// ListProductsQuery is the normalized collection query for products
type ListProductsQuery struct {
	Page     int
	PerPage  int
	Search   string
	Order    string
	OrderBy  string
	Status   string // product status or "any"
	Type     string
}

// DeleteProductResult reports the outcome of a delete, carrying the final
// state of the product before removal.
type DeleteProductResult struct {
	Deleted  bool        `json:"deleted"`
	Previous *ProductDTO `json:"previous"`
}

// BulkUpdateItem is one entry in a bulk update request
type BulkUpdateItem struct {
	ID            int64   `json:"id" binding:"required"`
	Status        *string `json:"status"`
	RegularPrice  *string `json:"regular_price"`
	SalePrice     *string `json:"sale_price"`
	StockStatus   *string `json:"stock_status"`
	ManageStock   *bool   `json:"manage_stock"`
	StockQuantity *int64  `json:"stock_quantity"`
}

// Bulk item result statuses
const (
	BulkStatusSuccess = "success"
	BulkStatusError   = "error"
	BulkStatusSkipped = "skipped"
)

// BulkUpdateResult reports the outcome of one bulk update item
type BulkUpdateResult struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// LowStockEntry is one row of the low-stock report
type LowStockEntry struct {
	ProductID     int64  `json:"product_id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	StockQuantity int64  `json:"stock_quantity"`
	Permalink     string `json:"permalink"`
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

func formatTimePtr(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return formatTime(t.In(loc))
}

// toProductDTO converts a product entity into its API representation
func (s *ProductService) toProductDTO(p *catalog.Product, imageURL string) *ProductDTO {
	now := time.Now()

	categories := make([]string, 0, len(p.Categories))
	categoryIDs := make([]int64, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, c.Name)
		categoryIDs = append(categoryIDs, c.ID)
	}
	tags := make([]string, 0, len(p.Tags))
	tagIDs := make([]int64, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Name)
		tagIDs = append(tagIDs, t.ID)
	}

	// The stored quantity is only meaningful while stock management is on
	var stockQty *int64
	if p.ManageStock {
		stockQty = p.StockQuantity
	}

	return &ProductDTO{
		ID:                p.ID,
		Name:              p.Name,
		Slug:              p.Slug,
		Permalink:         s.permalink(p.Slug),
		DateCreated:       formatTime(p.CreatedAt.In(s.location)),
		DateCreatedGMT:    formatTime(p.CreatedAt.UTC()),
		DateModified:      formatTime(p.UpdatedAt.In(s.location)),
		DateModifiedGMT:   formatTime(p.UpdatedAt.UTC()),
		Type:              string(p.Type),
		Status:            string(p.Status),
		Featured:          p.Featured,
		CatalogVisibility: string(p.CatalogVisibility),
		Description:       p.Description,
		ShortDescription:  p.ShortDescription,
		SKU:               p.SKU,
		Price:             formatDecimal(p.EffectivePrice(now)),
		RegularPrice:      formatDecimal(p.RegularPrice),
		SalePrice:         formatDecimal(p.SalePrice),
		DateOnSaleFrom:    formatTimePtr(p.SaleStart, s.location),
		DateOnSaleFromGMT: formatTimePtr(p.SaleStart, time.UTC),
		DateOnSaleTo:      formatTimePtr(p.SaleEnd, s.location),
		DateOnSaleToGMT:   formatTimePtr(p.SaleEnd, time.UTC),
		OnSale:            p.OnSale(now),
		Purchasable:       p.Purchasable(),
		ManageStock:       p.ManageStock,
		StockQuantity:     stockQty,
		StockStatus:       string(p.StockStatus),
		Backorders:        string(p.Backorders),
		BackordersAllowed: p.BackordersAllowed(),
		Weight:            formatDecimal(p.Weight),
		Dimensions: DimensionsDTO{
			Length: formatDecimal(p.Length),
			Width:  formatDecimal(p.Width),
			Height: formatDecimal(p.Height),
		},
		ShippingClass:    p.ShippingClass,
		ParentID:         p.ParentID,
		ImageID:          p.ImageID,
		FeaturedImageURL: imageURL,
		Categories:       categories,
		CategoryIDs:      categoryIDs,
		Tags:             tags,
		TagIDs:           tagIDs,
		TotalSales:       p.TotalSales,
		AverageRating:    p.AverageRating.StringFixed(2),
		RatingCount:      p.RatingCount,
	}
}
