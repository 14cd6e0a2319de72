package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storemanager/backend/internal/domain/catalog"
	"github.com/storemanager/backend/internal/domain/shared"
)

// ImageResolver resolves a stored image ID to a public URL.
// This decouples ProductService from the concrete object storage backend.
type ImageResolver interface {
	ResolveURL(ctx context.Context, imageID int64) (string, error)
}

// ProductServiceConfig carries store-level settings for the catalog
type ProductServiceConfig struct {
	PermalinkBase     string
	DefaultListStatus string
	LowStockThreshold int64
	Timezone          string
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	termRepo    catalog.TermRepository
	images      ImageResolver
	config      ProductServiceConfig
	location    *time.Location
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	termRepo catalog.TermRepository,
	images ImageResolver,
	config ProductServiceConfig,
) *ProductService {
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil || config.Timezone == "" {
		loc = time.UTC
	}
	if config.DefaultListStatus == "" {
		config.DefaultListStatus = "any"
	}
	return &ProductService{
		productRepo: productRepo,
		termRepo:    termRepo,
		images:      images,
		config:      config,
		location:    loc,
	}
}

func (s *ProductService) permalink(slug string) string {
	base := strings.TrimSuffix(s.config.PermalinkBase, "/")
	return base + "/product/" + slug + "/"
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, query ListProductsQuery) ([]ProductDTO, int64, error) {
	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PerPage,
		OrderBy:  query.OrderBy,
		OrderDir: query.Order,
		Search:   query.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	status := query.Status
	if status == "" {
		status = s.config.DefaultListStatus
	}
	if status != "any" {
		if !catalog.ValidProductStatus(status) {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Invalid product status: %s", status))
		}
		filter.Filters["status"] = status
	} else {
		// Trashed products are never listed through the dashboard
		filter.Filters["exclude_status"] = string(catalog.ProductStatusTrash)
	}
	if query.Type != "" {
		if !catalog.ValidProductType(query.Type) {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Invalid product type: %s", query.Type))
		}
		filter.Filters["type"] = query.Type
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *s.toProductDTO(&products[i], s.imageURL(ctx, &products[i])))
	}
	return dtos, total, nil
}

// Get retrieves a single product. Trashed products are reported as missing.
func (s *ProductService) Get(ctx context.Context, id int64) (*ProductDTO, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.IsTrashed() {
		return nil, shared.ErrNotFound
	}
	return s.toProductDTO(product, s.imageURL(ctx, product)), nil
}

// Create creates a new product with the store defaults applied
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	product, err := catalog.NewProduct(req.Name)
	if err != nil {
		return nil, err
	}

	if req.Slug != "" {
		product.Slug = catalog.Slugify(req.Slug)
	}
	if req.Type != "" {
		if !catalog.ValidProductType(req.Type) {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Invalid product type: %s", req.Type))
		}
		product.Type = catalog.ProductType(req.Type)
	}
	if req.Status != "" {
		if !catalog.ValidProductStatus(req.Status) {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Invalid product status: %s", req.Status))
		}
		product.Status = catalog.ProductStatus(req.Status)
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	product.Description = req.Description
	product.ShortDescription = req.ShortDescription
	product.SKU = req.SKU

	if err := s.applyPrice(&product.RegularPrice, req.RegularPrice, "regular_price"); err != nil {
		return nil, err
	}
	if err := s.applyPrice(&product.SalePrice, req.SalePrice, "sale_price"); err != nil {
		return nil, err
	}
	if err := s.applySaleWindow(product, req.DateOnSaleFrom, req.DateOnSaleTo); err != nil {
		return nil, err
	}
	if err := s.applyPrice(&product.Weight, req.Weight, "weight"); err != nil {
		return nil, err
	}
	if err := s.applyPrice(&product.Length, req.Length, "length"); err != nil {
		return nil, err
	}
	if err := s.applyPrice(&product.Width, req.Width, "width"); err != nil {
		return nil, err
	}
	if err := s.applyPrice(&product.Height, req.Height, "height"); err != nil {
		return nil, err
	}

	if req.ManageStock != nil {
		product.ManageStock = *req.ManageStock
	}
	if req.StockQuantity != nil {
		product.SetStockQuantity(*req.StockQuantity)
	}
	if req.StockStatus != "" {
		if !catalog.ValidStockStatus(req.StockStatus) {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Invalid stock status: %s", req.StockStatus))
		}
		product.StockStatus = catalog.StockStatus(req.StockStatus)
	}
	if req.Backorders != "" {
		product.Backorders = catalog.BackorderPolicy(req.Backorders)
	}
	product.ShippingClass = req.ShippingClass
	if req.ParentID != nil {
		product.ParentID = *req.ParentID
	}
	if req.ImageID != nil {
		product.ImageID = *req.ImageID
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if req.CategoryIDs != nil {
		if err := s.replaceTerms(ctx, product, catalog.TaxonomyCategory, req.CategoryIDs); err != nil {
			return nil, err
		}
	}
	if req.TagIDs != nil {
		if err := s.replaceTerms(ctx, product, catalog.TaxonomyTag, req.TagIDs); err != nil {
			return nil, err
		}
	}

	return s.toProductDTO(product, s.imageURL(ctx, product)), nil
}

// Update applies a partial update to a product. Only fields present in the
// request are changed; category and tag sets are replaced wholesale.
func (s *ProductService) Update(ctx context.Context, id int64, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.IsTrashed() {
		return nil, shared.ErrNotFound
	}

	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Slug != nil {
		product.Slug = catalog.Slugify(*req.Slug)
	}
	if req.Type != nil {
		if !catalog.ValidProductType(*req.Type) {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Invalid product type: %s", *req.Type))
		}
		product.Type = catalog.ProductType(*req.Type)
	}
	if req.Status != nil {
		if !catalog.ValidProductStatus(*req.Status) {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Invalid product status: %s", *req.Status))
		}
		product.Status = catalog.ProductStatus(*req.Status)
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.CatalogVisibility != nil {
		product.CatalogVisibility = catalog.CatalogVisibility(*req.CatalogVisibility)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ShortDescription != nil {
		product.ShortDescription = *req.ShortDescription
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}

	if err := s.applyPrice(&product.RegularPrice, req.RegularPrice, "regular_price"); err != nil {
		return nil, err
	}
	if err := s.applyPrice(&product.SalePrice, req.SalePrice, "sale_price"); err != nil {
		return nil, err
	}
	if err := s.applySaleWindow(product, req.DateOnSaleFrom, req.DateOnSaleTo); err != nil {
		return nil, err
	}
	if err := s.applyPrice(&product.Weight, req.Weight, "weight"); err != nil {
		return nil, err
	}
	if err := s.applyPrice(&product.Length, req.Length, "length"); err != nil {
		return nil, err
	}
	if err := s.applyPrice(&product.Width, req.Width, "width"); err != nil {
		return nil, err
	}
	if err := s.applyPrice(&product.Height, req.Height, "height"); err != nil {
		return nil, err
	}

	if req.ManageStock != nil {
		// Disabling stock management leaves the stored quantity in place;
		// it simply stops being reported or enforced.
		product.ManageStock = *req.ManageStock
	}
	if req.StockQuantity != nil {
		product.SetStockQuantity(*req.StockQuantity)
	}
	if req.StockStatus != nil {
		if !catalog.ValidStockStatus(*req.StockStatus) {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Invalid stock status: %s", *req.StockStatus))
		}
		product.StockStatus = catalog.StockStatus(*req.StockStatus)
	}
	if req.Backorders != nil {
		product.Backorders = catalog.BackorderPolicy(*req.Backorders)
	}
	if req.ShippingClass != nil {
		product.ShippingClass = *req.ShippingClass
	}
	if req.ImageID != nil {
		product.ImageID = *req.ImageID
	}

	product.Touch()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if req.CategoryIDs != nil {
		if err := s.replaceTerms(ctx, product, catalog.TaxonomyCategory, req.CategoryIDs); err != nil {
			return nil, err
		}
	}
	if req.TagIDs != nil {
		if err := s.replaceTerms(ctx, product, catalog.TaxonomyTag, req.TagIDs); err != nil {
			return nil, err
		}
	}

	return s.toProductDTO(product, s.imageURL(ctx, product)), nil
}

// Delete removes a product. Without force the product is moved to the trash;
// with force it is removed permanently. The response carries the product's
// final state so the caller can offer undo.
func (s *ProductService) Delete(ctx context.Context, id int64, force bool) (*DeleteProductResult, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.IsTrashed() && !force {
		return nil, shared.ErrNotFound
	}

	previous := s.toProductDTO(product, s.imageURL(ctx, product))

	if force {
		if err := s.productRepo.Delete(ctx, id); err != nil {
			return nil, err
		}
	} else {
		product.Trash()
		if err := s.productRepo.Save(ctx, product); err != nil {
			return nil, err
		}
	}

	return &DeleteProductResult{Deleted: true, Previous: previous}, nil
}

// BulkUpdate applies whitelisted field changes to a batch of products.
// Items are processed in order and one failure never aborts the rest.
func (s *ProductService) BulkUpdate(ctx context.Context, items []BulkUpdateItem) []BulkUpdateResult {
	results := make([]BulkUpdateResult, 0, len(items))
	for _, item := range items {
		results = append(results, s.bulkUpdateOne(ctx, item))
	}
	return results
}

func (s *ProductService) bulkUpdateOne(ctx context.Context, item BulkUpdateItem) BulkUpdateResult {
	product, err := s.productRepo.FindByID(ctx, item.ID)
	if err != nil {
		return BulkUpdateResult{ID: item.ID, Status: BulkStatusError, Message: "Product not found"}
	}
	if product.IsTrashed() {
		return BulkUpdateResult{ID: item.ID, Status: BulkStatusError, Message: "Product not found"}
	}

	changed := false

	if item.Status != nil {
		if !catalog.ValidProductStatus(*item.Status) {
			return BulkUpdateResult{ID: item.ID, Status: BulkStatusError,
				Message: fmt.Sprintf("Invalid product status: %s", *item.Status)}
		}
		product.Status = catalog.ProductStatus(*item.Status)
		changed = true
	}
	if item.RegularPrice != nil {
		if err := s.applyPrice(&product.RegularPrice, item.RegularPrice, "regular_price"); err != nil {
			return BulkUpdateResult{ID: item.ID, Status: BulkStatusError, Message: err.Error()}
		}
		changed = true
	}
	if item.SalePrice != nil {
		if err := s.applyPrice(&product.SalePrice, item.SalePrice, "sale_price"); err != nil {
			return BulkUpdateResult{ID: item.ID, Status: BulkStatusError, Message: err.Error()}
		}
		changed = true
	}
	if item.StockStatus != nil {
		if !catalog.ValidStockStatus(*item.StockStatus) {
			return BulkUpdateResult{ID: item.ID, Status: BulkStatusError,
				Message: fmt.Sprintf("Invalid stock status: %s", *item.StockStatus)}
		}
		product.StockStatus = catalog.StockStatus(*item.StockStatus)
		changed = true
	}
	if item.ManageStock != nil {
		product.ManageStock = *item.ManageStock
		changed = true
	}
	if item.StockQuantity != nil {
		if product.ManageStock {
			product.SetStockQuantity(*item.StockQuantity)
			changed = true
		}
	}

	if !changed {
		return BulkUpdateResult{ID: item.ID, Status: BulkStatusSkipped, Message: "No updatable fields provided"}
	}

	product.Touch()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return BulkUpdateResult{ID: item.ID, Status: BulkStatusError, Message: "Failed to save product"}
	}
	return BulkUpdateResult{ID: item.ID, Status: BulkStatusSuccess}
}

// LowStock lists published, stock-managed products at or below the threshold,
// ordered by remaining quantity.
func (s *ProductService) LowStock(ctx context.Context, threshold *int64, filter shared.Filter) ([]LowStockEntry, int64, error) {
	limit := s.config.LowStockThreshold
	if threshold != nil {
		if *threshold < 0 {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Threshold must not be negative")
		}
		limit = *threshold
	}

	products, total, err := s.productRepo.FindLowStock(ctx, limit, filter)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]LowStockEntry, 0, len(products))
	for i := range products {
		p := &products[i]
		qty := int64(0)
		if p.StockQuantity != nil {
			qty = *p.StockQuantity
		}
		entries = append(entries, LowStockEntry{
			ProductID:     p.ID,
			Name:          p.Name,
			SKU:           p.SKU,
			StockQuantity: qty,
			Permalink:     s.permalink(p.Slug),
		})
	}
	return entries, total, nil
}

func (s *ProductService) replaceTerms(ctx context.Context, product *catalog.Product, taxonomy catalog.Taxonomy, ids []int64) error {
	terms, err := s.termRepo.FindByIDs(ctx, taxonomy, ids)
	if err != nil {
		return err
	}
	if len(terms) != len(ids) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("One or more %s ids do not exist", taxonomy))
	}
	if err := s.productRepo.ReplaceTerms(ctx, product, taxonomy, ids); err != nil {
		return err
	}
	switch taxonomy {
	case catalog.TaxonomyCategory:
		product.Categories = terms
	case catalog.TaxonomyTag:
		product.Tags = terms
	}
	return nil
}

func (s *ProductService) applyPrice(dst **decimal.Decimal, raw *string, field string) error {
	if raw == nil {
		return nil
	}
	if strings.TrimSpace(*raw) == "" {
		*dst = nil
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Invalid decimal value for %s", field))
	}
	if d.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("%s must not be negative", field))
	}
	*dst = &d
	return nil
}

// applySaleWindow merges sale schedule overrides onto the product. A field
// that is absent keeps its current value; an empty string clears the bound.
func (s *ProductService) applySaleWindow(product *catalog.Product, from, to *string) error {
	if from == nil && to == nil {
		return nil
	}
	start, end := product.SaleStart, product.SaleEnd
	var err error
	if from != nil {
		if start, err = s.parseSaleDate(*from, "date_on_sale_from"); err != nil {
			return err
		}
	}
	if to != nil {
		if end, err = s.parseSaleDate(*to, "date_on_sale_to"); err != nil {
			return err
		}
	}
	return product.SetSaleWindow(start, end)
}

// parseSaleDate accepts a timestamp or a bare date, interpreted in the
// store timezone
func (s *ProductService) parseSaleDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, s.location); err == nil {
			return &t, nil
		}
	}
	return nil, shared.NewDomainError("VALIDATION_ERROR",
		fmt.Sprintf("%s must be a YYYY-MM-DD date or YYYY-MM-DDTHH:MM:SS timestamp", field))
}

func (s *ProductService) imageURL(ctx context.Context, product *catalog.Product) string {
	if s.images == nil || product.ImageID == 0 {
		return ""
	}
	url, err := s.images.ResolveURL(ctx, product.ImageID)
	if err != nil {
		return ""
	}
	return url
}
