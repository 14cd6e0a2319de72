package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storemanager/backend/internal/application/catalog"
)

// ProductHandler handles product API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List returns a paginated product collection.
// Unknown query parameters are ignored; out-of-range values fail with a 400
// naming the parameter.
func (h *ProductHandler) List(c *gin.Context) {
	page, err := normalizePage(c.Query("page"))
	if err != nil {
		h.ValidationFailed(c, err.Error())
		return
	}
	perPage, err := normalizePerPage(c.Query("per_page"))
	if err != nil {
		h.ValidationFailed(c, err.Error())
		return
	}
	order, err := normalizeOrder(c.Query("order"))
	if err != nil {
		h.ValidationFailed(c, err.Error())
		return
	}
	orderBy, err := normalizeOrderBy(c.Query("orderby"), orderByColumns)
	if err != nil {
		h.ValidationFailed(c, err.Error())
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), catalogapp.ListProductsQuery{
		Page:    page,
		PerPage: perPage,
		Search:  sanitizeSearchTerm(c.Query("search")),
		Order:   order,
		OrderBy: orderBy,
		Status:  c.Query("status"),
		Type:    c.Query("type"),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, page, perPage)
}

// Get returns a single product by id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Create creates a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	sanitizeCreateProductRequest(&req)

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/v1/products/%d", product.ID))
	h.Created(c, product)
}

// Update applies a partial update; only fields present in the body mutate
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	sanitizeUpdateProductRequest(&req)

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete trashes a product, or removes it permanently with ?force=true
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	force := false
	if raw := c.Query("force"); raw != "" {
		force, err = strconv.ParseBool(raw)
		if err != nil {
			h.ValidationFailed(c, "force must be a boolean")
			return
		}
	}

	result, err := h.productService.Delete(c.Request.Context(), id, force)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// BulkUpdate applies whitelisted field updates to a batch of products.
// Items fail independently; the batch never aborts.
func (h *ProductHandler) BulkUpdate(c *gin.Context) {
	var items []catalogapp.BulkUpdateItem
	if err := c.ShouldBindJSON(&items); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	results := h.productService.BulkUpdate(c.Request.Context(), items)

	for _, r := range results {
		if r.Status == catalogapp.BulkStatusError {
			h.MultiStatus(c, results)
			return
		}
	}
	h.Success(c, results)
}

// sanitizeCreateProductRequest cleans text fields before validation
func sanitizeCreateProductRequest(req *catalogapp.CreateProductRequest) {
	req.Name = sanitizePlainText(req.Name)
	req.Slug = sanitizePlainText(req.Slug)
	req.SKU = sanitizePlainText(req.SKU)
	req.ShippingClass = sanitizePlainText(req.ShippingClass)
	req.Description = sanitizeRichText(req.Description)
	req.ShortDescription = sanitizeRichText(req.ShortDescription)
}

// sanitizeUpdateProductRequest cleans text fields, keeping absent ones absent
func sanitizeUpdateProductRequest(req *catalogapp.UpdateProductRequest) {
	req.Name = sanitizePlainTextPtr(req.Name)
	req.Slug = sanitizePlainTextPtr(req.Slug)
	req.SKU = sanitizePlainTextPtr(req.SKU)
	req.ShippingClass = sanitizePlainTextPtr(req.ShippingClass)
	req.Description = sanitizeRichTextPtr(req.Description)
	req.ShortDescription = sanitizeRichTextPtr(req.ShortDescription)
}
