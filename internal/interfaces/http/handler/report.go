package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storemanager/backend/internal/application/catalog"
	reportapp "github.com/storemanager/backend/internal/application/report"
	"github.com/storemanager/backend/internal/domain/shared"
)

// ReportHandler handles the reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService  *reportapp.ReportService
	productService *catalogapp.ProductService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService, productService *catalogapp.ProductService) *ReportHandler {
	return &ReportHandler{
		reportService:  reportService,
		productService: productService,
	}
}

// periodQuery reads the shared period parameters
func periodQuery(c *gin.Context) reportapp.PeriodQuery {
	return reportapp.PeriodQuery{
		Period:    c.Query("period"),
		DateStart: c.Query("date_start"),
		DateEnd:   c.Query("date_end"),
	}
}

// Sales returns daily sales totals over the requested period
func (h *ReportHandler) Sales(c *gin.Context) {
	report, err := h.reportService.Sales(c.Request.Context(), periodQuery(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// Bestsellers returns the top sold products over the requested period
func (h *ReportHandler) Bestsellers(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.ValidationFailed(c, "limit must be an integer")
			return
		}
		limit = parsed
	}

	report, err := h.reportService.Bestsellers(c.Request.Context(), periodQuery(c), limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// LowStock lists published, stock-managed products at or below the threshold
func (h *ReportHandler) LowStock(c *gin.Context) {
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

	threshold, err := normalizeOptionalInt64(c.Query("threshold"), "threshold")
	if err != nil {
		h.ValidationFailed(c, err.Error())
		return
	}

	entries, total, err := h.productService.LowStock(c.Request.Context(), threshold, shared.Filter{
		Page:     page,
		PageSize: perPage,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, page, perPage)
}
