package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	tradeapp "github.com/storemanager/backend/internal/application/trade"
)

// dateParamLayout is the wire format for day-granular date filters
const dateParamLayout = "2006-01-02"

// OrderHandler handles order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
	location     *time.Location
}

// NewOrderHandler creates a new OrderHandler. Date filters are interpreted
// in the given store timezone.
func NewOrderHandler(orderService *tradeapp.OrderService, location *time.Location) *OrderHandler {
	if location == nil {
		location = time.UTC
	}
	return &OrderHandler{orderService: orderService, location: location}
}

// List returns a paginated order collection without line items or notes
func (h *OrderHandler) List(c *gin.Context) {
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
	orderBy, err := normalizeOrderBy(c.Query("orderby"), orderByOrderColumns)
	if err != nil {
		h.ValidationFailed(c, err.Error())
		return
	}

	query := tradeapp.ListOrdersQuery{
		Page:    page,
		PerPage: perPage,
		Search:  sanitizeSearchTerm(c.Query("search")),
		Order:   order,
		OrderBy: orderBy,
		Status:  c.Query("status"),
	}

	if raw := c.Query("customer"); raw != "" {
		customerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.ValidationFailed(c, "customer must be an integer")
			return
		}
		query.CustomerID = customerID
	}

	if query.DateAfter, err = h.parseDayStart(c.Query("date_after"), "date_after"); err != nil {
		h.ValidationFailed(c, err.Error())
		return
	}
	if query.DateBefore, err = h.parseDayEnd(c.Query("date_before"), "date_before"); err != nil {
		h.ValidationFailed(c, err.Error())
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, page, perPage)
}

// Get returns a single order with line items and notes, newest note first
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateStatus changes an order's status and returns the refreshed order
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req tradeapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Note = sanitizeRichText(req.Note)

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Notes lists an order's notes, newest first
func (h *OrderHandler) Notes(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	notes, err := h.orderService.Notes(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, notes)
}

// AddNote appends a note to an order
func (h *OrderHandler) AddNote(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req tradeapp.AddOrderNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Note = sanitizeRichText(req.Note)
	req.Author = getActor(c)

	note, err := h.orderService.AddNote(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/v1/orders/%d/notes", id))
	h.Created(c, note)
}

// parseDayStart parses a date parameter to the first instant of that day
// in the store timezone
func (h *OrderHandler) parseDayStart(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(dateParamLayout, raw, h.location)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date in YYYY-MM-DD format", field)
	}
	return &day, nil
}

// parseDayEnd parses a date parameter to the last second of that day,
// keeping the filter inclusive
func (h *OrderHandler) parseDayEnd(raw, field string) (*time.Time, error) {
	start, err := h.parseDayStart(raw, field)
	if err != nil || start == nil {
		return start, err
	}
	end := start.Add(24*time.Hour - time.Second)
	return &end, nil
}
