package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tradeapp "github.com/storemanager/backend/internal/application/trade"
	"github.com/storemanager/backend/internal/domain/trade"
)

func newOrderTestRouter(repo *fakeOrderRepository) *gin.Engine {
	h := NewOrderHandler(newTestOrderService(repo), nil)
	r := gin.New()
	r.GET("/api/v1/orders", h.List)
	r.GET("/api/v1/orders/:id", h.Get)
	r.PUT("/api/v1/orders/:id/status", h.UpdateStatus)
	r.GET("/api/v1/orders/:id/notes", h.Notes)
	r.POST("/api/v1/orders/:id/notes", h.AddNote)
	return r
}

func TestOrderHandler_List(t *testing.T) {
	repo := newFakeOrderRepository()
	seedOrder(repo, 1, trade.StatusProcessing, nil)
	seedOrder(repo, 2, trade.StatusCompleted, nil)
	router := newOrderTestRouter(repo)

	w := performRequest(router, "GET", "/api/v1/orders", "")
	require.Equal(t, http.StatusOK, w.Code)

	var orders []tradeapp.OrderDTO
	resp := decodeData(t, w, &orders)
	assert.Len(t, orders, 2)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
}

func TestOrderHandler_ListFiltersByStatus(t *testing.T) {
	repo := newFakeOrderRepository()
	seedOrder(repo, 1, trade.StatusProcessing, nil)
	seedOrder(repo, 2, trade.StatusCompleted, nil)
	seedOrder(repo, 3, trade.StatusCancelled, nil)
	router := newOrderTestRouter(repo)

	w := performRequest(router, "GET", "/api/v1/orders?status=processing,completed", "")
	require.Equal(t, http.StatusOK, w.Code)

	var orders []tradeapp.OrderDTO
	decodeData(t, w, &orders)
	require.Len(t, orders, 2)
	assert.Equal(t, "processing", orders[0].Status)
	assert.Equal(t, "completed", orders[1].Status)
}

func TestOrderHandler_ListRejectsUnknownStatus(t *testing.T) {
	router := newOrderTestRouter(newFakeOrderRepository())

	w := performRequest(router, "GET", "/api/v1/orders?status=shipped", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_INVALID_STATUS", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "shipped")
	assert.Contains(t, resp.Error.Message, "processing")
}

func TestOrderHandler_ListFiltersByCustomer(t *testing.T) {
	repo := newFakeOrderRepository()
	customer := int64(7)
	seedOrder(repo, 1, trade.StatusProcessing, func(o *trade.Order) { o.CustomerID = &customer })
	seedOrder(repo, 2, trade.StatusProcessing, nil)
	router := newOrderTestRouter(repo)

	w := performRequest(router, "GET", "/api/v1/orders?customer=7", "")
	require.Equal(t, http.StatusOK, w.Code)

	var orders []tradeapp.OrderDTO
	decodeData(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(7), orders[0].CustomerID)

	w = performRequest(router, "GET", "/api/v1/orders?customer=seven", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "customer must be an integer", resp.Error.Message)
}

func TestOrderHandler_ListRejectsBadDates(t *testing.T) {
	router := newOrderTestRouter(newFakeOrderRepository())

	w := performRequest(router, "GET", "/api/v1/orders?date_after=yesterday", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "date_after must be a date in YYYY-MM-DD format", resp.Error.Message)

	w = performRequest(router, "GET", "/api/v1/orders?date_before=2026-13-40", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp = decodeResponse(t, w)
	assert.Equal(t, "date_before must be a date in YYYY-MM-DD format", resp.Error.Message)
}

func TestOrderHandler_Get(t *testing.T) {
	repo := newFakeOrderRepository()
	seedOrder(repo, 1, trade.StatusProcessing, func(o *trade.Order) {
		o.Billing.FirstName = "Jane"
		o.Billing.LastName = "Doe"
		o.LineItems = []trade.LineItem{{ProductID: 3, Name: "Widget", Quantity: 2}}
	})
	router := newOrderTestRouter(repo)

	w := performRequest(router, "GET", "/api/v1/orders/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got tradeapp.OrderDTO
	decodeData(t, w, &got)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "processing", got.Status)
	assert.Equal(t, "Jane Doe", got.CustomerName)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "Widget", got.LineItems[0].Name)
}

func TestOrderHandler_GetNotFound(t *testing.T) {
	router := newOrderTestRouter(newFakeOrderRepository())

	w := performRequest(router, "GET", "/api/v1/orders/42", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, "ERR_NOT_FOUND", resp.Error.Code)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	repo := newFakeOrderRepository()
	seedOrder(repo, 1, trade.StatusProcessing, nil)
	router := newOrderTestRouter(repo)

	w := performRequest(router, "PUT", "/api/v1/orders/1/status",
		`{"status": "completed", "note": "Shipped today"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got tradeapp.OrderDTO
	decodeData(t, w, &got)
	assert.Equal(t, "completed", got.Status)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "Shipped today", got.Notes[0].Note)

	assert.Equal(t, trade.StatusCompleted, repo.orders[1].Status)
}

func TestOrderHandler_UpdateStatusRejectsUnknown(t *testing.T) {
	repo := newFakeOrderRepository()
	seedOrder(repo, 1, trade.StatusProcessing, nil)
	router := newOrderTestRouter(repo)

	w := performRequest(router, "PUT", "/api/v1/orders/1/status", `{"status": "shipped"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, "ERR_INVALID_STATUS", resp.Error.Code)
	// the order is untouched
	assert.Equal(t, trade.StatusProcessing, repo.orders[1].Status)
}

func TestOrderHandler_UpdateStatusRequiresBody(t *testing.T) {
	repo := newFakeOrderRepository()
	seedOrder(repo, 1, trade.StatusProcessing, nil)
	router := newOrderTestRouter(repo)

	w := performRequest(router, "PUT", "/api/v1/orders/1/status", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_Notes(t *testing.T) {
	repo := newFakeOrderRepository()
	seedOrder(repo, 1, trade.StatusProcessing, nil)
	router := newOrderTestRouter(repo)

	performRequest(router, "POST", "/api/v1/orders/1/notes", `{"note": "First"}`)
	performRequest(router, "POST", "/api/v1/orders/1/notes", `{"note": "Second"}`)

	w := performRequest(router, "GET", "/api/v1/orders/1/notes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var notes []tradeapp.OrderNoteDTO
	decodeData(t, w, &notes)
	require.Len(t, notes, 2)
	assert.Equal(t, "Second", notes[0].Note)
	assert.Equal(t, "First", notes[1].Note)
}

func TestOrderHandler_NotesOrderNotFound(t *testing.T) {
	router := newOrderTestRouter(newFakeOrderRepository())

	w := performRequest(router, "GET", "/api/v1/orders/5/notes", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_AddNote(t *testing.T) {
	repo := newFakeOrderRepository()
	seedOrder(repo, 1, trade.StatusProcessing, nil)
	router := newOrderTestRouter(repo)

	w := performRequest(router, "POST", "/api/v1/orders/1/notes",
		`{"note": "Customer called about delivery", "customer_note": true}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/v1/orders/1/notes", w.Header().Get("Location"))

	var note tradeapp.OrderNoteDTO
	decodeData(t, w, &note)
	assert.Equal(t, "Customer called about delivery", note.Note)
	assert.True(t, note.CustomerNote)

	require.Len(t, repo.notes[1], 1)
}

func TestOrderHandler_AddNoteRejectsMarkupOnlyContent(t *testing.T) {
	repo := newFakeOrderRepository()
	seedOrder(repo, 1, trade.StatusProcessing, nil)
	router := newOrderTestRouter(repo)

	// sanitization leaves nothing, so the note is empty
	w := performRequest(router, "POST", "/api/v1/orders/1/notes",
		`{"note": "<script>alert(1)</script>"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, "ERR_INVALID_INPUT", resp.Error.Code)
	assert.Empty(t, repo.notes[1])
}

func TestOrderHandler_AddNoteOrderNotFound(t *testing.T) {
	router := newOrderTestRouter(newFakeOrderRepository())

	w := performRequest(router, "POST", "/api/v1/orders/5/notes", `{"note": "hello"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}
