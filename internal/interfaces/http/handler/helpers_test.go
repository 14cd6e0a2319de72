package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/storemanager/backend/internal/application/catalog"
	reportapp "github.com/storemanager/backend/internal/application/report"
	tradeapp "github.com/storemanager/backend/internal/application/trade"
	"github.com/storemanager/backend/internal/domain/catalog"
	"github.com/storemanager/backend/internal/domain/report"
	"github.com/storemanager/backend/internal/domain/shared"
	"github.com/storemanager/backend/internal/domain/trade"
	"github.com/storemanager/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Map-backed fakes; handler tests exercise real services on top of them.

type fakeProductRepository struct {
	products  map[int64]*catalog.Product
	nextID    int64
	returnErr error
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{products: make(map[int64]*catalog.Product), nextID: 1}
}

func (r *fakeProductRepository) FindByID(_ context.Context, id int64) (*catalog.Product, error) {
	if r.returnErr != nil {
		return nil, r.returnErr
	}
	if p, ok := r.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepository) matches(p *catalog.Product, filter shared.Filter) bool {
	if status, ok := filter.Filters["status"].(string); ok && string(p.Status) != status {
		return false
	}
	if excluded, ok := filter.Filters["exclude_status"].(string); ok && string(p.Status) == excluded {
		return false
	}
	if typ, ok := filter.Filters["type"].(string); ok && string(p.Type) != typ {
		return false
	}
	return true
}

func (r *fakeProductRepository) sorted(filter shared.Filter) []catalog.Product {
	var result []catalog.Product
	for _, p := range r.products {
		if r.matches(p, filter) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *fakeProductRepository) FindAll(_ context.Context, filter shared.Filter) ([]catalog.Product, error) {
	if r.returnErr != nil {
		return nil, r.returnErr
	}
	return r.sorted(filter), nil
}

func (r *fakeProductRepository) Count(_ context.Context, filter shared.Filter) (int64, error) {
	if r.returnErr != nil {
		return 0, r.returnErr
	}
	return int64(len(r.sorted(filter))), nil
}

func (r *fakeProductRepository) Save(_ context.Context, product *catalog.Product) error {
	if r.returnErr != nil {
		return r.returnErr
	}
	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepository) Delete(_ context.Context, id int64) error {
	if r.returnErr != nil {
		return r.returnErr
	}
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepository) ReplaceTerms(_ context.Context, _ *catalog.Product, _ catalog.Taxonomy, _ []int64) error {
	return r.returnErr
}

func (r *fakeProductRepository) FindLowStock(_ context.Context, threshold int64, _ shared.Filter) ([]catalog.Product, int64, error) {
	if r.returnErr != nil {
		return nil, 0, r.returnErr
	}
	var result []catalog.Product
	for _, p := range r.products {
		if p.Status == catalog.ProductStatusPublish && p.ManageStock &&
			p.StockStatus == catalog.StockStatusInStock &&
			p.StockQuantity != nil && *p.StockQuantity <= threshold {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if *result[i].StockQuantity != *result[j].StockQuantity {
			return *result[i].StockQuantity < *result[j].StockQuantity
		}
		return result[i].ID < result[j].ID
	})
	return result, int64(len(result)), nil
}

type fakeTermRepository struct {
	terms map[int64]catalog.Term
}

func newFakeTermRepository(terms ...catalog.Term) *fakeTermRepository {
	r := &fakeTermRepository{terms: make(map[int64]catalog.Term)}
	for _, t := range terms {
		r.terms[t.ID] = t
	}
	return r
}

func (r *fakeTermRepository) FindByIDs(_ context.Context, taxonomy catalog.Taxonomy, ids []int64) ([]catalog.Term, error) {
	var result []catalog.Term
	for _, id := range ids {
		if t, ok := r.terms[id]; ok && t.Taxonomy == taxonomy {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *fakeTermRepository) FindByProduct(_ context.Context, _ catalog.Taxonomy, _ int64) ([]catalog.Term, error) {
	return nil, nil
}

type fakeOrderRepository struct {
	orders    map[int64]*trade.Order
	notes     map[int64][]trade.OrderNote
	returnErr error
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{
		orders: make(map[int64]*trade.Order),
		notes:  make(map[int64][]trade.OrderNote),
	}
}

func (r *fakeOrderRepository) FindByID(_ context.Context, id int64) (*trade.Order, error) {
	if r.returnErr != nil {
		return nil, r.returnErr
	}
	if o, ok := r.orders[id]; ok {
		copied := *o
		copied.Notes = r.notes[id]
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepository) FindAll(_ context.Context, query trade.OrderQuery, _ shared.Filter) ([]trade.Order, int64, error) {
	if r.returnErr != nil {
		return nil, 0, r.returnErr
	}
	var result []trade.Order
	for _, o := range r.orders {
		if len(query.Statuses) > 0 {
			found := false
			for _, s := range query.Statuses {
				if o.Status == s {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if query.CustomerID > 0 && (o.CustomerID == nil || *o.CustomerID != query.CustomerID) {
			continue
		}
		result = append(result, *o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (r *fakeOrderRepository) Save(_ context.Context, order *trade.Order) error {
	if r.returnErr != nil {
		return r.returnErr
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepository) AddNote(_ context.Context, note *trade.OrderNote) error {
	if r.returnErr != nil {
		return r.returnErr
	}
	note.ID = int64(len(r.notes[note.OrderID]) + 1)
	r.notes[note.OrderID] = append([]trade.OrderNote{*note}, r.notes[note.OrderID]...)
	return nil
}

func (r *fakeOrderRepository) FindNotes(_ context.Context, orderID int64) ([]trade.OrderNote, error) {
	if r.returnErr != nil {
		return nil, r.returnErr
	}
	return r.notes[orderID], nil
}

type fakeSalesRepository struct {
	rows        []report.SalesRow
	bestsellers []report.BestsellerRow
}

func (r *fakeSalesRepository) SalesByDay(_ context.Context, _ report.DateRange) ([]report.SalesRow, error) {
	return r.rows, nil
}

func (r *fakeSalesRepository) Bestsellers(_ context.Context, _ report.DateRange, limit int) ([]report.BestsellerRow, error) {
	if limit < len(r.bestsellers) {
		return r.bestsellers[:limit], nil
	}
	return r.bestsellers, nil
}

func newTestProductService(repo *fakeProductRepository, terms *fakeTermRepository) *catalogapp.ProductService {
	if terms == nil {
		terms = newFakeTermRepository()
	}
	return catalogapp.NewProductService(repo, terms, nil, catalogapp.ProductServiceConfig{
		PermalinkBase:     "https://shop.example.com",
		LowStockThreshold: 5,
		Timezone:          "UTC",
	})
}

func newTestOrderService(repo *fakeOrderRepository) *tradeapp.OrderService {
	return tradeapp.NewOrderService(repo, nil, nil, tradeapp.OrderServiceConfig{Timezone: "UTC"})
}

func newTestReportService(sales *fakeSalesRepository) *reportapp.ReportService {
	return reportapp.NewReportService(sales, reportapp.ReportServiceConfig{Timezone: "UTC"})
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) dto.Response {
	t.Helper()
	resp := decodeResponse(t, w)
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
	return resp
}

func seedProduct(repo *fakeProductRepository, name string, mutate func(*catalog.Product)) *catalog.Product {
	p, _ := catalog.NewProduct(name)
	if mutate != nil {
		mutate(p)
	}
	_ = repo.Save(context.Background(), p)
	return p
}

func seedOrder(repo *fakeOrderRepository, id int64, status trade.OrderStatus, mutate func(*trade.Order)) *trade.Order {
	now := time.Now()
	o := &trade.Order{
		Entity:      shared.Entity{ID: id, CreatedAt: now, UpdatedAt: now},
		OrderNumber: "1001",
		Status:      status,
		Currency:    "USD",
	}
	if mutate != nil {
		mutate(o)
	}
	repo.orders[id] = o
	return o
}
