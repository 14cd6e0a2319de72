package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storemanager/backend/internal/domain/catalog"
	"github.com/storemanager/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ReplaceTerms(ctx context.Context, product *catalog.Product, taxonomy catalog.Taxonomy, termIDs []int64) error {
	args := m.Called(ctx, product, taxonomy, termIDs)
	return args.Error(0)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context, threshold int64, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, threshold, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

// MockTermRepository is a mock implementation of TermRepository
type MockTermRepository struct {
	mock.Mock
}

func (m *MockTermRepository) FindByIDs(ctx context.Context, taxonomy catalog.Taxonomy, ids []int64) ([]catalog.Term, error) {
	args := m.Called(ctx, taxonomy, ids)
	return args.Get(0).([]catalog.Term), args.Error(1)
}

func (m *MockTermRepository) FindByProduct(ctx context.Context, taxonomy catalog.Taxonomy, productID int64) ([]catalog.Term, error) {
	args := m.Called(ctx, taxonomy, productID)
	return args.Get(0).([]catalog.Term), args.Error(1)
}

type staticImageResolver struct {
	url string
}

func (r *staticImageResolver) ResolveURL(ctx context.Context, imageID int64) (string, error) {
	return r.url, nil
}

func newTestService(productRepo *MockProductRepository, termRepo *MockTermRepository) *ProductService {
	return NewProductService(productRepo, termRepo, &staticImageResolver{url: "https://cdn.example.com/img.jpg"}, ProductServiceConfig{
		PermalinkBase:     "https://shop.example.com",
		DefaultListStatus: "any",
		LowStockThreshold: 5,
		Timezone:          "UTC",
	})
}

func testProduct(id int64, name string) *catalog.Product {
	p, _ := catalog.NewProduct(name)
	p.ID = id
	price := decimal.NewFromInt(10)
	p.RegularPrice = &price
	return p
}

func TestProductService_Create(t *testing.T) {
	productRepo := new(MockProductRepository)
	termRepo := new(MockTermRepository)
	service := newTestService(productRepo, termRepo)

	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	price := "19.99"
	dto, err := service.Create(context.Background(), CreateProductRequest{
		Name:         "Blue Widget",
		RegularPrice: &price,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Blue Widget", dto.Name)
	assert.Equal(t, "blue-widget", dto.Slug)
	assert.Equal(t, "simple", dto.Type)
	assert.Equal(t, "publish", dto.Status)
	assert.Equal(t, "instock", dto.StockStatus)
	assert.False(t, dto.ManageStock)
	assert.Equal(t, "19.99", dto.RegularPrice)
	assert.Equal(t, "https://shop.example.com/product/blue-widget/", dto.Permalink)
	productRepo.AssertExpectations(t)
}

func TestProductService_Create_EmptyName(t *testing.T) {
	service := newTestService(new(MockProductRepository), new(MockTermRepository))

	_, err := service.Create(context.Background(), CreateProductRequest{Name: "   "})

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
}

func TestProductService_Create_InvalidPrice(t *testing.T) {
	service := newTestService(new(MockProductRepository), new(MockTermRepository))

	bad := "abc"
	_, err := service.Create(context.Background(), CreateProductRequest{
		Name:         "Widget",
		RegularPrice: &bad,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "regular_price")
}

func TestProductService_Create_StockQuantityRequiresManageStock(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	productRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	qty := int64(7)
	dto, err := service.Create(context.Background(), CreateProductRequest{
		Name:          "Widget",
		StockQuantity: &qty,
	})

	assert.NoError(t, err)
	assert.Nil(t, dto.StockQuantity)

	manage := true
	dto, err = service.Create(context.Background(), CreateProductRequest{
		Name:          "Widget",
		ManageStock:   &manage,
		StockQuantity: &qty,
	})

	assert.NoError(t, err)
	assert.NotNil(t, dto.StockQuantity)
	assert.Equal(t, int64(7), *dto.StockQuantity)
}

func TestProductService_Create_SaleWindow(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	productRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	regular := "20.00"
	sale := "15.00"
	from := "2020-01-01"
	to := "2100-12-31T23:59:59"
	dto, err := service.Create(context.Background(), CreateProductRequest{
		Name:           "Seasonal Widget",
		RegularPrice:   &regular,
		SalePrice:      &sale,
		DateOnSaleFrom: &from,
		DateOnSaleTo:   &to,
	})

	assert.NoError(t, err)
	assert.Equal(t, "2020-01-01T00:00:00", dto.DateOnSaleFrom)
	assert.Equal(t, "2020-01-01T00:00:00", dto.DateOnSaleFromGMT)
	assert.Equal(t, "2100-12-31T23:59:59", dto.DateOnSaleTo)
	assert.True(t, dto.OnSale)
	assert.Equal(t, "15", dto.Price)
}

func TestProductService_Create_SaleWindowRejectsReversedRange(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	from := "2025-06-30"
	to := "2025-06-01"
	_, err := service.Create(context.Background(), CreateProductRequest{
		Name:           "Widget",
		DateOnSaleFrom: &from,
		DateOnSaleTo:   &to,
	})

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Create_SaleWindowRejectsBadFormat(t *testing.T) {
	service := newTestService(new(MockProductRepository), new(MockTermRepository))

	from := "06/01/2025"
	_, err := service.Create(context.Background(), CreateProductRequest{
		Name:           "Widget",
		DateOnSaleFrom: &from,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date_on_sale_from")
}

func TestProductService_Create_ParentID(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	productRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	parent := int64(99)
	dto, err := service.Create(context.Background(), CreateProductRequest{
		Name:     "Grouped Widget Child",
		ParentID: &parent,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(99), dto.ParentID)
}

func TestProductService_Create_WithCategories(t *testing.T) {
	productRepo := new(MockProductRepository)
	termRepo := new(MockTermRepository)
	service := newTestService(productRepo, termRepo)

	terms := []catalog.Term{
		{Entity: shared.Entity{ID: 1}, Name: "Hats", Slug: "hats", Taxonomy: catalog.TaxonomyCategory},
		{Entity: shared.Entity{ID: 2}, Name: "Sale", Slug: "sale", Taxonomy: catalog.TaxonomyCategory},
	}
	productRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	productRepo.On("ReplaceTerms", mock.Anything, mock.Anything, catalog.TaxonomyCategory, []int64{1, 2}).Return(nil)
	termRepo.On("FindByIDs", mock.Anything, catalog.TaxonomyCategory, []int64{1, 2}).Return(terms, nil)

	dto, err := service.Create(context.Background(), CreateProductRequest{
		Name:        "Straw Hat",
		CategoryIDs: []int64{1, 2},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"Hats", "Sale"}, dto.Categories)
	assert.Equal(t, []int64{1, 2}, dto.CategoryIDs)
}

func TestProductService_Create_UnknownCategory(t *testing.T) {
	productRepo := new(MockProductRepository)
	termRepo := new(MockTermRepository)
	service := newTestService(productRepo, termRepo)

	productRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	termRepo.On("FindByIDs", mock.Anything, catalog.TaxonomyCategory, []int64{99}).Return([]catalog.Term{}, nil)

	_, err := service.Create(context.Background(), CreateProductRequest{
		Name:        "Straw Hat",
		CategoryIDs: []int64{99},
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "category")
}

func TestProductService_Get(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	productRepo.On("FindByID", mock.Anything, int64(5)).Return(testProduct(5, "Widget"), nil)

	dto, err := service.Get(context.Background(), 5)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), dto.ID)
	assert.Empty(t, dto.FeaturedImageURL)
}

func TestProductService_Get_ResolvesImage(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	withImage := testProduct(6, "Widget")
	withImage.ImageID = 42
	productRepo.On("FindByID", mock.Anything, int64(6)).Return(withImage, nil)

	dto, err := service.Get(context.Background(), 6)

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/img.jpg", dto.FeaturedImageURL)
}

func TestProductService_Get_Trashed(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	trashed := testProduct(5, "Widget")
	trashed.Trash()
	productRepo.On("FindByID", mock.Anything, int64(5)).Return(trashed, nil)

	_, err := service.Get(context.Background(), 5)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_List_DefaultsAndTrashedExcluded(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	var captured shared.Filter
	productRepo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(shared.Filter) }).
		Return([]catalog.Product{*testProduct(1, "Widget")}, nil)
	productRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	dtos, total, err := service.List(context.Background(), ListProductsQuery{})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, dtos, 1)
	assert.Equal(t, 1, captured.Page)
	assert.Equal(t, 10, captured.PageSize)
	assert.Equal(t, "created_at", captured.OrderBy)
	assert.Equal(t, "desc", captured.OrderDir)
	assert.Equal(t, "trash", captured.Filters["exclude_status"])
}

func TestProductService_List_InvalidStatus(t *testing.T) {
	service := newTestService(new(MockProductRepository), new(MockTermRepository))

	_, _, err := service.List(context.Background(), ListProductsQuery{Status: "shipped"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "shipped")
}

func TestProductService_Update_Partial(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	existing := testProduct(3, "Old Name")
	productRepo.On("FindByID", mock.Anything, int64(3)).Return(existing, nil)
	productRepo.On("Save", mock.Anything, existing).Return(nil)

	name := "New Name"
	dto, err := service.Update(context.Background(), 3, UpdateProductRequest{Name: &name})

	assert.NoError(t, err)
	assert.Equal(t, "New Name", dto.Name)
	assert.Equal(t, "new-name", dto.Slug)
	assert.Equal(t, "10", dto.RegularPrice)
}

func TestProductService_Update_ClearSaleWindow(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	existing := testProduct(3, "Widget")
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	existing.SaleStart = &start
	existing.SaleEnd = &end
	productRepo.On("FindByID", mock.Anything, int64(3)).Return(existing, nil)
	productRepo.On("Save", mock.Anything, existing).Return(nil)

	empty := ""
	dto, err := service.Update(context.Background(), 3, UpdateProductRequest{
		DateOnSaleFrom: &empty,
		DateOnSaleTo:   &empty,
	})

	assert.NoError(t, err)
	assert.Empty(t, dto.DateOnSaleFrom)
	assert.Empty(t, dto.DateOnSaleTo)
	assert.Nil(t, existing.SaleStart)
	assert.Nil(t, existing.SaleEnd)
}

func TestProductService_Update_SaleWindowKeepsOtherBound(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	existing := testProduct(3, "Widget")
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	existing.SaleStart = &start
	productRepo.On("FindByID", mock.Anything, int64(3)).Return(existing, nil)
	productRepo.On("Save", mock.Anything, existing).Return(nil)

	to := "2025-06-30T23:59:59"
	dto, err := service.Update(context.Background(), 3, UpdateProductRequest{DateOnSaleTo: &to})

	assert.NoError(t, err)
	assert.Equal(t, "2025-06-01T00:00:00", dto.DateOnSaleFrom)
	assert.Equal(t, "2025-06-30T23:59:59", dto.DateOnSaleTo)
}

func TestProductService_Update_DisableManageStockHidesQuantity(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	existing := testProduct(3, "Widget")
	existing.ManageStock = true
	qty := int64(4)
	existing.StockQuantity = &qty
	productRepo.On("FindByID", mock.Anything, int64(3)).Return(existing, nil)
	productRepo.On("Save", mock.Anything, existing).Return(nil)

	manage := false
	dto, err := service.Update(context.Background(), 3, UpdateProductRequest{ManageStock: &manage})

	assert.NoError(t, err)
	assert.False(t, dto.ManageStock)
	assert.Nil(t, dto.StockQuantity)
	assert.NotNil(t, existing.StockQuantity, "stored quantity stays in place")
}

func TestProductService_Delete_Trash(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	existing := testProduct(8, "Widget")
	productRepo.On("FindByID", mock.Anything, int64(8)).Return(existing, nil)
	productRepo.On("Save", mock.Anything, existing).Return(nil)

	result, err := service.Delete(context.Background(), 8, false)

	assert.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.Equal(t, int64(8), result.Previous.ID)
	assert.True(t, existing.IsTrashed())
	productRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProductService_Delete_Force(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	existing := testProduct(8, "Widget")
	productRepo.On("FindByID", mock.Anything, int64(8)).Return(existing, nil)
	productRepo.On("Delete", mock.Anything, int64(8)).Return(nil)

	result, err := service.Delete(context.Background(), 8, true)

	assert.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.Equal(t, "Widget", result.Previous.Name)
	productRepo.AssertExpectations(t)
}

func TestProductService_BulkUpdate_MixedResults(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	good := testProduct(1, "Widget")
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(good, nil)
	productRepo.On("FindByID", mock.Anything, int64(2)).Return(nil, shared.ErrNotFound)
	noFields := testProduct(3, "Gadget")
	productRepo.On("FindByID", mock.Anything, int64(3)).Return(noFields, nil)
	productRepo.On("Save", mock.Anything, good).Return(nil)

	status := "draft"
	results := service.BulkUpdate(context.Background(), []BulkUpdateItem{
		{ID: 1, Status: &status},
		{ID: 2, Status: &status},
		{ID: 3},
	})

	assert.Len(t, results, 3)
	assert.Equal(t, BulkStatusSuccess, results[0].Status)
	assert.Equal(t, BulkStatusError, results[1].Status)
	assert.Equal(t, BulkStatusSkipped, results[2].Status)
	assert.Equal(t, catalog.ProductStatusDraft, good.Status)
}

func TestProductService_BulkUpdate_InvalidStatusDoesNotAbort(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	first := testProduct(1, "Widget")
	second := testProduct(2, "Gadget")
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(first, nil)
	productRepo.On("FindByID", mock.Anything, int64(2)).Return(second, nil)
	productRepo.On("Save", mock.Anything, second).Return(nil)

	bad := "shipped"
	price := "5.50"
	results := service.BulkUpdate(context.Background(), []BulkUpdateItem{
		{ID: 1, Status: &bad},
		{ID: 2, RegularPrice: &price},
	})

	assert.Equal(t, BulkStatusError, results[0].Status)
	assert.Contains(t, results[0].Message, "shipped")
	assert.Equal(t, BulkStatusSuccess, results[1].Status)
}

func TestProductService_LowStock(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := newTestService(productRepo, new(MockTermRepository))

	low := testProduct(4, "Scarce Widget")
	low.ManageStock = true
	qty := int64(2)
	low.StockQuantity = &qty
	productRepo.On("FindLowStock", mock.Anything, int64(5), mock.Anything).
		Return([]catalog.Product{*low}, int64(1), nil)

	entries, total, err := service.LowStock(context.Background(), nil, shared.DefaultFilter())

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].StockQuantity)
	assert.Equal(t, "https://shop.example.com/product/scarce-widget/", entries[0].Permalink)
}

func TestProductService_LowStock_NegativeThreshold(t *testing.T) {
	service := newTestService(new(MockProductRepository), new(MockTermRepository))

	threshold := int64(-1)
	_, _, err := service.LowStock(context.Background(), &threshold, shared.DefaultFilter())

	assert.Error(t, err)
}
