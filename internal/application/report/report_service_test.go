package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storemanager/backend/internal/domain/report"
	"github.com/storemanager/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSalesRepository is a mock implementation of SalesRepository
type MockSalesRepository struct {
	mock.Mock
}

func (m *MockSalesRepository) SalesByDay(ctx context.Context, r report.DateRange) ([]report.SalesRow, error) {
	args := m.Called(ctx, r)
	return args.Get(0).([]report.SalesRow), args.Error(1)
}

func (m *MockSalesRepository) Bestsellers(ctx context.Context, r report.DateRange, limit int) ([]report.BestsellerRow, error) {
	args := m.Called(ctx, r, limit)
	return args.Get(0).([]report.BestsellerRow), args.Error(1)
}

var testNow = time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)

func newTestReportService(repo *MockSalesRepository) *ReportService {
	service := NewReportService(repo, ReportServiceConfig{Timezone: "UTC", PriceDecimals: 2})
	service.now = func() time.Time { return testNow }
	return service
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReportService_Sales_DenseSeries(t *testing.T) {
	repo := new(MockSalesRepository)
	service := newTestReportService(repo)

	repo.On("SalesByDay", mock.Anything, mock.Anything).Return([]report.SalesRow{
		{Day: day(2025, 3, 10), Total: decimal.NewFromFloat(99.50), OrderCount: 3},
		{Day: day(2025, 3, 14), Total: decimal.NewFromFloat(20.50), OrderCount: 1},
	}, nil)

	result, err := service.Sales(context.Background(), PeriodQuery{})

	assert.NoError(t, err)
	assert.Equal(t, "7days", result.Period.Name)
	assert.Equal(t, "2025-03-09", result.Period.DateStart)
	assert.Equal(t, "2025-03-15", result.Period.DateEnd)
	assert.Len(t, result.Series, 7)

	assert.Equal(t, "2025-03-09", result.Series[0].Date)
	assert.Equal(t, "0.00", result.Series[0].Total)
	assert.Equal(t, "99.50", result.Series[1].Total)
	assert.Equal(t, int64(3), result.Series[1].Orders)
	assert.Equal(t, "20.50", result.Series[5].Total)
	assert.Equal(t, "0.00", result.Series[6].Total)

	assert.Equal(t, "120.00", result.TotalSales)
	assert.Equal(t, int64(4), result.OrderCount)
	assert.Equal(t, "30.00", result.AverageOrder)
}

func TestReportService_Sales_EmptyPeriod(t *testing.T) {
	repo := new(MockSalesRepository)
	service := newTestReportService(repo)

	repo.On("SalesByDay", mock.Anything, mock.Anything).Return([]report.SalesRow{}, nil)

	result, err := service.Sales(context.Background(), PeriodQuery{Period: "30days"})

	assert.NoError(t, err)
	assert.Len(t, result.Series, 30)
	assert.Equal(t, "0.00", result.TotalSales)
	assert.Equal(t, int64(0), result.OrderCount)
	assert.Equal(t, "0.00", result.AverageOrder)
}

func TestReportService_Sales_CustomPeriod(t *testing.T) {
	repo := new(MockSalesRepository)
	service := newTestReportService(repo)

	var captured report.DateRange
	repo.On("SalesByDay", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(report.DateRange) }).
		Return([]report.SalesRow{}, nil)

	result, err := service.Sales(context.Background(), PeriodQuery{
		Period:    "custom",
		DateStart: "2025-02-01",
		DateEnd:   "2025-02-03",
	})

	assert.NoError(t, err)
	assert.Len(t, result.Series, 3)
	assert.Equal(t, 0, captured.Start.Hour())
	assert.Equal(t, 23, captured.End.Hour())
}

func TestReportService_Sales_CustomPeriodErrors(t *testing.T) {
	service := newTestReportService(new(MockSalesRepository))

	cases := []struct {
		name     string
		query    PeriodQuery
		fragment string
	}{
		{"missing dates", PeriodQuery{Period: "custom"}, "date_start and date_end are required"},
		{"bad start", PeriodQuery{Period: "custom", DateStart: "03/01/2025", DateEnd: "2025-03-05"}, "date_start"},
		{"bad end", PeriodQuery{Period: "custom", DateStart: "2025-03-01", DateEnd: "soon"}, "date_end"},
		{"inverted", PeriodQuery{Period: "custom", DateStart: "2025-03-05", DateEnd: "2025-03-01"}, "must not be after"},
		{"unknown period", PeriodQuery{Period: "fortnight"}, "period must be one of"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Sales(context.Background(), tc.query)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tc.fragment)
			var domainErr *shared.DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_PERIOD", domainErr.Code)
		})
	}
}

func TestReportService_Bestsellers(t *testing.T) {
	repo := new(MockSalesRepository)
	service := newTestReportService(repo)

	repo.On("Bestsellers", mock.Anything, mock.Anything, 5).Return([]report.BestsellerRow{
		{ProductID: 3, VariationID: 0, Name: "Widget", QuantitySold: 12},
		{ProductID: 3, VariationID: 8, Name: "Widget - Large", QuantitySold: 7},
	}, nil)

	result, err := service.Bestsellers(context.Background(), PeriodQuery{}, 0)

	assert.NoError(t, err)
	assert.Equal(t, 5, result.Limit)
	assert.Len(t, result.Bestsellers, 2)
	assert.Equal(t, int64(12), result.Bestsellers[0].QuantitySold)
	assert.Equal(t, int64(8), result.Bestsellers[1].VariationID)
}

func TestReportService_Bestsellers_LimitClamped(t *testing.T) {
	repo := new(MockSalesRepository)
	service := newTestReportService(repo)

	repo.On("Bestsellers", mock.Anything, mock.Anything, 50).Return([]report.BestsellerRow{}, nil)

	result, err := service.Bestsellers(context.Background(), PeriodQuery{}, 500)

	assert.NoError(t, err)
	assert.Equal(t, 50, result.Limit)
	repo.AssertCalled(t, "Bestsellers", mock.Anything, mock.Anything, 50)
}

func TestReportService_Bestsellers_InvalidPeriod(t *testing.T) {
	service := newTestReportService(new(MockSalesRepository))

	_, err := service.Bestsellers(context.Background(), PeriodQuery{Period: "custom"}, 5)

	assert.Error(t, err)
}
