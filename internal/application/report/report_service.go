package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storemanager/backend/internal/domain/report"
)

// Bestseller limit bounds
const (
	DefaultBestsellerLimit = 5
	MaxBestsellerLimit     = 50
)

// PeriodDTO echoes the resolved reporting window back to the caller
type PeriodDTO struct {
	Name      string `json:"name"`
	DateStart string `json:"date_start"`
	DateEnd   string `json:"date_end"`
}

// DailySaleDTO is one day of the sales series
type DailySaleDTO struct {
	Date   string `json:"date"`
	Total  string `json:"total"`
	Orders int64  `json:"orders"`
}

// SalesReportDTO is the response of the sales report
type SalesReportDTO struct {
	Period       PeriodDTO      `json:"period"`
	TotalSales   string         `json:"total_sales"`
	OrderCount   int64          `json:"order_count"`
	AverageOrder string         `json:"average_order_value"`
	Series       []DailySaleDTO `json:"series"`
}

// BestsellerDTO is one row of the bestseller report
type BestsellerDTO struct {
	ProductID    int64  `json:"product_id"`
	VariationID  int64  `json:"variation_id"`
	Name         string `json:"name"`
	QuantitySold int64  `json:"quantity_sold"`
}

// BestsellerReportDTO is the response of the bestseller report
type BestsellerReportDTO struct {
	Period      PeriodDTO       `json:"period"`
	Limit       int             `json:"limit"`
	Bestsellers []BestsellerDTO `json:"bestsellers"`
}

// PeriodQuery carries the raw period parameters of a report request
type PeriodQuery struct {
	Period    string
	DateStart string
	DateEnd   string
}

// ReportServiceConfig carries store-level settings for reporting
type ReportServiceConfig struct {
	Timezone      string
	PriceDecimals int32
}

// ReportService computes the dashboard reports
type ReportService struct {
	salesRepo report.SalesRepository
	config    ReportServiceConfig
	location  *time.Location
	now       func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(salesRepo report.SalesRepository, config ReportServiceConfig) *ReportService {
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil || config.Timezone == "" {
		loc = time.UTC
	}
	if config.PriceDecimals <= 0 {
		config.PriceDecimals = 2
	}
	return &ReportService{
		salesRepo: salesRepo,
		config:    config,
		location:  loc,
		now:       time.Now,
	}
}

func (s *ReportService) resolve(q PeriodQuery) (report.DateRange, PeriodDTO, error) {
	name := report.PeriodName(q.Period)
	if q.Period == "" {
		name = report.Period7Days
	}
	r, err := report.ResolvePeriod(name, q.DateStart, q.DateEnd, s.now(), s.location)
	if err != nil {
		return report.DateRange{}, PeriodDTO{}, err
	}
	dto := PeriodDTO{
		Name:      string(name),
		DateStart: r.Start.Format("2006-01-02"),
		DateEnd:   r.End.Format("2006-01-02"),
	}
	return r, dto, nil
}

// Sales aggregates revenue per calendar day over the requested period.
// The series is dense: every day of the range appears, zero when no
// qualifying order was placed.
func (s *ReportService) Sales(ctx context.Context, q PeriodQuery) (*SalesReportDTO, error) {
	r, periodDTO, err := s.resolve(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.salesRepo.SalesByDay(ctx, r)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]report.SalesRow, len(rows))
	for _, row := range rows {
		byDay[row.Day.In(s.location).Format("2006-01-02")] = row
	}

	total := decimal.Zero
	var orderCount int64
	series := make([]DailySaleDTO, 0, r.Days())
	for day := r.Start; !day.After(r.End); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		entry := DailySaleDTO{Date: key, Total: s.amount(decimal.Zero)}
		if row, ok := byDay[key]; ok {
			entry.Total = s.amount(row.Total)
			entry.Orders = row.OrderCount
			total = total.Add(row.Total)
			orderCount += row.OrderCount
		}
		series = append(series, entry)
	}

	average := decimal.Zero
	if orderCount > 0 {
		average = total.Div(decimal.NewFromInt(orderCount))
	}

	return &SalesReportDTO{
		Period:       periodDTO,
		TotalSales:   s.amount(total),
		OrderCount:   orderCount,
		AverageOrder: s.amount(average),
		Series:       series,
	}, nil
}

// Bestsellers lists the top sold products or variations of the period.
// The limit is clamped rather than rejected.
func (s *ReportService) Bestsellers(ctx context.Context, q PeriodQuery, limit int) (*BestsellerReportDTO, error) {
	if limit <= 0 {
		limit = DefaultBestsellerLimit
	}
	if limit > MaxBestsellerLimit {
		limit = MaxBestsellerLimit
	}

	r, periodDTO, err := s.resolve(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.salesRepo.Bestsellers(ctx, r, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]BestsellerDTO, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, BestsellerDTO{
			ProductID:    row.ProductID,
			VariationID:  row.VariationID,
			Name:         row.Name,
			QuantitySold: row.QuantitySold,
		})
	}

	return &BestsellerReportDTO{
		Period:      periodDTO,
		Limit:       limit,
		Bestsellers: entries,
	}, nil
}

func (s *ReportService) amount(d decimal.Decimal) string {
	return d.StringFixed(s.config.PriceDecimals)
}
