// Package report holds the read models behind the dashboard reports.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DailySale is one day's aggregated revenue
type DailySale struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Total decimal.Decimal `json:"total"`
}

// SalesRow is the raw per-day aggregate returned by the store
type SalesRow struct {
	Day        time.Time
	Total      decimal.Decimal
	OrderCount int64
}

// BestsellerRow is the raw aggregate keyed by sold product or variation
type BestsellerRow struct {
	ProductID    int64
	VariationID  int64
	Name         string
	QuantitySold int64
}

// SalesRepository provides order aggregates for reporting
type SalesRepository interface {
	// SalesByDay aggregates qualifying orders per calendar day within the range
	SalesByDay(ctx context.Context, r DateRange) ([]SalesRow, error)
	// Bestsellers aggregates quantities sold per product/variation within the range
	Bestsellers(ctx context.Context, r DateRange, limit int) ([]BestsellerRow, error)
}
