package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storemanager/backend/internal/domain/report"
	"github.com/storemanager/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormSalesRepository implements report.SalesRepository with SQL aggregates
// over the orders tables.
type GormSalesRepository struct {
	db *gorm.DB
}

// NewGormSalesRepository creates a new GormSalesRepository
func NewGormSalesRepository(db *gorm.DB) *GormSalesRepository {
	return &GormSalesRepository{db: db}
}

var _ report.SalesRepository = (*GormSalesRepository)(nil)

type salesRowScan struct {
	Day        time.Time
	Total      decimal.Decimal
	OrderCount int64
}

// SalesByDay aggregates total revenue and order count per calendar day for
// orders in a sale-counting status within the range. Days without sales are
// absent; the service densifies the series.
func (r *GormSalesRepository) SalesByDay(ctx context.Context, dateRange report.DateRange) ([]report.SalesRow, error) {
	var rows []salesRowScan
	err := r.db.WithContext(ctx).
		Model(&trade.Order{}).
		Select("DATE(created_at) AS day, COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS order_count").
		Where("status IN ?", trade.SaleStatuses).
		Where("created_at BETWEEN ? AND ?", dateRange.Start, dateRange.End).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]report.SalesRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, report.SalesRow{
			Day:        row.Day,
			Total:      row.Total,
			OrderCount: row.OrderCount,
		})
	}
	return result, nil
}

type bestsellerRowScan struct {
	ProductID    int64
	VariationID  int64
	Name         string
	QuantitySold int64
}

// Bestsellers aggregates quantities sold per product or variation for
// confirmed sales in the range, descending by quantity. Lines selling a
// variation are keyed by the variation, the rest by the parent product.
func (r *GormSalesRepository) Bestsellers(ctx context.Context, dateRange report.DateRange, limit int) ([]report.BestsellerRow, error) {
	var rows []bestsellerRowScan
	err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Select(`oi.product_id,
			oi.variation_id,
			MAX(oi.name) AS name,
			SUM(oi.quantity) AS quantity_sold`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.status IN ?", trade.ConfirmedSaleStatuses).
		Where("o.created_at BETWEEN ? AND ?", dateRange.Start, dateRange.End).
		Group("oi.product_id, oi.variation_id").
		Order("quantity_sold DESC, oi.product_id ASC, oi.variation_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]report.BestsellerRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, report.BestsellerRow{
			ProductID:    row.ProductID,
			VariationID:  row.VariationID,
			Name:         row.Name,
			QuantitySold: row.QuantitySold,
		})
	}
	return result, nil
}
