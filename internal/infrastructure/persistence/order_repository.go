package persistence

import (
	"context"
	"errors"
	"strconv"

	"github.com/storemanager/backend/internal/domain/shared"
	"github.com/storemanager/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)

// FindByID loads an order with its line items and notes, notes newest first
func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll lists orders matching the query and filter. Line items and notes
// are not loaded; collection endpoints serve lightweight rows.
func (r *GormOrderRepository) FindAll(ctx context.Context, query trade.OrderQuery, filter shared.Filter) ([]trade.Order, int64, error) {
	base := r.applyQuery(r.db.WithContext(ctx).Model(&trade.Order{}), query, filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listing := base
	if filter.Paged() {
		listing = listing.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	listing = listing.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var orders []trade.Order
	if err := listing.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save creates or updates an order. Line items and notes are persisted
// through their own paths.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).
		Omit("LineItems", "Notes").
		Save(order).Error
}

// AddNote persists a new order note
func (r *GormOrderRepository) AddNote(ctx context.Context, note *trade.OrderNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// FindNotes lists an order's notes, newest first
func (r *GormOrderRepository) FindNotes(ctx context.Context, orderID int64) ([]trade.OrderNote, error) {
	var notes []trade.OrderNote
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC, id DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *GormOrderRepository) applyQuery(db *gorm.DB, query trade.OrderQuery, filter shared.Filter) *gorm.DB {
	if len(query.Statuses) > 0 {
		db = db.Where("status IN ?", query.Statuses)
	}
	if query.CustomerID > 0 {
		db = db.Where("customer_id = ?", query.CustomerID)
	}
	if query.DateAfter != nil {
		db = db.Where("created_at >= ?", *query.DateAfter)
	}
	if query.DateBefore != nil {
		db = db.Where("created_at <= ?", *query.DateBefore)
	}

	if filter.Search != "" {
		// A numeric search targets the order id, anything else the buyer
		if id, err := strconv.ParseInt(filter.Search, 10, 64); err == nil {
			db = db.Where("id = ? OR order_number = ?", id, filter.Search)
		} else {
			pattern := "%" + filter.Search + "%"
			db = db.Where(
				"billing_email ILIKE ? OR billing_first_name ILIKE ? OR billing_last_name ILIKE ?",
				pattern, pattern, pattern,
			)
		}
	}

	return db
}
