package trade

import (
	"context"
	"time"

	"github.com/storemanager/backend/internal/domain/shared"
)

// OrderQuery narrows an order listing. Zero values mean "no constraint".
type OrderQuery struct {
	Statuses   []OrderStatus
	CustomerID int64
	DateAfter  *time.Time
	DateBefore *time.Time
}

// OrderRepository defines the persistence contract for orders
type OrderRepository interface {
	// FindByID loads an order with its line items and notes
	FindByID(ctx context.Context, id int64) (*Order, error)
	FindAll(ctx context.Context, query OrderQuery, filter shared.Filter) ([]Order, int64, error)
	Save(ctx context.Context, order *Order) error
	AddNote(ctx context.Context, note *OrderNote) error
	FindNotes(ctx context.Context, orderID int64) ([]OrderNote, error)
}
