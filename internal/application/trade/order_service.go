package trade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/storemanager/backend/internal/domain/shared"
	"github.com/storemanager/backend/internal/domain/trade"
)

// OrderStatusChanged is the event emitted when an order transitions status
type OrderStatusChanged struct {
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	ChangedBy   string    `json:"changed_by"`
	ChangedAt   time.Time `json:"changed_at"`
}

// OrderEventPublisher publishes order lifecycle events to downstream
// consumers. Implementations must not block beyond the context deadline.
type OrderEventPublisher interface {
	PublishStatusChanged(ctx context.Context, event OrderStatusChanged) error
}

// OrderServiceConfig carries store-level settings for trade operations
type OrderServiceConfig struct {
	Timezone string
}

// OrderService handles order-related business operations
type OrderService struct {
	orderRepo trade.OrderRepository
	publisher OrderEventPublisher
	logger    *zap.Logger
	location  *time.Location
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	publisher OrderEventPublisher,
	logger *zap.Logger,
	config OrderServiceConfig,
) *OrderService {
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil || config.Timezone == "" {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		logger:    logger,
		location:  loc,
	}
}

// List retrieves orders with filtering and pagination. Statuses in the query
// are accepted in either the internal or the API spelling.
func (s *OrderService) List(ctx context.Context, query ListOrdersQuery) ([]OrderDTO, int64, error) {
	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PerPage,
		OrderBy:  query.OrderBy,
		OrderDir: query.Order,
		Search:   query.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainQuery := trade.OrderQuery{
		CustomerID: query.CustomerID,
		DateAfter:  query.DateAfter,
		DateBefore: query.DateBefore,
	}
	if query.Status != "" && query.Status != "any" {
		for _, raw := range strings.Split(query.Status, ",") {
			status := trade.NormalizeStatus(raw)
			if !status.Valid() {
				return nil, 0, shared.NewDomainError("INVALID_STATUS",
					fmt.Sprintf("Invalid order status %q. Valid statuses: %s",
						status.Unprefixed(), strings.Join(trade.ValidStatusNames(), ", ")))
			}
			domainQuery.Statuses = append(domainQuery.Statuses, status)
		}
	}

	orders, total, err := s.orderRepo.FindAll(ctx, domainQuery, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *s.toOrderDTO(&orders[i], false))
	}
	return dtos, total, nil
}

// Get retrieves a single order with its line items and notes
func (s *OrderService) Get(ctx context.Context, id int64) (*OrderDTO, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toOrderDTO(order, true), nil
}

// statusChangeNote is recorded on a status transition when the caller does
// not supply their own note content
const statusChangeNote = "Order status updated by Store Manager via API."

// UpdateStatus transitions an order to a new status. Every successful
// transition records a system note; caller-supplied note content replaces
// the default. The change is announced to downstream consumers; a failed
// announcement is logged but never fails the request.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, req UpdateOrderStatusRequest, actor string) (*OrderDTO, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	next := trade.NormalizeStatus(req.Status)
	if err := order.ChangeStatus(next); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	noteContent := strings.TrimSpace(req.Note)
	if noteContent == "" {
		noteContent = statusChangeNote
	}
	if note, err := order.NewNote(noteContent, false, actor); err == nil {
		if err := s.orderRepo.AddNote(ctx, note); err != nil {
			s.logger.Warn("failed to record status change note",
				zap.Int64("order_id", order.ID),
				zap.Error(err))
		} else {
			order.Notes = append([]trade.OrderNote{*note}, order.Notes...)
		}
	}

	if s.publisher != nil && previous != order.Status {
		event := OrderStatusChanged{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			From:        previous.Unprefixed(),
			To:          order.Status.Unprefixed(),
			ChangedBy:   actor,
			ChangedAt:   time.Now().UTC(),
		}
		if err := s.publisher.PublishStatusChanged(ctx, event); err != nil {
			s.logger.Warn("failed to publish order status change",
				zap.Int64("order_id", order.ID),
				zap.String("to", event.To),
				zap.Error(err))
		}
	}

	return s.toOrderDTO(order, true), nil
}

// AddNote attaches a note to an order. The note content must be non-empty
// after trimming; that is checked before the order is even loaded.
func (s *OrderService) AddNote(ctx context.Context, id int64, req AddOrderNoteRequest) (*OrderNoteDTO, error) {
	if strings.TrimSpace(req.Note) == "" {
		return nil, shared.ErrEmptyNote
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	note, err := order.NewNote(req.Note, req.CustomerNote, req.Author)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.AddNote(ctx, note); err != nil {
		return nil, err
	}

	dto := toNoteDTO(note, s.location)
	return &dto, nil
}

// Notes lists the notes attached to an order, newest first
func (s *OrderService) Notes(ctx context.Context, id int64) ([]OrderNoteDTO, error) {
	if _, err := s.orderRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	notes, err := s.orderRepo.FindNotes(ctx, id)
	if err != nil {
		return nil, err
	}
	dtos := make([]OrderNoteDTO, 0, len(notes))
	for i := range notes {
		dtos = append(dtos, toNoteDTO(&notes[i], s.location))
	}
	return dtos, nil
}
