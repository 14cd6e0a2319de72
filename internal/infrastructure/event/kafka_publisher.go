package event

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/storemanager/backend/internal/application/trade"
	"github.com/storemanager/backend/internal/infrastructure/config"
)

// messageWriter is the subset of kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaOrderEventPublisher publishes order lifecycle events to a Kafka topic.
// Messages are keyed by order id so consumers see transitions for the same
// order in order.
type KafkaOrderEventPublisher struct {
	writer messageWriter
}

var _ trade.OrderEventPublisher = (*KafkaOrderEventPublisher)(nil)

// NewKafkaOrderEventPublisher creates a publisher for the configured brokers
// and topic
func NewKafkaOrderEventPublisher(cfg config.KafkaConfig) *KafkaOrderEventPublisher {
	return &KafkaOrderEventPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

type orderStatusChangedMessage struct {
	Event       string    `json:"event"`
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	ChangedBy   string    `json:"changed_by"`
	ChangedAt   time.Time `json:"changed_at"`
}

// PublishStatusChanged writes an order.status_changed message to the topic
func (p *KafkaOrderEventPublisher) PublishStatusChanged(ctx context.Context, event trade.OrderStatusChanged) error {
	payload, err := json.Marshal(orderStatusChangedMessage{
		Event:       "order.status_changed",
		OrderID:     event.OrderID,
		OrderNumber: event.OrderNumber,
		From:        event.From,
		To:          event.To,
		ChangedBy:   event.ChangedBy,
		ChangedAt:   event.ChangedAt,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: payload,
		Time:  event.ChangedAt,
	})
}

// Close flushes pending messages and closes the underlying writer
func (p *KafkaOrderEventPublisher) Close() error {
	return p.writer.Close()
}
