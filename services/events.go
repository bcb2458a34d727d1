package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types published after a successful commit
const (
	EventOrderCreated         = "order.created"
	EventOrderPaid            = "order.paid"
	EventOrderCancelled       = "order.cancelled"
	EventOrderStatusChanged   = "order.status_changed"
	EventOrderPaymentMismatch = "order.payment_mismatch"
	EventOrderDeleted         = "order.deleted"
	EventDishDeleted          = "dish.deleted"
)

// Event is a domain notification
type Event struct {
	Type       string                 `json:"type"`
	OrderID    uint                   `json:"order_id,omitempty"`
	DishID     uint                   `json:"dish_id,omitempty"`
	UserID     string                 `json:"user_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e Event) key() []byte {
	switch {
	case e.OrderID != 0:
		return []byte("order-" + strconv.FormatUint(uint64(e.OrderID), 10))
	case e.DishID != 0:
		return []byte("dish-" + strconv.FormatUint(uint64(e.DishID), 10))
	}
	return []byte(e.Type)
}

// EventPublisher delivers domain events
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// KafkaEventPublisher writes events as JSON to one Kafka topic
type KafkaEventPublisher struct {
	writer *kafka.Writer
}

func NewKafkaEventPublisher(brokers []string, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   event.key(),
		Value: payload,
	})
}

func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}

// LogEventPublisher only logs events. It is used when no broker is configured.
type LogEventPublisher struct {
	log *zap.Logger
}

func NewLogEventPublisher(log *zap.Logger) *LogEventPublisher {
	return &LogEventPublisher{log: log}
}

func (p *LogEventPublisher) Publish(_ context.Context, event Event) error {
	p.log.Info("domain event",
		zap.String("type", event.Type),
		zap.Uint("order_id", event.OrderID),
		zap.Uint("dish_id", event.DishID),
		zap.String("user_id", event.UserID),
		zap.Any("data", event.Data),
	)
	return nil
}

func (p *LogEventPublisher) Close() error {
	return nil
}

// publishEvent stamps and sends an event. Failures are logged, never returned:
// the business change has already been committed.
func publishEvent(ctx context.Context, pub EventPublisher, log *zap.Logger, event Event) {
	if pub == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.Warn("failed to publish event", zap.String("type", event.Type), zap.Error(err))
	}
}
