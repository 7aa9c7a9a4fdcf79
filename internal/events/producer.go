package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
)

const orderEventsTopic = "order-events"

// Producer publishes order events to kafka. Publication is best-effort
// and happens strictly after the status change is committed; failures are
// logged and never surfaced to the caller.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer returns a disabled producer when brokers is empty.
func NewProducer(brokers string, logger *zap.Logger) *Producer {
	var addrs []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	p := &Producer{logger: logger}
	if len(addrs) > 0 {
		p.writer = &kafka.Writer{
			Addr:         kafka.TCP(addrs...),
			Topic:        orderEventsTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		}
	}
	return p
}

func (p *Producer) Enabled() bool {
	return p.writer != nil
}

// PublishOrderStatus emits an OrderEvent for the order's current status.
func (p *Producer) PublishOrderStatus(order *domain.Order, status domain.Status) {
	if p.writer == nil {
		return
	}

	event := OrderEvent{
		EventID:   uuid.NewString(),
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    string(status),
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal order event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("ORDER#%d", order.ID)),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish order event",
			zap.String("event_id", event.EventID),
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		return
	}
	p.logger.Info("Order event published",
		zap.String("event_id", event.EventID),
		zap.Int64("order_id", order.ID),
		zap.String("status", string(status)))
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
