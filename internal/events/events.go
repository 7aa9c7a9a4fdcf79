package events

import (
	"time"

	"github.com/google/uuid"
)

// OrderEvent is published on order creation and on every status change.
type OrderEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   int64     `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
