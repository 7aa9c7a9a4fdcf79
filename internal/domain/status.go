package domain

import "fmt"

// Status is the order lifecycle state. Any status may be set from any
// other; there is no enforced transition graph.
type Status string

const (
	StatusCreated   Status = "created"
	StatusPaid      Status = "paid"
	StatusCanceled  Status = "canceled"
	StatusDelivered Status = "delivered"
)

// ParseStatus validates a raw status value coming from a request body.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusCreated, StatusPaid, StatusCanceled, StatusDelivered:
		return st, nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// Title is the short human-readable status line used in notifications.
func (s Status) Title() string {
	switch s {
	case StatusCreated:
		return "Order created"
	case StatusPaid:
		return "Order paid"
	case StatusCanceled:
		return "Order canceled"
	case StatusDelivered:
		return "Order delivered"
	}
	return string(s)
}

// Description expands the status for notification text.
func (s Status) Description() string {
	switch s {
	case StatusCreated:
		return "We received your order and are processing it"
	case StatusPaid:
		return "We received your payment and are preparing your order"
	case StatusCanceled:
		return "We canceled your order"
	case StatusDelivered:
		return "We delivered your order"
	}
	return ""
}
