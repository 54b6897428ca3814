package domain

import (
	"strconv"
	"time"
)

type EventType string

const (
	EventOrderPlaced     EventType = "order.placed"
	EventReceiptUploaded EventType = "receipt.uploaded"
	EventPaymentReviewed EventType = "payment.reviewed"
)

// Event is published on the storefront events topic after a workflow step
// succeeds against the API.
type Event struct {
	Type      EventType `json:"type"`
	OrderID   int64     `json:"order_id"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e Event) Key() string {
	return strconv.FormatInt(e.OrderID, 10)
}
