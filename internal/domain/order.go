package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Order is owned by the backend. The client only reads it and asks for
// status transitions through the order gateway.
type Order struct {
	ID                       int64           `json:"id"`
	Status                   Status          `json:"status"`
	CustomerName             string          `json:"customerName"`
	CustomerEmail            string          `json:"customerEmail"`
	CustomerPhone            string          `json:"customerPhone"`
	CustomerAddress          string          `json:"customerAddress,omitempty"`
	Items                    []OrderItem     `json:"items"`
	Total                    decimal.Decimal `json:"total"`
	CreatedAt                time.Time       `json:"createdAt"`
	PaymentReceiptURL        string          `json:"paymentReceiptUrl,omitempty"`
	PaymentReceiptUploadedAt *time.Time      `json:"paymentReceiptUploadedAt,omitempty"`
	TrackingNumber           string          `json:"trackingNumber,omitempty"`
	ShippingProvider         string          `json:"shippingProvider,omitempty"`
	AdminNotes               string          `json:"adminNotes,omitempty"`
}

type OrderLineRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerName      string             `json:"customerName"`
	CustomerEmail     string             `json:"customerEmail"`
	CustomerPhone     string             `json:"customerPhone"`
	ShippingAddressID int64              `json:"shippingAddressId,omitempty"`
	Items             []OrderLineRequest `json:"items"`
}

type ReviewRequest struct {
	AdminNotes string `json:"adminNotes"`
}
