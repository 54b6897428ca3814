package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product's entry in the shopping cart. Stock is the ceiling
// captured when the product was last added.
type CartLine struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	MainImageURL string          `json:"mainImageUrl"`
	Stock        int             `json:"stock"`
	Quantity     int             `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSnapshot is the persisted form of the cart.
type CartSnapshot struct {
	Items     []CartLine `json:"items"`
	Timestamp time.Time  `json:"timestamp"`
}
