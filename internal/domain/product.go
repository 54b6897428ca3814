package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	IsActive     bool            `json:"isActive"`
	MainImageURL string          `json:"mainImageUrl,omitempty"`
	Category     string          `json:"category,omitempty"`
	CreatedAt    time.Time       `json:"createdAt,omitempty"`
}

// ProductInput is the admin form payload for creating or updating a product.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"isActive"`
	Category    string          `json:"category,omitempty"`
}

type ProductQuery struct {
	Search     string
	Category   string
	ActiveOnly bool
	Page       int
	Limit      int
}
