package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joao-fontenele/storefront/internal/domain"
)

// Cart is the part of the cart store checkout reads and clears.
type Cart interface {
	Lines() []domain.CartLine
	ClearCart(ctx context.Context)
}

type Customer struct {
	Name              string
	Email             string
	Phone             string
	ShippingAddressID int64
}

func (c Customer) validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return ErrNameRequired
	case strings.TrimSpace(c.Email) == "":
		return ErrEmailRequired
	case strings.TrimSpace(c.Phone) == "":
		return ErrPhoneRequired
	}
	return nil
}

type Checkout struct {
	api       API
	cart      Cart
	publisher Publisher
	logger    *slog.Logger
}

func NewCheckout(api API, cart Cart, publisher Publisher, logger *slog.Logger) *Checkout {
	return &Checkout{
		api:       api,
		cart:      cart,
		publisher: publisher,
		logger:    logger,
	}
}

// PlaceOrder submits the cart as a new order. The cart is cleared only when
// the API accepts the order; on any error it is left as it was.
func (c *Checkout) PlaceOrder(ctx context.Context, customer Customer) (*domain.Order, error) {
	if err := customer.validate(); err != nil {
		return nil, err
	}

	lines := c.cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	req := domain.CreateOrderRequest{
		CustomerName:      strings.TrimSpace(customer.Name),
		CustomerEmail:     strings.TrimSpace(customer.Email),
		CustomerPhone:     strings.TrimSpace(customer.Phone),
		ShippingAddressID: customer.ShippingAddressID,
		Items:             make([]domain.OrderLineRequest, 0, len(lines)),
	}
	for _, line := range lines {
		req.Items = append(req.Items, domain.OrderLineRequest{ProductID: line.ID, Quantity: line.Quantity})
	}

	order, err := c.api.Create(ctx, req)
	if err != nil {
		c.logger.Error("failed to place order", "error", err, "lines", len(lines))
		return nil, fmt.Errorf("place order: %w", err)
	}

	c.cart.ClearCart(ctx)
	publish(ctx, c.publisher, c.logger, domain.EventOrderPlaced, order, "")

	c.logger.Info("order placed", "order_id", order.ID, "status", order.Status.String(), "total", order.Total.String())
	return order, nil
}
