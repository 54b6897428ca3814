// Package orders runs the customer and admin order workflows on top of the
// order gateway: checkout, receipt upload and payment review.
package orders

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/gateway"
)

var (
	ErrNameRequired      = errors.New("customer name is required")
	ErrEmailRequired     = errors.New("customer email is required")
	ErrPhoneRequired     = errors.New("customer phone is required")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrReceiptNotAllowed = errors.New("order does not accept a payment receipt")
	ErrNotesRequired     = errors.New("notes are required to reject a payment")
	ErrNotAwaitingReview = errors.New("order is not awaiting payment review")
)

// API is the order gateway. *gateway.Orders implements it.
type API interface {
	Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	MyOrders(ctx context.Context) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	PendingReview(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	UploadReceipt(ctx context.Context, id int64, receipt gateway.File) (*domain.Order, error)
	ApprovePayment(ctx context.Context, id int64, notes string) (*domain.Order, error)
	RejectPayment(ctx context.Context, id int64, notes string) (*domain.Order, error)
}

type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// publish reports a failed publish in the log only. The API call already
// succeeded and its result stands.
func publish(ctx context.Context, p Publisher, logger *slog.Logger, typ domain.EventType, order *domain.Order, notes string) {
	if p == nil {
		return
	}
	event := domain.Event{
		Type:      typ,
		OrderID:   order.ID,
		Status:    order.Status.String(),
		Notes:     notes,
		Timestamp: time.Now().UTC(),
	}
	if err := p.Publish(ctx, event); err != nil {
		logger.Error("failed to publish order event", "error", err, "type", typ, "order_id", order.ID)
	}
}

// History lists orders. It adds nothing to the gateway beyond logging.
type History struct {
	api    API
	logger *slog.Logger
}

func NewHistory(api API, logger *slog.Logger) *History {
	return &History{api: api, logger: logger}
}

func (h *History) MyOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := h.api.MyOrders(ctx)
	if err != nil {
		h.logger.Warn("failed to list customer orders", "error", err)
		return nil, err
	}
	return orders, nil
}

// All lists every order. Admin only.
func (h *History) All(ctx context.Context) ([]domain.Order, error) {
	orders, err := h.api.List(ctx)
	if err != nil {
		h.logger.Warn("failed to list orders", "error", err)
		return nil, err
	}
	return orders, nil
}

func (h *History) PendingReview(ctx context.Context) ([]domain.Order, error) {
	orders, err := h.api.PendingReview(ctx)
	if err != nil {
		h.logger.Warn("failed to list orders pending review", "error", err)
		return nil, err
	}
	return orders, nil
}

func (h *History) Get(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := h.api.Get(ctx, id)
	if err != nil {
		h.logger.Warn("failed to get order", "error", err, "order_id", id)
		return nil, err
	}
	return order, nil
}
