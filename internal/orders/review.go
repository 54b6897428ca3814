package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joao-fontenele/storefront/internal/domain"
)

// Review is the admin side of the manual payment flow.
type Review struct {
	api       API
	publisher Publisher
	logger    *slog.Logger
}

func NewReview(api API, publisher Publisher, logger *slog.Logger) *Review {
	return &Review{api: api, publisher: publisher, logger: logger}
}

func (r *Review) Approve(ctx context.Context, order *domain.Order, notes string) (*domain.Order, error) {
	if !order.Status.AwaitingReview() {
		return nil, fmt.Errorf("order %d is %s: %w", order.ID, order.Status.String(), ErrNotAwaitingReview)
	}

	updated, err := r.api.ApprovePayment(ctx, order.ID, strings.TrimSpace(notes))
	return r.finish(ctx, "approve", order.ID, notes, updated, err)
}

// Reject requires non-blank notes; the customer sees them as the reason.
func (r *Review) Reject(ctx context.Context, order *domain.Order, notes string) (*domain.Order, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, ErrNotesRequired
	}
	if !order.Status.AwaitingReview() {
		return nil, fmt.Errorf("order %d is %s: %w", order.ID, order.Status.String(), ErrNotAwaitingReview)
	}

	updated, err := r.api.RejectPayment(ctx, order.ID, notes)
	return r.finish(ctx, "reject", order.ID, notes, updated, err)
}

func (r *Review) finish(ctx context.Context, action string, id int64, notes string, updated *domain.Order, err error) (*domain.Order, error) {
	if err != nil {
		r.logger.Error("payment review failed", "error", err, "action", action, "order_id", id)
		return nil, fmt.Errorf("%s payment: %w", action, err)
	}

	publish(ctx, r.publisher, r.logger, domain.EventPaymentReviewed, updated, strings.TrimSpace(notes))
	r.logger.Info("payment reviewed", "action", action, "order_id", updated.ID, "status", updated.Status.String())
	return updated, nil
}
