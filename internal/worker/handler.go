// Package worker reacts to storefront events. It backs the admin
// "events watch" command.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/notify"
)

type Notifier interface {
	Notify(category notify.Category, level notify.Level, message string) bool
}

// ReviewHandler turns order events into review-queue notifications.
type ReviewHandler struct {
	notifier Notifier
	logger   *slog.Logger
}

func NewReviewHandler(notifier Notifier, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{notifier: notifier, logger: logger}
}

// Handle never fails on unknown event types so one odd message cannot stall
// the consumer.
func (h *ReviewHandler) Handle(_ context.Context, event domain.Event) error {
	h.logger.Info("processing storefront event", "type", event.Type, "order_id", event.OrderID, "status", event.Status)

	switch event.Type {
	case domain.EventReceiptUploaded:
		h.notifier.Notify(notify.CategoryGeneral, notify.LevelInfo,
			fmt.Sprintf("Order #%d: receipt awaiting review", event.OrderID))
	case domain.EventPaymentReviewed:
		h.reviewed(event)
	case domain.EventOrderPlaced:
		h.notifier.Notify(notify.CategoryGeneral, notify.LevelInfo,
			fmt.Sprintf("Order #%d placed", event.OrderID))
	default:
		h.logger.Warn("skipping unknown event type", "type", event.Type, "order_id", event.OrderID)
	}
	return nil
}

func (h *ReviewHandler) reviewed(event domain.Event) {
	status := domain.ParseStatus(event.Status)
	switch {
	case status.Is(domain.StatusPaymentApproved):
		h.notifier.Notify(notify.CategoryGeneral, notify.LevelSuccess,
			fmt.Sprintf("Order #%d: payment approved", event.OrderID))
	case status.Is(domain.StatusPaymentRejected):
		msg := fmt.Sprintf("Order #%d: payment rejected", event.OrderID)
		if event.Notes != "" {
			msg += " (" + event.Notes + ")"
		}
		h.notifier.Notify(notify.CategoryGeneral, notify.LevelWarning, msg)
	default:
		h.notifier.Notify(notify.CategoryGeneral, notify.LevelInfo,
			fmt.Sprintf("Order #%d: %s", event.OrderID, status.Text()))
	}
}
