package orders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/gateway"
)

type Receipts struct {
	api       API
	publisher Publisher
	logger    *slog.Logger
}

func NewReceipts(api API, publisher Publisher, logger *slog.Logger) *Receipts {
	return &Receipts{api: api, publisher: publisher, logger: logger}
}

// Upload sends a proof of payment for order. Orders whose status does not
// accept a receipt are refused without calling the API.
func (r *Receipts) Upload(ctx context.Context, order *domain.Order, receipt gateway.File) (*domain.Order, error) {
	if !order.Status.CanUploadReceipt() {
		return nil, fmt.Errorf("order %d is %s: %w", order.ID, order.Status.String(), ErrReceiptNotAllowed)
	}

	updated, err := r.api.UploadReceipt(ctx, order.ID, receipt)
	if err != nil {
		r.logger.Error("failed to upload receipt", "error", err, "order_id", order.ID)
		return nil, fmt.Errorf("upload receipt: %w", err)
	}

	publish(ctx, r.publisher, r.logger, domain.EventReceiptUploaded, updated, "")
	r.logger.Info("receipt uploaded", "order_id", updated.ID, "status", updated.Status.String())
	return updated, nil
}
