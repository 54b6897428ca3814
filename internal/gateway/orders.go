package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joao-fontenele/storefront/internal/domain"
)

type Orders struct {
	client *Client
}

func NewOrders(client *Client) *Orders {
	return &Orders{client: client}
}

func (o *Orders) Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := o.client.sendJSON(ctx, http.MethodPost, "/order", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// MyOrders lists the orders of the authenticated customer.
func (o *Orders) MyOrders(ctx context.Context) ([]domain.Order, error) {
	return o.list(ctx, "/order/my-orders")
}

// List returns every order. Admin only.
func (o *Orders) List(ctx context.Context) ([]domain.Order, error) {
	return o.list(ctx, "/order")
}

// PendingReview returns the orders whose receipt waits for an admin decision.
func (o *Orders) PendingReview(ctx context.Context) ([]domain.Order, error) {
	return o.list(ctx, "/order/pending-review")
}

func (o *Orders) list(ctx context.Context, path string) ([]domain.Order, error) {
	orders := []domain.Order{}
	if err := o.client.getJSON(ctx, path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (o *Orders) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := o.client.getJSON(ctx, fmt.Sprintf("/order/%d", id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *Orders) UploadReceipt(ctx context.Context, id int64, receipt File) (*domain.Order, error) {
	var order domain.Order
	path := fmt.Sprintf("/order/%d/payment-receipt", id)
	if err := o.client.sendMultipart(ctx, http.MethodPost, path, nil, "receipt", &receipt, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *Orders) ApprovePayment(ctx context.Context, id int64, notes string) (*domain.Order, error) {
	return o.review(ctx, fmt.Sprintf("/order/%d/approve-payment", id), notes)
}

func (o *Orders) RejectPayment(ctx context.Context, id int64, notes string) (*domain.Order, error) {
	return o.review(ctx, fmt.Sprintf("/order/%d/reject-payment", id), notes)
}

func (o *Orders) review(ctx context.Context, path, notes string) (*domain.Order, error) {
	var order domain.Order
	if err := o.client.sendJSON(ctx, http.MethodPut, path, domain.ReviewRequest{AdminNotes: notes}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
