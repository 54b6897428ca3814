package orders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/gateway"
)

type fakeAPI struct {
	order   *domain.Order
	orders  []domain.Order
	err     error
	calls   map[string]int
	created domain.CreateOrderRequest
	notes   string
}

func newFakeAPI(order *domain.Order) *fakeAPI {
	return &fakeAPI{order: order, calls: map[string]int{}}
}

func (f *fakeAPI) result(name string) (*domain.Order, error) {
	f.calls[name]++
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func (f *fakeAPI) list(name string) ([]domain.Order, error) {
	f.calls[name]++
	return f.orders, f.err
}

func (f *fakeAPI) Create(_ context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	f.created = req
	return f.result("create")
}
func (f *fakeAPI) MyOrders(context.Context) ([]domain.Order, error)      { return f.list("mine") }
func (f *fakeAPI) List(context.Context) ([]domain.Order, error)          { return f.list("all") }
func (f *fakeAPI) PendingReview(context.Context) ([]domain.Order, error) { return f.list("pending") }
func (f *fakeAPI) Get(context.Context, int64) (*domain.Order, error)     { return f.result("get") }
func (f *fakeAPI) UploadReceipt(context.Context, int64, gateway.File) (*domain.Order, error) {
	return f.result("upload")
}
func (f *fakeAPI) ApprovePayment(_ context.Context, _ int64, notes string) (*domain.Order, error) {
	f.notes = notes
	return f.result("approve")
}
func (f *fakeAPI) RejectPayment(_ context.Context, _ int64, notes string) (*domain.Order, error) {
	f.notes = notes
	return f.result("reject")
}

type fakeCart struct {
	lines   []domain.CartLine
	cleared bool
}

func (c *fakeCart) Lines() []domain.CartLine { return c.lines }
func (c *fakeCart) ClearCart(context.Context) {
	c.lines = nil
	c.cleared = true
}

type recordingPublisher struct {
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func orderWith(id int64, status string) *domain.Order {
	return &domain.Order{ID: id, Status: domain.ParseStatus(status), Total: decimal.NewFromInt(300)}
}

var ana = Customer{Name: "Ana Silva", Email: "ana@example.com", Phone: "555-0101", ShippingAddressID: 3}

func TestCheckout_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	lines := []domain.CartLine{
		{ID: 1, Name: "Mug", Price: decimal.NewFromInt(100), Stock: 5, Quantity: 3},
		{ID: 2, Name: "Tee", Price: decimal.NewFromInt(50), Stock: 2, Quantity: 1},
	}

	t.Run("builds the request and clears the cart", func(t *testing.T) {
		api := newFakeAPI(orderWith(10, "pending_payment"))
		cart := &fakeCart{lines: lines}
		pub := &recordingPublisher{}

		order, err := NewCheckout(api, cart, pub, discardLogger()).PlaceOrder(ctx, ana)
		require.NoError(t, err)
		assert.Equal(t, int64(10), order.ID)

		assert.Equal(t, domain.CreateOrderRequest{
			CustomerName:      "Ana Silva",
			CustomerEmail:     "ana@example.com",
			CustomerPhone:     "555-0101",
			ShippingAddressID: 3,
			Items: []domain.OrderLineRequest{
				{ProductID: 1, Quantity: 3},
				{ProductID: 2, Quantity: 1},
			},
		}, api.created)
		assert.True(t, cart.cleared)

		require.Len(t, pub.events, 1)
		assert.Equal(t, domain.EventOrderPlaced, pub.events[0].Type)
		assert.Equal(t, "pending_payment", pub.events[0].Status)
	})

	t.Run("api failure leaves the cart untouched", func(t *testing.T) {
		api := newFakeAPI(nil)
		api.err = &gateway.APIError{StatusCode: http.StatusConflict, Message: "Mug is out of stock"}
		cart := &fakeCart{lines: lines}
		pub := &recordingPublisher{}

		_, err := NewCheckout(api, cart, pub, discardLogger()).PlaceOrder(ctx, ana)
		require.Error(t, err)
		assert.Equal(t, "Mug is out of stock", gateway.Message(err))
		assert.False(t, cart.cleared)
		assert.Len(t, cart.lines, 2)
		assert.Empty(t, pub.events)
	})

	t.Run("publish failure does not fail the order", func(t *testing.T) {
		api := newFakeAPI(orderWith(11, "pending_payment"))
		pub := &recordingPublisher{err: errors.New("broker down")}

		order, err := NewCheckout(api, &fakeCart{lines: lines}, pub, discardLogger()).PlaceOrder(ctx, ana)
		require.NoError(t, err)
		assert.Equal(t, int64(11), order.ID)
	})

	validation := []struct {
		name     string
		customer Customer
		lines    []domain.CartLine
		want     error
	}{
		{"missing name", Customer{Email: "a@b.c", Phone: "1"}, lines, ErrNameRequired},
		{"blank email", Customer{Name: "Ana", Email: "  ", Phone: "1"}, lines, ErrEmailRequired},
		{"missing phone", Customer{Name: "Ana", Email: "a@b.c"}, lines, ErrPhoneRequired},
		{"empty cart", ana, nil, ErrEmptyCart},
	}
	for _, tc := range validation {
		t.Run(tc.name, func(t *testing.T) {
			api := newFakeAPI(orderWith(1, "pending_payment"))
			_, err := NewCheckout(api, &fakeCart{lines: tc.lines}, nil, discardLogger()).PlaceOrder(ctx, tc.customer)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, api.calls["create"])
		})
	}
}

func TestReceipts_Upload(t *testing.T) {
	ctx := context.Background()
	file := gateway.File{Name: "receipt.pdf", ContentType: "application/pdf", Body: strings.NewReader("%PDF")}

	tests := []struct {
		status  string
		allowed bool
	}{
		{"pending_payment", true},
		{"payment_rejected", true},
		{"payment_submitted", false},
		{"shipped", false},
		{"delivered", false},
		{"refunded", false},
	}

	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			api := newFakeAPI(orderWith(5, "payment_submitted"))
			pub := &recordingPublisher{}

			updated, err := NewReceipts(api, pub, discardLogger()).Upload(ctx, orderWith(5, tc.status), file)
			if !tc.allowed {
				assert.ErrorIs(t, err, ErrReceiptNotAllowed)
				assert.Zero(t, api.calls["upload"])
				assert.Empty(t, pub.events)
				return
			}

			require.NoError(t, err)
			assert.True(t, updated.Status.AwaitingReview())
			require.Len(t, pub.events, 1)
			assert.Equal(t, domain.EventReceiptUploaded, pub.events[0].Type)
		})
	}
}

func TestReview(t *testing.T) {
	ctx := context.Background()

	t.Run("reject with blank notes is blocked", func(t *testing.T) {
		api := newFakeAPI(orderWith(7, "payment_rejected"))
		for _, notes := range []string{"", "   "} {
			_, err := NewReview(api, nil, discardLogger()).Reject(ctx, orderWith(7, "payment_submitted"), notes)
			assert.ErrorIs(t, err, ErrNotesRequired)
		}
		assert.Zero(t, api.calls["reject"])
	})

	t.Run("reject sends trimmed notes", func(t *testing.T) {
		api := newFakeAPI(orderWith(7, "payment_rejected"))
		pub := &recordingPublisher{}

		updated, err := NewReview(api, pub, discardLogger()).Reject(ctx, orderWith(7, "payment_submitted"), "  amount does not match ")
		require.NoError(t, err)
		assert.True(t, updated.Status.CanUploadReceipt())
		assert.Equal(t, "amount does not match", api.notes)
		require.Len(t, pub.events, 1)
		assert.Equal(t, domain.EventPaymentReviewed, pub.events[0].Type)
		assert.Equal(t, "amount does not match", pub.events[0].Notes)
	})

	t.Run("approve allows empty notes", func(t *testing.T) {
		api := newFakeAPI(orderWith(8, "payment_approved"))

		updated, err := NewReview(api, nil, discardLogger()).Approve(ctx, orderWith(8, "payment_submitted"), "")
		require.NoError(t, err)
		assert.True(t, updated.Status.Is(domain.StatusPaymentApproved))
		assert.Equal(t, 1, api.calls["approve"])
	})

	t.Run("only orders awaiting review", func(t *testing.T) {
		api := newFakeAPI(orderWith(9, "shipped"))
		review := NewReview(api, nil, discardLogger())

		_, err := review.Approve(ctx, orderWith(9, "pending_payment"), "")
		assert.ErrorIs(t, err, ErrNotAwaitingReview)
		_, err = review.Reject(ctx, orderWith(9, "shipped"), "late")
		assert.ErrorIs(t, err, ErrNotAwaitingReview)
		assert.Zero(t, api.calls["approve"]+api.calls["reject"])
	})
}

// The blank-notes guard runs before the gateway, so no request reaches the API.
func TestReview_RejectBlankNotesSendsNoRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	api := gateway.NewOrders(gateway.NewClient(srv.URL, srv.Client()))
	_, err := NewReview(api, nil, discardLogger()).Reject(context.Background(), orderWith(42, "payment_submitted"), "")

	if !errors.Is(err, ErrNotesRequired) {
		t.Fatalf("expected ErrNotesRequired, got %v", err)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(orderWith(1, "shipped"))
	api.orders = []domain.Order{*orderWith(1, "shipped"), *orderWith(2, "pending")}
	h := NewHistory(api, discardLogger())

	mine, err := h.MyOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.True(t, mine[1].Status.Legacy())

	_, err = h.All(ctx)
	require.NoError(t, err)
	_, err = h.PendingReview(ctx)
	require.NoError(t, err)
	order, err := h.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Shipped", order.Status.Text())

	api.err = gateway.ErrConnection
	_, err = h.All(ctx)
	assert.ErrorIs(t, err, gateway.ErrConnection)
}
