package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joao-fontenele/storefront/internal/domain"
)

func TestOrders(t *testing.T) {
	t.Run("creates an order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/order" {
				t.Errorf("expected POST /order, got %s %s", r.Method, r.URL.Path)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected application/json, got %s", ct)
			}
			var req domain.CreateOrderRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if req.CustomerEmail != "ana@example.com" || len(req.Items) != 1 || req.Items[0].Quantity != 2 {
				t.Errorf("unexpected request: %+v", req)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":10,"status":"pending_payment","total":"200"}`))
		}))
		defer server.Close()

		orders := NewOrders(NewClient(server.URL, server.Client()))
		order, err := orders.Create(context.Background(), domain.CreateOrderRequest{
			CustomerName:  "Ana",
			CustomerEmail: "ana@example.com",
			CustomerPhone: "555",
			Items:         []domain.OrderLineRequest{{ProductID: 1, Quantity: 2}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID != 10 || !order.Status.Is(domain.StatusPendingPayment) {
			t.Errorf("unexpected order: %+v", order)
		}
	})

	t.Run("list endpoints", func(t *testing.T) {
		var paths []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			_, _ = w.Write([]byte(`[{"id":1,"status":"payment_submitted"}]`))
		}))
		defer server.Close()

		orders := NewOrders(NewClient(server.URL, server.Client()))
		ctx := context.Background()
		for _, list := range []func(context.Context) ([]domain.Order, error){orders.MyOrders, orders.List, orders.PendingReview} {
			got, err := list(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 1 || !got[0].Status.AwaitingReview() {
				t.Errorf("unexpected orders: %+v", got)
			}
		}

		want := []string{"/order/my-orders", "/order", "/order/pending-review"}
		if strings.Join(paths, ",") != strings.Join(want, ",") {
			t.Errorf("expected paths %v, got %v", want, paths)
		}
	})

	t.Run("reviews send admin notes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("expected PUT, got %s", r.Method)
			}
			var req domain.ReviewRequest
			_ = json.NewDecoder(r.Body).Decode(&req)

			status := "payment_approved"
			if strings.HasSuffix(r.URL.Path, "/reject-payment") {
				status = "payment_rejected"
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 3, "status": status, "adminNotes": req.AdminNotes})
		}))
		defer server.Close()

		orders := NewOrders(NewClient(server.URL, server.Client()))
		approved, err := orders.ApprovePayment(context.Background(), 3, "ok")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !approved.Status.Is(domain.StatusPaymentApproved) || approved.AdminNotes != "ok" {
			t.Errorf("unexpected approved order: %+v", approved)
		}

		rejected, err := orders.RejectPayment(context.Background(), 3, "amount mismatch")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rejected.Status.Is(domain.StatusPaymentRejected) || rejected.AdminNotes != "amount mismatch" {
			t.Errorf("unexpected rejected order: %+v", rejected)
		}
	})

	t.Run("uploads receipt as multipart", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/order/5/payment-receipt" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if _, _, err := r.FormFile("receipt"); err != nil {
				t.Errorf("expected receipt part: %v", err)
			}
			_, _ = w.Write([]byte(`{"id":5,"status":"payment_submitted","paymentReceiptUrl":"/uploads/r.pdf"}`))
		}))
		defer server.Close()

		orders := NewOrders(NewClient(server.URL, server.Client()))
		order, err := orders.UploadReceipt(context.Background(), 5, File{Name: "r.pdf", Body: strings.NewReader("%PDF")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.PaymentReceiptURL != "/uploads/r.pdf" {
			t.Errorf("unexpected receipt url %q", order.PaymentReceiptURL)
		}
	})
}
