//go:build integration

package test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront/internal/cart"
	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/fakeapi"
	"github.com/joao-fontenele/storefront/internal/gateway"
	"github.com/joao-fontenele/storefront/internal/messaging"
	"github.com/joao-fontenele/storefront/internal/notify"
	"github.com/joao-fontenele/storefront/internal/orders"
	"github.com/joao-fontenele/storefront/internal/session"
	"github.com/joao-fontenele/storefront/internal/storage"
	"github.com/joao-fontenele/storefront/internal/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Notify(_ notify.Category, _ notify.Level, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return true
}

func (r *recordingNotifier) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func mug() *domain.Product {
	return &domain.Product{ID: 1, Name: "Ceramic mug", Price: decimal.RequireFromString("12.50"), Stock: 5, IsActive: true}
}

func TestSQLStore_CartSurvivesRestart(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := SetupPostgres(ctx, t)
	logger := discardLogger()

	first, err := storage.DialSQL(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to open sql store: %v", err)
	}
	store := cart.NewStore(ctx, cart.NewPersister(storage.Namespace(first, "ana"), logger), &recordingNotifier{}, logger)
	if !store.AddToCart(ctx, mug(), 3) {
		t.Fatal("expected add to succeed")
	}
	_ = first.Close()

	// Dialing again re-runs migrations, which must be a no-op.
	second, err := storage.DialSQL(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to reopen sql store: %v", err)
	}
	defer func() { _ = second.Close() }()

	restored := cart.NewStore(ctx, cart.NewPersister(storage.Namespace(second, "ana"), logger), &recordingNotifier{}, logger)
	if got := restored.ItemQuantity(1); got != 3 {
		t.Errorf("expected quantity 3 after restart, got %d", got)
	}
	if got := restored.Total().String(); got != "37.5" {
		t.Errorf("expected total 37.5, got %s", got)
	}

	other := cart.NewStore(ctx, cart.NewPersister(storage.Namespace(second, "bo"), logger), &recordingNotifier{}, logger)
	if other.ItemsCount() != 0 {
		t.Errorf("expected profiles to be isolated, got %d items", other.ItemsCount())
	}

	if err := second.Delete(ctx, "ana:cart"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := second.Get(ctx, "ana:cart"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStore_SessionRestore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	url := SetupRedis(ctx, t)
	logger := discardLogger()

	backend := fakeapi.NewBackend()
	backend.Seed()
	srv := httptest.NewServer(fakeapi.NewHandler(backend, logger).Routes())
	defer srv.Close()

	rs, err := storage.DialRedis(ctx, url, time.Hour)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	defer func() { _ = rs.Close() }()

	auth := gateway.NewAuth(gateway.NewClient(srv.URL, srv.Client()))
	sess := session.NewStore(ctx, auth, rs, logger)
	if res := sess.Login(ctx, domain.Credentials{Email: "admin@example.com", Password: "admin"}); !res.Success {
		t.Fatalf("login failed: %s", res.Error)
	}

	freshAuth := gateway.NewAuth(gateway.NewClient(srv.URL, srv.Client()))
	restored := session.NewStore(ctx, freshAuth, rs, logger)
	if !restored.IsAdmin() {
		t.Fatal("expected restored admin session")
	}

	profile, err := freshAuth.Profile(ctx)
	if err != nil {
		t.Fatalf("restored token rejected: %v", err)
	}
	if profile.Email != "admin@example.com" {
		t.Errorf("unexpected profile %q", profile.Email)
	}
}

func TestEvents_ReviewFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	brokers := SetupKafka(ctx, t)
	logger := discardLogger()
	topic := "storefront.events.test"

	backend := fakeapi.NewBackend()
	backend.Seed()
	srv := httptest.NewServer(fakeapi.NewHandler(backend, logger).Routes())
	defer srv.Close()

	customer := gateway.NewClient(srv.URL, srv.Client())
	if _, err := gateway.NewAuth(customer).Register(ctx, domain.RegisterRequest{
		Email: "ana@example.com", Password: "secret", FirstName: "Ana", LastName: "Silva",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	admin := gateway.NewClient(srv.URL, srv.Client())
	if _, err := gateway.NewAuth(admin).Login(ctx, domain.Credentials{Email: "admin@example.com", Password: "admin"}); err != nil {
		t.Fatalf("admin login: %v", err)
	}

	publisher := messaging.NewPublisher(brokers, topic)
	defer func() { _ = publisher.Close() }()

	cartStore := cart.NewStore(ctx, cart.NewPersister(storage.NewMemory(), logger), &recordingNotifier{}, logger)
	product, err := gateway.NewProducts(customer).Get(ctx, 1)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	cartStore.AddToCart(ctx, product, 2)

	order, err := orders.NewCheckout(gateway.NewOrders(customer), cartStore, publisher, logger).
		PlaceOrder(ctx, orders.Customer{Name: "Ana Silva", Email: "ana@example.com", Phone: "555"})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	order, err = orders.NewReceipts(gateway.NewOrders(customer), publisher, logger).
		Upload(ctx, order, gateway.File{Name: "r.pdf", Body: strings.NewReader("%PDF")})
	if err != nil {
		t.Fatalf("upload receipt: %v", err)
	}
	if _, err := orders.NewReview(gateway.NewOrders(admin), publisher, logger).Approve(ctx, order, "thanks"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	notifier := &recordingNotifier{}
	handler := worker.NewReviewHandler(notifier, logger)
	consumer := messaging.NewConsumer(brokers, topic, "storefront-test", logger, messaging.WithStartOffset(kafka.FirstOffset))
	defer func() { _ = consumer.Close() }()

	consumeCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- consumer.Consume(consumeCtx, handler.Handle) }()

	want := []string{
		"Order #1 placed",
		"Order #1: receipt awaiting review",
		"Order #1: payment approved",
	}
	deadline := time.After(90 * time.Second)
	for len(notifier.all()) < len(want) {
		select {
		case <-deadline:
			stop()
			t.Fatalf("timed out, got %v", notifier.all())
		case <-time.After(200 * time.Millisecond):
		}
	}
	stop()
	if err := <-done; err != nil {
		t.Errorf("consumer returned %v", err)
	}

	got := notifier.all()
	for i, msg := range want {
		if got[i] != msg {
			t.Errorf("event %d: expected %q, got %q", i, msg, got[i])
		}
	}
}
