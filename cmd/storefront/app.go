package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joao-fontenele/storefront/internal/cart"
	"github.com/joao-fontenele/storefront/internal/catalog"
	"github.com/joao-fontenele/storefront/internal/config"
	"github.com/joao-fontenele/storefront/internal/gateway"
	"github.com/joao-fontenele/storefront/internal/logger"
	"github.com/joao-fontenele/storefront/internal/messaging"
	"github.com/joao-fontenele/storefront/internal/notify"
	"github.com/joao-fontenele/storefront/internal/orders"
	"github.com/joao-fontenele/storefront/internal/session"
	"github.com/joao-fontenele/storefront/internal/storage"
	"github.com/joao-fontenele/storefront/internal/telemetry"
)

const serviceName = "storefront-cli"

// app holds the objects one CLI invocation works with. Everything is built
// once here and passed to the commands.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	out    io.Writer
	errOut io.Writer

	notifier  *notify.Center
	session   *session.Store
	cart      *cart.Store
	products  *gateway.Products
	orderAPI  *gateway.Orders
	catalog   *catalog.Service
	history   *orders.History
	checkout  *orders.Checkout
	receipts  *orders.Receipts
	review    *orders.Review
	publisher messaging.Publisher

	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, profile string, out, errOut io.Writer) (*app, error) {
	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	log := logger.New(logger.Options{Service: serviceName, Env: cfg.AppEnv, Level: level, Output: errOut})

	a := &app{cfg: cfg, log: log, out: out, errOut: errOut}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, "0.1.0", cfg.OTLPEndpoint, cfg.TracingEnabled)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.closers = append(a.closers, func() error { return shutdownTracer(context.Background()) })

	backend, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}
	store := storage.Namespace(backend, profile)

	client := gateway.NewClient(cfg.APIBaseURL, gateway.NewHTTPClient(cfg.APITimeout))
	a.products = gateway.NewProducts(client)
	a.orderAPI = gateway.NewOrders(client)

	a.notifier = notify.NewCenter(notify.NewWriterSink(errOut))
	a.session = session.NewStore(ctx, gateway.NewAuth(client), store, log)
	a.cart = cart.NewStore(ctx, cart.NewPersister(store, log), a.notifier, log)

	a.publisher = messaging.NewPublisher(cfg.Brokers(), cfg.EventsTopic)
	a.closers = append(a.closers, a.publisher.Close)

	a.catalog = catalog.NewService(a.products, log)
	a.history = orders.NewHistory(a.orderAPI, log)
	a.checkout = orders.NewCheckout(a.orderAPI, a.cart, a.publisher, log)
	a.receipts = orders.NewReceipts(a.orderAPI, a.publisher, log)
	a.review = orders.NewReview(a.orderAPI, a.publisher, log)

	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func() error, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return storage.NewMemory(), nil, nil
	case config.BackendRedis:
		s, err := storage.DialRedis(ctx, cfg.RedisURL, cfg.RedisTTL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendPostgres:
		s, err := storage.DialSQL(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		s, err := storage.NewFile(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("failed to release resource", "error", err)
		}
	}
}

func (a *app) requireLogin() error {
	if !a.session.IsAuthenticated() {
		return errors.New("not logged in: run storefront auth login")
	}
	return nil
}

func (a *app) requireAdmin() error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if !a.session.IsAdmin() {
		return errors.New("admin role required")
	}
	return nil
}

// displayError prefers the API's own message over the wrapped chain.
func displayError(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) || errors.Is(err, gateway.ErrConnection) {
		return gateway.Message(err)
	}
	return err.Error()
}
