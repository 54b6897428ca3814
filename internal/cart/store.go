package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/notify"
)

var meter = otel.Meter("storefront/cart")

type Notifier interface {
	Notify(category notify.Category, level notify.Level, message string) bool
}

// Store owns the cart of the active profile. Each operation runs the pure
// reducer, then persists the new state and emits one notification. Validation
// failures are reported through the notifier and the boolean results; they are
// never returned as errors.
type Store struct {
	mu        sync.Mutex
	state     State
	persister *Persister
	notifier  Notifier
	logger    *slog.Logger
	mutations metric.Int64Counter
}

// NewStore restores the persisted cart.
func NewStore(ctx context.Context, persister *Persister, notifier Notifier, logger *slog.Logger) *Store {
	mutations, err := meter.Int64Counter("storefront.cart.mutations",
		metric.WithDescription("Cart operations by action and outcome"),
	)
	if err != nil {
		logger.Warn("failed to create cart metrics", "error", err)
		mutations, _ = noop.NewMeterProvider().Meter("storefront/cart").Int64Counter("storefront.cart.mutations")
	}

	lines := persister.Load(ctx)
	logger.Debug("cart restored", "lines", len(lines))

	return &Store{
		state:     State{Lines: lines},
		persister: persister,
		notifier:  notifier,
		logger:    logger,
		mutations: mutations,
	}
}

// AddToCart adds quantity units of p. It refuses inactive or out of stock
// products and any request that would take the line above p.Stock.
func (s *Store) AddToCart(ctx context.Context, p *domain.Product, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p == nil || p.ID == 0 {
		return s.reject(ctx, "add", "Invalid product")
	}
	if quantity <= 0 {
		return s.reject(ctx, "add", "Quantity must be at least 1")
	}
	if !p.IsActive {
		return s.reject(ctx, "add", fmt.Sprintf("%s is not available", p.Name))
	}
	if p.Stock <= 0 {
		return s.reject(ctx, "add", fmt.Sprintf("%s is out of stock", p.Name))
	}

	existing := 0
	if line, ok := s.state.Line(p.ID); ok {
		existing = line.Quantity
	}
	if existing+quantity > p.Stock {
		msg := fmt.Sprintf("Only %d units of %s available", p.Stock, p.Name)
		if existing > 0 {
			msg = fmt.Sprintf("Only %d units of %s available, you already have %d in your cart", p.Stock, p.Name, existing)
		}
		return s.reject(ctx, "add", msg)
	}

	if err := s.apply(ctx, Add{Product: *p, Quantity: quantity}); err != nil {
		return s.reject(ctx, "add", err.Error())
	}

	s.record(ctx, "add", "ok")
	s.notifier.Notify(notify.CategoryCart, notify.LevelSuccess, fmt.Sprintf("%s added to cart", p.Name))
	return true
}

// RemoveFromCart deletes the line for id. Removing an absent product does nothing.
func (s *Store) RemoveFromCart(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(ctx, id)
}

func (s *Store) remove(ctx context.Context, id int64) bool {
	line, ok := s.state.Line(id)
	if !ok {
		return false
	}

	if err := s.apply(ctx, Remove{ID: id}); err != nil {
		return s.reject(ctx, "remove", err.Error())
	}

	s.record(ctx, "remove", "ok")
	s.notifier.Notify(notify.CategoryCart, notify.LevelInfo, fmt.Sprintf("%s removed from cart", line.Name))
	return true
}

// UpdateQuantity sets the quantity of a line. Zero or less removes the line;
// more than the line's stock is refused and leaves the cart unchanged.
func (s *Store) UpdateQuantity(ctx context.Context, id int64, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.remove(ctx, id)
	}

	line, ok := s.state.Line(id)
	if !ok {
		return s.reject(ctx, "update", "Product is not in your cart")
	}
	if quantity > line.Stock {
		return s.reject(ctx, "update", fmt.Sprintf("Only %d units of %s available", line.Stock, line.Name))
	}

	if err := s.apply(ctx, SetQuantity{ID: id, Quantity: quantity}); err != nil {
		return s.reject(ctx, "update", err.Error())
	}

	s.record(ctx, "update", "ok")
	s.notifier.Notify(notify.CategoryCart, notify.LevelSuccess, fmt.Sprintf("%s quantity set to %d", line.Name, quantity))
	return true
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.apply(ctx, Clear{})
	s.record(ctx, "clear", "ok")
	s.notifier.Notify(notify.CategoryCart, notify.LevelInfo, "Cart emptied")
}

// apply runs the reducer and commits the result. A failed write is logged and
// the in-memory state is kept.
func (s *Store) apply(ctx context.Context, a Action) error {
	next, err := Reduce(s.state, a)
	if err != nil {
		return err
	}
	s.state = next

	if err := s.persister.Save(ctx, next.Lines); err != nil {
		s.logger.Error("failed to persist cart", "error", err)
	}
	return nil
}

func (s *Store) reject(ctx context.Context, action, message string) bool {
	s.record(ctx, action, "rejected")
	s.notifier.Notify(notify.CategoryError, notify.LevelError, message)
	return false
}

func (s *Store) record(ctx context.Context, action, outcome string) {
	s.mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.clone()
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Total()
}

func (s *Store) ItemsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.ItemsCount()
}

func (s *Store) IsInCart(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.state.Line(id)
	return ok
}

func (s *Store) ItemQuantity(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, _ := s.state.Line(id)
	return line.Quantity
}
