package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/storage"
)

const (
	SnapshotKey    = "cart"
	MaxSnapshotAge = 30 * 24 * time.Hour
)

var errMalformedSnapshot = errors.New("snapshot has no items array")

// Persister reads and writes the cart snapshot. It is a convenience cache:
// writers are not coordinated and the last write wins.
type Persister struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

type PersisterOption func(*Persister)

func WithClock(now func() time.Time) PersisterOption {
	return func(p *Persister) {
		p.now = now
	}
}

func NewPersister(store storage.Store, logger *slog.Logger, opts ...PersisterOption) *Persister {
	p := &Persister{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load returns the persisted lines, or none when the snapshot is missing,
// corrupt, or older than MaxSnapshotAge. Corrupt and expired snapshots are
// deleted.
func (p *Persister) Load(ctx context.Context) []domain.CartLine {
	data, err := p.store.Get(ctx, SnapshotKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		p.logger.Error("failed to read cart snapshot", "error", err)
		return nil
	}

	snapshot, err := decodeSnapshot(data)
	if err != nil {
		p.logger.Warn("discarding corrupt cart snapshot", "error", err)
		p.discard(ctx)
		return nil
	}

	if !snapshot.Timestamp.IsZero() && p.now().Sub(snapshot.Timestamp) > MaxSnapshotAge {
		p.logger.Info("discarding expired cart snapshot", "timestamp", snapshot.Timestamp)
		p.discard(ctx)
		return nil
	}

	return sanitize(snapshot.Items)
}

// Save overwrites the snapshot with lines stamped with the current time.
func (p *Persister) Save(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}

	data, err := json.Marshal(domain.CartSnapshot{
		Items:     lines,
		Timestamp: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}

	if err := p.store.Set(ctx, SnapshotKey, data); err != nil {
		return fmt.Errorf("write cart snapshot: %w", err)
	}
	return nil
}

func (p *Persister) discard(ctx context.Context) {
	if err := p.store.Delete(ctx, SnapshotKey); err != nil {
		p.logger.Error("failed to delete cart snapshot", "error", err)
	}
}

func decodeSnapshot(data []byte) (domain.CartSnapshot, error) {
	var raw struct {
		Items     json.RawMessage `json:"items"`
		Timestamp time.Time       `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.CartSnapshot{}, err
	}

	items := bytes.TrimSpace(raw.Items)
	if len(items) == 0 || items[0] != '[' {
		return domain.CartSnapshot{}, errMalformedSnapshot
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(items, &lines); err != nil {
		return domain.CartSnapshot{}, err
	}

	return domain.CartSnapshot{Items: lines, Timestamp: raw.Timestamp}, nil
}

// sanitize drops lines that break the cart invariants: missing id, duplicate
// id, or a quantity that cannot fit in [1, stock].
func sanitize(lines []domain.CartLine) []domain.CartLine {
	seen := make(map[int64]bool, len(lines))
	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ID == 0 || seen[l.ID] || l.Quantity <= 0 || l.Stock <= 0 {
			continue
		}
		seen[l.ID] = true
		l.Quantity = min(l.Quantity, l.Stock)
		out = append(out, l)
	}
	return out
}
