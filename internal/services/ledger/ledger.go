// Package ledger implements the brewery inventory and reservation ledger:
// stock levels, recipes, the brew engine, reservations derived from the
// production schedule, low-stock alerts and the audit journal.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/util"
)

// Ledger is the in-memory state of one tenant backed by a Store.
// Every mutation is applied to a copy, persisted, and only then made visible.
type Ledger struct {
	mu            sync.Mutex
	store         Store
	tenant        string
	state         *State
	notifications []*models.Notification

	ids         *util.IDGenerator
	clock       util.Clock
	observer    Observer
	logger      *slog.Logger
	seed        func() *State
	defaultUnit string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the clock used for timestamps.
func WithClock(c util.Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithIDGenerator sets the id source.
func WithIDGenerator(g *util.IDGenerator) Option {
	return func(l *Ledger) { l.ids = g }
}

// WithObserver registers an observer of ledger events.
func WithObserver(o Observer) Option {
	return func(l *Ledger) { l.observer = o }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithSeed sets the state used when the store has nothing for the tenant.
func WithSeed(seed func() *State) Option {
	return func(l *Ledger) { l.seed = seed }
}

// WithDefaultUnit sets the unit given to items created without one.
func WithDefaultUnit(unit string) Option {
	return func(l *Ledger) { l.defaultUnit = unit }
}

// Open loads the tenant's state from store, seeding it on first use.
func Open(ctx context.Context, store Store, tenant string, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:       store,
		tenant:      tenant,
		clock:       util.SystemClock{},
		observer:    NopObserver{},
		logger:      slog.Default(),
		defaultUnit: models.DefaultUnit,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.ids == nil {
		l.ids = util.NewIDGenerator(l.clock)
	}

	st, err := store.Load(ctx, tenant)
	switch {
	case errors.Is(err, ErrNoState):
		st = &State{}
		if l.seed != nil {
			st = l.seed()
		}
		if err := store.Save(ctx, tenant, st); err != nil {
			return nil, fmt.Errorf("saving initial state for %q: %w", tenant, err)
		}
		l.logger.Info("initialized brewery", "tenant", tenant, "items", len(st.Inventory))
	case err != nil:
		return nil, fmt.Errorf("loading state for %q: %w", tenant, err)
	}

	l.state = st
	l.raiseLowStockAlerts()
	return l, nil
}

// Tenant returns the brewery this ledger belongs to.
func (l *Ledger) Tenant() string {
	return l.tenant
}

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() *State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Clone()
}

// mutate runs fn against a copy of the state and commits it once saved.
// The caller must hold l.mu.
func (l *Ledger) mutate(ctx context.Context, op string, fn func(st *State) error) error {
	next := l.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := l.store.Save(ctx, l.tenant, next); err != nil {
		l.logger.Warn("saving ledger state failed", "tenant", l.tenant, "op", op, "error", err)
		return fmt.Errorf("saving state after %s: %w", op, err)
	}
	l.state = next
	l.logger.Debug("ledger mutation committed", "tenant", l.tenant, "op", op)
	l.raiseLowStockAlerts()
	return nil
}

func (l *Ledger) newLogEntry(action models.LogAction, details string) *models.LogEntry {
	return &models.LogEntry{
		ID:        l.ids.NewID(),
		Timestamp: l.clock.Now(),
		Action:    action,
		Details:   details,
	}
}

// record prepends an audit entry to st.
func (l *Ledger) record(st *State, action models.LogAction, details string) {
	st.Logs = append([]*models.LogEntry{l.newLogEntry(action, details)}, st.Logs...)
}

// ============================================================================
// ACTOR
// ============================================================================

type actorKey struct{}

// SystemActor is the actor recorded when the context carries none.
const SystemActor = "system"

// WithActor returns a context carrying the acting username.
func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, actorKey{}, username)
}

// ActorFrom returns the acting username carried by ctx.
func ActorFrom(ctx context.Context) string {
	if name, ok := ctx.Value(actorKey{}).(string); ok && name != "" {
		return name
	}
	return SystemActor
}
