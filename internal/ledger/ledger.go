// Package ledger is the transaction engine for one identity.
//
// An Engine owns the identity's Snapshot for the lifetime of a session.
// Every mutation is applied to a copy of the snapshot, persisted through the
// storage.Store and only then made current, so a failed operation leaves the
// engine exactly as it was. Engines are not safe for concurrent use.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/shopspring/decimal"

	"finledger/internal/categorizer"
	"finledger/internal/core"
	"finledger/internal/log"
	"finledger/internal/storage"
)

// DefaultLowBalanceThreshold triggers the low-balance warning.
var DefaultLowBalanceThreshold = decimal.NewFromInt(100)

// Classifier resolves an expense category from its description.
type Classifier interface {
	Classify(description string) core.Category
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(description string) core.Category

func (f ClassifierFunc) Classify(description string) core.Category {
	return f(description)
}

type Engine struct {
	identity   string
	store      storage.Store
	snap       core.Snapshot
	classifier Classifier
	logger     *log.Logger
	now        func() time.Time
	lowBalance decimal.Decimal
	recovered  bool
}

type Option func(*Engine)

// WithClassifier replaces the default categorizer.
func WithClassifier(c Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the source of "today" for default and future dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLowBalanceThreshold(threshold decimal.Decimal) Option {
	return func(e *Engine) {
		e.lowBalance = threshold
	}
}

// Open loads the identity's snapshot from store.
//
// A missing snapshot starts an empty ledger and persists it immediately.
// A corrupt snapshot is replaced by an empty one in memory and a warning is
// logged; the damaged data stays on disk until the next successful mutation.
func Open(ctx context.Context, identity string, store storage.Store, opts ...Option) (*Engine, error) {
	if err := storage.ValidateIdentity(identity); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("ledger: nil store")
	}

	e := &Engine{
		identity:   identity,
		store:      store,
		classifier: ClassifierFunc(categorizer.Classify),
		logger:     log.Discard(),
		now:        time.Now,
		lowBalance: DefaultLowBalanceThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent(log.ComponentLedger).With(log.FieldIdentity, identity)

	snap, err := store.Load(ctx, identity)
	switch {
	case err == nil:
		e.snap = snap
		e.logger.DebugContext(ctx, "Ledger loaded", log.FieldCount, snap.Len())
	case errors.Is(err, storage.ErrNotFound):
		e.snap = core.NewSnapshot()
		if err := e.persist(ctx, log.OpLoad, e.snap); err != nil {
			return nil, err
		}
		e.logger.InfoContext(ctx, "Started new ledger")
	case errors.Is(err, core.ErrCorruptSnapshot):
		e.snap = core.NewSnapshot()
		e.recovered = true
		e.logger.WarnContext(ctx, "Snapshot is corrupt, starting with an empty ledger", log.FieldError, err)
	default:
		return nil, fmt.Errorf("load ledger %q: %w", identity, err)
	}
	return e, nil
}

// Identity is the user scope of this engine.
func (e *Engine) Identity() string { return e.identity }

// Recovered reports whether Open replaced a corrupt snapshot with an empty one.
func (e *Engine) Recovered() bool { return e.recovered }

// Balance is total income minus total expense.
func (e *Engine) Balance() decimal.Decimal { return e.snap.Balance() }

// Transactions is the combined view addressed by Update and Delete: income
// first, then expense, each in insertion order.
func (e *Engine) Transactions() []core.Transaction { return e.snap.All() }

func (e *Engine) Income() []core.Transaction {
	return append([]core.Transaction(nil), e.snap.Income...)
}

func (e *Engine) Expenses() []core.Transaction {
	return append([]core.Transaction(nil), e.snap.Expense...)
}

// Budgets returns a copy of the category budget map.
func (e *Engine) Budgets() map[string]decimal.Decimal { return maps.Clone(e.snap.Budgets) }

// BudgetLines reports budget, spent and remaining per budgeted category.
func (e *Engine) BudgetLines() []core.BudgetLine { return e.snap.BudgetLines() }

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() core.Snapshot { return e.snap.Clone() }

// Entry is a transaction together with its combined index.
type Entry struct {
	Index       int
	Transaction core.Transaction
}

// Search returns the transactions whose date, category or description
// contains keyword, ignoring case.
func (e *Engine) Search(keyword string) []Entry {
	var out []Entry
	for i, t := range e.snap.All() {
		if t.Matches(keyword) {
			out = append(out, Entry{Index: i, Transaction: t})
		}
	}
	return out
}

func (e *Engine) today() core.Date {
	return core.DateOf(e.now())
}

// persist saves next and makes it current. On failure the current snapshot is untouched.
func (e *Engine) persist(ctx context.Context, op string, next core.Snapshot) error {
	if err := e.store.Save(ctx, e.identity, next); err != nil {
		e.logger.ErrorContext(ctx, "Persisting ledger failed", log.FieldOperation, op, log.FieldError, err)
		if !errors.Is(err, core.ErrPersistence) {
			err = fmt.Errorf("%w: %v", core.ErrPersistence, err)
		}
		return err
	}
	e.snap = next
	return nil
}
