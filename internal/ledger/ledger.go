// Package ledger owns the canonical record set. Every mutation goes through a
// single serialized handler that validates, persists through the Repository
// and only then swaps in a new immutable Snapshot with a freshly computed
// dashboard. Readers never block writers.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/metrics"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const DefaultPersistTimeout = 5 * time.Second

// Snapshot is an immutable view of the records and the dashboard derived
// from them. Version increases with every published snapshot.
type Snapshot struct {
	Version      uint64
	Accounts     []account.Account
	Transactions []transaction.Transaction
	Bills        []bill.Bill
	Dashboard    dashboard.Dashboard
}

type Options struct {
	// Lookahead is the bill window in days. Must not be negative.
	Lookahead      int
	PersistTimeout time.Duration
	// Clock supplies the as-of instant. Defaults to time.Now.
	Clock   func() time.Time
	Metrics *metrics.Metrics
}

type Ledger struct {
	repo Repository
	opts Options

	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	tickets *tickets
	hub     *hub
}

func New(repo Repository, opts Options) (*Ledger, error) {
	if opts.Lookahead < 0 {
		return nil, fmt.Errorf("%w: lookahead must not be negative, got %d", ErrValidation, opts.Lookahead)
	}

	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = DefaultPersistTimeout
	}

	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	l := &Ledger{
		repo:    repo,
		opts:    opts,
		tickets: newTickets(),
		hub:     newHub(opts.Metrics),
	}

	l.current.Store(&Snapshot{Dashboard: l.compute(Records{}, opts.Clock())})

	return l, nil
}

func (l *Ledger) Lookahead() int {
	return l.opts.Lookahead
}

// Load replaces the in-memory records with the repository's.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var recs Records

	err := l.persist(ctx, "fetch_all", func(ctx context.Context) error {
		var err error
		recs, err = l.repo.FetchAll(ctx)

		return err
	})
	if err != nil {
		return err
	}

	l.publish(recs)

	slog.Info("ledger loaded",
		"accounts", len(recs.Accounts),
		"transactions", len(recs.Transactions),
		"bills", len(recs.Bills),
	)

	return nil
}

// Refresh recomputes the dashboard against the current clock and publishes
// it. Records are unchanged.
func (l *Ledger) Refresh() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.publish(l.records())
}

// RefreshEvery calls Refresh on every tick of interval until ctx is done, so
// date-relative statuses roll over without a mutation.
func (l *Ledger) RefreshEvery(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Refresh()
		}
	}
}

// Snapshot returns the latest published snapshot. The slices it holds must
// not be modified.
func (l *Ledger) Snapshot() Snapshot {
	return *l.current.Load()
}

// Dashboard computes the dashboard of the current records as of asOf.
func (l *Ledger) Dashboard(asOf time.Time) dashboard.Dashboard {
	s := l.current.Load()

	return l.compute(Records{Accounts: s.Accounts, Transactions: s.Transactions, Bills: s.Bills}, asOf)
}

// Subscribe returns a channel that receives the current snapshot right away
// and every later one. A subscriber that falls behind only sees the most
// recent snapshot. The returned func unsubscribes and closes the channel.
func (l *Ledger) Subscribe() (<-chan Snapshot, func()) {
	return l.hub.subscribe(l.Snapshot)
}

func (l *Ledger) compute(recs Records, asOf time.Time) dashboard.Dashboard {
	return dashboard.Compute(dashboard.Input{
		Accounts:     recs.Accounts,
		Transactions: recs.Transactions,
		Bills:        recs.Bills,
		AsOf:         asOf,
		Window:       l.opts.Lookahead,
	})
}

func (l *Ledger) records() Records {
	s := l.current.Load()

	return Records{Accounts: s.Accounts, Transactions: s.Transactions, Bills: s.Bills}
}

// publish swaps in a snapshot of recs and notifies subscribers. Must be
// called with l.mu held.
func (l *Ledger) publish(recs Records) {
	prev := l.current.Load()

	next := &Snapshot{
		Version:      prev.Version + 1,
		Accounts:     recs.Accounts,
		Transactions: recs.Transactions,
		Bills:        recs.Bills,
		Dashboard:    l.compute(recs, l.opts.Clock()),
	}

	l.current.Store(next)
	l.opts.Metrics.Snapshot(next.Version, next.Dashboard.NetWorth)
	l.hub.publish(*next)
}

// persist runs fn under the persistence timeout. Failures other than a
// missing record are reported as ErrPersistence.
func (l *Ledger) persist(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, l.opts.PersistTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	l.opts.Metrics.Persist(op, time.Since(start))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrRecordNotFound):
		return err
	default:
		slog.Error("failed to persist", "op", op, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
	}
}

// mutate runs one serialized command. key identifies the record for
// last-writer-wins; pass the zero key for creates. apply validates against
// the current records, persists, and returns the records to publish.
func (l *Ledger) mutate(ctx context.Context, op string, key recordKey, apply func(ctx context.Context, recs Records) (Records, error)) (err error) {
	defer func() { l.opts.Metrics.Mutation(op, result(err)) }()

	ctx, t, done := l.tickets.begin(ctx, key)
	defer done()

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.tickets.current(t) {
		return ErrSuperseded
	}

	next, err := apply(ctx, l.records())
	if err != nil {
		if !l.tickets.current(t) {
			return fmt.Errorf("%w: %w", ErrSuperseded, err)
		}

		return err
	}

	// A newer request may have cancelled this one while it was persisting.
	// The write has landed either way, so it is published; the newer
	// request overwrites it next.
	l.publish(next)

	return nil
}
