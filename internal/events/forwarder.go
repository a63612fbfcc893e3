// Package events forwards ledger snapshots to a message broker so other
// services can react to dashboard changes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/metrics"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

type Source interface {
	Subscribe() (<-chan ledger.Snapshot, func())
}

// Forwarder publishes a DashboardUpdated message for every snapshot it sees
// and a BillsLate message whenever the set of late bills changes.
type Forwarder struct {
	source  Source
	pub     Publisher
	metrics *metrics.Metrics

	lastLate []string
}

func NewForwarder(source Source, pub Publisher, m *metrics.Metrics) *Forwarder {
	return &Forwarder{source: source, pub: pub, metrics: m}
}

// Run forwards snapshots until ctx is done. Publish failures are logged and
// counted; they never stop the loop.
func (f *Forwarder) Run(ctx context.Context) error {
	snapshots, unsubscribe := f.source.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-snapshots:
			if !ok {
				return nil
			}

			f.forward(ctx, s)
		}
	}
}

func (f *Forwarder) forward(ctx context.Context, s ledger.Snapshot) {
	err := f.publish(ctx, KeyDashboardUpdated, newDashboardUpdated(s))
	f.metrics.Published(err)

	if err != nil {
		slog.Error("failed to publish dashboard update", "version", s.Version, "error", err)
	}

	late := lateBills(s)

	ids := make([]string, 0, len(late))
	for _, b := range late {
		ids = append(ids, b.ID)
	}

	if slices.Equal(ids, f.lastLate) {
		return
	}

	err = f.publish(ctx, KeyBillsLate, BillsLate{Version: s.Version, Bills: late})
	f.metrics.Published(err)

	if err != nil {
		slog.Error("failed to publish late bills", "version", s.Version, "error", err)
		return
	}

	f.lastLate = ids
}

func (f *Forwarder) publish(ctx context.Context, key string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	return f.pub.Publish(ctx, key, body)
}
