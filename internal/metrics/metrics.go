// Package metrics exposes the ledger's Prometheus instruments.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MrJamesThe3rd/finboard/internal/money"
)

const namespace = "finboard"

// Metrics groups the ledger instruments. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	mutations   *prometheus.CounterVec
	persist     *prometheus.HistogramVec
	version     prometheus.Gauge
	netWorth    prometheus.Gauge
	subscribers prometheus.Gauge
	imported    prometheus.Counter
	published   *prometheus.CounterVec
}

// New registers the instruments with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "mutations_total",
			Help:      "Ledger mutations by operation and result.",
		}, []string{"op", "result"}),
		persist: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "persist_duration_seconds",
			Help:      "Time spent in repository calls.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"op"}),
		version: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "snapshot_version",
			Help:      "Version of the current snapshot.",
		}),
		netWorth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "net_worth",
			Help:      "Sum of all account balances.",
		}),
		subscribers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "subscribers",
			Help:      "Number of snapshot subscribers.",
		}),
		imported: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "transactions_total",
			Help:      "Transactions added through CSV import.",
		}),
		published: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Events published to the broker by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) Mutation(op, result string) {
	if m == nil {
		return
	}

	m.mutations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) Persist(op string, d time.Duration) {
	if m == nil {
		return
	}

	m.persist.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) Snapshot(version uint64, netWorth money.Amount) {
	if m == nil {
		return
	}

	m.version.Set(float64(version))
	m.netWorth.Set(netWorth.Decimal().InexactFloat64())
}

func (m *Metrics) Subscribers(n int) {
	if m == nil {
		return
	}

	m.subscribers.Set(float64(n))
}

func (m *Metrics) Imported(n int) {
	if m == nil {
		return
	}

	m.imported.Add(float64(n))
}

func (m *Metrics) Published(err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}

	m.published.WithLabelValues(result).Inc()
}
