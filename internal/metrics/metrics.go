// Package metrics exposes replay outcomes as Prometheus collectors.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/punchamoorthee/ledgerreplay/internal/domain"
)

// Recorder collects counters for one replay. Each Recorder owns its registry,
// so several runs in one process never share series.
type Recorder struct {
	registry *prometheus.Registry

	transactions   *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	accounts       prometheus.Gauge
	lockedAccounts prometheus.Gauge
	replayDuration prometheus.Histogram
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		transactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_total",
			Help: "Transactions applied, labeled by kind and outcome",
		}, []string{"kind", "outcome"}),
		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_rejections_total",
			Help: "Rejected transactions, labeled by reason",
		}, []string{"reason"}),
		accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_accounts",
			Help: "Accounts in the final snapshot",
		}),
		lockedAccounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_locked_accounts",
			Help: "Locked accounts in the final snapshot",
		}),
		replayDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_replay_duration_seconds",
			Help:    "Wall time of a full replay",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
	}
}

// Accepted implements ledger.Recorder.
func (r *Recorder) Accepted(kind domain.Kind) {
	r.transactions.WithLabelValues(kind.String(), "accepted").Inc()
}

// Rejected implements ledger.Recorder.
func (r *Recorder) Rejected(kind domain.Kind, reason string) {
	r.transactions.WithLabelValues(kind.String(), "rejected").Inc()
	r.rejections.WithLabelValues(reason).Inc()
}

// ObserveSnapshot records the account gauges and replay duration.
func (r *Recorder) ObserveSnapshot(accounts []domain.AccountSnapshot, elapsed time.Duration) {
	locked := 0
	for _, a := range accounts {
		if a.Locked {
			locked++
		}
	}
	r.accounts.Set(float64(len(accounts)))
	r.lockedAccounts.Set(float64(locked))
	r.replayDuration.Observe(elapsed.Seconds())
}

// Registry returns the registry holding this recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all collectors to path in the text exposition format
// read by the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
