package metrics

import (
	"mdnav-hq/mdnav/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HistoryMetrics tracks the query history store.
//
// Metrics:
//   - mdnav_history_entries: entries currently stored
//   - mdnav_history_pruned_total: entries removed by retention
type HistoryMetrics struct {
	entries     prometheus.Gauge
	prunedTotal prometheus.Counter
}

// NewHistoryMetrics creates and registers history metrics with the provided registry.
func NewHistoryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HistoryMetrics {
	hm := &HistoryMetrics{
		entries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "history_entries",
				Help:      "Current number of stored history entries",
			},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "history_pruned_total",
				Help:      "Total number of history entries removed by retention",
			},
		),
	}

	registry.MustRegister(hm.entries, hm.prunedTotal)

	return hm
}

// UpdateSize sets the current entry count.
func (hm *HistoryMetrics) UpdateSize(entries int) {
	hm.entries.Set(float64(entries))
}

// RecordPruned adds removed entries to the prune counter.
func (hm *HistoryMetrics) RecordPruned(removed int) {
	if removed > 0 {
		hm.prunedTotal.Add(float64(removed))
	}
}
