package metrics

import (
	"time"

	"mdnav-hq/mdnav/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryMetrics tracks query execution and document loading.
//
// Metrics:
//   - mdnav_query_executions_total: executions by status
//   - mdnav_query_duration_seconds: execution latency
//   - mdnav_query_results: result count per execution
//   - mdnav_query_errors_total: failures by error kind
//   - mdnav_documents_parsed_total: markdown documents loaded
//   - mdnav_document_parse_duration_seconds: document parse latency
//   - mdnav_document_size_bytes: parsed document size
type QueryMetrics struct {
	executionsTotal *prometheus.CounterVec
	duration        prometheus.Histogram
	results         prometheus.Histogram
	errorsTotal     *prometheus.CounterVec

	documentsTotal prometheus.Counter
	parseDuration  prometheus.Histogram
	documentSize   prometheus.Histogram
}

// NewQueryMetrics creates and registers query metrics with the provided registry.
func NewQueryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *QueryMetrics {
	qm := &QueryMetrics{
		executionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "query_executions_total",
				Help:      "Total number of query executions",
			},
			[]string{"status"},
		),

		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "query_duration_seconds",
				Help:      "Duration of query executions in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),

		results: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "query_results",
				Help:      "Number of results produced per query",
				Buckets:   cfg.ResultBuckets,
			},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "query_errors_total",
				Help:      "Total number of failed queries by error kind",
			},
			[]string{"kind"},
		),

		documentsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "documents_parsed_total",
				Help:      "Total number of markdown documents parsed",
			},
		),

		parseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "document_parse_duration_seconds",
				Help:      "Duration of markdown parsing in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),

		documentSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "document_size_bytes",
				Help:      "Size of parsed markdown documents in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 8), // 1KB to 16MB
			},
		),
	}

	registry.MustRegister(
		qm.executionsTotal,
		qm.duration,
		qm.results,
		qm.errorsTotal,
		qm.documentsTotal,
		qm.parseDuration,
		qm.documentSize,
	)

	return qm
}

// RecordExecution records one query execution.
func (qm *QueryMetrics) RecordExecution(status string, duration time.Duration, results int) {
	qm.executionsTotal.WithLabelValues(status).Inc()
	qm.duration.Observe(duration.Seconds())
	if status == StatusSuccess {
		qm.results.Observe(float64(results))
	}
}

// RecordError counts a failure of the given kind.
func (qm *QueryMetrics) RecordError(kind string) {
	if kind == "" {
		kind = "internal"
	}
	qm.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordDocument records one parsed document.
func (qm *QueryMetrics) RecordDocument(duration time.Duration, sizeBytes int) {
	qm.documentsTotal.Inc()
	qm.parseDuration.Observe(duration.Seconds())
	qm.documentSize.Observe(float64(sizeBytes))
}
