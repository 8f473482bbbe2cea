package metrics

import (
	"time"

	"mdnav-hq/mdnav/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks the query API.
//
// Metrics:
//   - mdnav_http_requests_total: requests by method, route and status code
//   - mdnav_http_request_duration_seconds: request latency by route
//   - mdnav_http_requests_in_flight: requests currently being served
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided registry.
func NewHTTPMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"method", "route", "code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
	}

	registry.MustRegister(
		hm.requestsTotal,
		hm.requestDuration,
		hm.inFlight,
	)

	return hm
}

// RecordRequest records a completed request.
func (hm *HTTPMetrics) RecordRequest(method, route, code string, duration time.Duration) {
	hm.requestsTotal.WithLabelValues(method, route, code).Inc()
	hm.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Begin marks a request as in flight. The returned func marks it done.
func (hm *HTTPMetrics) Begin() func() {
	hm.inFlight.Inc()
	return hm.inFlight.Dec
}
