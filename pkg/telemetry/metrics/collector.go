package metrics

import (
	"strconv"
	"sync"
	"time"

	"mdnav-hq/mdnav/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus registry and every mdnav metric family.
// A nil *Collector and a Collector built from a disabled config are both
// valid and record nothing.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	queryMetrics   *QueryMetrics
	httpMetrics    *HTTPMetrics
	historyMetrics *HistoryMetrics

	// Route labels come from the router, but unmatched paths are bucketed
	// once this fills up.
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a collector and registers its metrics with registry.
// A fresh registry is created when registry is nil.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordQuery(metrics.StatusSuccess, 2*time.Millisecond, 3)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		config:             *cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}
	if c.config.Namespace == "" {
		c.config.Namespace = config.DefaultMetricsNamespace
	}
	if len(c.config.DurationBuckets) == 0 {
		c.config.DurationBuckets = config.DefaultDurationBuckets
	}
	if len(c.config.ResultBuckets) == 0 {
		c.config.ResultBuckets = config.DefaultResultBuckets
	}

	c.queryMetrics = NewQueryMetrics(&c.config, registry)
	c.httpMetrics = NewHTTPMetrics(&c.config, registry)
	c.historyMetrics = NewHistoryMetrics(&c.config, registry)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// Query statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordQuery records a completed query execution.
//
// Parameters:
//   - status: StatusSuccess or StatusError
//   - duration: time spent parsing and evaluating the query
//   - results: number of values produced
func (c *Collector) RecordQuery(status string, duration time.Duration, results int) {
	if !c.enabled() {
		return
	}

	c.queryMetrics.RecordExecution(status, duration, results)
}

// RecordQueryError counts a failed query by error kind (e.g. "parse_error").
func (c *Collector) RecordQueryError(kind string) {
	if !c.enabled() {
		return
	}

	c.queryMetrics.RecordError(kind)
}

// RecordDocumentParsed records one markdown document load.
func (c *Collector) RecordDocumentParsed(duration time.Duration, sizeBytes int) {
	if !c.enabled() {
		return
	}

	c.queryMetrics.RecordDocument(duration, sizeBytes)
}

// RecordHTTPRequest records a served API request. route is the matched
// router pattern, not the raw URL path.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}

	if route == "" || !c.cardinalityLimiter.Allow(method+" "+route) {
		route = "other"
	}
	c.httpMetrics.RecordRequest(method, route, strconv.Itoa(status), duration)
}

// TrackInFlight marks an HTTP request as in flight until the returned func
// is called.
func (c *Collector) TrackInFlight() func() {
	if !c.enabled() {
		return func() {}
	}

	return c.httpMetrics.Begin()
}

// UpdateHistorySize sets the current number of stored history entries.
func (c *Collector) UpdateHistorySize(entries int) {
	if !c.enabled() {
		return
	}

	c.historyMetrics.UpdateSize(entries)
}

// RecordHistoryPruned counts entries removed by retention.
func (c *Collector) RecordHistoryPruned(removed int) {
	if !c.enabled() {
		return
	}

	c.historyMetrics.RecordPruned(removed)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether labelSet is already tracked or still fits under
// the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
