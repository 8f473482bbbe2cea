// Package metrics provides Prometheus metrics for mdnav.
//
// # Metrics
//
//   - Query metrics: executions, latency, result counts and errors by kind
//   - Document metrics: parse count, latency and size
//   - HTTP metrics: API requests by route and status, in-flight requests
//   - History metrics: stored entries and retention removals
//
// All names are prefixed with the configured namespace ("mdnav" by default)
// and optional subsystem.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	start := time.Now()
//	results, err := eng.Execute(query)
//	if err != nil {
//		collector.RecordQuery(metrics.StatusError, time.Since(start), 0)
//		collector.RecordQueryError(string(tqlerrors.KindOf(err)))
//	} else {
//		collector.RecordQuery(metrics.StatusSuccess, time.Since(start), len(results))
//	}
//
//	router.Handle("/metrics", collector.Handler())
//
// Every Record method is a no-op on a nil collector or when metrics are
// disabled, so callers never need to check.
package metrics
