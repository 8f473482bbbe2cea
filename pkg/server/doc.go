// Package server provides the mdnav HTTP API.
//
// # Endpoints
//
//	POST /v1/query   run a query against a posted markdown document
//	GET  /health     liveness
//	GET  /ready      readiness (history store ping)
//	GET  /version    build information
//	GET  /metrics    Prometheus metrics (telemetry.metrics.path)
//
// Query errors are answered with 400 and a structured body carrying the
// error kind, the byte span into the query and any suggestions:
//
//	{"error": {"kind": "unknown_function", "message": "...", "span": {"start": 6, "end": 12}, "suggestions": ["count"]}}
//
// # Usage
//
//	proc := processing.NewProcessor(&cfg.Query, processing.WithHistory(store))
//	srv := server.NewServer(&cfg.Server, proc,
//	    server.WithMetrics(tel.Metrics(), &cfg.Telemetry.Metrics),
//	    server.WithTracer(tel.Tracer()),
//	    server.WithHealth(checker),
//	)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled and then drains in-flight requests
// for up to server.shutdown_timeout.
package server
