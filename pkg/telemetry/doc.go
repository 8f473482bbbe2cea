// Package telemetry wires logging, metrics and tracing for mdnav.
//
// # Components
//
//   - logging: slog based structured logging with request context fields
//   - metrics: Prometheus query, document, HTTP and history metrics
//   - tracing: OpenTelemetry spans with optional OTLP export
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	tel, err := telemetry.New(&cfg.Telemetry, version, os.Stderr)
//	if err != nil {
//		return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	tel.Logger().Info("query executed", "results", len(results))
//	tel.Metrics().RecordQuery(metrics.StatusSuccess, time.Since(start), len(results))
//
//	ctx, span := tel.Tracer().Start(ctx, "tql.execute")
//	defer span.End()
package telemetry
