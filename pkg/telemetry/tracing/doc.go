// Package tracing provides OpenTelemetry tracing for mdnav.
//
// A Tracer is built from config.TracingConfig. When tracing is disabled it
// is a noop tracer. When enabled, spans are sampled by the configured
// strategy (always, never or ratio, each parent-based) and exported over
// OTLP gRPC if an endpoint is configured.
//
// The query API wraps every request with Tracer.HTTPMiddleware, which
// honours an incoming W3C traceparent header and opens a server span.
// Query execution adds a child span carrying the mdnav.* attributes from
// attributes.go.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithVersion(version))
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "tql.execute")
//	tracing.SetQueryAttributes(span, query, path)
//	defer span.End()
package tracing
