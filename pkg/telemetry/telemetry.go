package telemetry

import (
	"context"
	"fmt"
	"io"

	"mdnav-hq/mdnav/pkg/config"
	"mdnav-hq/mdnav/pkg/telemetry/logging"
	"mdnav-hq/mdnav/pkg/telemetry/metrics"
	"mdnav-hq/mdnav/pkg/telemetry/tracing"
)

// Telemetry bundles the logger, metrics collector and tracer built from one
// TelemetryConfig.
type Telemetry struct {
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// New builds every telemetry component. Logs go to w (stderr when nil).
func New(cfg *config.TelemetryConfig, version string, w io.Writer) (*Telemetry, error) {
	logger, err := logging.New(logging.FromConfig(cfg.Logging, w))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tracer, err := tracing.New(&cfg.Tracing, tracing.WithVersion(version))
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	return &Telemetry{
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Metrics, nil),
		tracer:  tracer,
	}, nil
}

// Logger returns the structured logger.
func (t *Telemetry) Logger() *logging.Logger {
	return t.logger
}

// Metrics returns the Prometheus collector.
func (t *Telemetry) Metrics() *metrics.Collector {
	return t.metrics
}

// Tracer returns the tracer.
func (t *Telemetry) Tracer() *tracing.Tracer {
	return t.tracer
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.tracer.Shutdown(ctx)
}
