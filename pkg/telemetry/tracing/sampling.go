package tracing

import (
	"fmt"

	"mdnav-hq/mdnav/pkg/config"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Values of telemetry.tracing.sampler.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio"
)

// samplerFor builds the root sampler for cfg. It is wrapped in ParentBased
// so a /v1/query request carrying a sampled traceparent is always traced,
// whatever the local ratio.
func samplerFor(cfg *config.TracingConfig) (sdktrace.Sampler, error) {
	var root sdktrace.Sampler
	switch cfg.Sampler {
	case SamplerAlways:
		root = sdktrace.AlwaysSample()
	case SamplerNever:
		root = sdktrace.NeverSample()
	case SamplerRatio, "":
		if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
			return nil, fmt.Errorf("sample_ratio %g is outside [0, 1]", cfg.SampleRatio)
		}
		root = sdktrace.TraceIDRatioBased(cfg.SampleRatio)
	default:
		return nil, fmt.Errorf("unknown sampler %q (valid: %s, %s, %s)", cfg.Sampler, SamplerAlways, SamplerNever, SamplerRatio)
	}
	return sdktrace.ParentBased(root), nil
}
