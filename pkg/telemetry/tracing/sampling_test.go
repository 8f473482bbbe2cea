package tracing

import (
	"strings"
	"testing"

	"mdnav-hq/mdnav/pkg/config"
)

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		name        string
		sampler     string
		ratio       float64
		wantErr     bool
		description string
	}{
		{name: "always", sampler: SamplerAlways, description: "AlwaysOnSampler"},
		{name: "never", sampler: SamplerNever, description: "AlwaysOffSampler"},
		{name: "ratio", sampler: SamplerRatio, ratio: 0.25, description: "TraceIDRatioBased{0.25}"},
		{name: "empty means ratio", ratio: 0.5, description: "TraceIDRatioBased{0.5}"},
		{name: "negative ratio", sampler: SamplerRatio, ratio: -0.1, wantErr: true},
		{name: "ratio above one", sampler: SamplerRatio, ratio: 1.5, wantErr: true},
		{name: "unknown", sampler: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := samplerFor(&config.TracingConfig{Sampler: tt.sampler, SampleRatio: tt.ratio})
			if (err != nil) != tt.wantErr {
				t.Fatalf("samplerFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			desc := s.Description()
			root := strings.SplitN(strings.TrimPrefix(desc, "ParentBased{root:"), ",", 2)[0]
			if !strings.HasPrefix(desc, "ParentBased{") || root != tt.description {
				t.Errorf("Description() = %q, want ParentBased around %s", desc, tt.description)
			}
		})
	}
}
