package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name  string
		input Config
		check func(*testing.T, *Config)
	}{
		{
			name:  "empty config gets all defaults",
			input: Config{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Query.DefaultFormat != DefaultQueryFormat {
					t.Errorf("expected format %q, got %q", DefaultQueryFormat, cfg.Query.DefaultFormat)
				}
				if cfg.Server.ListenAddress != DefaultListenAddress {
					t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
				}
				if cfg.Server.MaxBodyBytes != DefaultMaxBodyBytes {
					t.Errorf("expected max body bytes %d, got %d", DefaultMaxBodyBytes, cfg.Server.MaxBodyBytes)
				}
				if cfg.History.PruneSchedule != DefaultHistoryPruneSchedule {
					t.Errorf("expected prune schedule %q, got %q", DefaultHistoryPruneSchedule, cfg.History.PruneSchedule)
				}
				if cfg.Watch.Debounce != DefaultWatchDebounce {
					t.Errorf("expected debounce %v, got %v", DefaultWatchDebounce, cfg.Watch.Debounce)
				}
				if cfg.Telemetry.Metrics.Path != DefaultPrometheusPath {
					t.Errorf("expected prometheus path %q, got %q", DefaultPrometheusPath, cfg.Telemetry.Metrics.Path)
				}
				if len(cfg.Telemetry.Metrics.DurationBuckets) != len(DefaultDurationBuckets) {
					t.Errorf("expected default duration buckets, got %v", cfg.Telemetry.Metrics.DurationBuckets)
				}
				if cfg.History.Enabled {
					t.Error("ApplyDefaults must not flip booleans")
				}
			},
		},
		{
			name: "existing values are preserved",
			input: Config{
				Server:  ServerConfig{ListenAddress: "0.0.0.0:1", ReadTimeout: time.Minute},
				History: HistoryConfig{MaxEntries: 7},
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.ListenAddress != "0.0.0.0:1" {
					t.Errorf("listen address overwritten: %q", cfg.Server.ListenAddress)
				}
				if cfg.Server.ReadTimeout != time.Minute {
					t.Errorf("read timeout overwritten: %v", cfg.Server.ReadTimeout)
				}
				if cfg.History.MaxEntries != 7 {
					t.Errorf("max entries overwritten: %d", cfg.History.MaxEntries)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.input
			ApplyDefaults(&cfg)
			tt.check(t, &cfg)

			ApplyDefaults(&cfg)
			tt.check(t, &cfg)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.History.Enabled {
		t.Error("expected history enabled")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled")
	}
	if cfg.Telemetry.Tracing.Enabled {
		t.Error("expected tracing disabled")
	}

	cfg.Telemetry.Metrics.DurationBuckets[0] = 42
	if DefaultDurationBuckets[0] == 42 {
		t.Error("Default must copy bucket slices")
	}
}
