package config

import (
	"strings"
	"testing"
)

func TestValidate_DefaultConfig(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("expected default config to pass validation, got error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := Validate(&Config{})
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	validationErr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Errors) < 2 {
		t.Errorf("expected multiple errors, got %d", len(validationErr.Errors))
	}
	if !strings.Contains(validationErr.Error(), "validation failed with") {
		t.Errorf("error message should mention multiple errors: %s", validationErr.Error())
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		errorField string
	}{
		{"unknown format", func(c *Config) { c.Query.DefaultFormat = "csv" }, "query.default_format"},
		{"negative query length", func(c *Config) { c.Query.MaxQueryLength = -1 }, "query.max_query_length"},
		{"empty listen address", func(c *Config) { c.Server.ListenAddress = "" }, "server.listen_address"},
		{"listen address without port", func(c *Config) { c.Server.ListenAddress = "localhost" }, "server.listen_address"},
		{"negative read timeout", func(c *Config) { c.Server.ReadTimeout = -1 }, "server.read_timeout"},
		{"negative shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = -1 }, "server.shutdown_timeout"},
		{"negative body size", func(c *Config) { c.Server.MaxBodyBytes = -1 }, "server.max_body_bytes"},
		{"unknown backend", func(c *Config) { c.History.Backend = "postgres" }, "history.backend"},
		{"sqlite without path", func(c *Config) { c.History.Path = "" }, "history.path"},
		{"negative max entries", func(c *Config) { c.History.MaxEntries = -5 }, "history.max_entries"},
		{"negative retention", func(c *Config) { c.History.RetentionDays = -1 }, "history.retention_days"},
		{"bad cron", func(c *Config) { c.History.PruneSchedule = "every day" }, "history.prune_schedule"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -1 }, "watch.debounce"},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "telemetry.logging.level"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"relative metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"unsorted buckets", func(c *Config) { c.Telemetry.Metrics.DurationBuckets = []float64{1, 0.5} }, "telemetry.metrics.duration_buckets"},
		{"bad sampler", func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" }, "telemetry.tracing.sampler"},
		{"ratio above one", func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			verr, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T", err)
			}

			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.errorField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.errorField, verr.Errors)
			}
		})
	}
}

func TestValidate_MemoryBackendNeedsNoPath(t *testing.T) {
	cfg := Default()
	cfg.History.Backend = "memory"
	cfg.History.Path = ""
	if err := Validate(cfg); err != nil {
		t.Errorf("memory backend should not require a path: %v", err)
	}
}

func TestFieldError(t *testing.T) {
	err := FieldError{Field: "server.listen_address", Message: "listen address is required"}
	if err.Error() != "server.listen_address: listen address is required" {
		t.Errorf("unexpected message %q", err.Error())
	}

	single := ValidationError{Errors: []FieldError{err}}
	if single.Error() != "configuration validation failed: server.listen_address: listen address is required" {
		t.Errorf("unexpected message %q", single.Error())
	}
}
