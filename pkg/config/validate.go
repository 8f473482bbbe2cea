package config

import (
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// OutputFormats are the accepted query.default_format values, aliases included.
var OutputFormats = []string{"plain", "text", "json", "json-pretty", "jsonp", "jsonl", "md", "markdown", "tree", "yaml", "yml"}

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "text", "console"}
	validBackends   = []string{"sqlite", "memory"}
	validSamplers   = []string{"always", "never", "ratio"}
)

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateQuery(&cfg.Query)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateQuery(cfg *QueryConfig) []FieldError {
	var errs []FieldError

	if !contains(OutputFormats, strings.ToLower(cfg.DefaultFormat)) {
		errs = append(errs, FieldError{
			Field:   "query.default_format",
			Message: fmt.Sprintf("must be one of %s", strings.Join(OutputFormats, ", ")),
		})
	}
	if cfg.MaxQueryLength < 0 {
		errs = append(errs, FieldError{
			Field:   "query.max_query_length",
			Message: "max query length must be non-negative",
		})
	}

	return errs
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid listen address: %v", err),
		})
	}

	timeouts := map[string]int64{
		"server.read_timeout":     int64(cfg.ReadTimeout),
		"server.write_timeout":    int64(cfg.WriteTimeout),
		"server.idle_timeout":     int64(cfg.IdleTimeout),
		"server.shutdown_timeout": int64(cfg.ShutdownTimeout),
	}
	fields := make([]string, 0, len(timeouts))
	for field := range timeouts {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if timeouts[field] < 0 {
			errs = append(errs, FieldError{Field: field, Message: "timeout must be positive"})
		}
	}

	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if !contains(validBackends, cfg.Backend) {
		errs = append(errs, FieldError{
			Field:   "history.backend",
			Message: fmt.Sprintf("must be one of %s", strings.Join(validBackends, ", ")),
		})
	}
	if cfg.Backend == "sqlite" && cfg.Enabled && cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "history.path",
			Message: "path is required for the sqlite backend",
		})
	}
	if cfg.MaxEntries < 0 {
		errs = append(errs, FieldError{
			Field:   "history.max_entries",
			Message: "max entries must be non-negative",
		})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention_days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "history.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	if cfg.Debounce < 0 {
		return []FieldError{{Field: "watch.debounce", Message: "debounce must be non-negative"}}
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if !contains(validLogLevels, strings.ToLower(cfg.Logging.Level)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of %s", strings.Join(validLogLevels, ", ")),
		})
	}
	if !contains(validLogFormats, strings.ToLower(cfg.Logging.Format)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be one of %s", strings.Join(validLogFormats, ", ")),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}
	if !sort.Float64sAreSorted(cfg.Metrics.DurationBuckets) {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.duration_buckets",
			Message: "buckets must be in increasing order",
		})
	}
	if !sort.Float64sAreSorted(cfg.Metrics.ResultBuckets) {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.result_buckets",
			Message: "buckets must be in increasing order",
		})
	}

	if !contains(validSamplers, cfg.Tracing.Sampler) {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("must be one of %s", strings.Join(validSamplers, ", ")),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
