package config

import "time"

// Config is the root configuration structure for mdnav.
// It contains the query defaults used by the CLI, the HTTP server settings,
// query history storage, watch mode and telemetry.
type Config struct {
	// Query contains defaults applied to every query run.
	Query QueryConfig `yaml:"query"`

	// Server contains HTTP API configuration including listen address,
	// timeouts and request size limits.
	Server ServerConfig `yaml:"server"`

	// History contains configuration for the query history store and its
	// retention schedule.
	History HistoryConfig `yaml:"history"`

	// Watch contains configuration for `mdnav query --watch`.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// QueryConfig contains query execution defaults.
type QueryConfig struct {
	// DefaultFormat is the output format used when --format is not given.
	// Options: "plain", "json", "json-pretty", "jsonl", "md", "tree", "yaml"
	// Default: "plain"
	DefaultFormat string `yaml:"default_format"`

	// MaxQueryLength rejects longer query strings (0 = unlimited).
	// Default: 4096
	MaxQueryLength int `yaml:"max_query_length"`
}

// ServerConfig contains HTTP API server configuration.
type ServerConfig struct {
	// ListenAddress is the address the server binds to.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on keep-alive connections.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits the size of a query request body, document included.
	// Default: 10MB
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// HistoryConfig contains query history configuration.
type HistoryConfig struct {
	// Enabled controls whether executions are recorded.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the store.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file.
	// Default: "~/.mdnav/history.db"
	Path string `yaml:"path"`

	// MaxEntries caps the number of stored entries (0 = unlimited).
	// Default: 1000
	MaxEntries int `yaml:"max_entries"`

	// RetentionDays removes entries older than this many days (0 = keep forever).
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is the cron expression for retention while serving.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// WatchConfig contains file watch configuration.
type WatchConfig struct {
	// Debounce coalesces bursts of file events into one re-run.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "warn"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "mdnav"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "" (none)
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for query duration (seconds).
	// Default: [0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1]
	DurationBuckets []float64 `yaml:"duration_buckets"`

	// ResultBuckets defines histogram buckets for result counts.
	// Default: [0, 1, 5, 10, 50, 100, 500, 1000]
	ResultBuckets []float64 `yaml:"result_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint. Spans are recorded but
	// not exported when empty.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// ServiceName is the service name in traces.
	// Default: "mdnav"
	ServiceName string `yaml:"service_name"`
}
