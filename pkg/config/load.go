package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded on top of Default, unknown keys are rejected with a
// suggestion, and the result is validated.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, path string) (*Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	cfg := Default()
	if len(root.Content) == 0 {
		return cfg, nil
	}

	if errs := unknownKeys(root.Content[0], reflect.TypeOf(*cfg), ""); len(errs) > 0 {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, ValidationError{Errors: errs})
	}
	if err := root.Content[0].Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention MDNAV_SECTION_FIELD (e.g., MDNAV_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// An empty path, or DefaultConfigPath when that file does not exist, starts
// from Default instead of failing.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	switch {
	case path == "":
		cfg = Default()
	default:
		loaded, err := LoadConfig(path)
		if errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath {
			loaded, err = Default(), nil
		}
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format MDNAV_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Query overrides
	envString("MDNAV_QUERY_DEFAULT_FORMAT", &cfg.Query.DefaultFormat)
	envInt("MDNAV_QUERY_MAX_QUERY_LENGTH", &cfg.Query.MaxQueryLength)

	// Server overrides
	envString("MDNAV_SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration("MDNAV_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("MDNAV_SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("MDNAV_SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	envDuration("MDNAV_SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	if val := os.Getenv("MDNAV_SERVER_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = i
		}
	}

	// History overrides
	envBool("MDNAV_HISTORY_ENABLED", &cfg.History.Enabled)
	envString("MDNAV_HISTORY_BACKEND", &cfg.History.Backend)
	envString("MDNAV_HISTORY_PATH", &cfg.History.Path)
	envInt("MDNAV_HISTORY_MAX_ENTRIES", &cfg.History.MaxEntries)
	envInt("MDNAV_HISTORY_RETENTION_DAYS", &cfg.History.RetentionDays)
	envString("MDNAV_HISTORY_PRUNE_SCHEDULE", &cfg.History.PruneSchedule)

	// Watch overrides
	envDuration("MDNAV_WATCH_DEBOUNCE", &cfg.Watch.Debounce)

	// Telemetry overrides
	envString("MDNAV_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("MDNAV_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("MDNAV_TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	envBool("MDNAV_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("MDNAV_TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envBool("MDNAV_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("MDNAV_TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	envString("MDNAV_TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	if val := os.Getenv("MDNAV_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

// unknownKeys reports mapping keys that do not correspond to a yaml tag of t,
// with the closest known key as a hint.
func unknownKeys(node *yaml.Node, t reflect.Type, prefix string) []FieldError {
	if node.Kind != yaml.MappingNode || t.Kind() != reflect.Struct {
		return nil
	}

	fields := make(map[string]reflect.Type, t.NumField())
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("yaml"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		fields[tag] = t.Field(i).Type
		names = append(names, tag)
	}

	var errs []FieldError
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		ft, ok := fields[key]
		if !ok {
			msg := "unknown field"
			if ranks := fuzzy.RankFindFold(key, names); len(ranks) > 0 {
				sort.Sort(ranks)
				msg = fmt.Sprintf("unknown field (did you mean %q?)", ranks[0].Target)
			} else if best := closestByPrefix(key, names); best != "" {
				msg = fmt.Sprintf("unknown field (did you mean %q?)", best)
			}
			errs = append(errs, FieldError{Field: path, Message: msg})
			continue
		}
		errs = append(errs, unknownKeys(node.Content[i+1], ft, path)...)
	}
	return errs
}

// closestByPrefix returns the candidate sharing the longest common prefix
// with key, if any shares at least three characters.
func closestByPrefix(key string, names []string) string {
	best, bestLen := "", 2
	for _, name := range names {
		n := 0
		for n < len(key) && n < len(name) && key[n] == name[n] {
			n++
		}
		if n > bestLen {
			best, bestLen = name, n
		}
	}
	return best
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
