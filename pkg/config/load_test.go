package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mdnav.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
query:
  default_format: jsonp

server:
  listen_address: "0.0.0.0:9090"
  read_timeout: "60s"

history:
  enabled: false
  backend: memory

telemetry:
  logging:
    level: "debug"
    format: "json"
  metrics:
    namespace: docs
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Query.DefaultFormat != "jsonp" {
		t.Errorf("expected default format %q, got %q", "jsonp", cfg.Query.DefaultFormat)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9090", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 60*time.Second {
		t.Errorf("expected read timeout 60s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.History.Enabled {
		t.Error("expected history to be disabled by the file")
	}
	if cfg.History.Backend != "memory" {
		t.Errorf("expected backend memory, got %q", cfg.History.Backend)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Telemetry.Logging.Level)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics to stay enabled when the file does not mention it")
	}
	if cfg.Telemetry.Metrics.Namespace != "docs" {
		t.Errorf("expected namespace docs, got %q", cfg.Telemetry.Metrics.Namespace)
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected default listen address, got %q", cfg.Server.ListenAddress)
	}
	if !cfg.History.Enabled {
		t.Error("expected history enabled by default")
	}
}

func TestLoadConfig_UnknownKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "misspelled nested key",
			content: "server:\n  listen_adress: \"127.0.0.1:1\"\n",
			want:    `server.listen_adress: unknown field (did you mean "listen_address"?)`,
		},
		{
			name:    "misspelled section",
			content: "sever:\n  listen_address: \"127.0.0.1:1\"\n",
			want:    `sever: unknown field (did you mean "server"?)`,
		},
		{
			name:    "no close match",
			content: "zzz: 1\n",
			want:    "zzz: unknown field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error for unknown key")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err.Error(), tt.want)
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}

	_, err = LoadConfig(writeConfig(t, "server: [unclosed\n"))
	if err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}

	_, err = LoadConfig(writeConfig(t, "telemetry:\n  logging:\n    level: loud\n"))
	if err == nil || !strings.Contains(err.Error(), "telemetry.logging.level") {
		t.Errorf("expected validation error for level, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:9000\"\n")

	t.Setenv("MDNAV_SERVER_LISTEN_ADDRESS", "0.0.0.0:7000")
	t.Setenv("MDNAV_SERVER_READ_TIMEOUT", "5s")
	t.Setenv("MDNAV_HISTORY_ENABLED", "false")
	t.Setenv("MDNAV_HISTORY_MAX_ENTRIES", "25")
	t.Setenv("MDNAV_TELEMETRY_LOGGING_LEVEL", "error")
	t.Setenv("MDNAV_TELEMETRY_TRACING_SAMPLE_RATIO", "0.5")
	t.Setenv("MDNAV_WATCH_DEBOUNCE", "not-a-duration")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:7000" {
		t.Errorf("expected env listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected read timeout 5s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.History.Enabled {
		t.Error("expected history disabled by env")
	}
	if cfg.History.MaxEntries != 25 {
		t.Errorf("expected max entries 25, got %d", cfg.History.MaxEntries)
	}
	if cfg.Telemetry.Logging.Level != "error" {
		t.Errorf("expected level error, got %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Tracing.SampleRatio != 0.5 {
		t.Errorf("expected sample ratio 0.5, got %v", cfg.Telemetry.Tracing.SampleRatio)
	}
	if cfg.Watch.Debounce != DefaultWatchDebounce {
		t.Errorf("unparseable env value should be ignored, got %v", cfg.Watch.Debounce)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	t.Setenv("MDNAV_HISTORY_BACKEND", "postgres")

	_, err := LoadConfigWithEnvOverrides("")
	if err == nil || !strings.Contains(err.Error(), "history.backend") {
		t.Errorf("expected history.backend error, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := LoadConfigWithEnvOverrides(DefaultConfigPath)
	if err != nil {
		t.Fatalf("missing default config should not fail: %v", err)
	}
	if cfg.Query.DefaultFormat != DefaultQueryFormat {
		t.Errorf("expected defaults, got format %q", cfg.Query.DefaultFormat)
	}

	if _, err := LoadConfigWithEnvOverrides("other.yaml"); err == nil {
		t.Error("an explicit missing path should fail")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/.mdnav/history.db", filepath.Join(home, ".mdnav/history.db")},
		{"~", home},
		{"/var/lib/mdnav.db", "/var/lib/mdnav.db"},
		{"relative/~file", "relative/~file"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
