package config

import "testing"

func TestInitialize(t *testing.T) {
	SetConfig(nil)
	defer SetConfig(nil)

	path := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:8181\"\n")

	cfg, err := Initialize(path)
	if err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}
	if GetConfig() != cfg {
		t.Fatal("expected Initialize to store the loaded config")
	}
	if cfg.Server.ListenAddress != "127.0.0.1:8181" {
		t.Errorf("expected listen address %q, got %q", "127.0.0.1:8181", cfg.Server.ListenAddress)
	}

	if _, err := Initialize(writeConfig(t, "query:\n  default_format: csv\n")); err == nil {
		t.Fatal("expected invalid config to fail")
	}
	if GetConfig() != cfg {
		t.Error("a failed Initialize must keep the previous config")
	}
}

func TestCurrent(t *testing.T) {
	SetConfig(nil)
	defer SetConfig(nil)

	if GetConfig() != nil {
		t.Fatal("expected nil config")
	}
	if Current() == nil {
		t.Fatal("Current should fall back to defaults")
	}

	custom := Default()
	custom.Query.DefaultFormat = "json"
	SetConfig(custom)
	if Current().Query.DefaultFormat != "json" {
		t.Error("Current should return the stored config")
	}
}
