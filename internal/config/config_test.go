package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if cfg.Quotes.Source != nil || cfg.Log.File != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[quotes]
source = "local"
endpoint = "https://example.test/random"
timeout = "3s"
retries = 2

[log]
file = "/tmp/spede.log"
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Quotes.Source == nil || *cfg.Quotes.Source != "local" {
		t.Fatalf("unexpected source: %v", cfg.Quotes.Source)
	}
	if cfg.Quotes.Endpoint == nil || *cfg.Quotes.Endpoint != "https://example.test/random" {
		t.Fatalf("unexpected endpoint: %v", cfg.Quotes.Endpoint)
	}
	if cfg.Quotes.Timeout == nil || *cfg.Quotes.Timeout != "3s" {
		t.Fatalf("unexpected timeout: %v", cfg.Quotes.Timeout)
	}
	if cfg.Quotes.Retries == nil || *cfg.Quotes.Retries != 2 {
		t.Fatalf("unexpected retries: %v", cfg.Quotes.Retries)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[quotes]\nsorce = \"api\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "quotes.sorce") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "spede", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "spede", "quotes.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
