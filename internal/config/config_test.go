package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize defaults: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Bridge.SearchLimit != defaultSearchLimit {
		t.Fatalf("unexpected search limit %d", cfg.Bridge.SearchLimit)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[bridge]
base_url = "http://bridge.example:9000/"
auth_token = " secret-token "
[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, used, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !used || resolved == "" {
		t.Fatalf("expected config file to be used, resolved=%q used=%v", resolved, used)
	}
	if cfg.Bridge.BaseURL != "http://bridge.example:9000" {
		t.Fatalf("base URL not normalized: %q", cfg.Bridge.BaseURL)
	}
	if cfg.Bridge.AuthToken != "secret-token" {
		t.Fatalf("auth token not trimmed: %q", cfg.Bridge.AuthToken)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level not merged: %q", cfg.Logging.Level)
	}
	if cfg.Bridge.SearchLimit != defaultSearchLimit {
		t.Fatalf("search limit default lost: %d", cfg.Bridge.SearchLimit)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"loud\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging.level error, got %v", err)
	}
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	if _, _, _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestSampleConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(SampleConfig()), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
	if cfg.Bridge.BaseURL != defaultBridgeBaseURL {
		t.Fatalf("unexpected sample base url %q", cfg.Bridge.BaseURL)
	}
}
