package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_Load(t *testing.T) {
	dir := t.TempDir()

	valid := `
port = 9000
log_level = "debug"
metrics_enabled = true
btree_degree = 4
`
	path := filepath.Join(dir, "catalog.toml")
	if err := os.WriteFile(path, []byte(valid), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := New()
	if err := cfg.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9000 || cfg.LogLevel != "debug" || !cfg.MetricsEnabled || cfg.BTreeDegree != 4 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Service != "catalog" || cfg.HikeLimitPerMin != 30 {
		t.Fatalf("defaults lost: %+v", cfg)
	}

	if err := New().Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte(`port = "x"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := New().Load(bad); err == nil {
		t.Fatalf("expected error for bad toml")
	}
}

func TestConfig_Env(t *testing.T) {
	env := map[string]string{
		"PORT":            "7001",
		"METRICS_ENABLED": "true",
		"METRICS_TOKEN":   "m",
		"ADMIN_SECRET":    strings.Repeat("s", 32),
	}

	cfg := New()
	if err := cfg.apply(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Port != 7001 || !cfg.MetricsEnabled || cfg.MetricsToken != "m" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Addr() != ":7001" {
		t.Fatalf("addr=%s", cfg.Addr())
	}

	env = map[string]string{"BTREE_DEGREE": "two"}
	if err := New().apply(func(k string) string { return env[k] }); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err=%v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 0 }},
		{"degree", func(c *Config) { c.BTreeDegree = 1 }},
		{"limit", func(c *Config) { c.HikeLimitPerMin = 0 }},
		{"short secret", func(c *Config) { c.AdminSecret = "short" }},
	}

	for _, tt := range tests {
		cfg := New()
		tt.mut(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: err=%v", tt.name, err)
		}
	}

	if err := New().Validate(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
}
