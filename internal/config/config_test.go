package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leangraph.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "store:\n  dir: /tmp/libs\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Checker.Path != "lean" {
		t.Errorf("expected default checker path lean, got %s", cfg.Checker.Path)
	}
	if len(cfg.Checker.Args) != 1 || cfg.Checker.Args[0] != "-T500000" {
		t.Errorf("expected default args [-T500000], got %v", cfg.Checker.Args)
	}
	if cfg.Checker.OnError != "fail" {
		t.Errorf("expected default on_error fail, got %s", cfg.Checker.OnError)
	}
	if cfg.Store.Dir != "/tmp/libs" {
		t.Errorf("expected store dir from file, got %s", cfg.Store.Dir)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Trace.SampleRate != 1.0 {
		t.Errorf("expected default sample rate 1.0, got %f", cfg.Trace.SampleRate)
	}
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
checker:
  path: /opt/lean/bin/lean
  args: ["-T100000", "--quiet"]
  timeout: 2m
  on_error: warn
prune:
  names: [my_helper]
  path_substrings: [init/meta]
  name_prefixes: [quot.]
  skip_defaults: true
graph:
  uri: bolt://localhost:7687
  username: neo4j
  password: secret
log:
  level: debug
  format: json
trace:
  otlp_endpoint: localhost:4317
  sample_rate: 0.25
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Checker.Path != "/opt/lean/bin/lean" || cfg.Checker.OnError != "warn" {
		t.Errorf("checker config lost: %+v", cfg.Checker)
	}
	if cfg.Checker.Timeout != 2*time.Minute {
		t.Errorf("expected 2m timeout, got %v", cfg.Checker.Timeout)
	}
	if len(cfg.Prune.Names) != 1 || !cfg.Prune.SkipDefaults {
		t.Errorf("prune config lost: %+v", cfg.Prune)
	}
	if cfg.Graph.URI != "bolt://localhost:7687" {
		t.Errorf("graph config lost: %+v", cfg.Graph)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log config lost: %+v", cfg.Log)
	}
	if cfg.Trace.OTLPEndpoint != "localhost:4317" || cfg.Trace.SampleRate != 0.25 {
		t.Errorf("trace config lost: %+v", cfg.Trace)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate_Warnings(t *testing.T) {
	cfg := &Config{}
	cfg.Checker.OnError = "explode"
	cfg.Checker.Timeout = -time.Second
	cfg.Trace.SampleRate = 2.0

	warnings := cfg.Validate()
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d: %v", len(warnings), warnings)
	}
}

func TestValidate_CleanConfig(t *testing.T) {
	cfg := &Config{}
	cfg.Checker.OnError = "warn"
	cfg.Trace.SampleRate = 0.5

	if warnings := cfg.Validate(); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}
