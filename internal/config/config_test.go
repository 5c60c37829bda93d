package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/torosent/arithbench/internal/config"
)

func TestParseFlagsDefaults(t *testing.T) {
	loader := config.NewLoader()

	cfg, err := loader.Load([]string{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Howmany != config.DefaultHowmany {
		t.Errorf("Howmany = %d, want %d", cfg.Howmany, config.DefaultHowmany)
	}
	if cfg.Format != config.FormatText {
		t.Errorf("Format = %q, want text", cfg.Format)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if len(cfg.Thresholds) != 0 {
		t.Errorf("Thresholds = %v, want none", cfg.Thresholds)
	}
	if cfg.Tracing.Endpoint != "" || cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("Tracing = %+v, want disabled with full sampling", cfg.Tracing)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestPositionalHowmany(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{"2500"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Howmany != 2500 {
		t.Errorf("Howmany = %d, want 2500", cfg.Howmany)
	}

	zero, err := config.NewLoader().Load([]string{"0"})
	if err != nil {
		t.Fatalf("Load(0) error = %v", err)
	}
	if zero.Howmany != 0 {
		t.Errorf("Howmany = %d, want 0", zero.Howmany)
	}
}

func TestPositionalHowmanyErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"not a number", []string{"lots"}},
		{"too many", []string{"10", "20"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.NewLoader().Load(tt.args); err == nil {
				t.Fatalf("Load(%v) expected error", tt.args)
			}
		})
	}
}

func TestHelpRequested(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--help"})
	if !errors.Is(err, config.ErrHelpRequested) {
		t.Fatalf("Load(--help) error = %v, want ErrHelpRequested", err)
	}
}

func TestLoadConfigFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arithbench.yaml")
	if err := os.WriteFile(path, []byte(`
howmany: 4096
format: json
thresholds:
  - "double_add:ns < 3"
  - "*:ipc > 0.5"
baseline: previous.json
tracing:
  endpoint: localhost:4318
  protocol: http
  sample_rate: 0.25
`), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path, "--format", "yaml", "512"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Howmany != 512 {
		t.Errorf("Howmany = %d, want positional 512 to win over file", cfg.Howmany)
	}
	if cfg.Format != config.FormatYAML {
		t.Errorf("Format = %q, want flag value yaml", cfg.Format)
	}
	if len(cfg.Thresholds) != 2 {
		t.Errorf("Thresholds = %v, want 2 entries", cfg.Thresholds)
	}
	if cfg.Baseline != "previous.json" {
		t.Errorf("Baseline = %q, want previous.json", cfg.Baseline)
	}
	if cfg.Tracing.Protocol != "http" || cfg.Tracing.SampleRate != 0.25 {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfigFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arithbench.json")
	if err := os.WriteFile(path, []byte(`{"howmany": 64, "lockFile": "bench.lock", "logLevel": "debug"}`), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Howmany != 64 {
		t.Errorf("Howmany = %d, want 64", cfg.Howmany)
	}
	if cfg.LockFile != "bench.lock" {
		t.Errorf("LockFile = %q, want bench.lock", cfg.LockFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateCollectsIssues(t *testing.T) {
	cfg := config.Config{
		Howmany:    -1,
		Format:     "xml",
		LogLevel:   "chatty",
		Thresholds: []string{"not a threshold"},
		Tracing:    config.TracingConfig{Protocol: "thrift", SampleRate: 2},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	var verr config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if got := len(verr.Issues()); got != 6 {
		t.Errorf("Issues() = %d entries, want 6: %v", got, verr.Issues())
	}
	if !strings.Contains(err.Error(), "howmany must be >= 0") {
		t.Errorf("error %q missing howmany issue", err)
	}
}

func TestThresholdFlagReplacesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arithbench.yaml")
	if err := os.WriteFile(path, []byte(`
thresholds:
  - "double_add:ns < 3"
  - "*:ipc > 0.5"
`), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path, "--threshold", "float_divide:ns < 9"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Thresholds) != 1 || cfg.Thresholds[0] != "float_divide:ns < 9" {
		t.Errorf("Thresholds = %v, want only the flag value", cfg.Thresholds)
	}
}
