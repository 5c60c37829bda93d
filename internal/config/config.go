package config

import (
	"fmt"
	"strings"

	"github.com/torosent/arithbench/internal/threshold"
)

// DefaultHowmany is the number of operand pairs generated per precision.
const DefaultHowmany = 1_000_000

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type Config struct {
	Howmany    int           `mapstructure:"howmany"`
	Format     Format        `mapstructure:"format"`
	Thresholds []string      `mapstructure:"thresholds"`
	Baseline   string        `mapstructure:"baseline"`
	LockFile   string        `mapstructure:"lock_file"`
	LogLevel   string        `mapstructure:"log_level"`
	ConfigFile string        `mapstructure:"-"`
	Tracing    TracingConfig `mapstructure:"tracing"`
}

// TracingConfig selects the OTLP exporter for measurement spans.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`     // host:port; empty disables export
	Protocol    string  `mapstructure:"protocol"`     // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"` // defaults to OTEL_SERVICE_NAME, then "arithbench"
	SampleRate  float64 `mapstructure:"sample_rate"`  // 0.0 - 1.0
	Insecure    bool    `mapstructure:"insecure"`
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if c.Howmany < 0 {
		issues = append(issues, "howmany must be >= 0")
	}

	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		issues = append(issues, fmt.Sprintf("format %q is not supported (use text, json or yaml)", c.Format))
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		issues = append(issues, fmt.Sprintf("log level %q is not supported", c.LogLevel))
	}

	if _, err := threshold.ParseMultiple(c.Thresholds); err != nil {
		issues = append(issues, err.Error())
	}

	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateTracingConfig(tc TracingConfig) []string {
	var issues []string
	switch strings.ToLower(tc.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing protocol %q is not supported (use grpc or http)", tc.Protocol))
	}
	if tc.SampleRate < 0 || tc.SampleRate > 1 {
		issues = append(issues, "tracing sample_rate must be between 0.0 and 1.0")
	}
	return issues
}
