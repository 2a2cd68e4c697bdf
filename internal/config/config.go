package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DefaultRequestCount = 500
	DefaultRepeatCount  = 10
	ProgramName         = "sweepfire"
)

type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatText OutputFormat = "text"
)

type Config struct {
	Method       string            `mapstructure:"method"`
	TargetURL    string            `mapstructure:"target"`
	RequestCount int               `mapstructure:"request_count"`
	RepeatCount  int               `mapstructure:"repeat_count"`
	Headers      map[string]string `mapstructure:"headers"`
	Timeout      time.Duration     `mapstructure:"timeout"`
	Rate         int               `mapstructure:"rate"`
	Format       OutputFormat      `mapstructure:"format"`
	OutputFile   string            `mapstructure:"output"`
	HTMLOutput   string            `mapstructure:"html_output"`
	Dashboard    bool              `mapstructure:"dashboard"`
	Progress     bool              `mapstructure:"progress"`
	LogErrors    bool              `mapstructure:"log_errors"`
	LogLevel     string            `mapstructure:"log_level"`
	ConfigFile   string            `mapstructure:"-"`
	Tracing      TracingConfig     `mapstructure:"tracing"`
}

// TracingConfig configures OpenTelemetry export of trial and request spans.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	ServiceName string  `mapstructure:"service_name"`
	Propagate   *bool   `mapstructure:"propagate"` // nil means propagate when enabled
}

// Enabled reports whether spans should be exported.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// ShouldPropagate reports whether W3C trace headers are injected into requests.
func (t TracingConfig) ShouldPropagate() bool {
	if !t.Enabled() {
		return false
	}
	return t.Propagate == nil || *t.Propagate
}

// UsageError is returned when the positional argument count is outside [2, 4].
type UsageError struct {
	Got int
}

func (e UsageError) Error() string {
	return fmt.Sprintf("expected 2 to 4 arguments, got %d", e.Got)
}

// Usage returns the one-line usage message printed on a UsageError.
func Usage() string {
	return fmt.Sprintf("Usage: %s method url [request_count [repeat_count]]", ProgramName)
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

	if strings.TrimSpace(c.Method) == "" {
		issues = append(issues, "method is required")
	}
	if strings.TrimSpace(c.TargetURL) == "" {
		issues = append(issues, "url is required")
	}
	if c.RequestCount < 1 {
		issues = append(issues, "request_count must be >= 1")
	}
	if c.RepeatCount < 1 {
		issues = append(issues, "repeat_count must be >= 1")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must be >= 0")
	}
	switch c.Format {
	case FormatJSON, FormatYAML, FormatText:
	default:
		issues = append(issues, fmt.Sprintf("format %q is not supported (json, yaml, text)", c.Format))
	}
	if c.Dashboard && c.Progress {
		issues = append(issues, "dashboard and progress are mutually exclusive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		issues = append(issues, fmt.Sprintf("log level %q is not supported", c.LogLevel))
	}

	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if c.Rate > 1000 {
		fmt.Fprintf(os.Stderr, "WARNING: High rate limit configured (%d RPS). Ensure you have authorization to test the target system.\n", c.Rate)
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateTracingConfig(t TracingConfig) []string {
	var issues []string
	switch strings.ToLower(t.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing protocol %q is not supported (grpc, http)", t.Protocol))
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		issues = append(issues, fmt.Sprintf("tracing sample_rate must be between 0.0 and 1.0, got %g", t.SampleRate))
	}
	return issues
}
