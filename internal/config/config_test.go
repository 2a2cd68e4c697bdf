package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torosent/sweepfire/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{"get", "http://localhost/ping"})
	require.NoError(t, err)

	assert.Equal(t, "GET", cfg.Method)
	assert.Equal(t, "http://localhost/ping", cfg.TargetURL)
	assert.Equal(t, 500, cfg.RequestCount)
	assert.Equal(t, 10, cfg.RepeatCount)
	assert.Equal(t, config.FormatJSON, cfg.Format)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Tracing.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadPositionalCounts(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{"post", "http://localhost/ping", "100", "2"})
	require.NoError(t, err)
	assert.Equal(t, "POST", cfg.Method)
	assert.Equal(t, 100, cfg.RequestCount)
	assert.Equal(t, 2, cfg.RepeatCount)

	cfg, err = config.NewLoader().Load([]string{"GET", "http://localhost/ping", "100"})
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.RequestCount)
	assert.Equal(t, 10, cfg.RepeatCount)
}

func TestLoadArgumentCount(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"zero", nil, true},
		{"one", []string{"GET"}, true},
		{"two", []string{"GET", "http://h/"}, false},
		{"three", []string{"GET", "http://h/", "5"}, false},
		{"four", []string{"GET", "http://h/", "5", "1"}, false},
		{"five", []string{"GET", "http://h/", "5", "1", "x"}, true},
		{"six", []string{"GET", "http://h/", "5", "1", "x", "y"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.NewLoader().Load(tt.args)
			var usageErr config.UsageError
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.As(err, &usageErr), "expected UsageError, got %v", err)
				assert.Equal(t, len(tt.args), usageErr.Got)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadFlagsInterspersedWithPositionals(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{
		"--format", "yaml", "GET", "http://h/", "--timeout=2s", "20",
	})
	require.NoError(t, err)
	assert.Equal(t, config.FormatYAML, cfg.Format)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 20, cfg.RequestCount)
}

func TestLoadNegativeCountIsValidationError(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"request count", []string{"GET", "http://h/", "-5"}, "request_count must be >= 1"},
		{"repeat count", []string{"GET", "http://h/", "10", "-1"}, "repeat_count must be >= 1"},
		{"after flag", []string{"--format", "text", "GET", "http://h/", "-5"}, "request_count must be >= 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.NewLoader().Load(tt.args)
			require.NoError(t, err)
			assert.Equal(t, "http://h/", cfg.TargetURL)

			err = cfg.Validate()
			var vErr config.ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadNegativeFlagValueStaysWithFlag(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{"GET", "http://h/", "--rate", "-3", "20"})
	require.NoError(t, err)
	assert.Equal(t, -3, cfg.Rate)
	assert.Equal(t, 20, cfg.RequestCount)
}

func TestTracingShouldPropagate(t *testing.T) {
	off := false
	on := true
	tests := []struct {
		name string
		cfg  config.TracingConfig
		want bool
	}{
		{"disabled", config.TracingConfig{}, false},
		{"enabled default", config.TracingConfig{Endpoint: "localhost:4317"}, true},
		{"enabled explicit on", config.TracingConfig{Endpoint: "localhost:4317", Propagate: &on}, true},
		{"enabled explicit off", config.TracingConfig{Endpoint: "localhost:4317", Propagate: &off}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
			assert.Equal(t, tt.want, tt.cfg.ShouldPropagate())
		})
	}
}

func TestLoadHelp(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--help"})
	assert.ErrorIs(t, err, config.ErrHelpRequested)
}

func TestLoadConfigFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
request_count: 40
repeat_count: 3
timeout: 1s
format: text
headers:
  x-bench: sweep
tracing:
  endpoint: localhost:4317
  insecure: true
`), 0o644))

	cfg, err := config.NewLoader().Load([]string{"--config", path, "GET", "http://h/"})
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.RequestCount)
	assert.Equal(t, 3, cfg.RepeatCount)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.Equal(t, "sweep", cfg.Headers["X-Bench"])
	assert.True(t, cfg.Tracing.Enabled())
	assert.True(t, cfg.Tracing.Insecure)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoadPositionalBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"request_count": 40, "repeat_count": 3}`), 0o644))

	cfg, err := config.NewLoader().Load([]string{"--config", path, "GET", "http://h/", "7"})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.RequestCount)
	assert.Equal(t, 3, cfg.RepeatCount)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("SWEEPFIRE_FORMAT", "text")
	t.Setenv("SWEEPFIRE_TIMEOUT", "3s")
	t.Setenv("SWEEPFIRE_TRACING_SERVICE_NAME", "bench")

	cfg, err := config.NewLoader().Load([]string{"GET", "http://h/"})
	require.NoError(t, err)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "bench", cfg.Tracing.ServiceName)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "GET", "http://h/"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		Method:       "GET",
		TargetURL:    "http://h/",
		RequestCount: 1,
		RepeatCount:  1,
		Format:       config.FormatJSON,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   string
	}{
		{"empty method", func(c *config.Config) { c.Method = " " }, "method is required"},
		{"empty url", func(c *config.Config) { c.TargetURL = "" }, "url is required"},
		{"zero requests", func(c *config.Config) { c.RequestCount = 0 }, "request_count must be >= 1"},
		{"negative repeats", func(c *config.Config) { c.RepeatCount = -1 }, "repeat_count must be >= 1"},
		{"negative timeout", func(c *config.Config) { c.Timeout = -time.Second }, "timeout must be >= 0"},
		{"bad format", func(c *config.Config) { c.Format = "xml" }, "format \"xml\""},
		{"dashboard and progress", func(c *config.Config) { c.Dashboard = true; c.Progress = true }, "mutually exclusive"},
		{"bad log level", func(c *config.Config) { c.LogLevel = "loud" }, "log level"},
		{"bad sample rate", func(c *config.Config) { c.Tracing.SampleRate = 2 }, "sample_rate"},
		{"bad tracing protocol", func(c *config.Config) { c.Tracing.Protocol = "udp" }, "tracing protocol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			var vErr config.ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q does not contain %q", err, tt.want)
		})
	}
}

func TestUsageMessage(t *testing.T) {
	assert.Equal(t, "Usage: sweepfire method url [request_count [repeat_count]]", config.Usage())
}
