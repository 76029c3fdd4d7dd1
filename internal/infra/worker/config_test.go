package worker

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charfreq/pkg/charfreq"
)

var workerEnvKeys = []string{
	"CRON_SCHEDULE",
	"WORKER_TIMEZONE",
	"CHARFREQ_THREADS",
	"CHARFREQ_CASE",
	"TALLY_TIMEOUT",
	"WORKER_HEALTH_PORT",
	"SOURCES_FILE",
}

// clearWorkerEnv unsets every worker variable for the duration of the test.
func clearWorkerEnv(t *testing.T) {
	t.Helper()
	for _, key := range workerEnvKeys {
		t.Setenv(key, "")
	}
}

func newTestMetrics() *WorkerMetrics {
	return NewWorkerMetricsWith(prometheus.NewRegistry())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "*/30 * * * *", cfg.CronSchedule)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 0, cfg.Threads)
	assert.Equal(t, "insensitive-ascii", cfg.CaseMode)
	assert.Equal(t, 10*time.Minute, cfg.TallyTimeout)
	assert.Equal(t, 9091, cfg.HealthPort)
	assert.Equal(t, "sources.yaml", cfg.SourcesPath)
	assert.NoError(t, cfg.Validate())
}

func TestWorkerConfig_Mode(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, charfreq.InsensitiveASCIIOnly, cfg.Mode())

	cfg.CaseMode = "Sensitive"
	assert.Equal(t, charfreq.Sensitive, cfg.Mode())

	cfg.CaseMode = "upper"
	assert.Equal(t, charfreq.DefaultCaseMode, cfg.Mode())
}

func TestWorkerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*WorkerConfig)
		wantErr string
	}{
		{name: "defaults", modify: func(*WorkerConfig) {}},
		{name: "max threads", modify: func(c *WorkerConfig) { c.Threads = 1024 }},
		{name: "full unicode folding", modify: func(c *WorkerConfig) { c.CaseMode = "insensitive" }},
		{name: "empty cron", modify: func(c *WorkerConfig) { c.CronSchedule = "" }, wantErr: "cron schedule"},
		{name: "six-field cron", modify: func(c *WorkerConfig) { c.CronSchedule = "0 0 5 * * *" }, wantErr: "cron schedule"},
		{name: "unknown timezone", modify: func(c *WorkerConfig) { c.Timezone = "Mars/Olympus" }, wantErr: "timezone"},
		{name: "negative threads", modify: func(c *WorkerConfig) { c.Threads = -1 }, wantErr: "threads"},
		{name: "too many threads", modify: func(c *WorkerConfig) { c.Threads = 1025 }, wantErr: "threads"},
		{name: "unknown case mode", modify: func(c *WorkerConfig) { c.CaseMode = "upper" }, wantErr: "case mode"},
		{name: "zero timeout", modify: func(c *WorkerConfig) { c.TallyTimeout = 0 }, wantErr: "tally timeout"},
		{name: "privileged port", modify: func(c *WorkerConfig) { c.HealthPort = 80 }, wantErr: "health port"},
		{name: "empty sources path", modify: func(c *WorkerConfig) { c.SourcesPath = "" }, wantErr: "sources path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorkerConfig_Validate_ReportsAllErrors(t *testing.T) {
	cfg := WorkerConfig{Threads: -1, HealthPort: 1}

	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"cron schedule", "timezone", "threads", "case mode", "tally timeout", "health port", "sources path"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	clearWorkerEnv(t)
	var buf bytes.Buffer
	metrics := newTestMetrics()

	cfg, err := LoadConfigFromEnv(slog.New(slog.NewJSONHandler(&buf, nil)), metrics)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), *cfg)
	assert.Empty(t, buf.String())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.FallbackActive))
	assert.Greater(t, testutil.ToFloat64(metrics.LoadTimestamp), 0.0)
}

func TestLoadConfigFromEnv_AllValid(t *testing.T) {
	clearWorkerEnv(t)
	t.Setenv("CRON_SCHEDULE", "0 6 * * *")
	t.Setenv("WORKER_TIMEZONE", "UTC")
	t.Setenv("CHARFREQ_THREADS", "8")
	t.Setenv("CHARFREQ_CASE", "sensitive")
	t.Setenv("TALLY_TIMEOUT", "1h")
	t.Setenv("WORKER_HEALTH_PORT", "8080")
	t.Setenv("SOURCES_FILE", "/etc/charfreq/sources.yaml")

	var buf bytes.Buffer
	cfg, err := LoadConfigFromEnv(slog.New(slog.NewJSONHandler(&buf, nil)), newTestMetrics())
	require.NoError(t, err)

	assert.Equal(t, WorkerConfig{
		CronSchedule: "0 6 * * *",
		Timezone:     "UTC",
		Threads:      8,
		CaseMode:     "sensitive",
		TallyTimeout: time.Hour,
		HealthPort:   8080,
		SourcesPath:  "/etc/charfreq/sources.yaml",
	}, *cfg)
	assert.Empty(t, buf.String(), "no warnings expected")
}

func TestLoadConfigFromEnv_Fallbacks(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
		check func(t *testing.T, cfg *WorkerConfig)
	}{
		{
			name: "invalid cron", key: "CRON_SCHEDULE", value: "every hour", field: "cron_schedule",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, "*/30 * * * *", cfg.CronSchedule) },
		},
		{
			name: "invalid timezone", key: "WORKER_TIMEZONE", value: "Mars/Olympus", field: "timezone",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, "UTC", cfg.Timezone) },
		},
		{
			name: "non-numeric threads", key: "CHARFREQ_THREADS", value: "many", field: "threads",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, 0, cfg.Threads) },
		},
		{
			name: "threads out of range", key: "CHARFREQ_THREADS", value: "5000", field: "threads",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, 0, cfg.Threads) },
		},
		{
			name: "unknown case mode", key: "CHARFREQ_CASE", value: "title", field: "case_mode",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, "insensitive-ascii", cfg.CaseMode) },
		},
		{
			name: "timeout too short", key: "TALLY_TIMEOUT", value: "30s", field: "tally_timeout",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, 10*time.Minute, cfg.TallyTimeout) },
		},
		{
			name: "malformed timeout", key: "TALLY_TIMEOUT", value: "soon", field: "tally_timeout",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, 10*time.Minute, cfg.TallyTimeout) },
		},
		{
			name: "privileged port", key: "WORKER_HEALTH_PORT", value: "443", field: "health_port",
			check: func(t *testing.T, cfg *WorkerConfig) { assert.Equal(t, 9091, cfg.HealthPort) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearWorkerEnv(t)
			t.Setenv(tt.key, tt.value)

			var buf bytes.Buffer
			metrics := newTestMetrics()
			cfg, err := LoadConfigFromEnv(slog.New(slog.NewJSONHandler(&buf, nil)), metrics)
			require.NoError(t, err)
			require.NotNil(t, cfg)

			tt.check(t, cfg)
			assert.NoError(t, cfg.Validate())
			assert.Contains(t, buf.String(), "Configuration fallback applied")
			assert.Contains(t, buf.String(), tt.key)
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues(tt.field)))
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues(tt.field, "invalid_value")))
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FallbackActive))
		})
	}
}

func TestLoadConfigFromEnv_FallbackKeepsValidFields(t *testing.T) {
	clearWorkerEnv(t)
	t.Setenv("CRON_SCHEDULE", "bad")
	t.Setenv("CHARFREQ_THREADS", "4")

	var buf bytes.Buffer
	cfg, err := LoadConfigFromEnv(slog.New(slog.NewJSONHandler(&buf, nil)), newTestMetrics())
	require.NoError(t, err)

	assert.Equal(t, "*/30 * * * *", cfg.CronSchedule)
	assert.Equal(t, 4, cfg.Threads)
}
