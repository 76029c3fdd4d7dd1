package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"charfreq/internal/pkg/config"
	"charfreq/pkg/charfreq"
)

// WorkerConfig holds the configuration of the tally worker.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//
// Example usage:
//
//	cfg, _ := LoadConfigFromEnv(logger, metrics)
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
type WorkerConfig struct {
	// CronSchedule is the five-field cron expression for tally runs.
	// Default: "*/30 * * * *"
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	// Default: "UTC"
	Timezone string

	// Threads is the number of counting goroutines per source.
	// 0 selects the available parallelism.
	// Range: 0-1024
	Threads int

	// CaseMode is the default case mode name for sources that do not set one.
	// Default: "insensitive-ascii"
	CaseMode string

	// TallyTimeout bounds one complete tally run.
	// Range: 1m-4h
	// Default: 10 minutes
	TallyTimeout time.Duration

	// HealthPort is the port of the health and metrics HTTP server.
	// Range: 1024-65535
	// Default: 9091
	HealthPort int

	// SourcesPath is the YAML file listing the sources to tally.
	// Default: "sources.yaml"
	SourcesPath string
}

// DefaultConfig returns a WorkerConfig with default values.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "*/30 * * * *",
		Timezone:     "UTC",
		Threads:      0,
		CaseMode:     charfreq.DefaultCaseMode.String(),
		TallyTimeout: 10 * time.Minute,
		HealthPort:   9091,
		SourcesPath:  "sources.yaml",
	}
}

// Mode returns the parsed case mode, or the default mode when CaseMode is
// not a known name.
func (c *WorkerConfig) Mode() charfreq.CaseMode {
	mode, err := charfreq.ParseCaseMode(c.CaseMode)
	if err != nil {
		return charfreq.DefaultCaseMode
	}
	return mode
}

// Validate checks every field and reports all problems together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateThreads(c.Threads); err != nil {
		errs = append(errs, fmt.Errorf("threads: %w", err))
	}
	if err := config.ValidateCaseMode(c.CaseMode); err != nil {
		errs = append(errs, fmt.Errorf("case mode: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.TallyTimeout); err != nil {
		errs = append(errs, fmt.Errorf("tally timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if c.SourcesPath == "" {
		errs = append(errs, errors.New("sources path: must not be empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration from the environment.
// Invalid values fall back to the defaults with a warning and a metric;
// the returned error is always nil.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression
//   - WORKER_TIMEZONE: IANA timezone name
//   - CHARFREQ_THREADS: integer 0-1024
//   - CHARFREQ_CASE: sensitive, insensitive-ascii or insensitive
//   - TALLY_TIMEOUT: duration string, 1m-4h
//   - WORKER_HEALTH_PORT: integer 1024-65535
//   - SOURCES_FILE: path of the sources YAML file
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	apply := func(field string, result config.ConfigLoadResult) {
		if result.FallbackApplied {
			fallbackApplied = true
		}
		for _, warning := range metrics.Apply(field, result) {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	apply("cron_schedule", result)

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	apply("timezone", result)

	result = config.LoadEnvInt("CHARFREQ_THREADS", cfg.Threads, config.ValidateThreads)
	cfg.Threads = result.Value.(int)
	apply("threads", result)

	result = config.LoadEnvWithFallback("CHARFREQ_CASE", cfg.CaseMode, config.ValidateCaseMode)
	cfg.CaseMode = result.Value.(string)
	apply("case_mode", result)

	result = config.LoadEnvDuration("TALLY_TIMEOUT", cfg.TallyTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 4*time.Hour)
	})
	cfg.TallyTimeout = result.Value.(time.Duration)
	apply("tally_timeout", result)

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	apply("health_port", result)

	cfg.SourcesPath = config.LoadEnvString("SOURCES_FILE", cfg.SourcesPath)

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
