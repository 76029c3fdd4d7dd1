// Package config loads the worker's sources file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"charfreq/internal/domain/entity"
)

// Fetch defaults applied when the sources file leaves a field empty.
const (
	DefaultFetchTimeout       = 30 * time.Second
	DefaultMaxBodyBytes       = 10 << 20 // 10MB
	DefaultUserAgent          = "charfreq/1.0 (+https://github.com/charfreq)"
	DefaultRequestsPerSecond  = 2.0
	DefaultBurst              = 1
	DefaultRetryAttempts      = 3
	DefaultRetryInitialDelay  = 500 * time.Millisecond
	maxSourcesFileSize        = 1 << 20
	maxRetryAttemptsSupported = 10
)

// SourcesConfig is the parsed sources file.
type SourcesConfig struct {
	Fetch   FetchConfig     `yaml:"fetch"`
	Sources []entity.Source `yaml:"sources"`
}

// FetchConfig holds the settings for network sources.
type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	UserAgent    string        `yaml:"user_agent"`
	// RequestsPerSecond throttles all network fetches of one worker.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	// AllowPrivateNetworks disables the private address check. Local testing only.
	AllowPrivateNetworks bool        `yaml:"allow_private_networks"`
	Retry                RetryConfig `yaml:"retry"`
}

// RetryConfig controls retries of failed network fetches.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
}

// DefaultFetchConfig returns the fetch settings used for empty fields.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Timeout:           DefaultFetchTimeout,
		MaxBodyBytes:      DefaultMaxBodyBytes,
		UserAgent:         DefaultUserAgent,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Burst:             DefaultBurst,
		Retry: RetryConfig{
			MaxAttempts:  DefaultRetryAttempts,
			InitialDelay: DefaultRetryInitialDelay,
		},
	}
}

// LoadSourcesConfig reads and validates a sources file.
// The path is expected to come from a trusted source (flag or environment).
func LoadSourcesConfig(path string) (*SourcesConfig, error) {
	// #nosec G304 -- path is provided by the operator, not by remote input
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxSourcesFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	if len(data) > maxSourcesFileSize {
		return nil, fmt.Errorf("sources file exceeds %d bytes", maxSourcesFileSize)
	}
	return ParseSourcesConfig(data)
}

// ParseSourcesConfig parses and validates sources file content.
// Unknown fields are rejected so that typos do not pass silently.
func ParseSourcesConfig(data []byte) (*SourcesConfig, error) {
	cfg := SourcesConfig{Fetch: DefaultFetchConfig()}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	cfg.Fetch.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sources file validation failed: %w", err)
	}
	return &cfg, nil
}

// applyDefaults fills fields that an explicit zero in the file cleared.
func (f *FetchConfig) applyDefaults() {
	def := DefaultFetchConfig()
	if f.Timeout == 0 {
		f.Timeout = def.Timeout
	}
	if f.MaxBodyBytes == 0 {
		f.MaxBodyBytes = def.MaxBodyBytes
	}
	if f.UserAgent == "" {
		f.UserAgent = def.UserAgent
	}
	if f.RequestsPerSecond == 0 {
		f.RequestsPerSecond = def.RequestsPerSecond
	}
	if f.Burst == 0 {
		f.Burst = def.Burst
	}
	if f.Retry.MaxAttempts == 0 {
		f.Retry.MaxAttempts = def.Retry.MaxAttempts
	}
	if f.Retry.InitialDelay == 0 {
		f.Retry.InitialDelay = def.Retry.InitialDelay
	}
}

// Validate checks the fetch settings and every source, and rejects
// duplicate source names. All problems are reported together.
func (c *SourcesConfig) Validate() error {
	var errs []error

	if c.Fetch.Timeout < 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must be positive, got %v", c.Fetch.Timeout))
	}
	if c.Fetch.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("fetch.max_body_bytes must be positive, got %d", c.Fetch.MaxBodyBytes))
	}
	if c.Fetch.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("fetch.requests_per_second must be positive, got %v", c.Fetch.RequestsPerSecond))
	}
	if c.Fetch.Burst < 0 {
		errs = append(errs, fmt.Errorf("fetch.burst must be positive, got %d", c.Fetch.Burst))
	}
	if c.Fetch.Retry.MaxAttempts < 0 || c.Fetch.Retry.MaxAttempts > maxRetryAttemptsSupported {
		errs = append(errs, fmt.Errorf("fetch.retry.max_attempts must be between 1 and %d, got %d",
			maxRetryAttemptsSupported, c.Fetch.Retry.MaxAttempts))
	}
	if c.Fetch.Retry.InitialDelay < 0 {
		errs = append(errs, fmt.Errorf("fetch.retry.initial_delay must be positive, got %v", c.Fetch.Retry.InitialDelay))
	}

	if len(c.Sources) == 0 {
		errs = append(errs, errors.New("at least one source is required"))
	}
	seen := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		src := &c.Sources[i]
		if err := src.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("sources[%d]: %w", i, err))
			continue
		}
		if seen[src.Name] {
			errs = append(errs, fmt.Errorf("sources[%d]: duplicate source name %q", i, src.Name))
		}
		seen[src.Name] = true
	}

	return errors.Join(errs...)
}

// Source returns the source with the given name.
func (c *SourcesConfig) Source(name string) (entity.Source, error) {
	for _, src := range c.Sources {
		if src.Name == name {
			return src, nil
		}
	}
	return entity.Source{}, fmt.Errorf("source %q: %w", name, entity.ErrNotFound)
}
