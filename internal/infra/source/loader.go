package source

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"charfreq/internal/config"
	"charfreq/internal/domain/entity"
	"charfreq/internal/observability/logging"
	"charfreq/internal/observability/metrics"
	"charfreq/internal/resilience/circuitbreaker"
	"charfreq/internal/resilience/retry"
)

const maxRedirects = 5

// Loader loads the text of a source. It is safe for concurrent use.
type Loader struct {
	cfg      config.FetchConfig
	client   *http.Client
	throttle *Throttle
	retry    retry.Config
	breakers map[entity.SourceKind]*circuitbreaker.CircuitBreaker
	baseDir  string
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the HTTP client. Its redirect policy is kept as is.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithBaseDir resolves relative file locations against dir.
func WithBaseDir(dir string) Option {
	return func(l *Loader) {
		l.baseDir = dir
	}
}

// NewLoader creates a Loader with the given fetch settings.
func NewLoader(cfg config.FetchConfig, opts ...Option) *Loader {
	l := &Loader{
		cfg:      cfg,
		throttle: NewThrottle(cfg.RequestsPerSecond, cfg.Burst),
		retry:    retry.SourceFetchConfig(cfg.Retry.MaxAttempts, cfg.Retry.InitialDelay),
		breakers: map[entity.SourceKind]*circuitbreaker.CircuitBreaker{},
	}
	for _, kind := range []entity.SourceKind{entity.KindURL, entity.KindHTML, entity.KindFeed} {
		l.breakers[kind] = circuitbreaker.New(circuitbreaker.SourceFetchConfig(string(kind)))
	}

	l.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: l.checkRedirect,
	}

	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the text of src. src must be valid.
func (l *Loader) Load(ctx context.Context, src entity.Source) (string, error) {
	start := time.Now()
	text, err := l.load(ctx, src)
	metrics.RecordSourceFetch(string(src.Kind), time.Since(start), len(text), err)
	if err != nil {
		return "", fmt.Errorf("load source %q: %w", src.Name, err)
	}
	return text, nil
}

func (l *Loader) load(ctx context.Context, src entity.Source) (string, error) {
	switch src.Kind {
	case entity.KindFile:
		return l.readFile(src.Location)
	case entity.KindURL:
		body, finalURL, err := l.fetch(ctx, src.Kind, src.Location)
		if err != nil {
			return "", err
		}
		return articleText(body, finalURL)
	case entity.KindHTML:
		body, _, err := l.fetch(ctx, src.Kind, src.Location)
		if err != nil {
			return "", err
		}
		return bodyText(body)
	case entity.KindFeed:
		body, _, err := l.fetch(ctx, src.Kind, src.Location)
		if err != nil {
			return "", err
		}
		return feedText(body)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, src.Kind)
	}
}

// readFile reads a local file whole, refusing files over the size limit.
func (l *Loader) readFile(location string) (string, error) {
	path := location
	if l.baseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.baseDir, path)
	}

	// #nosec G304 -- locations come from the operator's sources file
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := readLimited(f, l.cfg.MaxBodyBytes)
	if err != nil {
		return "", fmt.Errorf("read file %s: %w", path, err)
	}
	return string(data), nil
}

// fetch GETs rawURL and returns the body and the URL after redirects.
func (l *Loader) fetch(ctx context.Context, kind entity.SourceKind, rawURL string) ([]byte, *url.URL, error) {
	if err := l.checkURL(rawURL); err != nil {
		return nil, nil, err
	}

	breaker := l.breakers[kind]
	var (
		body     []byte
		finalURL *url.URL
	)
	err := retry.WithBackoff(ctx, l.retry, func() error {
		if err := l.throttle.Wait(ctx); err != nil {
			return err
		}
		err := breaker.Run(func() error {
			var err error
			body, finalURL, err = l.get(ctx, rawURL)
			return err
		})
		if circuitbreaker.IsRejected(err) {
			logging.FromContext(ctx).Warn("source fetch circuit breaker open, request rejected",
				slog.String("circuit", breaker.Name()),
				slog.String("url", rawURL))
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return body, finalURL, nil
}

func (l *Loader) get(ctx context.Context, rawURL string) ([]byte, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", l.cfg.UserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	body, err := readLimited(resp.Body, l.cfg.MaxBodyBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}
	return body, finalURL, nil
}

// checkURL rejects URLs pointing at private networks unless they are allowed.
func (l *Loader) checkURL(rawURL string) error {
	if l.cfg.AllowPrivateNetworks {
		return entity.ValidateURLSyntax(rawURL)
	}
	return entity.ValidateURL(rawURL)
}

func (l *Loader) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
	}
	if err := l.checkURL(req.URL.String()); err != nil {
		return fmt.Errorf("redirect target validation failed: %w", err)
	}
	return nil
}

// readLimited reads r whole, failing with ErrTooLarge past limit bytes.
// A non-positive limit means no limit.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}
