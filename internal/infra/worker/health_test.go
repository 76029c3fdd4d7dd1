package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charfreq/internal/observability/tracing"
)

func newTestHealthServer(addr string) *HealthServer {
	return NewHealthServer(addr, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func probe(t *testing.T, h http.Handler, path string) (int, healthResponse, http.Header) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body, rec.Header()
}

func TestHealthServer_Liveness(t *testing.T) {
	server := newTestHealthServer(":0")

	code, body, header := probe(t, server.Handler(), "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "application/json", header.Get("Content-Type"))
}

func TestHealthServer_Readiness_Transition(t *testing.T) {
	server := newTestHealthServer(":0")
	h := server.Handler()

	code, body, _ := probe(t, h, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", body.Status)

	server.SetReady(true)
	code, body, _ = probe(t, h, "/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)

	server.SetReady(false)
	code, _, _ = probe(t, h, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestHealthServer_LivenessIgnoresReadiness(t *testing.T) {
	server := newTestHealthServer(":0")

	code, _, _ := probe(t, server.Handler(), "/health")

	assert.Equal(t, http.StatusOK, code)
}

func TestHealthServer_TraceHeader(t *testing.T) {
	shutdown := tracing.InitTracer("worker-test")
	t.Cleanup(func() { _ = shutdown(context.Background()) })
	server := newTestHealthServer(":0")

	_, _, header := probe(t, server.Handler(), "/health")

	assert.Len(t, header.Get(tracing.TraceIDHeader), 32)
}

func TestHealthServer_GracefulShutdown(t *testing.T) {
	server := newTestHealthServer("localhost:19095")
	ctx, cancel := context.WithCancel(context.Background())

	errChan := make(chan error, 1)
	go func() { errChan <- server.Start(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://localhost:19095/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-errChan:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(10 * time.Second):
		t.Fatal("shutdown timeout")
	}

	_, err := http.Get("http://localhost:19095/health")
	assert.Error(t, err, "server still accepting connections after shutdown")
}

func TestNewHealthServer(t *testing.T) {
	server := newTestHealthServer(":9091")

	assert.Equal(t, ":9091", server.addr)
	require.NotNil(t, server.isReady)
	assert.False(t, server.isReady.Load())
}
