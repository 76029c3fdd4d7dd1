package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"charfreq/internal/observability/tracing"
	"charfreq/internal/pkg/config"
	"charfreq/pkg/charfreq"
)

const defaultMetricsPort = 9090

// HealthResponse represents a simple health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// startMetricsServer starts the Prometheus metrics HTTP server in the
// background and shuts it down when ctx is canceled.
//
// Endpoints:
//   - GET /metrics: application metrics from the default registry plus the
//     counter's own registry
//   - GET /health: liveness probe
//
// Environment variables:
//   - METRICS_PORT: port to listen on (default: 9090)
func startMetricsServer(ctx context.Context, logger *slog.Logger, counterMetrics *charfreq.PrometheusMetrics) *http.Server {
	port := getMetricsPort(logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      metricsHandler(counterMetrics),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Info("metrics server shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
		} else {
			logger.Info("metrics server stopped")
		}
	}()

	return server
}

// metricsHandler serves the merged registries and the liveness probe.
func metricsHandler(counterMetrics *charfreq.PrometheusMetrics) http.Handler {
	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer}
	if counterMetrics != nil {
		gatherers = append(gatherers, counterMetrics.Registry())
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", healthHandler)
	return tracing.Middleware("metrics", mux)
}

// getMetricsPort reads METRICS_PORT, falling back to 9090 on invalid values.
func getMetricsPort(logger *slog.Logger) int {
	result := config.LoadEnvInt("METRICS_PORT", defaultMetricsPort, func(v int) error {
		return config.ValidateIntRange(v, 1, 65535)
	})
	for _, warning := range result.Warnings {
		logger.Warn("Configuration fallback applied",
			slog.String("field", "MetricsPort"),
			slog.String("warning", warning))
	}
	return result.Value.(int)
}

// healthHandler handles GET /health requests (liveness probe).
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthResponse{Status: "healthy"})
}
