package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"charfreq/internal/config"
	pgRepo "charfreq/internal/infra/adapter/persistence/postgres"
	"charfreq/internal/infra/db"
	"charfreq/internal/infra/source"
	workerPkg "charfreq/internal/infra/worker"
	"charfreq/internal/observability/logging"
	"charfreq/internal/observability/metrics"
	"charfreq/internal/observability/tracing"
	"charfreq/internal/repository"
	"charfreq/internal/usecase/tally"
	"charfreq/pkg/charfreq"
)

const poolStatsInterval = 30 * time.Second

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer := tracing.InitTracer("charfreq-worker")
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shut down tracer", slog.Any("error", err))
		}
	}()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("threads", workerConfig.Threads),
		slog.String("case_mode", workerConfig.CaseMode),
		slog.Duration("tally_timeout", workerConfig.TallyTimeout),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.String("sources_file", workerConfig.SourcesPath))

	sourcesConfig, err := config.LoadSourcesConfig(workerConfig.SourcesPath)
	if err != nil {
		logger.Error("failed to load sources", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.UpdateSourcesConfigured(len(sourcesConfig.Sources))
	logger.Info("sources loaded", slog.Int("count", len(sourcesConfig.Sources)))

	counterMetrics := charfreq.NewPrometheusMetrics()
	startMetricsServer(ctx, logger, counterMetrics)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	database, repo := initDatabase(ctx, logger)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
		go db.ReportPoolStats(ctx, database, poolStatsInterval)
	}

	svc := setupTallyService(logger, workerConfig, sourcesConfig, counterMetrics, repo)
	job := &workerPkg.TallyJob{
		Runner:  svc,
		Sources: sourcesConfig.Sources,
		Timeout: workerConfig.TallyTimeout,
		Metrics: workerMetrics,
		Logger:  logger,
	}

	runCronWorker(ctx, logger, job, workerConfig, healthServer)
}

// initDatabase opens Postgres when DATABASE_URL is set and applies the
// schema. Without it the worker counts and logs but stores nothing.
func initDatabase(ctx context.Context, logger *slog.Logger) (*sql.DB, repository.SnapshotRepository) {
	database, err := db.Open(ctx)
	if errors.Is(err, db.ErrNoDSN) {
		logger.Info("DATABASE_URL not set, snapshots will not be stored")
		return nil, nil
	}
	if err != nil {
		logger.Error("failed to open database", slog.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}

	if err := db.MigrateUp(ctx, database); err != nil {
		_ = database.Close()
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("snapshot storage enabled")
	return database, pgRepo.NewSnapshotRepo(database)
}

// setupTallyService wires the source loader, the counter and the optional
// repository.
func setupTallyService(
	logger *slog.Logger,
	cfg *workerPkg.WorkerConfig,
	sources *config.SourcesConfig,
	counterMetrics charfreq.Metrics,
	repo repository.SnapshotRepository,
) *tally.Service {
	baseDir := filepath.Dir(cfg.SourcesPath)
	loader := source.NewLoader(sources.Fetch, source.WithBaseDir(baseDir))

	counter := charfreq.NewCounter(
		charfreq.WithThreads(cfg.Threads),
		charfreq.WithCaseMode(cfg.Mode()),
		charfreq.WithMetrics(counterMetrics),
		charfreq.WithLogger(logger),
	)

	logger.Info("tally service initialized",
		slog.String("base_dir", baseDir),
		slog.Int("threads", counter.Threads()),
		slog.String("case_mode", counter.CaseMode().String()),
		slog.Bool("store", repo != nil))

	return tally.NewService(loader, counter, repo, cfg.Threads, cfg.Mode())
}

// runCronWorker schedules the tally job and blocks until ctx is canceled.
func runCronWorker(ctx context.Context, logger *slog.Logger, job *workerPkg.TallyJob, cfg *workerPkg.WorkerConfig, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		_ = job.Run(ctx)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	logger.Info("shutdown signal received")
	healthServer.SetReady(false)

	// Wait for a running tally to finish.
	<-c.Stop().Done()
	logger.Info("worker stopped")
}
