package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/payroll/internal/adapter/http"
	"github.com/iho/payroll/internal/adapter/http/handler"
	"github.com/iho/payroll/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/payroll/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/payroll/internal/adapter/repository/redis"
	"github.com/iho/payroll/internal/infrastructure/config"
	"github.com/iho/payroll/internal/infrastructure/eventpublisher"
	"github.com/iho/payroll/internal/infrastructure/logger"
	"github.com/iho/payroll/internal/infrastructure/metrics"
	"github.com/iho/payroll/internal/infrastructure/postgres"
	"github.com/iho/payroll/internal/infrastructure/redis"
	"github.com/iho/payroll/internal/report"
	"github.com/iho/payroll/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "payroll"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegistry(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	employeeRepo := postgresRepo.NewEmployeeRepository(pool)
	payrollRepo := postgresRepo.NewPayrollRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	// Redis is optional: without it reports are always rebuilt and
	// Idempotency-Key headers are ignored.
	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
		redisPinger      handler.Pinger
	)
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		redisPinger = redis.NewPinger(redisClient)
	}

	// Initialize use cases
	employeeUC := usecase.NewEmployeeUseCase(employeeRepo, m)
	ledgerUC := usecase.NewLedgerUseCase(txManager, payrollRepo, outboxRepo, idGen, m)
	payrollUC := usecase.NewPayrollUseCase(
		employeeRepo,
		ledgerUC,
		cache,
		[]usecase.ReportRenderer{report.NewPDFRenderer(), report.NewXLSXRenderer()},
		usecase.PayrollConfig{
			ReportTitle:    cfg.ReportTitle,
			ReportCurrency: cfg.ReportCurrency,
			ReportCacheTTL: cfg.ReportCacheTTL,
		},
		m,
		log,
	)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EmployeeHandler:  handler.NewEmployeeHandler(employeeUC),
		PayrollHandler:   handler.NewPayrollHandler(payrollUC, ledgerUC, log),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisPinger),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		Gatherer:         registry,
		Logger:           log,
		AllowedOrigins:   cfg.CORSAllowedOrigins,
	})

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(log),
		Metrics:    m,
		Logger:     log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
	})

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	go func() {
		if err := publisher.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()
	go rateLimiter.RunCleanup(time.Hour, workerCtx.Done())

	server := newHTTPServer(cfg, router)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")
	cancelWorkers()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}
