package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/payroll/internal/adapter/http/handler"
	"github.com/iho/payroll/internal/adapter/http/middleware"
	"github.com/iho/payroll/internal/infrastructure/metrics"
	"github.com/iho/payroll/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EmployeeHandler  *handler.EmployeeHandler
	PayrollHandler   *handler.PayrollHandler
	LedgerHandler    *handler.LedgerHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter

	// Metrics and Gatherer are optional; /metrics is served only when
	// Gatherer is set.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	Logger         zerolog.Logger
	AllowedOrigins []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.IdempotencyKeyHeader},
			ExposedHeaders: []string{"Content-Disposition", "X-Payroll-ID", middleware.IdempotencyReplayHeader},
			MaxAge:         300,
		}))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.Logger).
				WithTTL(cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Roster
		r.Route("/employees", func(r chi.Router) {
			r.Post("/", cfg.EmployeeHandler.Create)
			r.Get("/", cfg.EmployeeHandler.List)
			r.Get("/{id}", cfg.EmployeeHandler.Get)
			r.Patch("/{id}", cfg.EmployeeHandler.Update)
			r.Delete("/{id}", cfg.EmployeeHandler.Deactivate)
		})

		// Payroll runs and history
		r.Route("/payrolls", func(r chi.Router) {
			r.Post("/", cfg.PayrollHandler.Create)
			r.Post("/preview", cfg.PayrollHandler.Preview)
			r.Get("/", cfg.PayrollHandler.List)
			r.Get("/{id}", cfg.PayrollHandler.Get)
			r.Get("/{id}/report", cfg.PayrollHandler.Report)
		})

		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
