package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/iho/payroll/internal/adapter/http/handler"
	apimiddleware "github.com/iho/payroll/internal/adapter/http/middleware"
	"github.com/iho/payroll/internal/domain"
	"github.com/iho/payroll/internal/infrastructure/metrics"
	"github.com/iho/payroll/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"name":"Anna","daily_wage":"50","overtime_cost":"10","bank_limit":"100"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
	if !store.updateCalled {
		t.Fatalf("expected successful response to be stored, got status %d", rec.Code)
	}
}

func TestNewRouter_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = metrics.NewWithRegistry(reg)
		cfg.Gatherer = reg
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/employees/", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "payroll_http_requests_total") {
		t.Fatalf("expected HTTP metrics to be exposed")
	}
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/payrolls/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected origin to be allowed, got %q", got)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/employees/",
		"GET /api/v1/employees/",
		"GET /api/v1/employees/{id}",
		"PATCH /api/v1/employees/{id}",
		"DELETE /api/v1/employees/{id}",
		"POST /api/v1/payrolls/",
		"POST /api/v1/payrolls/preview",
		"GET /api/v1/payrolls/",
		"GET /api/v1/payrolls/{id}",
		"GET /api/v1/payrolls/{id}/report",
		"GET /api/v1/ledger/consistency",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		HealthHandler:   &handler.HealthHandler{},
		EmployeeHandler: handler.NewEmployeeHandler(stubEmployeeService{}),
		PayrollHandler:  handler.NewPayrollHandler(stubPayrollService{}, stubHistoryService{}, zerolog.Nop()),
		LedgerHandler:   handler.NewLedgerHandler(stubChecker{}),
		Logger:          zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubEmployeeService struct{}

func (stubEmployeeService) CreateEmployee(ctx context.Context, input usecase.CreateEmployeeInput) (*domain.Employee, error) {
	return &domain.Employee{ID: 1, Name: input.Name, IsActive: true}, nil
}

func (stubEmployeeService) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	return &domain.Employee{ID: id}, nil
}

func (stubEmployeeService) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	return []*domain.Employee{}, nil
}

func (stubEmployeeService) UpdateEmployee(ctx context.Context, id int64, input usecase.UpdateEmployeeInput) (*domain.Employee, error) {
	return &domain.Employee{ID: id}, nil
}

func (stubEmployeeService) DeactivateEmployee(ctx context.Context, id int64) error {
	return nil
}

type stubPayrollService struct{}

func (stubPayrollService) Preview(ctx context.Context, input usecase.RunPayrollInput) (*usecase.PreviewResult, error) {
	return nil, domain.ErrInvalidInput
}

func (stubPayrollService) Process(ctx context.Context, input usecase.RunPayrollInput, format string) (*usecase.ProcessResult, error) {
	return nil, domain.ErrInvalidInput
}

func (stubPayrollService) RenderRecord(ctx context.Context, id int64, format string) (*usecase.RenderedReport, error) {
	return nil, domain.ErrPayrollRecordNotFound
}

type stubHistoryService struct{}

func (stubHistoryService) GetRecord(ctx context.Context, id int64) (*domain.PayrollRecord, error) {
	return nil, domain.ErrPayrollRecordNotFound
}

func (stubHistoryService) ListHistory(ctx context.Context, limit, offset int) ([]*domain.PayrollRecord, error) {
	return []*domain.PayrollRecord{}, nil
}

type stubChecker struct{}

func (stubChecker) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return &usecase.ConsistencyReport{}, nil
}

type stubIdempotencyStore struct {
	checkCalled  bool
	updateCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.updateCalled = true
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}
