package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/payroll/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		route      string
		wantLabel  string
		statusCode int
	}{
		{
			name:       "labels payroll path by route",
			method:     http.MethodGet,
			path:       "/api/v1/payrolls/42/report",
			route:      "/api/v1/payrolls/{id}/report",
			wantLabel:  "/api/v1/payrolls/{id}/report",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "keeps static route",
			method:     http.MethodPost,
			path:       "/api/v1/employees",
			route:      "/api/v1/employees",
			wantLabel:  "/api/v1/employees",
			statusCode: http.StatusCreated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.NewWithRegistry(prometheus.NewRegistry())

			handlerCalled := false
			r := chi.NewRouter()
			r.Use(Metrics(m))
			r.MethodFunc(tc.method, tc.route, func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			if got := testutil.ToFloat64(m.HTTPInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			counter := m.HTTPRequests.WithLabelValues(tc.method, tc.wantLabel, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestRoutePatternWithoutRouter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payrolls/7", nil)
	if got := routePattern(req); got != "unmatched" {
		t.Fatalf("routePattern() = %q, expected unmatched", got)
	}
}
