package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Payroll metrics
	RunsCommitted  prometheus.Counter
	RunErrors      *prometheus.CounterVec
	RunGrandTotal  prometheus.Gauge
	RunEmployees   prometheus.Histogram
	CommitDuration prometheus.Histogram

	// Report metrics
	ReportRenderDuration *prometheus.HistogramVec
	ReportRenderFailures *prometheus.CounterVec
	ReportCacheLookups   *prometheus.CounterVec

	// Roster metrics
	EmployeesCreated     prometheus.Counter
	EmployeesDeactivated prometheus.Counter

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates and registers all Prometheus metrics on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all metrics and registers them on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Payroll metrics
		RunsCommitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "payroll_runs_committed_total",
			Help: "Total number of payroll runs committed to history",
		}),
		RunErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payroll_run_errors_total",
				Help: "Total number of rejected or failed payroll runs by error kind",
			},
			[]string{"kind"},
		),
		RunGrandTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payroll_run_grand_total",
			Help: "Grand total of the most recently committed payroll run",
		}),
		RunEmployees: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "payroll_run_employees",
			Help:    "Number of employees per committed payroll run",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		CommitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "payroll_commit_duration_seconds",
			Help:    "Duration of history ledger appends",
			Buckets: prometheus.DefBuckets,
		}),

		// Report metrics
		ReportRenderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payroll_report_render_seconds",
				Help:    "Report rendering duration by format",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		),
		ReportRenderFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payroll_report_render_failures_total",
				Help: "Total report rendering failures by format",
			},
			[]string{"format"},
		),
		ReportCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payroll_report_cache_lookups_total",
				Help: "Report cache lookups by result",
			},
			[]string{"result"},
		),

		// Roster metrics
		EmployeesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "payroll_employees_created_total",
			Help: "Total number of employees added to the roster",
		}),
		EmployeesDeactivated: factory.NewCounter(prometheus.CounterOpts{
			Name: "payroll_employees_deactivated_total",
			Help: "Total number of employees deactivated",
		}),

		// Outbox metrics
		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "payroll_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "payroll_outbox_errors_total",
			Help: "Total outbox publishing errors",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payroll_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payroll_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payroll_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
	}
}
