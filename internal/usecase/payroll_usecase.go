package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/payroll/internal/domain"
	"github.com/iho/payroll/internal/infrastructure/metrics"
	"github.com/iho/payroll/internal/report"
)

// DefaultReportFormat is rendered when a run is processed without a format.
const DefaultReportFormat = "pdf"

// PayrollConfig holds presentation and caching settings for the payroll pipeline.
type PayrollConfig struct {
	ReportTitle    string
	ReportCurrency string
	ReportCacheTTL time.Duration
}

// PayrollUseCase runs the payroll pipeline: roster, aggregation, history, report.
type PayrollUseCase struct {
	employeeRepo EmployeeRepository
	ledger       PayrollLedger
	cache        Cache
	renderers    map[string]ReportRenderer
	reportOpts   report.Options
	cacheTTL     time.Duration
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	now          func() time.Time
}

// NewPayrollUseCase creates a new PayrollUseCase. cache may be nil.
func NewPayrollUseCase(
	employeeRepo EmployeeRepository,
	ledger PayrollLedger,
	cache Cache,
	renderers []ReportRenderer,
	cfg PayrollConfig,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *PayrollUseCase {
	byFormat := make(map[string]ReportRenderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}

	ttl := cfg.ReportCacheTTL
	if ttl <= 0 {
		ttl = DefaultReportCacheTTL
	}

	return &PayrollUseCase{
		employeeRepo: employeeRepo,
		ledger:       ledger,
		cache:        cache,
		renderers:    byFormat,
		reportOpts:   report.Options{Title: cfg.ReportTitle, Currency: cfg.ReportCurrency},
		cacheTTL:     ttl,
		metrics:      metrics,
		logger:       logger.With().Str("component", "payroll").Logger(),
		now:          time.Now,
	}
}

// RunPayrollInput is a caller's request to compute payroll for a period.
type RunPayrollInput struct {
	Period domain.Period
	Inputs []domain.WorkInput
	// EmployeeIDs selects the roster slice explicitly, in order. When empty,
	// every active employee is included.
	EmployeeIDs []int64
}

// PreviewResult is a computed but uncommitted run.
type PreviewResult struct {
	Run    *domain.PayrollRunResult
	Report *report.Report
}

// RenderedReport is a rendered artifact ready for download.
type RenderedReport struct {
	Format      string
	ContentType string
	Filename    string
	Data        []byte
}

// ProcessResult is the outcome of a committed run. ReportErr is set when the
// record was stored but the report could not be produced.
type ProcessResult struct {
	Run       *domain.PayrollRunResult
	Record    *domain.PayrollRecord
	Report    *RenderedReport
	ReportErr error
}

// Preview computes a run without storing it.
func (uc *PayrollUseCase) Preview(ctx context.Context, input RunPayrollInput) (*PreviewResult, error) {
	run, err := uc.compute(ctx, input)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		Run:    run,
		Report: report.FromRun(run, uc.now().UTC(), uc.reportOpts),
	}, nil
}

// Process computes a run, commits it to history and renders its report.
//
// Failures before the commit return an error and store nothing. Once the
// record is committed a rendering failure is reported in ProcessResult.ReportErr
// and never undoes the record.
func (uc *PayrollUseCase) Process(ctx context.Context, input RunPayrollInput, format string) (*ProcessResult, error) {
	if format == "" {
		format = DefaultReportFormat
	}
	renderer, err := uc.renderer(format)
	if err != nil {
		return nil, err
	}

	run, err := uc.compute(ctx, input)
	if err != nil {
		return nil, err
	}

	rec, err := uc.ledger.Commit(ctx, run)
	if err != nil {
		uc.countError(err)
		uc.logger.Error().Err(err).Str("period", run.Period.String()).Msg("payroll commit failed")
		return nil, err
	}

	uc.logger.Info().
		Int64("payroll_id", rec.ID).
		Str("period", run.Period.String()).
		Str("total_cost", rec.TotalCost.StringFixed(domain.MoneyPlaces)).
		Int("employees", len(run.LineItems)).
		Msg("payroll committed")

	result := &ProcessResult{Run: run, Record: rec}

	rep := report.FromRun(run, rec.DateCreated, uc.reportOpts)
	rep.PayrollID = rec.ID

	rendered, err := uc.render(renderer, rep)
	if err != nil {
		uc.countError(err)
		uc.logger.Error().Err(err).Int64("payroll_id", rec.ID).Str("format", format).Msg("payroll report rendering failed")
		result.ReportErr = err
		return result, nil
	}

	uc.storeCached(ctx, rec.ID, rendered)
	result.Report = rendered

	return result, nil
}

// RenderRecord returns the report of a stored record, rebuilding it from
// history on a cache miss.
func (uc *PayrollUseCase) RenderRecord(ctx context.Context, id int64, format string) (*RenderedReport, error) {
	if format == "" {
		format = DefaultReportFormat
	}
	renderer, err := uc.renderer(format)
	if err != nil {
		return nil, err
	}

	if cached := uc.loadCached(ctx, id, renderer); cached != nil {
		return cached, nil
	}

	rec, err := uc.ledger.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	rep, err := report.FromRecord(rec, uc.reportOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: record %d: %w", domain.ErrRenderingFailure, id, err)
	}

	rendered, err := uc.render(renderer, rep)
	if err != nil {
		return nil, err
	}

	uc.storeCached(ctx, id, rendered)

	return rendered, nil
}

func (uc *PayrollUseCase) compute(ctx context.Context, input RunPayrollInput) (*domain.PayrollRunResult, error) {
	inputs, err := domain.IndexWorkInputs(input.Inputs)
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	roster, err := uc.loadRoster(ctx, input.EmployeeIDs)
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	run, err := domain.RunPayroll(input.Period, roster, inputs)
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	return run, nil
}

func (uc *PayrollUseCase) loadRoster(ctx context.Context, ids []int64) ([]*domain.Employee, error) {
	var (
		roster []*domain.Employee
		err    error
	)
	if len(ids) > 0 {
		roster, err = uc.employeeRepo.GetByIDs(ctx, ids)
	} else {
		roster, err = uc.employeeRepo.ListActive(ctx)
	}

	switch {
	case err == nil:
		return roster, nil
	case errors.Is(err, domain.ErrEmployeeNotFound), errors.Is(err, domain.ErrInvalidInput):
		return nil, err
	default:
		return nil, persistenceError("load roster", err)
	}
}

func (uc *PayrollUseCase) renderer(format string) (ReportRenderer, error) {
	r, ok := uc.renderers[format]
	if !ok {
		return nil, &domain.InputError{Field: "format", Reason: fmt.Sprintf("%q is not supported", format)}
	}
	return r, nil
}

func (uc *PayrollUseCase) render(renderer ReportRenderer, rep *report.Report) (*RenderedReport, error) {
	start := time.Now()

	var buf bytes.Buffer
	if err := renderer.Render(&buf, rep); err != nil {
		if uc.metrics != nil {
			uc.metrics.ReportRenderFailures.WithLabelValues(renderer.Format()).Inc()
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRenderingFailure, renderer.Format(), err)
	}

	if uc.metrics != nil {
		uc.metrics.ReportRenderDuration.WithLabelValues(renderer.Format()).Observe(time.Since(start).Seconds())
	}

	return &RenderedReport{
		Format:      renderer.Format(),
		ContentType: renderer.ContentType(),
		Filename:    rep.Filename(renderer.Format()),
		Data:        buf.Bytes(),
	}, nil
}

func reportCacheKey(id int64, format string) string {
	return fmt.Sprintf("report:%d:%s", id, format)
}

func (uc *PayrollUseCase) loadCached(ctx context.Context, id int64, renderer ReportRenderer) *RenderedReport {
	if uc.cache == nil {
		return nil
	}

	data, found, err := uc.cache.Get(ctx, reportCacheKey(id, renderer.Format()))
	if err != nil {
		uc.logger.Warn().Err(err).Int64("payroll_id", id).Msg("report cache lookup failed")
		return nil
	}
	if uc.metrics != nil {
		result := "miss"
		if found {
			result = "hit"
		}
		uc.metrics.ReportCacheLookups.WithLabelValues(result).Inc()
	}
	if !found {
		return nil
	}

	return &RenderedReport{
		Format:      renderer.Format(),
		ContentType: renderer.ContentType(),
		Filename:    (&report.Report{PayrollID: id}).Filename(renderer.Format()),
		Data:        data,
	}
}

func (uc *PayrollUseCase) storeCached(ctx context.Context, id int64, rendered *RenderedReport) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Set(ctx, reportCacheKey(id, rendered.Format), rendered.Data, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Int64("payroll_id", id).Msg("report cache store failed")
	}
}

func (uc *PayrollUseCase) countError(err error) {
	if uc.metrics != nil {
		uc.metrics.RunErrors.WithLabelValues(domain.Kind(err)).Inc()
	}
}
