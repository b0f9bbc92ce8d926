package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/iho/payroll/internal/adapter/http/dto"
	"github.com/iho/payroll/internal/domain"
	"github.com/iho/payroll/internal/usecase"
)

// PayrollService is the payroll pipeline as used by the HTTP layer.
type PayrollService interface {
	Preview(ctx context.Context, input usecase.RunPayrollInput) (*usecase.PreviewResult, error)
	Process(ctx context.Context, input usecase.RunPayrollInput, format string) (*usecase.ProcessResult, error)
	RenderRecord(ctx context.Context, id int64, format string) (*usecase.RenderedReport, error)
}

// HistoryService reads the payroll history.
type HistoryService interface {
	GetRecord(ctx context.Context, id int64) (*domain.PayrollRecord, error)
	ListHistory(ctx context.Context, limit, offset int) ([]*domain.PayrollRecord, error)
}

const defaultHistoryPageSize = 50

// PayrollHandler handles payroll runs, history and report downloads.
type PayrollHandler struct {
	payroll PayrollService
	history HistoryService
	logger  zerolog.Logger
}

// NewPayrollHandler creates a new PayrollHandler.
func NewPayrollHandler(payroll PayrollService, history HistoryService, logger zerolog.Logger) *PayrollHandler {
	return &PayrollHandler{
		payroll: payroll,
		history: history,
		logger:  logger,
	}
}

// Preview handles POST /payrolls/preview. Nothing is stored.
func (h *PayrollHandler) Preview(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeRun(w, r)
	if !ok {
		return
	}

	result, err := h.payroll.Preview(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PayrollRunFromDomain(result.Run))
}

// Create handles POST /payrolls: compute, commit and render.
//
// With ?download=true the rendered report is the response body. Otherwise the
// committed record is returned along with a link to its report. A rendering
// failure after the commit still answers 201 and sets report_error.
func (h *PayrollHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeRun(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = usecase.DefaultReportFormat
	}

	result, err := h.payroll.Process(r.Context(), input, format)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	download, _ := strconv.ParseBool(r.URL.Query().Get("download"))
	if download && result.Report != nil {
		w.Header().Set("X-Payroll-ID", strconv.FormatInt(result.Record.ID, 10))
		writeAttachment(w, http.StatusCreated, result.Report)
		return
	}

	resp := dto.ProcessPayrollResponse{
		Record:    dto.PayrollRecordFromDomain(result.Record),
		Run:       dto.PayrollRunFromDomain(result.Run),
		ReportURL: fmt.Sprintf("/api/v1/payrolls/%d/report?format=%s", result.Record.ID, format),
	}
	if result.ReportErr != nil {
		resp.ReportError = result.ReportErr.Error()
	}

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /payrolls, newest first.
func (h *PayrollHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", defaultHistoryPageSize)
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}
	offset := parseIntQuery(r, "offset", 0)
	limit, offset = domain.ValidatePagination(limit, offset)

	records, err := h.history.ListHistory(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.PayrollRecordResponse]{
		Items:  dto.PayrollRecordsFromDomain(records),
		Limit:  limit,
		Offset: offset,
	})
}

// Get handles GET /payrolls/{id}.
func (h *PayrollHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rec, err := h.history.GetRecord(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PayrollRecordFromDomain(rec))
}

// Report handles GET /payrolls/{id}/report?format=pdf|xlsx.
func (h *PayrollHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rendered, err := h.payroll.RenderRecord(r.Context(), id, r.URL.Query().Get("format"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeAttachment(w, http.StatusOK, rendered)
}

func (h *PayrollHandler) decodeRun(w http.ResponseWriter, r *http.Request) (usecase.RunPayrollInput, bool) {
	var req dto.RunPayrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err)
		return usecase.RunPayrollInput{}, false
	}

	if req.HasLegacyFigures() {
		h.logger.Debug().
			Str("date_start", req.DateStart).
			Str("date_end", req.DateEnd).
			Msg("ignoring client-supplied pay figures")
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err)
		return usecase.RunPayrollInput{}, false
	}

	return input, true
}

func writeAttachment(w http.ResponseWriter, status int, rendered *usecase.RenderedReport) {
	w.Header().Set("Content-Type", rendered.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rendered.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(rendered.Data)))
	w.WriteHeader(status)
	w.Write(rendered.Data)
}
