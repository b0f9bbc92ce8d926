package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/payroll/internal/domain"
	"github.com/iho/payroll/internal/usecase"
)

// EmployeeResponse represents an employee in API responses.
type EmployeeResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	DailyWage    decimal.Decimal `json:"daily_wage"`
	OvertimeCost decimal.Decimal `json:"overtime_cost"`
	BankLimit    decimal.Decimal `json:"bank_limit"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// EmployeeFromDomain converts a domain employee to a response.
func EmployeeFromDomain(e *domain.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		DailyWage:    e.DailyWage,
		OvertimeCost: e.OvertimeCost,
		BankLimit:    e.BankLimit,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// EmployeesFromDomain converts domain employees to responses.
func EmployeesFromDomain(employees []*domain.Employee) []*EmployeeResponse {
	result := make([]*EmployeeResponse, len(employees))
	for i, e := range employees {
		result[i] = EmployeeFromDomain(e)
	}
	return result
}

// PayLineResponse is one employee's reported pay. Money is a fixed two-decimal string.
type PayLineResponse struct {
	EmployeeID    int64  `json:"employee_id"`
	Name          string `json:"name"`
	Days          string `json:"days"`
	OvertimeHours string `json:"overtime_hours"`
	TotalPay      string `json:"total_pay"`
	BankPay       string `json:"bank_pay"`
	CashPay       string `json:"cash_pay"`
}

// PayrollRunResponse is a computed run.
type PayrollRunResponse struct {
	DateStart  string            `json:"date_start"`
	DateEnd    string            `json:"date_end"`
	Employees  []PayLineResponse `json:"employees"`
	GrandTotal string            `json:"grand_total"`
}

// PayrollRunFromDomain converts a run to a response.
func PayrollRunFromDomain(run *domain.PayrollRunResult) *PayrollRunResponse {
	lines := make([]PayLineResponse, len(run.LineItems))
	for i, item := range run.LineItems {
		lines[i] = PayLineResponse{
			EmployeeID:    item.EmployeeID,
			Name:          item.Name,
			Days:          item.Days.String(),
			OvertimeHours: item.OvertimeHours.String(),
			TotalPay:      item.GrossPay.StringFixed(domain.MoneyPlaces),
			BankPay:       item.BankPay.StringFixed(domain.MoneyPlaces),
			CashPay:       item.CashPay.StringFixed(domain.MoneyPlaces),
		}
	}

	return &PayrollRunResponse{
		DateStart:  run.Period.Start.Format(domain.DateLayout),
		DateEnd:    run.Period.End.Format(domain.DateLayout),
		Employees:  lines,
		GrandTotal: run.GrandTotal.StringFixed(domain.MoneyPlaces),
	}
}

// PayrollRecordResponse represents a history record.
type PayrollRecordResponse struct {
	ID          int64  `json:"id"`
	DateCreated string `json:"date_created"`
	DateStart   string `json:"date_start"`
	DateEnd     string `json:"date_end"`
	TotalCost   string `json:"total_cost"`
	Details     string `json:"details"`
}

// PayrollRecordFromDomain converts a record to a response.
func PayrollRecordFromDomain(rec *domain.PayrollRecord) *PayrollRecordResponse {
	return &PayrollRecordResponse{
		ID:          rec.ID,
		DateCreated: rec.DateCreated.UTC().Format(domain.TimestampLayout),
		DateStart:   rec.DateStart.Format(domain.DateLayout),
		DateEnd:     rec.DateEnd.Format(domain.DateLayout),
		TotalCost:   rec.TotalCost.StringFixed(domain.MoneyPlaces),
		Details:     rec.Details,
	}
}

// PayrollRecordsFromDomain converts records to responses.
func PayrollRecordsFromDomain(records []*domain.PayrollRecord) []*PayrollRecordResponse {
	result := make([]*PayrollRecordResponse, len(records))
	for i, rec := range records {
		result[i] = PayrollRecordFromDomain(rec)
	}
	return result
}

// ProcessPayrollResponse is returned after a run is committed.
type ProcessPayrollResponse struct {
	Record      *PayrollRecordResponse `json:"record"`
	Run         *PayrollRunResponse    `json:"run"`
	ReportURL   string                 `json:"report_url"`
	ReportError string                 `json:"report_error,omitempty"`
}

// ConsistencyResponse reports the result of a ledger consistency check.
type ConsistencyResponse struct {
	Status       string                    `json:"status"`
	Consistent   bool                      `json:"consistent"`
	Checked      int                       `json:"checked"`
	Inconsistent []InconsistentRecordEntry `json:"inconsistent,omitempty"`
}

// InconsistentRecordEntry names a record whose total does not match its details.
type InconsistentRecordEntry struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

// ConsistencyFromUseCase converts a consistency report to a response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		Status:     "consistent",
		Consistent: r.Consistent(),
		Checked:    r.Checked,
	}
	if !resp.Consistent {
		resp.Status = "inconsistent"
	}
	for _, rec := range r.Inconsistent {
		resp.Inconsistent = append(resp.Inconsistent, InconsistentRecordEntry{ID: rec.ID, Reason: rec.Reason})
	}
	return resp
}

// ListResponse wraps a page of items.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Field      string `json:"field,omitempty"`
	EmployeeID int64  `json:"employee_id,omitempty"`
}
