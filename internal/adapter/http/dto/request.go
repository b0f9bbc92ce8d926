package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/payroll/internal/domain"
	"github.com/iho/payroll/internal/usecase"
)

// CreateEmployeeRequest represents a request to add an employee.
type CreateEmployeeRequest struct {
	Name         string          `json:"name"`
	DailyWage    decimal.Decimal `json:"daily_wage"`
	OvertimeCost decimal.Decimal `json:"overtime_cost"`
	BankLimit    decimal.Decimal `json:"bank_limit"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEmployeeRequest) ToUseCaseInput() usecase.CreateEmployeeInput {
	return usecase.CreateEmployeeInput{
		Name:         r.Name,
		DailyWage:    r.DailyWage,
		OvertimeCost: r.OvertimeCost,
		BankLimit:    r.BankLimit,
	}
}

// UpdateEmployeeRequest represents a partial update; omitted fields are kept.
type UpdateEmployeeRequest struct {
	Name         *string          `json:"name,omitempty"`
	DailyWage    *decimal.Decimal `json:"daily_wage,omitempty"`
	OvertimeCost *decimal.Decimal `json:"overtime_cost,omitempty"`
	BankLimit    *decimal.Decimal `json:"bank_limit,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEmployeeRequest) ToUseCaseInput() usecase.UpdateEmployeeInput {
	return usecase.UpdateEmployeeInput{
		Name:         r.Name,
		DailyWage:    r.DailyWage,
		OvertimeCost: r.OvertimeCost,
		BankLimit:    r.BankLimit,
	}
}

// WorkInputItem is one employee's work for the period.
//
// TotalPay, BankPay and CashPay are accepted from older clients that sent
// precomputed figures. They are never used; pay is always recomputed.
type WorkInputItem struct {
	EmployeeID    int64           `json:"employee_id"`
	Days          decimal.Decimal `json:"days"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`

	TotalPay *decimal.Decimal `json:"total_pay,omitempty"`
	BankPay  *decimal.Decimal `json:"bank_pay,omitempty"`
	CashPay  *decimal.Decimal `json:"cash_pay,omitempty"`
}

// RunPayrollRequest represents a request to preview or commit a payroll run.
type RunPayrollRequest struct {
	DateStart string          `json:"date_start"`
	DateEnd   string          `json:"date_end"`
	Employees []WorkInputItem `json:"employees"`
	// EmployeeIDs fixes the roster slice. When empty every active employee is paid.
	EmployeeIDs []int64 `json:"employee_ids,omitempty"`
}

// HasLegacyFigures reports whether any item carries client-computed pay.
func (r *RunPayrollRequest) HasLegacyFigures() bool {
	for _, item := range r.Employees {
		if item.TotalPay != nil || item.BankPay != nil || item.CashPay != nil {
			return true
		}
	}
	return false
}

// ToUseCaseInput converts to use case input.
func (r *RunPayrollRequest) ToUseCaseInput() (usecase.RunPayrollInput, error) {
	period, err := domain.ParsePeriod(r.DateStart, r.DateEnd)
	if err != nil {
		return usecase.RunPayrollInput{}, err
	}

	inputs := make([]domain.WorkInput, len(r.Employees))
	for i, item := range r.Employees {
		inputs[i] = domain.WorkInput{
			EmployeeID:    item.EmployeeID,
			Days:          item.Days,
			OvertimeHours: item.OvertimeHours,
		}
	}

	return usecase.RunPayrollInput{
		Period:      period,
		Inputs:      inputs,
		EmployeeIDs: r.EmployeeIDs,
	}, nil
}
