package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a roster entry. Employees are never removed, only deactivated.
type Employee struct {
	ID           int64
	Name         string
	DailyWage    decimal.Decimal
	OvertimeCost decimal.Decimal
	BankLimit    decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WageTerms returns the rates used to allocate this employee's pay.
func (e *Employee) WageTerms() WageTerms {
	return WageTerms{
		DailyWage:    e.DailyWage,
		OvertimeCost: e.OvertimeCost,
		BankLimit:    e.BankLimit,
	}
}

// Validate checks the name and wage terms of an employee before it is stored.
func (e *Employee) Validate() error {
	if err := ValidateEmployeeName(e.Name); err != nil {
		return err
	}
	if err := e.WageTerms().Validate(); err != nil {
		return err
	}
	for _, f := range []struct {
		name   string
		amount decimal.Decimal
	}{
		{"daily_wage", e.DailyWage},
		{"overtime_cost", e.OvertimeCost},
		{"bank_limit", e.BankLimit},
	} {
		if err := ValidateWageAmount(f.name, f.amount); err != nil {
			return err
		}
	}
	return nil
}

// WorkInput is the work an employee did during a pay period.
type WorkInput struct {
	EmployeeID    int64
	Days          decimal.Decimal
	OvertimeHours decimal.Decimal
}
