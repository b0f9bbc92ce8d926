package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PayLineItem is one employee's computed pay for a run.
// Money fields hold the reported figures, rounded to MoneyPlaces.
type PayLineItem struct {
	EmployeeID    int64
	Name          string
	Days          decimal.Decimal
	OvertimeHours decimal.Decimal
	GrossPay      decimal.Decimal
	BankPay       decimal.Decimal
	CashPay       decimal.Decimal
}

// PayrollRunResult is the output of the aggregator, consumed identically by
// the history ledger and the report feed.
type PayrollRunResult struct {
	Period     Period
	LineItems  []PayLineItem
	GrandTotal decimal.Decimal
}

// IndexWorkInputs keys work inputs by employee, rejecting duplicates.
func IndexWorkInputs(inputs []WorkInput) (map[int64]WorkInput, error) {
	byEmployee := make(map[int64]WorkInput, len(inputs))
	for _, in := range inputs {
		if in.EmployeeID <= 0 {
			return nil, invalidField("employee_id", "must be positive")
		}
		if _, dup := byEmployee[in.EmployeeID]; dup {
			return nil, &InputError{Field: "employee_id", EmployeeID: in.EmployeeID, Reason: "appears more than once"}
		}
		byEmployee[in.EmployeeID] = in
	}
	return byEmployee, nil
}

// RunPayroll allocates pay for every employee in roster, in roster order.
//
// Employees are processed as given; is_active is not consulted. The roster
// must not be empty. Every roster
// employee needs a work input and every work input needs a roster employee.
// The grand total is always the sum of the line items' gross pay.
func RunPayroll(period Period, roster []*Employee, inputs map[int64]WorkInput) (*PayrollRunResult, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, invalidField("employees", "must not be empty")
	}

	result := &PayrollRunResult{
		Period:     period,
		LineItems:  make([]PayLineItem, 0, len(roster)),
		GrandTotal: decimal.Zero,
	}

	seen := make(map[int64]struct{}, len(roster))
	for _, emp := range roster {
		if emp == nil {
			return nil, invalidField("employees", "contains an empty entry")
		}
		if _, dup := seen[emp.ID]; dup {
			return nil, &InputError{Field: "employee_id", EmployeeID: emp.ID, Reason: "appears more than once"}
		}
		seen[emp.ID] = struct{}{}

		in, ok := inputs[emp.ID]
		if !ok {
			return nil, &MissingWorkInputError{EmployeeID: emp.ID, Name: emp.Name}
		}

		terms := emp.WageTerms()
		alloc, err := Allocate(in.Days, in.OvertimeHours, terms)
		if err != nil {
			return nil, withEmployee(err, emp.ID)
		}
		reported := alloc.Reported(terms.BankLimit)

		result.LineItems = append(result.LineItems, PayLineItem{
			EmployeeID:    emp.ID,
			Name:          NormalizeName(emp.Name),
			Days:          in.Days,
			OvertimeHours: in.OvertimeHours,
			GrossPay:      reported.GrossPay,
			BankPay:       reported.BankPay,
			CashPay:       reported.CashPay,
		})
		result.GrandTotal = result.GrandTotal.Add(reported.GrossPay)
	}

	for id := range inputs {
		if _, ok := seen[id]; !ok {
			return nil, &InputError{
				Field:      "employee_id",
				EmployeeID: id,
				Reason:     fmt.Sprintf("is not part of the payroll roster (%d employees)", len(roster)),
			}
		}
	}

	return result, nil
}
