package domain

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places of every reported monetary figure.
const MoneyPlaces int32 = 2

// WageTerms are the per-employee rates an allocation is computed from.
type WageTerms struct {
	DailyWage    decimal.Decimal
	OvertimeCost decimal.Decimal
	BankLimit    decimal.Decimal
}

// Validate rejects negative rates or limits.
func (t WageTerms) Validate() error {
	if t.DailyWage.IsNegative() {
		return invalidField("daily_wage", "must not be negative")
	}
	if t.OvertimeCost.IsNegative() {
		return invalidField("overtime_cost", "must not be negative")
	}
	if t.BankLimit.IsNegative() {
		return invalidField("bank_limit", "must not be negative")
	}
	return nil
}

// Allocation is one employee's pay for a period split across the two channels.
type Allocation struct {
	GrossPay decimal.Decimal
	BankPay  decimal.Decimal
	CashPay  decimal.Decimal
}

// Allocate computes gross pay from the work done and fills the bank channel
// first, up to the bank limit; the remainder goes to cash.
// The result is exact: no rounding is applied.
func Allocate(days, overtimeHours decimal.Decimal, terms WageTerms) (Allocation, error) {
	if days.IsNegative() {
		return Allocation{}, invalidField("days", "must not be negative")
	}
	if overtimeHours.IsNegative() {
		return Allocation{}, invalidField("overtime_hours", "must not be negative")
	}
	if err := terms.Validate(); err != nil {
		return Allocation{}, err
	}

	gross := days.Mul(terms.DailyWage).Add(overtimeHours.Mul(terms.OvertimeCost))
	bank := decimal.Min(gross, terms.BankLimit)

	return Allocation{
		GrossPay: gross,
		BankPay:  bank,
		CashPay:  gross.Sub(bank),
	}, nil
}

// Reported rounds the allocation to MoneyPlaces for display and persistence.
//
// The reported split is derived from the rounded gross, so BankPay+CashPay
// equals GrossPay to the cent, and BankPay never exceeds bankLimit.
func (a Allocation) Reported(bankLimit decimal.Decimal) Allocation {
	gross := a.GrossPay.Round(MoneyPlaces)
	bank := decimal.Min(a.BankPay.Round(MoneyPlaces), bankLimit.Truncate(MoneyPlaces))

	return Allocation{
		GrossPay: gross,
		BankPay:  bank,
		CashPay:  gross.Sub(bank),
	}
}
