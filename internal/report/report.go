// Package report shapes payroll runs and history records into the table
// consumed by the document renderers.
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/payroll/internal/domain"
)

// Columns is the fixed column order of every rendered report.
var Columns = []string{"Employee", "Days", "Overtime", "Total", "Bank", "Cash"}

const (
	DefaultTitle    = "Paraponiaris Bros - Payroll Report"
	DefaultCurrency = "EUR"

	// Placeholder shown for figures that are not part of a stored record.
	Unavailable = "-"
)

// Options controls the presentation of a report.
type Options struct {
	Title    string
	Currency string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	return o
}

// Row is one employee line. Days and Overtime are null when the report was
// rebuilt from history, which only stores the three pay figures.
type Row struct {
	Name     string
	Days     decimal.NullDecimal
	Overtime decimal.NullDecimal
	Total    decimal.Decimal
	Bank     decimal.Decimal
	Cash     decimal.Decimal
}

// Cells returns the row formatted for display, in Columns order.
func (r Row) Cells() []string {
	return []string{
		r.Name,
		formatNull(r.Days),
		formatNull(r.Overtime),
		FormatMoney(r.Total),
		FormatMoney(r.Bank),
		FormatMoney(r.Cash),
	}
}

// Report is the renderer-ready projection of a payroll run.
type Report struct {
	Title       string
	Currency    string
	PayrollID   int64
	PeriodStart time.Time
	PeriodEnd   time.Time
	GeneratedAt time.Time
	Rows        []Row
	GrandTotal  decimal.Decimal
}

// FromRun projects a computed run. generatedAt is the commit timestamp once
// the run has been stored, or the preview time before that.
func FromRun(run *domain.PayrollRunResult, generatedAt time.Time, opts Options) *Report {
	opts = opts.withDefaults()

	rows := make([]Row, 0, len(run.LineItems))
	for _, it := range run.LineItems {
		rows = append(rows, Row{
			Name:     it.Name,
			Days:     decimal.NewNullDecimal(it.Days),
			Overtime: decimal.NewNullDecimal(it.OvertimeHours),
			Total:    it.GrossPay,
			Bank:     it.BankPay,
			Cash:     it.CashPay,
		})
	}

	return &Report{
		Title:       opts.Title,
		Currency:    opts.Currency,
		PeriodStart: run.Period.Start,
		PeriodEnd:   run.Period.End,
		GeneratedAt: generatedAt,
		Rows:        rows,
		GrandTotal:  run.GrandTotal,
	}
}

// FromRecord rebuilds a report from a stored history record alone.
func FromRecord(rec *domain.PayrollRecord, opts Options) (*Report, error) {
	opts = opts.withDefaults()

	lines, err := rec.Lines()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, Row{
			Name:  l.Name,
			Total: l.GrossPay,
			Bank:  l.BankPay,
			Cash:  l.CashPay,
		})
	}

	return &Report{
		Title:       opts.Title,
		Currency:    opts.Currency,
		PayrollID:   rec.ID,
		PeriodStart: rec.DateStart,
		PeriodEnd:   rec.DateEnd,
		GeneratedAt: rec.DateCreated,
		Rows:        rows,
		GrandTotal:  rec.TotalCost,
	}, nil
}

// PeriodLine is the header line naming the pay period.
func (r *Report) PeriodLine() string {
	return fmt.Sprintf("Period: %s to %s", r.PeriodStart.Format(domain.DateLayout), r.PeriodEnd.Format(domain.DateLayout))
}

// CreatedLine is the header line with the generation time.
func (r *Report) CreatedLine() string {
	return "Created at: " + r.GeneratedAt.Format(domain.TimestampLayout)
}

// GrandTotalLine is the trailing total line.
func (r *Report) GrandTotalLine() string {
	return fmt.Sprintf("Grand Total Cost: %s %s", FormatMoney(r.GrandTotal), r.Currency)
}

// Filename is the suggested download name for the given extension.
func (r *Report) Filename(ext string) string {
	if r.PayrollID > 0 {
		return fmt.Sprintf("payroll_%d.%s", r.PayrollID, ext)
	}
	return fmt.Sprintf("payroll_%s_%s.%s", r.PeriodStart.Format(domain.DateLayout), r.PeriodEnd.Format(domain.DateLayout), ext)
}

// FormatMoney formats a figure with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}

func formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return Unavailable
	}
	return FormatMoney(d.Decimal)
}
