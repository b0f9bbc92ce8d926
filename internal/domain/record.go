package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRecord is an append-only history entry for one committed run.
type PayrollRecord struct {
	ID          int64
	DateCreated time.Time
	DateStart   time.Time
	DateEnd     time.Time
	TotalCost   decimal.Decimal
	Details     string
}

// DetailLine is one employee's figures as stored in a record's details.
type DetailLine struct {
	Name     string
	GrossPay decimal.Decimal
	BankPay  decimal.Decimal
	CashPay  decimal.Decimal
}

var detailLineRegex = regexp.MustCompile(`^(.*): (-?\d+\.\d{2}) \((-?\d+\.\d{2}), (-?\d+\.\d{2})\)$`)

// NewPayrollRecord builds the record payload for a run. ID and DateCreated
// are left for the ledger to assign.
func NewPayrollRecord(run *PayrollRunResult) *PayrollRecord {
	return &PayrollRecord{
		DateStart: run.Period.Start,
		DateEnd:   run.Period.End,
		TotalCost: run.GrandTotal.Round(MoneyPlaces),
		Details:   FormatDetails(run.LineItems),
	}
}

// Period returns the record's pay period.
func (r *PayrollRecord) Period() Period {
	return Period{Start: r.DateStart, End: r.DateEnd}
}

// Lines parses the record's details.
func (r *PayrollRecord) Lines() ([]DetailLine, error) {
	return ParseDetails(r.Details)
}

// Verify checks that TotalCost equals the sum of the gross figures in Details.
func (r *PayrollRecord) Verify() error {
	lines, err := r.Lines()
	if err != nil {
		return err
	}
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.GrossPay)
	}
	if !sum.Equal(r.TotalCost) {
		return fmt.Errorf("%w: record %d total %s, details sum %s",
			ErrInconsistentLedger, r.ID, r.TotalCost.StringFixed(MoneyPlaces), sum.StringFixed(MoneyPlaces))
	}
	return nil
}

// FormatDetails serializes line items, one per line, as "name: gross (bank, cash)".
func FormatDetails(items []PayLineItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s: %s (%s, %s)",
			NormalizeName(it.Name),
			it.GrossPay.StringFixed(MoneyPlaces),
			it.BankPay.StringFixed(MoneyPlaces),
			it.CashPay.StringFixed(MoneyPlaces),
		))
	}
	return strings.Join(lines, "\n")
}

// ParseDetails is the inverse of FormatDetails.
func ParseDetails(details string) ([]DetailLine, error) {
	if strings.TrimSpace(details) == "" {
		return []DetailLine{}, nil
	}

	raw := strings.Split(details, "\n")
	lines := make([]DetailLine, 0, len(raw))
	for i, l := range raw {
		m := detailLineRegex.FindStringSubmatch(strings.TrimRight(l, "\r"))
		if m == nil {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedDetails, i+1, l)
		}
		lines = append(lines, DetailLine{
			Name:     m[1],
			GrossPay: decimal.RequireFromString(m[2]),
			BankPay:  decimal.RequireFromString(m[3]),
			CashPay:  decimal.RequireFromString(m[4]),
		})
	}
	return lines, nil
}
