package domain

import (
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Validation constants
const (
	MaxEmployeeNameLength = 255
	MaxPageSize           = 500
	MaxPageOffset         = math.MaxInt32
)

// Wage terms are stored as NUMERIC(16,4).
const (
	WageScale         = 4
	maxWageIntegerLen = 12
)

var maxWageAmount = decimal.New(1, maxWageIntegerLen)

// ValidateWageAmount checks that a wage term is stored without rounding.
func ValidateWageAmount(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(WageScale)) {
		return invalidField(field, "must have at most 4 decimal places")
	}
	if amount.Abs().GreaterThanOrEqual(maxWageAmount) {
		return invalidField(field, "is too large")
	}
	return nil
}

// NormalizeName trims the name, collapses line breaks into spaces and
// converts it to NFC so the same name always serializes to the same bytes.
func NormalizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, name)
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidateEmployeeName validates an employee display name
func ValidateEmployeeName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return invalidField("name", "must not be empty")
	}

	if len([]rune(name)) > MaxEmployeeNameLength {
		return invalidField("name", "is too long")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return invalidField("name", "contains control characters")
		}
	}

	return nil
}

// ValidatePagination clamps list parameters to sane values.
func ValidatePagination(limit, offset int) (int, int) {
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	if offset > MaxPageOffset {
		offset = MaxPageOffset
	}
	return limit, offset
}
