package domain

import (
	"fmt"
	"time"
)

// Layouts used when dates and timestamps leave the system as text.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Period is an inclusive pay period.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod returns a period truncated to whole days. Start must not be after end.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: truncateDay(start), End: truncateDay(end)}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// ParsePeriod parses two dates in DateLayout.
func ParsePeriod(start, end string) (Period, error) {
	s, err := ParseDate("date_start", start)
	if err != nil {
		return Period{}, err
	}
	e, err := ParseDate("date_end", end)
	if err != nil {
		return Period{}, err
	}
	return NewPeriod(s, e)
}

// ParseDate parses a DateLayout date, reporting failures against field.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, invalidField(field, fmt.Sprintf("must be a date in %s format", DateLayout))
	}
	return t, nil
}

func (p Period) Validate() error {
	if p.Start.IsZero() {
		return invalidField("date_start", "is required")
	}
	if p.End.IsZero() {
		return invalidField("date_end", "is required")
	}
	if p.Start.After(p.End) {
		return invalidField("date_start", "must not be after date_end")
	}
	return nil
}

func (p Period) String() string {
	return p.Start.Format(DateLayout) + " to " + p.End.Format(DateLayout)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
