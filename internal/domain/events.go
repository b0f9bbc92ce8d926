package domain

import "time"

// Event types
const (
	EventTypePayrollCommitted = "payroll.committed"
)

// Aggregate types
const (
	AggregateTypePayroll = "payroll"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// PayrollCommittedEvent payload
type PayrollCommittedEvent struct {
	PayrollID   int64  `json:"payroll_id"`
	DateStart   string `json:"date_start"`
	DateEnd     string `json:"date_end"`
	TotalCost   string `json:"total_cost"`
	Employees   int    `json:"employees"`
	DateCreated string `json:"date_created"`
}

// NewPayrollCommittedEvent describes a committed record.
func NewPayrollCommittedEvent(rec *PayrollRecord, employees int) PayrollCommittedEvent {
	return PayrollCommittedEvent{
		PayrollID:   rec.ID,
		DateStart:   rec.DateStart.Format(DateLayout),
		DateEnd:     rec.DateEnd.Format(DateLayout),
		TotalCost:   rec.TotalCost.StringFixed(MoneyPlaces),
		Employees:   employees,
		DateCreated: rec.DateCreated.Format(TimestampLayout),
	}
}

// Payload returns the event as an outbox payload.
func (e PayrollCommittedEvent) Payload() map[string]any {
	return map[string]any{
		"payroll_id":   e.PayrollID,
		"date_start":   e.DateStart,
		"date_end":     e.DateEnd,
		"total_cost":   e.TotalCost,
		"employees":    e.Employees,
		"date_created": e.DateCreated,
	}
}
