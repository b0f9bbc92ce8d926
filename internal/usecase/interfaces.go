package usecase

import (
	"context"
	"io"
	"time"

	"github.com/iho/payroll/internal/domain"
	"github.com/iho/payroll/internal/report"
)

// EmployeeRepository defines data access for the roster.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	// GetByIDs returns the employees in the order of ids, failing if any is unknown.
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Employee, error)
	ListActive(ctx context.Context) ([]*domain.Employee, error)
	Update(ctx context.Context, employee *domain.Employee) error
	Deactivate(ctx context.Context, id int64, updatedAt time.Time) error
}

// PayrollRepository defines data access for the payroll history.
// There is deliberately no update or delete.
type PayrollRepository interface {
	// LockForAppend serializes appends for the lifetime of tx.
	LockForAppend(ctx context.Context, tx Transaction) error
	// Append inserts record and assigns its ID.
	Append(ctx context.Context, tx Transaction, record *domain.PayrollRecord) error
	GetByID(ctx context.Context, id int64) (*domain.PayrollRecord, error)
	// List returns records newest first. A limit <= 0 returns every record.
	List(ctx context.Context, limit, offset int) ([]*domain.PayrollRecord, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// PayrollLedger is the history ledger as seen by the payroll pipeline.
type PayrollLedger interface {
	Commit(ctx context.Context, run *domain.PayrollRunResult) (*domain.PayrollRecord, error)
	GetRecord(ctx context.Context, id int64) (*domain.PayrollRecord, error)
}

// ReportRenderer turns a report into a printable artifact.
type ReportRenderer interface {
	Format() string
	ContentType() string
	Render(w io.Writer, r *report.Report) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations. Entries are never invalidated, so only
// immutable values may be cached.
type Cache interface {
	// Get returns found=false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}
