package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/iho/payroll/internal/domain"
	"github.com/iho/payroll/internal/infrastructure/metrics"
)

// LedgerUseCase is the append-only payroll history.
type LedgerUseCase struct {
	txManager   TransactionManager
	payrollRepo PayrollRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	payrollRepo PayrollRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		payrollRepo: payrollRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		metrics:     metrics,
		now:         time.Now,
	}
}

// WithClock replaces the clock used for date_created.
func (uc *LedgerUseCase) WithClock(now func() time.Time) *LedgerUseCase {
	uc.now = now
	return uc
}

// Commit appends a record for run and returns it with its ID and date_created set.
//
// Appends are serialized by a table lock held for the transaction, so IDs and
// creation times increase together. run is never modified; on failure the
// caller may retry Commit with the same value.
func (uc *LedgerUseCase) Commit(ctx context.Context, run *domain.PayrollRunResult) (*domain.PayrollRecord, error) {
	if run == nil {
		return nil, &domain.InputError{Field: "run", Reason: "is required"}
	}
	if err := run.Period.Validate(); err != nil {
		return nil, err
	}
	if len(run.LineItems) == 0 {
		return nil, &domain.InputError{Field: "employees", Reason: "must not be empty"}
	}

	start := time.Now()
	rec := domain.NewPayrollRecord(run)

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, persistenceError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.payrollRepo.LockForAppend(txCtx, tx); err != nil {
		return nil, persistenceError("lock payroll history", err)
	}

	// Postgres keeps microseconds.
	rec.DateCreated = uc.now().UTC().Truncate(time.Microsecond)

	if err := uc.payrollRepo.Append(txCtx, tx, rec); err != nil {
		return nil, persistenceError("append payroll record", err)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   strconv.FormatInt(rec.ID, 10),
		AggregateType: domain.AggregateTypePayroll,
		EventType:     domain.EventTypePayrollCommitted,
		Payload:       domain.NewPayrollCommittedEvent(rec, len(run.LineItems)).Payload(),
		CreatedAt:     rec.DateCreated,
		Published:     false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, persistenceError("write outbox event", err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, persistenceError("commit transaction", err)
	}

	if uc.metrics != nil {
		uc.metrics.RunsCommitted.Inc()
		uc.metrics.RunGrandTotal.Set(rec.TotalCost.InexactFloat64())
		uc.metrics.RunEmployees.Observe(float64(len(run.LineItems)))
		uc.metrics.CommitDuration.Observe(time.Since(start).Seconds())
	}

	return rec, nil
}

// GetRecord retrieves a history record by ID.
func (uc *LedgerUseCase) GetRecord(ctx context.Context, id int64) (*domain.PayrollRecord, error) {
	return uc.payrollRepo.GetByID(ctx, id)
}

// ListHistory lists records newest first. A limit <= 0 lists every record.
func (uc *LedgerUseCase) ListHistory(ctx context.Context, limit, offset int) ([]*domain.PayrollRecord, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.payrollRepo.List(ctx, limit, offset)
}

// ConsistencyReport is the outcome of a full ledger check.
type ConsistencyReport struct {
	Checked      int
	Inconsistent []InconsistentRecord
}

// InconsistentRecord names a record whose details do not add up to its total.
type InconsistentRecord struct {
	ID     int64
	Reason string
}

// Consistent reports whether every checked record passed.
func (r *ConsistencyReport) Consistent() bool {
	return len(r.Inconsistent) == 0
}

// CheckConsistency re-parses every record and compares its details to its total cost.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	records, err := uc.payrollRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{Checked: len(records), Inconsistent: []InconsistentRecord{}}
	for _, rec := range records {
		if err := rec.Verify(); err != nil {
			report.Inconsistent = append(report.Inconsistent, InconsistentRecord{ID: rec.ID, Reason: err.Error()})
		}
	}

	return report, nil
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistenceFailure, op, err)
}
