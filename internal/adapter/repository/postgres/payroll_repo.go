package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/payroll/internal/domain"
	"github.com/iho/payroll/internal/infrastructure/postgres/generated"
	"github.com/iho/payroll/internal/usecase"
)

// PayrollRepository implements usecase.PayrollRepository on payroll_history.
type PayrollRepository struct {
	queries *generated.Queries
}

// NewPayrollRepository creates a new PayrollRepository.
func NewPayrollRepository(db generated.DBTX) *PayrollRepository {
	return &PayrollRepository{
		queries: generated.New(db),
	}
}

// LockForAppend takes a table lock that conflicts with itself, so concurrent
// commits are applied one after another. Readers are not blocked.
func (r *PayrollRepository) LockForAppend(ctx context.Context, tx usecase.Transaction) error {
	queries, err := txQueries(r.queries, tx)
	if err != nil {
		return err
	}

	return queries.LockPayrollHistory(ctx)
}

// Append inserts the record and fills in its ID and creation time.
func (r *PayrollRepository) Append(ctx context.Context, tx usecase.Transaction, record *domain.PayrollRecord) error {
	queries, err := txQueries(r.queries, tx)
	if err != nil {
		return err
	}

	row, err := queries.AppendPayrollRecord(ctx, generated.AppendPayrollRecordParams{
		DateCreated: timeToPgTimestamptz(record.DateCreated),
		DateStart:   timeToPgDate(record.DateStart),
		DateEnd:     timeToPgDate(record.DateEnd),
		TotalCost:   decimalToNumeric(record.TotalCost),
		Details:     record.Details,
	})
	if err != nil {
		return err
	}

	record.ID = row.ID
	record.DateCreated = row.DateCreated.Time

	return nil
}

// GetByID retrieves a record by ID.
func (r *PayrollRepository) GetByID(ctx context.Context, id int64) (*domain.PayrollRecord, error) {
	row, err := r.queries.GetPayrollRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrPayrollRecordNotFound, id)
		}

		return nil, err
	}

	return rowToPayrollRecord(row)
}

// List returns records newest first. A limit <= 0 returns every record.
func (r *PayrollRepository) List(ctx context.Context, limit, offset int) ([]*domain.PayrollRecord, error) {
	var (
		rows []generated.PayrollHistory
		err  error
	)
	if limit <= 0 {
		rows, err = r.queries.ListAllPayrollRecords(ctx)
	} else {
		rows, err = r.queries.ListPayrollRecords(ctx, generated.ListPayrollRecordsParams{
			Limit:  int32(limit),
			Offset: int32(offset),
		})
	}
	if err != nil {
		return nil, err
	}

	records := make([]*domain.PayrollRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := rowToPayrollRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func rowToPayrollRecord(row generated.PayrollHistory) (*domain.PayrollRecord, error) {
	total, err := numericToDecimal(row.TotalCost)
	if err != nil {
		return nil, fmt.Errorf("payroll %d total_cost: %w", row.ID, err)
	}

	return &domain.PayrollRecord{
		ID:          row.ID,
		DateCreated: row.DateCreated.Time,
		DateStart:   pgDateToTime(row.DateStart),
		DateEnd:     pgDateToTime(row.DateEnd),
		TotalCost:   total,
		Details:     row.Details,
	}, nil
}
