package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/payroll/internal/domain"
	"github.com/iho/payroll/internal/infrastructure/postgres/generated"
)

// EmployeeRepository implements usecase.EmployeeRepository.
type EmployeeRepository struct {
	queries *generated.Queries
}

// NewEmployeeRepository creates a new EmployeeRepository.
func NewEmployeeRepository(db generated.DBTX) *EmployeeRepository {
	return &EmployeeRepository{
		queries: generated.New(db),
	}
}

// Create inserts an employee and assigns its ID.
func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	row, err := r.queries.CreateEmployee(ctx, generated.CreateEmployeeParams{
		Name:         employee.Name,
		DailyWage:    decimalToNumeric(employee.DailyWage),
		OvertimeCost: decimalToNumeric(employee.OvertimeCost),
		BankLimit:    decimalToNumeric(employee.BankLimit),
		IsActive:     employee.IsActive,
		CreatedAt:    timeToPgTimestamptz(employee.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(employee.UpdatedAt),
	})
	if err != nil {
		return err
	}

	employee.ID = row.ID
	employee.CreatedAt = row.CreatedAt.Time
	employee.UpdatedAt = row.UpdatedAt.Time

	return nil
}

// GetByID retrieves an employee by ID, active or not.
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	row, err := r.queries.GetEmployeeByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrEmployeeNotFound, id)
		}

		return nil, err
	}

	return rowToEmployee(row)
}

// GetByIDs retrieves employees in the order of ids.
func (r *EmployeeRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Employee, error) {
	rows, err := r.queries.GetEmployeesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Employee, len(rows))
	for _, row := range rows {
		e, err := rowToEmployee(row)
		if err != nil {
			return nil, err
		}
		byID[e.ID] = e
	}

	employees := make([]*domain.Employee, 0, len(ids))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", domain.ErrEmployeeNotFound, id)
		}
		employees = append(employees, e)
	}

	return employees, nil
}

// ListActive lists active employees ordered by ID.
func (r *EmployeeRepository) ListActive(ctx context.Context) ([]*domain.Employee, error) {
	rows, err := r.queries.ListActiveEmployees(ctx)
	if err != nil {
		return nil, err
	}

	employees := make([]*domain.Employee, 0, len(rows))
	for _, row := range rows {
		e, err := rowToEmployee(row)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	return employees, nil
}

// Update stores the name and wage terms of an employee.
func (r *EmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	n, err := r.queries.UpdateEmployee(ctx, generated.UpdateEmployeeParams{
		ID:           employee.ID,
		Name:         employee.Name,
		DailyWage:    decimalToNumeric(employee.DailyWage),
		OvertimeCost: decimalToNumeric(employee.OvertimeCost),
		BankLimit:    decimalToNumeric(employee.BankLimit),
		UpdatedAt:    timeToPgTimestamptz(employee.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrEmployeeNotFound, employee.ID)
	}

	return nil
}

// Deactivate clears is_active. The row itself is kept.
func (r *EmployeeRepository) Deactivate(ctx context.Context, id int64, updatedAt time.Time) error {
	n, err := r.queries.DeactivateEmployee(ctx, generated.DeactivateEmployeeParams{
		ID:        id,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrEmployeeNotFound, id)
	}

	return nil
}

func rowToEmployee(row generated.Employee) (*domain.Employee, error) {
	dailyWage, err := numericToDecimal(row.DailyWage)
	if err != nil {
		return nil, fmt.Errorf("employee %d daily_wage: %w", row.ID, err)
	}
	overtimeCost, err := numericToDecimal(row.OvertimeCost)
	if err != nil {
		return nil, fmt.Errorf("employee %d overtime_cost: %w", row.ID, err)
	}
	bankLimit, err := numericToDecimal(row.BankLimit)
	if err != nil {
		return nil, fmt.Errorf("employee %d bank_limit: %w", row.ID, err)
	}

	return &domain.Employee{
		ID:           row.ID,
		Name:         row.Name,
		DailyWage:    dailyWage,
		OvertimeCost: overtimeCost,
		BankLimit:    bankLimit,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}, nil
}
