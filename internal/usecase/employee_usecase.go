package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/payroll/internal/domain"
	"github.com/iho/payroll/internal/infrastructure/metrics"
)

// EmployeeUseCase handles the roster.
type EmployeeUseCase struct {
	employeeRepo EmployeeRepository
	metrics      *metrics.Metrics
}

// NewEmployeeUseCase creates a new EmployeeUseCase.
func NewEmployeeUseCase(employeeRepo EmployeeRepository, metrics *metrics.Metrics) *EmployeeUseCase {
	return &EmployeeUseCase{
		employeeRepo: employeeRepo,
		metrics:      metrics,
	}
}

// CreateEmployeeInput represents input for adding an employee.
type CreateEmployeeInput struct {
	Name         string
	DailyWage    decimal.Decimal
	OvertimeCost decimal.Decimal
	BankLimit    decimal.Decimal
}

// CreateEmployee adds an active employee to the roster.
func (uc *EmployeeUseCase) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error) {
	now := time.Now().UTC()

	employee := &domain.Employee{
		Name:         domain.NormalizeName(input.Name),
		DailyWage:    input.DailyWage,
		OvertimeCost: input.OvertimeCost,
		BankLimit:    input.BankLimit,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := employee.Validate(); err != nil {
		return nil, err
	}

	if err := uc.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EmployeesCreated.Inc()
	}

	return employee, nil
}

// GetEmployee retrieves an employee by ID, active or not.
func (uc *EmployeeUseCase) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	return uc.employeeRepo.GetByID(ctx, id)
}

// ListEmployees lists active employees in roster order.
func (uc *EmployeeUseCase) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	return uc.employeeRepo.ListActive(ctx)
}

// UpdateEmployeeInput holds the fields to change; nil fields are kept.
type UpdateEmployeeInput struct {
	Name         *string
	DailyWage    *decimal.Decimal
	OvertimeCost *decimal.Decimal
	BankLimit    *decimal.Decimal
}

// UpdateEmployee changes the name or wage terms of an employee.
// Past payroll records keep the figures they were computed with.
func (uc *EmployeeUseCase) UpdateEmployee(ctx context.Context, id int64, input UpdateEmployeeInput) (*domain.Employee, error) {
	employee, err := uc.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		employee.Name = domain.NormalizeName(*input.Name)
	}
	if input.DailyWage != nil {
		employee.DailyWage = *input.DailyWage
	}
	if input.OvertimeCost != nil {
		employee.OvertimeCost = *input.OvertimeCost
	}
	if input.BankLimit != nil {
		employee.BankLimit = *input.BankLimit
	}

	if err := employee.Validate(); err != nil {
		return nil, err
	}

	employee.UpdatedAt = time.Now().UTC()
	if err := uc.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}

	return employee, nil
}

// DeactivateEmployee hides an employee from the roster. Employees are never deleted.
func (uc *EmployeeUseCase) DeactivateEmployee(ctx context.Context, id int64) error {
	if err := uc.employeeRepo.Deactivate(ctx, id, time.Now().UTC()); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.EmployeesDeactivated.Inc()
	}

	return nil
}
