package handler

import (
	"context"
	"net/http"

	"github.com/iho/payroll/internal/adapter/http/dto"
	"github.com/iho/payroll/internal/domain"
	"github.com/iho/payroll/internal/usecase"
)

// EmployeeService is the roster as used by the HTTP layer.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, input usecase.CreateEmployeeInput) (*domain.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]*domain.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, input usecase.UpdateEmployeeInput) (*domain.Employee, error)
	DeactivateEmployee(ctx context.Context, id int64) error
}

// EmployeeHandler handles roster requests.
type EmployeeHandler struct {
	employees EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(employees EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// Create handles POST /employees.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	employee, err := h.employees.CreateEmployee(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EmployeeFromDomain(employee))
}

// List handles GET /employees. Only active employees are listed.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.ListEmployees(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EmployeesFromDomain(employees))
}

// Get handles GET /employees/{id}.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	employee, err := h.employees.GetEmployee(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EmployeeFromDomain(employee))
}

// Update handles PATCH /employees/{id}.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	employee, err := h.employees.UpdateEmployee(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EmployeeFromDomain(employee))
}

// Deactivate handles DELETE /employees/{id}. The employee stays on file.
func (h *EmployeeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.employees.DeactivateEmployee(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
