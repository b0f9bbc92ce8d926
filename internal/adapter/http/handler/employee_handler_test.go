package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/payroll/internal/adapter/http/dto"
	"github.com/iho/payroll/internal/domain"
	"github.com/iho/payroll/internal/usecase"
)

type stubEmployeeService struct {
	employees map[int64]*domain.Employee
	nextID    int64
}

func newStubEmployeeService() *stubEmployeeService {
	return &stubEmployeeService{employees: map[int64]*domain.Employee{}, nextID: 1}
}

func (s *stubEmployeeService) CreateEmployee(_ context.Context, input usecase.CreateEmployeeInput) (*domain.Employee, error) {
	e := &domain.Employee{
		ID:           s.nextID,
		Name:         domain.NormalizeName(input.Name),
		DailyWage:    input.DailyWage,
		OvertimeCost: input.OvertimeCost,
		BankLimit:    input.BankLimit,
		IsActive:     true,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	s.employees[e.ID] = e
	s.nextID++
	return e, nil
}

func (s *stubEmployeeService) GetEmployee(_ context.Context, id int64) (*domain.Employee, error) {
	e, ok := s.employees[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrEmployeeNotFound, id)
	}
	return e, nil
}

func (s *stubEmployeeService) ListEmployees(context.Context) ([]*domain.Employee, error) {
	var out []*domain.Employee
	for id := int64(1); id < s.nextID; id++ {
		if e, ok := s.employees[id]; ok && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEmployeeService) UpdateEmployee(ctx context.Context, id int64, input usecase.UpdateEmployeeInput) (*domain.Employee, error) {
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.BankLimit != nil {
		e.BankLimit = *input.BankLimit
	}
	return e, e.Validate()
}

func (s *stubEmployeeService) DeactivateEmployee(ctx context.Context, id int64) error {
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	e.IsActive = false
	return nil
}

func newEmployeeRouter(h *EmployeeHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/employees", h.Create)
	r.Get("/employees", h.List)
	r.Get("/employees/{id}", h.Get)
	r.Patch("/employees/{id}", h.Update)
	r.Delete("/employees/{id}", h.Deactivate)
	return r
}

func TestEmployeeHandler_Lifecycle(t *testing.T) {
	svc := newStubEmployeeService()
	router := newEmployeeRouter(NewEmployeeHandler(svc))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/employees",
		strings.NewReader(`{"name":" Anna ","daily_wage":"50","overtime_cost":"10","bank_limit":"100"}`)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created dto.EmployeeResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.Equal(t, "Anna", created.Name)
	assert.True(t, created.IsActive)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/employees/1", strings.NewReader(`{"bank_limit":"0"}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/employees/1", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/employees", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, strings.TrimSpace(rr.Body.String()))

	// Deactivated employees are still on file.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/employees/1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestEmployeeHandler_Errors(t *testing.T) {
	router := newEmployeeRouter(NewEmployeeHandler(newStubEmployeeService()))

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"negative wage", http.MethodPost, "/employees", `{"name":"Anna","daily_wage":"-1","overtime_cost":"0","bank_limit":"0"}`, http.StatusBadRequest, "daily_wage"},
		{"blank name", http.MethodPost, "/employees", `{"name":"  ","daily_wage":"1","overtime_cost":"0","bank_limit":"0"}`, http.StatusBadRequest, "name"},
		{"unknown employee", http.MethodGet, "/employees/42", "", http.StatusNotFound, ""},
		{"bad id", http.MethodDelete, "/employees/x", "", http.StatusBadRequest, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rr.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.wantField, resp.Field)
		})
	}
}
