package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/iho/payroll/internal/adapter/http/dto"
	"github.com/iho/payroll/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/payrolls?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/payrolls?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid input", &domain.InputError{Field: "days", Reason: "must not be negative"}, http.StatusBadRequest},
		{"missing work input", &domain.MissingWorkInputError{EmployeeID: 2, Name: "Bill"}, http.StatusUnprocessableEntity},
		{"employee not found", fmt.Errorf("%w: id 9", domain.ErrEmployeeNotFound), http.StatusNotFound},
		{"record not found", domain.ErrPayrollRecordNotFound, http.StatusNotFound},
		{"persistence failure", fmt.Errorf("%w: commit: boom", domain.ErrPersistenceFailure), http.StatusInternalServerError},
		{"rendering failure", domain.ErrRenderingFailure, http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteDomainErrorIncludesFieldAndEmployee(t *testing.T) {
	rr := httptest.NewRecorder()
	writeDomainError(rr, &domain.InputError{Field: "days", EmployeeID: 7, Reason: "must not be negative"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Kind != "invalid_input" || resp.Field != "days" || resp.EmployeeID != 7 {
		t.Fatalf("unexpected error body: %+v", resp)
	}

	rr = httptest.NewRecorder()
	writeDomainError(rr, &domain.MissingWorkInputError{EmployeeID: 2, Name: "Bill"})

	resp = dto.ErrorResponse{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Kind != "missing_work_input" || resp.EmployeeID != 2 {
		t.Fatalf("unexpected error body: %+v", resp)
	}
}
