package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/payroll/internal/adapter/http/dto"
	"github.com/iho/payroll/internal/domain"
)

const maxRequestBody = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status its kind maps to. Input errors
// carry the offending field and employee so callers can point at them.
func writeDomainError(w http.ResponseWriter, err error) {
	resp := dto.ErrorResponse{
		Error:   domain.Kind(err),
		Message: err.Error(),
		Kind:    domain.Kind(err),
	}

	var inputErr *domain.InputError
	var missingErr *domain.MissingWorkInputError
	switch {
	case errors.As(err, &inputErr):
		resp.Field = inputErr.Field
		resp.EmployeeID = inputErr.EmployeeID
	case errors.As(err, &missingErr):
		resp.EmployeeID = missingErr.EmployeeID
	}

	writeJSON(w, mapDomainError(err), resp)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingWorkInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPayrollRecordNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.InputError{Field: "body", Reason: err.Error()}
	}
	return nil
}

// parseIDParam parses the {id} path parameter.
func parseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.InputError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
