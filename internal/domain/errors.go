package domain

import (
	"errors"
	"fmt"
)

var (
	// Error kinds. Every error returned by the payroll core wraps exactly one of these.
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingWorkInput   = errors.New("missing work input")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrRenderingFailure   = errors.New("rendering failure")

	// Lookup errors
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrPayrollRecordNotFound = errors.New("payroll record not found")

	// Ledger errors
	ErrMalformedDetails   = errors.New("malformed payroll details")
	ErrInconsistentLedger = errors.New("ledger is inconsistent: total cost does not match details")
)

// InputError reports a negative or malformed field on wage terms or work inputs.
type InputError struct {
	Field      string
	EmployeeID int64
	Reason     string
}

func (e *InputError) Error() string {
	if e.EmployeeID != 0 {
		return fmt.Sprintf("%s: employee %d: %s %s", ErrInvalidInput, e.EmployeeID, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// MissingWorkInputError is returned when an employee selected for a run has no work input.
type MissingWorkInputError struct {
	EmployeeID int64
	Name       string
}

func (e *MissingWorkInputError) Error() string {
	return fmt.Sprintf("%s for employee %d (%s)", ErrMissingWorkInput, e.EmployeeID, e.Name)
}

func (e *MissingWorkInputError) Unwrap() error {
	return ErrMissingWorkInput
}

func invalidField(field, reason string) *InputError {
	return &InputError{Field: field, Reason: reason}
}

// withEmployee attaches an employee ID to an InputError, leaving other errors untouched.
func withEmployee(err error, employeeID int64) error {
	var inputErr *InputError
	if errors.As(err, &inputErr) && inputErr.EmployeeID == 0 {
		return &InputError{Field: inputErr.Field, EmployeeID: employeeID, Reason: inputErr.Reason}
	}
	return err
}

// Kind names the error kind of err, for responses and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrMissingWorkInput):
		return "missing_work_input"
	case errors.Is(err, ErrEmployeeNotFound), errors.Is(err, ErrPayrollRecordNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformedDetails), errors.Is(err, ErrInconsistentLedger):
		return "inconsistent_ledger"
	case errors.Is(err, ErrRenderingFailure):
		return "rendering_failure"
	case errors.Is(err, ErrPersistenceFailure):
		return "persistence_failure"
	default:
		return "internal"
	}
}
