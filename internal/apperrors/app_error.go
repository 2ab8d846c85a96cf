package apperrors

import "fmt"

// AppError carries an HTTP-ish status code alongside the wrapped cause.
// Repositories use it to report storage failures without leaking driver
// details to callers.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound via errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// UnbalancedEntryError reports a debit/credit mismatch at booking creation.
// Sums are integer minor currency units. It matches ErrValidation via
// errors.Is so the HTTP layer treats it as a client error.
type UnbalancedEntryError struct {
	DebitSum  int64
	CreditSum int64
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("journal entry is unbalanced: debit sum is %d, credit sum is %d (minor units)", e.DebitSum, e.CreditSum)
}

func (e *UnbalancedEntryError) Unwrap() error {
	return ErrValidation
}
