package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to act on the target resource.
var ErrForbidden = errors.New("access to resource forbidden")

// ErrInsufficientFunds indicates that an operation would drive an account balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrNonZeroBalance indicates an account could not be deactivated because it still holds funds.
var ErrNonZeroBalance = errors.New("account balance is not zero")

// ErrUnknownCurrency indicates a currency code absent from the rate table.
var ErrUnknownCurrency = errors.New("unknown currency code")

// ErrRateSourceUnavailable indicates the external FX rate provider failed or returned a bad payload.
var ErrRateSourceUnavailable = errors.New("exchange rate source unavailable")

// ErrConflict indicates a transient concurrency conflict (serialization failure, deadlock).
// Callers may retry a bounded number of times.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrTimeout indicates an operation exceeded its time budget waiting on a lock.
var ErrTimeout = errors.New("operation timed out")

// ErrInternal indicates an unexpected failure whose details must not reach callers.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a message and an optional cause.
// Repositories use it for failures that have no sentinel mapping.
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

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
