package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that an attempt was made to create a resource that already exists,
// or that a unique identifier could not be allocated.
var ErrConflict = errors.New("resource conflict")

// ErrDuplicate indicates a uniqueness constraint violation at the storage layer.
// Callers that retry (account number allocation) match on this specifically.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidOperation indicates an operation that is illegal in the current state,
// e.g. closing an account that is already closed or holds a nonzero balance.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrInsufficientFunds indicates a withdrawal that would drive an account balance
// negative. It is a state error, not a validation error.
var ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrInvalidOperation)

// ErrUnsupportedTransactionType indicates a transaction type other than DEPOSIT or WITHDRAWAL.
var ErrUnsupportedTransactionType = fmt.Errorf("%w: unsupported transaction type", ErrInvalidOperation)

// ErrNoChanges is the distinguishable outcome of a field-level patch where every
// supplied field already matches the stored state. It is neither a failure nor a
// success-with-effect; handlers surface it as a 200 carrying the current state.
var ErrNoChanges = errors.New("no changes detected")

// AppError carries infrastructure failures (storage unavailable, timeouts) with an
// HTTP-equivalent code. These are deliberately kept out of the business error
// taxonomy above so callers can treat them as transient.
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

// NewAppError creates an AppError wrapping an underlying infrastructure error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
