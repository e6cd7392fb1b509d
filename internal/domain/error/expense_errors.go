package error

import "errors"

// Expense domain errors.
var (
	// ErrExpenseNotFound is returned when an expense does not exist.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrExpenseNotOwned is returned when the expense belongs to another user.
	ErrExpenseNotOwned = errors.New("expense does not belong to user")

	// ErrInvalidAmount is returned when the amount cannot be parsed as a number.
	ErrInvalidAmount = errors.New("invalid amount")
)

// ExpenseErrorCode defines error codes for expense errors.
// Format: EXP-XXYYYY where XX is category and YYYY is specific error.
type ExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeExpenseMissingFields ExpenseErrorCode = "EXP-010001"
	ErrCodeExpenseInvalidAmount ExpenseErrorCode = "EXP-010002"

	// Lookup errors (02XXXX)
	ErrCodeExpenseNotFound ExpenseErrorCode = "EXP-020001"
	ErrCodeExpenseNotOwned ExpenseErrorCode = "EXP-020002"

	// Storage errors (03XXXX)
	ErrCodeExpenseStorage ExpenseErrorCode = "EXP-030001"
)

// ExpenseError represents an expense error with code and message.
type ExpenseError struct {
	Code    ExpenseErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// NewExpenseError creates a new ExpenseError with the given code and message.
func NewExpenseError(code ExpenseErrorCode, message string, err error) *ExpenseError {
	return &ExpenseError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
