package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidKind          = errors.New("invalid transaction kind")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrBudgetExceedsIncome  = errors.New("total budget exceeds income")
	ErrMalformedImportData  = errors.New("malformed import data")
	ErrCorruptSnapshot      = errors.New("corrupt snapshot")
	ErrPersistence          = errors.New("persistence failure")
	ErrInvalidIdentity      = errors.New("invalid identity")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrInvalidDate          = errors.New("invalid date")
)

// RowError locates a malformed import row. Row is 1-based and counts data rows only.
type RowError struct {
	Row   int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: %s: %v", e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Unwrap exposes both the taxonomy error and the cause.
func (e *RowError) Unwrap() []error {
	return []error{ErrMalformedImportData, e.Err}
}
