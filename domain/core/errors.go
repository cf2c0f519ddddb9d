package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrSuiteNotFound  = fmt.Errorf("%w: expectation suite", ErrNotFound)
	ErrReportNotFound = fmt.Errorf("%w: report", ErrNotFound)
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)

	// Dataset errors
	ErrEmptyDataset    = errors.New("dataset is nil or has no rows")
	ErrUnsupportedFile = errors.New("unsupported file type")

	// Expectation errors
	ErrUnknownExpectation = errors.New("unknown expectation type")
	ErrBadExpectationArgs = errors.New("invalid expectation kwargs")
)

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
}

func NewExpectationArgError(expectationType, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrBadExpectationArgs, expectationType, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
