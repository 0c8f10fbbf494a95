package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Load errors
	ErrDataLoad       = errors.New("data load failed")
	ErrMissingColumn  = fmt.Errorf("%w: required column missing", ErrDataLoad)
	ErrNoParsableRows = fmt.Errorf("%w: no parsable rows", ErrDataLoad)

	// Validation errors
	ErrValidation        = errors.New("invalid filter criteria")
	ErrWrappingHourRange = fmt.Errorf("%w: hour range wraps past midnight", ErrValidation)
)

// Error constructors with context
func NewDataLoadError(path string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrDataLoad, path, cause)
}

func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, column)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, reason)
}

// Error checking helpers
func IsDataLoadError(err error) bool {
	return errors.Is(err, ErrDataLoad)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
