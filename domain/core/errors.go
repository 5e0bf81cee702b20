package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrValidationFailed reports that the feasibility oracle rejected a
	// parameter combination. It is an expected outcome, not a fault.
	ErrValidationFailed = errors.New("parameter combination rejected")

	// ErrToggleRefused reports that flipping a boolean parameter was refused
	// because the opposite value is infeasible.
	ErrToggleRefused = fmt.Errorf("%w: toggle refused", ErrValidationFailed)

	// Lookup and shape errors
	ErrPropertyNotFound = errors.New("property not found")
	ErrKindMismatch     = errors.New("property kind mismatch")
	ErrNotSearchable    = errors.New("property kind not searchable")

	// Persistence errors
	ErrParseFailure = errors.New("malformed preamble value")
	ErrBuildFailure = errors.New("sequence build failed")
)

// Error constructors with context
func NewPropertyNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrPropertyNotFound, name)
}

func NewKindMismatchError(name string, want, got string) error {
	return fmt.Errorf("%w: %q is %s, expected %s", ErrKindMismatch, name, got, want)
}

func NewParseError(name, token string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: field %q token %q: %v", ErrParseFailure, name, token, cause)
	}
	return fmt.Errorf("%w: field %q token %q", ErrParseFailure, name, token)
}

func NewBuildError(cause error) error {
	return fmt.Errorf("%w: %v", ErrBuildFailure, cause)
}

// Error checking helpers
func IsValidationFailure(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

func IsParseFailure(err error) bool {
	return errors.Is(err, ErrParseFailure)
}

func IsBuildFailure(err error) bool {
	return errors.Is(err, ErrBuildFailure)
}
