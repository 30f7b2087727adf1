package dca

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the caller supplied an invalid value.
	// The error is always an [*InputError] that names the field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoData is returned when a price series is empty.
	ErrNoData = errors.New("no data")
	// ErrNoOverlap is returned when two price series have no date in common.
	ErrNoOverlap = errors.New("no overlapping dates")
	// ErrUpstream is returned by market data providers when they fail to retrieve a series.
	ErrUpstream = errors.New("upstream failure")
	// ErrDegenerateCorrelation is returned when a correlation cannot be defined,
	// because one of the series has no variance.
	ErrDegenerateCorrelation = errors.New("degenerate correlation")
)

// InputError reports which field violates which constraint.
type InputError struct {
	Field      string // name of the offending field, e.g. "amount" or "samples[3].close"
	Constraint string // the violated constraint, e.g. "must be positive"
	Value      any    // the offending value, if any
}

func (e *InputError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid input: %s %s", e.Field, e.Constraint)
	}
	return fmt.Sprintf("invalid input: %s %s, got %v", e.Field, e.Constraint, e.Value)
}

// Is makes errors.Is(err, ErrInvalidInput) true for every InputError.
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(field, constraint string, value any) error {
	return &InputError{Field: field, Constraint: constraint, Value: value}
}
