package som

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when an operation receives no vectors.
	ErrEmptyInput = errors.New("som: empty input")

	// ErrNoBMU is returned by a search whose distances are all NaN.
	ErrNoBMU = errors.New("som: no best-matching unit")
)

// DegenerateVectorError indicates a vector with zero Euclidean norm.
type DegenerateVectorError struct {
	// Index is the position of the vector in the input sequence.
	Index int
}

func (e *DegenerateVectorError) Error() string {
	return fmt.Sprintf("som: vector %d has zero norm", e.Index)
}

// NonFiniteError indicates a vector with a NaN or infinite component.
type NonFiniteError struct {
	// Index is the position of the vector in the input sequence.
	Index int
	// Component is the offending feature index.
	Component int
	// Value is the rejected feature.
	Value float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("som: vector %d: component %d is %v", e.Index, e.Component, e.Value)
}

// DimensionMismatchError indicates vectors of unequal feature count.
type DimensionMismatchError struct {
	Index    int
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("som: vector %d: dimension mismatch: expected %d, got %d", e.Index, e.Expected, e.Actual)
}

// ConfigurationError indicates parameters that cannot produce a viable map.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("som: invalid configuration: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
