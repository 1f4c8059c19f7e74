package somgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/somgo/blobstore"
	"github.com/hupe1980/somgo/som"
)

var (
	// ErrEmptyInput is returned when there are no input vectors.
	ErrEmptyInput = errors.New("empty input")

	// ErrDegenerateVector is returned when an input vector has zero norm.
	ErrDegenerateVector = errors.New("degenerate vector")

	// ErrNonFiniteValue is returned when an input vector has a NaN or infinite component.
	ErrNonFiniteValue = errors.New("non-finite value")

	// ErrConfiguration is returned for invalid margins, schedules or grid shapes.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNotFound is returned when a snapshot or its CURRENT pointer does not exist.
	ErrNotFound = errors.New("not found")
)

// ErrDimensionMismatch indicates a vector whose dimensionality differs from
// the rest of the input or from the trained map.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Index    int
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch at vector %d: expected %d, got %d", e.Index, e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, som.ErrEmptyInput) {
		return fmt.Errorf("%w: %w", ErrEmptyInput, err)
	}
	var dv *som.DegenerateVectorError
	if errors.As(err, &dv) {
		return fmt.Errorf("%w: %w", ErrDegenerateVector, err)
	}
	var nf *som.NonFiniteError
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %w", ErrNonFiniteValue, err)
	}
	var ce *som.ConfigurationError
	if errors.As(err, &ce) {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	var dm *som.DimensionMismatchError
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Index: dm.Index, Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}
