// Package dataset reads labeled training vectors.
//
// The input format is one vector per line, comma separated, with the label as
// the last field:
//
//	5.1,3.5,1.4,0.2,Iris-setosa
package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hupe1980/somgo/blobstore"
	"github.com/hupe1980/somgo/resource"
	"github.com/hupe1980/somgo/som"
)

// ParseError reports a malformed record.
type ParseError struct {
	Line   int
	Column int
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("dataset: line %d, column %d: %q: %v", e.Line, e.Column, e.Field, e.Err)
	}
	return fmt.Sprintf("dataset: line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrMissingFeatures is wrapped by ParseError when a record has no feature fields.
var ErrMissingFeatures = errors.New("record has no features")

// ErrNonFinite is wrapped by ParseError when a feature parses as NaN or infinity.
var ErrNonFinite = errors.New("feature is not finite")

// Option configures a read.
type Option func(*options)

type options struct {
	comma   rune
	noLabel bool
	rc      *resource.Controller
}

// WithComma sets the field delimiter. Default: ','.
func WithComma(r rune) Option {
	return func(o *options) { o.comma = r }
}

// WithoutLabel treats every field as a feature; vectors get empty labels.
func WithoutLabel() Option {
	return func(o *options) { o.noLabel = true }
}

// WithResourceController throttles reads through rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

func applyOptions(opts []Option) options {
	o := options{comma: ','}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Read parses all records from r.
func Read(r io.Reader, opts ...Option) ([]som.Vector, error) {
	return read(r, applyOptions(opts))
}

func read(r io.Reader, o options) ([]som.Vector, error) {
	cr := csv.NewReader(r)
	cr.Comma = o.comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var (
		out []som.Vector
		dim = -1
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &ParseError{Line: pe.Line, Column: pe.Column, Err: pe.Err}
			}
			return nil, err
		}

		if isBlank(record) {
			continue
		}

		features := record
		label := ""
		if !o.noLabel {
			features = record[:len(record)-1]
			label = strings.TrimSpace(record[len(record)-1])
		}
		if len(features) == 0 {
			line, col := cr.FieldPos(0)
			return nil, &ParseError{Line: line, Column: col, Err: ErrMissingFeatures}
		}

		values := make([]float64, len(features))
		for i, f := range features {
			f = strings.TrimSpace(f)
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				line, col := cr.FieldPos(i)
				return nil, &ParseError{Line: line, Column: col, Field: f, Err: numError(err)}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				line, col := cr.FieldPos(i)
				return nil, &ParseError{Line: line, Column: col, Field: f, Err: ErrNonFinite}
			}
			values[i] = v
		}

		if dim < 0 {
			dim = len(values)
		} else if len(values) != dim {
			return nil, &som.DimensionMismatchError{Index: len(out), Expected: dim, Actual: len(values)}
		}

		out = append(out, som.NewVector(values, label))
	}

	if len(out) == 0 {
		return nil, som.ErrEmptyInput
	}
	return out, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

// Load reads the dataset stored under name.
func Load(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) ([]som.Vector, error) {
	o := applyOptions(opts)

	data, err := blobstore.Get(ctx, store, name)
	if err != nil {
		return nil, err
	}

	vectors, err := read(resource.NewRateLimitedReader(ctx, bytes.NewReader(data), o.rc), o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return vectors, nil
}

// Shuffled returns a shuffled copy of vectors.
func Shuffled(vectors []som.Vector, rng som.Rand) []som.Vector {
	out := make([]som.Vector, len(vectors))
	for i, j := range som.Permutation(len(vectors), rng) {
		out[i] = vectors[j]
	}
	return out
}
