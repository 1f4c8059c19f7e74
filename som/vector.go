package som

import (
	"slices"
	"strconv"
	"strings"
)

// Vector is an ordered, fixed-length sequence of features plus an optional
// class label. Feature values are immutable once constructed.
type Vector struct {
	values []float64
	label  string
}

// NewVector creates a Vector holding a copy of values.
func NewVector(values []float64, label string) Vector {
	return Vector{values: slices.Clone(values), label: label}
}

// Dim returns the number of features.
func (v Vector) Dim() int { return len(v.values) }

// At returns feature i.
func (v Vector) At(i int) float64 { return v.values[i] }

// Values returns a copy of the features.
func (v Vector) Values() []float64 { return slices.Clone(v.values) }

// Label returns the class label (empty for unlabeled vectors).
func (v Vector) Label() string { return v.label }

// WithLabel returns a copy of v carrying label.
func (v Vector) WithLabel(label string) Vector {
	return Vector{values: v.values, label: label}
}

// Equal reports whether both vectors hold identical features and labels.
func (v Vector) Equal(o Vector) bool {
	return v.label == o.label && slices.Equal(v.values, o.values)
}

// String renders the vector in the input format: f1,f2,...,fN,label.
func (v Vector) String() string {
	var sb strings.Builder
	for i, x := range v.values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	}
	sb.WriteByte(',')
	sb.WriteString(v.label)
	return sb.String()
}

// view exposes the backing slice to the engine. Callers must not modify it.
func (v Vector) view() []float64 { return v.values }
