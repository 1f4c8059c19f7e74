package som

import (
	"fmt"
	"slices"
)

// Position addresses a neuron by row and column.
type Position struct {
	Row int
	Col int
}

// String returns "(row,col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Neuron is a read-only view of one grid cell.
type Neuron struct {
	Position
	// Weight is a copy of the reference vector.
	Weight []float64
	// Label is empty until LabelGrid runs.
	Label string
}

// Grid is a rectangular arena of neurons indexed by (row, column).
//
// Weights live in one row-major backing array; the shape never changes after
// construction.
type Grid struct {
	rows    int
	cols    int
	dim     int
	weights []float64
	labels  []string
}

// BuildGrid lays sampled vectors out row-major into len(sampled)/GridColumns
// rows of GridColumns neurons: neuron (r,c) receives sampled[r*GridColumns+c].
func BuildGrid(sampled []Vector) (*Grid, error) {
	if len(sampled) < GridColumns {
		return nil, configErrorf("sampled", "%d vectors cannot fill a row of %d neurons", len(sampled), GridColumns)
	}
	if len(sampled)%GridColumns != 0 {
		return nil, configErrorf("sampled", "%d vectors is not a multiple of %d", len(sampled), GridColumns)
	}
	dim, err := CheckDimensions(sampled)
	if err != nil {
		return nil, err
	}

	g, err := NewGrid(len(sampled)/GridColumns, GridColumns, dim)
	if err != nil {
		return nil, err
	}
	for i, v := range sampled {
		copy(g.weightAt(i), v.values)
	}
	return g, nil
}

// NewGrid creates a rows×cols grid of dim-dimensional zero weights.
func NewGrid(rows, cols, dim int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, configErrorf("shape", "grid must have at least one row and column, got %dx%d", rows, cols)
	}
	if dim <= 0 {
		return nil, configErrorf("dim", "dimension must be positive, got %d", dim)
	}
	return &Grid{
		rows:    rows,
		cols:    cols,
		dim:     dim,
		weights: make([]float64, rows*cols*dim),
		labels:  make([]string, rows*cols),
	}, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Dim returns the weight dimensionality.
func (g *Grid) Dim() int { return g.dim }

// Len returns the number of neurons.
func (g *Grid) Len() int { return g.rows * g.cols }

// Contains reports whether p lies inside the grid.
func (g *Grid) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// Weight returns a copy of the weight vector at p.
func (g *Grid) Weight(p Position) ([]float64, error) {
	if !g.Contains(p) {
		return nil, fmt.Errorf("som: position %v outside %dx%d grid", p, g.rows, g.cols)
	}
	return slices.Clone(g.weightAt(g.index(p))), nil
}

// SetWeight overwrites the weight vector at p.
func (g *Grid) SetWeight(p Position, w []float64) error {
	if !g.Contains(p) {
		return fmt.Errorf("som: position %v outside %dx%d grid", p, g.rows, g.cols)
	}
	if len(w) != g.dim {
		return &DimensionMismatchError{Index: g.index(p), Expected: g.dim, Actual: len(w)}
	}
	copy(g.weightAt(g.index(p)), w)
	return nil
}

// Label returns the label at p.
func (g *Grid) Label(p Position) string {
	if !g.Contains(p) {
		return ""
	}
	return g.labels[g.index(p)]
}

// SetLabel overwrites the label at p.
func (g *Grid) SetLabel(p Position, label string) error {
	if !g.Contains(p) {
		return fmt.Errorf("som: position %v outside %dx%d grid", p, g.rows, g.cols)
	}
	g.labels[g.index(p)] = label
	return nil
}

// Neuron returns a read-only view of the neuron at p.
func (g *Grid) Neuron(p Position) (Neuron, error) {
	w, err := g.Weight(p)
	if err != nil {
		return Neuron{}, err
	}
	return Neuron{Position: p, Weight: w, Label: g.labels[g.index(p)]}, nil
}

// Neurons returns views of all neurons in row-major order.
func (g *Grid) Neurons() []Neuron {
	out := make([]Neuron, g.Len())
	for i := range out {
		out[i] = Neuron{
			Position: g.position(i),
			Weight:   slices.Clone(g.weightAt(i)),
			Label:    g.labels[i],
		}
	}
	return out
}

// Labels returns the labels as rows of columns.
func (g *Grid) Labels() [][]string {
	out := make([][]string, g.rows)
	for r := range out {
		out[r] = slices.Clone(g.labels[r*g.cols : (r+1)*g.cols])
	}
	return out
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{
		rows:    g.rows,
		cols:    g.cols,
		dim:     g.dim,
		weights: slices.Clone(g.weights),
		labels:  slices.Clone(g.labels),
	}
}

// Equal reports whether both grids have the same shape and bit-identical
// weights and labels.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.rows == o.rows && g.cols == o.cols && g.dim == o.dim &&
		slices.Equal(g.weights, o.weights) && slices.Equal(g.labels, o.labels)
}

func (g *Grid) index(p Position) int {
	return p.Row*g.cols + p.Col
}

func (g *Grid) position(i int) Position {
	return Position{Row: i / g.cols, Col: i % g.cols}
}

// weightAt returns the live weight slice of neuron i.
func (g *Grid) weightAt(i int) []float64 {
	off := i * g.dim
	return g.weights[off : off+g.dim : off+g.dim]
}

func (g *Grid) clearLabels() {
	clear(g.labels)
}
