package som

import "github.com/hupe1980/somgo/distance"

// Neighborhood is a rectangular index range over a grid: every neuron (r,c)
// with RowMin <= r <= RowMax and ColMin <= c <= ColMax.
type Neighborhood struct {
	RowMin, RowMax int
	ColMin, ColMax int
}

// Neighborhood returns the neurons within Chebyshev distance radius of
// center, clamped to the grid edges. The result is always a true rectangle
// inside the grid. A negative radius is treated as zero.
func (g *Grid) Neighborhood(center Position, radius int) Neighborhood {
	radius = max(radius, 0)
	return Neighborhood{
		RowMin: max(0, center.Row-radius),
		RowMax: min(g.rows-1, center.Row+radius),
		ColMin: max(0, center.Col-radius),
		ColMax: min(g.cols-1, center.Col+radius),
	}
}

// Rows returns the number of rows covered.
func (n Neighborhood) Rows() int { return n.RowMax - n.RowMin + 1 }

// Cols returns the number of columns covered.
func (n Neighborhood) Cols() int { return n.ColMax - n.ColMin + 1 }

// Len returns the number of neurons covered.
func (n Neighborhood) Len() int { return n.Rows() * n.Cols() }

// Contains reports whether p lies inside the range.
func (n Neighborhood) Contains(p Position) bool {
	return p.Row >= n.RowMin && p.Row <= n.RowMax && p.Col >= n.ColMin && p.Col <= n.ColMax
}

// Positions lists the covered neurons in row-scan order.
func (n Neighborhood) Positions() []Position {
	out := make([]Position, 0, n.Len())
	for r := n.RowMin; r <= n.RowMax; r++ {
		for c := n.ColMin; c <= n.ColMax; c++ {
			out = append(out, Position{Row: r, Col: c})
		}
	}
	return out
}

// Pull applies the competitive-learning delta rule w += rate*(target-w) to
// every neuron in n, writing through the arena in place. n must be a
// non-empty rectangle inside the grid.
func (g *Grid) Pull(n Neighborhood, target []float64, rate float64) error {
	if len(target) != g.dim {
		return &DimensionMismatchError{Expected: g.dim, Actual: len(target)}
	}
	if err := g.checkNeighborhood(n); err != nil {
		return err
	}
	for r := n.RowMin; r <= n.RowMax; r++ {
		for c := n.ColMin; c <= n.ColMax; c++ {
			distance.Lerp(g.weightAt(r*g.cols+c), target, rate)
		}
	}
	return nil
}

func (g *Grid) checkNeighborhood(n Neighborhood) error {
	if n.RowMin > n.RowMax || n.ColMin > n.ColMax {
		return configErrorf("neighborhood", "empty range rows [%d,%d] cols [%d,%d]", n.RowMin, n.RowMax, n.ColMin, n.ColMax)
	}
	if !g.Contains(Position{Row: n.RowMin, Col: n.ColMin}) || !g.Contains(Position{Row: n.RowMax, Col: n.ColMax}) {
		return configErrorf("neighborhood", "range rows [%d,%d] cols [%d,%d] outside %dx%d grid",
			n.RowMin, n.RowMax, n.ColMin, n.ColMax, g.rows, g.cols)
	}
	return nil
}
