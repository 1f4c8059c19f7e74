package som

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/somgo/distance"
	"golang.org/x/sync/errgroup"
)

// Probe searches a grid for best-matching units.
//
// It owns the probe-distance buffer: one Euclidean distance per neuron in
// row-major order, overwritten by every Search. A Probe is not safe for
// concurrent use.
type Probe struct {
	grid    *Grid
	dists   []float64
	ties    *roaring.Bitmap
	workers int
}

// NewProbe creates a Probe for g. With workers > 1 the distance pass is split
// across rows on up to workers goroutines.
func NewProbe(g *Grid, workers int) *Probe {
	return &Probe{
		grid:    g,
		dists:   make([]float64, g.Len()),
		ties:    roaring.New(),
		workers: workers,
	}
}

// Distances returns the buffer filled by the last Search.
// The slice is owned by the Probe and valid until the next Search.
func (p *Probe) Distances() []float64 { return p.dists }

// Search computes the distance from probe to every neuron and returns the set
// of neurons at the global minimum distance (exact floating-point equality).
// The returned set is valid until the next Search. ErrNoBMU is returned when
// no distance compares equal to the minimum, as happens for NaN distances.
func (p *Probe) Search(probe []float64) (BMUSet, error) {
	if len(probe) != p.grid.dim {
		return BMUSet{}, &DimensionMismatchError{Expected: p.grid.dim, Actual: len(probe)}
	}

	p.fill(probe)

	minDist := p.dists[0]
	for _, d := range p.dists[1:] {
		if d < minDist {
			minDist = d
		}
	}

	p.ties.Clear()
	for i, d := range p.dists {
		if d == minDist {
			p.ties.Add(uint32(i))
		}
	}

	if p.ties.IsEmpty() {
		return BMUSet{}, ErrNoBMU
	}

	return BMUSet{members: p.ties, cols: p.grid.cols, distance: minDist}, nil
}

func (p *Probe) fill(probe []float64) {
	g := p.grid
	if p.workers <= 1 || g.rows < 2 {
		for i := range p.dists {
			p.dists[i] = distance.Euclidean(g.weightAt(i), probe)
		}
		return
	}

	var eg errgroup.Group
	eg.SetLimit(p.workers)
	for r := 0; r < g.rows; r++ {
		eg.Go(func() error {
			for i := r * g.cols; i < (r+1)*g.cols; i++ {
				p.dists[i] = distance.Euclidean(g.weightAt(i), probe)
			}
			return nil
		})
	}
	_ = eg.Wait()
}

// BMUSet is the set of neurons tied at the minimum distance to a probe.
type BMUSet struct {
	members  *roaring.Bitmap
	cols     int
	distance float64
}

// Len returns the number of tied neurons.
func (s BMUSet) Len() int {
	if s.members == nil {
		return 0
	}
	return int(s.members.GetCardinality())
}

// Distance returns the minimum distance shared by all members.
func (s BMUSet) Distance() float64 { return s.distance }

// Contains reports whether the neuron at pos is a member.
func (s BMUSet) Contains(pos Position) bool {
	if s.members == nil || pos.Col < 0 || pos.Col >= s.cols || pos.Row < 0 {
		return false
	}
	return s.members.Contains(uint32(pos.Row*s.cols + pos.Col))
}

// noPosition is returned by First and Pick on an empty set.
var noPosition = Position{Row: -1, Col: -1}

// First returns the member with the lowest row-major index, or
// Position{-1, -1} if the set is empty.
func (s BMUSet) First() Position {
	if s.Len() == 0 {
		return noPosition
	}
	return s.at(s.members.Minimum())
}

// Pick returns the active BMU: the only member, or on ties one member chosen
// uniformly at random from rng. An empty set yields Position{-1, -1}.
func (s BMUSet) Pick(rng Rand) Position {
	n := s.Len()
	if n <= 1 {
		return s.First()
	}
	idx, err := s.members.Select(uint32(rng.Intn(n)))
	if err != nil {
		// Unreachable: the rank is below the cardinality.
		return s.First()
	}
	return s.at(idx)
}

// All iterates the members in row-major order.
func (s BMUSet) All() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		if s.members == nil {
			return
		}
		it := s.members.Iterator()
		for it.HasNext() {
			if !yield(s.at(it.Next())) {
				return
			}
		}
	}
}

// Positions returns the members in row-major order.
func (s BMUSet) Positions() []Position {
	out := make([]Position, 0, s.Len())
	for p := range s.All() {
		out = append(out, p)
	}
	return out
}

func (s BMUSet) at(i uint32) Position {
	return Position{Row: int(i) / s.cols, Col: int(i) % s.cols}
}
