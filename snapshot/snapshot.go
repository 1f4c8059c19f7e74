package snapshot

import (
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/somgo/som"
)

// Stats is the persisted summary of a training run.
type Stats struct {
	Epochs    int           `json:"epochs"`
	Steps     int           `json:"steps"`
	FinalRate float64       `json:"final_rate"`
	Duration  time.Duration `json:"duration"`
}

// Snapshot is the persisted state of a trained and labeled map.
// Weights and Labels are in row-major neuron order.
type Snapshot struct {
	Rows      int                  `json:"rows"`
	Cols      int                  `json:"cols"`
	Dim       int                  `json:"dim"`
	Weights   [][]float64          `json:"weights"`
	Labels    []string             `json:"labels"`
	Mnemonics []som.MnemonicEntry  `json:"mnemonics"`
	Histogram []som.HistogramEntry `json:"histogram"`
	Mode      string               `json:"mode,omitempty"`
	Stats     Stats                `json:"stats"`
	CreatedAt time.Time            `json:"created_at"`
}

// FromGrid captures a grid and its compaction tables.
func FromGrid(g *som.Grid, mn som.Mnemonics, h som.Histogram, stats som.TrainStats) *Snapshot {
	neurons := g.Neurons()

	s := &Snapshot{
		Rows:      g.Rows(),
		Cols:      g.Cols(),
		Dim:       g.Dim(),
		Weights:   make([][]float64, len(neurons)),
		Labels:    make([]string, len(neurons)),
		Mnemonics: mn.Entries(),
		Histogram: h.Entries(),
		Stats: Stats{
			Epochs:    stats.Epochs,
			Steps:     stats.Steps,
			FinalRate: stats.FinalRate,
			Duration:  stats.Duration,
		},
	}
	for i, n := range neurons {
		s.Weights[i] = slices.Clone(n.Weight)
		s.Labels[i] = n.Label
	}
	return s
}

// Validate checks that the shape fields agree with the weight and label data.
func (s *Snapshot) Validate() error {
	if s.Rows <= 0 || s.Cols <= 0 || s.Dim <= 0 {
		return fmt.Errorf("invalid shape %dx%d dim %d", s.Rows, s.Cols, s.Dim)
	}
	n := s.Rows * s.Cols
	if len(s.Weights) != n {
		return fmt.Errorf("%d weight vectors for %d neurons", len(s.Weights), n)
	}
	if len(s.Labels) != n {
		return fmt.Errorf("%d labels for %d neurons", len(s.Labels), n)
	}
	for i, w := range s.Weights {
		if len(w) != s.Dim {
			return fmt.Errorf("weight vector %d has dimension %d, want %d", i, len(w), s.Dim)
		}
	}
	return nil
}

// Grid rebuilds the labeled grid.
func (s *Snapshot) Grid() (*som.Grid, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	g, err := som.NewGrid(s.Rows, s.Cols, s.Dim)
	if err != nil {
		return nil, err
	}
	for i, w := range s.Weights {
		p := som.Position{Row: i / s.Cols, Col: i % s.Cols}
		if err := g.SetWeight(p, w); err != nil {
			return nil, err
		}
		if err := g.SetLabel(p, s.Labels[i]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// MnemonicTable returns the label→code table.
func (s *Snapshot) MnemonicTable() som.Mnemonics {
	return som.NewMnemonics(s.Mnemonics)
}

// HistogramTable returns the code histogram.
func (s *Snapshot) HistogramTable() som.Histogram {
	return som.NewHistogram(s.Histogram)
}

// TrainStats returns the training summary.
func (s *Snapshot) TrainStats() som.TrainStats {
	return som.TrainStats{
		Epochs:    s.Stats.Epochs,
		Steps:     s.Stats.Steps,
		FinalRate: s.Stats.FinalRate,
		Duration:  s.Stats.Duration,
	}
}
