package som

import (
	"context"
	"fmt"
	"time"
)

// Mode selects the order in which inputs are presented during an epoch.
type Mode int

const (
	// Sequential presents inputs in index order.
	Sequential Mode = iota
	// Shuffled presents inputs through a permutation drawn once before training.
	Shuffled
)

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Shuffled:
		return "shuffled"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseMode parses "sequential" or "shuffled".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "sequential", "seq", "0":
		return Sequential, nil
	case "shuffled", "shuffle", "random", "1":
		return Shuffled, nil
	default:
		return 0, configErrorf("mode", "unknown mode %q", s)
	}
}

// EpochStats describes one completed epoch.
type EpochStats struct {
	Epoch    int
	Epochs   int
	Phase    Phase
	Radius   int
	Rate     float64 // rate used during the epoch
	Duration time.Duration
}

// TrainStats summarizes a training run.
type TrainStats struct {
	Epochs    int
	Steps     int
	FinalRate float64
	Duration  time.Duration
}

type trainOptions struct {
	schedule Schedule
	rng      Rand
	workers  int
	observer func(EpochStats)
}

// TrainOption configures Train.
type TrainOption func(*trainOptions)

// WithSchedule replaces DefaultSchedule.
func WithSchedule(s Schedule) TrainOption {
	return func(o *trainOptions) {
		o.schedule = s
	}
}

// WithRand sets the random source for tie-breaking and shuffling.
// If unset, a source seeded from the clock is used.
func WithRand(rng Rand) TrainOption {
	return func(o *trainOptions) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// WithWorkers splits each distance pass across up to n goroutines.
// Results are identical to the sequential pass.
func WithWorkers(n int) TrainOption {
	return func(o *trainOptions) {
		o.workers = n
	}
}

// WithEpochObserver registers fn to be called after every epoch.
func WithEpochObserver(fn func(EpochStats)) TrainOption {
	return func(o *trainOptions) {
		o.observer = fn
	}
}

// Train runs the competitive-learning loop over inputs, mutating g in place.
//
// Each of the schedule's epochs presents every input once. For each input
// the best-matching unit is found (ties broken at random), and every neuron
// in the clamped square neighborhood of the epoch's radius is pulled towards
// the input by the current learning rate.
//
// ctx is checked at every epoch boundary; on cancellation Train returns
// ctx.Err() and g holds the state after the last completed epoch.
func Train(ctx context.Context, g *Grid, inputs []Vector, mode Mode, optFns ...TrainOption) (TrainStats, error) {
	o := trainOptions{
		schedule: DefaultSchedule(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.rng == nil {
		o.rng = NewRand(time.Now().UnixNano())
	}

	if g == nil || g.Len() == 0 {
		return TrainStats{}, configErrorf("grid", "grid is empty")
	}
	dim, err := CheckDimensions(inputs)
	if err != nil {
		return TrainStats{}, err
	}
	if dim != g.dim {
		return TrainStats{}, &DimensionMismatchError{Expected: g.dim, Actual: dim}
	}
	if mode != Sequential && mode != Shuffled {
		return TrainStats{}, configErrorf("mode", "unknown mode %d", int(mode))
	}
	if err := o.schedule.Validate(); err != nil {
		return TrainStats{}, err
	}

	n := len(inputs)
	var order []int
	if mode == Shuffled {
		order = Permutation(n, o.rng)
	} else {
		order = make([]int, n)
		for i := range order {
			order[i] = i
		}
	}

	// Labels only carry meaning after training.
	g.clearLabels()

	sched := o.schedule
	total := sched.TotalEpochs(n)
	probe := NewProbe(g, o.workers)
	rate := sched.InitialRate
	start := time.Now()
	stats := TrainStats{}

	for j := 0; j < total; j++ {
		if err := ctx.Err(); err != nil {
			stats.FinalRate = rate
			stats.Duration = time.Since(start)
			return stats, err
		}

		epochStart := time.Now()
		phase := sched.Phase(j, total)
		radius := sched.Radius(j, total)

		for k := 0; k < n; k++ {
			x := inputs[order[k]].view()
			bmus, err := probe.Search(x)
			if err != nil {
				return stats, err
			}
			center := bmus.Pick(o.rng)
			if err := g.Pull(g.Neighborhood(center, radius), x, rate); err != nil {
				return stats, err
			}
		}
		stats.Epochs++
		stats.Steps += n

		if o.observer != nil {
			o.observer(EpochStats{
				Epoch:    j,
				Epochs:   total,
				Phase:    phase,
				Radius:   radius,
				Rate:     rate,
				Duration: time.Since(epochStart),
			})
		}

		rate = sched.NextRate(rate, j, total, phase)
	}

	stats.FinalRate = rate
	stats.Duration = time.Since(start)
	return stats, nil
}
