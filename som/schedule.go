package som

import "fmt"

// Phase is the training phase of an epoch.
type Phase int

const (
	// WarmPhase covers the first WarmFraction of the epochs with shrinking radii.
	WarmPhase Phase = iota
	// FineTunePhase covers the remaining epochs.
	FineTunePhase
)

func (p Phase) String() string {
	switch p {
	case WarmPhase:
		return "warm"
	case FineTunePhase:
		return "fine-tune"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// Default schedule constants.
const (
	DefaultEpochsPerInput    = 5
	DefaultWarmFraction      = 0.2
	DefaultFineSplitFraction = 0.0
	DefaultInitialRate       = 0.7
	DefaultWarmMultiplier    = 0.7
	DefaultFineMultiplier    = 0.007
	DefaultRateFloor         = 0.07
)

// Schedule holds the numeric schedule of the training loop.
//
// For n inputs training runs EpochsPerInput*n epochs of n steps each. The
// first WarmFraction of the epochs form the warm phase, split into
// len(WarmRadii) equal tiers. In the fine-tune phase epochs below
// FineSplitFraction of the total use FineRadii[0] and the rest FineRadii[1];
// with the default split of 0 the fine-tune phase always uses radius 1.
//
// After each epoch j the learning rate becomes multiplier*(1-j/total) while it
// is still above RateFloor; once at or below the floor it stays frozen.
type Schedule struct {
	EpochsPerInput    int
	WarmFraction      float64
	WarmRadii         []int
	FineSplitFraction float64
	FineRadii         [2]int
	InitialRate       float64
	WarmMultiplier    float64
	FineMultiplier    float64
	RateFloor         float64
}

// DefaultSchedule returns the standard schedule: radii 3/2/1 over the first
// 20% of epochs, radius 1 afterwards, rate 0.7 decaying with multipliers
// 0.7/0.007 and frozen at the 0.07 floor.
func DefaultSchedule() Schedule {
	return Schedule{
		EpochsPerInput:    DefaultEpochsPerInput,
		WarmFraction:      DefaultWarmFraction,
		WarmRadii:         []int{3, 2, 1},
		FineSplitFraction: DefaultFineSplitFraction,
		FineRadii:         [2]int{2, 1},
		InitialRate:       DefaultInitialRate,
		WarmMultiplier:    DefaultWarmMultiplier,
		FineMultiplier:    DefaultFineMultiplier,
		RateFloor:         DefaultRateFloor,
	}
}

// Validate reports the first invalid field.
func (s Schedule) Validate() error {
	switch {
	case s.EpochsPerInput <= 0:
		return configErrorf("schedule.EpochsPerInput", "must be positive, got %d", s.EpochsPerInput)
	case s.WarmFraction < 0 || s.WarmFraction > 1:
		return configErrorf("schedule.WarmFraction", "must be in [0,1], got %v", s.WarmFraction)
	case s.WarmFraction > 0 && len(s.WarmRadii) == 0:
		return configErrorf("schedule.WarmRadii", "warm phase needs at least one radius")
	case s.FineSplitFraction < 0 || s.FineSplitFraction > 1:
		return configErrorf("schedule.FineSplitFraction", "must be in [0,1], got %v", s.FineSplitFraction)
	case s.InitialRate <= 0 || s.InitialRate > 1:
		return configErrorf("schedule.InitialRate", "must be in (0,1], got %v", s.InitialRate)
	case s.WarmMultiplier < 0 || s.FineMultiplier < 0 || s.RateFloor < 0:
		return configErrorf("schedule", "multipliers and floor must not be negative")
	}
	for _, r := range s.WarmRadii {
		if r < 0 {
			return configErrorf("schedule.WarmRadii", "negative radius %d", r)
		}
	}
	if s.FineRadii[0] < 0 || s.FineRadii[1] < 0 {
		return configErrorf("schedule.FineRadii", "negative radius in %v", s.FineRadii)
	}
	return nil
}

// TotalEpochs returns the number of outer epochs for n inputs.
func (s Schedule) TotalEpochs(n int) int {
	return s.EpochsPerInput * n
}

// Phase returns the phase of epoch j out of total.
func (s Schedule) Phase(j, total int) Phase {
	if float64(j) < s.WarmFraction*float64(total) {
		return WarmPhase
	}
	return FineTunePhase
}

// Radius returns the neighborhood radius used during epoch j out of total.
func (s Schedule) Radius(j, total int) int {
	if s.Phase(j, total) == WarmPhase {
		tier := s.WarmFraction * float64(total) / float64(len(s.WarmRadii))
		for i, r := range s.WarmRadii {
			if float64(j) < tier*float64(i+1) {
				return r
			}
		}
		return s.WarmRadii[len(s.WarmRadii)-1]
	}
	if float64(j) < s.FineSplitFraction*float64(total) {
		return s.FineRadii[0]
	}
	return s.FineRadii[1]
}

// Multiplier returns the learning-rate multiplier of phase.
func (s Schedule) Multiplier(phase Phase) float64 {
	if phase == WarmPhase {
		return s.WarmMultiplier
	}
	return s.FineMultiplier
}

// NextRate returns the learning rate after epoch j out of total:
// Multiplier(phase) * (1 - j/total), or rate unchanged once it is at or below
// RateFloor.
//
// j/total is real division, so the rate decays linearly within each phase.
// Integer division would truncate j/total to 0 for every j < total and hold
// the rate at Multiplier(phase) for the whole run; this departure is
// deliberate.
func (s Schedule) NextRate(rate float64, j, total int, phase Phase) float64 {
	if rate <= s.RateFloor {
		return rate
	}
	return s.Multiplier(phase) * (1 - float64(j)/float64(total))
}
