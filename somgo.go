package somgo

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hupe1980/somgo/blobstore"
	"github.com/hupe1980/somgo/distance"
	"github.com/hupe1980/somgo/snapshot"
	"github.com/hupe1980/somgo/som"
)

// Trainer runs the full map pipeline: normalize, sample, train, label and
// compact. A Trainer is safe for concurrent use unless configured WithRand
// with a source that is not.
type Trainer struct {
	opts options
}

// New creates a Trainer.
func New(optFns ...Option) (*Trainer, error) {
	o := applyOptions(optFns)

	if math.IsNaN(o.upperMargin) || math.IsInf(o.upperMargin, 0) ||
		math.IsNaN(o.lowerMargin) || math.IsInf(o.lowerMargin, 0) {
		return nil, translateError(&som.ConfigurationError{Field: "bounds", Reason: "margins must be finite"})
	}
	if o.upperMargin+o.lowerMargin < 0 {
		return nil, translateError(&som.ConfigurationError{
			Field:  "bounds",
			Reason: fmt.Sprintf("upper margin %g and lower margin %g describe an empty interval", o.upperMargin, o.lowerMargin),
		})
	}
	if o.mode != som.Sequential && o.mode != som.Shuffled {
		return nil, translateError(&som.ConfigurationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %d", int(o.mode))})
	}
	if err := o.schedule.Validate(); err != nil {
		return nil, translateError(err)
	}

	return &Trainer{opts: o}, nil
}

func (t *Trainer) newRand() som.Rand {
	switch {
	case t.opts.rng != nil:
		return t.opts.rng
	case t.opts.seed != nil:
		return som.NewRand(*t.opts.seed)
	default:
		return som.NewRand(time.Now().UnixNano())
	}
}

// Train builds a labeled map from raw input vectors.
func (t *Trainer) Train(ctx context.Context, raw []som.Vector) (*Map, error) {
	o := t.opts
	start := time.Now()

	if err := o.rc.AcquireTraining(ctx); err != nil {
		return nil, err
	}
	defer o.rc.ReleaseTraining()

	m, stats, err := t.train(ctx, raw)
	stats.Duration = time.Since(start)

	o.logger.LogTrain(ctx, len(raw), stats, err)
	o.metricsCollector.RecordTrain(len(raw), stats.Epochs, stats.Duration, err)

	if err != nil {
		return nil, translateError(err)
	}
	m.stats = stats
	return m, nil
}

func (t *Trainer) train(ctx context.Context, raw []som.Vector) (*Map, som.TrainStats, error) {
	o := t.opts

	dim, err := som.CheckDimensions(raw)
	if err != nil {
		return nil, som.TrainStats{}, err
	}

	normalized, err := som.Normalize(raw)
	o.logger.LogNormalize(ctx, len(raw), dim, err)
	if err != nil {
		return nil, som.TrainStats{}, err
	}

	mean, err := som.Mean(normalized)
	if err != nil {
		return nil, som.TrainStats{}, err
	}

	rng := t.newRand()
	sampled, err := som.SampleInitialGrid(mean, o.upperMargin, o.lowerMargin, len(raw), rng)
	if err != nil {
		o.logger.LogSample(ctx, 0, 0, err)
		return nil, som.TrainStats{}, err
	}

	g, err := som.BuildGrid(sampled)
	if err != nil {
		o.logger.LogSample(ctx, len(sampled), 0, err)
		return nil, som.TrainStats{}, err
	}
	o.logger.LogSample(ctx, g.Len(), g.Rows(), nil)

	arena := int64(g.Len()) * int64(g.Dim()) * 8
	if err := o.rc.AcquireMemory(ctx, arena); err != nil {
		return nil, som.TrainStats{}, err
	}
	defer o.rc.ReleaseMemory(arena)

	stats, err := som.Train(ctx, g, normalized, o.mode,
		som.WithSchedule(o.schedule),
		som.WithRand(rng),
		som.WithWorkers(o.workers),
		som.WithEpochObserver(func(es som.EpochStats) {
			o.logger.LogEpoch(ctx, es)
			o.metricsCollector.RecordEpoch(es.Epoch, es.Radius, es.Rate, es.Duration)
		}),
	)
	if err != nil {
		return nil, stats, err
	}

	labelStart := time.Now()
	if err := som.LabelGrid(g, normalized, raw); err != nil {
		o.logger.LogLabel(ctx, 0, err)
		return nil, stats, err
	}
	mnemonics, histogram := som.CompactLabels(g)
	o.logger.LogLabel(ctx, mnemonics.Len(), nil)
	o.metricsCollector.RecordLabel(mnemonics.Len(), time.Since(labelStart))

	return &Map{
		grid:      g,
		mnemonics: mnemonics,
		histogram: histogram,
		mode:      o.mode,
		opts:      o,
	}, stats, nil
}

// Save persists m through the snapshot package and returns the blob name.
func (t *Trainer) Save(ctx context.Context, store blobstore.BlobStore, m *Map) (string, error) {
	o := t.opts
	start := time.Now()

	name, err := snapshot.Save(ctx, store, m.Snapshot(), o.snapshotOptions()...)
	o.logger.LogSnapshot(ctx, name, err)
	o.metricsCollector.RecordSnapshot(time.Since(start), err)
	return name, translateError(err)
}

// Load reads the map CURRENT points at.
func Load(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Map, error) {
	o := applyOptions(optFns)
	start := time.Now()

	name, err := snapshot.Current(ctx, store)
	if err != nil {
		o.logger.LogLoad(ctx, snapshot.CurrentName, err)
		o.metricsCollector.RecordSnapshot(time.Since(start), err)
		return nil, translateError(err)
	}

	s, err := snapshot.LoadNamed(ctx, store, name, o.snapshotOptions()...)
	o.logger.LogLoad(ctx, name, err)
	o.metricsCollector.RecordSnapshot(time.Since(start), err)
	if err != nil {
		return nil, translateError(err)
	}
	return fromSnapshot(s, o)
}

// FromSnapshot restores a map from a decoded snapshot.
func FromSnapshot(s *snapshot.Snapshot, optFns ...Option) (*Map, error) {
	return fromSnapshot(s, applyOptions(optFns))
}

func fromSnapshot(s *snapshot.Snapshot, o options) (*Map, error) {
	g, err := s.Grid()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", snapshot.ErrCorrupt, err)
	}

	mode, err := som.ParseMode(s.Mode)
	if err != nil {
		mode = som.Sequential
	}

	return &Map{
		grid:      g,
		mnemonics: s.MnemonicTable(),
		histogram: s.HistogramTable(),
		stats:     s.TrainStats(),
		mode:      mode,
		opts:      o,
	}, nil
}

// Map is a trained, labeled self-organizing map.
// Its methods are safe for concurrent use.
type Map struct {
	grid      *som.Grid
	mnemonics som.Mnemonics
	histogram som.Histogram
	stats     som.TrainStats
	mode      som.Mode
	opts      options
}

// Grid returns a copy of the trained grid.
func (m *Map) Grid() *som.Grid { return m.grid.Clone() }

// Rows returns the number of grid rows.
func (m *Map) Rows() int { return m.grid.Rows() }

// Cols returns the number of grid columns.
func (m *Map) Cols() int { return m.grid.Cols() }

// Dim returns the feature dimension.
func (m *Map) Dim() int { return m.grid.Dim() }

// Mnemonics returns the label→code table.
func (m *Map) Mnemonics() som.Mnemonics { return m.mnemonics }

// Histogram returns the number of neurons per code.
func (m *Map) Histogram() som.Histogram { return m.histogram }

// Stats returns the training summary.
func (m *Map) Stats() som.TrainStats { return m.stats }

// Mode returns the presentation mode the map was trained with.
func (m *Map) Mode() som.Mode { return m.mode }

// Neurons returns all neurons in row-major order. Neuron labels are
// mnemonic codes; Mnemonics maps them back.
func (m *Map) Neurons() []som.Neuron { return m.grid.Neurons() }

// Codes returns the grid of mnemonic codes, one row per grid row.
func (m *Map) Codes() [][]string { return m.grid.Labels() }

// Classify normalizes v and returns the label and position of its
// best-matching unit. Ties resolve to the first neuron in row-major order.
func (m *Map) Classify(v som.Vector) (string, som.Position, error) {
	start := time.Now()
	label, pos, err := m.classify(v)
	m.opts.metricsCollector.RecordClassify(time.Since(start), err)
	return label, pos, translateError(err)
}

func (m *Map) classify(v som.Vector) (string, som.Position, error) {
	if v.Dim() != m.grid.Dim() {
		return "", som.Position{}, &som.DimensionMismatchError{Expected: m.grid.Dim(), Actual: v.Dim()}
	}
	if _, err := som.CheckDimensions([]som.Vector{v}); err != nil {
		return "", som.Position{}, err
	}

	normalized, ok := distance.NormalizeL2Copy(v.Values())
	if !ok {
		return "", som.Position{}, &som.DegenerateVectorError{}
	}

	bmus, err := som.NewProbe(m.grid, 1).Search(normalized)
	if err != nil {
		return "", som.Position{}, err
	}
	pos := bmus.First()
	code := m.grid.Label(pos)
	if label, ok := m.mnemonics.Label(code); ok {
		return label, pos, nil
	}
	return code, pos, nil
}

// Snapshot converts the map to its persisted form.
func (m *Map) Snapshot() *snapshot.Snapshot {
	s := snapshot.FromGrid(m.grid, m.mnemonics, m.histogram, m.stats)
	s.Mode = m.mode.String()
	return s
}
