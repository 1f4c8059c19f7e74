package somgo

import (
	"log/slog"

	"github.com/hupe1980/somgo/codec"
	"github.com/hupe1980/somgo/resource"
	"github.com/hupe1980/somgo/snapshot"
	"github.com/hupe1980/somgo/som"
)

const (
	// DefaultUpperMargin is the default margin added above the mean vector
	// when sampling the initial grid.
	DefaultUpperMargin = 0.2
	// DefaultLowerMargin is the default margin subtracted below the mean vector.
	DefaultLowerMargin = 0.2
)

type options struct {
	upperMargin      float64
	lowerMargin      float64
	mode             som.Mode
	seed             *int64
	rng              som.Rand
	schedule         som.Schedule
	workers          int
	codec            codec.Codec
	compression      snapshot.Compression
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
}

// Option configures a Trainer.
type Option func(*options)

// WithBounds sets the margins around the mean vector that bound the initial
// grid weights: each component is drawn from (mean-lower, mean+upper].
func WithBounds(upper, lower float64) Option {
	return func(o *options) {
		o.upperMargin = upper
		o.lowerMargin = lower
	}
}

// WithMode selects the order inputs are presented in each epoch.
func WithMode(mode som.Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithSeed makes every Train call deterministic: each call draws from a fresh
// source seeded with seed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithRand sets the random source used for sampling, tie-breaking and
// shuffling. It takes precedence over WithSeed. The source is shared by all
// Train calls, so a Trainer using it must not train concurrently unless the
// source is safe for concurrent use.
func WithRand(rng som.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithSchedule overrides the radius and learning-rate schedule.
func WithSchedule(s som.Schedule) Option {
	return func(o *options) {
		o.schedule = s
	}
}

// WithWorkers sets the number of goroutines used for the per-step distance
// pass. Values <= 1 keep the pass sequential.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithCodec configures the codec used for snapshot payloads.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures snapshot compression.
func WithCompression(c snapshot.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &somgo.BasicMetricsCollector{}
//	t, _ := somgo.New(somgo.WithMetricsCollector(metrics))
//	// ... train ...
//	stats := metrics.GetStats()
//	fmt.Printf("Epochs: %d, Avg epoch: %dns\n", stats.EpochCount, stats.EpochAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := somgo.NewJSONLogger(slog.LevelInfo)
//	t, _ := somgo.New(somgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController bounds concurrent trainings, grid memory and
// snapshot IO.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		upperMargin:      DefaultUpperMargin,
		lowerMargin:      DefaultLowerMargin,
		mode:             som.Sequential,
		schedule:         som.DefaultSchedule(),
		workers:          1,
		codec:            codec.Default,
		compression:      snapshot.CompressionZSTD,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) snapshotOptions() []snapshot.Option {
	return []snapshot.Option{
		snapshot.WithCodec(o.codec),
		snapshot.WithCompression(o.compression),
		snapshot.WithResourceController(o.rc),
	}
}
