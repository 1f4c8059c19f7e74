package somgo

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/somgo/som"
)

// Logger wraps slog.Logger with somgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogNormalize logs the normalization of the input set.
func (l *Logger) LogNormalize(ctx context.Context, count, dimension int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "normalize failed",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "inputs normalized",
			"count", count,
			"dimension", dimension,
		)
	}
}

// LogSample logs the initial grid sampling.
func (l *Logger) LogSample(ctx context.Context, neurons, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "grid sampling failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "grid sampled",
			"neurons", neurons,
			"rows", rows,
		)
	}
}

// LogEpoch logs a completed epoch.
func (l *Logger) LogEpoch(ctx context.Context, es som.EpochStats) {
	l.DebugContext(ctx, "epoch completed",
		"epoch", es.Epoch,
		"epochs", es.Epochs,
		"phase", es.Phase.String(),
		"radius", es.Radius,
		"rate", es.Rate,
		"duration", es.Duration,
	)
}

// LogTrain logs a training run.
func (l *Logger) LogTrain(ctx context.Context, inputs int, stats som.TrainStats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "training failed",
			"inputs", inputs,
			"epochs_completed", stats.Epochs,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "training completed",
			"inputs", inputs,
			"epochs", stats.Epochs,
			"steps", stats.Steps,
			"final_rate", stats.FinalRate,
			"duration", stats.Duration,
		)
	}
}

// LogLabel logs the labeling and compaction pass.
func (l *Logger) LogLabel(ctx context.Context, labels int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "labeling failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "grid labeled",
			"labels", labels,
		)
	}
}

// LogSnapshot logs a snapshot save.
func (l *Logger) LogSnapshot(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
		)
	}
}

// LogLoad logs a snapshot load.
func (l *Logger) LogLoad(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot loaded",
			"name", name,
		)
	}
}
