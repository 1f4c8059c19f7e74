package somgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordEpoch is called after each training epoch.
	RecordEpoch(epoch, radius int, rate float64, duration time.Duration)

	// RecordTrain is called after each training run.
	// inputs is the number of input vectors, err is nil if successful.
	RecordTrain(inputs, epochs int, duration time.Duration, err error)

	// RecordLabel is called after the labeling pass.
	// labels is the number of distinct labels on the grid.
	RecordLabel(labels int, duration time.Duration)

	// RecordClassify is called after each Classify call.
	RecordClassify(duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save or load.
	RecordSnapshot(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEpoch(int, int, float64, time.Duration) {}
func (NoopMetricsCollector) RecordTrain(int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordLabel(int, time.Duration)               {}
func (NoopMetricsCollector) RecordClassify(time.Duration, error)          {}
func (NoopMetricsCollector) RecordSnapshot(time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EpochCount         atomic.Int64
	EpochTotalNanos    atomic.Int64
	TrainCount         atomic.Int64
	TrainErrors        atomic.Int64
	TrainInputs        atomic.Int64
	TrainTotalNanos    atomic.Int64
	LabelCount         atomic.Int64
	LastLabels         atomic.Int64
	ClassifyCount      atomic.Int64
	ClassifyErrors     atomic.Int64
	ClassifyTotalNanos atomic.Int64
	SnapshotCount      atomic.Int64
	SnapshotErrors     atomic.Int64
}

// RecordEpoch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEpoch(_, _ int, _ float64, duration time.Duration) {
	b.EpochCount.Add(1)
	b.EpochTotalNanos.Add(duration.Nanoseconds())
}

// RecordTrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrain(inputs, _ int, duration time.Duration, err error) {
	b.TrainCount.Add(1)
	b.TrainInputs.Add(int64(inputs))
	b.TrainTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TrainErrors.Add(1)
	}
}

// RecordLabel implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLabel(labels int, _ time.Duration) {
	b.LabelCount.Add(1)
	b.LastLabels.Store(int64(labels))
}

// RecordClassify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassify(duration time.Duration, err error) {
	b.ClassifyCount.Add(1)
	b.ClassifyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ClassifyErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(_ time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EpochCount:       b.EpochCount.Load(),
		EpochAvgNanos:    avg(b.EpochTotalNanos.Load(), b.EpochCount.Load()),
		TrainCount:       b.TrainCount.Load(),
		TrainErrors:      b.TrainErrors.Load(),
		TrainInputs:      b.TrainInputs.Load(),
		TrainAvgNanos:    avg(b.TrainTotalNanos.Load(), b.TrainCount.Load()),
		LabelCount:       b.LabelCount.Load(),
		LastLabels:       b.LastLabels.Load(),
		ClassifyCount:    b.ClassifyCount.Load(),
		ClassifyErrors:   b.ClassifyErrors.Load(),
		ClassifyAvgNanos: avg(b.ClassifyTotalNanos.Load(), b.ClassifyCount.Load()),
		SnapshotCount:    b.SnapshotCount.Load(),
		SnapshotErrors:   b.SnapshotErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EpochCount       int64
	EpochAvgNanos    int64
	TrainCount       int64
	TrainErrors      int64
	TrainInputs      int64
	TrainAvgNanos    int64
	LabelCount       int64
	LastLabels       int64
	ClassifyCount    int64
	ClassifyErrors   int64
	ClassifyAvgNanos int64
	SnapshotCount    int64
	SnapshotErrors   int64
}
