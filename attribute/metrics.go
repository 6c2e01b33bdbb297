package attribute

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives timings of the manager's bulk operations.
// Implement it to integrate with a monitoring system.
type MetricsCollector interface {
	// RecordCreate is called when FindOrCreate adds a new attribute.
	RecordCreate(strategy Strategy)

	// RecordResize is called after Resize with the new element count.
	RecordResize(nbElements int, duration time.Duration)

	// RecordDelete is called after DeleteElements. removed is the number of deleted
	// elements, err is nil if successful.
	RecordDelete(removed int, duration time.Duration, err error)

	// RecordPermute is called after PermuteElements.
	RecordPermute(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCreate(Strategy)                  {}
func (NoopMetricsCollector) RecordResize(int, time.Duration)        {}
func (NoopMetricsCollector) RecordDelete(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordPermute(time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	CreateCount       atomic.Int64
	ResizeCount       atomic.Int64
	ResizeTotalNanos  atomic.Int64
	DeleteCount       atomic.Int64
	DeletedElements   atomic.Int64
	DeleteErrors      atomic.Int64
	DeleteTotalNanos  atomic.Int64
	PermuteCount      atomic.Int64
	PermuteErrors     atomic.Int64
	PermuteTotalNanos atomic.Int64
}

// RecordCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreate(Strategy) {
	b.CreateCount.Add(1)
}

// RecordResize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResize(_ int, duration time.Duration) {
	b.ResizeCount.Add(1)
	b.ResizeTotalNanos.Add(duration.Nanoseconds())
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(removed int, duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	b.DeleteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DeleteErrors.Add(1)
		return
	}
	b.DeletedElements.Add(int64(removed))
}

// RecordPermute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPermute(duration time.Duration, err error) {
	b.PermuteCount.Add(1)
	b.PermuteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PermuteErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CreateCount:     b.CreateCount.Load(),
		ResizeCount:     b.ResizeCount.Load(),
		ResizeAvgNanos:  avg(b.ResizeTotalNanos.Load(), b.ResizeCount.Load()),
		DeleteCount:     b.DeleteCount.Load(),
		DeletedElements: b.DeletedElements.Load(),
		DeleteErrors:    b.DeleteErrors.Load(),
		DeleteAvgNanos:  avg(b.DeleteTotalNanos.Load(), b.DeleteCount.Load()),
		PermuteCount:    b.PermuteCount.Load(),
		PermuteErrors:   b.PermuteErrors.Load(),
		PermuteAvgNanos: avg(b.PermuteTotalNanos.Load(), b.PermuteCount.Load()),
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
	CreateCount     int64
	ResizeCount     int64
	ResizeAvgNanos  int64
	DeleteCount     int64
	DeletedElements int64
	DeleteErrors    int64
	DeleteAvgNanos  int64
	PermuteCount    int64
	PermuteErrors   int64
	PermuteAvgNanos int64
}
