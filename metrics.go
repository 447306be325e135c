package memspeed

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting run metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordWorkload is called after each workload.
	// err is nil if the workload succeeded.
	RecordWorkload(name string, duration time.Duration, err error)

	// RecordRun is called once after a run, successful or not.
	RecordRun(scale int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordWorkload(string, time.Duration, error) {}
func (NoopMetricsCollector) RecordRun(int, time.Duration, error)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	WorkloadCount      atomic.Int64
	WorkloadErrors     atomic.Int64
	WorkloadTotalNanos atomic.Int64
	RunCount           atomic.Int64
	RunErrors          atomic.Int64
	RunTotalNanos      atomic.Int64
}

// RecordWorkload implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWorkload(_ string, duration time.Duration, err error) {
	b.WorkloadCount.Add(1)
	b.WorkloadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WorkloadErrors.Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_ int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		WorkloadCount:    b.WorkloadCount.Load(),
		WorkloadErrors:   b.WorkloadErrors.Load(),
		WorkloadAvgNanos: avg(b.WorkloadTotalNanos.Load(), b.WorkloadCount.Load()),
		RunCount:         b.RunCount.Load(),
		RunErrors:        b.RunErrors.Load(),
		RunTotalNanos:    b.RunTotalNanos.Load(),
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
	WorkloadCount    int64
	WorkloadErrors   int64
	WorkloadAvgNanos int64
	RunCount         int64
	RunErrors        int64
	RunTotalNanos    int64
}
