package benchmark_test

import (
	"runtime"
	"testing"
)

// ============================================================================
// BENCHMARK METHODOLOGY
// ============================================================================
//
// Every workload is a complete timed procedure, so one b.Loop iteration runs
// one workload once. BenchLoop collects the heap first so that setup garbage
// is not charged to the first iteration, then reports how many collections
// and how much pause time the measured iterations caused.

// BenchLoop runs fn once per iteration and reports GC activity.
func BenchLoop(b *testing.B, fn func() error) {
	b.Helper()

	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		if err := fn(); err != nil {
			b.Fatal(err)
		}
	}

	b.StopTimer()
	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	b.ReportMetric(float64(after.NumGC-before.NumGC)/float64(b.N), "gcs/op")
	b.ReportMetric(float64(after.PauseTotalNs-before.PauseTotalNs)/1e6/float64(b.N), "gc_pause_ms/op")
}
