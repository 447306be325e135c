package workload

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/memspeed/internal/resource"
)

// Workload names, in harness order.
const (
	NameAllocationPatterns = "allocation-patterns"
	NameGCStress           = "gc-stress"
	NameCacheLocality      = "cache-locality"
	NameMemoryPool         = "memory-pool"
	NameBandwidth          = "bandwidth"
)

var (
	// ErrVerification is returned when a self-check fails in verify mode.
	ErrVerification = errors.New("workload: verification failed")
	// ErrInvalidParameter is returned for negative iteration counts or sizes.
	ErrInvalidParameter = errors.New("workload: invalid parameter")
)

// Config holds the knobs shared by all workloads.
type Config struct {
	// Seed is the base seed. GCStress workers use Seed+workerID.
	Seed uint64
	// Verify enables the workloads' self-checks.
	Verify bool
	// OffHeap backs the raw allocations, the pool arena and the bandwidth
	// buffers with anonymous mappings instead of the Go heap.
	OffHeap bool
	// Budget reserves large buffers against a memory limit. Nil means
	// unlimited.
	Budget *resource.Controller
}

// DefaultSeed is the seed every workload uses unless told otherwise.
const DefaultSeed = 42

// Result is the outcome of one workload run.
type Result struct {
	Name    string
	Elapsed time.Duration
	// Checksum is the value accumulated by the workload's read phases. It
	// exists so the reads cannot be elided.
	Checksum uint64
	// Ops counts the allocations (or, for bandwidth, the touched bytes) the
	// workload performed.
	Ops int64
}

// Millis returns the elapsed time in milliseconds.
func (r Result) Millis() float64 {
	return float64(r.Elapsed.Nanoseconds()) / 1e6
}

func checkParam(name string, v int) error {
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidParameter, name, v)
	}
	return nil
}

func verifyf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrVerification, fmt.Sprintf(format, args...))
}
