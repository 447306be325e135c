package memspeed

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/hupe1980/memspeed/internal/conv"
	"github.com/hupe1980/memspeed/internal/resource"
	"github.com/hupe1980/memspeed/internal/workload"
)

// DefaultScale is used when no valid scale factor is given.
const DefaultScale = 1

// Base sizes at scale 1.
const (
	baseAllocationIterations = 10000
	baseGCStressIterations   = 2500
	baseLocalityIterations   = 5000
	basePoolIterations       = 8000
	baseBandwidthMiB         = 100
)

// Params are the workload sizes derived from a scale factor.
type Params struct {
	Scale int
	// AllocationIterations is the buffer count of both allocation phases.
	AllocationIterations int
	// GCStressIterations is the per-worker iteration count.
	GCStressIterations int
	// LocalityIterations is the number of small/large buffer pairs.
	LocalityIterations int
	// PoolIterations is the number of 128-byte objects per pool pass.
	PoolIterations int
	// BandwidthMiB is the size of each bandwidth buffer.
	BandwidthMiB int
}

// NewParams derives every workload size from scale. The scale must be
// positive and small enough that no derived size (including the pool arena
// and the bandwidth buffers in bytes) overflows an int.
func NewParams(scale int) (Params, error) {
	if scale <= 0 {
		return Params{}, fmt.Errorf("%w: %d is not positive", ErrInvalidScale, scale)
	}

	p := Params{Scale: scale}
	for _, f := range []struct {
		dst  *int
		base int
	}{
		{&p.AllocationIterations, baseAllocationIterations},
		{&p.GCStressIterations, baseGCStressIterations},
		{&p.LocalityIterations, baseLocalityIterations},
		{&p.PoolIterations, basePoolIterations},
		{&p.BandwidthMiB, baseBandwidthMiB},
	} {
		v, err := conv.MulInt(f.base, scale)
		if err != nil {
			return Params{}, fmt.Errorf("%w: %d overflows: %v", ErrInvalidScale, scale, err)
		}
		*f.dst = v
	}

	// Byte sizes derived inside the workloads.
	if arenaBytes, err := conv.MulInt(p.PoolIterations, 128); err != nil || arenaBytes > math.MaxInt-1024 {
		return Params{}, fmt.Errorf("%w: %d overflows the pool arena size", ErrInvalidScale, scale)
	}
	if bufBytes, err := conv.MiBToBytes(p.BandwidthMiB); err != nil || bufBytes > math.MaxInt/2 {
		return Params{}, fmt.Errorf("%w: %d overflows the bandwidth buffer size", ErrInvalidScale, scale)
	}

	return p, nil
}

// ParseScale parses a scale argument. When arg is not a positive integer, or
// too large to derive Params from, it returns DefaultScale together with a
// *ScaleError explaining the rejection. Callers treat that error as a warning.
func ParseScale(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return DefaultScale, &ScaleError{Input: arg, cause: fmt.Errorf("%w: %w", ErrInvalidScale, err)}
	}
	if _, err := NewParams(n); err != nil {
		return DefaultScale, &ScaleError{Input: arg, cause: err}
	}
	return n, nil
}

// Result is the outcome of one workload.
type Result struct {
	Name    string
	Elapsed time.Duration
	// Checksum is the value accumulated by the workload's reads.
	Checksum uint64
	// Ops counts the allocations or bytes the workload handled.
	Ops int64
}

// Millis returns the elapsed time in milliseconds.
func (r Result) Millis() float64 {
	return millis(r.Elapsed)
}

// Report is the outcome of a successful run.
type Report struct {
	Params  Params
	Results []Result
	Total   time.Duration
	// PeakReservedBytes is the largest amount of memory reserved at once by
	// arenas and bandwidth buffers.
	PeakReservedBytes int64
}

// TotalMillis returns the summed elapsed time of all workloads in
// milliseconds.
func (r *Report) TotalMillis() float64 {
	return millis(r.Total)
}

// FormatMillis formats milliseconds with three decimals.
func FormatMillis(ms float64) string {
	return fmt.Sprintf("%.3f", ms)
}

func millis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

type step struct {
	name string
	run  func(context.Context, workload.Config) (workload.Result, error)
}

func steps(p Params, threads int) []step {
	return []step{
		{workload.NameAllocationPatterns, func(ctx context.Context, cfg workload.Config) (workload.Result, error) {
			return workload.AllocationPatterns(ctx, p.AllocationIterations, cfg)
		}},
		{workload.NameGCStress, func(ctx context.Context, cfg workload.Config) (workload.Result, error) {
			return workload.GCStress(ctx, threads, p.GCStressIterations, cfg)
		}},
		{workload.NameCacheLocality, func(ctx context.Context, cfg workload.Config) (workload.Result, error) {
			return workload.CacheLocality(ctx, p.LocalityIterations, cfg)
		}},
		{workload.NameMemoryPool, func(ctx context.Context, cfg workload.Config) (workload.Result, error) {
			return workload.MemoryPool(ctx, p.PoolIterations, cfg)
		}},
		{workload.NameBandwidth, func(ctx context.Context, cfg workload.Config) (workload.Result, error) {
			return workload.Bandwidth(ctx, p.BandwidthMiB, cfg)
		}},
	}
}

// Run executes every workload once, in fixed order, and sums their elapsed
// times. The first failing workload ends the run; no partial report is
// returned.
func Run(ctx context.Context, scale int, opts ...Option) (*Report, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	report, err := run(ctx, scale, o)

	var total time.Duration
	if report != nil {
		total = report.Total
	}
	o.metricsCollector.RecordRun(scale, total, err)
	o.logger.LogRun(ctx, scale, total, err)

	if err != nil {
		return nil, err
	}
	return report, nil
}

func run(ctx context.Context, scale int, o options) (*Report, error) {
	if o.threads <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreads, o.threads)
	}
	p, err := NewParams(scale)
	if err != nil {
		return nil, err
	}

	budget := resource.NewController(resource.Config{MemoryLimitBytes: max(o.memoryLimit, 0)})
	cfg := workload.Config{
		Seed:    o.seed,
		Verify:  o.verify,
		OffHeap: o.offHeap,
		Budget:  budget,
	}

	report := &Report{
		Params:  p,
		Results: make([]Result, 0, 5),
	}

	for _, s := range steps(p, o.threads) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := s.run(ctx, cfg)
		o.metricsCollector.RecordWorkload(s.name, res.Elapsed, err)
		o.logger.LogWorkload(ctx, s.name, res.Elapsed, err)
		if err != nil {
			return nil, &WorkloadError{Workload: s.name, cause: err}
		}

		report.Results = append(report.Results, Result(res))
		report.Total += res.Elapsed
	}

	report.PeakReservedBytes = budget.PeakMemoryUsage()
	return report, nil
}
