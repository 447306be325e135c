package workload

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/memspeed/internal/conv"
	"github.com/hupe1980/memspeed/internal/xorshift"
)

// cancelCheckInterval is how many iterations a worker runs between context
// checks.
const cancelCheckInterval = 256

// GCStress runs threads workers with iterations allocations each.
//
// Every iteration draws a size in [16, 1040) from the worker's own generator
// (seeded Seed+workerID), fills a fresh heap buffer with byte(i), sums every
// 8th byte and drops the buffer. After the join the shared counter must equal
// threads*iterations.
//
// A worker error cancels the others and fails the run. A worker panic is not
// recovered.
func GCStress(ctx context.Context, threads, iterations int, cfg Config) (Result, error) {
	if err := checkParam("threads", threads); err != nil {
		return Result{}, err
	}
	if err := checkParam("iterations", iterations); err != nil {
		return Result{}, err
	}
	want, err := conv.MulInt(threads, iterations)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %d threads x %d iterations", ErrInvalidParameter, threads, iterations)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var (
		counter  atomic.Int64
		checksum atomic.Uint64
	)

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < threads; w++ {
		g.Go(func() error {
			sum, err := gcStressWorker(gctx, w, iterations, cfg, &counter)
			checksum.Add(sum)
			return err
		})
	}
	err = g.Wait()

	elapsed := time.Since(start)

	if err != nil {
		return Result{}, err
	}

	got := counter.Load()
	if got != int64(want) {
		return Result{}, fmt.Errorf("%w: counter is %d after join, want %d", ErrVerification, got, want)
	}

	return Result{
		Name:     NameGCStress,
		Elapsed:  elapsed,
		Checksum: checksum.Load(),
		Ops:      got,
	}, nil
}

func gcStressWorker(ctx context.Context, id, iterations int, cfg Config, counter *atomic.Int64) (uint64, error) {
	gen := xorshift.New(cfg.Seed + uint64(id)) //nolint:gosec // id is a non-negative worker index

	var total uint64
	for i := 0; i < iterations; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return total, err
			}
		}

		size := 16 + gen.Intn(1024)
		data := make([]byte, size)

		fill := byte(i)
		for j := range data {
			data[j] = fill
		}

		var sum byte
		for j := 0; j < size; j += 8 {
			sum += data[j]
		}

		if cfg.Verify {
			if want := fill * byte((size+7)/8); sum != want {
				return total, verifyf("worker %d iteration %d: sum %d over %d bytes, want %d", id, i, sum, size, want)
			}
		}

		total += uint64(sum)
		counter.Add(1)
	}
	return total, nil
}
