package workload

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/hupe1980/memspeed/internal/arena"
	"github.com/hupe1980/memspeed/internal/conv"
)

const (
	poolObjectSize = 128
	poolSlack      = 1024
	poolBatches    = 10
)

// MemoryPool compares heap allocation with arena reuse over the same volume.
//
// The standard pass allocates and fills iterations 128-byte heap buffers and
// drops them. The arena pass sizes one arena to iterations*128+1024, fills
// iterations 128-byte regions, resets once, then runs 10 batches of
// iterations/10 allocations, each followed by a reset. Arena exhaustion is
// fatal.
func MemoryPool(ctx context.Context, iterations int, cfg Config) (res Result, err error) {
	if err := checkParam("iterations", iterations); err != nil {
		return Result{}, err
	}
	capacity, err := poolCapacity(iterations)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	opts := make([]arena.Option, 0, 2)
	if cfg.OffHeap {
		opts = append(opts, arena.WithOffHeap())
	}
	if cfg.Budget != nil {
		opts = append(opts, arena.WithMemoryAcquirer(cfg.Budget))
	}

	var checksum uint64

	start := time.Now()

	std := make([][]byte, iterations)
	for i := range std {
		buf := make([]byte, poolObjectSize)
		fill(buf, byte(i))
		std[i] = buf
		checksum += uint64(buf[0])
	}
	std = nil //nolint:ineffassign,wastedassign
	runtime.GC()

	a, err := arena.New(capacity, opts...)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		err = errors.Join(err, a.Free())
	}()

	for i := 0; i < iterations; i++ {
		_, buf, err := a.Alloc(poolObjectSize)
		if err != nil {
			return Result{}, fmt.Errorf("allocation %d of %d: %w", i, iterations, err)
		}
		fill(buf, byte(i))
		checksum += uint64(buf[poolObjectSize-1])
	}
	if cfg.Verify {
		if want := iterations * poolObjectSize; a.Len() != want {
			return Result{}, verifyf("arena holds %d bytes after %d allocations, want %d", a.Len(), iterations, want)
		}
	}
	a.Reset()

	batch := iterations / poolBatches
	for b := 0; b < poolBatches; b++ {
		for i := 0; i < batch; i++ {
			ref, buf, err := a.Alloc(poolObjectSize)
			if err != nil {
				return Result{}, fmt.Errorf("batch %d allocation %d: %w", b, i, err)
			}
			fill(buf, byte(i))
			if cfg.Verify && i == batch-1 {
				if err := verifyRegion(a, ref, byte(i)); err != nil {
					return Result{}, err
				}
			}
		}
		a.Reset()
	}

	elapsed := time.Since(start)

	stats := a.Stats()
	if cfg.Verify {
		if stats.Resets != poolBatches+1 {
			return Result{}, verifyf("arena reset %d times, want %d", stats.Resets, poolBatches+1)
		}
		if want := iterations * poolObjectSize; a.Peak() != want {
			return Result{}, verifyf("arena peak %d bytes, want %d", a.Peak(), want)
		}
	}

	return Result{
		Name:     NameMemoryPool,
		Elapsed:  elapsed,
		Checksum: checksum,
		Ops:      int64(iterations) + int64(stats.TotalAllocs), //nolint:gosec // bounded by iterations
	}, nil
}

func poolCapacity(iterations int) (int, error) {
	c, err := conv.MulInt(iterations, poolObjectSize)
	if err == nil {
		c, err = conv.AddInt(c, poolSlack)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: arena for %d iterations: %v", ErrInvalidParameter, iterations, err)
	}
	return c, nil
}

func verifyRegion(a *arena.Arena, ref arena.Ref, want byte) error {
	buf, err := a.Bytes(ref)
	if err != nil {
		return verifyf("region at %d: %v", ref.Offset, err)
	}
	for j, b := range buf {
		if b != want {
			return verifyf("region at %d byte %d is %d, want %d", ref.Offset, j, b, want)
		}
	}
	return nil
}

func fill(buf []byte, v byte) {
	for j := range buf {
		buf[j] = v
	}
}
