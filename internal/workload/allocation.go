package workload

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/hupe1980/memspeed/internal/mem"
	"github.com/hupe1980/memspeed/internal/xorshift"
)

type allocation struct {
	block mem.Block
	index int
}

// AllocationPatterns runs the sequential and random allocation phases in one
// measurement window.
//
// The sequential phase allocates iterations heap buffers of 64+(i%256) bytes
// and drops them all at once. The random phase allocates iterations blocks of
// [32, 544) bytes through the raw allocator, shuffles them with the seeded
// generator and frees them in that order.
func AllocationPatterns(ctx context.Context, iterations int, cfg Config) (Result, error) {
	if err := checkParam("iterations", iterations); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var alloc mem.Allocator = mem.NewHeap()
	if cfg.OffHeap {
		alloc = mem.NewOffHeap()
	}

	var released *ledger
	if cfg.Verify {
		released = newLedger()
	}

	start := time.Now()

	var checksum uint64
	seq := make([][]byte, iterations)
	for i := range seq {
		seq[i] = make([]byte, 64+i%256)
		seq[i][0] = byte(i)
		checksum += uint64(seq[i][0])
	}
	seq = nil //nolint:ineffassign,wastedassign // release all at once
	runtime.GC()

	gen := xorshift.New(cfg.Seed)
	allocs := make([]allocation, iterations)
	for i := range allocs {
		size := 32 + gen.Intn(512)
		b, err := alloc.Allocate(size)
		if err != nil {
			freeAll(alloc, allocs[:i])
			return Result{}, fmt.Errorf("%s: allocate %d bytes: %w", alloc.Name(), size, err)
		}
		b.Bytes()[0] = byte(i)
		allocs[i] = allocation{block: b, index: i}
	}

	gen.Shuffle(len(allocs), func(i, j int) {
		allocs[i], allocs[j] = allocs[j], allocs[i]
	})

	for i, a := range allocs {
		checksum += uint64(a.block.Bytes()[0])
		if err := alloc.Free(a.block); err != nil {
			freeAll(alloc, allocs[i+1:])
			return Result{}, fmt.Errorf("%s: free allocation %d: %w", alloc.Name(), a.index, err)
		}
		if released != nil {
			if err := released.Release(a.index); err != nil {
				freeAll(alloc, allocs[i+1:])
				return Result{}, err
			}
		}
	}
	allocs = nil //nolint:ineffassign,wastedassign
	runtime.GC()

	elapsed := time.Since(start)

	if released != nil {
		if err := released.Verify(iterations); err != nil {
			return Result{}, err
		}
	}

	return Result{
		Name:     NameAllocationPatterns,
		Elapsed:  elapsed,
		Checksum: checksum,
		Ops:      2 * int64(iterations),
	}, nil
}

func freeAll(alloc mem.Allocator, allocs []allocation) {
	for _, a := range allocs {
		_ = alloc.Free(a.block)
	}
}
