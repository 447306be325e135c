// Package memspeed is a deterministic memory-subsystem benchmark.
//
// Run executes a fixed battery of allocation workloads once, in order, and
// reports the elapsed time of each plus the total:
//
//	report, err := memspeed.Run(ctx, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(memspeed.FormatMillis(report.TotalMillis()))
//
// # Workloads
//
// For a scale factor s the harness runs:
//
//   - allocation-patterns: 10000*s sequential heap buffers, then 10000*s raw
//     allocations released in a seeded random order
//   - gc-stress: 4 workers with 2500*s short-lived allocations each
//   - cache-locality: 5000*s interleaved small/large buffers read at random
//   - memory-pool: 8000*s 128-byte objects on the heap and in a bump arena
//   - bandwidth: two 100*s MiB buffers written, copied and read
//
// Every random draw comes from a xorshift64 generator with a fixed seed, so
// two runs with the same options do the same work. Elapsed times are of
// course not reproducible.
//
// # Options
//
// Options tune the run without changing the contract:
//
//	report, err := memspeed.Run(ctx, 2,
//	    memspeed.WithThreads(8),
//	    memspeed.WithVerify(true),        // self-check every workload
//	    memspeed.WithOffHeap(true),       // anonymous mappings instead of the heap
//	    memspeed.WithMemoryLimit(1<<30),  // refuse arenas/buffers beyond 1 GiB
//	    memspeed.WithLogger(memspeed.NewTextLogger(slog.LevelDebug)),
//	)
//
// # Errors
//
// Allocation failures, memory budget refusals and verification failures end
// the run at once. They are returned as *WorkloadError, which names the
// failing workload and unwraps to the cause:
//
//	var we *memspeed.WorkloadError
//	if errors.As(err, &we) {
//	    fmt.Println(we.Workload)
//	}
//	if errors.Is(err, memspeed.ErrVerification) {
//	    // a self-check failed
//	}
package memspeed
