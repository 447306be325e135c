// Package workload implements the timed memory workloads.
//
// Every workload is a plain function that takes its size parameter and a
// Config, runs once, and returns a Result:
//
//	res, err := workload.GCStress(ctx, 4, 2500, workload.Config{Seed: 42})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Millis())
//
// All randomness comes from internal/xorshift, so a fixed seed yields the
// same sizes, indices and release order on every run. Only GCStress starts
// goroutines; everything else runs on the caller's goroutine.
//
// With Config.Verify set the workloads additionally check their own
// invariants (lost counter updates, copy integrity, release bookkeeping) and
// return ErrVerification when one does not hold. Verification work happens
// inside the measured window, so verified timings are not comparable with
// plain ones.
package workload
