// Package resource implements the memory budget shared by the workloads.
//
// A Controller tracks how many bytes of large, long-lived buffers (arena
// backing stores, bandwidth buffers) are currently reserved, and optionally
// enforces a hard limit:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(256 << 20); err != nil {
//	    // ErrMemoryLimitExceeded: the workload is mis-sized for this budget
//	}
//	defer rc.ReleaseMemory(256 << 20)
//
// Acquisition never blocks. A refusal is a configuration problem, not a
// transient condition, so callers fail instead of retrying.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional budgeting without nil checks everywhere.
package resource
