// Package arena provides a fixed-capacity bump allocator over one owned buffer.
//
// The arena hands out 8-byte aligned regions from a cursor into a single
// buffer sized up front. There is no growth, no free-list and no individual
// deallocation: Reset rewinds the cursor in O(1) and invalidates every region
// handed out before it.
//
// # Handles
//
// Alloc returns both an offset-based Ref and the region's bytes. The Ref
// carries the arena generation; Bytes(ref) rejects refs from before the last
// Reset with ErrStaleRef. The byte slice returned by Alloc is not checked:
// using it after Reset is a caller bug that the arena cannot detect.
//
// # Backing store
//
// By default the buffer lives on the Go heap. WithOffHeap backs it with an
// anonymous mapping instead, and WithMemoryAcquirer reserves the capacity
// against a shared budget.
//
// # Concurrency
//
// An Arena is not safe for concurrent use. It is owned by one goroutine.
package arena
