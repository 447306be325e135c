// Package mmap provides anonymous memory mappings for off-heap buffers.
//
// # Overview
//
// MapAnon asks the operating system for a private, zero-filled, read-write
// region that lives outside the Go heap. The garbage collector never scans
// or moves it, so workloads that own large raw buffers (the off-heap arena,
// the bandwidth buffers, the raw system allocator) measure the memory system
// rather than the collector.
//
// # Usage
//
//	m, err := mmap.MapAnon(64 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	buf := m.Bytes()
//	_ = m.Advise(mmap.AccessSequential)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, madvise(2) hints
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT (Advise is a no-op)
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Callers must ensure no
// goroutine touches Bytes() after Close returns.
package mmap
