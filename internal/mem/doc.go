// Package mem provides raw system allocators that bypass the arena.
//
// Two disciplines are available behind the Allocator interface:
//
//   - Heap: Go heap slices. Free drops the reference; the memory comes back
//     with the next collection.
//   - OffHeap: one anonymous mapping per allocation. Free unmaps it at once,
//     so the release order is observed by the operating system.
//
// AllocAligned hands out heap slices whose first byte sits on a caller chosen
// power-of-two boundary.
package mem
