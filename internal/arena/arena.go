package arena

import (
	"errors"
	"fmt"

	"github.com/hupe1980/memspeed/internal/conv"
	"github.com/hupe1980/memspeed/internal/mmap"
)

// MemoryAcquirer is an interface for reserving memory against a budget.
type MemoryAcquirer interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

var (
	// ErrAllocationFailed is returned when an allocation does not fit.
	ErrAllocationFailed = errors.New("arena: allocation failed")
	// ErrStaleRef is returned when a ref predates the last Reset.
	ErrStaleRef = errors.New("arena: stale reference")
	// ErrOutOfBounds is returned when a ref does not lie inside the live region.
	ErrOutOfBounds = errors.New("arena: reference out of bounds")
	// ErrInvalidSize is returned for negative capacities or sizes.
	ErrInvalidSize = errors.New("arena: invalid size")
	// ErrFreed is returned by every operation after Free.
	ErrFreed = errors.New("arena: use after free")
)

// Alignment is the alignment of every region, relative to the arena start.
const Alignment = 8

// Ref is an offset-based handle to an arena region.
// Gen is the arena generation at allocation time; 0 is never a valid generation.
type Ref struct {
	Gen    uint32
	Offset uint64
	Size   uint64
}

// Stats tracks arena usage.
//
//   - TotalAllocs/FailedAllocs/Resets: cumulative since New
//   - BytesUsed: bytes requested since the last Reset (before alignment)
//   - BytesWasted: alignment padding since the last Reset
type Stats struct {
	TotalAllocs  uint64
	FailedAllocs uint64
	Resets       uint64
	BytesUsed    uint64
	BytesWasted  uint64
}

// Arena is a fixed-capacity bump allocator.
type Arena struct {
	buf  []byte
	used int
	peak int
	gen  uint32

	offHeap  bool
	mapping  *mmap.Mapping
	acquirer MemoryAcquirer
	reserved int64
	freed    bool

	stats Stats
}

// Option is a configuration option for Arena.
type Option func(*Arena)

// WithOffHeap backs the arena with an anonymous memory mapping.
func WithOffHeap() Option {
	return func(a *Arena) {
		a.offHeap = true
	}
}

// WithMemoryAcquirer reserves the arena capacity from acquirer for the
// lifetime of the arena.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// New creates an arena owning one zero-initialized buffer of exactly
// capacity bytes.
func New(capacity int, opts ...Option) (*Arena, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrInvalidSize, capacity)
	}

	a := &Arena{gen: 1}
	for _, opt := range opts {
		opt(a)
	}

	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(int64(capacity)); err != nil {
			return nil, fmt.Errorf("arena: reserve %d bytes: %w", capacity, err)
		}
		a.reserved = int64(capacity)
	}

	if a.offHeap {
		m, err := mmap.MapAnon(capacity)
		if err != nil {
			a.releaseReservation()
			return nil, fmt.Errorf("arena: %w", err)
		}
		a.mapping = m
		a.buf = m.Bytes()
	} else {
		a.buf = make([]byte, capacity)
	}

	return a, nil
}

// Alloc reserves size bytes rounded up to Alignment.
// It returns the region's handle and its bytes (len == size). The bytes stay
// valid until the next Reset; that is not checked.
// When the aligned size does not fit in the remaining capacity Alloc returns
// ErrAllocationFailed and the arena is unchanged.
func (a *Arena) Alloc(size int) (Ref, []byte, error) {
	if a.freed {
		return Ref{}, nil, ErrFreed
	}
	if size < 0 {
		return Ref{}, nil, fmt.Errorf("%w: size %d", ErrInvalidSize, size)
	}

	capacity := len(a.buf)
	// Checking size first keeps the round-up below from overflowing.
	if capacity == 0 || size > capacity-a.used {
		return a.fail(size)
	}
	aligned := (size + Alignment - 1) &^ (Alignment - 1)
	if aligned > capacity-a.used {
		return a.fail(size)
	}

	off := a.used
	a.used += aligned
	if a.used > a.peak {
		a.peak = a.used
	}

	a.stats.TotalAllocs++
	a.stats.BytesUsed += uint64(size)
	a.stats.BytesWasted += uint64(aligned - size)

	ref := Ref{Gen: a.gen, Offset: uint64(off), Size: uint64(size)}
	return ref, a.buf[off : off+size : off+size], nil
}

func (a *Arena) fail(size int) (Ref, []byte, error) {
	a.stats.FailedAllocs++
	return Ref{}, nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use",
		ErrAllocationFailed, size, a.used, len(a.buf))
}

// Bytes returns the region for ref, checking that it belongs to the current
// generation and lies inside the allocated prefix.
func (a *Arena) Bytes(ref Ref) ([]byte, error) {
	if a.freed {
		return nil, ErrFreed
	}
	if ref.Gen != a.gen {
		return nil, fmt.Errorf("%w: generation %d, arena at %d", ErrStaleRef, ref.Gen, a.gen)
	}
	used, err := conv.IntToUint64(a.used)
	if err != nil {
		return nil, err
	}
	if ref.Offset > used || ref.Size > used-ref.Offset {
		return nil, fmt.Errorf("%w: [%d, %d) beyond %d", ErrOutOfBounds, ref.Offset, ref.Offset+ref.Size, used)
	}
	end := ref.Offset + ref.Size
	return a.buf[ref.Offset:end:end], nil
}

// Reset rewinds the cursor to zero without clearing memory.
//
// IMPORTANT: every slice returned by Alloc before Reset becomes invalid, and
// every Ref becomes stale.
func (a *Arena) Reset() {
	if a.freed {
		return
	}
	a.used = 0
	a.gen++
	if a.gen == 0 {
		a.gen = 1
	}
	a.stats.Resets++
	a.stats.BytesUsed = 0
	a.stats.BytesWasted = 0
}

// Free releases the backing store and any memory reservation.
// After Free the arena cannot be used. Free is idempotent.
func (a *Arena) Free() error {
	if a.freed {
		return nil
	}
	a.freed = true
	a.buf = nil
	a.used = 0

	var err error
	if a.mapping != nil {
		err = a.mapping.Close()
		a.mapping = nil
	}
	a.releaseReservation()
	return err
}

func (a *Arena) releaseReservation() {
	if a.acquirer != nil && a.reserved > 0 {
		a.acquirer.ReleaseMemory(a.reserved)
		a.reserved = 0
	}
}

// Len returns the number of bytes currently allocated, including padding.
func (a *Arena) Len() int {
	return a.used
}

// Cap returns the fixed capacity of the arena.
func (a *Arena) Cap() int {
	return len(a.buf)
}

// Available returns the number of bytes left before the arena is exhausted.
func (a *Arena) Available() int {
	return len(a.buf) - a.used
}

// Peak returns the high-water mark of Len. It is not reset by Reset.
func (a *Arena) Peak() int {
	return a.peak
}

// Generation returns the current generation.
func (a *Arena) Generation() uint32 {
	return a.gen
}

// OffHeap reports whether the buffer is an anonymous mapping.
func (a *Arena) OffHeap() bool {
	return a.mapping != nil
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return a.stats
}

func (a *Arena) String() string {
	return fmt.Sprintf(
		"Arena{cap: %.2f MB, used: %.2f MB, peak: %.2f MB, wasted: %.2f KB, allocs: %d, failed: %d, resets: %d, offheap: %t}",
		float64(len(a.buf))/(1024*1024),
		float64(a.used)/(1024*1024),
		float64(a.peak)/(1024*1024),
		float64(a.stats.BytesWasted)/1024,
		a.stats.TotalAllocs,
		a.stats.FailedAllocs,
		a.stats.Resets,
		a.OffHeap(),
	)
}
