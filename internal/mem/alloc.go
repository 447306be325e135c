package mem

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/memspeed/internal/mmap"
)

var (
	// ErrOutOfMemory is returned when the system refuses an allocation.
	ErrOutOfMemory = errors.New("mem: out of memory")
	// ErrInvalidSize is returned for negative sizes.
	ErrInvalidSize = errors.New("mem: invalid size")
	// ErrInvalidAlignment is returned when the alignment is not a power of two.
	ErrInvalidAlignment = errors.New("mem: alignment must be a power of two")
)

// Block is one raw allocation. The zero Block is empty.
type Block struct {
	data    []byte
	mapping *mmap.Mapping
}

// Bytes returns the allocated memory. It is valid until the block is freed.
func (b Block) Bytes() []byte {
	return b.data
}

// Len returns the usable size of the block.
func (b Block) Len() int {
	return len(b.data)
}

// Allocator hands out and takes back raw blocks.
type Allocator interface {
	// Allocate returns a zeroed block of exactly size usable bytes.
	Allocate(size int) (Block, error)
	// Free releases the block. The block must not be used afterwards.
	Free(b Block) error
	// Name identifies the allocation discipline in logs.
	Name() string
}

// Heap allocates from the Go heap.
type Heap struct{}

// NewHeap returns the Go heap allocator.
func NewHeap() *Heap { return &Heap{} }

// Allocate satisfies the Allocator interface.
func (*Heap) Allocate(size int) (Block, error) {
	if size < 0 {
		return Block{}, ErrInvalidSize
	}
	return Block{data: make([]byte, size)}, nil
}

// Free satisfies the Allocator interface. Heap memory is reclaimed by the
// collector once the last reference is gone.
func (*Heap) Free(Block) error { return nil }

// Name satisfies the Allocator interface.
func (*Heap) Name() string { return "heap" }

// OffHeap backs every allocation with its own anonymous mapping.
type OffHeap struct{}

// NewOffHeap returns the anonymous-mapping allocator.
func NewOffHeap() *OffHeap { return &OffHeap{} }

// Allocate satisfies the Allocator interface.
func (*OffHeap) Allocate(size int) (Block, error) {
	if size < 0 {
		return Block{}, ErrInvalidSize
	}
	m, err := mmap.MapAnon(size)
	if err != nil {
		return Block{}, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	return Block{data: m.Bytes(), mapping: m}, nil
}

// Free satisfies the Allocator interface.
func (*OffHeap) Free(b Block) error {
	if b.mapping == nil {
		return nil
	}
	return b.mapping.Close()
}

// Name satisfies the Allocator interface.
func (*OffHeap) Name() string { return "offheap" }

// AllocAligned allocates a heap byte slice of the given size whose first
// byte is aligned to align, which must be a power of two.
//
// It allocates size+align bytes and slices into the first aligned offset;
// the returned slice keeps the whole backing array alive.
func AllocAligned(size, align int) ([]byte, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if align <= 0 || align&(align-1) != 0 {
		return nil, ErrInvalidAlignment
	}
	if size == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, size+align)
	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // address is only inspected, never dereferenced
	mask := uintptr(align - 1)
	offset := int((uintptr(align) - addr&mask) & mask)

	return buf[offset : offset+size : offset+size], nil
}
