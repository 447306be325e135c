package workload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/memspeed/internal/conv"
	"github.com/hupe1980/memspeed/internal/mem"
	"github.com/hupe1980/memspeed/internal/mmap"
	"github.com/hupe1980/memspeed/internal/xorshift"
)

const (
	bandwidthStride = 4096
	bandwidthRMW    = 10000
	bandwidthTail   = 64
)

// Bandwidth moves two buffers of mib MiB each through four phases in one
// measurement window: a strided write into buffer 1 every 4096 bytes, a bulk
// copy into buffer 2, a strided read of buffer 2, and 10,000 random
// read-modify-writes (buf2[off] = buf1[off] + 1) at offsets in [0, size-64).
func Bandwidth(ctx context.Context, mib int, cfg Config) (res Result, err error) {
	if mib <= 0 {
		return Result{}, fmt.Errorf("%w: buffer size must be positive, got %d MiB", ErrInvalidParameter, mib)
	}
	size, err := conv.MiBToBytes(mib)
	if err == nil {
		_, err = conv.MulInt(size, 2)
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: %d MiB: %v", ErrInvalidParameter, mib, err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	reserve := 2 * int64(size)
	if err := cfg.Budget.AcquireMemory(reserve); err != nil {
		return Result{}, fmt.Errorf("reserve bandwidth buffers: %w", err)
	}
	defer cfg.Budget.ReleaseMemory(reserve)

	bufs, err := newBandwidthBuffers(size, cfg.OffHeap)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		err = errors.Join(err, bufs.Close())
	}()

	src, dst := bufs.src, bufs.dst
	gen := xorshift.New(cfg.Seed)

	start := time.Now()

	bufs.Advise(mmap.AccessSequential)
	for i := 0; i < size; i += bandwidthStride {
		src[i] = byte(i / bandwidthStride)
	}

	copy(dst, src)

	if cfg.Verify && !bytes.Equal(dst, src) {
		return Result{}, verifyf("buffers differ after copy of %d bytes", size)
	}

	var checksum uint64
	for i := 0; i < size; i += bandwidthStride {
		checksum += uint64(dst[i])
	}

	bufs.Advise(mmap.AccessRandom)
	span := size - bandwidthTail
	for i := 0; i < bandwidthRMW; i++ {
		off := gen.Intn(span)
		dst[off] = src[off] + 1
	}

	elapsed := time.Since(start)

	return Result{
		Name:     NameBandwidth,
		Elapsed:  elapsed,
		Checksum: checksum,
		Ops:      reserve,
	}, nil
}

// bandwidthBuffers owns the two buffers, either heap slices aligned to the
// system page size or anonymous mappings.
type bandwidthBuffers struct {
	src, dst []byte
	mappings []*mmap.Mapping
}

func newBandwidthBuffers(size int, offHeap bool) (*bandwidthBuffers, error) {
	if !offHeap {
		pageSize := mmap.PageSize()
		src, err := mem.AllocAligned(size, pageSize)
		if err != nil {
			return nil, err
		}
		dst, err := mem.AllocAligned(size, pageSize)
		if err != nil {
			return nil, err
		}
		return &bandwidthBuffers{src: src, dst: dst}, nil
	}

	b := &bandwidthBuffers{}
	for range 2 {
		m, err := mmap.MapAnon(size)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("%w: %w", mem.ErrOutOfMemory, err)
		}
		b.mappings = append(b.mappings, m)
	}
	b.src, b.dst = b.mappings[0].Bytes(), b.mappings[1].Bytes()
	return b, nil
}

// Advise passes an access hint for both mappings. Hints are best effort and
// heap buffers ignore them.
func (b *bandwidthBuffers) Advise(pattern mmap.AccessPattern) {
	for _, m := range b.mappings {
		_ = m.Advise(pattern)
	}
}

func (b *bandwidthBuffers) Close() error {
	var errs []error
	for _, m := range b.mappings {
		errs = append(errs, m.Close())
	}
	b.mappings = nil
	b.src, b.dst = nil, nil
	return errors.Join(errs...)
}
