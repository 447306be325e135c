package mem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocators(t *testing.T) {
	for _, a := range []Allocator{NewHeap(), NewOffHeap()} {
		t.Run(a.Name(), func(t *testing.T) {
			b, err := a.Allocate(544)
			require.NoError(t, err)
			require.Equal(t, 544, b.Len())

			buf := b.Bytes()
			for i := range buf {
				require.Zero(t, buf[i])
				buf[i] = byte(i)
			}
			assert.Equal(t, byte(200), buf[200])
			require.NoError(t, a.Free(b))

			empty, err := a.Allocate(0)
			require.NoError(t, err)
			assert.Equal(t, 0, empty.Len())
			require.NoError(t, a.Free(empty))

			_, err = a.Allocate(-1)
			assert.ErrorIs(t, err, ErrInvalidSize)
		})
	}
}

func TestOffHeap_RandomOrderFree(t *testing.T) {
	a := NewOffHeap()

	blocks := make([]Block, 16)
	for i := range blocks {
		b, err := a.Allocate(32 + i*16)
		require.NoError(t, err)
		b.Bytes()[0] = byte(i)
		blocks[i] = b
	}

	for _, i := range []int{7, 0, 15, 3, 9, 1, 14, 2, 8, 4, 13, 5, 12, 6, 11, 10} {
		require.Equal(t, byte(i), blocks[i].Bytes()[0])
		require.NoError(t, a.Free(blocks[i]))
	}
}

func TestFree_ZeroBlock(t *testing.T) {
	assert.NoError(t, NewOffHeap().Free(Block{}))
	assert.NoError(t, NewHeap().Free(Block{}))
}

func TestAllocAligned(t *testing.T) {
	for _, align := range []int{1, 8, 64, 4096} {
		buf, err := AllocAligned(1000, align)
		require.NoError(t, err)
		require.Len(t, buf, 1000)
		assert.Equal(t, 1000, cap(buf))

		addr := uintptr(unsafe.Pointer(&buf[0]))
		assert.Zero(t, addr%uintptr(align), "align=%d", align)
	}

	buf, err := AllocAligned(0, 64)
	require.NoError(t, err)
	assert.Empty(t, buf)

	_, err = AllocAligned(10, 3)
	assert.ErrorIs(t, err, ErrInvalidAlignment)

	_, err = AllocAligned(-1, 8)
	assert.ErrorIs(t, err, ErrInvalidSize)
}
