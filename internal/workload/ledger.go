package workload

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// ledger records which allocation indices have been released.
type ledger struct {
	released *roaring.Bitmap
}

func newLedger() *ledger {
	return &ledger{released: roaring.New()}
}

// Release marks index as released. Releasing an index twice, or one that
// cannot be an allocation index, is a verification failure.
func (l *ledger) Release(index int) error {
	if index < 0 || index > math.MaxUint32 {
		return verifyf("release index %d out of range", index)
	}
	if !l.released.CheckedAdd(uint32(index)) {
		return verifyf("index %d released twice", index)
	}
	return nil
}

// Verify checks that exactly the indices [0, n) were released.
func (l *ledger) Verify(n int) error {
	got := l.released.GetCardinality()
	if got != uint64(n) {
		return verifyf("released %d allocations, want %d", got, n)
	}
	if n > 0 && uint64(l.released.Maximum()) != uint64(n-1) {
		return verifyf("released index %d beyond %d allocations", l.released.Maximum(), n)
	}
	return nil
}

// Len returns the number of released indices.
func (l *ledger) Len() uint64 {
	return l.released.GetCardinality()
}
