package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint64(t *testing.T) {
	got, err := IntToUint64(123)
	require.NoError(t, err)
	assert.Equal(t, uint64(123), got)

	got, err = IntToUint64(math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxInt), got)

	_, err = IntToUint64(-1)
	assert.Error(t, err)
}

func TestMulInt(t *testing.T) {
	tests := []struct {
		name    string
		a, b    int
		want    int
		wantErr bool
	}{
		{"zero", 0, math.MaxInt, 0, false},
		{"small", 10000, 3, 30000, false},
		{"max", math.MaxInt, 1, math.MaxInt, false},
		{"overflow", math.MaxInt/2 + 1, 2, 0, true},
		{"negative", -1, 2, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulInt(tt.a, tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddInt(t *testing.T) {
	got, err := AddInt(1024, 8000*128)
	require.NoError(t, err)
	assert.Equal(t, 1025024, got)

	_, err = AddInt(math.MaxInt, 1)
	assert.Error(t, err)

	_, err = AddInt(-5, 1)
	assert.Error(t, err)
}

func TestMiBToBytes(t *testing.T) {
	got, err := MiBToBytes(100)
	require.NoError(t, err)
	assert.Equal(t, 100*1024*1024, got)

	_, err = MiBToBytes(math.MaxInt)
	assert.Error(t, err)
}
