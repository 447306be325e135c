package memspeed

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/memspeed/internal/resource"
	"github.com/hupe1980/memspeed/internal/workload"
)

func TestNewParams(t *testing.T) {
	t.Run("scale 1", func(t *testing.T) {
		p, err := NewParams(1)
		require.NoError(t, err)
		assert.Equal(t, Params{
			Scale:                1,
			AllocationIterations: 10000,
			GCStressIterations:   2500,
			LocalityIterations:   5000,
			PoolIterations:       8000,
			BandwidthMiB:         100,
		}, p)
	})

	t.Run("scale 3", func(t *testing.T) {
		p, err := NewParams(3)
		require.NoError(t, err)
		assert.Equal(t, 30000, p.AllocationIterations)
		assert.Equal(t, 7500, p.GCStressIterations)
		assert.Equal(t, 15000, p.LocalityIterations)
		assert.Equal(t, 24000, p.PoolIterations)
		assert.Equal(t, 300, p.BandwidthMiB)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, scale := range []int{0, -1, math.MaxInt, math.MaxInt / 100} {
			_, err := NewParams(scale)
			assert.ErrorIs(t, err, ErrInvalidScale, "scale %d", scale)
		}
	})
}

func TestParseScale(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"one", "1", 1, false},
		{"positive", "7", 7, false},
		{"zero", "0", DefaultScale, true},
		{"negative", "-3", DefaultScale, true},
		{"not a number", "fast", DefaultScale, true},
		{"empty", "", DefaultScale, true},
		{"fraction", "1.5", DefaultScale, true},
		{"out of range", "99999999999999999999", DefaultScale, true},
		{"overflowing scale", strconv.Itoa(math.MaxInt / 1000), DefaultScale, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScale(tt.input)
			assert.Equal(t, tt.want, got)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var se *ScaleError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.input, se.Input)
			assert.ErrorIs(t, err, ErrInvalidScale)
			assert.Contains(t, err.Error(), strconv.Quote(tt.input))
		})
	}
}

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "0.000", FormatMillis(0))
	assert.Equal(t, "1.235", FormatMillis(1.23456))
	assert.Equal(t, "1234.500", FormatMillis(1234.5))

	r := &Report{Total: 1500 * time.Microsecond}
	assert.Equal(t, "1.500", FormatMillis(r.TotalMillis()))
}

func TestRun(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates two 100 MiB buffers")
	}

	mc := &BasicMetricsCollector{}
	report, err := Run(context.Background(), 1,
		WithVerify(true),
		WithMetricsCollector(mc),
		WithLogger(NoopLogger()),
	)
	require.NoError(t, err)

	names := make([]string, 0, len(report.Results))
	var sum time.Duration
	for _, r := range report.Results {
		names = append(names, r.Name)
		assert.GreaterOrEqual(t, r.Millis(), 0.0)
		sum += r.Elapsed
	}
	assert.Equal(t, []string{
		workload.NameAllocationPatterns,
		workload.NameGCStress,
		workload.NameCacheLocality,
		workload.NameMemoryPool,
		workload.NameBandwidth,
	}, names)
	assert.Equal(t, sum, report.Total)
	assert.Equal(t, int64(4*2500), report.Results[1].Ops)
	assert.Equal(t, int64(200<<20), report.PeakReservedBytes)
	assert.Regexp(t, `^\d+\.\d{3}$`, FormatMillis(report.TotalMillis()))

	stats := mc.GetStats()
	assert.Equal(t, int64(5), stats.WorkloadCount)
	assert.Zero(t, stats.WorkloadErrors)
	assert.Equal(t, int64(1), stats.RunCount)
	assert.Zero(t, stats.RunErrors)
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid scale", func(t *testing.T) {
		mc := &BasicMetricsCollector{}
		_, err := Run(ctx, 0, WithMetricsCollector(mc))
		assert.ErrorIs(t, err, ErrInvalidScale)
		assert.Equal(t, int64(1), mc.GetStats().RunErrors)
		assert.Zero(t, mc.GetStats().WorkloadCount)
	})

	t.Run("invalid threads", func(t *testing.T) {
		_, err := Run(ctx, 1, WithThreads(0))
		assert.ErrorIs(t, err, ErrInvalidThreads)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Run(cctx, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("memory limit", func(t *testing.T) {
		mc := &BasicMetricsCollector{}
		report, err := Run(ctx, 1, WithMemoryLimit(1<<20), WithMetricsCollector(mc))
		require.Error(t, err)
		assert.Nil(t, report)

		var we *WorkloadError
		require.True(t, errors.As(err, &we))
		assert.Equal(t, workload.NameBandwidth, we.Workload)
		assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
		assert.Contains(t, err.Error(), "workload bandwidth")

		stats := mc.GetStats()
		assert.Equal(t, int64(5), stats.WorkloadCount)
		assert.Equal(t, int64(1), stats.WorkloadErrors)
	})
}

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	assert.Equal(t, DefaultThreads, o.threads)
	assert.Equal(t, uint64(DefaultSeed), o.seed)
	assert.Equal(t, uint64(42), o.seed)

	WithSeed(7)(&o)
	assert.Equal(t, uint64(7), o.seed)
}
