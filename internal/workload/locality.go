package workload

import (
	"context"
	"time"

	"github.com/hupe1980/memspeed/internal/xorshift"
)

const (
	smallPrefix  = 16
	largePrefix  = 1024
	largeStride  = 64
	largeMinSize = 1024
)

// CacheLocality allocates iterations interleaved small [16, 80) and large
// [1024, 5120) buffers, touching the first byte of each, then runs
// iterations/2 random-access rounds over them. Each round reads the first 16
// bytes of one small buffer and every 64th of the first 1024 bytes of one
// large buffer into the checksum.
func CacheLocality(ctx context.Context, iterations int, cfg Config) (Result, error) {
	if err := checkParam("iterations", iterations); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	gen := xorshift.New(cfg.Seed)

	start := time.Now()

	small := make([][]byte, iterations)
	large := make([][]byte, iterations)
	for i := 0; i < iterations; i++ {
		small[i] = make([]byte, 16+gen.Intn(64))
		large[i] = make([]byte, largeMinSize+gen.Intn(4096))

		small[i][0] = byte(i)
		large[i][0] = byte(i + 1)
	}

	var checksum uint64
	rounds := iterations / 2
	for r := 0; r < rounds; r++ {
		s := small[gen.Intn(iterations)]
		l := large[gen.Intn(iterations)]

		var sum byte
		for j := 0; j < smallPrefix && j < len(s); j++ {
			sum += s[j]
		}
		for j := 0; j < largePrefix && j < len(l); j += largeStride {
			sum += l[j]
		}
		checksum += uint64(sum)
	}

	elapsed := time.Since(start)

	return Result{
		Name:     NameCacheLocality,
		Elapsed:  elapsed,
		Checksum: checksum,
		Ops:      2 * int64(iterations),
	}, nil
}
