package memspeed

import "github.com/hupe1980/memspeed/internal/workload"

// DefaultThreads is the number of gc-stress workers.
const DefaultThreads = 4

// DefaultSeed is the base seed of every generator.
const DefaultSeed = workload.DefaultSeed

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	threads          int
	seed             uint64
	verify           bool
	offHeap          bool
	memoryLimit      int64
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		threads:          DefaultThreads,
		seed:             DefaultSeed,
	}
}

// Option configures a Run.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the collector notified after every workload and
// after the run. If nil is passed, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithThreads sets the number of gc-stress workers (default 4).
func WithThreads(n int) Option {
	return func(o *options) {
		o.threads = n
	}
}

// WithSeed sets the base seed of every generator (default 42).
// Seed 0 is a fixed point of xorshift: every draw returns 0.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithVerify enables the workloads' self-checks. Checks run inside the
// measured windows.
func WithVerify(verify bool) Option {
	return func(o *options) {
		o.verify = verify
	}
}

// WithOffHeap backs raw allocations, the pool arena and the bandwidth
// buffers with anonymous memory mappings.
func WithOffHeap(offHeap bool) Option {
	return func(o *options) {
		o.offHeap = offHeap
	}
}

// WithMemoryLimit caps the bytes reserved by arenas and bandwidth buffers.
// Zero or negative means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}
