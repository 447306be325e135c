package xorshift

// Generator is a 64-bit xorshift state machine.
//
// Seed 0 is a fixed point of the transition: a generator seeded with 0 returns
// 0 forever.
type Generator struct {
	state uint64
	seed  uint64
}

// New creates a generator seeded with seed.
func New(seed uint64) *Generator {
	return &Generator{state: seed, seed: seed}
}

// Next advances the state and returns it.
func (g *Generator) Next() uint64 {
	g.state ^= g.state << 13
	g.state ^= g.state >> 7
	g.state ^= g.state << 17
	return g.state
}

// Intn returns Next() reduced modulo n. It panics if n <= 0.
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		panic("xorshift: invalid argument to Intn")
	}
	return int(g.Next() % uint64(n))
}

// Shuffle permutes n elements with a Fisher-Yates pass driven by the
// generator. swap exchanges the elements with indexes i and j.
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	if n < 0 {
		panic("xorshift: invalid argument to Shuffle")
	}
	for i := n - 1; i > 0; i-- {
		swap(i, g.Intn(i+1))
	}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}
