package simulation

import (
	"math/rand"
)

// Named sub-streams carved out of the run seed so that mortality, LTC, return
// and regime draws never share a sequence. Adding a draw to one stream cannot
// perturb the others, which keeps seeded runs comparable across engine
// versions of unrelated components.
const (
	streamLife    uint64 = 0xA1
	streamLTC     uint64 = 0xB2
	streamReturns uint64 = 0xC3
	streamRegime  uint64 = 0xD4
	streamStrata  uint64 = 0xE5
)

// splitmix64 is the standard 64-bit finalizer used to derive well-separated
// seeds from (run seed, scenario index, stream) triples.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

// rngContext derives deterministic per-scenario random sources from the run
// seed. It holds no mutable state and is safe to share across workers; every
// scenario gets freshly constructed sources, never a shared global.
type rngContext struct {
	runSeed int64
}

func newRNGContext(runSeed int64) *rngContext {
	return &rngContext{runSeed: runSeed}
}

func (c *rngContext) streamSeed(scenario int, stream uint64) int64 {
	h := splitmix64(uint64(c.runSeed))
	h = splitmix64(h ^ splitmix64(uint64(scenario)+stream))
	h = splitmix64(h ^ stream)
	return int64(h >> 1) // keep non-negative for rand.NewSource
}

// source returns an independent rand.Rand for one (scenario, stream) pair.
func (c *rngContext) source(scenario int, stream uint64) *rand.Rand {
	return rand.New(rand.NewSource(c.streamSeed(scenario, stream)))
}

// permutation returns a deterministic permutation of n elements for one
// stratification dimension. The same (runSeed, dim) always yields the same
// permutation regardless of worker scheduling.
func (c *rngContext) permutation(dim int, n int) []int {
	r := rand.New(rand.NewSource(c.streamSeed(dim, streamStrata)))
	return r.Perm(n)
}
