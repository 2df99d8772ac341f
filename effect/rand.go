package effect

import (
	"math/rand/v2"
)

// Rand is the randomness capability particles are drawn from
// *rand.Rand from math/rand/v2 satisfies it
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a PCG source seeded from the given values
func NewRand(seed1, seed2 uint64) Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// uniform draws from [lo, hi)
func uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
