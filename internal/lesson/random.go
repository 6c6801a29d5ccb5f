package lesson

import "math/rand/v2"

// Rand is the random source used for shuffling and item selection.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// GlobalRand draws from the process-wide source.
func GlobalRand() Rand { return globalRand{} }

// NewSeededRand returns a deterministic source for the given seed.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Shuffle returns a Fisher-Yates shuffled copy of in. The input is not modified.
func Shuffle[T any](r Rand, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	if r == nil {
		r = GlobalRand()
	}
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
