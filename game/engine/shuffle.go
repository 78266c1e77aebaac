package engine

import "math/rand/v2"

// Rand is the random source used for shuffling. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// NewSeededRand returns a deterministic source for reproducible decks.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Shuffle permutes items in place with the Fisher-Yates algorithm. Every
// permutation is equally likely given a uniform source. A nil source uses
// the process-wide generator.
func Shuffle[T any](r Rand, items []T) {
	if r == nil {
		r = globalRand{}
	}
	for i := len(items) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
