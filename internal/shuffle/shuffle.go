// Package shuffle produces uniformly random permutations with an injectable
// random source so feed and suggestion ordering can be reproduced in tests.
package shuffle

import (
	"math/rand/v2"
	"sync"
)

// Shuffler permutes sequences using Fisher-Yates exchange.
// It is safe for concurrent use.
type Shuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Shuffler drawing from src
func New(src rand.Source) *Shuffler {
	return &Shuffler{rng: rand.New(src)}
}

// NewSeeded creates a Shuffler whose output is reproducible for a given seed
func NewSeeded(seed uint64) *Shuffler {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewUnseeded creates a Shuffler seeded from the runtime's random state.
// Repeated runs yield different orders.
func NewUnseeded() *Shuffler {
	return New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Shuffle exchanges elements of an n-element sequence in place.
// For i from n-1 down to 1, element i is swapped with a uniformly chosen
// index in [0, i].
func (s *Shuffler) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := n - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		swap(i, j)
	}
}

// Permute returns a shuffled copy of seq; seq itself is left untouched
func Permute[T any](s *Shuffler, seq []T) []T {
	out := make([]T, len(seq))
	copy(out, seq)
	s.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
