package shuffle

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermuteIsBijection(t *testing.T) {
	s := NewSeeded(42)

	for n := 0; n <= 32; n++ {
		in := make([]int, n)
		for i := range in {
			in[i] = i % 5 // repeated values check the multiset, not just the set
		}

		out := Permute(s, in)
		require.Len(t, out, n)
		assert.ElementsMatch(t, in, out, "n=%d", n)
	}
}

func TestPermuteLeavesInputUntouched(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e"}
	orig := slices.Clone(in)

	_ = Permute(NewSeeded(7), in)
	assert.Equal(t, orig, in)
}

func TestPermuteSeededIsReproducible(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	a := Permute(NewSeeded(99), in)
	b := Permute(NewSeeded(99), in)
	assert.Equal(t, a, b)
}

func TestPermuteChangesOrder(t *testing.T) {
	in := make([]int, 20)
	for i := range in {
		in[i] = i
	}

	s := NewSeeded(1)
	changed := false
	for range 10 {
		if !slices.Equal(Permute(s, in), in) {
			changed = true
			break
		}
	}
	assert.True(t, changed, "ten permutations of 20 elements should not all be the identity")
}

func TestShuffleUniformity(t *testing.T) {
	// Each of the 6 orderings of 3 elements should appear roughly 1/6 of the time.
	s := NewSeeded(2024)
	counts := map[[3]int]int{}
	const rounds = 60000

	for range rounds {
		out := Permute(s, []int{0, 1, 2})
		counts[[3]int{out[0], out[1], out[2]}]++
	}

	require.Len(t, counts, 6)
	for perm, c := range counts {
		assert.InDelta(t, rounds/6, c, rounds/60, "permutation %v", perm)
	}
}

func TestNewUnseededWorks(t *testing.T) {
	out := Permute(NewUnseeded(), []int{1, 2, 3})
	assert.ElementsMatch(t, []int{1, 2, 3}, out)
}
