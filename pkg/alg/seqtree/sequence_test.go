package seqtree

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Model test constants.
const (
	modelLen   = 200
	modelEdits = 2000
	modelSeed  = 7
)

// model is the naive slice implementation the trees are checked against.
type model []int

func (m model) reverse(l, r int) {
	slices.Reverse(m[l-1 : r])
}

func (m model) swapBlocks(lo, mid, hi int, flipLeft, flipRight bool) {
	left := slices.Clone(m[lo-1 : mid])
	right := slices.Clone(m[mid:hi])

	if flipLeft {
		slices.Reverse(left)
	}

	if flipRight {
		slices.Reverse(right)
	}

	copy(m[lo-1:], right)
	copy(m[lo-1+len(right):], left)
}

func TestSequence_ReverseTwiceRestores(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		seq := NewSequence(b, identity(testSmallLen), testSeed)

		seq.Reverse(2, 4)
		assert.Equal(t, []int{1, 4, 3, 2, 5}, seq.Values(), b)

		seq.Reverse(2, 4)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, seq.Values(), b)
		require.NoError(t, seq.Validate())
	}
}

func TestSequence_ReverseEndpoints(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		seq := NewSequence(b, identity(testSmallLen), testSeed)

		seq.Reverse(1, testSmallLen)
		assert.Equal(t, []int{5, 4, 3, 2, 1}, seq.Values(), b)

		seq.Reverse(1, 1)
		seq.Reverse(testSmallLen, testSmallLen)
		assert.Equal(t, []int{5, 4, 3, 2, 1}, seq.Values(), b)
		require.NoError(t, seq.Validate())
	}
}

func TestSequence_SwapBlocksThenReverse(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		seq := NewSequence(b, []int{2, 1, 4, 3}, testSeed)

		seq.SwapBlocks(1, 2, 4, false, false)
		assert.Equal(t, []int{4, 3, 2, 1}, seq.Values(), b)

		seq.Reverse(1, 4)
		assert.Equal(t, []int{1, 2, 3, 4}, seq.Values(), b)
		require.NoError(t, seq.Validate())
	}
}

func TestSequence_SwapBlocksWithFlips(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		seq := NewSequence(b, identity(6), testSeed)

		seq.SwapBlocks(2, 3, 5, true, false)
		assert.Equal(t, []int{1, 4, 5, 3, 2, 6}, seq.Values(), b)

		seq.SwapBlocks(1, 1, 6, false, true)
		assert.Equal(t, []int{6, 2, 3, 5, 4, 1}, seq.Values(), b)
	}
}

func TestSequence_SwapBlocksEmptySide(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		seq := NewSequence(b, identity(testSmallLen), testSeed)

		seq.SwapBlocks(3, 3, 3, false, false)
		seq.SwapBlocks(3, 2, 3, false, false)
		assert.Equal(t, identity(testSmallLen), seq.Values(), b)
		require.NoError(t, seq.Validate())
	}
}

func TestSequence_At(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		seq := NewSequence(b, identity(testSmallLen), testSeed)
		seq.Reverse(1, 3)

		assert.Equal(t, testSmallLen, seq.Len())
		assert.Equal(t, b, seq.Backend())
		assert.Equal(t, 3, seq.At(1))
		assert.Equal(t, 1, seq.At(3))
		assert.Equal(t, testSmallLen, seq.At(testSmallLen))
		assert.Panics(t, func() { seq.At(0) })
		assert.Panics(t, func() { seq.At(testSmallLen + 1) })
	}
}

func TestSequence_InvalidEditsPanic(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		seq := NewSequence(b, identity(testSmallLen), testSeed)

		assert.Panics(t, func() { seq.Reverse(0, 2) })
		assert.Panics(t, func() { seq.Reverse(3, 2) })
		assert.Panics(t, func() { seq.Reverse(1, testSmallLen+1) })
		assert.Panics(t, func() { seq.SwapBlocks(2, 0, 3, false, false) })
		assert.Panics(t, func() { seq.SwapBlocks(2, 4, 3, false, false) })
		assert.Equal(t, identity(testSmallLen), seq.Values())
	}
}

func TestBoundedSequence_DetectsDisplacedSentinel(t *testing.T) {
	t.Parallel()

	seq := newBoundedSequence(identity(testSmallLen))
	seq.tree.Flip()

	require.ErrorIs(t, seq.Validate(), ErrCorrupt)
}

// TestSequence_MatchesModel replays random edits on every backend and on a
// slice, checking order, sizes and the multiset of values after each edit.
func TestSequence_MatchesModel(t *testing.T) {
	t.Parallel()

	for _, b := range testBackends {
		rng := rand.New(rand.NewPCG(modelSeed, modelSeed))
		initial := identity(modelLen)
		rng.Shuffle(len(initial), func(i, j int) { initial[i], initial[j] = initial[j], initial[i] })

		seq := NewSequence(b, initial, testSeed)
		ref := model(slices.Clone(initial))

		for i := range modelEdits {
			lo := 1 + rng.IntN(modelLen)
			hi := lo + rng.IntN(modelLen-lo+1)

			if i%2 == 0 {
				seq.Reverse(lo, hi)
				ref.reverse(lo, hi)
			} else {
				mid := lo - 1 + rng.IntN(hi-lo+2)
				flipLeft, flipRight := rng.IntN(2) == 1, rng.IntN(2) == 1

				seq.SwapBlocks(lo, mid, hi, flipLeft, flipRight)
				ref.swapBlocks(lo, mid, hi, flipLeft, flipRight)
			}

			if i%100 == 0 {
				require.NoError(t, seq.Validate(), "%s edit %d", b, i)
				assert.Equal(t, ref[lo-1], seq.At(lo), "%s edit %d", b, i)
			}
		}

		got := seq.Values()
		require.Equal(t, []int(ref), got, b)
		require.NoError(t, seq.Validate())

		sorted := slices.Clone(got)
		slices.Sort(sorted)
		assert.Equal(t, identity(modelLen), sorted)
	}
}
