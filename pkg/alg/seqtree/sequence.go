package seqtree

import "fmt"

// Sequence is the set of edits a judge replays, independent of the
// balancing discipline underneath. Ranks are 1-indexed. Out-of-range
// arguments are programming faults and panic; callers validate first.
type Sequence interface {
	// Backend reports the balancing discipline in use.
	Backend() Backend
	// Len returns the number of elements.
	Len() int
	// At returns the value at rank.
	At(rank int) int
	// Reverse reverses the elements at ranks [l, r].
	Reverse(l, r int)
	// SwapBlocks exchanges the adjacent blocks [lo, mid] and [mid+1, hi],
	// reversing the left and/or right block on the way. Either block may
	// be empty (mid == lo-1 or mid == hi).
	SwapBlocks(lo, mid, hi int, flipLeft, flipRight bool)
	// Values returns the elements in order.
	Values() []int
	// Validate checks the structural invariants.
	Validate() error
}

// NewSequence returns a Sequence over values using backend b. The splay
// backend is bounded by two sentinels; the treap backend works with plain
// splits and merges. seed drives treap priorities.
func NewSequence(b Backend, values []int, seed uint64) Sequence {
	if b == BackendSplay {
		return newBoundedSequence(values)
	}

	return &splitSequence{tree: NewTree(b, values, seed)}
}

func checkRange(op string, l, r, n int) {
	if l < 1 || l > r || r > n {
		panic(fmt.Sprintf("seqtree: %s [%d, %d] outside [1, %d]", op, l, r, n))
	}
}

func checkBlocks(lo, mid, hi, n int) {
	checkRange("swap", lo, hi, n)

	if mid < lo-1 || mid > hi {
		panic(fmt.Sprintf("seqtree: swap split %d outside [%d, %d]", mid, lo-1, hi))
	}
}

// splitSequence expresses every edit as splits and merges of one tree.
type splitSequence struct {
	tree *Tree
}

func (s *splitSequence) Backend() Backend { return s.tree.Backend() }

func (s *splitSequence) Len() int { return s.tree.Len() }

func (s *splitSequence) At(rank int) int { return s.tree.Select(rank) }

func (s *splitSequence) Reverse(l, r int) {
	checkRange("reverse", l, r, s.Len())

	prefix, middle, suffix := s.tree.Isolate(l, r)
	middle.Flip()
	s.tree = Merge(Merge(prefix, middle), suffix)
}

func (s *splitSequence) SwapBlocks(lo, mid, hi int, flipLeft, flipRight bool) {
	checkBlocks(lo, mid, hi, s.Len())

	prefix, rest := s.tree.Split(lo - 1)
	left, rest := rest.Split(mid - lo + 1)
	right, suffix := rest.Split(hi - mid)

	s.tree = Merge(Merge(prefix, swapped(left, right, flipLeft, flipRight)), suffix)
}

func (s *splitSequence) Values() []int { return s.tree.Values() }

func (s *splitSequence) Validate() error { return s.tree.Validate() }

func swapped(left, right *Tree, flipLeft, flipRight bool) *Tree {
	if flipLeft {
		left.Flip()
	}

	if flipRight {
		right.Flip()
	}

	return Merge(right, left)
}

// boundedSequence is a splay tree over the index space [0, n+1]: real rank
// i lives at internal rank i+1, between two sentinel nodes that are never
// edited. Range isolation then always has a node on each side to splay.
type boundedSequence struct {
	tree *Tree
	n    int
}

func newBoundedSequence(values []int) *boundedSequence {
	n := len(values)
	padded := make([]int, 0, n+2)
	padded = append(padded, 0)
	padded = append(padded, values...)
	padded = append(padded, n+1)

	return &boundedSequence{tree: NewTree(BackendSplay, padded, 0), n: n}
}

func (s *boundedSequence) Backend() Backend { return BackendSplay }

func (s *boundedSequence) Len() int { return s.n }

func (s *boundedSequence) At(rank int) int {
	checkRange("select", rank, rank, s.n)

	return s.tree.Select(rank + 1)
}

// Reverse splays real rank l-1 to the root and real rank r+1 below it; the
// range [l, r] is then exactly the left subtree of the latter.
func (s *boundedSequence) Reverse(l, r int) {
	checkRange("reverse", l, r, s.n)

	root, middle := isolateBetween(s.tree.root, l, r+2)
	middle.toggle()
	s.tree.root = root
}

func (s *boundedSequence) SwapBlocks(lo, mid, hi int, flipLeft, flipRight bool) {
	checkBlocks(lo, mid, hi, s.n)

	prefix, block, suffix := s.tree.Isolate(lo+1, hi+1)
	left, right := block.Split(mid - lo + 1)

	s.tree = Merge(Merge(prefix, swapped(left, right, flipLeft, flipRight)), suffix)
}

func (s *boundedSequence) Values() []int {
	out := make([]int, 0, s.n)

	s.tree.Walk(func(rank, v int) bool {
		if rank > 1 && rank <= s.n+1 {
			out = append(out, v)
		}

		return true
	})

	return out
}

func (s *boundedSequence) Validate() error {
	if err := s.tree.Validate(); err != nil {
		return err
	}

	if got := s.tree.Len(); got != s.n+2 {
		return fmt.Errorf("%w: %d nodes for %d elements and two sentinels", ErrCorrupt, got, s.n)
	}

	var err error

	s.tree.Walk(func(rank, v int) bool {
		switch {
		case rank == 1 && v != 0:
			err = fmt.Errorf("%w: leading sentinel displaced by %d", ErrCorrupt, v)
		case rank == s.n+2 && v != s.n+1:
			err = fmt.Errorf("%w: trailing sentinel displaced by %d", ErrCorrupt, v)
		}

		return err == nil
	})

	return err
}
