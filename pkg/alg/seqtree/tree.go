package seqtree

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// Backend names a balancing discipline.
type Backend string

// Supported backends.
const (
	// BackendTreap balances with random priorities; O(log n) expected.
	BackendTreap Backend = "treap"
	// BackendSplay balances by splaying accessed nodes; O(log n) amortized.
	BackendSplay Backend = "splay"
)

// pcgStream is the fixed stream selector for the priority generator.
const pcgStream = 0x9e3779b97f4a7c15

var (
	// ErrUnknownBackend is returned by ParseBackend for unsupported names.
	ErrUnknownBackend = errors.New("unknown sequence backend")
	// ErrCorrupt is returned by Validate when a structural invariant is broken.
	ErrCorrupt = errors.New("corrupt sequence tree")
)

// ParseBackend converts a backend name into a Backend.
func ParseBackend(name string) (Backend, error) {
	switch Backend(name) {
	case BackendTreap, BackendSplay:
		return Backend(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// discipline is the balancing strategy behind a Tree. Every method takes
// ownership of its input roots and returns the new roots.
type discipline interface {
	split(root *Node, k int) (left, right *Node)
	merge(left, right *Node) *Node
	// selectRank returns the (possibly restructured) root and the node at rank k.
	selectRank(root *Node, k int) (newRoot, found *Node)
	backend() Backend
}

func disciplineFor(b Backend) discipline {
	switch b {
	case BackendSplay:
		return splay{}
	case BackendTreap:
		return treap{}
	default:
		panic(fmt.Sprintf("seqtree: unknown backend %q", b))
	}
}

// Tree is a handle to a rank-addressed sequence. Split, Isolate and Merge
// consume their inputs: the consumed handle must not be used again, and
// doing so panics.
type Tree struct {
	root  *Node
	disc  discipline
	spent bool
}

// NewTree builds a balanced tree holding values in order. Treap priorities
// are drawn from a PCG generator seeded with seed.
func NewTree(b Backend, values []int, seed uint64) *Tree {
	t := &Tree{disc: disciplineFor(b)}
	t.root = build(values)

	if b == BackendTreap {
		assignPriorities(t.root, len(values), rand.New(rand.NewPCG(seed, pcgStream)))
	}

	return t
}

// build returns a perfectly balanced shape over values.
func build(values []int) *Node {
	if len(values) == 0 {
		return nil
	}

	mid := len(values) / 2
	n := newNode(values[mid])
	n.left = build(values[:mid])
	n.right = build(values[mid+1:])
	n.pull()

	return n
}

// assignPriorities hands out random priorities in descending order along a
// pre-order walk, so every parent outranks its descendants.
func assignPriorities(root *Node, n int, rng *rand.Rand) {
	prios := make([]uint64, n)
	for i := range prios {
		prios[i] = rng.Uint64()
	}

	slices.Sort(prios)

	next := n - 1

	var walk func(*Node)

	walk = func(x *Node) {
		if x == nil {
			return
		}

		x.priority = prios[next]
		next--

		walk(x.left)
		walk(x.right)
	}

	walk(root)
}

func (t *Tree) live() {
	if t.spent {
		panic("seqtree: use of consumed tree")
	}
}

func (t *Tree) consume() *Node {
	t.live()
	root := t.root
	t.root = nil
	t.spent = true

	return root
}

func (t *Tree) derive(root *Node) *Tree {
	return &Tree{root: root, disc: t.disc}
}

// Backend reports the balancing discipline of t.
func (t *Tree) Backend() Backend {
	return t.disc.backend()
}

// Len returns the number of elements in t.
func (t *Tree) Len() int {
	t.live()

	return t.root.Size()
}

// Split consumes t and returns its first k elements and the remainder.
// It panics unless 0 <= k <= Len().
func (t *Tree) Split(k int) (left, right *Tree) {
	if n := t.Len(); k < 0 || k > n {
		panic(fmt.Sprintf("seqtree: split rank %d outside [0, %d]", k, n))
	}

	l, r := t.disc.split(t.consume(), k)

	return t.derive(l), t.derive(r)
}

// Merge consumes left and right and returns their concatenation.
// Both trees must use the same backend.
func Merge(left, right *Tree) *Tree {
	left.live()
	right.live()

	if left.Backend() != right.Backend() {
		panic(fmt.Sprintf("seqtree: merge of %s and %s trees", left.Backend(), right.Backend()))
	}

	return left.derive(left.disc.merge(left.consume(), right.consume()))
}

// Select returns the value at 1-indexed rank k. On the splay backend the
// selected node becomes the root. It panics unless 1 <= k <= Len().
func (t *Tree) Select(k int) int {
	if n := t.Len(); k < 1 || k > n {
		panic(fmt.Sprintf("seqtree: rank %d outside [1, %d]", k, n))
	}

	root, found := t.disc.selectRank(t.root, k)
	t.root = root

	return found.value
}

// Isolate consumes t and returns the elements at ranks [l, r] as middle,
// with the elements before and after as prefix and suffix.
// It panics unless 1 <= l <= r <= Len().
func (t *Tree) Isolate(l, r int) (prefix, middle, suffix *Tree) {
	if n := t.Len(); l < 1 || l > r || r > n {
		panic(fmt.Sprintf("seqtree: isolate [%d, %d] outside [1, %d]", l, r, n))
	}

	prefix, rest := t.Split(l - 1)
	middle, suffix = rest.Split(r - l + 1)

	return prefix, middle, suffix
}

// Flip reverses the whole of t in O(1). The reversal reaches the nodes
// lazily, the next time a traversal descends through them.
func (t *Tree) Flip() {
	t.live()
	t.root.toggle()
}

// Walk calls fn with each rank and value in order until fn returns false.
func (t *Tree) Walk(fn func(rank, value int) bool) {
	t.live()

	stack := make([]*Node, 0, 64)
	rank := 0

	for n := t.root; n != nil || len(stack) > 0; {
		for ; n != nil; n = n.left {
			n.push()
			stack = append(stack, n)
		}

		n = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rank++

		if !fn(rank, n.value) {
			return
		}

		n = n.right
	}
}

// Values returns the in-order sequence of t.
func (t *Tree) Values() []int {
	out := make([]int, 0, t.Len())

	t.Walk(func(_, v int) bool {
		out = append(out, v)

		return true
	})

	return out
}

// Validate checks the cached sizes of every node and, for treaps, heap
// order of priorities.
func (t *Tree) Validate() error {
	t.live()

	heap := t.Backend() == BackendTreap

	var check func(n *Node) error

	check = func(n *Node) error {
		if n == nil {
			return nil
		}

		if want := n.left.Size() + n.right.Size() + 1; n.size != want {
			return fmt.Errorf("%w: node %d has size %d, children imply %d", ErrCorrupt, n.value, n.size, want)
		}

		if heap {
			for _, c := range [...]*Node{n.left, n.right} {
				if c != nil && c.priority > n.priority {
					return fmt.Errorf("%w: node %d outranks its parent %d", ErrCorrupt, c.value, n.value)
				}
			}
		}

		if err := check(n.left); err != nil {
			return err
		}

		return check(n.right)
	}

	return check(t.root)
}
