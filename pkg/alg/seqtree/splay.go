package seqtree

// splay restructures on every access, rotating the accessed node to the
// root. There are no parent pointers: splayRank recurses two levels at a
// time and performs the zig-zig / zig-zag rotations on the way back up.
type splay struct{}

func (splay) backend() Backend { return BackendSplay }

// splayRank brings the node at rank k (1-indexed within n) to the root.
// Every node on the access path is pushed before its children are read,
// so all rotated nodes are clean.
func splayRank(n *Node, k int) *Node {
	n.push()

	leftSize := n.left.Size()

	switch {
	case k == leftSize+1:
		return n
	case k <= leftSize:
		l := n.left
		l.push()

		llSize := l.left.Size()

		if k <= llSize {
			l.left = splayRank(l.left, k)
			n = rotateRight(n)
		} else if k > llSize+1 {
			l.right = splayRank(l.right, k-llSize-1)
			n.left = rotateLeft(l)
		}

		return rotateRight(n)
	default:
		k -= leftSize + 1
		r := n.right
		r.push()

		rlSize := r.left.Size()

		if k > rlSize+1 {
			r.right = splayRank(r.right, k-rlSize-1)
			n = rotateLeft(n)
		} else if k <= rlSize {
			r.left = splayRank(r.left, k)
			n.right = rotateRight(r)
		}

		return rotateLeft(n)
	}
}

// split splays rank k to the root and detaches its right child.
func (splay) split(root *Node, k int) (left, right *Node) {
	if k == 0 {
		return nil, root
	}

	root = splayRank(root, k)
	right = root.right
	root.right = nil
	root.pull()

	return root, right
}

// merge splays the maximum of left to its root, where it has no right
// child, and hangs right there.
func (splay) merge(left, right *Node) *Node {
	if left == nil {
		return right
	}

	if right == nil {
		return left
	}

	left = splayRank(left, left.size)
	left.right = right
	left.pull()

	return left
}

func (splay) selectRank(root *Node, k int) (newRoot, found *Node) {
	root = splayRank(root, k)

	return root, root
}

// isolateBetween splays rank lo to the root and rank hi to the root of its
// right subtree, so the ranks strictly between them form that node's left
// subtree. It requires 1 <= lo and lo+1 < hi <= root.Size().
func isolateBetween(root *Node, lo, hi int) (newRoot, middle *Node) {
	root = splayRank(root, lo)
	root.right = splayRank(root.right, hi-root.left.Size()-1)

	return root, root.right.left
}
