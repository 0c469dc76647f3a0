package seqtree

// treap keeps the heap property on priorities; the shape is that of a
// random binary search tree regardless of the edit order.
type treap struct{}

func (treap) backend() Backend { return BackendTreap }

// split leaves the first k nodes of root in left and the rest in right.
func (tr treap) split(root *Node, k int) (left, right *Node) {
	if root == nil {
		return nil, nil
	}

	root.push()

	if leftSize := root.left.Size(); k <= leftSize {
		l, r := tr.split(root.left, k)
		root.left = r
		root.pull()

		return l, root
	}

	l, r := tr.split(root.right, k-root.left.Size()-1)
	root.right = l
	root.pull()

	return root, r
}

func (tr treap) merge(left, right *Node) *Node {
	if left == nil {
		return right
	}

	if right == nil {
		return left
	}

	if left.priority >= right.priority {
		left.push()
		left.right = tr.merge(left.right, right)
		left.pull()

		return left
	}

	right.push()
	right.left = tr.merge(left, right.left)
	right.pull()

	return right
}

func (treap) selectRank(root *Node, k int) (newRoot, found *Node) {
	for n := root; n != nil; {
		n.push()

		leftSize := n.left.Size()

		switch {
		case k <= leftSize:
			n = n.left
		case k == leftSize+1:
			return root, n
		default:
			k -= leftSize + 1
			n = n.right
		}
	}

	panic("seqtree: rank walk ran off the tree")
}
