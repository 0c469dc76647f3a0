package judge

import "github.com/Sumatoshi-tech/permjudge/pkg/alg/seqtree"

// Identity returns the permutation 1..n.
func Identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}

	return out
}

// Verify walks seq once, pushing every pending flip, and compares the
// result with target. It returns a *MismatchError for the first difference.
func Verify(seq seqtree.Sequence, target []int) error {
	got := seq.Values()

	if len(got) != len(target) {
		return &MismatchError{Want: len(target), Got: len(got)}
	}

	for i, v := range got {
		if v != target[i] {
			return &MismatchError{Position: i + 1, Want: target[i], Got: v}
		}
	}

	return nil
}

// VerifyIdentity checks that seq holds 1..Len() in order.
func VerifyIdentity(seq seqtree.Sequence) error {
	return Verify(seq, Identity(seq.Len()))
}
