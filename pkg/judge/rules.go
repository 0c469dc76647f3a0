package judge

import (
	"fmt"
	"slices"
)

// BlockSwap is a resolved MoveBlock: exchange [Lo, Mid] with [Mid+1, Hi],
// reversing either side on the way.
type BlockSwap struct {
	Lo, Mid, Hi         int
	FlipLeft, FlipRight bool
}

// BlockRule gives MoveBlock its problem-specific meaning.
type BlockRule interface {
	// Length is the fixed block length m every MoveBlock must carry.
	Length() int
	// Resolve maps a MoveBlock with a valid mode onto a BlockSwap inside a
	// sequence of n elements, or fails with ErrOutOfRange.
	Resolve(mv MoveBlock, n int) (BlockSwap, error)
}

// Rules is the set of edits a problem accepts. A nil field rejects that edit kind.
type Rules struct {
	Block   BlockRule
	Reverse *ReverseRule
}

// RotateRule rotates the window [x, x+m-1] by one position: mode 0 moves
// its first element to the end, mode 1 moves its last element to the front.
type RotateRule struct {
	length int
}

// NewRotateRule returns a RotateRule for windows of length m >= 1.
func NewRotateRule(m int) (RotateRule, error) {
	if m < 1 {
		return RotateRule{}, fmt.Errorf("%w: block length %d", ErrBadParam, m)
	}

	return RotateRule{length: m}, nil
}

// Length implements BlockRule.
func (r RotateRule) Length() int { return r.length }

// Resolve implements BlockRule. A window of one element resolves to an
// empty swap; a window of two is a transposition in either mode.
func (r RotateRule) Resolve(mv MoveBlock, n int) (BlockSwap, error) {
	// Compared against n-m+1 so that huge starts or lengths cannot wrap.
	if mv.Start < 1 || mv.Start > n-r.length+1 {
		return BlockSwap{}, fmt.Errorf("%w: window of %d at %d in [1, %d]", ErrOutOfRange, r.length, mv.Start, n)
	}

	lo, hi := mv.Start, mv.Start+r.length-1

	if mv.Mode == ModeForward {
		return BlockSwap{Lo: lo, Mid: lo, Hi: hi}, nil
	}

	return BlockSwap{Lo: lo, Mid: hi - 1, Hi: hi}, nil
}

// SwapRule exchanges [x, x+m-1] with the following block [x+m, x+2m-1].
// Mode 1 reverses the moved source block.
type SwapRule struct {
	length int
}

// NewSwapRule returns a SwapRule for blocks of length m >= 1.
func NewSwapRule(m int) (SwapRule, error) {
	if m < 1 {
		return SwapRule{}, fmt.Errorf("%w: block length %d", ErrBadParam, m)
	}

	return SwapRule{length: m}, nil
}

// Length implements BlockRule.
func (r SwapRule) Length() int { return r.length }

// Resolve implements BlockRule.
func (r SwapRule) Resolve(mv MoveBlock, n int) (BlockSwap, error) {
	if mv.Start < 1 || r.length > n || mv.Start > n-2*r.length+1 {
		return BlockSwap{}, fmt.Errorf("%w: two blocks of %d at %d in [1, %d]", ErrOutOfRange, r.length, mv.Start, n)
	}

	lo := mv.Start
	mid := lo + r.length - 1
	hi := mid + r.length

	return BlockSwap{Lo: lo, Mid: mid, Hi: hi, FlipLeft: mv.Mode == ModeReversed}, nil
}

// ReverseRule constrains ReverseRange edits.
type ReverseRule struct {
	// Widths lists the permitted values of Right-Left; nil permits any.
	Widths []int
	// SwapInverted accepts Left > Right by exchanging the bounds.
	SwapInverted bool
}

// SpanWidths returns the widths a declared span k permits: k and k-2.
func SpanWidths(k int) []int {
	return []int{k, k - 2}
}

// Resolve returns the normalized range or the reason it is illegal.
func (r *ReverseRule) Resolve(rr ReverseRange, n int) (ReverseRange, error) {
	if rr.Left > rr.Right {
		if !r.SwapInverted {
			return rr, fmt.Errorf("%w: %d > %d", ErrInvertedRange, rr.Left, rr.Right)
		}

		rr.Left, rr.Right = rr.Right, rr.Left
	}

	if rr.Left < 1 || rr.Right > n {
		return rr, fmt.Errorf("%w: [%d, %d] in [1, %d]", ErrOutOfRange, rr.Left, rr.Right, n)
	}

	if r.Widths != nil && !slices.Contains(r.Widths, rr.Right-rr.Left) {
		return rr, fmt.Errorf("%w: width %d, allowed %v", ErrSpanMismatch, rr.Right-rr.Left, r.Widths)
	}

	return rr, nil
}
