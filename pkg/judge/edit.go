// Package judge replays submitted edit transcripts against a permutation,
// checks each edit's legality, verifies the final order, and scores the
// number of edits used.
package judge

import "fmt"

// Move modes.
const (
	// ModeForward appends the moved block as is.
	ModeForward = 0
	// ModeReversed appends the moved block reversed, or selects the
	// alternate direction for rules that do not reverse.
	ModeReversed = 1
)

// Edit is one record of a transcript: a MoveBlock or a ReverseRange.
type Edit interface {
	fmt.Stringer
	isEdit()
}

// MoveBlock lifts a block of Length elements starting at Start and swaps
// it with an adjacent block. The active BlockRule fixes what the adjacent
// block is and what Mode selects.
type MoveBlock struct {
	Start  int
	Length int
	Mode   int
}

// ReverseRange reverses the elements at positions [Left, Right].
type ReverseRange struct {
	Left  int
	Right int
}

func (MoveBlock) isEdit()    {}
func (ReverseRange) isEdit() {}

func (m MoveBlock) String() string {
	return fmt.Sprintf("move(start=%d, len=%d, mode=%d)", m.Start, m.Length, m.Mode)
}

func (r ReverseRange) String() string {
	return fmt.Sprintf("reverse[%d, %d]", r.Left, r.Right)
}
