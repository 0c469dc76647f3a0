package judge

import (
	"fmt"

	"github.com/Sumatoshi-tech/permjudge/pkg/alg/seqtree"
)

// State is the replayer lifecycle state.
type State uint8

// Replayer states.
const (
	// StateReady accepts further edits.
	StateReady State = iota
	// StateRejected is terminal: an edit failed validation.
	StateRejected
)

func (s State) String() string {
	if s == StateRejected {
		return "rejected"
	}

	return "ready"
}

// Replayer applies validated edits to a sequence it owns exclusively and
// counts them. Validation always completes before the sequence is touched,
// so a rejected edit leaves no trace.
type Replayer struct {
	seq     seqtree.Sequence
	rules   Rules
	applied int
	state   State
	halt    error
}

// NewReplayer returns a Replayer over seq. The replayer takes ownership of seq.
func NewReplayer(seq seqtree.Sequence, rules Rules) *Replayer {
	return &Replayer{seq: seq, rules: rules}
}

// Applied returns the number of edits applied so far.
func (r *Replayer) Applied() int { return r.applied }

// State returns the current lifecycle state.
func (r *Replayer) State() State { return r.state }

// Err returns the error that moved the replayer to StateRejected, or nil.
func (r *Replayer) Err() error { return r.halt }

// Sequence returns the sequence being edited.
func (r *Replayer) Sequence() seqtree.Sequence { return r.seq }

// Apply validates and applies one edit. After the first illegal edit every
// call returns ErrReplayHalted.
func (r *Replayer) Apply(e Edit) error {
	if r.state == StateRejected {
		return fmt.Errorf("%w: %w", ErrReplayHalted, r.halt)
	}

	apply, reason := r.plan(e)
	if reason != nil {
		r.state = StateRejected
		r.halt = &IllegalEditError{Index: r.applied + 1, Edit: e, Reason: reason}

		return r.halt
	}

	apply()

	r.applied++

	return nil
}

// Replay applies edits in order, stopping at the first illegal one.
func (r *Replayer) Replay(edits []Edit) error {
	for _, e := range edits {
		if err := r.Apply(e); err != nil {
			return err
		}
	}

	return nil
}

// plan validates e and returns the mutation to run.
func (r *Replayer) plan(e Edit) (func(), error) {
	n := r.seq.Len()

	switch e := e.(type) {
	case MoveBlock:
		return r.planMove(e, n)
	case ReverseRange:
		if r.rules.Reverse == nil {
			return nil, ErrUnsupportedEdit
		}

		rr, err := r.rules.Reverse.Resolve(e, n)
		if err != nil {
			return nil, err
		}

		return func() { r.seq.Reverse(rr.Left, rr.Right) }, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedEdit, e)
	}
}

func (r *Replayer) planMove(mv MoveBlock, n int) (func(), error) {
	rule := r.rules.Block
	if rule == nil {
		return nil, ErrUnsupportedEdit
	}

	if mv.Length != rule.Length() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBlockLength, mv.Length, rule.Length())
	}

	if mv.Mode != ModeForward && mv.Mode != ModeReversed {
		return nil, fmt.Errorf("%w: %d", ErrBadMode, mv.Mode)
	}

	sw, err := rule.Resolve(mv, n)
	if err != nil {
		return nil, err
	}

	return func() { r.seq.SwapBlocks(sw.Lo, sw.Mid, sw.Hi, sw.FlipLeft, sw.FlipRight) }, nil
}
