package judge

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrIllegalEdit matches every *IllegalEditError.
	ErrIllegalEdit = errors.New("illegal edit")
	// ErrOutOfRange is the reason for an edit touching a position outside [1, N].
	ErrOutOfRange = errors.New("position out of range")
	// ErrInvertedRange is the reason for a reversal with left > right.
	ErrInvertedRange = errors.New("inverted range")
	// ErrBlockLength is the reason for a block length other than the problem's.
	ErrBlockLength = errors.New("block length mismatch")
	// ErrBadMode is the reason for a move mode other than 0 or 1.
	ErrBadMode = errors.New("unknown move mode")
	// ErrSpanMismatch is the reason for a reversal whose width the problem does not allow.
	ErrSpanMismatch = errors.New("reversal span not permitted")
	// ErrUnsupportedEdit is the reason for an edit kind the problem does not accept.
	ErrUnsupportedEdit = errors.New("edit kind not permitted")
	// ErrReplayHalted is returned by Apply after an earlier edit was rejected.
	ErrReplayHalted = errors.New("replay halted by an earlier illegal edit")
	// ErrVerificationFailed matches every *MismatchError.
	ErrVerificationFailed = errors.New("verification failed")
	// ErrBudgetExceeded is returned when a transcript declares more edits than the maximum.
	ErrBudgetExceeded = errors.New("edit count beyond the acceptable maximum")
	// ErrBadParam is returned when a transcript header value is unusable.
	ErrBadParam = errors.New("invalid transcript parameter")
	// ErrUnknownProblem is returned by Lookup for unregistered names.
	ErrUnknownProblem = errors.New("unknown problem")
)

// IllegalEditError describes the first edit that failed validation.
type IllegalEditError struct {
	// Index is the 1-based position of the edit in the transcript.
	Index  int
	Edit   Edit
	Reason error
}

func (e *IllegalEditError) Error() string {
	return fmt.Sprintf("edit %d %s: %v", e.Index, e.Edit, e.Reason)
}

// Unwrap exposes both ErrIllegalEdit and the specific reason.
func (e *IllegalEditError) Unwrap() []error {
	return []error{ErrIllegalEdit, e.Reason}
}

// MismatchError describes where the final sequence departs from the target.
// Position 0 means the lengths differ; Want and Got then hold the lengths.
type MismatchError struct {
	Position int
	Want     int
	Got      int
}

func (e *MismatchError) Error() string {
	if e.Position == 0 {
		return fmt.Sprintf("sequence has %d elements, want %d", e.Got, e.Want)
	}

	return fmt.Sprintf("position %d holds %d, want %d", e.Position, e.Got, e.Want)
}

// Unwrap returns ErrVerificationFailed.
func (e *MismatchError) Unwrap() error {
	return ErrVerificationFailed
}
