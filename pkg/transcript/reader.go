// Package transcript reads judge inputs: the initial permutation of an
// instance and the edit transcript submitted against it. Both are streams
// of whitespace-separated integers. The package validates shape only;
// semantic legality of individual edits is the judge's concern.
package transcript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Field count bounds for a record.
const (
	MinFields = 1
	MaxFields = 3
)

// MaxLength is the largest instance length ReadInstance accepts.
const MaxLength = 1 << 24

// initialValues caps the up-front allocation for instance values; the
// slice grows as values arrive.
const initialValues = 1 << 16

var (
	// ErrSyntax is returned when a token is not an integer.
	ErrSyntax = errors.New("malformed integer")
	// ErrTruncated is returned when the stream ends before all expected integers were read.
	ErrTruncated = errors.New("unexpected end of input")
	// ErrNegativeCount is returned for a negative length or record count.
	ErrNegativeCount = errors.New("negative count")
	// ErrNotPermutation is returned when instance values are not a permutation of 1..N.
	ErrNotPermutation = errors.New("values are not a permutation of 1..N")
	// ErrFieldCount is returned for an unsupported record width.
	ErrFieldCount = errors.New("unsupported record width")
	// ErrTooLong is returned for an instance length above MaxLength.
	ErrTooLong = errors.New("instance too long")
)

// Instance is the initial sequence of a problem.
type Instance struct {
	Values []int
}

// Len returns N.
func (in *Instance) Len() int {
	return len(in.Values)
}

// Record is one line of a transcript. Only the first Fields values are meaningful.
type Record [MaxFields]int

// Transcript is a submitted edit stream.
type Transcript struct {
	// Param is the problem-specific header value (block length, span).
	Param int
	// Count is the number of records the submission declared.
	Count int
	// Records holds exactly Count records.
	Records []Record
}

// scanner yields integers from a whitespace-separated stream.
type scanner struct {
	sc    *bufio.Scanner
	label string
	read  int
}

func newScanner(r io.Reader, label string) *scanner {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	return &scanner{sc: sc, label: label}
}

func (s *scanner) next(what string) (int, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return 0, fmt.Errorf("read %s: %w", s.label, err)
		}

		return 0, fmt.Errorf("%s: %w reading %s after %d integers", s.label, ErrTruncated, what, s.read)
	}

	tok := s.sc.Text()

	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%s: %w %q for %s", s.label, ErrSyntax, tok, what)
	}

	s.read++

	return v, nil
}

func (s *scanner) count(what string) (int, error) {
	v, err := s.next(what)
	if err != nil {
		return 0, err
	}

	if v < 0 {
		return 0, fmt.Errorf("%s: %w: %s = %d", s.label, ErrNegativeCount, what, v)
	}

	return v, nil
}

// ReadInstance reads N followed by N values forming a permutation of 1..N.
func ReadInstance(r io.Reader) (*Instance, error) {
	s := newScanner(r, "instance")

	n, err := s.count("length")
	if err != nil {
		return nil, err
	}

	if n > MaxLength {
		return nil, fmt.Errorf("instance: %w: N = %d, limit %d", ErrTooLong, n, MaxLength)
	}

	values := make([]int, 0, min(n, initialValues))
	seen := make([]bool, n+1)

	for i := range n {
		v, nextErr := s.next("value")
		if nextErr != nil {
			return nil, nextErr
		}

		if v < 1 || v > n || seen[v] {
			return nil, fmt.Errorf("%w: value %d at position %d", ErrNotPermutation, v, i+1)
		}

		seen[v] = true
		values = append(values, v)
	}

	return &Instance{Values: values}, nil
}

// Unlimited disables the record count limit of Read.
const Unlimited = -1

// Read reads a transcript: the header param, the declared record count,
// then that many records of fields integers each. Trailing input is ignored.
// When the declared count exceeds limit the records are left unread and the
// returned transcript carries the header only; pass Unlimited to read all.
func Read(r io.Reader, fields, limit int) (*Transcript, error) {
	if fields < MinFields || fields > MaxFields {
		return nil, fmt.Errorf("%w: %d", ErrFieldCount, fields)
	}

	s := newScanner(r, "transcript")

	param, err := s.next("header")
	if err != nil {
		return nil, err
	}

	count, err := s.count("record count")
	if err != nil {
		return nil, err
	}

	tr := &Transcript{Param: param, Count: count}

	if limit != Unlimited && count > limit {
		return tr, nil
	}

	for range count {
		var rec Record

		for f := range fields {
			v, nextErr := s.next("record field")
			if nextErr != nil {
				return nil, nextErr
			}

			rec[f] = v
		}

		tr.Records = append(tr.Records, rec)
	}

	return tr, nil
}
