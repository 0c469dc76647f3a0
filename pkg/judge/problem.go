package judge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/permjudge/pkg/alg/seqtree"
	"github.com/Sumatoshi-tech/permjudge/pkg/score"
	"github.com/Sumatoshi-tech/permjudge/pkg/transcript"
)

// Preset problem names.
const (
	ProblemBlockRotate = "block-rotate"
	ProblemSpanReverse = "span-reverse"
	ProblemBlockSwap   = "block-swap"
)

// Record tags of the block-swap transcript format.
const (
	tagMove    = 1
	tagReverse = 2
)

// Unrecognized is an edit whose record tag no edit kind claims. The
// replayer always rejects it.
type Unrecognized struct {
	Tag int
}

func (Unrecognized) isEdit() {}

func (u Unrecognized) String() string {
	return fmt.Sprintf("unrecognized(tag=%d)", u.Tag)
}

// Problem fixes everything a transcript leaves implicit: the record layout,
// what its header parameter means, the legal edits, and the score budget.
type Problem struct {
	Name    string
	Summary string
	// Backend is the default sequence backend.
	Backend  seqtree.Backend
	Baseline score.Threshold
	Max      score.Threshold
	// Fields is the number of integers per transcript record.
	Fields int
	// Param names the transcript header value.
	Param string

	rules  func(param int) (Rules, error)
	decode func(param int, rec transcript.Record) Edit
}

// Rules returns the edit rules for a transcript with header param.
func (p *Problem) Rules(param int) (Rules, error) {
	return p.rules(param)
}

// Decode turns a transcript record into an edit.
func (p *Problem) Decode(param int, rec transcript.Record) Edit {
	return p.decode(param, rec)
}

// Curve returns the score ramp for a sequence of length n.
func (p *Problem) Curve(n int) (score.Curve, error) {
	return score.ForLength(p.Baseline, p.Max, n)
}

var registry = map[string]*Problem{
	ProblemBlockRotate: {
		Name:     ProblemBlockRotate,
		Summary:  "rotate a window of m elements by one position",
		Backend:  seqtree.BackendTreap,
		Baseline: score.Threshold{PerN: 23},
		Max:      score.Threshold{PerN: 230},
		Fields:   2,
		Param:    "m",
		rules: func(m int) (Rules, error) {
			rule, err := NewRotateRule(m)
			if err != nil {
				return Rules{}, err
			}

			return Rules{Block: rule}, nil
		},
		decode: func(m int, rec transcript.Record) Edit {
			return MoveBlock{Start: rec[0], Length: m, Mode: rec[1]}
		},
	},
	ProblemSpanReverse: {
		Name:     ProblemSpanReverse,
		Summary:  "reverse ranges of width K or K-2",
		Backend:  seqtree.BackendSplay,
		Baseline: score.Threshold{PerN: 20},
		Max:      score.Threshold{PerN: 200},
		Fields:   2,
		Param:    "K",
		rules: func(k int) (Rules, error) {
			return Rules{Reverse: &ReverseRule{Widths: SpanWidths(k), SwapInverted: true}}, nil
		},
		decode: func(_ int, rec transcript.Record) Edit {
			return ReverseRange{Left: rec[0], Right: rec[1]}
		},
	},
	ProblemBlockSwap: {
		Name:     ProblemBlockSwap,
		Summary:  "swap adjacent blocks of m elements, reverse any range",
		Backend:  seqtree.BackendTreap,
		Baseline: score.Threshold{PerN: 23},
		Max:      score.Threshold{PerN: 230},
		Fields:   3,
		Param:    "m",
		rules: func(m int) (Rules, error) {
			rule, err := NewSwapRule(m)
			if err != nil {
				return Rules{}, err
			}

			return Rules{Block: rule, Reverse: &ReverseRule{}}, nil
		},
		decode: func(m int, rec transcript.Record) Edit {
			switch rec[0] {
			case tagMove:
				return MoveBlock{Start: rec[1], Length: m, Mode: rec[2]}
			case tagReverse:
				return ReverseRange{Left: rec[1], Right: rec[2]}
			default:
				return Unrecognized{Tag: rec[0]}
			}
		},
	},
}

// Lookup returns the preset problem called name.
func Lookup(name string) (*Problem, error) {
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownProblem, name, strings.Join(Names(), ", "))
	}

	return p, nil
}

// Names returns the preset problem names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Problems returns the preset problems sorted by name.
func Problems() []*Problem {
	out := make([]*Problem, 0, len(registry))
	for _, name := range Names() {
		out = append(out, registry[name])
	}

	return out
}
