package judge

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/permjudge/pkg/alg/seqtree"
	"github.com/Sumatoshi-tech/permjudge/pkg/score"
	"github.com/Sumatoshi-tech/permjudge/pkg/transcript"
)

const tracerName = "permjudge/judge"

// Verdict is the outcome class of a judged transcript.
type Verdict string

// Verdicts.
const (
	VerdictAccepted       Verdict = "accepted"
	VerdictWrongAnswer    Verdict = "wrong-answer"
	VerdictIllegalEdit    Verdict = "illegal-edit"
	VerdictBudgetExceeded Verdict = "budget-exceeded"
	VerdictMalformed      Verdict = "malformed"
)

// Result is the structured outcome of one judged transcript. Formatting is
// left to the caller.
type Result struct {
	Problem    string  `json:"problem" yaml:"problem"`
	Backend    string  `json:"backend" yaml:"backend"`
	Verdict    Verdict `json:"verdict" yaml:"verdict"`
	Message    string  `json:"message,omitempty" yaml:"message,omitempty"`
	N          int     `json:"n" yaml:"n"`
	Operations int     `json:"operations" yaml:"operations"`
	Baseline   float64 `json:"baseline" yaml:"baseline"`
	Max        float64 `json:"max" yaml:"max"`
	Ratio      float64 `json:"ratio" yaml:"ratio"`
	// RatioUnbounded equals Ratio; the curve is already bounded.
	RatioUnbounded float64 `json:"ratio_unbounded" yaml:"ratio_unbounded"`

	// Err is the failure behind a non-accepted verdict.
	Err error `json:"-" yaml:"-"`
}

// Accepted reports whether the transcript passed every check.
func (r Result) Accepted() bool {
	return r.Verdict == VerdictAccepted
}

func (r Result) reject(v Verdict, err error) Result {
	r.Verdict = v
	r.Err = err
	r.Message = err.Error()
	r.Ratio = score.None
	r.RatioUnbounded = score.None

	return r
}

// Malformed returns the result for a transcript that could not be parsed.
func Malformed(p *Problem, n int, err error) Result {
	return Result{Problem: p.Name, Backend: string(p.Backend), N: n}.reject(VerdictMalformed, err)
}

// Recorder receives one observation per judged transcript.
type Recorder interface {
	RecordRun(ctx context.Context, problem string, verdict Verdict, ops int, ratio float64)
}

type nopRecorder struct{}

func (nopRecorder) RecordRun(context.Context, string, Verdict, int, float64) {}

// Options tune a single run.
type Options struct {
	// Backend overrides the problem's default backend when non-empty.
	Backend seqtree.Backend
	// Seed drives treap priorities.
	Seed uint64
	// CheckInvariants validates the tree after the replay and panics on corruption.
	CheckInvariants bool
}

// Judge runs transcripts against instances. It holds no per-run state.
type Judge struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	recorder Recorder
}

// New creates a Judge. Nil arguments fall back to the default logger, a
// no-op tracer, and a no-op recorder.
func New(logger *slog.Logger, tracer trace.Tracer, recorder Recorder) *Judge {
	if logger == nil {
		logger = slog.Default()
	}

	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}

	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Judge{logger: logger, tracer: tracer, recorder: recorder}
}

// Run replays tr against inst under problem p and scores the result.
func (j *Judge) Run(ctx context.Context, p *Problem, inst *transcript.Instance, tr *transcript.Transcript, opts Options) Result {
	ctx, span := j.tracer.Start(ctx, "judge.run", trace.WithAttributes(
		attribute.String("problem", p.Name),
		attribute.Int("n", inst.Len()),
		attribute.Int("records", tr.Count),
	))
	defer span.End()

	res := j.run(ctx, p, inst, tr, opts)

	span.SetAttributes(
		attribute.String("verdict", string(res.Verdict)),
		attribute.Int("operations", res.Operations),
	)

	j.Observe(ctx, res)

	if res.Err != nil {
		span.SetStatus(codes.Error, res.Message)
	}

	return res
}

// Observe logs and records a finished result. Run calls it; callers that
// build results through Malformed call it themselves.
func (j *Judge) Observe(ctx context.Context, res Result) {
	j.recorder.RecordRun(ctx, res.Problem, res.Verdict, res.Operations, res.Ratio)

	attrs := []any{
		"problem", res.Problem,
		"backend", res.Backend,
		"n", res.N,
		"verdict", res.Verdict,
		"operations", res.Operations,
		"ratio", res.Ratio,
	}

	if res.Err != nil {
		j.logger.WarnContext(ctx, "transcript rejected", append(attrs, "error", res.Err)...)

		return
	}

	j.logger.InfoContext(ctx, "transcript accepted", attrs...)
}

func (j *Judge) run(ctx context.Context, p *Problem, inst *transcript.Instance, tr *transcript.Transcript, opts Options) Result {
	backend := opts.Backend
	if backend == "" {
		backend = p.Backend
	}

	n := inst.Len()
	res := Result{Problem: p.Name, Backend: string(backend), N: n, Operations: tr.Count}

	curve, err := p.Curve(n)
	if err != nil {
		return res.reject(VerdictMalformed, err)
	}

	res.Baseline, res.Max = curve.Baseline, curve.Max

	if curve.Exceeds(tr.Count) {
		return res.reject(VerdictBudgetExceeded,
			fmt.Errorf("%w: %d declared, %g accepted", ErrBudgetExceeded, tr.Count, curve.Max))
	}

	res.Operations = 0

	rules, err := p.Rules(tr.Param)
	if err != nil {
		return res.reject(VerdictIllegalEdit, err)
	}

	seq := seqtree.NewSequence(backend, inst.Values, opts.Seed)
	rp := NewReplayer(seq, rules)

	_, replaySpan := j.tracer.Start(ctx, "judge.replay")

	for _, rec := range tr.Records {
		if err = rp.Apply(p.Decode(tr.Param, rec)); err != nil {
			break
		}
	}

	replaySpan.End()

	res.Operations = rp.Applied()

	if err != nil {
		return res.reject(VerdictIllegalEdit, err)
	}

	if opts.CheckInvariants {
		if verr := seq.Validate(); verr != nil {
			panic(fmt.Sprintf("judge: sequence invariant broken after %d edits: %v", rp.Applied(), verr))
		}
	}

	if err = VerifyIdentity(seq); err != nil {
		return res.reject(VerdictWrongAnswer, err)
	}

	res.Verdict = VerdictAccepted
	res.Ratio = curve.Ratio(res.Operations)
	res.RatioUnbounded = res.Ratio

	return res
}
