package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/permjudge/pkg/judge"
)

const (
	metricRunsTotal    = "permjudge.runs.total"
	metricEditsApplied = "permjudge.edits.applied"
	metricScoreRatio   = "permjudge.score.ratio"

	attrProblem = "problem"
	attrVerdict = "verdict"
)

// editBucketBoundaries spans small hand-made transcripts up to the
// million-edit submissions a 230N budget allows for large N.
var editBucketBoundaries = []float64{10, 100, 1e3, 1e4, 1e5, 1e6, 1e7}

var ratioBucketBoundaries = []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 0.99, 1}

// JudgeMetrics records one observation per judged transcript. It
// implements judge.Recorder.
type JudgeMetrics struct {
	runsTotal    metric.Int64Counter
	editsApplied metric.Int64Histogram
	scoreRatio   metric.Float64Histogram
}

var _ judge.Recorder = (*JudgeMetrics)(nil)

// NewJudgeMetrics creates the judge instruments from mt.
func NewJudgeMetrics(mt metric.Meter) (*JudgeMetrics, error) {
	runs, err := mt.Int64Counter(metricRunsTotal,
		metric.WithDescription("Judged transcripts by problem and verdict"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunsTotal, err)
	}

	edits, err := mt.Int64Histogram(metricEditsApplied,
		metric.WithDescription("Edits applied before the replay finished or halted"),
		metric.WithUnit("{edit}"),
		metric.WithExplicitBucketBoundaries(editBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEditsApplied, err)
	}

	ratio, err := mt.Float64Histogram(metricScoreRatio,
		metric.WithDescription("Score ratio of judged transcripts"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(ratioBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricScoreRatio, err)
	}

	return &JudgeMetrics{runsTotal: runs, editsApplied: edits, scoreRatio: ratio}, nil
}

// RecordRun implements judge.Recorder.
func (jm *JudgeMetrics) RecordRun(ctx context.Context, problem string, verdict judge.Verdict, ops int, ratio float64) {
	problemAttr := attribute.String(attrProblem, problem)

	jm.runsTotal.Add(ctx, 1, metric.WithAttributes(problemAttr, attribute.String(attrVerdict, string(verdict))))
	jm.editsApplied.Record(ctx, int64(ops), metric.WithAttributes(problemAttr))
	jm.scoreRatio.Record(ctx, ratio, metric.WithAttributes(problemAttr))
}
