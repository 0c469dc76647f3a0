// Package score converts an operation count into a bounded ratio through a
// linear ramp between a baseline count and a maximum acceptable count.
package score

import (
	"errors"
	"fmt"
)

// Ratio bounds.
const (
	Full = 1.0
	None = 0.0
)

// ErrInvalidCurve is returned when the maximum does not exceed the baseline.
var ErrInvalidCurve = errors.New("score curve maximum must exceed baseline")

// Threshold is an operation count affine in the sequence length:
// PerN*n + Const.
type Threshold struct {
	PerN  float64 `json:"per_n" yaml:"per_n"`
	Const float64 `json:"const,omitempty" yaml:"const,omitempty"`
}

// At evaluates the threshold for a sequence of length n.
func (t Threshold) At(n int) float64 {
	return t.PerN*float64(n) + t.Const
}

// Curve is the linear ramp from Baseline (ratio 1) to Max (ratio 0).
type Curve struct {
	Baseline float64
	Max      float64
}

// NewCurve returns the ramp between baseline and maxOps.
func NewCurve(baseline, maxOps float64) (Curve, error) {
	if maxOps <= baseline {
		return Curve{}, fmt.Errorf("%w: baseline %g, max %g", ErrInvalidCurve, baseline, maxOps)
	}

	return Curve{Baseline: baseline, Max: maxOps}, nil
}

// ForLength evaluates both thresholds at n and returns the resulting curve.
func ForLength(baseline, maxOps Threshold, n int) (Curve, error) {
	return NewCurve(baseline.At(n), maxOps.At(n))
}

// Ratio maps an operation count onto [0, 1].
func (c Curve) Ratio(ops int) float64 {
	t := float64(ops)

	switch {
	case t <= c.Baseline:
		return Full
	case t >= c.Max:
		return None
	}

	return clamp(Full - (t-c.Baseline)/(c.Max-c.Baseline))
}

// Exceeds reports whether ops is beyond the maximum acceptable count.
func (c Curve) Exceeds(ops int) bool {
	return float64(ops) > c.Max
}

func clamp(r float64) float64 {
	return min(Full, max(None, r))
}
