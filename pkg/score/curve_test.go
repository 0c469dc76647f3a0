package score_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/permjudge/pkg/score"
)

// Test constants.
const (
	testN        = 100
	testBaseline = 2300
	testMax      = 23000
	testMidpoint = 12650
	testDelta    = 1e-9
)

func TestCurve_Ramp(t *testing.T) {
	t.Parallel()

	curve, err := score.NewCurve(testBaseline, testMax)
	require.NoError(t, err)

	assert.InDelta(t, score.Full, curve.Ratio(testBaseline), testDelta)
	assert.InDelta(t, 0.5, curve.Ratio(testMidpoint), testDelta)
	assert.InDelta(t, score.None, curve.Ratio(testMax), testDelta)
}

func TestCurve_OutsideRamp(t *testing.T) {
	t.Parallel()

	curve, err := score.NewCurve(testBaseline, testMax)
	require.NoError(t, err)

	assert.InDelta(t, score.Full, curve.Ratio(0), testDelta)
	assert.InDelta(t, score.None, curve.Ratio(testMax*2), testDelta)
	assert.False(t, curve.Exceeds(testMax))
	assert.True(t, curve.Exceeds(testMax+1))
}

func TestCurve_Monotone(t *testing.T) {
	t.Parallel()

	curve, err := score.NewCurve(testBaseline, testMax)
	require.NoError(t, err)

	prev := curve.Ratio(0)

	for ops := 0; ops <= testMax+testBaseline; ops += 97 {
		r := curve.Ratio(ops)
		assert.LessOrEqual(t, r, prev)
		assert.GreaterOrEqual(t, r, score.None)
		assert.LessOrEqual(t, r, score.Full)

		prev = r
	}
}

func TestNewCurve_Invalid(t *testing.T) {
	t.Parallel()

	_, err := score.NewCurve(testMax, testBaseline)
	require.ErrorIs(t, err, score.ErrInvalidCurve)

	_, err = score.NewCurve(testBaseline, testBaseline)
	require.ErrorIs(t, err, score.ErrInvalidCurve)
}

func TestForLength(t *testing.T) {
	t.Parallel()

	curve, err := score.ForLength(score.Threshold{PerN: 23}, score.Threshold{PerN: 230}, testN)
	require.NoError(t, err)

	assert.InDelta(t, testBaseline, curve.Baseline, testDelta)
	assert.InDelta(t, testMax, curve.Max, testDelta)
}

func TestThreshold_At(t *testing.T) {
	t.Parallel()

	th := score.Threshold{PerN: 2, Const: 5}
	assert.InDelta(t, 205.0, th.At(testN), testDelta)
}
