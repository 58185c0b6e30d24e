package regime

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvergaray/pulso/internal/domain"
)

func flatSeries(value float64, months int) []float64 {
	series := make([]float64, months)
	for i := range series {
		series[i] = value
	}
	return series
}

func TestClassify_RequiresThreeMonths(t *testing.T) {
	classifier := NewClassifier(zerolog.Nop())

	_, err := classifier.Classify([]float64{100, 110})
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestClassify_FlatSeriesIsNormal(t *testing.T) {
	classifier := NewClassifier(zerolog.Nop())

	analysis, err := classifier.Classify([]float64{100, 102, 98, 101, 99, 100, 103, 97, 100, 101, 99, 100})
	require.NoError(t, err)

	assert.Equal(t, RegimeNormal, analysis.Regime)
	assert.Greater(t, analysis.Confidence, 0.7, "a steady series is a confident normal call")
	assert.GreaterOrEqual(t, analysis.Confidence, 0.0)
	assert.LessOrEqual(t, analysis.Confidence, 1.0)
}

func TestClassify_FlatThenTripleReadsExponential(t *testing.T) {
	classifier := NewClassifier(zerolog.Nop())

	// 24 flat months, then the provisional current month at 3x the average.
	series := append(flatSeries(100, 24), 300)

	analysis, err := classifier.Classify(series)
	require.NoError(t, err)

	assert.Contains(t, []Regime{RegimeExponential, RegimeVolatile}, analysis.Regime)
	assert.Greater(t, analysis.UpperBound, 300.0,
		"guardrail upper bound must expand well above the 24-month max of 100")
}

func TestClassify_SteadyDeclineReadsDeclining(t *testing.T) {
	classifier := NewClassifier(zerolog.Nop())

	series := make([]float64, 12)
	for i := range series {
		series[i] = 200 - float64(i)*10
	}

	analysis, err := classifier.Classify(series)
	require.NoError(t, err)

	assert.Equal(t, RegimeDeclining, analysis.Regime)
}

func TestClassify_AlternatingSeriesReadsVolatile(t *testing.T) {
	classifier := NewClassifier(zerolog.Nop())

	series := make([]float64, 12)
	for i := range series {
		if i%2 == 0 {
			series[i] = 100
		} else {
			series[i] = 300
		}
	}

	analysis, err := classifier.Classify(series)
	require.NoError(t, err)

	assert.Equal(t, RegimeVolatile, analysis.Regime)
}

func TestClassify_Deterministic(t *testing.T) {
	classifier := NewClassifier(zerolog.Nop())
	series := []float64{120, 135, 110, 150, 140, 160, 155, 170, 148, 180, 175, 190}

	first, err := classifier.Classify(series)
	require.NoError(t, err)
	second, err := classifier.Classify(series)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassify_VolatileBoundsWiderThanNormal(t *testing.T) {
	classifier := NewClassifier(zerolog.Nop())

	steady, err := classifier.Classify([]float64{100, 101, 99, 100, 102, 98, 100, 101, 99, 100, 100, 100})
	require.NoError(t, err)

	noisy, err := classifier.Classify([]float64{100, 300, 80, 260, 120, 290, 90, 310, 100, 280, 110, 300})
	require.NoError(t, err)

	steadyWidth := steady.UpperBound - steady.LowerBound
	noisyWidth := noisy.UpperBound - noisy.LowerBound
	assert.Greater(t, noisyWidth, steadyWidth)
}
