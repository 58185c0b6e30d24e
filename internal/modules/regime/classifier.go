package regime

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/dvergaray/pulso/internal/domain"
)

// Classification thresholds. The heuristics are deterministic: the same series
// always yields the same regime and confidence.
const (
	// MinHistoryMonths - fewer points than this cannot be classified.
	MinHistoryMonths = 3

	// exponentialRatio - last value this many times above the trailing mean
	// reads as exponential growth.
	exponentialRatio = 2.0
	// exponentialSlope - relative regression slope (per month, as a fraction
	// of the mean) above this reads as exponential growth.
	exponentialSlope = 0.10
	// decliningSlope - relative slope below this reads as decline.
	decliningSlope = -0.05
	// volatileCV - coefficient of variation above this reads as volatile.
	volatileCV = 0.35

	// smaMomentumPeriod - window for the smoothed momentum signal.
	smaMomentumPeriod = 3
)

// Classifier classifies historical monthly series into regimes.
type Classifier struct {
	log zerolog.Logger
}

// NewClassifier creates a regime classifier.
func NewClassifier(log zerolog.Logger) *Classifier {
	return &Classifier{log: log.With().Str("component", "regime_classifier").Logger()}
}

// Classify derives the regime, a confidence score in [0,1] and adaptive
// guardrail bounds from a monthly series (oldest first). Requires at least
// MinHistoryMonths points.
func (c *Classifier) Classify(series []float64) (*Analysis, error) {
	if len(series) < MinHistoryMonths {
		return nil, fmt.Errorf("%w: regime classification needs %d+ months, got %d",
			domain.ErrInsufficientData, MinHistoryMonths, len(series))
	}

	mean := stat.Mean(series, nil)
	if mean <= 0 {
		return nil, fmt.Errorf("%w: series mean must be positive", domain.ErrInsufficientData)
	}
	std := stat.StdDev(series, nil)
	cv := std / mean

	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, series, nil, false)
	relSlope := slope / mean

	last := series[len(series)-1]
	trailingMean := stat.Mean(series[:len(series)-1], nil)
	lastRatio := 0.0
	if trailingMean > 0 {
		lastRatio = last / trailingMean
	}

	momentum := smoothedMomentum(series, mean)

	analysis := c.classify(cv, relSlope, lastRatio, momentum)
	analysis.LowerBound, analysis.UpperBound = adaptiveBounds(series, analysis, std, relSlope)

	c.log.Debug().
		Str("regime", string(analysis.Regime)).
		Float64("confidence", analysis.Confidence).
		Float64("cv", cv).
		Float64("rel_slope", relSlope).
		Float64("last_ratio", lastRatio).
		Msg("Classified series regime")

	return analysis, nil
}

func (c *Classifier) classify(cv, relSlope, lastRatio, momentum float64) *Analysis {
	switch {
	case lastRatio >= exponentialRatio || relSlope >= exponentialSlope:
		confidence := 0.5 + 0.15*(lastRatio-exponentialRatio) + relSlope + momentum
		return &Analysis{Regime: RegimeExponential, Confidence: clamp01(confidence)}

	case cv > volatileCV:
		// The noisier the series, the more certainly it is volatile.
		return &Analysis{Regime: RegimeVolatile, Confidence: clamp01(cv / (2 * volatileCV))}

	case relSlope <= decliningSlope:
		confidence := 0.5 + 3*math.Abs(relSlope) - momentum
		return &Analysis{Regime: RegimeDeclining, Confidence: clamp01(confidence)}

	default:
		// Steadier series mean a more confident "normal" call.
		return &Analysis{Regime: RegimeNormal, Confidence: clamp01(1.0 - 2*cv)}
	}
}

// smoothedMomentum returns the relative change of the SMA-smoothed series over
// its last step. Zero when the series is too short for the smoothing window.
func smoothedMomentum(series []float64, mean float64) float64 {
	if len(series) < smaMomentumPeriod+1 || mean <= 0 {
		return 0
	}
	sma := talib.Sma(series, smaMomentumPeriod)
	lastSMA := sma[len(sma)-1]
	prevSMA := sma[len(sma)-2]
	return (lastSMA - prevSMA) / mean
}

// adaptiveBounds derives the guardrail limits for the plausible monthly total.
// The band is centered on the recent mean and widens as confidence drops or
// volatility rises. A confidently exponential regime is allowed to push the
// upper bound well past the historical maximum.
func adaptiveBounds(series []float64, analysis *Analysis, std, relSlope float64) (float64, float64) {
	recent := series
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	recentMean := stat.Mean(recent, nil)

	width := 2 * std * (2.0 - analysis.Confidence)
	if analysis.Regime == RegimeVolatile {
		width *= 1.5
	}

	lower := math.Max(0, recentMean-width)
	upper := recentMean + width

	if analysis.Regime == RegimeExponential && analysis.Confidence >= 0.6 {
		last := series[len(series)-1]
		growthUpper := last * (1.3 + math.Max(0, relSlope))
		upper = math.Max(upper, growthUpper)
	}

	return lower, upper
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
