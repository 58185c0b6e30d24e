// Package variance computes the dynamic correction factor applied to the
// remaining forecast days of the month, derived from the trailing
// realized-vs-forecast variance of the days already closed.
package variance

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Correction bounds and sample thresholds.
const (
	// MaxVariance caps the observed weighted variance at ±30%, keeping the
	// correction factor inside [0.70, 1.30].
	MaxVariance = 0.30

	// MinSampleDays - below this many qualifying days no correction is applied.
	MinSampleDays = 5
	// HighConfidenceDays - at or above this many qualifying days the
	// correction is high confidence.
	HighConfidenceDays = 10

	// neutralVarianceEpsilon - weighted variances smaller than this (0.5%)
	// count as "no adjustment needed".
	neutralVarianceEpsilon = 0.005
)

// Confidence tiers the sample size behind a correction.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// DayObservation is one closed day's forecast-vs-actual record.
// Actual and VariancePct are nil for days that never closed with data.
type DayObservation struct {
	DayOfMonth  int
	Forecast    float64
	Actual      *float64
	VariancePct *float64
}

// Result is the dynamic adjustment derived from the trailing days-to-date.
// It is recomputed on demand and never persisted.
type Result struct {
	CorrectionFactor    float64    `json:"correction_factor"`
	ObservedVariancePct float64    `json:"observed_variance_pct"`
	Confidence          Confidence `json:"confidence"`
	DataPoints          int        `json:"data_points"`
	Reason              string     `json:"reason"`
}

// Calculator derives correction factors from trailing day observations.
type Calculator struct {
	log zerolog.Logger
}

// NewCalculator creates a variance-correction calculator.
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{log: log.With().Str("component", "variance_correction").Logger()}
}

// Compute produces the correction factor for the remaining forecast days.
// Only entries strictly before currentDay with a known actual, a known
// variance and a positive forecast qualify. Recent days weigh more than older
// ones; the weighted variance is clamped to ±30%.
func (c *Calculator) Compute(observations []DayObservation, currentDay int) *Result {
	qualifying := make([]DayObservation, 0, len(observations))
	for _, o := range observations {
		if o.DayOfMonth >= currentDay {
			continue
		}
		if o.Actual == nil || o.VariancePct == nil || o.Forecast <= 0 {
			continue
		}
		qualifying = append(qualifying, o)
	}

	if len(qualifying) < MinSampleDays {
		return &Result{
			CorrectionFactor: 1.0,
			Confidence:       ConfidenceLow,
			DataPoints:       len(qualifying),
			Reason: fmt.Sprintf("insufficient data: %d of %d qualifying days, no adjustment applied",
				len(qualifying), MinSampleDays),
		}
	}

	// Recency-weighted average: weight 1/(1+daysAgo) favors recent days
	// monotonically.
	weightedSum := 0.0
	weightTotal := 0.0
	for _, o := range qualifying {
		daysAgo := currentDay - o.DayOfMonth
		weight := 1.0 / float64(1+daysAgo)
		weightedSum += (*o.VariancePct / 100.0) * weight
		weightTotal += weight
	}
	weightedVariance := weightedSum / weightTotal

	clamped := clamp(weightedVariance, -MaxVariance, MaxVariance)

	confidence := ConfidenceMedium
	if len(qualifying) >= HighConfidenceDays {
		confidence = ConfidenceHigh
	}

	result := &Result{
		CorrectionFactor:    1.0 + clamped,
		ObservedVariancePct: clamped * 100.0,
		Confidence:          confidence,
		DataPoints:          len(qualifying),
		Reason:              buildReason(clamped, len(qualifying)),
	}

	c.log.Debug().
		Float64("correction_factor", result.CorrectionFactor).
		Int("data_points", result.DataPoints).
		Str("confidence", string(confidence)).
		Msg("Computed dynamic variance correction")

	return result
}

func buildReason(clampedVariance float64, days int) string {
	if math.Abs(clampedVariance) < neutralVarianceEpsilon {
		return "no adjustment needed"
	}
	direction := "over-performance"
	if clampedVariance < 0 {
		direction = "under-performance"
	}
	return fmt.Sprintf("%+.1f%% adjustment due to %s over %d days",
		clampedVariance*100.0, direction, days)
}

func clamp(value, min, max float64) float64 {
	return math.Max(min, math.Min(max, value))
}
