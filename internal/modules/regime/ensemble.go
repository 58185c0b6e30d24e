package regime

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/dvergaray/pulso/internal/domain"
)

// Signal blend weights. Renormalized when the same-month signal is missing.
const (
	linearWeight    = 0.50
	trendWeight     = 0.30
	sameMonthWeight = 0.20

	// baseBandPct - minimum half-width of the uncertainty band as a fraction
	// of the prediction; widened further as ensemble agreement drops.
	baseBandPct       = 0.10
	disagreementScale = 0.25

	// Confidence tier thresholds on (agreement, regime confidence).
	highTierFloor   = 0.70
	mediumTierFloor = 0.50
)

// Blender combines the intra-month linear pace, the regression trend and the
// historical same-month average into a single monthly prediction, clamped to
// the regime's adaptive guardrail bounds.
type Blender struct {
	classifier *Classifier
	log        zerolog.Logger
}

// NewBlender creates an ensemble blender.
func NewBlender(classifier *Classifier, log zerolog.Logger) *Blender {
	return &Blender{
		classifier: classifier,
		log:        log.With().Str("component", "ensemble_blender").Logger(),
	}
}

// Blend produces the monthly prediction for the month containing now.
// The classifier sees the historical series with the intra-month projection
// appended as the provisional current month, so a sudden surge registers in
// the regime even before the month closes.
func (b *Blender) Blend(historical []domain.MonthlyTotal, intramonthProjection float64, now time.Time) (*EnsembleResult, error) {
	if len(historical) < MinHistoryMonths {
		return nil, fmt.Errorf("%w: ensemble blend needs %d+ historical months, got %d",
			domain.ErrInsufficientData, MinHistoryMonths, len(historical))
	}

	sorted := sortChronologically(historical)
	series := make([]float64, len(sorted))
	for i, m := range sorted {
		series[i] = float64(m.Services)
	}

	analysis, err := b.classifier.Classify(append(append([]float64{}, series...), intramonthProjection))
	if err != nil {
		return nil, err
	}

	signals := []float64{intramonthProjection}
	weights := []float64{linearWeight}

	signals = append(signals, trendExtrapolation(series))
	weights = append(weights, trendWeight)

	if sameMonth, ok := sameMonthAverage(sorted, now); ok {
		signals = append(signals, sameMonth)
		weights = append(weights, sameMonthWeight)
	}

	raw := stat.Mean(signals, weights)
	agreement := ensembleAgreement(signals, raw)

	halfWidth := raw * (baseBandPct + disagreementScale*(1.0-agreement))
	lower := raw - halfWidth
	upper := raw + halfWidth

	prediction := clampTo(raw, analysis.LowerBound, analysis.UpperBound)
	lower = clampTo(lower, analysis.LowerBound, analysis.UpperBound)
	upper = clampTo(upper, analysis.LowerBound, analysis.UpperBound)
	regimeAdjusted := prediction != raw

	result := &EnsembleResult{
		Prediction:       prediction,
		UncertaintyLower: lower,
		UncertaintyUpper: upper,
		Regime:           analysis.Regime,
		RegimeConfidence: analysis.Confidence,
		Agreement:        agreement,
		Confidence:       confidenceTier(agreement, analysis.Confidence),
		RegimeAdjusted:   regimeAdjusted,
	}
	result.Reasoning, result.Warnings = describe(result, len(signals))

	b.log.Debug().
		Float64("prediction", prediction).
		Float64("agreement", agreement).
		Str("regime", string(analysis.Regime)).
		Bool("regime_adjusted", regimeAdjusted).
		Msg("Blended ensemble prediction")

	return result, nil
}

// trendExtrapolation extends the historical regression one month forward.
// Never negative.
func trendExtrapolation(series []float64) float64 {
	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, series, nil, false)
	return math.Max(0, alpha+beta*float64(len(series)))
}

// sameMonthAverage averages the same calendar month across prior years.
func sameMonthAverage(sorted []domain.MonthlyTotal, now time.Time) (float64, bool) {
	sum, n := 0.0, 0
	for _, m := range sorted {
		if m.Month == int(now.Month()) && m.Year < now.Year() {
			sum += float64(m.Services)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// ensembleAgreement maps the signal spread around the blended value into [0,1];
// 1 means all signals coincide.
func ensembleAgreement(signals []float64, blended float64) float64 {
	if blended <= 0 {
		return 0
	}
	min, max := signals[0], signals[0]
	for _, s := range signals[1:] {
		min = math.Min(min, s)
		max = math.Max(max, s)
	}
	return clamp01(1.0 - (max-min)/blended)
}

func confidenceTier(agreement, regimeConfidence float64) Confidence {
	switch {
	case agreement >= highTierFloor && regimeConfidence >= highTierFloor:
		return ConfidenceHigh
	case agreement >= mediumTierFloor && regimeConfidence >= mediumTierFloor:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func describe(r *EnsembleResult, signalCount int) (string, []string) {
	reasoning := fmt.Sprintf("blended %d signals (agreement %.0f%%) under %s regime (confidence %.0f%%)",
		signalCount, r.Agreement*100, r.Regime, r.RegimeConfidence*100)

	var warnings []string
	if r.Regime == RegimeVolatile {
		warnings = append(warnings, "volatile pattern - higher uncertainty expected")
	}
	if r.RegimeAdjusted {
		warnings = append(warnings, "adjusted by guardrails for realism")
	}
	if r.Confidence == ConfidenceLow {
		warnings = append(warnings, "low forecast confidence - treat prediction as indicative")
	}
	return reasoning, warnings
}

func sortChronologically(historical []domain.MonthlyTotal) []domain.MonthlyTotal {
	sorted := make([]domain.MonthlyTotal, len(historical))
	copy(sorted, historical)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].Month < sorted[j].Month
	})
	return sorted
}

func clampTo(v, lower, upper float64) float64 {
	return math.Max(lower, math.Min(upper, v))
}
