package regime

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvergaray/pulso/internal/domain"
)

// Early-month mode: with two or fewer days of intra-month data the realtime
// pace is too thin, so the engine projects from the same calendar month of
// prior years instead.
const (
	// realtimeDay - the day of month from which intra-month data is trusted.
	realtimeDay = 3

	// momentumWeight - how strongly prior-month momentum tilts the projection.
	momentumWeight = 0.30

	// maxPriorYears - at most this many most recent prior years are averaged.
	maxPriorYears = 3
)

// IsEarlyMonth reports whether the engine should use prior-years projection
// instead of intra-month pace.
func IsEarlyMonth(dayOfMonth int) bool {
	return dayOfMonth <= realtimeDay-1
}

// DaysUntilRealtime returns how many days remain before intra-month data is
// considered reliable.
func DaysUntilRealtime(dayOfMonth int) int {
	if dayOfMonth >= realtimeDay {
		return 0
	}
	return realtimeDay - dayOfMonth
}

// EarlyMonthProjector projects the current month from prior-year history.
type EarlyMonthProjector struct {
	log zerolog.Logger
}

// NewEarlyMonthProjector creates an early-month projector.
func NewEarlyMonthProjector(log zerolog.Logger) *EarlyMonthProjector {
	return &EarlyMonthProjector{log: log.With().Str("component", "early_month").Logger()}
}

// Project builds the early-month projection for the month containing now.
// The base is the average of the same calendar month across the 2-3 most
// recent prior years, adjusted by year-over-year growth and a 30%-weighted
// prior-month momentum factor.
func (p *EarlyMonthProjector) Project(historical []domain.MonthlyTotal, now time.Time) (*EarlyMonthProjection, error) {
	sorted := sortChronologically(historical)

	priorYears := sameMonthPriorYears(sorted, now)
	if len(priorYears) == 0 {
		return nil, fmt.Errorf("%w: no prior-year data for month %d", domain.ErrInsufficientData, int(now.Month()))
	}

	base := 0.0
	for _, v := range priorYears {
		base += v
	}
	base /= float64(len(priorYears))

	growth, growthKnown := yearOverYearGrowth(sorted, now)
	momentum, momentumKnown := priorMonthMomentum(sorted, now)

	growthFactor := 1.0
	if growthKnown {
		growthFactor = growth
	}
	momentumFactor := 1.0
	if momentumKnown {
		momentumFactor = 1.0 + momentumWeight*momentum
	}

	projection := base * growthFactor * momentumFactor

	confidence := ConfidenceLow
	switch {
	case len(priorYears) >= maxPriorYears && growthKnown && momentumKnown:
		confidence = ConfidenceHigh
	case len(priorYears) >= 2 && (growthKnown || momentumKnown):
		confidence = ConfidenceMedium
	}

	result := &EarlyMonthProjection{
		Active:            IsEarlyMonth(now.Day()),
		DaysUntilRealtime: DaysUntilRealtime(now.Day()),
		Projection:        projection,
		PriorYearsUsed:    len(priorYears),
		GrowthFactor:      growthFactor,
		MomentumFactor:    momentumFactor,
		Confidence:        confidence,
		Reasoning: fmt.Sprintf("projected from %d prior year(s) of %s, growth %.2fx, momentum %.2fx",
			len(priorYears), now.Month(), growthFactor, momentumFactor),
	}

	p.log.Debug().
		Float64("projection", projection).
		Int("prior_years", len(priorYears)).
		Str("confidence", string(confidence)).
		Msg("Computed early-month projection")

	return result, nil
}

// sameMonthPriorYears returns the same calendar month's totals for the most
// recent prior years, newest first, capped at maxPriorYears.
func sameMonthPriorYears(sorted []domain.MonthlyTotal, now time.Time) []float64 {
	var values []float64
	for i := len(sorted) - 1; i >= 0 && len(values) < maxPriorYears; i-- {
		m := sorted[i]
		if m.Month == int(now.Month()) && m.Year < now.Year() {
			values = append(values, float64(m.Services))
		}
	}
	return values
}

// yearOverYearGrowth compares the trailing 12 months against the 12 before
// them. Unknown with fewer than 24 months of history.
func yearOverYearGrowth(sorted []domain.MonthlyTotal, now time.Time) (float64, bool) {
	closed := monthsBefore(sorted, now)
	if len(closed) < 24 {
		return 0, false
	}

	recent, previous := 0.0, 0.0
	for _, m := range closed[len(closed)-12:] {
		recent += float64(m.Services)
	}
	for _, m := range closed[len(closed)-24 : len(closed)-12] {
		previous += float64(m.Services)
	}
	if previous <= 0 {
		return 0, false
	}
	return recent / previous, true
}

// priorMonthMomentum is the relative change of the month immediately before
// now against its own predecessor.
func priorMonthMomentum(sorted []domain.MonthlyTotal, now time.Time) (float64, bool) {
	closed := monthsBefore(sorted, now)
	if len(closed) < 2 {
		return 0, false
	}
	prior := float64(closed[len(closed)-1].Services)
	prev := float64(closed[len(closed)-2].Services)
	if prev <= 0 {
		return 0, false
	}
	return prior/prev - 1.0, true
}

// monthsBefore filters to months strictly before the month containing now.
func monthsBefore(sorted []domain.MonthlyTotal, now time.Time) []domain.MonthlyTotal {
	var out []domain.MonthlyTotal
	for _, m := range sorted {
		if m.Year < now.Year() || (m.Year == now.Year() && m.Month < int(now.Month())) {
			out = append(out, m)
		}
	}
	return out
}
