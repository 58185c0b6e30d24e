package holidays

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvergaray/pulso/internal/domain"
)

// Calculator blends calendar holidays and their extended-impact days into a
// period-level adjustment factor and per-day operation factors.
//
// A holiday lookup failure degrades to a neutral result with a warning: this
// component must never block forecast generation.
type Calculator struct {
	source domain.HolidaySource
	log    zerolog.Logger
}

// NewCalculator creates a holiday impact calculator.
func NewCalculator(source domain.HolidaySource, log zerolog.Logger) *Calculator {
	return &Calculator{
		source: source,
		log:    log.With().Str("component", "holiday_impact").Logger(),
	}
}

// PeriodImpact computes the blended holiday impact for the numberOfDays-day
// window starting at start. A negative numberOfDays is a caller bug; zero
// returns a neutral no-op result.
func (c *Calculator) PeriodImpact(start time.Time, numberOfDays int) (*Result, error) {
	if numberOfDays < 0 {
		return nil, fmt.Errorf("%w: numberOfDays must be >= 0, got %d", domain.ErrInvalidArgument, numberOfDays)
	}

	start = truncateToDay(start)
	if numberOfDays == 0 {
		return neutralResult(0, "no days in period"), nil
	}

	end := start.AddDate(0, 0, numberOfDays-1)

	found, err := c.source.GetInRange(start, end)
	if err != nil {
		c.log.Warn().Err(err).
			Time("start", start).
			Int("days", numberOfDays).
			Msg("Holiday lookup failed, using neutral adjustment")
		result := neutralResult(numberOfDays, "no data available")
		result.Warning = fmt.Sprintf("holiday data unavailable: %v", err)
		return result, nil
	}

	if len(found) == 0 {
		return neutralResult(numberOfDays, "no holidays in period"), nil
	}

	// Process holidays in date order so extension claims are deterministic.
	sort.Slice(found, func(i, j int) bool { return found[i].Date.Before(found[j].Date) })

	holidayDates := make(map[string]bool, len(found))
	dayFactors := make(map[string]float64, len(found))
	for _, h := range found {
		key := truncateToDay(h.Date).Format(dayKeyLayout)
		holidayDates[key] = true
		dayFactors[key] = h.BaseFactor
	}

	extended := c.generateExtendedDays(found, start, end, holidayDates)
	for _, e := range extended {
		dayFactors[e.Date.Format(dayKeyLayout)] = e.Factor
	}

	holidayFactorSum := 0.0
	for _, h := range found {
		holidayFactorSum += h.BaseFactor
	}
	extendedFactorSum := 0.0
	for _, e := range extended {
		extendedFactorSum += e.Factor
	}

	normalDays := numberOfDays - len(found) - len(extended)
	effectiveDays := float64(normalDays) + holidayFactorSum + extendedFactorSum
	adjustmentFactor := effectiveDays / float64(numberOfDays)

	result := &Result{
		AdjustmentFactor: adjustmentFactor,
		TotalDays:        numberOfDays,
		EffectiveDays:    effectiveDays,
		Holidays:         found,
		ExtendedDays:     extended,
		Explanation:      buildExplanation(found, extended),
		dayFactors:       dayFactors,
	}

	c.log.Debug().
		Int("holidays", len(found)).
		Int("extended_days", len(extended)).
		Float64("adjustment_factor", adjustmentFactor).
		Msg("Computed period holiday impact")

	return result, nil
}

// generateExtendedDays produces the decayed before/after days for each holiday.
// A date is claimed at most once (first claim wins), never on an official
// holiday, and only inside [start, end].
func (c *Calculator) generateExtendedDays(
	found []domain.Holiday,
	start, end time.Time,
	holidayDates map[string]bool,
) []ExtendedImpactDay {
	var extended []ExtendedImpactDay
	claimed := make(map[string]bool)

	for _, h := range found {
		cfg, ok := extendedConfigFor(h.Name)
		if !ok {
			continue
		}

		holidayDay := truncateToDay(h.Date)

		for offset := 1; offset <= cfg.DaysBefore; offset++ {
			date := holidayDay.AddDate(0, 0, -offset)
			if day, ok := claimExtendedDay(date, start, end, holidayDates, claimed, h.Name, cfg.BeforeFactor, PositionBefore); ok {
				extended = append(extended, day)
			}
		}
		for offset := 1; offset <= cfg.DaysAfter; offset++ {
			date := holidayDay.AddDate(0, 0, offset)
			if day, ok := claimExtendedDay(date, start, end, holidayDates, claimed, h.Name, cfg.AfterFactor, PositionAfter); ok {
				extended = append(extended, day)
			}
		}
	}

	sort.Slice(extended, func(i, j int) bool { return extended[i].Date.Before(extended[j].Date) })
	return extended
}

func claimExtendedDay(
	date, start, end time.Time,
	holidayDates, claimed map[string]bool,
	holidayName string,
	factor float64,
	position Position,
) (ExtendedImpactDay, bool) {
	if date.Before(start) || date.After(end) {
		return ExtendedImpactDay{}, false
	}
	key := date.Format(dayKeyLayout)
	if holidayDates[key] || claimed[key] {
		return ExtendedImpactDay{}, false
	}
	claimed[key] = true
	return ExtendedImpactDay{
		Date:        date,
		HolidayName: holidayName,
		Factor:      factor,
		Position:    position,
	}, true
}

func buildExplanation(found []domain.Holiday, extended []ExtendedImpactDay) string {
	names := make([]string, len(found))
	for i, h := range found {
		names[i] = h.Name
	}

	before, after := 0, 0
	for _, e := range extended {
		if e.Position == PositionBefore {
			before++
		} else {
			after++
		}
	}

	explanation := fmt.Sprintf("%d holiday(s) in period: %s", len(found), strings.Join(names, ", "))
	if len(extended) > 0 {
		explanation += fmt.Sprintf(" (%d extended day(s) before, %d after)", before, after)
	}
	return explanation
}

func neutralResult(totalDays int, explanation string) *Result {
	return &Result{
		AdjustmentFactor: 1.0,
		TotalDays:        totalDays,
		EffectiveDays:    float64(totalDays),
		Holidays:         []domain.Holiday{},
		ExtendedDays:     []ExtendedImpactDay{},
		Explanation:      explanation,
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
