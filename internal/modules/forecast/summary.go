package forecast

import (
	"fmt"

	"github.com/dvergaray/pulso/internal/domain"
)

// ComputeMonthSummary reduces the day sequence into month-level KPIs. Pure and
// stateless: recomputed from the full sequence on every call, never partially
// persisted.
func (s *Service) ComputeMonthSummary(days []domain.DayComparison) (*domain.MonthSummary, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: month summary needs at least one day", domain.ErrInsufficientData)
	}

	first := days[0]
	summary := &domain.MonthSummary{
		Year:  first.Date.Year(),
		Month: int(first.Date.Month()),
		Trend: domain.TrendStable,
	}

	var closedVariances []float64
	var futureProbabilitySum float64
	futureDays := 0

	for _, day := range days {
		closed := day.IsPast || day.IsToday

		summary.OriginalForecast += day.Forecast
		summary.OriginalForecastGMV += day.ForecastGMV
		summary.AdjustedForecast += day.AdjustedForecast
		summary.AdjustedForecastGMV += day.AdjustedForecastGMV

		if closed && day.Actual != nil {
			summary.DaysClosed++
			summary.ActualToDate += *day.Actual
			if day.ActualGMV != nil {
				summary.ActualToDateGMV += *day.ActualGMV
			}
			if *day.Actual >= day.Forecast {
				summary.DaysMetForecast++
			} else {
				summary.DaysMissForecast++
			}
			if day.VariancePct != nil {
				closedVariances = append(closedVariances, *day.VariancePct)
			}
		}

		if !closed {
			futureProbabilitySum += day.ProbabilityToReach
			futureDays++
		}
	}

	summary.Trend = trendDirection(closedVariances, s.thresholds.ForecastThresholds().TrendMarginPct)

	if futureDays > 0 {
		summary.TargetReachProbability = futureProbabilitySum / float64(futureDays)
	} else if summary.ActualToDate >= summary.OriginalForecast {
		summary.TargetReachProbability = 100
	}

	if summary.DaysClosed < 3 {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("only %d closed day(s) - trend and correction are low signal", summary.DaysClosed))
	}

	return summary, nil
}

// trendDirection reads the slope of the last three closed days' variance.
// "improving" requires the most recent variance to exceed the oldest of the
// three by the configured margin, and symmetrically for "declining".
func trendDirection(closedVariances []float64, marginPct float64) domain.TrendDirection {
	if len(closedVariances) < 3 {
		return domain.TrendStable
	}
	last3 := closedVariances[len(closedVariances)-3:]
	shift := last3[2] - last3[0]
	switch {
	case shift > marginPct:
		return domain.TrendImproving
	case shift < -marginPct:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}
