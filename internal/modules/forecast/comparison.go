package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dvergaray/pulso/internal/domain"
	"github.com/dvergaray/pulso/internal/modules/variance"
)

// stdNormal is the distribution behind probability-to-reach.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// buildDayComparisons runs the pure per-day pipeline over the fetched inputs.
// Cumulative fields are accumulated strictly in calendar order.
func (s *Service) buildDayComparisons(currentDate time.Time, inputs *monthInputs) ([]domain.DayComparison, error) {
	year, month := currentDate.Year(), currentDate.Month()
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, currentDate.Location())
	daysInMonth := firstOfMonth.AddDate(0, 1, -1).Day()
	currentDay := currentDate.Day()

	actualByDay := make(map[int]domain.DailyActual, len(inputs.actuals))
	for _, a := range inputs.actuals {
		actualByDay[a.DayOfMonth] = a
	}

	basePace := s.basePace(actualByDay, currentDay)

	// First pass: base forecasts, so the correction can be derived from the
	// closed days' forecast-vs-actual record.
	forecasts := make([]float64, daysInMonth+1)
	for day := 1; day <= daysInMonth; day++ {
		date := firstOfMonth.AddDate(0, 0, day-1)
		weekdayFactor, err := s.table.FactorFor(int(date.Weekday()))
		if err != nil {
			return nil, err
		}
		forecasts[day] = basePace * weekdayFactor * inputs.holidayImpact.DayFactor(date)
	}

	correction := s.corrections.Compute(pastObservations(forecasts, actualByDay, currentDay), currentDay)

	days := make([]domain.DayComparison, 0, daysInMonth)
	var cumForecast, cumLower, cumUpper, cumAdjusted float64
	var cumActual, cumActualGMV float64

	for day := 1; day <= daysInMonth; day++ {
		date := firstOfMonth.AddDate(0, 0, day-1)
		forecast := forecasts[day]
		isPast := day < currentDay
		isToday := day == currentDay
		closed := isPast || isToday

		uncertainty := 0.0
		if !closed {
			uncertainty = math.Min(
				inputs.thresholds.BaseUncertaintyRate*math.Sqrt(float64(day-currentDay)),
				inputs.thresholds.MaxUncertainty,
			)
		}
		lower := forecast * (1 - uncertainty)
		upper := forecast * (1 + uncertainty)

		record := domain.DayComparison{
			Date:           date,
			DayOfMonth:     day,
			Weekday:        date.Weekday().String(),
			IsPast:         isPast,
			IsToday:        isToday,
			Forecast:       forecast,
			ForecastLower:  lower,
			ForecastUpper:  upper,
			UncertaintyPct: uncertainty * 100,
		}

		if closed {
			// Closed days always carry an actual: the input series is
			// zero-filled, never sparse.
			actual := actualByDay[day]
			actualServices := float64(actual.Services)
			record.Actual = &actualServices
			record.ActualGMV = &actual.GMV
			record.AdjustedForecast = actualServices

			if forecast > 0 {
				varianceAbs := actualServices - forecast
				variancePct := varianceAbs / forecast * 100
				record.Variance = &varianceAbs
				record.VariancePct = &variancePct
			}
			if actualServices >= forecast {
				record.ProbabilityToReach = 100
			}
		} else {
			record.AdjustedForecast = math.Round(forecast * correction.CorrectionFactor)
			record.ProbabilityToReach = probabilityToReach(forecast, record.AdjustedForecast, uncertainty)
		}

		cumForecast += forecast
		cumLower += lower
		cumUpper += upper
		cumAdjusted += record.AdjustedForecast
		record.CumulativeForecast = cumForecast
		record.CumulativeForecastLower = cumLower
		record.CumulativeForecastUpper = cumUpper
		record.CumulativeAdjusted = cumAdjusted

		if closed {
			cumActual += *record.Actual
			cumActualGMV += *record.ActualGMV
			cumActualCopy := cumActual
			cumActualGMVCopy := cumActualGMV
			record.CumulativeActual = &cumActualCopy
			record.CumulativeActualGMV = &cumActualGMVCopy
		}

		mirrorGMV(&record, inputs.aov)
		days = append(days, record)
	}

	s.log.Debug().
		Int("days", len(days)).
		Float64("base_pace", basePace).
		Float64("correction_factor", correction.CorrectionFactor).
		Msg("Built day comparisons")

	return days, nil
}

// basePace is the average realized volume per elapsed complete day. On day 1
// the partial day itself is the only signal available.
func (s *Service) basePace(actualByDay map[int]domain.DailyActual, currentDay int) float64 {
	if currentDay <= 1 {
		return float64(actualByDay[1].Services)
	}
	total := 0
	for day := 1; day < currentDay; day++ {
		total += actualByDay[day].Services
	}
	return float64(total) / float64(currentDay-1)
}

// pastObservations assembles the closed days' forecast-vs-actual record for
// the variance correction.
func pastObservations(forecasts []float64, actualByDay map[int]domain.DailyActual, currentDay int) []variance.DayObservation {
	var observations []variance.DayObservation
	for day := 1; day < currentDay && day < len(forecasts); day++ {
		forecast := forecasts[day]
		if forecast <= 0 {
			continue
		}
		actual := float64(actualByDay[day].Services)
		variancePct := (actual - forecast) / forecast * 100
		observations = append(observations, variance.DayObservation{
			DayOfMonth:  day,
			Forecast:    forecast,
			Actual:      &actual,
			VariancePct: &variancePct,
		})
	}
	return observations
}

// probabilityToReach estimates the probability that the original forecast is
// still met, given the corrected forecast and the day's uncertainty. Monotonic
// in the adjusted/original ratio, bounded to [0, 100].
func probabilityToReach(original, adjusted, uncertainty float64) float64 {
	if original <= 0 {
		return 100
	}
	if uncertainty <= 0 {
		if adjusted >= original {
			return 100
		}
		return 0
	}
	z := (adjusted - original) / (original * uncertainty)
	return clampRange(stdNormal.CDF(z)*100, 0, 100)
}

// mirrorGMV fills the monetary mirrors of the count fields. Forecast-side
// mirrors use the current average order value; realized GMV comes from the
// actuals themselves.
func mirrorGMV(record *domain.DayComparison, aov float64) {
	record.ForecastGMV = record.Forecast * aov
	record.ForecastGMVLower = record.ForecastLower * aov
	record.ForecastGMVUpper = record.ForecastUpper * aov
	record.AdjustedForecastGMV = record.AdjustedForecast * aov
	record.CumulativeForecastGMV = record.CumulativeForecast * aov
	record.CumulativeAdjustedGMV = record.CumulativeAdjusted * aov
}

func clampRange(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}
