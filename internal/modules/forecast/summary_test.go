package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvergaray/pulso/internal/domain"
	"github.com/dvergaray/pulso/internal/modules/seasonality"
)

func closedDay(day int, forecast, actual float64) domain.DayComparison {
	varianceAbs := actual - forecast
	variancePct := varianceAbs / forecast * 100
	actualGMV := actual * 45
	return domain.DayComparison{
		Date:             time.Date(2025, time.December, day, 0, 0, 0, 0, time.UTC),
		DayOfMonth:       day,
		IsPast:           true,
		Forecast:         forecast,
		AdjustedForecast: actual,
		Actual:           &actual,
		ActualGMV:        &actualGMV,
		Variance:         &varianceAbs,
		VariancePct:      &variancePct,
	}
}

func futureDay(day int, forecast, adjusted, probability float64) domain.DayComparison {
	return domain.DayComparison{
		Date:               time.Date(2025, time.December, day, 0, 0, 0, 0, time.UTC),
		DayOfMonth:         day,
		Forecast:           forecast,
		AdjustedForecast:   adjusted,
		ProbabilityToReach: probability,
	}
}

func TestComputeMonthSummary_EmptyIsInsufficient(t *testing.T) {
	svc := newTestService(&fakeActuals{}, &fakeHistory{}, &fakeAOV{aov: 45}, &fakeHolidaySource{}, seasonality.DefaultTable())

	_, err := svc.ComputeMonthSummary(nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestComputeMonthSummary_KPIs(t *testing.T) {
	svc := newTestService(&fakeActuals{}, &fakeHistory{}, &fakeAOV{aov: 45}, &fakeHolidaySource{}, seasonality.DefaultTable())

	days := []domain.DayComparison{
		closedDay(1, 100, 90),  // miss
		closedDay(2, 100, 95),  // miss
		closedDay(3, 100, 100), // met
		futureDay(4, 100, 95, 80),
		futureDay(5, 100, 95, 60),
	}

	summary, err := svc.ComputeMonthSummary(days)
	require.NoError(t, err)

	assert.Equal(t, 2025, summary.Year)
	assert.Equal(t, 12, summary.Month)
	assert.Equal(t, 3, summary.DaysClosed)
	assert.Equal(t, 1, summary.DaysMetForecast)
	assert.Equal(t, 2, summary.DaysMissForecast)
	assert.InDelta(t, 285, summary.ActualToDate, 1e-9)
	assert.InDelta(t, 500, summary.OriginalForecast, 1e-9)
	assert.InDelta(t, 285+95+95, summary.AdjustedForecast, 1e-9)
	assert.InDelta(t, 70, summary.TargetReachProbability, 1e-9, "mean of the open days' probabilities")
}

func TestComputeMonthSummary_TrendFromLastThreeClosedDays(t *testing.T) {
	svc := newTestService(&fakeActuals{}, &fakeHistory{}, &fakeAOV{aov: 45}, &fakeHolidaySource{}, seasonality.DefaultTable())

	scenarios := []struct {
		name    string
		actuals [3]float64
		want    domain.TrendDirection
	}{
		{"recovering variance reads improving", [3]float64{90, 95, 100}, domain.TrendImproving},
		{"slipping variance reads declining", [3]float64{100, 95, 90}, domain.TrendDeclining},
		{"shift within the margin reads stable", [3]float64{99, 100, 100}, domain.TrendStable},
	}

	for _, tc := range scenarios {
		t.Run(tc.name, func(t *testing.T) {
			days := []domain.DayComparison{
				closedDay(1, 100, tc.actuals[0]),
				closedDay(2, 100, tc.actuals[1]),
				closedDay(3, 100, tc.actuals[2]),
			}
			summary, err := svc.ComputeMonthSummary(days)
			require.NoError(t, err)
			assert.Equal(t, tc.want, summary.Trend)
		})
	}
}

func TestComputeMonthSummary_TrendUsesOnlyTheLastThree(t *testing.T) {
	svc := newTestService(&fakeActuals{}, &fakeHistory{}, &fakeAOV{aov: 45}, &fakeHolidaySource{}, seasonality.DefaultTable())

	// A strong early recovery followed by three flat days ends stable.
	days := []domain.DayComparison{
		closedDay(1, 100, 60),
		closedDay(2, 100, 80),
		closedDay(3, 100, 100),
		closedDay(4, 100, 100),
		closedDay(5, 100, 100),
	}

	summary, err := svc.ComputeMonthSummary(days)
	require.NoError(t, err)
	assert.Equal(t, domain.TrendStable, summary.Trend)
}

func TestComputeMonthSummary_FewClosedDaysWarn(t *testing.T) {
	svc := newTestService(&fakeActuals{}, &fakeHistory{}, &fakeAOV{aov: 45}, &fakeHolidaySource{}, seasonality.DefaultTable())

	days := []domain.DayComparison{
		closedDay(1, 100, 100),
		futureDay(2, 100, 100, 90),
	}

	summary, err := svc.ComputeMonthSummary(days)
	require.NoError(t, err)
	assert.Equal(t, domain.TrendStable, summary.Trend)
	require.Len(t, summary.Warnings, 1)
	assert.Contains(t, summary.Warnings[0], "low signal")
}

func TestComputeMonthSummary_ClosedMonthProbability(t *testing.T) {
	svc := newTestService(&fakeActuals{}, &fakeHistory{}, &fakeAOV{aov: 45}, &fakeHolidaySource{}, seasonality.DefaultTable())

	days := []domain.DayComparison{
		closedDay(1, 100, 110),
		closedDay(2, 100, 105),
		closedDay(3, 100, 100),
	}

	summary, err := svc.ComputeMonthSummary(days)
	require.NoError(t, err)
	assert.InDelta(t, 100, summary.TargetReachProbability, 1e-9, "no open days and target already met")
}
