package holidays

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvergaray/pulso/internal/domain"
)

// fakeSource is an in-memory HolidaySource for calculator tests.
type fakeSource struct {
	holidays []domain.Holiday
	err      error
}

func (f *fakeSource) GetInRange(start, end time.Time) ([]domain.Holiday, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Holiday
	for _, h := range f.holidays {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodImpact_NoHolidaysIsExactlyNeutral(t *testing.T) {
	calc := NewCalculator(&fakeSource{}, zerolog.Nop())

	result, err := calc.PeriodImpact(date(2025, time.March, 1), 31)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.AdjustmentFactor)
	assert.Empty(t, result.Holidays)
	assert.Empty(t, result.ExtendedDays)
	assert.Equal(t, "no holidays in period", result.Explanation)
}

func TestPeriodImpact_NegativeDaysIsCallerBug(t *testing.T) {
	calc := NewCalculator(&fakeSource{}, zerolog.Nop())

	_, err := calc.PeriodImpact(date(2025, time.March, 1), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestPeriodImpact_ZeroDaysIsNoOp(t *testing.T) {
	calc := NewCalculator(&fakeSource{}, zerolog.Nop())

	result, err := calc.PeriodImpact(date(2025, time.March, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.AdjustmentFactor)
	assert.Equal(t, 0, result.TotalDays)
}

func TestPeriodImpact_LookupFailureDegradesToNeutral(t *testing.T) {
	calc := NewCalculator(&fakeSource{err: errors.New("connection refused")}, zerolog.Nop())

	result, err := calc.PeriodImpact(date(2025, time.March, 1), 31)
	require.NoError(t, err, "holiday failures must never block forecast generation")

	assert.Equal(t, 1.0, result.AdjustmentFactor)
	assert.Equal(t, "no data available", result.Explanation)
	assert.Contains(t, result.Warning, "holiday data unavailable")
}

func TestPeriodImpact_NavidadExtendsTwoDaysBefore(t *testing.T) {
	navidad := domain.Holiday{
		Date:              date(2025, time.December, 25),
		Name:              "Navidad",
		BaseFactor:        0.25,
		ObservedImpactPct: -75,
	}
	calc := NewCalculator(&fakeSource{holidays: []domain.Holiday{navidad}}, zerolog.Nop())

	result, err := calc.PeriodImpact(date(2025, time.December, 1), 30)
	require.NoError(t, err)

	require.Len(t, result.Holidays, 1)
	assert.Equal(t, 0.25, result.DayFactor(date(2025, time.December, 25)), "holiday carries its own base factor")

	// daysBefore:2 at beforeFactor 0.70 lands on Dec 23 and Dec 24.
	assert.Equal(t, 0.70, result.DayFactor(date(2025, time.December, 23)))
	assert.Equal(t, 0.70, result.DayFactor(date(2025, time.December, 24)))

	assert.Less(t, result.AdjustmentFactor, 1.0)
	assert.Contains(t, result.Explanation, "Navidad")
}

func TestPeriodImpact_ExtendedDaysNeverOverlap(t *testing.T) {
	// Navidad (Dec 25) and Año Nuevo (Jan 1) both extend toward the gap
	// between them. Every date must be claimed at most once and never land on
	// an official holiday.
	source := &fakeSource{holidays: []domain.Holiday{
		{Date: date(2025, time.December, 25), Name: "Navidad", BaseFactor: 0.25},
		{Date: date(2026, time.January, 1), Name: "Año Nuevo", BaseFactor: 0.20},
	}}
	calc := NewCalculator(source, zerolog.Nop())

	result, err := calc.PeriodImpact(date(2025, time.December, 20), 20)
	require.NoError(t, err)

	holidayDates := map[string]bool{}
	for _, h := range result.Holidays {
		holidayDates[h.Date.Format("2006-01-02")] = true
	}

	seen := map[string]bool{}
	for _, e := range result.ExtendedDays {
		key := e.Date.Format("2006-01-02")
		assert.False(t, seen[key], "date %s claimed twice", key)
		assert.False(t, holidayDates[key], "extended day %s coincides with a holiday", key)
		seen[key] = true
	}
}

func TestPeriodImpact_CompoundNameResolvesDeterministically(t *testing.T) {
	// "Navidad y Año Nuevo" substring-matches two configurations; the ordered
	// lookup must always pick Navidad's (2 before at 0.70, 1 after at 0.80).
	source := &fakeSource{holidays: []domain.Holiday{
		{Date: date(2025, time.December, 25), Name: "Navidad y Año Nuevo", BaseFactor: 0.25},
	}}
	calc := NewCalculator(source, zerolog.Nop())

	first, err := calc.PeriodImpact(date(2025, time.December, 1), 31)
	require.NoError(t, err)

	assert.Equal(t, 0.70, first.DayFactor(date(2025, time.December, 23)))
	assert.Equal(t, 0.70, first.DayFactor(date(2025, time.December, 24)))
	assert.Equal(t, 0.80, first.DayFactor(date(2025, time.December, 26)))
	assert.Equal(t, 1.0, first.DayFactor(date(2025, time.December, 27)), "Año Nuevo's second after-day must not apply")

	for i := 0; i < 10; i++ {
		again, err := calc.PeriodImpact(date(2025, time.December, 1), 31)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPeriodImpact_UnmatchedNameGetsNoExtension(t *testing.T) {
	source := &fakeSource{holidays: []domain.Holiday{
		{Date: date(2025, time.June, 10), Name: "Feriado Municipal", BaseFactor: 0.50},
	}}
	calc := NewCalculator(source, zerolog.Nop())

	result, err := calc.PeriodImpact(date(2025, time.June, 1), 30)
	require.NoError(t, err)

	assert.Empty(t, result.ExtendedDays)
	assert.Equal(t, 0.50, result.DayFactor(date(2025, time.June, 10)))
	assert.Equal(t, 1.0, result.DayFactor(date(2025, time.June, 9)))
}

func TestPeriodImpact_EffectiveDaysArithmetic(t *testing.T) {
	source := &fakeSource{holidays: []domain.Holiday{
		{Date: date(2025, time.December, 25), Name: "Navidad", BaseFactor: 0.25},
	}}
	calc := NewCalculator(source, zerolog.Nop())

	result, err := calc.PeriodImpact(date(2025, time.December, 1), 30)
	require.NoError(t, err)

	// 30 days - 1 holiday - 3 extended (2 before at 0.70, 1 after at 0.80)
	// = 26 normal days + 0.25 + 1.40 + 0.80 = 28.45 effective days.
	require.Len(t, result.ExtendedDays, 3)
	assert.InDelta(t, 28.45, result.EffectiveDays, 1e-9)
	assert.InDelta(t, 28.45/30.0, result.AdjustmentFactor, 1e-9)
}
