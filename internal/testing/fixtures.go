package testing

import (
	"time"

	"github.com/dvergaray/pulso/internal/domain"
)

// NewDailyActualFixtures returns a full month of realized volume for the
// given month, with a uniform daily count through closedDays and zero-filled
// days after that.
func NewDailyActualFixtures(year int, month time.Month, closedDays, services int, aov float64) []domain.DailyActual {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := firstOfMonth.AddDate(0, 1, -1).Day()

	actuals := make([]domain.DailyActual, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		count := 0
		if day <= closedDays {
			count = services
		}
		actuals = append(actuals, domain.DailyActual{
			Date:       firstOfMonth.AddDate(0, 0, day-1),
			DayOfMonth: day,
			Services:   count,
			GMV:        float64(count) * aov,
		})
	}
	return actuals
}

// NewMonthlyTotalFixtures returns months consecutive monthly aggregates
// ending at (endYear, endMonth), all carrying the same volume.
func NewMonthlyTotalFixtures(endYear int, endMonth time.Month, months, services int, aov float64) []domain.MonthlyTotal {
	totals := make([]domain.MonthlyTotal, 0, months)
	cursor := time.Date(endYear, endMonth, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		totals = append(totals, domain.MonthlyTotal{
			Year:     cursor.Year(),
			Month:    int(cursor.Month()),
			Services: services,
			GMV:      float64(services) * aov,
		})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return totals
}

// NewHolidayFixtures returns the recurring Peruvian calendar for one year
// with typical observed impact factors.
func NewHolidayFixtures(year int) []domain.Holiday {
	return []domain.Holiday{
		{Date: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), Name: "Año Nuevo", BaseFactor: 0.30},
		{Date: time.Date(year, time.July, 28, 0, 0, 0, 0, time.UTC), Name: "Día de la Independencia", BaseFactor: 0.45},
		{Date: time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC), Name: "Navidad", BaseFactor: 0.25},
	}
}
