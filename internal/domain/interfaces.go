package domain

import "time"

// ActualsSource supplies realized daily volume for a target month.
// Implementations must return one record per calendar day 1..daysInMonth,
// zero-filled for days without transactions.
type ActualsSource interface {
	GetDailyActuals(year int, month time.Month) ([]DailyActual, error)
}

// HistorySource supplies historical monthly aggregates, oldest first.
type HistorySource interface {
	GetHistoricalMonthlyTotals() ([]MonthlyTotal, error)
}

// HolidaySource supplies holidays whose date falls inside [start, end].
type HolidaySource interface {
	GetInRange(start, end time.Time) ([]Holiday, error)
}

// AOVSource supplies the current average order value used to mirror
// count-based forecasts into GMV terms.
type AOVSource interface {
	CurrentAOV() (float64, error)
}
