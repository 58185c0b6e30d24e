// Package domain contains the core data model shared across the forecast engine.
// The domain layer is pure: no infrastructure dependencies, no I/O.
package domain

import "time"

// DailyActual is the realized transactional volume for one calendar day of the
// current month. Days without transactions are zero-filled, not omitted, so the
// engine always receives one record per calendar day. Immutable once the day
// has closed.
type DailyActual struct {
	Date       time.Time `json:"date"`
	DayOfMonth int       `json:"day_of_month"`
	Services   int       `json:"services"`
	GMV        float64   `json:"gmv"`
}

// MonthlyTotal is one month of historical aggregate volume.
type MonthlyTotal struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Services int     `json:"services"`
	GMV      float64 `json:"gmv"`
}

// Holiday is a calendar holiday with its observed demand impact.
// BaseFactor is the fraction of a normal day's volume the holiday carries,
// in (0, 1].
type Holiday struct {
	Date              time.Time `json:"date"`
	Name              string    `json:"name"`
	BaseFactor        float64   `json:"base_factor"`
	ObservedImpactPct float64   `json:"observed_impact_pct"`
}

// DayComparison is the central per-day record: forecast vs actual with
// uncertainty bands, correction, probability and running cumulatives.
// Records for past days are immutable; "past" and "today" are derived from the
// reference date at computation time, never stored.
type DayComparison struct {
	Date       time.Time `json:"date"`
	DayOfMonth int       `json:"day_of_month"`
	Weekday    string    `json:"weekday"`
	IsPast     bool      `json:"is_past"`
	IsToday    bool      `json:"is_today"`

	Forecast         float64  `json:"forecast"`
	ForecastLower    float64  `json:"forecast_lower"`
	ForecastUpper    float64  `json:"forecast_upper"`
	AdjustedForecast float64  `json:"adjusted_forecast"`
	Actual           *float64 `json:"actual"`

	Variance    *float64 `json:"variance"`
	VariancePct *float64 `json:"variance_pct"`

	UncertaintyPct     float64 `json:"uncertainty_pct"`
	ProbabilityToReach float64 `json:"probability_to_reach"`

	CumulativeForecast      float64  `json:"cumulative_forecast"`
	CumulativeForecastLower float64  `json:"cumulative_forecast_lower"`
	CumulativeForecastUpper float64  `json:"cumulative_forecast_upper"`
	CumulativeAdjusted      float64  `json:"cumulative_adjusted"`
	CumulativeActual        *float64 `json:"cumulative_actual"`

	ForecastGMV           float64  `json:"forecast_gmv"`
	ForecastGMVLower      float64  `json:"forecast_gmv_lower"`
	ForecastGMVUpper      float64  `json:"forecast_gmv_upper"`
	AdjustedForecastGMV   float64  `json:"adjusted_forecast_gmv"`
	ActualGMV             *float64 `json:"actual_gmv"`
	CumulativeForecastGMV float64  `json:"cumulative_forecast_gmv"`
	CumulativeAdjustedGMV float64  `json:"cumulative_adjusted_gmv"`
	CumulativeActualGMV   *float64 `json:"cumulative_actual_gmv"`
}

// TrendDirection describes where the last few closed days' variance is heading.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// MonthSummary is the month-level reduction of the DayComparison sequence.
// It is stateless and recomputed from the full sequence on every read.
type MonthSummary struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	DaysClosed       int `json:"days_closed"`
	DaysMetForecast  int `json:"days_met_forecast"`
	DaysMissForecast int `json:"days_miss_forecast"`

	Trend TrendDirection `json:"trend"`

	OriginalForecast float64 `json:"original_forecast"`
	AdjustedForecast float64 `json:"adjusted_forecast"`
	ActualToDate     float64 `json:"actual_to_date"`

	OriginalForecastGMV float64 `json:"original_forecast_gmv"`
	AdjustedForecastGMV float64 `json:"adjusted_forecast_gmv"`
	ActualToDateGMV     float64 `json:"actual_to_date_gmv"`

	TargetReachProbability float64 `json:"target_reach_probability"`

	Warnings []string `json:"warnings,omitempty"`
}
