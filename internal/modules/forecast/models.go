// Package forecast assembles the day-by-day forecast for the current month,
// recalibrated against realized volume, weekday seasonality, holiday impact
// and the regime-blended monthly outlook.
package forecast

import (
	"github.com/dvergaray/pulso/internal/modules/regime"
)

// Thresholds are the tunable constants of the comparison builder. The trend
// and uncertainty constants are configurable rather than hardcoded because the
// calibrated values are ad hoc and likely to be retuned.
type Thresholds struct {
	// BaseUncertaintyRate seeds the cone of uncertainty (fraction per
	// sqrt-day from today).
	BaseUncertaintyRate float64
	// MaxUncertainty caps the per-day uncertainty fraction.
	MaxUncertainty float64
	// TrendMarginPct - minimum variance-point shift across the last three
	// closed days before the trend reads improving/declining.
	TrendMarginPct float64
	// DefaultAOV is used when the AOV lookup is unavailable.
	DefaultAOV float64
}

// DefaultThresholds returns the calibrated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BaseUncertaintyRate: 0.15,
		MaxUncertainty:      0.60,
		TrendMarginPct:      2.0,
		DefaultAOV:          45.0,
	}
}

// ThresholdSource supplies the thresholds for a computation. The service
// re-reads it on every computation, so stored overrides take effect without
// a restart.
type ThresholdSource interface {
	ForecastThresholds() Thresholds
}

// StaticThresholds adapts a fixed Thresholds value into a ThresholdSource.
type StaticThresholds Thresholds

// ForecastThresholds returns the wrapped value.
func (s StaticThresholds) ForecastThresholds() Thresholds { return Thresholds(s) }

// MonthlyOutlook is the monthly target view: either the regime-blended
// ensemble (realtime mode) or the prior-years projection (early-month mode).
type MonthlyOutlook struct {
	IsEarlyMonth      bool                         `json:"is_early_month"`
	DaysUntilRealtime int                          `json:"days_until_realtime"`
	Ensemble          *regime.EnsembleResult       `json:"ensemble,omitempty"`
	EarlyMonth        *regime.EarlyMonthProjection `json:"early_month,omitempty"`
}
