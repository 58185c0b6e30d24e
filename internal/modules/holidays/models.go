// Package holidays computes the demand impact of calendar holidays, extending
// each holiday's effect to adjacent days with per-holiday decay factors.
package holidays

import (
	"time"

	"github.com/dvergaray/pulso/internal/domain"
)

// Position tags an extended-impact day relative to its holiday.
type Position string

const (
	// PositionBefore - the day precedes the holiday (ramp-down).
	PositionBefore Position = "before"
	// PositionAfter - the day follows the holiday (recovery).
	PositionAfter Position = "after"
)

// ExtendedImpactDay is a derived entity: a non-holiday date that carries a
// decayed fraction of a nearby holiday's impact. Generated only for dates that
// are not themselves holidays and not already claimed by another holiday.
type ExtendedImpactDay struct {
	Date        time.Time `json:"date"`
	HolidayName string    `json:"holiday_name"`
	Factor      float64   `json:"factor"`
	Position    Position  `json:"position"`
}

// Result is the outcome of a period impact computation.
// AdjustmentFactor is 1.0 when the period has no holiday effect at all.
type Result struct {
	AdjustmentFactor float64             `json:"adjustment_factor"`
	TotalDays        int                 `json:"total_days"`
	EffectiveDays    float64             `json:"effective_days"`
	Holidays         []domain.Holiday    `json:"holidays"`
	ExtendedDays     []ExtendedImpactDay `json:"extended_days"`
	Explanation      string              `json:"explanation"`
	Warning          string              `json:"warning,omitempty"`

	dayFactors map[string]float64
}

const dayKeyLayout = "2006-01-02"

// DayFactor returns the operation factor for a single date: the holiday's own
// base factor on the holiday itself, the decayed factor on an extended-impact
// day, 1.0 otherwise.
func (r *Result) DayFactor(date time.Time) float64 {
	if r.dayFactors == nil {
		return 1.0
	}
	if f, ok := r.dayFactors[date.Format(dayKeyLayout)]; ok {
		return f
	}
	return 1.0
}
