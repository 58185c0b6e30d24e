// Package seasonality provides the static per-weekday demand multipliers.
// The factors are calibrated constants learned from history: the ratio of each
// weekday's average daily volume to the month's average daily pace. They are
// not recomputed at runtime.
package seasonality

import (
	"fmt"

	"github.com/dvergaray/pulso/internal/domain"
)

// Calibrated weekday factors. Sunday carries roughly 41% of an average day,
// Thursday peaks at 129%.
const (
	sundayFactor    = 0.41
	mondayFactor    = 1.05
	tuesdayFactor   = 1.10
	wednesdayFactor = 1.12
	thursdayFactor  = 1.29
	fridayFactor    = 1.18
	saturdayFactor  = 0.85
)

// Table maps weekday index (0 = Sunday, matching time.Weekday) to a positive
// demand multiplier.
type Table struct {
	factors [7]float64
}

// DefaultTable returns the calibrated weekday seasonality table.
func DefaultTable() *Table {
	return &Table{factors: [7]float64{
		sundayFactor,
		mondayFactor,
		tuesdayFactor,
		wednesdayFactor,
		thursdayFactor,
		fridayFactor,
		saturdayFactor,
	}}
}

// NewTable builds a table from explicit factors. All factors must be positive.
func NewTable(factors [7]float64) (*Table, error) {
	for i, f := range factors {
		if f <= 0 {
			return nil, fmt.Errorf("%w: weekday factor %d must be positive, got %f", domain.ErrInvalidArgument, i, f)
		}
	}
	return &Table{factors: factors}, nil
}

// FactorFor returns the multiplier for a weekday index in 0..6.
// An out-of-range index is a caller bug.
func (t *Table) FactorFor(weekday int) (float64, error) {
	if weekday < 0 || weekday > 6 {
		return 0, fmt.Errorf("%w: weekday index %d outside 0-6", domain.ErrInvalidArgument, weekday)
	}
	return t.factors[weekday], nil
}
