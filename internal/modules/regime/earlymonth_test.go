package regime

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvergaray/pulso/internal/domain"
)

func TestIsEarlyMonth_Switch(t *testing.T) {
	assert.True(t, IsEarlyMonth(1))
	assert.True(t, IsEarlyMonth(2))
	assert.False(t, IsEarlyMonth(3))
	assert.False(t, IsEarlyMonth(15))
}

func TestDaysUntilRealtime(t *testing.T) {
	assert.Equal(t, 2, DaysUntilRealtime(1))
	assert.Equal(t, 1, DaysUntilRealtime(2))
	assert.Equal(t, 0, DaysUntilRealtime(3))
	assert.Equal(t, 0, DaysUntilRealtime(28))
}

func TestProject_NoPriorYearsIsInsufficient(t *testing.T) {
	projector := NewEarlyMonthProjector(zerolog.Nop())

	// History covers only the current year, so no prior-year June exists.
	history := monthsOf(2025, time.January, []int{100, 100, 100, 100, 100})
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	_, err := projector.Project(history, now)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestProject_ThreePriorYearsWithSignalsIsHighConfidence(t *testing.T) {
	projector := NewEarlyMonthProjector(zerolog.Nop())

	// 41 months: Jan 2022 .. May 2025, growing ~2 per month. Gives three
	// prior Junes, 24+ closed months for YoY growth and a momentum pair.
	values := make([]int, 41)
	for i := range values {
		values[i] = 100 + 2*i
	}
	history := monthsOf(2022, time.January, values)
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	projection, err := projector.Project(history, now)
	require.NoError(t, err)

	assert.True(t, projection.Active)
	assert.Equal(t, 2, projection.DaysUntilRealtime)
	assert.Equal(t, 3, projection.PriorYearsUsed)
	assert.Equal(t, ConfidenceHigh, projection.Confidence)
	assert.Greater(t, projection.GrowthFactor, 1.0, "series grows year over year")
	assert.Greater(t, projection.Projection, 0.0)
}

func TestProject_DeactivatesAfterDayTwo(t *testing.T) {
	projector := NewEarlyMonthProjector(zerolog.Nop())

	values := make([]int, 41)
	for i := range values {
		values[i] = 100
	}
	history := monthsOf(2022, time.January, values)
	now := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)

	projection, err := projector.Project(history, now)
	require.NoError(t, err)

	assert.False(t, projection.Active)
	assert.Equal(t, 0, projection.DaysUntilRealtime)
}

func TestProject_MomentumTiltsProjection(t *testing.T) {
	projector := NewEarlyMonthProjector(zerolog.Nop())

	// Flat history except a strong prior month: momentum should lift the
	// projection above the prior-year base.
	values := make([]int, 41)
	for i := range values {
		values[i] = 100
	}
	values[40] = 150 // May 2025, the month immediately before now
	history := monthsOf(2022, time.January, values)
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	projection, err := projector.Project(history, now)
	require.NoError(t, err)

	// Base is 100 (prior Junes); momentum 1 + 0.30*0.5 = 1.15.
	assert.InDelta(t, 1.15, projection.MomentumFactor, 1e-9)
	assert.Greater(t, projection.Projection, 100.0)
}
