package forecast

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvergaray/pulso/internal/domain"
	"github.com/dvergaray/pulso/internal/modules/holidays"
	"github.com/dvergaray/pulso/internal/modules/regime"
	"github.com/dvergaray/pulso/internal/modules/seasonality"
	"github.com/dvergaray/pulso/internal/modules/variance"
)

// Service joins the boundary data sources and runs the pure forecast pipeline
// over immutable input snapshots: fetch once, compute once, pass the structs
// downward. All computation after the fetch is synchronous and deterministic.
type Service struct {
	actuals     domain.ActualsSource
	history     domain.HistorySource
	aov         domain.AOVSource
	holidayCalc *holidays.Calculator
	table       *seasonality.Table
	corrections *variance.Calculator
	blender     *regime.Blender
	earlyMonth  *regime.EarlyMonthProjector
	thresholds  ThresholdSource
	log         zerolog.Logger
}

// NewService wires the forecast pipeline.
func NewService(
	actuals domain.ActualsSource,
	history domain.HistorySource,
	aov domain.AOVSource,
	holidayCalc *holidays.Calculator,
	table *seasonality.Table,
	corrections *variance.Calculator,
	blender *regime.Blender,
	earlyMonth *regime.EarlyMonthProjector,
	thresholds ThresholdSource,
	log zerolog.Logger,
) *Service {
	return &Service{
		actuals:     actuals,
		history:     history,
		aov:         aov,
		holidayCalc: holidayCalc,
		table:       table,
		corrections: corrections,
		blender:     blender,
		earlyMonth:  earlyMonth,
		thresholds:  thresholds,
		log:         log.With().Str("component", "forecast_service").Logger(),
	}
}

// monthInputs is the immutable input snapshot the pipeline computes over.
// Thresholds are snapshotted alongside the data so one computation sees one
// consistent set of tunables.
type monthInputs struct {
	actuals       []domain.DailyActual
	holidayImpact *holidays.Result
	aov           float64
	thresholds    Thresholds
}

// fetchMonthInputs issues the independent boundary lookups in parallel and
// joins the results. Holiday and AOV failures degrade; missing actuals are
// fatal.
func (s *Service) fetchMonthInputs(currentDate time.Time) (*monthInputs, error) {
	year, month := currentDate.Year(), currentDate.Month()
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, currentDate.Location())
	daysInMonth := firstOfMonth.AddDate(0, 1, -1).Day()

	inputs := &monthInputs{thresholds: s.thresholds.ForecastThresholds()}
	var actualsErr error

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		inputs.actuals, actualsErr = s.actuals.GetDailyActuals(year, month)
	}()

	go func() {
		defer wg.Done()
		// PeriodImpact degrades internally and never returns a lookup error;
		// only an invalid-argument error can surface, and daysInMonth is
		// always positive here.
		impact, err := s.holidayCalc.PeriodImpact(firstOfMonth, daysInMonth)
		if err != nil {
			s.log.Error().Err(err).Msg("Holiday impact computation failed, using neutral factors")
			impact = &holidays.Result{AdjustmentFactor: 1.0, TotalDays: daysInMonth}
		}
		inputs.holidayImpact = impact
	}()

	go func() {
		defer wg.Done()
		aov, err := s.aov.CurrentAOV()
		if err != nil || aov <= 0 {
			s.log.Warn().Err(err).
				Float64("default_aov", inputs.thresholds.DefaultAOV).
				Msg("AOV lookup unavailable, using configured default")
			aov = inputs.thresholds.DefaultAOV
		}
		inputs.aov = aov
	}()

	wg.Wait()

	if actualsErr != nil {
		return nil, fmt.Errorf("%w: daily actuals lookup failed: %v", domain.ErrUpstreamUnavailable, actualsErr)
	}
	if len(inputs.actuals) == 0 {
		return nil, fmt.Errorf("%w: no daily actuals for %d-%02d", domain.ErrInsufficientData, year, int(month))
	}

	return inputs, nil
}

// ComputeDayComparisons produces one DayComparison per calendar day of the
// month containing currentDate, in ascending date order.
func (s *Service) ComputeDayComparisons(currentDate time.Time) ([]domain.DayComparison, error) {
	inputs, err := s.fetchMonthInputs(currentDate)
	if err != nil {
		return nil, err
	}
	return s.buildDayComparisons(currentDate, inputs)
}

// ComputeDynamicAdjustment exposes the variance correction directly.
func (s *Service) ComputeDynamicAdjustment(observations []variance.DayObservation, currentDay int) *variance.Result {
	return s.corrections.Compute(observations, currentDay)
}

// ComputeRegimeEnsemble exposes the regime-blended monthly prediction.
func (s *Service) ComputeRegimeEnsemble(historical []domain.MonthlyTotal, intramonthProjection float64, now time.Time) (*regime.EnsembleResult, error) {
	return s.blender.Blend(historical, intramonthProjection, now)
}

// ComputeMonthlyOutlook computes the monthly target view for the month
// containing currentDate. With two or fewer days of intra-month data it
// switches to the prior-years early-month projection; otherwise it blends the
// intra-month linear pace through the regime ensemble.
func (s *Service) ComputeMonthlyOutlook(currentDate time.Time) (*MonthlyOutlook, error) {
	historical, err := s.history.GetHistoricalMonthlyTotals()
	if err != nil {
		return nil, fmt.Errorf("%w: historical totals lookup failed: %v", domain.ErrUpstreamUnavailable, err)
	}

	day := currentDate.Day()
	outlook := &MonthlyOutlook{
		IsEarlyMonth:      regime.IsEarlyMonth(day),
		DaysUntilRealtime: regime.DaysUntilRealtime(day),
	}

	if outlook.IsEarlyMonth {
		projection, err := s.earlyMonth.Project(historical, currentDate)
		if err != nil {
			return nil, err
		}
		outlook.EarlyMonth = projection
		return outlook, nil
	}

	actualsList, err := s.actuals.GetDailyActuals(currentDate.Year(), currentDate.Month())
	if err != nil {
		return nil, fmt.Errorf("%w: daily actuals lookup failed: %v", domain.ErrUpstreamUnavailable, err)
	}

	currentTotal := 0.0
	for _, a := range actualsList {
		if a.DayOfMonth <= day {
			currentTotal += float64(a.Services)
		}
	}

	daysInMonth := time.Date(currentDate.Year(), currentDate.Month(), 1, 0, 0, 0, 0, currentDate.Location()).
		AddDate(0, 1, -1).Day()
	progress := float64(day) / float64(daysInMonth)
	intramonthProjection := currentTotal / progress

	ensemble, err := s.blender.Blend(historical, intramonthProjection, currentDate)
	if err != nil {
		return nil, err
	}
	outlook.Ensemble = ensemble
	return outlook, nil
}
