package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvergaray/pulso/internal/domain"
	"github.com/dvergaray/pulso/internal/modules/forecast"
	"github.com/dvergaray/pulso/internal/modules/holidays"
	"github.com/dvergaray/pulso/internal/modules/regime"
	"github.com/dvergaray/pulso/internal/modules/seasonality"
	"github.com/dvergaray/pulso/internal/modules/variance"
)

type stubActuals struct{ list []domain.DailyActual }

func (s *stubActuals) GetDailyActuals(year int, month time.Month) ([]domain.DailyActual, error) {
	return s.list, nil
}

type stubHistory struct{ totals []domain.MonthlyTotal }

func (s *stubHistory) GetHistoricalMonthlyTotals() ([]domain.MonthlyTotal, error) {
	return s.totals, nil
}

type stubAOV struct{}

func (s *stubAOV) CurrentAOV() (float64, error) { return 45, nil }

type stubHolidays struct{}

func (s *stubHolidays) GetInRange(start, end time.Time) ([]domain.Holiday, error) {
	return nil, nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)

	var actuals []domain.DailyActual
	for day := 1; day <= 31; day++ {
		count := 0
		if day <= 10 {
			count = 100
		}
		actuals = append(actuals, domain.DailyActual{
			Date:       time.Date(2025, time.December, day, 0, 0, 0, 0, time.UTC),
			DayOfMonth: day,
			Services:   count,
			GMV:        float64(count) * 45,
		})
	}

	var totals []domain.MonthlyTotal
	for year := 2022; year <= 2025; year++ {
		for month := 1; month <= 12; month++ {
			if year == 2025 && month > 11 {
				break
			}
			totals = append(totals, domain.MonthlyTotal{Year: year, Month: month, Services: 3000, GMV: 135000})
		}
	}

	service := forecast.NewService(
		&stubActuals{list: actuals},
		&stubHistory{totals: totals},
		&stubAOV{},
		holidays.NewCalculator(&stubHolidays{}, log),
		seasonality.DefaultTable(),
		variance.NewCalculator(log),
		regime.NewBlender(regime.NewClassifier(log), log),
		regime.NewEarlyMonthProjector(log),
		forecast.StaticThresholds(forecast.DefaultThresholds()),
		log,
	)
	return NewHandler(service, log)
}

func serve(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	h.RegisterRoutes(router)

	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleGetDays(t *testing.T) {
	handler := newTestHandler(t)

	w := serve(t, handler, "/forecast/days?date=2025-12-11")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Contains(t, response, "data")
	data := response["data"].(map[string]interface{})
	assert.EqualValues(t, 31, data["count"])
}

func TestHandleGetSummary(t *testing.T) {
	handler := newTestHandler(t)

	w := serve(t, handler, "/forecast/summary?date=2025-12-11")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	assert.EqualValues(t, 10, summary["days_closed"])
}

func TestHandleGetAdjustment(t *testing.T) {
	handler := newTestHandler(t)

	w := serve(t, handler, "/forecast/adjustment?date=2025-12-11")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	adjustment := data["adjustment"].(map[string]interface{})
	assert.Contains(t, adjustment, "correction_factor")
}

func TestHandleGetOutlook(t *testing.T) {
	handler := newTestHandler(t)

	w := serve(t, handler, "/forecast/outlook?date=2025-12-11")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	outlook := data["outlook"].(map[string]interface{})
	assert.Equal(t, false, outlook["is_early_month"])
}

func TestHandleGetDaysRejectsBadDate(t *testing.T) {
	handler := newTestHandler(t)

	w := serve(t, handler, "/forecast/days?date=december-11")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
