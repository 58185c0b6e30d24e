// Package handlers provides HTTP handlers for forecast operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvergaray/pulso/internal/domain"
	"github.com/dvergaray/pulso/internal/modules/forecast"
	"github.com/dvergaray/pulso/internal/modules/variance"
)

const dateLayout = "2006-01-02"

// Handler handles forecast HTTP requests
type Handler struct {
	service *forecast.Service
	log     zerolog.Logger
}

// NewHandler creates a new forecast handler
func NewHandler(service *forecast.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "forecast").Logger(),
	}
}

// referenceDate reads the optional ?date=YYYY-MM-DD override; the default is
// the current day.
func referenceDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse(dateLayout, raw)
}

// HandleGetDays handles GET /api/forecast/days
func (h *Handler) HandleGetDays(w http.ResponseWriter, r *http.Request) {
	date, err := referenceDate(r)
	if err != nil {
		http.Error(w, "date must be formatted as YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	days, err := h.service.ComputeDayComparisons(date)
	if err != nil {
		h.writeDomainError(w, err, "Failed to compute day comparisons")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"days":  days,
			"count": len(days),
		},
		"metadata": map[string]interface{}{
			"reference_date": date.Format(dateLayout),
			"timestamp":      time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetSummary handles GET /api/forecast/summary
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	date, err := referenceDate(r)
	if err != nil {
		http.Error(w, "date must be formatted as YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	days, err := h.service.ComputeDayComparisons(date)
	if err != nil {
		h.writeDomainError(w, err, "Failed to compute day comparisons")
		return
	}

	summary, err := h.service.ComputeMonthSummary(days)
	if err != nil {
		h.writeDomainError(w, err, "Failed to compute month summary")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"summary": summary,
		},
		"metadata": map[string]interface{}{
			"reference_date": date.Format(dateLayout),
			"timestamp":      time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetAdjustment handles GET /api/forecast/adjustment
func (h *Handler) HandleGetAdjustment(w http.ResponseWriter, r *http.Request) {
	date, err := referenceDate(r)
	if err != nil {
		http.Error(w, "date must be formatted as YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	days, err := h.service.ComputeDayComparisons(date)
	if err != nil {
		h.writeDomainError(w, err, "Failed to compute day comparisons")
		return
	}

	observations := make([]variance.DayObservation, 0, len(days))
	for _, day := range days {
		observations = append(observations, variance.DayObservation{
			DayOfMonth:  day.DayOfMonth,
			Forecast:    day.Forecast,
			Actual:      day.Actual,
			VariancePct: day.VariancePct,
		})
	}

	result := h.service.ComputeDynamicAdjustment(observations, date.Day())

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"adjustment": result,
		},
		"metadata": map[string]interface{}{
			"reference_date": date.Format(dateLayout),
			"timestamp":      time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetOutlook handles GET /api/forecast/outlook
func (h *Handler) HandleGetOutlook(w http.ResponseWriter, r *http.Request) {
	date, err := referenceDate(r)
	if err != nil {
		http.Error(w, "date must be formatted as YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	outlook, err := h.service.ComputeMonthlyOutlook(date)
	if err != nil {
		h.writeDomainError(w, err, "Failed to compute monthly outlook")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"outlook": outlook,
		},
		"metadata": map[string]interface{}{
			"reference_date": date.Format(dateLayout),
			"timestamp":      time.Now().Format(time.RFC3339),
		},
	})
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error, msg string) {
	h.log.Error().Err(err).Msg(msg)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientData):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
	}

	http.Error(w, err.Error(), status)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
