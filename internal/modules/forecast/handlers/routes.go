package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all forecast routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/forecast", func(r chi.Router) {
		r.Get("/days", h.HandleGetDays)
		r.Get("/summary", h.HandleGetSummary)
		r.Get("/adjustment", h.HandleGetAdjustment)
		r.Get("/outlook", h.HandleGetOutlook)
	})
}
