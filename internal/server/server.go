// Package server provides the HTTP server and routing for Pulso.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/dvergaray/pulso/internal/database"
	forecasthandlers "github.com/dvergaray/pulso/internal/modules/forecast/handlers"
)

// Config holds server configuration
type Config struct {
	Log              zerolog.Logger
	ForecastDB       *database.DB
	ForecastHandlers *forecasthandlers.Handler
	Port             int
	DevMode          bool
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	server     *http.Server
	log        zerolog.Logger
	forecastDB *database.DB
	port       int
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		log:        cfg.Log.With().Str("component", "server").Logger(),
		forecastDB: cfg.ForecastDB,
		port:       cfg.Port,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes(cfg.ForecastHandlers)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(forecastHandlers *forecasthandlers.Handler) {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		forecastHandlers.RegisterRoutes(r)
	})
}

// handleHealth reports service and database liveness. The default check is a
// cheap ping; ?deep=true runs the full sqlite integrity check as well.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	check := func(ctx context.Context) error { return nil }
	timeout := 2 * time.Second
	if s.forecastDB != nil {
		check = s.forecastDB.QuickCheck
		if r.URL.Query().Get("deep") == "true" {
			check = s.forecastDB.HealthCheck
			timeout = 30 * time.Second
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	if err := check(ctx); err != nil {
		s.log.Error().Err(err).Msg("Database health check failed")
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the chi router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
