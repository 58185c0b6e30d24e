// Package main is the entry point for the Pulso adaptive daily forecast and
// variance-correction engine. The service recalibrates the current month's
// day-by-day forecast against realized volume, weekday seasonality, holiday
// impact and the historical demand regime, and serves the results over HTTP.
//
// The application follows clean architecture principles:
// - Domain layer is pure (no infrastructure dependencies)
// - Repository pattern for data access
// - Service layer for business logic
// - HTTP handlers for API endpoints
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dvergaray/pulso/internal/config"
	"github.com/dvergaray/pulso/internal/database"
	"github.com/dvergaray/pulso/internal/modules/actuals"
	"github.com/dvergaray/pulso/internal/modules/forecast"
	forecasthandlers "github.com/dvergaray/pulso/internal/modules/forecast/handlers"
	"github.com/dvergaray/pulso/internal/modules/holidays"
	"github.com/dvergaray/pulso/internal/modules/regime"
	"github.com/dvergaray/pulso/internal/modules/seasonality"
	"github.com/dvergaray/pulso/internal/modules/settings"
	"github.com/dvergaray/pulso/internal/modules/variance"
	"github.com/dvergaray/pulso/internal/scheduler"
	"github.com/dvergaray/pulso/internal/server"
	"github.com/dvergaray/pulso/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Pulso")

	// Forecast database: daily actuals, monthly totals, holidays, settings.
	forecastDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "forecast.db"),
		Profile: database.ProfileStandard,
		Name:    "forecast",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open forecast database")
	}
	defer func() { _ = forecastDB.Close() }()

	if err := forecastDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate forecast database")
	}
	log.Info().Str("path", forecastDB.Path()).Msg("Forecast database ready")

	// Repositories
	actualsRepo := actuals.NewRepository(forecastDB, log)
	holidayRepo := holidays.NewRepository(forecastDB, log)
	settingsRepo := settings.NewRepository(forecastDB, log)

	// Stored settings take precedence over environment defaults.
	if err := cfg.UpdateFromSettings(settingsRepo); err != nil {
		log.Warn().Err(err).Msg("Failed to read settings overrides, using environment defaults")
	}

	// Services
	settingsService := settings.NewService(settingsRepo, cfg.DefaultAOV, log)
	forecastService := forecast.NewService(
		actualsRepo,
		actualsRepo,
		settingsService,
		holidays.NewCalculator(holidayRepo, log),
		seasonality.DefaultTable(),
		variance.NewCalculator(log),
		regime.NewBlender(regime.NewClassifier(log), log),
		regime.NewEarlyMonthProjector(log),
		settingsService,
		log,
	)

	// Background jobs: close out yesterday shortly after midnight.
	jobs := scheduler.New(log)
	dailyClose := scheduler.NewDailyCloseJob(actualsRepo, nil, log)
	if err := jobs.AddJob("5 0 * * *", dailyClose); err != nil {
		log.Fatal().Err(err).Msg("Failed to register daily close job")
	}
	jobs.Start()

	// Catch up on any days missed while the service was down.
	if err := jobs.RunNow(dailyClose); err != nil {
		log.Error().Err(err).Msg("Startup daily close failed")
	}

	srv := server.New(server.Config{
		Log:              log,
		ForecastDB:       forecastDB,
		ForecastHandlers: forecasthandlers.NewHandler(forecastService, log),
		Port:             cfg.Port,
		DevMode:          cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	jobs.Stop()

	// In-flight requests get up to 10 seconds to finish.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
