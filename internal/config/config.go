// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/dvergaray/pulso/internal/modules/settings"
)

// Config holds application configuration
type Config struct {
	DataDir    string // Base directory for the forecast database (always absolute)
	Port       int
	LogLevel   string
	DevMode    bool
	DefaultAOV float64 // Fallback average order value when none is stored
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Data directory: PULSO_DATA_DIR or ./data, always resolved to an
	// absolute path that is created if missing.
	dataDir := getEnv("PULSO_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:    absDataDir,
		Port:       getEnvAsInt("PULSO_PORT", 8002),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DevMode:    getEnvAsBool("DEV_MODE", false),
		DefaultAOV: getEnvAsFloat("PULSO_DEFAULT_AOV", 45.0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UpdateFromSettings updates configuration from the settings database.
// This should be called after the database is initialized; stored values
// take precedence over environment variables.
func (c *Config) UpdateFromSettings(settingsRepo *settings.Repository) error {
	aov, err := settingsRepo.GetFloat(settings.KeyCurrentAOV, 0)
	if err != nil {
		return fmt.Errorf("failed to get %s from settings: %w", settings.KeyCurrentAOV, err)
	}
	if aov > 0 {
		c.DefaultAOV = aov
	}
	// Unset or non-positive keeps the env default as fallback.

	return nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DefaultAOV <= 0 {
		return fmt.Errorf("default AOV must be positive, got %f", c.DefaultAOV)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
