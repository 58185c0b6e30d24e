// Package settings provides repository implementations for managing
// application settings. Settings are key-value pairs stored in the forecast
// database (settings table) and take precedence over environment defaults,
// which allows runtime configuration changes without restarting.
package settings

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dvergaray/pulso/internal/database"
)

// Repository handles settings database operations. Settings are stored as
// strings and converted to appropriate types when retrieved; the repository
// provides type-safe getters and setters for convenience.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a new settings repository.
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "settings").Logger(),
	}
}

// Get retrieves a setting value by key.
// Returns nil if the setting doesn't exist (not an error).
func (r *Repository) Get(key string) (*string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return &value, nil
}

// Set sets a setting value, inserting or updating in a single operation.
func (r *Repository) Set(key string, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetAll retrieves all settings as a map.
func (r *Repository) GetAll() (map[string]string, error) {
	rows, err := r.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to get all settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			r.log.Warn().Err(err).Msg("Failed to scan setting row")
			continue
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings: %w", err)
	}

	return result, nil
}

// GetFloat retrieves a setting value as float64.
// Returns defaultValue if the setting doesn't exist or parsing fails;
// parsing errors are logged but not returned.
func (r *Repository) GetFloat(key string, defaultValue float64) (float64, error) {
	value, err := r.Get(key)
	if err != nil {
		return defaultValue, err
	}
	if value == nil {
		return defaultValue, nil
	}

	floatVal, err := strconv.ParseFloat(*value, 64)
	if err != nil {
		r.log.Warn().
			Err(err).
			Str("key", key).
			Str("value", *value).
			Msg("Failed to parse float setting")
		return defaultValue, nil
	}

	return floatVal, nil
}

// SetFloat sets a setting value as float64.
func (r *Repository) SetFloat(key string, value float64) error {
	return r.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// GetInt retrieves a setting value as integer.
// Returns defaultValue if the setting doesn't exist or parsing fails.
// Parses via float first to handle "12.0" strings from the database.
func (r *Repository) GetInt(key string, defaultValue int) (int, error) {
	value, err := r.Get(key)
	if err != nil {
		return defaultValue, err
	}
	if value == nil {
		return defaultValue, nil
	}

	floatVal, err := strconv.ParseFloat(*value, 64)
	if err != nil {
		r.log.Warn().
			Err(err).
			Str("key", key).
			Str("value", *value).
			Msg("Failed to parse int setting")
		return defaultValue, nil
	}

	return int(floatVal), nil
}

// SetInt sets a setting value as integer.
func (r *Repository) SetInt(key string, value int) error {
	return r.Set(key, strconv.Itoa(value))
}
