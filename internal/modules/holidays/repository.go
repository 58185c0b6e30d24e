package holidays

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvergaray/pulso/internal/database"
	"github.com/dvergaray/pulso/internal/domain"
)

// Repository handles holiday persistence. Holidays are stored in the forecast
// database (holidays table) with dates as ISO YYYY-MM-DD strings.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a new holiday repository.
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "holidays").Logger(),
	}
}

// GetInRange returns all active holidays with date inside [start, end],
// ordered by date ascending.
func (r *Repository) GetInRange(start, end time.Time) ([]domain.Holiday, error) {
	rows, err := r.db.Query(`
		SELECT date, name, base_factor, observed_impact_pct
		FROM holidays
		WHERE active = 1 AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, start.Format(dayKeyLayout), end.Format(dayKeyLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var holidays []domain.Holiday
	for rows.Next() {
		var dateStr string
		var h domain.Holiday
		if err := rows.Scan(&dateStr, &h.Name, &h.BaseFactor, &h.ObservedImpactPct); err != nil {
			return nil, fmt.Errorf("failed to scan holiday row: %w", err)
		}
		date, err := time.Parse(dayKeyLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", dateStr, err)
		}
		h.Date = date
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("holiday row iteration failed: %w", err)
	}

	return holidays, nil
}

// Upsert inserts or replaces a holiday by date.
func (r *Repository) Upsert(h domain.Holiday) error {
	_, err := r.db.Exec(`
		INSERT INTO holidays (date, name, base_factor, observed_impact_pct, active)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(date) DO UPDATE SET
			name = excluded.name,
			base_factor = excluded.base_factor,
			observed_impact_pct = excluded.observed_impact_pct,
			active = excluded.active
	`, h.Date.Format(dayKeyLayout), h.Name, h.BaseFactor, h.ObservedImpactPct)
	if err != nil {
		return fmt.Errorf("failed to upsert holiday %s: %w", h.Name, err)
	}
	return nil
}
