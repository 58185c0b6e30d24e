// Package actuals persists realized daily volume and historical monthly
// aggregates. The read side always returns a dense month: one record per
// calendar day, zero-filled where no transactions were recorded.
package actuals

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvergaray/pulso/internal/database"
	"github.com/dvergaray/pulso/internal/domain"
)

const dayKeyLayout = "2006-01-02"

// Repository handles daily actuals and monthly totals persistence.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a new actuals repository.
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "actuals").Logger(),
	}
}

// GetDailyActuals returns one record per calendar day of the given month,
// in ascending date order. Days without a stored row come back zero-filled.
func (r *Repository) GetDailyActuals(year int, month time.Month) ([]domain.DailyActual, error) {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)
	daysInMonth := lastOfMonth.Day()

	rows, err := r.db.Query(`
		SELECT date, day_of_month, services, gmv
		FROM daily_actuals
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`, firstOfMonth.Format(dayKeyLayout), lastOfMonth.Format(dayKeyLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily actuals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byDay := make(map[int]domain.DailyActual, daysInMonth)
	for rows.Next() {
		var dateStr string
		var a domain.DailyActual
		if err := rows.Scan(&dateStr, &a.DayOfMonth, &a.Services, &a.GMV); err != nil {
			return nil, fmt.Errorf("failed to scan daily actual row: %w", err)
		}
		date, err := time.Parse(dayKeyLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid daily actual date %q: %w", dateStr, err)
		}
		a.Date = date
		byDay[a.DayOfMonth] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily actual row iteration failed: %w", err)
	}

	// Dense output: zero-fill the days with no stored row.
	actuals := make([]domain.DailyActual, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		if a, ok := byDay[day]; ok {
			actuals = append(actuals, a)
			continue
		}
		actuals = append(actuals, domain.DailyActual{
			Date:       firstOfMonth.AddDate(0, 0, day-1),
			DayOfMonth: day,
		})
	}

	return actuals, nil
}

// UpsertDailyActual inserts or replaces the realized volume for one day.
func (r *Repository) UpsertDailyActual(a domain.DailyActual) error {
	_, err := r.db.Exec(`
		INSERT INTO daily_actuals (date, day_of_month, services, gmv, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(date) DO UPDATE SET
			day_of_month = excluded.day_of_month,
			services = excluded.services,
			gmv = excluded.gmv,
			updated_at = excluded.updated_at
	`, a.Date.Format(dayKeyLayout), a.Date.Day(), a.Services, a.GMV)
	if err != nil {
		return fmt.Errorf("failed to upsert daily actual %s: %w", a.Date.Format(dayKeyLayout), err)
	}
	return nil
}

// FillMissingDays writes explicit zero rows for every day of the month up to
// and including throughDay that has no stored row. Closed days become
// immutable facts rather than gaps.
func (r *Repository) FillMissingDays(year int, month time.Month, throughDay int) (int, error) {
	if throughDay < 1 {
		return 0, nil
	}

	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := firstOfMonth.AddDate(0, 1, -1).Day()
	if throughDay > daysInMonth {
		throughDay = daysInMonth
	}

	filled := 0
	for day := 1; day <= throughDay; day++ {
		date := firstOfMonth.AddDate(0, 0, day-1)
		result, err := r.db.Exec(`
			INSERT INTO daily_actuals (date, day_of_month, services, gmv, updated_at)
			VALUES (?, ?, 0, 0, datetime('now'))
			ON CONFLICT(date) DO NOTHING
		`, date.Format(dayKeyLayout), day)
		if err != nil {
			return filled, fmt.Errorf("failed to zero-fill day %s: %w", date.Format(dayKeyLayout), err)
		}
		if n, err := result.RowsAffected(); err == nil && n > 0 {
			filled++
		}
	}

	if filled > 0 {
		r.log.Info().
			Int("year", year).
			Int("month", int(month)).
			Int("filled", filled).
			Msg("Zero-filled missing daily actuals")
	}
	return filled, nil
}

// GetHistoricalMonthlyTotals returns all stored monthly aggregates, oldest
// first.
func (r *Repository) GetHistoricalMonthlyTotals() ([]domain.MonthlyTotal, error) {
	rows, err := r.db.Query(`
		SELECT year, month, services, gmv
		FROM monthly_totals
		ORDER BY year ASC, month ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals []domain.MonthlyTotal
	for rows.Next() {
		var t domain.MonthlyTotal
		if err := rows.Scan(&t.Year, &t.Month, &t.Services, &t.GMV); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("monthly total row iteration failed: %w", err)
	}

	return totals, nil
}

// MonthTotalOf reduces a month of daily actuals into its aggregate.
func MonthTotalOf(year int, month time.Month, days []domain.DailyActual) domain.MonthlyTotal {
	total := domain.MonthlyTotal{Year: year, Month: int(month)}
	for _, d := range days {
		total.Services += d.Services
		total.GMV += d.GMV
	}
	return total
}

// RollUpMonth aggregates a completed month's daily actuals into the monthly
// totals table and returns the stored aggregate. The read and the write run
// in a single transaction so a concurrent zero-fill cannot produce a partial
// rollup.
func (r *Repository) RollUpMonth(year int, month time.Month) (domain.MonthlyTotal, error) {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	var total domain.MonthlyTotal
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		rows, err := tx.Query(`
			SELECT day_of_month, services, gmv
			FROM daily_actuals
			WHERE date >= ? AND date <= ?
		`, firstOfMonth.Format(dayKeyLayout), lastOfMonth.Format(dayKeyLayout))
		if err != nil {
			return fmt.Errorf("failed to query daily actuals for rollup: %w", err)
		}
		defer func() { _ = rows.Close() }()

		var days []domain.DailyActual
		for rows.Next() {
			var a domain.DailyActual
			if err := rows.Scan(&a.DayOfMonth, &a.Services, &a.GMV); err != nil {
				return fmt.Errorf("failed to scan daily actual row: %w", err)
			}
			days = append(days, a)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("daily actual row iteration failed: %w", err)
		}

		total = MonthTotalOf(year, month, days)
		if _, err := tx.Exec(`
			INSERT INTO monthly_totals (year, month, services, gmv)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(year, month) DO UPDATE SET
				services = excluded.services,
				gmv = excluded.gmv
		`, total.Year, total.Month, total.Services, total.GMV); err != nil {
			return fmt.Errorf("failed to upsert monthly total %d-%02d: %w", total.Year, total.Month, err)
		}
		return nil
	})
	if err != nil {
		return domain.MonthlyTotal{}, err
	}
	return total, nil
}

// UpsertMonthlyTotal inserts or replaces one month's aggregate.
func (r *Repository) UpsertMonthlyTotal(t domain.MonthlyTotal) error {
	_, err := r.db.Exec(`
		INSERT INTO monthly_totals (year, month, services, gmv)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(year, month) DO UPDATE SET
			services = excluded.services,
			gmv = excluded.gmv
	`, t.Year, t.Month, t.Services, t.GMV)
	if err != nil {
		return fmt.Errorf("failed to upsert monthly total %d-%02d: %w", t.Year, t.Month, err)
	}
	return nil
}
