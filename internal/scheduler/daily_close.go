package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvergaray/pulso/internal/modules/actuals"
)

// DailyCloseJob closes out yesterday after midnight: days with no recorded
// transactions become explicit zero rows, and when a month has just ended its
// daily record is rolled up into the monthly totals. Closed days are facts;
// the forecast pipeline must never see a gap where a zero belongs.
type DailyCloseJob struct {
	repo *actuals.Repository
	now  func() time.Time
	log  zerolog.Logger
}

// NewDailyCloseJob creates the daily close job. The now function is
// injectable for tests and defaults to time.Now when nil.
func NewDailyCloseJob(repo *actuals.Repository, now func() time.Time, log zerolog.Logger) *DailyCloseJob {
	if now == nil {
		now = time.Now
	}
	return &DailyCloseJob{
		repo: repo,
		now:  now,
		log:  log.With().Str("job", "daily_close").Logger(),
	}
}

// Name returns the job name
func (j *DailyCloseJob) Name() string {
	return "daily_close"
}

// Run performs the close for yesterday.
func (j *DailyCloseJob) Run() error {
	yesterday := j.now().AddDate(0, 0, -1)

	filled, err := j.repo.FillMissingDays(yesterday.Year(), yesterday.Month(), yesterday.Day())
	if err != nil {
		return fmt.Errorf("daily close zero-fill failed: %w", err)
	}

	j.log.Info().
		Str("closed_date", yesterday.Format("2006-01-02")).
		Int("zero_filled", filled).
		Msg("Daily close completed")

	// Month boundary: yesterday was the last day of its month, so the month
	// is complete and can be rolled up.
	if yesterday.Month() != j.now().Month() {
		if err := j.rollUpMonth(yesterday.Year(), yesterday.Month()); err != nil {
			return fmt.Errorf("monthly rollup failed: %w", err)
		}
	}

	return nil
}

// rollUpMonth aggregates a completed month's daily actuals into the monthly
// totals table. The repository performs the read and the write atomically.
func (j *DailyCloseJob) rollUpMonth(year int, month time.Month) error {
	total, err := j.repo.RollUpMonth(year, month)
	if err != nil {
		return err
	}

	j.log.Info().
		Int("year", year).
		Int("month", int(month)).
		Int("services", total.Services).
		Float64("gmv", total.GMV).
		Msg("Rolled up monthly total")

	return nil
}
