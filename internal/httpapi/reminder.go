package httpapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/remote"
)

// StreakReminder runs a daily scan for learners whose streak breaks unless
// they study today, and logs a reminder line per learner. Delivery to a
// real notification channel is outside this system; the log line is the
// integration point.
type StreakReminder struct {
	store     *remote.SQLStore
	clock     dates.Clock
	scheduler *gocron.Scheduler
}

// NewStreakReminder builds the reminder around the serve-mode store.
func NewStreakReminder(store *remote.SQLStore, clock dates.Clock) *StreakReminder {
	return &StreakReminder{
		store:     store,
		clock:     clock,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start schedules the daily scan and returns immediately.
func (r *StreakReminder) Start(at string) error {
	if _, err := r.scheduler.Every(1).Day().At(at).Do(r.Scan); err != nil {
		return err
	}
	r.scheduler.StartAsync()
	return nil
}

// Stop halts the scheduler.
func (r *StreakReminder) Stop() {
	r.scheduler.Stop()
}

// Scan logs a reminder for every learner with a live streak whose last
// active day is before today.
func (r *StreakReminder) Scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	streaks, err := r.store.ListStreaks(ctx)
	if err != nil {
		slog.Error("streak reminder scan failed", "error", err)
		return
	}

	today := dates.Today(r.clock)
	atRisk := 0
	for _, row := range streaks {
		if row.CurrentStreak == 0 || row.LastActiveDate.IsZero() {
			continue
		}
		if dates.DaysBetween(row.LastActiveDate, today) >= 1 {
			atRisk++
			slog.Info("streak at risk",
				"learner", row.LearnerID,
				"streak", row.CurrentStreak,
				"last_active", row.LastActiveDate.String(),
			)
		}
	}
	slog.Info("streak reminder scan complete", "learners", len(streaks), "at_risk", atRisk)
}
