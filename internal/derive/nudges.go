package derive

import (
	"fmt"
	"time"

	"github.com/tobyward/pace/internal/catalog"
	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/gamify"
	"github.com/tobyward/pace/internal/model"
	"github.com/tobyward/pace/internal/progress"
)

// Severity grades how urgently a nudge should be surfaced.
type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityWarn Severity = "warn"
)

// Nudge is a derived prompt for the learner. Nudges are recomputed per
// render and never stored.
type Nudge struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// weakStrengthThreshold is the decayed strength below which a lesson counts
// as needing review.
const weakStrengthThreshold = 40

// Nudges derives the current prompt list from a snapshot. Order is fixed:
// warnings first, then informational prompts.
func Nudges(ps *model.ProgressState, gs *model.GamificationState, cat *catalog.Catalog, now time.Time) []Nudge {
	today := dates.DateOf(now)
	var out []Nudge

	if gamify.StreakAtRisk(gs, today) {
		out = append(out, Nudge{
			ID:       "streak_at_risk",
			Message:  fmt.Sprintf("Study today to keep your %d-day streak alive.", gs.StreakCount),
			Severity: SeverityWarn,
		})
	}

	weak := 0
	for _, strength := range gamify.CurrentStrengths(gs, today) {
		if strength < weakStrengthThreshold {
			weak++
		}
	}
	if weak > 0 {
		out = append(out, Nudge{
			ID:       "review_due",
			Message:  fmt.Sprintf("%d lesson(s) are fading from memory. Time for a review.", weak),
			Severity: SeverityWarn,
		})
	}

	for _, mod := range cat.Modules {
		mp := ps.Lookup(mod.ID)
		if mp.GQA.FailedAt != nil && progress.CanResit(mp, now) {
			out = append(out, Nudge{
				ID:       "resit_ready",
				Message:  fmt.Sprintf("You can retake the %s assessment now.", mod.Title),
				Severity: SeverityInfo,
			})
			break
		}
	}

	if remaining := gs.DailyGoal - gamify.DailyXP(gs, today); remaining > 0 {
		out = append(out, Nudge{
			ID:       "daily_goal",
			Message:  fmt.Sprintf("%d XP to go until today's goal.", remaining),
			Severity: SeverityInfo,
		})
	}

	return out
}
