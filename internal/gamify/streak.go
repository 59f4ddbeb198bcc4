// Package gamify implements the gamification engine: streak state machine,
// XP and leveling, memory decay, and milestone detection.
//
// Every function here is a pure computation over GamificationState and a
// calendar day. Nothing in this package performs I/O or can fail; the syncer
// persists state after calling in.
package gamify

import (
	"fmt"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/model"
)

// Streak bonus tiers, awarded exactly once each when the streak first
// reaches the tier. The tier id doubles as the milestone id.
var streakBonuses = []struct {
	Days  int
	ID    string
	Bonus int
}{
	{3, "streak_3", 15},
	{7, "streak_7", 50},
	{30, "streak_30", 200},
}

// freezeEarnedKey marks that the one-time streak freeze (earned at the
// first streak of 3) has been granted.
const freezeEarnedKey = "streak_freeze_earned"

// RecordStudySession advances the streak state machine for today. Called
// once per app-foreground event; repeated calls on the same day are no-ops.
//
// Transitions on the gap since the last study day:
//
//	absent      -> streak = 1
//	gap == 1    -> streak + 1
//	gap == 2    -> streak preserved if a freeze is available and the
//	               streak is not already frozen from a prior gap
//	otherwise   -> streak resets to 1
//
// Returns true when state changed.
func RecordStudySession(gs *model.GamificationState, today dates.Date) bool {
	if gs.LastStudyDate.Equal(today) {
		return false
	}

	switch {
	case gs.LastStudyDate.IsZero():
		gs.StreakCount = 1
		gs.StreakFrozen = false
	default:
		gap := dates.DaysBetween(gs.LastStudyDate, today)
		switch {
		case gap == 1:
			gs.StreakCount++
			gs.StreakFrozen = false
		case gap == 2 && gs.StreakFreezesAvailable > 0 && !gs.StreakFrozen:
			gs.StreakFreezesAvailable--
			gs.StreakFrozen = true
		default:
			gs.StreakCount = 1
			gs.StreakFrozen = false
		}
	}

	gs.LastStudyDate = today
	gs.StudyDates[today] = true
	if gs.StreakCount > gs.LongestStreak {
		gs.LongestStreak = gs.StreakCount
	}

	// One-time freeze grant the first time the streak reaches 3.
	if gs.StreakCount >= 3 && !gs.MilestonesAchieved[freezeEarnedKey] {
		gs.MilestonesAchieved[freezeEarnedKey] = true
		gs.StreakFreezesAvailable++
	}

	// Streak milestone bonuses, once per tier id.
	for _, tier := range streakBonuses {
		if gs.StreakCount >= tier.Days && !gs.MilestonesAchieved[tier.ID] {
			gs.MilestonesAchieved[tier.ID] = true
			AddXP(gs, tier.Bonus, fmt.Sprintf("%d-day streak", tier.Days), today)
			if gs.PendingMilestone == "" {
				gs.PendingMilestone = tier.ID
			}
		}
	}

	return true
}

// StreakAtRisk reports whether the streak will break unless the learner
// studies today: there is a live streak and the last study day was
// yesterday or earlier.
func StreakAtRisk(gs *model.GamificationState, today dates.Date) bool {
	if gs.StreakCount == 0 || gs.LastStudyDate.IsZero() {
		return false
	}
	return dates.DaysBetween(gs.LastStudyDate, today) >= 1
}
