package gamify

import (
	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/model"
)

// XPPerLevel is the XP span of one level: level = totalXp/100 + 1.
const XPPerLevel = 100

// DailyGoalMilestoneID is the pending-milestone id set when the daily XP
// goal is first crossed on a given day.
const DailyGoalMilestoneID = "daily_goal"

// AddXP awards XP and recomputes every value derived from it.
//
// This is the ONLY code path that mutates TotalXP, which is what keeps the
// cached Level consistent with it. Daily XP rolls over lazily: a stale
// DailyXPDate is reset to today before the award is applied.
func AddXP(gs *model.GamificationState, amount int, label string, today dates.Date) {
	if amount <= 0 {
		return
	}

	if !gs.DailyXPDate.Equal(today) {
		gs.DailyXP = 0
		gs.DailyXPDate = today
	}

	metGoalBefore := gs.DailyXP >= gs.DailyGoal

	gs.TotalXP += amount
	gs.DailyXP += amount
	gs.Level = gs.TotalXP/XPPerLevel + 1
	gs.PendingXpPopup = &model.XpPopup{Amount: amount, Label: label}

	if !metGoalBefore && gs.DailyXP >= gs.DailyGoal {
		gs.PendingMilestone = DailyGoalMilestoneID
	}
}

// DailyXP reads today's XP with lazy rollover: on a stale day the stored
// counter is conceptually zero, without mutating state.
func DailyXP(gs *model.GamificationState, today dates.Date) int {
	if !gs.DailyXPDate.Equal(today) {
		return 0
	}
	return gs.DailyXP
}

// ConsumeXpPopup returns and clears the pending XP popup, if any. The UI
// calls this once per render of the award animation.
func ConsumeXpPopup(gs *model.GamificationState) (model.XpPopup, bool) {
	if gs.PendingXpPopup == nil {
		return model.XpPopup{}, false
	}
	popup := *gs.PendingXpPopup
	gs.PendingXpPopup = nil
	return popup, true
}

// ConsumePendingMilestone returns and clears the pending milestone id.
func ConsumePendingMilestone(gs *model.GamificationState) (string, bool) {
	if gs.PendingMilestone == "" {
		return "", false
	}
	id := gs.PendingMilestone
	gs.PendingMilestone = ""
	return id, true
}
