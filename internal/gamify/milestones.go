package gamify

import (
	"github.com/tobyward/pace/internal/catalog"
	"github.com/tobyward/pace/internal/model"
	"github.com/tobyward/pace/internal/progress"
)

// Milestone is a static catalog entry for a one-time-achievable progress
// event. Achievement membership lives in GamificationState.MilestonesAchieved.
type Milestone struct {
	ID      string
	Title   string
	Message string
}

// Milestones is the static milestone catalog, in detection order. Streak
// milestones appear here for title/message lookup but are marked achieved
// by RecordStudySession, which also pays their XP bonus.
var Milestones = []Milestone{
	{ID: "first_lesson", Title: "First Steps", Message: "You completed your first lesson."},
	{ID: "first_module", Title: "Module Master", Message: "You completed your first module."},
	{ID: "streak_3", Title: "Three in a Row", Message: "A 3-day study streak."},
	{ID: "streak_7", Title: "Week Warrior", Message: "A full week of daily study."},
	{ID: "streak_30", Title: "Unstoppable", Message: "Thirty days straight."},
	{ID: "level_5", Title: "Rising Star", Message: "You reached level 5."},
	{ID: "halfway", Title: "Halfway There", Message: "Half of all lessons complete."},
	{ID: "all_modules", Title: "Course Conqueror", Message: "Every module complete."},
	{ID: "exam_passed", Title: "Graduate", Message: "You passed the final exam."},
}

// MilestoneByID looks up a catalog entry.
func MilestoneByID(id string) (Milestone, bool) {
	for _, m := range Milestones {
		if m.ID == id {
			return m, true
		}
	}
	return Milestone{}, false
}

// CheckMilestones scans current progress and gamification state against the
// milestone catalog and marks every newly satisfied milestone achieved. The
// first newly achieved id becomes the pending milestone for the UI.
//
// Idempotent: a second call with the same inputs changes nothing and
// triggers nothing.
func CheckMilestones(ps *model.ProgressState, gs *model.GamificationState, cat *catalog.Catalog) {
	triggered := ""
	for _, m := range Milestones {
		if gs.MilestonesAchieved[m.ID] {
			continue
		}
		if !milestoneSatisfied(m.ID, ps, gs, cat) {
			continue
		}
		gs.MilestonesAchieved[m.ID] = true
		if triggered == "" {
			triggered = m.ID
		}
	}
	if triggered != "" {
		gs.PendingMilestone = triggered
	}
}

// milestoneSatisfied evaluates one milestone condition. Streak tiers are
// owned by RecordStudySession and never trigger here.
func milestoneSatisfied(id string, ps *model.ProgressState, gs *model.GamificationState, cat *catalog.Catalog) bool {
	switch id {
	case "first_lesson":
		for _, mp := range ps.Modules {
			if mp.LessonsCompleted() > 0 {
				return true
			}
		}
		return false
	case "first_module":
		for _, mp := range ps.Modules {
			if progress.IsModuleComplete(mp) {
				return true
			}
		}
		return false
	case "level_5":
		return gs.Level >= 5
	case "halfway":
		return progress.OverallCompletionPercentage(ps, cat) >= 50
	case "all_modules":
		return progress.AllModulesComplete(ps, cat)
	case "exam_passed":
		return ps.FinalExam.Passed != nil && *ps.FinalExam.Passed
	default:
		return false
	}
}
