// Package derive computes presentation values from a snapshot of progress
// and gamification state: badges, nudges, and the motivational line.
//
// Everything here is pure and O(number of modules); callers recompute on
// every state change rather than caching.
package derive

import (
	"github.com/tobyward/pace/internal/catalog"
	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/gamify"
	"github.com/tobyward/pace/internal/model"
	"github.com/tobyward/pace/internal/progress"
)

// Badge is a derived achievement flag. Badges are never persisted; earned
// status is recomputed from state on each call.
type Badge struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Earned bool   `json:"earned"`
}

// Badges evaluates the full badge set against a snapshot.
func Badges(ps *model.ProgressState, gs *model.GamificationState, cat *catalog.Catalog, today dates.Date) []Badge {
	anyLesson := false
	anyModule := false
	perfectPractice := false
	for _, mp := range ps.Modules {
		if mp.LessonsCompleted() > 0 {
			anyLesson = true
		}
		if progress.IsModuleComplete(mp) {
			anyModule = true
		}
		if mp.Practice.BestScore == 100 {
			perfectPractice = true
		}
	}

	return []Badge{
		{ID: "first_steps", Title: "First Steps", Earned: anyLesson},
		{ID: "module_master", Title: "Module Master", Earned: anyModule},
		{ID: "dedicated", Title: "Dedicated", Earned: gs.LongestStreak >= 3},
		{ID: "week_warrior", Title: "Week Warrior", Earned: gs.LongestStreak >= 7},
		{ID: "sharpshooter", Title: "Sharpshooter", Earned: perfectPractice},
		{ID: "goal_getter", Title: "Goal Getter", Earned: gamify.DailyXP(gs, today) >= gs.DailyGoal},
		{ID: "scholar", Title: "Scholar", Earned: progress.OverallCompletionPercentage(ps, cat) >= 50},
		{ID: "graduate", Title: "Graduate", Earned: ps.FinalExam.Passed != nil && *ps.FinalExam.Passed},
	}
}
