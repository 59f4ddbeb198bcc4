package gamify

import (
	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/model"
)

// DecayPerDay is the strength lost per calendar day since the last review.
const DecayPerDay = 5

// FullStrength is the strength value set by a review.
const FullStrength = 100

// DecayedStrength derives the current memory strength from the last review
// date: max(0, 100 - days*5). An absent review date means the lesson was
// never reviewed and has no strength.
//
// Strength is ALWAYS derived at read time; the stored value is only the
// strength as of LastReviewed. Persisting decayed values would make the
// snapshot depend on when it happened to be written.
func DecayedStrength(lastReviewed, today dates.Date) int {
	if lastReviewed.IsZero() {
		return 0
	}
	strength := FullStrength - dates.DaysBetween(lastReviewed, today)*DecayPerDay
	if strength < 0 {
		return 0
	}
	return strength
}

// RefreshLessonStrength resets a lesson to full strength as of today.
func RefreshLessonStrength(gs *model.GamificationState, moduleID, lessonID string, today dates.Date) {
	gs.LessonStrength[model.StrengthKey(moduleID, lessonID)] = model.LessonStrength{
		Strength:     FullStrength,
		LastReviewed: today,
	}
}

// CurrentStrengths derives today's strength for every tracked lesson,
// keyed by "moduleId.lessonId".
func CurrentStrengths(gs *model.GamificationState, today dates.Date) map[string]int {
	out := make(map[string]int, len(gs.LessonStrength))
	for key, ls := range gs.LessonStrength {
		out[key] = DecayedStrength(ls.LastReviewed, today)
	}
	return out
}
