package model

import "github.com/tobyward/pace/internal/dates"

// DefaultDailyGoal is the daily XP target applied to fresh state.
const DefaultDailyGoal = 50

// LessonStrength tracks memory strength for one lesson, keyed in
// GamificationState.LessonStrength by "moduleId.lessonId".
//
// LastReviewed is the only durable fact that matters for decay: the stored
// Strength is the value as of LastReviewed, and readers always derive the
// current value with gamify.DecayedStrength.
type LessonStrength struct {
	Strength     int        `json:"strength"`
	LastReviewed dates.Date `json:"last_reviewed"`
}

// XpPopup is a pending UI notification for an XP award. The UI consumes and
// clears it; it is persisted only so a restart mid-interaction does not lose
// the popup.
type XpPopup struct {
	Amount int    `json:"amount"`
	Label  string `json:"label"`
}

// GamificationState is the per-learner gamification snapshot: streak, XP,
// level, milestones, freezes, and per-lesson memory strength.
//
// INVARIANT: Level == TotalXP/100 + 1 after every mutation. The gamify
// package recomputes it at the single AddXP write point.
//
// DailyXP is only meaningful while DailyXPDate is today; readers and writers
// roll it over lazily rather than relying on a midnight job.
type GamificationState struct {
	StreakCount   int             `json:"streak_count"`
	LongestStreak int             `json:"longest_streak"`
	LastStudyDate dates.Date      `json:"last_study_date"`
	StudyDates    map[dates.Date]bool `json:"study_dates"`

	TotalXP     int        `json:"total_xp"`
	DailyXP     int        `json:"daily_xp"`
	DailyXPDate dates.Date `json:"daily_xp_date"`
	DailyGoal   int        `json:"daily_goal"`
	Level       int        `json:"level"`

	MilestonesAchieved     map[string]bool `json:"milestones_achieved"`
	StreakFreezesAvailable int             `json:"streak_freezes_available"`
	StreakFrozen           bool            `json:"streak_frozen"`

	LessonStrength map[string]LessonStrength `json:"lesson_strength"`

	PendingMilestone string   `json:"pending_milestone,omitempty"`
	PendingXpPopup   *XpPopup `json:"pending_xp_popup,omitempty"`
}

// NewGamificationState returns fresh state at level 1 with the default
// daily goal.
func NewGamificationState() *GamificationState {
	return &GamificationState{
		StudyDates:         make(map[dates.Date]bool),
		MilestonesAchieved: make(map[string]bool),
		LessonStrength:     make(map[string]LessonStrength),
		DailyGoal:          DefaultDailyGoal,
		Level:              1,
	}
}

// Normalize repairs nil maps and zero-value fields after JSON decoding of
// snapshots written by older builds. Decoded state always passes through
// here before use.
func (gs *GamificationState) Normalize() {
	if gs.StudyDates == nil {
		gs.StudyDates = make(map[dates.Date]bool)
	}
	if gs.MilestonesAchieved == nil {
		gs.MilestonesAchieved = make(map[string]bool)
	}
	if gs.LessonStrength == nil {
		gs.LessonStrength = make(map[string]LessonStrength)
	}
	if gs.DailyGoal <= 0 {
		gs.DailyGoal = DefaultDailyGoal
	}
	if gs.Level < 1 {
		gs.Level = gs.TotalXP/100 + 1
	}
}

// StrengthKey builds the LessonStrength map key for a lesson.
func StrengthKey(moduleID, lessonID string) string {
	return moduleID + "." + lessonID
}

// SplitStrengthKey reverses StrengthKey. Module ids never contain ".", so
// the first dot is the separator.
func SplitStrengthKey(key string) (moduleID, lessonID string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i], key[i+1:], i > 0 && i < len(key)-1
		}
	}
	return "", "", false
}
