package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyward/pace/internal/dates"
)

func TestProgressState_Module_CreatesOnFirstTouch(t *testing.T) {
	ps := NewProgressState()

	mp := ps.Module("foundations")
	require.NotNil(t, mp)
	require.NotNil(t, mp.Lessons)

	// Second touch returns the same record.
	mp.Lessons["intro"] = LessonProgress{Completed: true}
	assert.Equal(t, 1, ps.Module("foundations").LessonsCompleted())
}

func TestProgressState_Lookup_DoesNotCreateModule(t *testing.T) {
	ps := NewProgressState()

	mp := ps.Lookup("foundations")
	require.NotNil(t, mp)
	assert.False(t, mp.Lessons["intro"].Completed)
	assert.Empty(t, ps.Modules, "reads never grow the snapshot")

	ps.Module("foundations")
	assert.Len(t, ps.Modules, 1)
	assert.Same(t, ps.Modules["foundations"], ps.Lookup("foundations"))
}

func TestProgressState_IsEmpty(t *testing.T) {
	ps := NewProgressState()
	assert.True(t, ps.IsEmpty())

	// Merely touching a module does not make the state non-empty.
	ps.Module("foundations")
	assert.True(t, ps.IsEmpty())

	ps.Module("foundations").Lessons["intro"] = LessonProgress{Completed: true}
	assert.False(t, ps.IsEmpty())
}

func TestProgressState_IsEmpty_AttemptsCount(t *testing.T) {
	ps := NewProgressState()
	ps.Module("foundations").Practice.Attempts = 1
	assert.False(t, ps.IsEmpty())
}

func TestProgressState_IsEmpty_FinalExam(t *testing.T) {
	ps := NewProgressState()
	passed := false
	ps.FinalExam.Passed = &passed
	assert.False(t, ps.IsEmpty(), "a failed exam attempt is still recorded progress")
}

func TestDecodeProgress_RoundTrip(t *testing.T) {
	ps := NewProgressState()
	ps.Module("foundations").Lessons["intro"] = LessonProgress{Completed: true}
	passed := true
	score := 85
	failedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	mp := ps.Module("building-blocks")
	mp.Practice = PracticeProgress{BestScore: 90, Attempts: 3}
	mp.GQA = GQAResult{Passed: &passed, Score: &score, FailedAt: &failedAt}

	data, err := EncodeProgress(ps)
	require.NoError(t, err)

	got, err := DecodeProgress(data)
	require.NoError(t, err)
	assert.Equal(t, ps, got)
}

func TestDecodeProgress_RepairsNilMaps(t *testing.T) {
	got, err := DecodeProgress([]byte(`{"modules":{"foundations":{}}}`))
	require.NoError(t, err)
	require.NotNil(t, got.Modules)
	require.NotNil(t, got.Module("foundations").Lessons)
}

func TestDecodeGamification_Normalizes(t *testing.T) {
	got, err := DecodeGamification([]byte(`{"total_xp":250}`))
	require.NoError(t, err)
	assert.Equal(t, 3, got.Level, "level derived from XP when absent")
	assert.Equal(t, DefaultDailyGoal, got.DailyGoal)
	require.NotNil(t, got.StudyDates)
	require.NotNil(t, got.MilestonesAchieved)
	require.NotNil(t, got.LessonStrength)
}

func TestDecodeGamification_RoundTrip(t *testing.T) {
	gs := NewGamificationState()
	gs.TotalXP = 120
	gs.Level = 2
	gs.StreakCount = 4
	gs.LastStudyDate = dates.MustParse("2026-03-14")
	gs.StudyDates[dates.MustParse("2026-03-14")] = true
	gs.MilestonesAchieved["first_lesson"] = true
	gs.LessonStrength[StrengthKey("foundations", "intro")] = LessonStrength{
		Strength:     100,
		LastReviewed: dates.MustParse("2026-03-14"),
	}
	gs.PendingXpPopup = &XpPopup{Amount: 10, Label: "Practice complete"}

	data, err := EncodeGamification(gs)
	require.NoError(t, err)

	got, err := DecodeGamification(data)
	require.NoError(t, err)
	assert.Equal(t, gs, got)
}

func TestStrengthKey_Split(t *testing.T) {
	key := StrengthKey("foundations", "intro")
	assert.Equal(t, "foundations.intro", key)

	mod, lesson, ok := SplitStrengthKey(key)
	require.True(t, ok)
	assert.Equal(t, "foundations", mod)
	assert.Equal(t, "intro", lesson)
}

func TestSplitStrengthKey_LessonWithDots(t *testing.T) {
	mod, lesson, ok := SplitStrengthKey("mastery.topic.deep-dive")
	require.True(t, ok)
	assert.Equal(t, "mastery", mod)
	assert.Equal(t, "topic.deep-dive", lesson)
}

func TestSplitStrengthKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "nodots", ".leading", "trailing."} {
		_, _, ok := SplitStrengthKey(key)
		assert.False(t, ok, "key %q should not split", key)
	}
}
