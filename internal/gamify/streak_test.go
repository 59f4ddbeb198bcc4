package gamify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/model"
)

func TestRecordStudySession_FirstEver(t *testing.T) {
	gs := model.NewGamificationState()
	today := dates.MustParse("2026-03-14")

	changed := RecordStudySession(gs, today)
	require.True(t, changed)
	assert.Equal(t, 1, gs.StreakCount)
	assert.Equal(t, 1, gs.LongestStreak)
	assert.True(t, gs.LastStudyDate.Equal(today))
	assert.True(t, gs.StudyDates[today])
}

func TestRecordStudySession_SameDayNoOp(t *testing.T) {
	gs := model.NewGamificationState()
	today := dates.MustParse("2026-03-14")

	RecordStudySession(gs, today)
	changed := RecordStudySession(gs, today)
	assert.False(t, changed)
	assert.Equal(t, 1, gs.StreakCount)
}

func TestRecordStudySession_ConsecutiveDays(t *testing.T) {
	gs := model.NewGamificationState()
	day := dates.MustParse("2026-03-14")

	RecordStudySession(gs, day)
	RecordStudySession(gs, day.AddDays(1))
	assert.Equal(t, 2, gs.StreakCount)
	assert.Equal(t, 2, gs.LongestStreak)
}

func TestRecordStudySession_GapResets(t *testing.T) {
	gs := model.NewGamificationState()
	day := dates.MustParse("2026-03-14")

	RecordStudySession(gs, day)
	RecordStudySession(gs, day.AddDays(1))
	RecordStudySession(gs, day.AddDays(4)) // 3-day gap with no freeze

	assert.Equal(t, 1, gs.StreakCount)
	assert.Equal(t, 2, gs.LongestStreak, "longest streak survives the reset")
}

func TestRecordStudySession_FreezeEarnedAtThree(t *testing.T) {
	gs := model.NewGamificationState()
	day := dates.MustParse("2026-03-14")

	for i := 0; i < 3; i++ {
		RecordStudySession(gs, day.AddDays(i))
	}
	assert.Equal(t, 3, gs.StreakCount)
	assert.Equal(t, 1, gs.StreakFreezesAvailable)

	// The grant is once per lifetime, not once per streak of 3.
	RecordStudySession(gs, day.AddDays(10)) // reset
	RecordStudySession(gs, day.AddDays(11))
	RecordStudySession(gs, day.AddDays(12)) // streak 3 again
	assert.Equal(t, 1, gs.StreakFreezesAvailable)
}

func TestRecordStudySession_FreezePreservesTwoDayGap(t *testing.T) {
	gs := model.NewGamificationState()
	day := dates.MustParse("2026-03-14")

	for i := 0; i < 3; i++ {
		RecordStudySession(gs, day.AddDays(i))
	}
	require.Equal(t, 1, gs.StreakFreezesAvailable)

	// Miss one day: gap of 2 consumes the freeze, streak survives.
	RecordStudySession(gs, day.AddDays(4))
	assert.Equal(t, 3, gs.StreakCount)
	assert.Equal(t, 0, gs.StreakFreezesAvailable)
	assert.True(t, gs.StreakFrozen)

	// Next consecutive day resumes the count and thaws the streak.
	RecordStudySession(gs, day.AddDays(5))
	assert.Equal(t, 4, gs.StreakCount)
	assert.False(t, gs.StreakFrozen)
}

func TestRecordStudySession_NoFreezeTwoDayGapResets(t *testing.T) {
	gs := model.NewGamificationState()
	day := dates.MustParse("2026-03-14")

	RecordStudySession(gs, day)
	RecordStudySession(gs, day.AddDays(1))
	require.Equal(t, 0, gs.StreakFreezesAvailable)

	RecordStudySession(gs, day.AddDays(3))
	assert.Equal(t, 1, gs.StreakCount)
}

func TestRecordStudySession_FrozenStreakCannotFreezeAgain(t *testing.T) {
	gs := model.NewGamificationState()
	gs.StreakCount = 5
	gs.LongestStreak = 5
	gs.LastStudyDate = dates.MustParse("2026-03-14")
	gs.StreakFreezesAvailable = 2
	gs.StreakFrozen = true

	// Already frozen from a prior gap: another 2-day gap resets even with
	// freezes in hand.
	RecordStudySession(gs, dates.MustParse("2026-03-16"))
	assert.Equal(t, 1, gs.StreakCount)
	assert.Equal(t, 2, gs.StreakFreezesAvailable)
	assert.False(t, gs.StreakFrozen)
}

func TestRecordStudySession_TierBonuses(t *testing.T) {
	gs := model.NewGamificationState()
	day := dates.MustParse("2026-03-01")

	for i := 0; i < 7; i++ {
		RecordStudySession(gs, day.AddDays(i))
	}

	// 15 at day 3, 50 at day 7, each exactly once.
	assert.Equal(t, 65, gs.TotalXP)
	assert.True(t, gs.MilestonesAchieved["streak_3"])
	assert.True(t, gs.MilestonesAchieved["streak_7"])
	assert.False(t, gs.MilestonesAchieved["streak_30"])
}

func TestRecordStudySession_TierBonusOnce(t *testing.T) {
	gs := model.NewGamificationState()
	day := dates.MustParse("2026-03-01")

	for i := 0; i < 3; i++ {
		RecordStudySession(gs, day.AddDays(i))
	}
	require.Equal(t, 15, gs.TotalXP)

	// Break and rebuild the streak to 3: no second bonus.
	RecordStudySession(gs, day.AddDays(10))
	RecordStudySession(gs, day.AddDays(11))
	RecordStudySession(gs, day.AddDays(12))
	assert.Equal(t, 15, gs.TotalXP)
}

func TestRecordStudySession_PendingMilestoneSet(t *testing.T) {
	gs := model.NewGamificationState()
	day := dates.MustParse("2026-03-01")

	for i := 0; i < 3; i++ {
		RecordStudySession(gs, day.AddDays(i))
	}
	assert.Equal(t, "streak_3", gs.PendingMilestone)
}

func TestStreakAtRisk(t *testing.T) {
	gs := model.NewGamificationState()
	today := dates.MustParse("2026-03-14")

	assert.False(t, StreakAtRisk(gs, today), "no streak, nothing at risk")

	RecordStudySession(gs, today.AddDays(-1))
	assert.True(t, StreakAtRisk(gs, today), "studied yesterday, not yet today")

	RecordStudySession(gs, today)
	assert.False(t, StreakAtRisk(gs, today))
}
