package gamify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/model"
)

func TestAddXP_LevelRecomputed(t *testing.T) {
	gs := model.NewGamificationState()
	today := dates.MustParse("2026-03-14")

	AddXP(gs, 80, "lessons", today)
	assert.Equal(t, 80, gs.TotalXP)
	assert.Equal(t, 1, gs.Level)

	AddXP(gs, 40, "practice", today)
	assert.Equal(t, 120, gs.TotalXP)
	assert.Equal(t, 2, gs.Level, "crossing 100 XP reaches level 2")
}

func TestAddXP_LevelBoundaries(t *testing.T) {
	cases := []struct {
		total int
		level int
	}{
		{0, 1}, {99, 1}, {100, 2}, {199, 2}, {200, 3}, {450, 5},
	}
	for _, tc := range cases {
		gs := model.NewGamificationState()
		AddXP(gs, tc.total, "x", dates.MustParse("2026-03-14"))
		if tc.total == 0 {
			assert.Equal(t, 1, gs.Level)
			continue
		}
		assert.Equal(t, tc.level, gs.Level, "total %d", tc.total)
	}
}

func TestAddXP_NonPositiveIsNoOp(t *testing.T) {
	gs := model.NewGamificationState()
	today := dates.MustParse("2026-03-14")

	AddXP(gs, 0, "x", today)
	AddXP(gs, -5, "x", today)
	assert.Equal(t, 0, gs.TotalXP)
	assert.Nil(t, gs.PendingXpPopup)
}

func TestAddXP_DailyRollover(t *testing.T) {
	gs := model.NewGamificationState()
	day1 := dates.MustParse("2026-03-14")
	day2 := day1.AddDays(1)

	AddXP(gs, 30, "x", day1)
	assert.Equal(t, 30, DailyXP(gs, day1))

	// Reading on a later day shows zero without mutating.
	assert.Equal(t, 0, DailyXP(gs, day2))
	assert.Equal(t, 30, gs.DailyXP)

	// The next award on day2 resets the counter first.
	AddXP(gs, 10, "x", day2)
	assert.Equal(t, 10, DailyXP(gs, day2))
	assert.Equal(t, 40, gs.TotalXP)
}

func TestAddXP_DailyGoalCrossing(t *testing.T) {
	gs := model.NewGamificationState()
	today := dates.MustParse("2026-03-14")
	require.Equal(t, model.DefaultDailyGoal, gs.DailyGoal)

	AddXP(gs, 30, "x", today)
	assert.Empty(t, gs.PendingMilestone)

	AddXP(gs, 25, "x", today)
	assert.Equal(t, DailyGoalMilestoneID, gs.PendingMilestone, "crossing 50 flags the goal")

	// Further XP on the same day does not re-trigger.
	gs.PendingMilestone = ""
	AddXP(gs, 10, "x", today)
	assert.Empty(t, gs.PendingMilestone)
}

func TestAddXP_SetsPopup(t *testing.T) {
	gs := model.NewGamificationState()
	AddXP(gs, 10, "Lesson complete", dates.MustParse("2026-03-14"))

	require.NotNil(t, gs.PendingXpPopup)
	assert.Equal(t, model.XpPopup{Amount: 10, Label: "Lesson complete"}, *gs.PendingXpPopup)
}

func TestConsumeXpPopup(t *testing.T) {
	gs := model.NewGamificationState()
	AddXP(gs, 10, "x", dates.MustParse("2026-03-14"))

	popup, ok := ConsumeXpPopup(gs)
	require.True(t, ok)
	assert.Equal(t, 10, popup.Amount)

	_, ok = ConsumeXpPopup(gs)
	assert.False(t, ok, "consumed popups do not repeat")
}

func TestConsumePendingMilestone(t *testing.T) {
	gs := model.NewGamificationState()
	gs.PendingMilestone = "first_lesson"

	id, ok := ConsumePendingMilestone(gs)
	require.True(t, ok)
	assert.Equal(t, "first_lesson", id)

	_, ok = ConsumePendingMilestone(gs)
	assert.False(t, ok)
}
