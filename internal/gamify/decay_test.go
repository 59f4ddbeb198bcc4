package gamify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/model"
)

func TestDecayedStrength(t *testing.T) {
	reviewed := dates.MustParse("2026-03-01")

	assert.Equal(t, 100, DecayedStrength(reviewed, reviewed))
	assert.Equal(t, 95, DecayedStrength(reviewed, reviewed.AddDays(1)))
	assert.Equal(t, 50, DecayedStrength(reviewed, reviewed.AddDays(10)))
	assert.Equal(t, 0, DecayedStrength(reviewed, reviewed.AddDays(20)))
	assert.Equal(t, 0, DecayedStrength(reviewed, reviewed.AddDays(25)), "floor at zero")
}

func TestDecayedStrength_NeverReviewed(t *testing.T) {
	assert.Equal(t, 0, DecayedStrength(dates.Date{}, dates.MustParse("2026-03-14")))
}

func TestRefreshLessonStrength(t *testing.T) {
	gs := model.NewGamificationState()
	day1 := dates.MustParse("2026-03-01")
	day11 := day1.AddDays(10)

	RefreshLessonStrength(gs, "foundations", "intro", day1)
	ls := gs.LessonStrength["foundations.intro"]
	assert.Equal(t, 100, ls.Strength)
	assert.True(t, ls.LastReviewed.Equal(day1))

	// A later refresh restores full strength from the new date.
	RefreshLessonStrength(gs, "foundations", "intro", day11)
	assert.Equal(t, 100, DecayedStrength(gs.LessonStrength["foundations.intro"].LastReviewed, day11))
}

func TestCurrentStrengths(t *testing.T) {
	gs := model.NewGamificationState()
	day := dates.MustParse("2026-03-01")

	RefreshLessonStrength(gs, "foundations", "intro", day)
	RefreshLessonStrength(gs, "foundations", "core-concepts", day.AddDays(6))

	got := CurrentStrengths(gs, day.AddDays(10))
	require.Len(t, got, 2)
	assert.Equal(t, 50, got["foundations.intro"])
	assert.Equal(t, 80, got["foundations.core-concepts"])
}
