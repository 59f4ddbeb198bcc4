package remote

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/model"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := Open("sqlite3", filepath.Join(t.TempDir(), "remote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLStore_LoadSnapshot_UnknownLearner(t *testing.T) {
	s := openTestStore(t)

	ps, gs, err := s.LoadSnapshot(context.Background(), "nobody")
	require.NoError(t, err)
	require.NotNil(t, ps)
	require.NotNil(t, gs)
	assert.True(t, ps.IsEmpty())
	assert.Equal(t, 1, gs.Level)
	assert.Equal(t, model.DefaultDailyGoal, gs.DailyGoal)
}

func TestSQLStore_UpsertLessonProgress_RetriedWriteSafe(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertLessonProgress(ctx, "l1", "foundations", "intro", true))
	require.NoError(t, s.UpsertLessonProgress(ctx, "l1", "foundations", "intro", true))

	ps, _, err := s.LoadSnapshot(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 1, ps.Module("foundations").LessonsCompleted())
}

func TestSQLStore_PracticeAttempts_Summarized(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertPracticeAttempt(ctx, "l1", "foundations", 7, 10, 70, at))
	require.NoError(t, s.InsertPracticeAttempt(ctx, "l1", "foundations", 9, 10, 90, at.Add(time.Hour)))
	require.NoError(t, s.InsertPracticeAttempt(ctx, "l1", "foundations", 5, 10, 50, at.Add(2*time.Hour)))

	ps, _, err := s.LoadSnapshot(ctx, "l1")
	require.NoError(t, err)
	p := ps.Module("foundations").Practice
	assert.Equal(t, 3, p.Attempts)
	assert.Equal(t, 90, p.BestScore, "best percentage, not latest")
}

func TestSQLStore_Assessments_LatestPerModule(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertAssessmentResult(ctx, "l1", "foundations", false, 60, at))
	require.NoError(t, s.InsertAssessmentResult(ctx, "l1", "foundations", true, 85, at.Add(25*time.Hour)))

	ps, _, err := s.LoadSnapshot(ctx, "l1")
	require.NoError(t, err)
	gqa := ps.Module("foundations").GQA
	require.NotNil(t, gqa.Passed)
	assert.True(t, *gqa.Passed)
	assert.Equal(t, 85, *gqa.Score)
	assert.Nil(t, gqa.FailedAt, "a passing latest result carries no cooldown")
}

func TestSQLStore_Assessments_FailureRestoresCooldown(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertAssessmentResult(ctx, "l1", "foundations", false, 55, at))

	ps, _, err := s.LoadSnapshot(ctx, "l1")
	require.NoError(t, err)
	gqa := ps.Module("foundations").GQA
	require.NotNil(t, gqa.FailedAt)
	assert.True(t, gqa.FailedAt.Equal(at), "cooldown resumes from the recorded timestamp")
}

func TestSQLStore_FinalExam_LatestWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertFinalExamResult(ctx, "l1", false, 40, at))
	require.NoError(t, s.InsertFinalExamResult(ctx, "l1", true, 90, at.Add(48*time.Hour)))

	ps, _, err := s.LoadSnapshot(ctx, "l1")
	require.NoError(t, err)
	require.NotNil(t, ps.FinalExam.Passed)
	assert.True(t, *ps.FinalExam.Passed)
	assert.Equal(t, 90, *ps.FinalExam.Score)
}

func TestSQLStore_StreakRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	gs := model.NewGamificationState()
	gs.StreakCount = 5
	gs.LongestStreak = 8
	gs.LastStudyDate = dates.MustParse("2026-03-14")
	gs.StreakFrozen = true

	require.NoError(t, s.UpsertStreakState(ctx, "l1", gs))

	// Upsert replaces, not appends.
	gs.StreakCount = 6
	require.NoError(t, s.UpsertStreakState(ctx, "l1", gs))

	_, got, err := s.LoadSnapshot(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 6, got.StreakCount)
	assert.Equal(t, 8, got.LongestStreak)
	assert.True(t, got.LastStudyDate.Equal(dates.MustParse("2026-03-14")))
	assert.True(t, got.StreakFrozen)
	assert.True(t, got.StudyDates[dates.MustParse("2026-03-14")], "last active day seeds the study-date set")
}

func TestSQLStore_GamificationRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	gs := model.NewGamificationState()
	gs.TotalXP = 230
	gs.DailyXP = 30
	gs.DailyXPDate = dates.MustParse("2026-03-14")
	gs.Level = 3
	gs.StreakFreezesAvailable = 1
	gs.MilestonesAchieved["first_lesson"] = true
	gs.MilestonesAchieved["streak_3"] = true

	require.NoError(t, s.UpsertGamificationState(ctx, "l1", gs))

	_, got, err := s.LoadSnapshot(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 230, got.TotalXP)
	assert.Equal(t, 30, got.DailyXP)
	assert.True(t, got.DailyXPDate.Equal(dates.MustParse("2026-03-14")))
	assert.Equal(t, 3, got.Level)
	assert.Equal(t, 1, got.StreakFreezesAvailable)
	assert.True(t, got.MilestonesAchieved["first_lesson"])
	assert.True(t, got.MilestonesAchieved["streak_3"])
}

func TestSQLStore_LessonStrengthRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	day := dates.MustParse("2026-03-10")

	require.NoError(t, s.UpsertLessonStrength(ctx, "l1", "foundations", "intro", 100, day))
	require.NoError(t, s.UpsertLessonStrength(ctx, "l1", "foundations", "intro", 100, day.AddDays(2)))

	_, got, err := s.LoadSnapshot(ctx, "l1")
	require.NoError(t, err)
	ls := got.LessonStrength[model.StrengthKey("foundations", "intro")]
	assert.Equal(t, 100, ls.Strength)
	assert.True(t, ls.LastReviewed.Equal(day.AddDays(2)), "second review replaced the first")
}

func TestSQLStore_LearnersIsolated(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertLessonProgress(ctx, "l1", "foundations", "intro", true))

	ps, _, err := s.LoadSnapshot(ctx, "l2")
	require.NoError(t, err)
	assert.True(t, ps.IsEmpty())
}

func TestSQLStore_ListStreaks(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	gs := model.NewGamificationState()
	gs.StreakCount = 3
	gs.LastStudyDate = dates.MustParse("2026-03-13")
	require.NoError(t, s.UpsertStreakState(ctx, "alice", gs))

	gs2 := model.NewGamificationState()
	gs2.StreakCount = 1
	gs2.LastStudyDate = dates.MustParse("2026-03-14")
	require.NoError(t, s.UpsertStreakState(ctx, "bob", gs2))

	rows, err := s.ListStreaks(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].LearnerID)
	assert.Equal(t, 3, rows[0].CurrentStreak)
	assert.True(t, rows[0].LastActiveDate.Equal(dates.MustParse("2026-03-13")))
}

func TestSQLStore_OpenUnknownDriver(t *testing.T) {
	_, err := Open("bogus", "dsn")
	assert.Error(t, err)
}
