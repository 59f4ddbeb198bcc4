package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/model"
)

// LoadSnapshot assembles the authoritative snapshot for a learner from all
// collections. An unknown learner yields empty (not nil) state: the remote
// store is still the source of truth, it just has nothing yet.
func (s *SQLStore) LoadSnapshot(ctx context.Context, learnerID string) (*model.ProgressState, *model.GamificationState, error) {
	ps := model.NewProgressState()
	gs := model.NewGamificationState()

	if err := s.loadLessonProgress(ctx, learnerID, ps); err != nil {
		return nil, nil, err
	}
	if err := s.loadPracticeSummaries(ctx, learnerID, ps); err != nil {
		return nil, nil, err
	}
	if err := s.loadAssessments(ctx, learnerID, ps); err != nil {
		return nil, nil, err
	}
	if err := s.loadFinalExam(ctx, learnerID, ps); err != nil {
		return nil, nil, err
	}
	if err := s.loadStreak(ctx, learnerID, gs); err != nil {
		return nil, nil, err
	}
	if err := s.loadGamification(ctx, learnerID, gs); err != nil {
		return nil, nil, err
	}
	if err := s.loadLessonStrength(ctx, learnerID, gs); err != nil {
		return nil, nil, err
	}

	gs.Normalize()
	return ps, gs, nil
}

func (s *SQLStore) loadLessonProgress(ctx context.Context, learnerID string, ps *model.ProgressState) error {
	query := s.db.Rebind(`
		SELECT module_id, lesson_id, completed FROM lesson_progress
		WHERE learner_id = ?
		ORDER BY module_id, lesson_id
	`)
	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return fmt.Errorf("load lesson progress: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var moduleID, lessonID string
		var completed bool
		if err := rows.Scan(&moduleID, &lessonID, &completed); err != nil {
			return fmt.Errorf("scan lesson progress: %w", err)
		}
		ps.Module(moduleID).Lessons[lessonID] = model.LessonProgress{Completed: completed}
	}
	return rows.Err()
}

// loadPracticeSummaries folds the append-only attempt log into the
// per-module summary: attempt count and best percentage.
func (s *SQLStore) loadPracticeSummaries(ctx context.Context, learnerID string, ps *model.ProgressState) error {
	query := s.db.Rebind(`
		SELECT module_id, COUNT(*), MAX(percentage) FROM practice_attempts
		WHERE learner_id = ?
		GROUP BY module_id
	`)
	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return fmt.Errorf("load practice attempts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var moduleID string
		var attempts int
		var best float64
		if err := rows.Scan(&moduleID, &attempts, &best); err != nil {
			return fmt.Errorf("scan practice summary: %w", err)
		}
		mp := ps.Module(moduleID)
		mp.Practice.Attempts = attempts
		mp.Practice.BestScore = int(best)
	}
	return rows.Err()
}

// loadAssessments reads the latest result per module, ordered newest first.
// A failing latest result restores the resit cooldown from its timestamp.
func (s *SQLStore) loadAssessments(ctx context.Context, learnerID string, ps *model.ProgressState) error {
	query := s.db.Rebind(`
		SELECT module_id, passed, score, recorded_at FROM assessment_results
		WHERE learner_id = ?
		ORDER BY recorded_at DESC
	`)
	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return fmt.Errorf("load assessment results: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var moduleID string
		var passed bool
		var score int
		var recordedAt time.Time
		if err := rows.Scan(&moduleID, &passed, &score, &recordedAt); err != nil {
			return fmt.Errorf("scan assessment result: %w", err)
		}
		if seen[moduleID] {
			continue
		}
		seen[moduleID] = true

		mp := ps.Module(moduleID)
		p, sc := passed, score
		mp.GQA.Passed = &p
		mp.GQA.Score = &sc
		if !passed {
			failedAt := recordedAt
			mp.GQA.FailedAt = &failedAt
		}
	}
	return rows.Err()
}

func (s *SQLStore) loadFinalExam(ctx context.Context, learnerID string, ps *model.ProgressState) error {
	query := s.db.Rebind(`
		SELECT passed, score FROM final_exam_results
		WHERE learner_id = ?
		ORDER BY recorded_at DESC
		LIMIT 1
	`)
	var passed bool
	var score int
	err := s.db.QueryRowContext(ctx, query, learnerID).Scan(&passed, &score)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load final exam result: %w", err)
	}
	ps.FinalExam.Passed = &passed
	ps.FinalExam.Score = &score
	return nil
}

func (s *SQLStore) loadStreak(ctx context.Context, learnerID string, gs *model.GamificationState) error {
	query := s.db.Rebind(`
		SELECT current_streak, longest_streak, last_active_date, frozen FROM streak_state
		WHERE learner_id = ?
	`)
	var lastActive string
	err := s.db.QueryRowContext(ctx, query, learnerID).Scan(
		&gs.StreakCount, &gs.LongestStreak, &lastActive, &gs.StreakFrozen,
	)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load streak state: %w", err)
	}

	lastStudy, err := dates.Parse(lastActive)
	if err != nil {
		return fmt.Errorf("load streak state: %w", err)
	}
	gs.LastStudyDate = lastStudy
	// The remote schema keeps only the latest active day, not the full
	// study-date history; seed the set with what we have.
	if !lastStudy.IsZero() {
		gs.StudyDates[lastStudy] = true
	}
	return nil
}

func (s *SQLStore) loadGamification(ctx context.Context, learnerID string, gs *model.GamificationState) error {
	query := s.db.Rebind(`
		SELECT total_xp, daily_xp, daily_goal, daily_xp_date, level, milestones_achieved, streak_freezes_available
		FROM gamification_state
		WHERE learner_id = ?
	`)
	var dailyXPDate, milestonesJSON string
	err := s.db.QueryRowContext(ctx, query, learnerID).Scan(
		&gs.TotalXP, &gs.DailyXP, &gs.DailyGoal, &dailyXPDate,
		&gs.Level, &milestonesJSON, &gs.StreakFreezesAvailable,
	)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load gamification state: %w", err)
	}

	date, err := dates.Parse(dailyXPDate)
	if err != nil {
		return fmt.Errorf("load gamification state: %w", err)
	}
	gs.DailyXPDate = date

	var milestones []string
	if err := json.Unmarshal([]byte(milestonesJSON), &milestones); err != nil {
		return fmt.Errorf("load gamification state: unmarshal milestones: %w", err)
	}
	for _, id := range milestones {
		gs.MilestonesAchieved[id] = true
	}
	return nil
}

// StreakRow is one learner's streak summary, used by the serve-mode
// reminder job.
type StreakRow struct {
	LearnerID      string
	CurrentStreak  int
	LastActiveDate dates.Date
}

// ListStreaks returns every learner's streak row. Only meaningful on the
// server side; the per-learner client never calls it.
func (s *SQLStore) ListStreaks(ctx context.Context) ([]StreakRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT learner_id, current_streak, last_active_date FROM streak_state
		ORDER BY learner_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list streaks: %w", err)
	}
	defer rows.Close()

	var out []StreakRow
	for rows.Next() {
		var row StreakRow
		var lastActive string
		if err := rows.Scan(&row.LearnerID, &row.CurrentStreak, &lastActive); err != nil {
			return nil, fmt.Errorf("scan streak row: %w", err)
		}
		if row.LastActiveDate, err = dates.Parse(lastActive); err != nil {
			return nil, fmt.Errorf("scan streak row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *SQLStore) loadLessonStrength(ctx context.Context, learnerID string, gs *model.GamificationState) error {
	query := s.db.Rebind(`
		SELECT module_id, lesson_id, strength, last_reviewed_at FROM lesson_strength
		WHERE learner_id = ?
	`)
	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return fmt.Errorf("load lesson strength: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var moduleID, lessonID, lastReviewed string
		var strength int
		if err := rows.Scan(&moduleID, &lessonID, &strength, &lastReviewed); err != nil {
			return fmt.Errorf("scan lesson strength: %w", err)
		}
		reviewed, err := dates.Parse(lastReviewed)
		if err != nil {
			return fmt.Errorf("scan lesson strength: %w", err)
		}
		gs.LessonStrength[model.StrengthKey(moduleID, lessonID)] = model.LessonStrength{
			Strength:     strength,
			LastReviewed: reviewed,
		}
	}
	return rows.Err()
}
