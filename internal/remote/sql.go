package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/model"
)

// schemaSQL is restricted to the SQL subset shared by sqlite3 and postgres
// so one implementation serves both drivers.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS lesson_progress (
	learner_id TEXT NOT NULL,
	module_id  TEXT NOT NULL,
	lesson_id  TEXT NOT NULL,
	completed  BOOLEAN NOT NULL,
	PRIMARY KEY (learner_id, module_id, lesson_id)
);

CREATE TABLE IF NOT EXISTS practice_attempts (
	id          TEXT PRIMARY KEY,
	learner_id  TEXT NOT NULL,
	module_id   TEXT NOT NULL,
	score       INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	percentage  REAL NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS assessment_results (
	id          TEXT PRIMARY KEY,
	learner_id  TEXT NOT NULL,
	module_id   TEXT NOT NULL,
	passed      BOOLEAN NOT NULL,
	score       INTEGER NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS final_exam_results (
	id          TEXT PRIMARY KEY,
	learner_id  TEXT NOT NULL,
	passed      BOOLEAN NOT NULL,
	score       INTEGER NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS streak_state (
	learner_id       TEXT PRIMARY KEY,
	current_streak   INTEGER NOT NULL,
	longest_streak   INTEGER NOT NULL,
	last_active_date TEXT NOT NULL,
	frozen           BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS gamification_state (
	learner_id               TEXT PRIMARY KEY,
	total_xp                 INTEGER NOT NULL,
	daily_xp                 INTEGER NOT NULL,
	daily_goal               INTEGER NOT NULL,
	daily_xp_date            TEXT NOT NULL,
	level                    INTEGER NOT NULL,
	milestones_achieved      TEXT NOT NULL,
	streak_freezes_available INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS lesson_strength (
	learner_id       TEXT NOT NULL,
	module_id        TEXT NOT NULL,
	lesson_id        TEXT NOT NULL,
	strength         INTEGER NOT NULL,
	last_reviewed_at TEXT NOT NULL,
	PRIMARY KEY (learner_id, module_id, lesson_id)
);

CREATE INDEX IF NOT EXISTS idx_practice_attempts_learner
	ON practice_attempts (learner_id, module_id);
CREATE INDEX IF NOT EXISTS idx_assessment_results_learner
	ON assessment_results (learner_id, module_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_final_exam_results_learner
	ON final_exam_results (learner_id, recorded_at);
`

// SQLStore is the sqlx-backed Store implementation. The same code serves
// sqlite3 (tests, single-device use) and postgres (shared deployments);
// sqlx.Rebind adapts the placeholder style per driver.
type SQLStore struct {
	db *sqlx.DB
}

// Open connects to the remote store database and applies the schema.
// Supported drivers: "sqlite3", "postgres".
func Open(driver, dsn string) (*SQLStore, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect remote store (%s): %w", driver, err)
	}

	if driver == "sqlite3" {
		// Single writer avoids SQLITE_BUSY under concurrent API handlers.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply remote schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error { return s.db.Close() }

// UpsertLessonProgress writes one lesson-completion row. Natural-key upsert
// makes retried writes (including a retried migration) safe.
func (s *SQLStore) UpsertLessonProgress(ctx context.Context, learnerID, moduleID, lessonID string, completed bool) error {
	query := s.db.Rebind(`
		INSERT INTO lesson_progress (learner_id, module_id, lesson_id, completed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (learner_id, module_id, lesson_id) DO UPDATE SET completed = excluded.completed
	`)
	if _, err := s.db.ExecContext(ctx, query, learnerID, moduleID, lessonID, completed); err != nil {
		return fmt.Errorf("upsert lesson progress %s/%s: %w", moduleID, lessonID, err)
	}
	return nil
}

// InsertPracticeAttempt appends to the practice log. NOT idempotent: a
// retried write inserts a second row (documented migration caveat).
func (s *SQLStore) InsertPracticeAttempt(ctx context.Context, learnerID, moduleID string, score, total int, percentage float64, at time.Time) error {
	query := s.db.Rebind(`
		INSERT INTO practice_attempts (id, learner_id, module_id, score, total, percentage, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if _, err := s.db.ExecContext(ctx, query, uuid.NewString(), learnerID, moduleID, score, total, percentage, at.UTC()); err != nil {
		return fmt.Errorf("insert practice attempt %s: %w", moduleID, err)
	}
	return nil
}

// InsertAssessmentResult appends a graded assessment result.
func (s *SQLStore) InsertAssessmentResult(ctx context.Context, learnerID, moduleID string, passed bool, score int, at time.Time) error {
	query := s.db.Rebind(`
		INSERT INTO assessment_results (id, learner_id, module_id, passed, score, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if _, err := s.db.ExecContext(ctx, query, uuid.NewString(), learnerID, moduleID, passed, score, at.UTC()); err != nil {
		return fmt.Errorf("insert assessment result %s: %w", moduleID, err)
	}
	return nil
}

// InsertFinalExamResult appends a final exam result.
func (s *SQLStore) InsertFinalExamResult(ctx context.Context, learnerID string, passed bool, score int, at time.Time) error {
	query := s.db.Rebind(`
		INSERT INTO final_exam_results (id, learner_id, passed, score, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err := s.db.ExecContext(ctx, query, uuid.NewString(), learnerID, passed, score, at.UTC()); err != nil {
		return fmt.Errorf("insert final exam result: %w", err)
	}
	return nil
}

// UpsertStreakState replaces the learner's streak row.
func (s *SQLStore) UpsertStreakState(ctx context.Context, learnerID string, gs *model.GamificationState) error {
	query := s.db.Rebind(`
		INSERT INTO streak_state (learner_id, current_streak, longest_streak, last_active_date, frozen)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (learner_id) DO UPDATE SET
			current_streak   = excluded.current_streak,
			longest_streak   = excluded.longest_streak,
			last_active_date = excluded.last_active_date,
			frozen           = excluded.frozen
	`)
	if _, err := s.db.ExecContext(ctx, query,
		learnerID, gs.StreakCount, gs.LongestStreak, gs.LastStudyDate.String(), gs.StreakFrozen,
	); err != nil {
		return fmt.Errorf("upsert streak state: %w", err)
	}
	return nil
}

// UpsertGamificationState replaces the learner's XP/milestone row.
// Milestones are stored as a JSON array for driver portability.
func (s *SQLStore) UpsertGamificationState(ctx context.Context, learnerID string, gs *model.GamificationState) error {
	milestones := make([]string, 0, len(gs.MilestonesAchieved))
	for id := range gs.MilestonesAchieved {
		milestones = append(milestones, id)
	}
	sort.Strings(milestones)
	milestonesJSON, err := json.Marshal(milestones)
	if err != nil {
		return fmt.Errorf("marshal milestones: %w", err)
	}

	query := s.db.Rebind(`
		INSERT INTO gamification_state
			(learner_id, total_xp, daily_xp, daily_goal, daily_xp_date, level, milestones_achieved, streak_freezes_available)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (learner_id) DO UPDATE SET
			total_xp                 = excluded.total_xp,
			daily_xp                 = excluded.daily_xp,
			daily_goal               = excluded.daily_goal,
			daily_xp_date            = excluded.daily_xp_date,
			level                    = excluded.level,
			milestones_achieved      = excluded.milestones_achieved,
			streak_freezes_available = excluded.streak_freezes_available
	`)
	if _, err := s.db.ExecContext(ctx, query,
		learnerID, gs.TotalXP, gs.DailyXP, gs.DailyGoal, gs.DailyXPDate.String(),
		gs.Level, string(milestonesJSON), gs.StreakFreezesAvailable,
	); err != nil {
		return fmt.Errorf("upsert gamification state: %w", err)
	}
	return nil
}

// UpsertLessonStrength records a lesson review.
func (s *SQLStore) UpsertLessonStrength(ctx context.Context, learnerID, moduleID, lessonID string, strength int, lastReviewed dates.Date) error {
	query := s.db.Rebind(`
		INSERT INTO lesson_strength (learner_id, module_id, lesson_id, strength, last_reviewed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (learner_id, module_id, lesson_id) DO UPDATE SET
			strength         = excluded.strength,
			last_reviewed_at = excluded.last_reviewed_at
	`)
	if _, err := s.db.ExecContext(ctx, query, learnerID, moduleID, lessonID, strength, lastReviewed.String()); err != nil {
		return fmt.Errorf("upsert lesson strength %s/%s: %w", moduleID, lessonID, err)
	}
	return nil
}
