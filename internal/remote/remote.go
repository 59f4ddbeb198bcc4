// Package remote implements the durable, learner-keyed store that becomes
// the source of truth once a learner is authenticated.
//
// Collections follow natural-key upsert semantics wherever retried writes
// must be safe (lesson progress, streak/gamification snapshots, lesson
// strength); practice attempts and exam results are append-only logs read
// latest-first.
package remote

import (
	"context"
	"time"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/model"
)

// Store is the remote persistence boundary used by the sync coordinator.
//
// All methods take a context because every call may cross the network.
// Write failures are the caller's problem to log and swallow; the store
// never retries internally.
type Store interface {
	// UpsertLessonProgress records lesson completion, unique on
	// (learner, module, lesson).
	UpsertLessonProgress(ctx context.Context, learnerID, moduleID, lessonID string, completed bool) error

	// InsertPracticeAttempt appends one attempt to the practice log.
	InsertPracticeAttempt(ctx context.Context, learnerID, moduleID string, score, total int, percentage float64, at time.Time) error

	// InsertAssessmentResult appends one graded assessment result; reads
	// take the latest per module by timestamp.
	InsertAssessmentResult(ctx context.Context, learnerID, moduleID string, passed bool, score int, at time.Time) error

	// InsertFinalExamResult appends one final exam result.
	InsertFinalExamResult(ctx context.Context, learnerID string, passed bool, score int, at time.Time) error

	// UpsertStreakState replaces the learner's single streak row.
	UpsertStreakState(ctx context.Context, learnerID string, gs *model.GamificationState) error

	// UpsertGamificationState replaces the learner's single XP/milestone row.
	UpsertGamificationState(ctx context.Context, learnerID string, gs *model.GamificationState) error

	// UpsertLessonStrength records a lesson review, unique on
	// (learner, module, lesson).
	UpsertLessonStrength(ctx context.Context, learnerID, moduleID, lessonID string, strength int, lastReviewed dates.Date) error

	// LoadSnapshot assembles the authoritative per-learner snapshot from
	// all collections.
	LoadSnapshot(ctx context.Context, learnerID string) (*model.ProgressState, *model.GamificationState, error)

	Close() error
}
