package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tobyward/pace/internal/cache"
	"github.com/tobyward/pace/internal/model"
)

// SetIdentity handles an identity becoming available (login).
//
// If the local cache holds meaningful anonymous progress it is migrated
// into the remote store exactly once, keyed by the new identity, and the
// anonymous progress cache entry is cleared. Afterwards (or immediately,
// when there was nothing to migrate) the authoritative remote snapshot
// replaces the in-memory state and is re-cached.
//
// On migration or load failure the error is surfaced and the local
// snapshot stays in effect; the identity itself is kept so a later Refresh
// can retry the load.
func (co *Coordinator) SetIdentity(ctx context.Context, learnerID string) error {
	co.mu.Lock()
	defer co.mu.Unlock()

	if learnerID == "" {
		return fmt.Errorf("set identity: empty learner id")
	}
	if co.learnerID == learnerID {
		return nil
	}

	wasAnonymous := co.learnerID == ""
	co.learnerID = learnerID
	if err := co.cache.Set(cache.KeyLearnerID, []byte(learnerID)); err != nil {
		slog.Error("cache write failed", "key", cache.KeyLearnerID, "error", err)
	}

	if wasAnonymous && !co.progress.IsEmpty() {
		if err := co.migrateLocked(ctx); err != nil {
			return fmt.Errorf("migrate anonymous progress: %w", err)
		}
		if err := co.cache.Remove(cache.KeyProgress); err != nil {
			slog.Error("cache remove failed", "key", cache.KeyProgress, "error", err)
		}
		slog.Info("anonymous progress migrated", "learner", learnerID)
	}

	return co.loadRemoteLocked(ctx)
}

// Logout ends the authenticated session: the pending debounce timer is
// cancelled (not fired), the cached identity and snapshots are cleared, and
// the in-memory state resets to empty anonymous state.
func (co *Coordinator) Logout() {
	co.mu.Lock()
	defer co.mu.Unlock()

	if co.pendingCancel != nil {
		co.pendingCancel()
		co.pendingCancel = nil
	}

	co.learnerID = ""
	co.progress = model.NewProgressState()
	co.gamify = model.NewGamificationState()
	co.applyDailyGoalLocked()
	co.dirtyStrengths = make(map[string]bool)

	for _, key := range []string{cache.KeyLearnerID, cache.KeyProgress, cache.KeyGamification} {
		if err := co.cache.Remove(key); err != nil {
			slog.Error("cache remove failed", "key", key, "error", err)
		}
	}
}

// migrateLocked writes every piece of anonymous progress into the remote
// store under the new identity. Caller holds mu and has verified the
// snapshot is non-empty; an empty snapshot performs zero remote writes.
//
// Completed lessons, assessment results, and the final exam use natural
// keys (upsert or latest-wins read), so a retried migration is safe for
// them. Practice history is synthesized as ONE summary attempt per module
// carrying the best score; a migration retried after a partial failure can
// double-insert those rows.
//
// Modules are walked in sorted order so a partial failure is at a
// deterministic prefix.
func (co *Coordinator) migrateLocked(ctx context.Context) error {
	now := co.clock.Now()

	moduleIDs := make([]string, 0, len(co.progress.Modules))
	for id := range co.progress.Modules {
		moduleIDs = append(moduleIDs, id)
	}
	sort.Strings(moduleIDs)

	for _, moduleID := range moduleIDs {
		mp := co.progress.Modules[moduleID]

		lessonIDs := make([]string, 0, len(mp.Lessons))
		for id := range mp.Lessons {
			lessonIDs = append(lessonIDs, id)
		}
		sort.Strings(lessonIDs)
		for _, lessonID := range lessonIDs {
			if !mp.Lessons[lessonID].Completed {
				continue
			}
			if err := co.remote.UpsertLessonProgress(ctx, co.learnerID, moduleID, lessonID, true); err != nil {
				return fmt.Errorf("migrate lesson %s/%s: %w", moduleID, lessonID, err)
			}
		}

		if mp.Practice.Attempts > 0 {
			err := co.remote.InsertPracticeAttempt(ctx, co.learnerID, moduleID,
				mp.Practice.BestScore, 100, float64(mp.Practice.BestScore), now)
			if err != nil {
				return fmt.Errorf("migrate practice summary %s: %w", moduleID, err)
			}
		}

		if mp.GQA.Passed != nil {
			score := 0
			if mp.GQA.Score != nil {
				score = *mp.GQA.Score
			}
			at := now
			if mp.GQA.FailedAt != nil {
				at = *mp.GQA.FailedAt
			}
			if err := co.remote.InsertAssessmentResult(ctx, co.learnerID, moduleID, *mp.GQA.Passed, score, at); err != nil {
				return fmt.Errorf("migrate assessment %s: %w", moduleID, err)
			}
		}
	}

	if co.progress.FinalExam.Passed != nil {
		score := 0
		if co.progress.FinalExam.Score != nil {
			score = *co.progress.FinalExam.Score
		}
		if err := co.remote.InsertFinalExamResult(ctx, co.learnerID, *co.progress.FinalExam.Passed, score, now); err != nil {
			return fmt.Errorf("migrate final exam: %w", err)
		}
	}

	return nil
}
