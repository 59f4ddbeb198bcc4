package syncer

import (
	"context"
	"time"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/gamify"
	"github.com/tobyward/pace/internal/model"
	"github.com/tobyward/pace/internal/progress"
)

// XP awards per mutation kind. Lesson XP comes from the catalog; these
// cover the rest.
const (
	xpPractice       = 10
	xpAssessmentPass = 30
	xpExamPass       = 50
	// defaultLessonXP applies when a catalog module carries no
	// xp_per_lesson value.
	defaultLessonXP = 10
)

// CompleteLesson marks a lesson done, awards XP, resets its memory
// strength, and syncs. Idempotent: a second completion changes nothing and
// writes nothing.
func (co *Coordinator) CompleteLesson(moduleID, lessonID string) {
	co.mu.Lock()
	defer co.mu.Unlock()

	if !progress.CompleteLesson(co.progress, moduleID, lessonID) {
		return
	}

	today := dates.Today(co.clock)
	xp := defaultLessonXP
	if mod, ok := co.cat.Module(moduleID); ok && mod.XPPerLesson > 0 {
		xp = mod.XPPerLesson
	}
	gamify.AddXP(co.gamify, xp, "Lesson complete", today)
	gamify.RefreshLessonStrength(co.gamify, moduleID, lessonID, today)
	co.dirtyStrengths[model.StrengthKey(moduleID, lessonID)] = true
	gamify.CheckMilestones(co.progress, co.gamify, co.cat)

	co.saveProgressLocked()
	co.saveGamificationLocked()

	co.remoteAsync("lesson_progress", func(ctx context.Context, learnerID string) error {
		return co.remote.UpsertLessonProgress(ctx, learnerID, moduleID, lessonID, true)
	})
	co.scheduleGamifySyncLocked()
}

// RecordPractice records one practice attempt (correct answers out of
// total). The engine tracks the percentage; the remote log keeps the raw
// numbers too.
func (co *Coordinator) RecordPractice(moduleID string, correct, total int) {
	co.mu.Lock()
	defer co.mu.Unlock()

	percentage := 0.0
	score := 0
	if total > 0 {
		percentage = float64(correct) * 100 / float64(total)
		score = int(percentage)
	}

	progress.RecordPractice(co.progress, moduleID, score)

	today := dates.Today(co.clock)
	gamify.AddXP(co.gamify, xpPractice, "Practice complete", today)
	gamify.CheckMilestones(co.progress, co.gamify, co.cat)

	co.saveProgressLocked()
	co.saveGamificationLocked()

	now := co.clock.Now()
	co.remoteAsync("practice_attempt", func(ctx context.Context, learnerID string) error {
		return co.remote.InsertPracticeAttempt(ctx, learnerID, moduleID, correct, total, percentage, now)
	})
	co.scheduleGamifySyncLocked()
}

// RecordGQA records the latest graded assessment result. A failure starts
// the 24-hour resit cooldown; a pass clears it and pays XP.
func (co *Coordinator) RecordGQA(moduleID string, passed bool, score int) {
	co.mu.Lock()
	defer co.mu.Unlock()

	now := co.clock.Now()
	progress.RecordGQA(co.progress, moduleID, passed, score, now)

	if passed {
		gamify.AddXP(co.gamify, xpAssessmentPass, "Assessment passed", dates.DateOf(now))
	}
	gamify.CheckMilestones(co.progress, co.gamify, co.cat)

	co.saveProgressLocked()
	co.saveGamificationLocked()

	co.remoteAsync("assessment_result", func(ctx context.Context, learnerID string) error {
		return co.remote.InsertAssessmentResult(ctx, learnerID, moduleID, passed, score, now)
	})
	co.scheduleGamifySyncLocked()
}

// RecordFinalExam records the latest final-exam attempt (single slot; only
// the latest matters for gating).
func (co *Coordinator) RecordFinalExam(passed bool, score int) {
	co.mu.Lock()
	defer co.mu.Unlock()

	now := co.clock.Now()
	progress.RecordFinalExam(co.progress, passed, score)

	if passed {
		gamify.AddXP(co.gamify, xpExamPass, "Final exam passed", dates.DateOf(now))
	}
	gamify.CheckMilestones(co.progress, co.gamify, co.cat)

	co.saveProgressLocked()
	co.saveGamificationLocked()

	co.remoteAsync("final_exam_result", func(ctx context.Context, learnerID string) error {
		return co.remote.InsertFinalExamResult(ctx, learnerID, passed, score, now)
	})
	co.scheduleGamifySyncLocked()
}

// RecordStudySession advances the streak for today. Called once per
// app-foreground event; same-day repeats are no-ops with no writes.
func (co *Coordinator) RecordStudySession() {
	co.mu.Lock()
	defer co.mu.Unlock()

	if !gamify.RecordStudySession(co.gamify, dates.Today(co.clock)) {
		return
	}

	co.saveGamificationLocked()
	co.scheduleGamifySyncLocked()
}

// RefreshLessonStrength records a review of a lesson, restoring full
// memory strength.
func (co *Coordinator) RefreshLessonStrength(moduleID, lessonID string) {
	co.mu.Lock()
	defer co.mu.Unlock()

	today := dates.Today(co.clock)
	gamify.RefreshLessonStrength(co.gamify, moduleID, lessonID, today)
	co.dirtyStrengths[model.StrengthKey(moduleID, lessonID)] = true

	co.saveGamificationLocked()
	co.scheduleGamifySyncLocked()
}

// ConsumeXpPopup hands the pending XP popup to the UI exactly once.
func (co *Coordinator) ConsumeXpPopup() (model.XpPopup, bool) {
	co.mu.Lock()
	defer co.mu.Unlock()

	popup, ok := gamify.ConsumeXpPopup(co.gamify)
	if ok {
		co.saveGamificationLocked()
	}
	return popup, ok
}

// ConsumePendingMilestone hands the pending milestone id to the UI exactly
// once.
func (co *Coordinator) ConsumePendingMilestone() (string, bool) {
	co.mu.Lock()
	defer co.mu.Unlock()

	id, ok := gamify.ConsumePendingMilestone(co.gamify)
	if ok {
		co.saveGamificationLocked()
	}
	return id, ok
}

// Now exposes the session clock for callers that render time-dependent
// queries (resit hours, decayed strength).
func (co *Coordinator) Now() time.Time {
	return co.clock.Now()
}
