// Package progress implements the progress engine: pure state transitions
// over model.ProgressState plus the derived gating queries.
//
// Mutators here never perform I/O and never fail; inputs are validated at
// the CLI/API boundary. Persistence and remote writes are the syncer's job.
package progress

import (
	"math"
	"time"

	"github.com/tobyward/pace/internal/catalog"
	"github.com/tobyward/pace/internal/model"
)

// AssessmentUnlockScore is the practice best score required before the
// module assessment unlocks.
const AssessmentUnlockScore = 80

// ResitCooldown is how long a learner waits after a failed assessment
// before retaking it.
const ResitCooldown = 24 * time.Hour

// CompleteLesson marks a lesson completed. Idempotent: returns false when
// the lesson was already complete and the state is unchanged.
func CompleteLesson(ps *model.ProgressState, moduleID, lessonID string) bool {
	mp := ps.Module(moduleID)
	if mp.Lessons[lessonID].Completed {
		return false
	}
	mp.Lessons[lessonID] = model.LessonProgress{Completed: true}
	return true
}

// RecordPractice records one practice attempt. Attempts always increment;
// BestScore only ratchets upward.
func RecordPractice(ps *model.ProgressState, moduleID string, score int) {
	mp := ps.Module(moduleID)
	mp.Practice.Attempts++
	if score > mp.Practice.BestScore {
		mp.Practice.BestScore = score
	}
}

// RecordGQA overwrites the module assessment with the latest result. A
// failure stamps FailedAt to start the resit cooldown; a pass clears it.
func RecordGQA(ps *model.ProgressState, moduleID string, passed bool, score int, now time.Time) {
	mp := ps.Module(moduleID)
	mp.GQA.Passed = &passed
	mp.GQA.Score = &score
	if passed {
		mp.GQA.FailedAt = nil
	} else {
		failedAt := now
		mp.GQA.FailedAt = &failedAt
	}
}

// RecordFinalExam overwrites the single-slot final exam result. Only the
// latest attempt matters for gating.
func RecordFinalExam(ps *model.ProgressState, passed bool, score int) {
	ps.FinalExam.Passed = &passed
	ps.FinalExam.Score = &score
}

// AllLessonsComplete reports whether every catalog lesson of the module is
// completed.
func AllLessonsComplete(mp *model.ModuleProgress, mod catalog.Module) bool {
	for _, lessonID := range mod.Lessons {
		if !mp.Lessons[lessonID].Completed {
			return false
		}
	}
	return true
}

// IsPracticeUnlocked reports whether the practice quiz is available: all
// lessons complete, or the module carries a practice override.
func IsPracticeUnlocked(mp *model.ModuleProgress, mod catalog.Module) bool {
	return mod.PracticeOverride || AllLessonsComplete(mp, mod)
}

// IsAssessmentUnlocked reports whether the graded assessment is available.
func IsAssessmentUnlocked(mp *model.ModuleProgress) bool {
	return mp.Practice.BestScore >= AssessmentUnlockScore
}

// IsModuleComplete reports whether the module assessment has been passed.
func IsModuleComplete(mp *model.ModuleProgress) bool {
	return mp.GQA.Passed != nil && *mp.GQA.Passed
}

// IsModuleUnlocked reports whether a module is accessible. The first module
// is always unlocked; module N unlocks when module N-1 is complete.
func IsModuleUnlocked(ps *model.ProgressState, cat *catalog.Catalog, moduleID string) bool {
	idx := cat.Index(moduleID)
	if idx < 0 {
		return false
	}
	if idx == 0 {
		return true
	}
	prev := cat.Modules[idx-1]
	return IsModuleComplete(ps.Lookup(prev.ID))
}

// CanResit reports whether the resit cooldown has elapsed since the latest
// failed assessment. With no recorded failure there is no cooldown.
func CanResit(mp *model.ModuleProgress, now time.Time) bool {
	if mp.GQA.FailedAt == nil {
		return true
	}
	return now.Sub(*mp.GQA.FailedAt) >= ResitCooldown
}

// HoursUntilResit returns the whole hours remaining on the resit cooldown,
// rounded up; 0 once the resit is available. Immediately after a failure it
// returns 24.
func HoursUntilResit(mp *model.ModuleProgress, now time.Time) int {
	if mp.GQA.FailedAt == nil {
		return 0
	}
	remaining := ResitCooldown - now.Sub(*mp.GQA.FailedAt)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours()))
}

// AllModulesComplete reports whether every catalog module is complete.
func AllModulesComplete(ps *model.ProgressState, cat *catalog.Catalog) bool {
	for _, mod := range cat.Modules {
		if !IsModuleComplete(ps.Lookup(mod.ID)) {
			return false
		}
	}
	return true
}

// OverallCompletionPercentage is the share of catalog lessons completed,
// 0..100. Bounded by 100 even if the state carries lessons the catalog no
// longer lists.
func OverallCompletionPercentage(ps *model.ProgressState, cat *catalog.Catalog) int {
	total := cat.TotalLessons()
	if total == 0 {
		return 0
	}
	completed := 0
	for _, mod := range cat.Modules {
		mp := ps.Lookup(mod.ID)
		for _, lessonID := range mod.Lessons {
			if mp.Lessons[lessonID].Completed {
				completed++
			}
		}
	}
	pct := completed * 100 / total
	if pct > 100 {
		pct = 100
	}
	return pct
}
