package progress

import (
	"github.com/tobyward/pace/internal/catalog"
	"github.com/tobyward/pace/internal/model"
)

// ActionKind classifies the next recommended learner action.
type ActionKind string

const (
	// ActionLesson recommends completing a specific lesson.
	ActionLesson ActionKind = "lesson"
	// ActionPractice recommends taking a module's practice quiz.
	ActionPractice ActionKind = "practice"
	// ActionAssessment recommends taking a module's graded assessment.
	ActionAssessment ActionKind = "assessment"
	// ActionFinalExam recommends taking the final exam.
	ActionFinalExam ActionKind = "final_exam"
	// ActionDone means the course is fully complete.
	ActionDone ActionKind = "done"
)

// Action is the recommendation produced by NextRecommendedAction.
type Action struct {
	Kind     ActionKind `json:"kind"`
	ModuleID string     `json:"module_id,omitempty"`
	LessonID string     `json:"lesson_id,omitempty"`
}

// NextRecommendedAction walks the catalog in order and recommends, with
// decreasing priority:
//
//  1. the first incomplete lesson in the first unlocked, incomplete module
//  2. the first module whose lessons are done but practice is below the
//     assessment threshold
//  3. the first module ready for (or retrying) its assessment
//  4. the final exam once every module is complete
//
// Once the final exam is passed the course is done.
func NextRecommendedAction(ps *model.ProgressState, cat *catalog.Catalog) Action {
	if ps.FinalExam.Passed != nil && *ps.FinalExam.Passed {
		return Action{Kind: ActionDone}
	}

	for _, mod := range cat.Modules {
		if !IsModuleUnlocked(ps, cat, mod.ID) {
			continue
		}
		mp := ps.Lookup(mod.ID)
		if IsModuleComplete(mp) {
			continue
		}
		for _, lessonID := range mod.Lessons {
			if !mp.Lessons[lessonID].Completed {
				return Action{Kind: ActionLesson, ModuleID: mod.ID, LessonID: lessonID}
			}
		}
	}

	for _, mod := range cat.Modules {
		if !IsModuleUnlocked(ps, cat, mod.ID) {
			continue
		}
		mp := ps.Lookup(mod.ID)
		if IsModuleComplete(mp) || !IsPracticeUnlocked(mp, mod) {
			continue
		}
		if !IsAssessmentUnlocked(mp) {
			return Action{Kind: ActionPractice, ModuleID: mod.ID}
		}
	}

	for _, mod := range cat.Modules {
		if !IsModuleUnlocked(ps, cat, mod.ID) {
			continue
		}
		mp := ps.Lookup(mod.ID)
		if !IsModuleComplete(mp) && IsAssessmentUnlocked(mp) {
			return Action{Kind: ActionAssessment, ModuleID: mod.ID}
		}
	}

	if AllModulesComplete(ps, cat) {
		return Action{Kind: ActionFinalExam}
	}

	// Locked-out edge: nothing unlocked is actionable. Fall back to the
	// first incomplete module's first lesson so the caller always gets a
	// concrete pointer.
	for _, mod := range cat.Modules {
		mp := ps.Lookup(mod.ID)
		if !IsModuleComplete(mp) {
			return Action{Kind: ActionLesson, ModuleID: mod.ID, LessonID: mod.Lessons[0]}
		}
	}
	return Action{Kind: ActionDone}
}
