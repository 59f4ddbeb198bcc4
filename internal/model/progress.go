package model

import "time"

// LessonProgress records completion of a single lesson within a module.
type LessonProgress struct {
	Completed bool `json:"completed"`
}

// PracticeProgress accumulates practice-quiz results for a module.
//
// INVARIANT: BestScore is monotonic non-decreasing. RecordPractice in the
// progress package is the only writer and always applies max().
type PracticeProgress struct {
	BestScore int `json:"best_score"`
	Attempts  int `json:"attempts"`
}

// GQAResult holds the latest graded-quiz-assessment outcome for a module.
//
// Passed is a tri-state: nil means the assessment has never been taken.
// FailedAt is set only while the latest result is a failure; it drives the
// 24-hour resit cooldown and is cleared on a pass.
type GQAResult struct {
	Passed   *bool      `json:"passed,omitempty"`
	Score    *int       `json:"score,omitempty"`
	FailedAt *time.Time `json:"failed_at,omitempty"`
}

// FinalExamResult is a single-slot record: only the latest attempt matters
// for gating, so each attempt overwrites the previous one.
type FinalExamResult struct {
	Passed *bool `json:"passed,omitempty"`
	Score  *int  `json:"score,omitempty"`
}

// ModuleProgress is the per-module progress record, keyed by module id in
// ProgressState.Modules.
type ModuleProgress struct {
	Lessons  map[string]LessonProgress `json:"lessons"`
	Practice PracticeProgress          `json:"practice"`
	GQA      GQAResult                 `json:"gqa"`
}

// NewModuleProgress returns an empty per-module record.
func NewModuleProgress() *ModuleProgress {
	return &ModuleProgress{Lessons: make(map[string]LessonProgress)}
}

// LessonsCompleted counts completed lessons in this module.
func (mp *ModuleProgress) LessonsCompleted() int {
	n := 0
	for _, l := range mp.Lessons {
		if l.Completed {
			n++
		}
	}
	return n
}

// ProgressState is the whole per-learner course progress snapshot.
//
// Mutation goes exclusively through the progress package; the syncer owns
// the instance for the lifetime of a session and persists it wholesale.
type ProgressState struct {
	Modules   map[string]*ModuleProgress `json:"modules"`
	FinalExam FinalExamResult            `json:"final_exam"`
}

// NewProgressState returns an empty snapshot, as created on first use.
func NewProgressState() *ProgressState {
	return &ProgressState{Modules: make(map[string]*ModuleProgress)}
}

// Module returns the progress record for id, creating an empty one on first
// touch. Callers never see a nil module.
func (ps *ProgressState) Module(id string) *ModuleProgress {
	if ps.Modules == nil {
		ps.Modules = make(map[string]*ModuleProgress)
	}
	mp, ok := ps.Modules[id]
	if !ok {
		mp = NewModuleProgress()
		ps.Modules[id] = mp
	}
	return mp
}

// Lookup returns the progress record for id without creating one: untouched
// modules read as a detached empty record. Query paths use it so a read
// never grows the snapshot.
func (ps *ProgressState) Lookup(id string) *ModuleProgress {
	if mp, ok := ps.Modules[id]; ok {
		return mp
	}
	return NewModuleProgress()
}

// IsEmpty reports whether the snapshot carries no recorded progress at all.
// The syncer uses this to decide whether anonymous local state is worth
// migrating on login.
func (ps *ProgressState) IsEmpty() bool {
	if ps.FinalExam.Passed != nil {
		return false
	}
	for _, mp := range ps.Modules {
		if mp.LessonsCompleted() > 0 || mp.Practice.Attempts > 0 || mp.GQA.Passed != nil {
			return false
		}
	}
	return true
}
