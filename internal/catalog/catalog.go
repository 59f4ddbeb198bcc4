// Package catalog holds the static course content catalog: the ordered list
// of modules, each with an ordered list of lesson ids.
//
// The catalog is read-only input to gating and completion-count logic. It is
// authored in CUE (see cue.go) and compiled into these structs at load time.
package catalog

import "fmt"

// Module is one course module with its ordered lessons.
type Module struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Lessons is the ordered lesson id list; order drives the
	// "next recommended action" walk.
	Lessons []string `json:"lessons"`
	// XPPerLesson is the XP award for completing one lesson.
	XPPerLesson int `json:"xp_per_lesson"`
	// PracticeOverride unlocks the practice quiz even before all lessons
	// are complete.
	PracticeOverride bool `json:"practice_override,omitempty"`
}

// Catalog is the full ordered module list. Module order defines the unlock
// chain: module 1 is always unlocked, module N requires module N-1 complete.
type Catalog struct {
	Modules []Module `json:"modules"`
}

// Module returns the module with the given id.
func (c *Catalog) Module(id string) (Module, bool) {
	for _, m := range c.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// Index returns the position of a module id in catalog order, or -1.
func (c *Catalog) Index(id string) int {
	for i, m := range c.Modules {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// TotalLessons counts lessons across all modules.
func (c *Catalog) TotalLessons() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Lessons)
	}
	return n
}

// HasLesson reports whether lessonID exists within moduleID.
func (c *Catalog) HasLesson(moduleID, lessonID string) bool {
	m, ok := c.Module(moduleID)
	if !ok {
		return false
	}
	for _, l := range m.Lessons {
		if l == lessonID {
			return true
		}
	}
	return false
}

// Validate checks structural invariants: at least one module, unique module
// ids, and at least one lesson with unique ids per module.
func (c *Catalog) Validate() error {
	if len(c.Modules) == 0 {
		return fmt.Errorf("catalog has no modules")
	}
	seenModules := make(map[string]bool, len(c.Modules))
	for _, m := range c.Modules {
		if m.ID == "" {
			return fmt.Errorf("catalog module with empty id")
		}
		if seenModules[m.ID] {
			return fmt.Errorf("duplicate module id %q", m.ID)
		}
		seenModules[m.ID] = true

		if len(m.Lessons) == 0 {
			return fmt.Errorf("module %q has no lessons", m.ID)
		}
		seenLessons := make(map[string]bool, len(m.Lessons))
		for _, l := range m.Lessons {
			if l == "" {
				return fmt.Errorf("module %q has a lesson with empty id", m.ID)
			}
			if seenLessons[l] {
				return fmt.Errorf("module %q has duplicate lesson id %q", m.ID, l)
			}
			seenLessons[l] = true
		}
	}
	return nil
}
