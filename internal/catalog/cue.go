package catalog

import (
	"fmt"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// defaultCUE is the compiled-in catalog used when no catalog file is
// configured. It doubles as a reference for the expected CUE shape.
const defaultCUE = `
catalog: modules: [
	{
		id:            "foundations"
		title:         "Foundations"
		lessons:       ["intro", "core-concepts", "first-steps"]
		xp_per_lesson: 10
	},
	{
		id:            "building-blocks"
		title:         "Building Blocks"
		lessons:       ["composition", "patterns", "pitfalls", "review"]
		xp_per_lesson: 15
	},
	{
		id:            "mastery"
		title:         "Mastery"
		lessons:       ["advanced-topics", "capstone"]
		xp_per_lesson: 20
	},
]
`

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the compiled-in catalog. Panics only if the embedded CUE
// source is malformed, which is a build defect, not a runtime condition.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := CompileCUE([]byte(defaultCUE))
		if err != nil {
			panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadFile reads and compiles a CUE catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	c, err := CompileCUE(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}

// CompileCUE parses CUE source into a validated Catalog.
//
// Uses the CUE SDK's Go API directly (not a CLI subprocess). The source must
// define catalog.modules as a list of module structs.
func CompileCUE(src []byte) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile catalog CUE: %w", err)
	}

	modulesVal := v.LookupPath(cue.ParsePath("catalog.modules"))
	if !modulesVal.Exists() {
		return nil, fmt.Errorf("catalog CUE: catalog.modules is required")
	}

	iter, err := modulesVal.List()
	if err != nil {
		return nil, fmt.Errorf("catalog CUE: catalog.modules must be a list: %w", err)
	}

	c := &Catalog{}
	for iter.Next() {
		m, err := compileModule(iter.Value())
		if err != nil {
			return nil, err
		}
		c.Modules = append(c.Modules, m)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog CUE: %w", err)
	}
	return c, nil
}

// compileModule parses a single module struct from a CUE value.
func compileModule(v cue.Value) (Module, error) {
	var m Module

	id, err := stringField(v, "id")
	if err != nil {
		return Module{}, err
	}
	m.ID = id

	title, err := stringField(v, "title")
	if err != nil {
		return Module{}, err
	}
	m.Title = title

	lessonsVal := v.LookupPath(cue.ParsePath("lessons"))
	if !lessonsVal.Exists() {
		return Module{}, fmt.Errorf("module %q: lessons is required", m.ID)
	}
	lessonIter, err := lessonsVal.List()
	if err != nil {
		return Module{}, fmt.Errorf("module %q: lessons must be a list: %w", m.ID, err)
	}
	for lessonIter.Next() {
		lesson, err := lessonIter.Value().String()
		if err != nil {
			return Module{}, fmt.Errorf("module %q: lesson id must be a string: %w", m.ID, err)
		}
		m.Lessons = append(m.Lessons, lesson)
	}

	xpVal := v.LookupPath(cue.ParsePath("xp_per_lesson"))
	if xpVal.Exists() {
		xp, err := xpVal.Int64()
		if err != nil {
			return Module{}, fmt.Errorf("module %q: xp_per_lesson must be an int: %w", m.ID, err)
		}
		m.XPPerLesson = int(xp)
	}

	overrideVal := v.LookupPath(cue.ParsePath("practice_override"))
	if overrideVal.Exists() {
		override, err := overrideVal.Bool()
		if err != nil {
			return Module{}, fmt.Errorf("module %q: practice_override must be a bool: %w", m.ID, err)
		}
		m.PracticeOverride = override
	}

	return m, nil
}

func stringField(v cue.Value, name string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(name))
	if !fieldVal.Exists() {
		return "", fmt.Errorf("catalog module: %s is required", name)
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", fmt.Errorf("catalog module: %s must be a string: %w", name, err)
	}
	return s, nil
}
