package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Compiles(t *testing.T) {
	c := Default()
	require.NotNil(t, c)
	require.NoError(t, c.Validate())

	assert.Len(t, c.Modules, 3)
	assert.Equal(t, "foundations", c.Modules[0].ID)
	assert.Equal(t, 9, c.TotalLessons())
}

func TestCompileCUE_FullModule(t *testing.T) {
	src := `
catalog: modules: [
	{
		id:                "solo"
		title:             "Solo Module"
		lessons:           ["a", "b"]
		xp_per_lesson:     25
		practice_override: true
	},
]
`
	c, err := CompileCUE([]byte(src))
	require.NoError(t, err)
	require.Len(t, c.Modules, 1)

	m := c.Modules[0]
	assert.Equal(t, "solo", m.ID)
	assert.Equal(t, "Solo Module", m.Title)
	assert.Equal(t, []string{"a", "b"}, m.Lessons)
	assert.Equal(t, 25, m.XPPerLesson)
	assert.True(t, m.PracticeOverride)
}

func TestCompileCUE_MissingModules(t *testing.T) {
	_, err := CompileCUE([]byte(`other: 1`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.modules is required")
}

func TestCompileCUE_MissingLessons(t *testing.T) {
	src := `catalog: modules: [{id: "x", title: "X"}]`
	_, err := CompileCUE([]byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lessons is required")
}

func TestCompileCUE_DuplicateModuleIDs(t *testing.T) {
	src := `
catalog: modules: [
	{id: "x", title: "X", lessons: ["a"]},
	{id: "x", title: "X again", lessons: ["b"]},
]
`
	_, err := CompileCUE([]byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate module id")
}

func TestCompileCUE_Malformed(t *testing.T) {
	_, err := CompileCUE([]byte(`catalog: modules: [{id: 42}]`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.cue")
	src := `catalog: modules: [{id: "m1", title: "M1", lessons: ["l1"], xp_per_lesson: 5}]`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "m1", c.Modules[0].ID)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.cue"))
	assert.Error(t, err)
}

func TestCatalog_Lookups(t *testing.T) {
	c := Default()

	m, ok := c.Module("building-blocks")
	require.True(t, ok)
	assert.Equal(t, "Building Blocks", m.Title)

	_, ok = c.Module("unknown")
	assert.False(t, ok)

	assert.Equal(t, 1, c.Index("building-blocks"))
	assert.Equal(t, -1, c.Index("unknown"))

	assert.True(t, c.HasLesson("foundations", "intro"))
	assert.False(t, c.HasLesson("foundations", "capstone"))
	assert.False(t, c.HasLesson("unknown", "intro"))
}

func TestCatalog_Validate(t *testing.T) {
	assert.Error(t, (&Catalog{}).Validate())

	dupLessons := &Catalog{Modules: []Module{
		{ID: "x", Title: "X", Lessons: []string{"a", "a"}},
	}}
	err := dupLessons.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate lesson id")
}
