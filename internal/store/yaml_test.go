package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznecov/estima/internal/model"
)

func TestProjectRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "course.estima.yml")
	s := NewYAMLStore("")

	project := model.NewProject("Course estimate")
	item := model.NewItem("Long-read article", model.CategoryContent)
	item.HoursPerUnit = 2.5
	item.Quantity = 4
	project.AddItem(item)
	project.SetCostOverride(item.ID, 9000)

	require.NoError(t, s.SaveProject(path, project))

	loaded, err := s.LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, project.ID, loaded.ID)
	assert.Equal(t, "Course estimate", loaded.Name)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, item.ID, loaded.Items[0].ID)
	assert.Equal(t, 2.5, loaded.Items[0].HoursPerUnit)
	assert.True(t, loaded.Items[0].Overrides.Cost)
	assert.Equal(t, 9000.0, loaded.CostOverrides[item.ID])
}

func TestLoadOrCreateProject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.estima.yml")
	s := NewYAMLStore("")

	project, created, err := s.LoadOrCreateProject(path, "New course")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "New course", project.Name)

	again, created, err := s.LoadOrCreateProject(path, "ignored")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, project.ID, again.ID)
}

func TestLoadProjectNormalizesSparseFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sparse.estima.yml")

	// A hand-written file with most fields omitted
	content := `
id: proj1
name: Sparse
items:
  - id: item1
    name: Quiz
    category: content
    hoursPerUnit: 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	project, err := NewYAMLStore("").LoadProject(path)
	require.NoError(t, err)
	require.Len(t, project.Items, 1)
	assert.Equal(t, 1, project.Items[0].Quantity)
	assert.Equal(t, 1.0, project.Items[0].RoleMultiplier)
	assert.Equal(t, 1.0, project.Items[0].QualityLevel)
	assert.NotNil(t, project.CostOverrides)
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".estima.yml")
	s := NewYAMLStore(path)

	config := model.DefaultConfig()
	config.Currency = "EUR"
	config.HourlyRate = 80
	require.NoError(t, s.SaveConfig(config))

	loaded, err := s.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "EUR", loaded.Currency)
	assert.Equal(t, 80.0, loaded.HourlyRate)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	s := NewYAMLStore(filepath.Join(t.TempDir(), ".estima.yml"))
	config, err := s.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig().Currency, config.Currency)
}

func TestListProjects(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.estima.yml"), []byte("name: A"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.estima.yml"), []byte("name: B"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".estima.yml"), []byte("currency: USD"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	files, err := NewYAMLStore("").ListProjects(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.estima.yml", "b.estima.yml"}, files)
}
