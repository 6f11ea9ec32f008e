package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenariosDir() string {
	return filepath.Join("..", "..", "testdata", "scenarios")
}

// writeScenario writes a scenario YAML file into dir.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTestCommandRepoScenarios(t *testing.T) {
	out, err := execute(t, "test", scenariosDir())
	require.NoError(t, err, out)

	assert.Contains(t, out, "✓ bubble_reversed")
	assert.Contains(t, out, "✓ bfs_open_3x3")
	assert.Contains(t, out, "✓ bogo_exhausted")
	assert.Contains(t, out, "✓ maze_astar")
	assert.Contains(t, out, "✓ quick_cancelled")
	assert.Contains(t, out, "Test Summary: 5 passed, 0 failed, 5 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandJSON(t *testing.T) {
	env, err := executeJSON(t, "test", scenariosDir(), "--filter", "b*")
	require.NoError(t, err)
	assert.Equal(t, "ok", env.Status)

	var result TestResult
	decodeData(t, env, &result)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Passed)
	for _, s := range result.Scenarios {
		assert.True(t, s.Pass, s.Name)
		assert.NotEmpty(t, s.Kind)
	}
}

func TestTestCommandFailingExpectation(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "wrong", `
name: wrong
sort: { algorithm: insertion, numbers: [2, 1] }
expect: { final: [2, 1] }
`)

	env, err := executeJSON(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	require.NotNil(t, env.Error)
	assert.Equal(t, "E_TEST_FAILED", env.Error.Code)

	var result TestResult
	decodeData(t, env, &result)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Scenarios, 1)
	assert.NotEmpty(t, result.Scenarios[0].Errors)
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "heap_small", `
name: heap_small
sort: { algorithm: heap, numbers: [4, 1, 3, 2] }
expect: { success: true }
`)

	out, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ heap_small (golden updated)")

	goldenPath := filepath.Join(dir, "golden", "heap_small.golden")
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name":"heap_small"`)

	out, err = execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ heap_small")

	// A changed golden is a failure.
	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"tampered":true}`), 0644))
	out, err = execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "typo", `
name: typo
sort: { algorithm: bubble, numbers: [1] }
assertion: []
`)

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ typo.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandNoScenarios(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandMissingDir(t *testing.T) {
	_, err := execute(t, "test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "sort_a", "name: a")
	writeScenario(t, dir, "search_b", "name: b")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	writeScenario(t, filepath.Join(dir, "golden"), "ignored", "name: ignored")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = findScenarioFiles(dir, "sort_*")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "sort_a.yaml", filepath.Base(files[0]))

	_, err = findScenarioFiles(dir, "[")
	assert.Error(t, err)
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("scenarios", "golden", "bogo.golden"),
		goldenFilePath(filepath.Join("scenarios", "bogo.yaml")))
}
