package scaffold_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thisrohangupta/agents/internal/engine"
	"github.com/thisrohangupta/agents/internal/prose"
	"github.com/thisrohangupta/agents/internal/scaffold"
)

func TestNewData(t *testing.T) {
	d, err := scaffold.NewData("flag-cleanup")
	require.NoError(t, err)
	assert.Equal(t, "flag cleanup", d.Name)
	assert.Equal(t, "Flag Cleanup", d.Title)
	assert.Equal(t, "0.1.0", d.Version)

	for _, bad := range []string{"", "Flag-Cleanup", "flag_cleanup", "-flag", "flag--cleanup", "flag cleanup"} {
		_, err := scaffold.NewData(bad)
		assert.Error(t, err, bad)
	}
}

func TestGeneratedBundleLintsClean(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "release-notes-2")
	d, err := scaffold.NewData("release-notes-2")
	require.NoError(t, err)

	result, err := scaffold.Generate(d, dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"logo.svg", "metadata.json", "pipeline.yaml", "wiki.MD"}, result.Files)

	r, err := engine.New(engine.Options{Prose: prose.Heuristic{}}).LintPath(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, r.Diagnostics)
	assert.True(t, r.Passed)
}

func TestGenerateRefusesNonEmptyDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0644))

	d, err := scaffold.NewData("demo")
	require.NoError(t, err)
	_, err = scaffold.Generate(d, dir)
	assert.ErrorContains(t, err, "is not empty")

	data, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}
