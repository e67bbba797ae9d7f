package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thisrohangupta/agents/internal/diag"
)

// isolate points the user config at a temp dir and runs from an empty
// working directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("TEMPLINT_HOME", home)
	t.Chdir(t.TempDir())
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	require.NoError(t, Load(""))

	s, err := Current()
	require.NoError(t, err)
	assert.Equal(t, "text", s.Format)
	assert.False(t, s.Strict)
	assert.True(t, s.Prose)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Empty(t, s.Overrides)
}

func TestLoadMergesProjectOverUser(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "format: json\nworkers: 3\ncache: /tmp/user.db\n")
	writeFile(t, ".templint.yaml", "workers: 8\nstrict: true\n")

	require.NoError(t, Load(""))
	s, err := Current()
	require.NoError(t, err)
	assert.Equal(t, "json", s.Format)
	assert.Equal(t, 8, s.Workers)
	assert.True(t, s.Strict)
	assert.Equal(t, "/tmp/user.db", s.Cache)
}

func TestEnvironmentOverridesFiles(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "strict: false\nlog:\n  level: info\n")
	t.Setenv("TEMPLINT_STRICT", "true")
	t.Setenv("TEMPLINT_LOG_LEVEL", "debug")

	require.NoError(t, Load(""))
	s, err := Current()
	require.NoError(t, err)
	assert.True(t, s.Strict)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "ci.yaml")
	writeFile(t, path, "format: json\n")
	require.NoError(t, Load(path))
	assert.Equal(t, "json", Get(KeyFormat))

	assert.Error(t, Load(filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestInvalidFormat(t *testing.T) {
	isolate(t)
	writeFile(t, ".templint.yaml", "format: xml\n")
	require.NoError(t, Load(""))
	_, err := Current()
	assert.ErrorContains(t, err, `invalid format "xml"`)
}

func TestRuleOverrides(t *testing.T) {
	isolate(t)
	writeFile(t, ".templint.yaml", `rules:
  IMAGE_TAG:
    severity: warning
  description_punctuation:
    disabled: true
`)
	require.NoError(t, Load(""))

	overrides, err := Overrides()
	require.NoError(t, err)
	require.Len(t, overrides, 2)

	tag := overrides[diag.ImageTag]
	require.NotNil(t, tag.Severity)
	assert.Equal(t, diag.Warning, *tag.Severity)
	assert.False(t, tag.Disabled)

	punct := overrides[diag.DescriptionPunctuation]
	assert.Nil(t, punct.Severity)
	assert.True(t, punct.Disabled)
}

func TestRuleOverrideBadSeverity(t *testing.T) {
	isolate(t)
	writeFile(t, ".templint.yaml", "rules:\n  IMAGE_TAG:\n    severity: fatal\n")
	require.NoError(t, Load(""))
	_, err := Overrides()
	assert.ErrorContains(t, err, "rule IMAGE_TAG")
}

func TestSetWritesUserFileOnly(t *testing.T) {
	home := isolate(t)
	writeFile(t, ".templint.yaml", "workers: 8\n")
	require.NoError(t, Load(""))

	require.NoError(t, Set(KeyCache, "/var/cache/templint.db"))
	assert.Equal(t, "/var/cache/templint.db", Get(KeyCache))

	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "/var/cache/templint.db")
	assert.NotContains(t, string(data), "workers")

	require.NoError(t, Load(""))
	assert.Equal(t, "/var/cache/templint.db", Get(KeyCache))
}
