package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thisrohangupta/agents/internal/diag"
)

func sample() *Report {
	return New("flag-cleanup", []diag.Diagnostic{
		{Severity: diag.Error, Code: diag.NameFormat, Message: "bad name", File: diag.FileMetadata, Location: "line 2"},
		{Severity: diag.Warning, Code: diag.InputsMissing, Message: "No 'inputs' section defined", File: diag.FilePipeline},
		{Severity: diag.Info, Code: diag.IconFileMissing, Message: "File not found (optional)", File: diag.FileIcon},
	}, []Check{
		{File: diag.FileMetadata, Code: diag.VersionFormat, Title: "'version' follows semver format"},
		{File: diag.FilePipeline, Title: "Valid YAML syntax"},
		{File: diag.FileWiki, Title: "Title present"},
	})
}

func TestNewSummary(t *testing.T) {
	r := sample()
	assert.Equal(t, Summary{Errors: 1, Warnings: 1, Infos: 1}, r.Summary)
	assert.False(t, r.Passed)

	clean := New("x", nil, nil)
	assert.True(t, clean.Passed)
	assert.NotNil(t, clean.Diagnostics)
}

func TestExitCode(t *testing.T) {
	warn := New("w", []diag.Diagnostic{{Severity: diag.Warning}}, nil)
	info := New("i", []diag.Diagnostic{{Severity: diag.Info}}, nil)
	tests := []struct {
		name    string
		reports []*Report
		strict  bool
		want    int
	}{
		{"clean", []*Report{info}, false, ExitClean},
		{"warnings", []*Report{info, warn}, false, ExitWarnings},
		{"strict warnings", []*Report{warn}, true, ExitFailed},
		{"errors", []*Report{warn, sample()}, false, ExitFailed},
		{"none", nil, true, ExitClean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.reports, tt.strict))
		})
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sample()))
	want := `
## Template: flag-cleanup
--------------------------------------------------

metadata.json
  ✅ 'version' follows semver format
  ❌ NAME_FORMAT: bad name (line 2)

pipeline.yaml
  ✅ Valid YAML syntax
  ⚠️  INPUTS_MISSING: No 'inputs' section defined

wiki.MD
  ✅ Title present

logo.svg
  ℹ️  ICON_FILE_MISSING: File not found (optional)

  Summary
  Errors: 1 (must fix)
  Warnings: 1 (should fix)
  Info: 1
  ❌ Status: FAILED (1 error(s) must be fixed)
`
	assert.Equal(t, want, buf.String())

	var again bytes.Buffer
	require.NoError(t, WriteText(&again, sample()))
	assert.Equal(t, buf.Bytes(), again.Bytes())
}

func TestWriteTextPassed(t *testing.T) {
	var buf bytes.Buffer
	r := New("ok", []diag.Diagnostic{{Severity: diag.Warning, Code: "W", Message: "m", File: diag.FileBundle}}, nil)
	require.NoError(t, WriteText(&buf, r))
	assert.Contains(t, buf.String(), "\nbundle\n  ⚠️  W: m\n")
	assert.Contains(t, buf.String(), "  ✅ Status: PASSED with 1 warning(s)\n")
	assert.Contains(t, buf.String(), "\nmetadata.json\n  (no checks ran)\n")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample()))

	var one map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &one))
	assert.Equal(t, "flag-cleanup", one["template"])
	assert.Equal(t, false, one["passed"])
	assert.NotContains(t, one, "checks")
	first := one["diagnostics"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{
		"severity": "error",
		"code":     "NAME_FORMAT",
		"message":  "bad name",
		"file":     "metadata.json",
		"location": "line 2",
	}, first)
	assert.Equal(t, map[string]any{"errors": 1.0, "warnings": 1.0, "infos": 1.0}, one["summary"])

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, sample(), New("x", nil, nil)))
	var many []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &many))
	require.Len(t, many, 2)
	assert.Equal(t, []any{}, many[1]["diagnostics"])
}

func TestReportRoundTripsThroughJSON(t *testing.T) {
	data, err := json.Marshal(sample())
	require.NoError(t, err)
	var back Report
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, sample(), &back)
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, []*Report{sample(), New("ok", nil, nil)}))
	want := `
============================================================
VALIDATION SUMMARY
============================================================

Templates validated: 2
  Passed: 1
  Failed: 1

Total errors: 1
Total warnings: 1

Failed templates:
  - flag-cleanup

❌ Validation FAILED
`
	assert.Equal(t, want, buf.String())
}
