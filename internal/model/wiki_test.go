package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/parse"
)

func buildWiki(t *testing.T, src string) (*Wiki, []diag.Diagnostic) {
	t.Helper()
	doc, ds := parse.Markdown([]byte(src), diag.FileWiki)
	require.Empty(t, ds)
	w, built := BuildWiki(doc)
	require.NotNil(t, w)
	return w, built
}

func TestBuildWiki(t *testing.T) {
	w, ds := buildWiki(t, "# Feature Flag Cleanup\n\n"+
		"## Overview\n\nRemoves stale flags.\n\n"+
		"## Inputs\n\nThe agent accepts:\n\n"+
		"| Description | `Input` | Required? | Type | Default | Notes |\n"+
		"|---|---|---|---|---|---|\n"+
		"| Repo to scan. | `repo` | Yes | String | - | |\n"+
		"| Dry run. | dryRun | no | boolean | `false` | |\n"+
		"| | | | | | |\n\n"+
		"## Usage\n\n```yaml\nrepo: x\n```\n\n```\nplain\n```\n")

	assert.Equal(t, "Feature Flag Cleanup", w.Title)
	assert.True(t, w.HasTitle)
	assert.True(t, w.HasSection("overview"))
	assert.True(t, w.HasSection("Inputs"))
	assert.False(t, w.HasSection("Key Capabilities"))

	require.Len(t, ds, 1)
	assert.Equal(t, diag.WikiTableColumn, ds[0].Code)
	assert.Equal(t, diag.Info, ds[0].Severity)
	assert.Contains(t, ds[0].Message, "'Notes'")

	require.NotNil(t, w.Inputs)
	assert.Equal(t, []string{ColumnDescription, ColumnInput, ColumnRequired, ColumnType, ColumnDefault}, w.Inputs.Columns)
	require.Len(t, w.Inputs.Rows, 2)
	repo := w.Inputs.Row("repo")
	require.NotNil(t, repo)
	assert.Equal(t, "string", repo.Type)
	assert.True(t, repo.Required)
	assert.False(t, repo.HasDefault)
	dry := w.Inputs.Row("dryRun")
	require.NotNil(t, dry)
	assert.False(t, dry.Required)
	assert.True(t, dry.HasDefault)

	require.Len(t, w.CodeBlocks, 2)
	assert.Equal(t, "yaml", w.CodeBlocks[0].Lang)
	assert.Equal(t, "", w.CodeBlocks[1].Lang)
	assert.NotEmpty(t, w.Paragraphs)
}

func TestBuildWikiTableOutsideInputsIgnored(t *testing.T) {
	w, _ := buildWiki(t, "# T\n\n## Matrix\n\n| Input | Type |\n|---|---|\n| a | string |\n\n## Inputs\n\nNone yet.\n\n## Other\n\n| Input | Type |\n|---|---|\n| b | string |\n")
	assert.Nil(t, w.Inputs)
}

func TestBuildWikiTableUnderSubheading(t *testing.T) {
	w, _ := buildWiki(t, "# T\n\n## Inputs\n\n### Required\n\n| Input | Type |\n|---|---|\n| a | string |\n")
	require.NotNil(t, w.Inputs)
	assert.NotNil(t, w.Inputs.Row("a"))
}

func TestBuildWikiInputsHeadingMatchesSection(t *testing.T) {
	w, _ := buildWiki(t, "# T\n\n## Inputs and Outputs\n\n| Input | Type |\n|---|---|\n| a | string |\n")
	assert.True(t, w.HasSection(InputsSection))
	require.NotNil(t, w.Inputs)
	assert.NotNil(t, w.Inputs.Row("a"))

	w, _ = buildWiki(t, "# T\n\n## Input Notes\n\n| Input | Type |\n|---|---|\n| a | string |\n")
	assert.False(t, w.HasSection(InputsSection))
	assert.Nil(t, w.Inputs)
}

func TestBuildWikiNoInputColumn(t *testing.T) {
	w, ds := buildWiki(t, "# T\n\n## Inputs\n\n| Name | Type |\n|---|---|\n| a | string |\n")
	require.NotNil(t, w.Inputs)
	assert.Empty(t, w.Inputs.Rows)
	assert.Equal(t, []diag.Code{diag.WikiTableColumn, diag.WikiTableColumn}, codes(ds))
}

func TestBuildWikiMissingTitle(t *testing.T) {
	w, _ := buildWiki(t, "## Overview\n\ntext\n")
	assert.False(t, w.HasTitle)
	assert.Equal(t, "", w.Title)
}

func TestBuildDispatch(t *testing.T) {
	m, ds := Build(diag.FileMetadata, nil, nil)
	assert.Nil(t, m)
	assert.Empty(t, ds)

	doc, _ := parse.Markdown([]byte("# T\n"), diag.FileWiki)
	m, _ = Build(diag.FileWiki, doc, nil)
	require.NotNil(t, m)
	assert.Equal(t, diag.FileWiki, m.File())

	var b Bundle
	b.Set(m)
	assert.NotNil(t, b.Wiki)
	assert.Len(t, b.Models(), 1)
}
