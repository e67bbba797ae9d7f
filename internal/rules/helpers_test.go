package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/model"
	"github.com/thisrohangupta/agents/internal/parse"
)

func metadataBundle(t *testing.T, src string) *model.Bundle {
	t.Helper()
	tree, ds := parse.JSON([]byte(src), diag.FileMetadata)
	require.Empty(t, ds)
	m, _ := model.BuildMetadata(tree, []byte(src))
	require.NotNil(t, m)
	return &model.Bundle{Metadata: m}
}

func pipelineBundle(t *testing.T, src string) *model.Bundle {
	t.Helper()
	tree, ds := parse.YAML([]byte(src), diag.FilePipeline)
	require.Empty(t, ds)
	p, _ := model.BuildPipeline(tree)
	require.NotNil(t, p)
	return &model.Bundle{Pipeline: p}
}

func wikiBundle(t *testing.T, src string) *model.Bundle {
	t.Helper()
	doc, _ := parse.Markdown([]byte(src), diag.FileWiki)
	w, _ := model.BuildWiki(doc)
	return &model.Bundle{Wiki: w}
}

// evaluate runs the single builtin rule registered under code.
func evaluate(t *testing.T, code diag.Code, b *model.Bundle) []diag.Diagnostic {
	t.Helper()
	r, ok := NewRegistry().MustRegister(Builtin()...).Lookup(code)
	require.True(t, ok, "rule %s not registered", code)
	return r.Evaluate(b)
}

func messages(ds []diag.Diagnostic) []string {
	var out []string
	for _, d := range ds {
		out = append(out, d.Message)
	}
	return out
}
