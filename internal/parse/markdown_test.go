package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/thisrohangupta/agents/internal/diag"
)

const wikiSample = "# Feature Flag Cleanup\n" +
	"\n" +
	"## Overview\n" +
	"\n" +
	"Removes stale flags.\n" +
	"\n" +
	"## Inputs\n" +
	"\n" +
	"| Input | Type | Required |\n" +
	"|-------|------|----------|\n" +
	"| `repo` | string | Yes |\n" +
	"| token | secret | No |\n" +
	"\n" +
	"```yaml\n" +
	"a: b\n" +
	"```\n" +
	"\n" +
	"```\n" +
	"plain\n" +
	"```\n"

func TestMarkdownBlocks(t *testing.T) {
	doc, diags := Markdown([]byte(wikiSample), diag.FileWiki)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	var kinds []BlockKind
	for _, b := range doc.Blocks {
		kinds = append(kinds, b.Kind)
	}
	want := []BlockKind{HeadingBlock, HeadingBlock, ParagraphBlock, HeadingBlock, TableBlock, CodeFenceBlock, CodeFenceBlock}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("block kinds mismatch (-want +got):\n%s", diff)
	}

	title := doc.Blocks[0]
	if title.Level != 1 || title.Text != "Feature Flag Cleanup" || title.Line != 1 {
		t.Errorf("title = %+v", title)
	}
	if doc.Blocks[3].Text != "Inputs" || doc.Blocks[3].Line != 7 {
		t.Errorf("inputs heading = %+v", doc.Blocks[3])
	}

	table := doc.Blocks[4]
	if diff := cmp.Diff([]string{"Input", "Type", "Required"}, table.Header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"repo", "string", "Yes"}, {"token", "secret", "No"}}, table.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if table.Line != 9 {
		t.Errorf("table line = %d, want 9", table.Line)
	}

	if doc.Blocks[5].Lang != "yaml" || doc.Blocks[5].Line != 14 {
		t.Errorf("first fence = %+v", doc.Blocks[5])
	}
	if doc.Blocks[6].Lang != "" {
		t.Errorf("second fence language = %q, want empty", doc.Blocks[6].Lang)
	}
}

func TestMarkdownInvalidUTF8(t *testing.T) {
	doc, diags := Markdown([]byte("# Title\n\nbad \xff byte\n"), diag.FileWiki)
	if len(diags) != 1 || diags[0].Code != diag.SyntaxError {
		t.Fatalf("diagnostics = %v", diags)
	}
	if diags[0].Location != "line 3, column 5" {
		t.Errorf("location = %q", diags[0].Location)
	}
	if len(doc.Blocks) == 0 || doc.Blocks[0].Text != "Title" {
		t.Error("document should still be parsed")
	}
}
