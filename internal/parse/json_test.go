package parse

import (
	"testing"

	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/value"
)

func TestJSONKeepsKeyOrderAndPositions(t *testing.T) {
	src := []byte("{\n  \"name\": \"feature flag cleanup\",\n  \"version\": \"1.0.0\",\n  \"tags\": [\"a\", 2, true, null]\n}\n")
	root, diags := JSON(src, diag.FileMetadata)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got := root.Keys; len(got) != 3 || got[0] != "name" || got[2] != "tags" {
		t.Fatalf("Keys = %v", got)
	}
	name := root.Get("name")
	if name.Text != "feature flag cleanup" || name.Line != 2 {
		t.Errorf("name = %q at line %d, want line 2", name.Text, name.Line)
	}
	if v := root.Get("version"); v.Line != 3 {
		t.Errorf("version line = %d, want 3", v.Line)
	}
	tags := root.Get("tags")
	if !tags.Is(value.Sequence) || len(tags.Items) != 4 {
		t.Fatalf("tags = %+v", tags)
	}
	if n, ok := tags.Items[1].Int(); !ok || n != 2 {
		t.Errorf("tags[1] = %v", tags.Items[1])
	}
	if !tags.Items[2].Is(value.Bool) || !tags.Items[3].Is(value.Null) {
		t.Errorf("tags[2..3] kinds = %v, %v", tags.Items[2].Kind, tags.Items[3].Kind)
	}
}

func TestJSONSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		location string
	}{
		{"trailing comma", "{\n  \"name\": \"x\",\n}", "line 3, column 1"},
		{"empty", "", "line 1, column 1"},
		{"unterminated", "{\"name\": \"x\"", "line 1, column 13"},
		{"trailing data", "{}\n{}", "line 2, column 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, diags := JSON([]byte(tt.src), diag.FileMetadata)
			if root != nil {
				t.Errorf("expected nil tree, got %+v", root)
			}
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
			}
			d := diags[0]
			if d.Code != diag.SyntaxError || d.Severity != diag.Error || d.File != diag.FileMetadata {
				t.Errorf("diagnostic = %v", d)
			}
			if d.Location != tt.location {
				t.Errorf("location = %q, want %q", d.Location, tt.location)
			}
		})
	}
}

func TestJSONByteOrderMark(t *testing.T) {
	root, diags := JSON([]byte("\uFEFF{\"name\": \"x\"}"), diag.FileMetadata)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if name := root.Get("name"); name.Text != "x" || name.Line != 1 || name.Column != 10 {
		t.Errorf("name = %q at %d:%d, want x at 1:10", name.Text, name.Line, name.Column)
	}
}
