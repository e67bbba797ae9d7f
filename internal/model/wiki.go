package model

import (
	"strings"

	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/parse"
)

// Canonical inputs-table columns.
const (
	ColumnInput       = "input"
	ColumnType        = "type"
	ColumnRequired    = "required"
	ColumnDefault     = "default"
	ColumnDescription = "description"
)

var knownColumns = map[string]bool{
	ColumnInput:       true,
	ColumnType:        true,
	ColumnRequired:    true,
	ColumnDefault:     true,
	ColumnDescription: true,
}

// Wiki is the semantic record of wiki.MD.
type Wiki struct {
	Title      string
	TitleLine  int
	HasTitle   bool
	Sections   []Section
	Inputs     *InputsTable // nil when no table follows an Inputs heading
	CodeBlocks []CodeBlock
	Paragraphs []Paragraph
}

func (*Wiki) File() diag.File { return diag.FileWiki }
func (*Wiki) model()          {}

// HasSection reports whether a level-2 heading starts with prefix, compared
// case-insensitively.
func (w *Wiki) HasSection(prefix string) bool {
	for _, s := range w.Sections {
		if s.Level == 2 && titleHasPrefix(s.Title, prefix) {
			return true
		}
	}
	return false
}

// Section is a heading below the title.
type Section struct {
	Title string
	Level int
	Line  int
}

// CodeBlock is a fenced code block.
type CodeBlock struct {
	Lang string
	Line int
}

// Paragraph is one block of prose.
type Paragraph struct {
	Text string
	Line int
}

// InputsTable is the documented inputs table.
type InputsTable struct {
	Line    int
	Columns []string // canonical names of the known columns, in table order
	Rows    []InputRow
}

// HasColumn reports whether the table carries the canonical column name.
func (t *InputsTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Row returns the first row documenting name, or nil.
func (t *InputsTable) Row(name string) *InputRow {
	for i := range t.Rows {
		if t.Rows[i].Name == name {
			return &t.Rows[i]
		}
	}
	return nil
}

// InputRow is one documented input.
type InputRow struct {
	Name        string
	Type        string
	Required    bool
	Default     string
	HasDefault  bool
	Description string
	Line        int
}

func buildWikiFrom(tree any) (*Wiki, []diag.Diagnostic) {
	doc, _ := tree.(*parse.Document)
	return BuildWiki(doc)
}

// BuildWiki projects a classified Markdown document.
func BuildWiki(doc *parse.Document) (*Wiki, []diag.Diagnostic) {
	if doc == nil {
		return nil, nil
	}
	w := &Wiki{}
	var diagnostics []diag.Diagnostic
	inputsLevel := 0

	for _, block := range doc.Blocks {
		switch block.Kind {
		case parse.HeadingBlock:
			title := strings.TrimSpace(block.Text)
			if block.Level == 1 && !w.HasTitle {
				w.Title, w.TitleLine, w.HasTitle = title, block.Line, true
				continue
			}
			w.Sections = append(w.Sections, Section{Title: title, Level: block.Level, Line: block.Line})
			switch {
			case w.Inputs == nil && isInputsHeading(title):
				inputsLevel = block.Level
			case inputsLevel > 0 && block.Level <= inputsLevel:
				inputsLevel = 0
			}
		case parse.TableBlock:
			if inputsLevel > 0 && w.Inputs == nil {
				var ds []diag.Diagnostic
				w.Inputs, ds = inputsTable(block)
				diagnostics = append(diagnostics, ds...)
				inputsLevel = 0
			}
		case parse.CodeFenceBlock:
			w.CodeBlocks = append(w.CodeBlocks, CodeBlock{Lang: block.Lang, Line: block.Line})
		case parse.ParagraphBlock:
			w.Paragraphs = append(w.Paragraphs, Paragraph{Text: block.Text, Line: block.Line})
		}
	}
	return w, diagnostics
}

// InputsSection is the heading whose table documents the pipeline inputs.
const InputsSection = "Inputs"

func isInputsHeading(title string) bool {
	return titleHasPrefix(title, InputsSection)
}

func titleHasPrefix(title, prefix string) bool {
	return len(title) >= len(prefix) && strings.EqualFold(title[:len(prefix)], prefix)
}

func inputsTable(block parse.Block) (*InputsTable, []diag.Diagnostic) {
	t := &InputsTable{Line: block.Line}
	var diagnostics []diag.Diagnostic

	index := map[string]int{}
	for i, header := range block.Header {
		name := normalizeColumn(header)
		if !knownColumns[name] {
			diagnostics = append(diagnostics, diag.New(diag.FileWiki, diag.Info, diag.WikiTableColumn,
				diag.Line(block.Line), "Inputs table has unknown column '%s'", strings.TrimSpace(header)))
			continue
		}
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = i
		t.Columns = append(t.Columns, name)
	}
	if _, ok := index[ColumnInput]; !ok {
		diagnostics = append(diagnostics, diag.New(diag.FileWiki, diag.Warning, diag.WikiTableColumn,
			diag.Line(block.Line), "Inputs table has no 'Input' column; rows cannot be matched"))
		return t, diagnostics
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	for i, row := range block.Rows {
		name := stripMarkup(cell(row, ColumnInput))
		if name == "" {
			continue
		}
		def := cell(row, ColumnDefault)
		t.Rows = append(t.Rows, InputRow{
			Name:        name,
			Type:        strings.ToLower(stripMarkup(cell(row, ColumnType))),
			Required:    isRequired(cell(row, ColumnRequired)),
			Default:     def,
			HasDefault:  hasDefault(def),
			Description: cell(row, ColumnDescription),
			Line:        block.Line + 2 + i,
		})
	}
	return t, diagnostics
}

func normalizeColumn(header string) string {
	return strings.ToLower(strings.TrimSuffix(stripMarkup(header), "?"))
}

// stripMarkup removes inline code and emphasis markers around a cell.
func stripMarkup(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "`*_"))
}

func isRequired(cell string) bool {
	switch strings.ToLower(stripMarkup(cell)) {
	case "yes", "y", "true", "required", "x", "✅", "✓", "✔":
		return true
	}
	return false
}

func hasDefault(cell string) bool {
	switch strings.ToLower(stripMarkup(cell)) {
	case "", "-", "—", "–", "n/a", "none":
		return false
	}
	return true
}
