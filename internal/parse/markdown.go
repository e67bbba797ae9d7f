package parse

import (
	"strings"
	"unicode/utf8"

	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// BlockKind classifies the Markdown blocks the wiki model cares about.
type BlockKind int

const (
	HeadingBlock BlockKind = iota + 1
	ParagraphBlock
	TableBlock
	CodeFenceBlock
)

// Block is one classified Markdown block. Only the fields relevant to Kind
// are set.
type Block struct {
	Kind   BlockKind
	Line   int
	Level  int
	Text   string
	Header []string
	Rows   [][]string
	Lang   string
}

// Document is the ordered block list of a Markdown file.
type Document struct {
	Blocks []Block
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown classifies headings, GFM pipe tables, fenced code blocks and
// paragraphs. Markdown has no invalid syntax, so the only diagnostic is for
// byte sequences that are not UTF-8; the document is still parsed.
func Markdown(data []byte, file diag.File) (*Document, []diag.Diagnostic) {
	var diagnostics []diag.Diagnostic
	if offset := invalidUTF8(data); offset >= 0 {
		diagnostics = append(diagnostics, diag.New(file, diag.Error, diag.SyntaxError,
			diag.LineColumn(lineColumn(data, offset)), "File is not valid UTF-8"))
	}
	src := []byte(strings.TrimPrefix(string(data), "\uFEFF"))

	root := markdown.Parser().Parse(text.NewReader(src))
	doc := &Document{}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  HeadingBlock,
				Line:  startLine(node, src),
				Level: node.Level,
				Text:  inlineText(node, src),
			})
			return ast.WalkSkipChildren, nil
		case *east.Table:
			doc.Blocks = append(doc.Blocks, tableBlock(node, src))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			block := Block{Kind: CodeFenceBlock, Lang: string(node.Language(src))}
			if node.Info != nil {
				block.Line, _ = lineColumn(src, node.Info.Segment.Start)
			} else if lines := node.Lines(); lines.Len() > 0 {
				block.Line, _ = lineColumn(src, lines.At(0).Start)
				block.Line--
			}
			doc.Blocks = append(doc.Blocks, block)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			doc.Blocks = append(doc.Blocks, Block{
				Kind: ParagraphBlock,
				Line: startLine(node, src),
				Text: inlineText(node, src),
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return doc, diagnostics
}

func tableBlock(table *east.Table, src []byte) Block {
	block := Block{Kind: TableBlock, Line: startLine(table, src)}
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, inlineText(cell, src))
		}
		if _, ok := row.(*east.TableHeader); ok {
			block.Header = cells
			continue
		}
		block.Rows = append(block.Rows, cells)
	}
	return block
}

// inlineText flattens the inline content of a block into plain text.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// startLine finds the first source line covered by n or its descendants.
func startLine(n ast.Node, src []byte) int {
	if t, ok := n.(*ast.Text); ok {
		line, _ := lineColumn(src, t.Segment.Start)
		return line
	}
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			line, _ := lineColumn(src, lines.At(0).Start)
			return line
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if line := startLine(c, src); line > 0 {
			return line
		}
	}
	return 0
}

func invalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
