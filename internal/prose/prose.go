package prose

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/model"
)

// Advice codes produced by Heuristic.
const (
	RepeatedWord = "REPEATED_WORD"
	DoubleSpace  = "DOUBLE_SPACE"
	LongSentence = "LONG_SENTENCE"
)

// Advice is one suggestion about a piece of text.
type Advice struct {
	Code    string
	Message string
}

// Checker reviews free text.
type Checker interface {
	Check(ctx context.Context, text string) []Advice
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, text string) []Advice

func (f CheckerFunc) Check(ctx context.Context, text string) []Advice { return f(ctx, text) }

// Heuristic is the built-in offline checker.
type Heuristic struct {
	MaxSentenceWords int // 0 means 40
}

func (h Heuristic) Check(_ context.Context, text string) []Advice {
	var out []Advice
	if strings.Contains(text, "  ") {
		out = append(out, Advice{Code: DoubleSpace, Message: "Text contains doubled spaces"})
	}
	if w, ok := repeatedWord(text); ok {
		out = append(out, Advice{Code: RepeatedWord, Message: "Repeated word '" + w + "'"})
	}
	limit := h.MaxSentenceWords
	if limit <= 0 {
		limit = 40
	}
	for _, sentence := range sentences(text) {
		if n := len(strings.Fields(sentence)); n > limit {
			out = append(out, Advice{Code: LongSentence, Message: fmt.Sprintf("Sentence has more than %d words; consider splitting it", limit)})
			break
		}
	}
	return out
}

func repeatedWord(text string) (string, bool) {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	for i := 1; i < len(words); i++ {
		if len(words[i]) > 1 && strings.EqualFold(words[i], words[i-1]) {
			return strings.ToLower(words[i]), true
		}
	}
	return "", false
}

func sentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool { return r == '.' || r == '!' || r == '?' })
}

// Diagnostics runs checker over the metadata description and the wiki
// paragraphs of b.
func Diagnostics(ctx context.Context, checker Checker, b *model.Bundle) []diag.Diagnostic {
	if checker == nil || b == nil {
		return nil
	}
	var out []diag.Diagnostic
	emit := func(file diag.File, location, text string) {
		for _, a := range checker.Check(ctx, text) {
			out = append(out, diag.Diagnostic{
				Severity: diag.Info,
				Code:     diag.Code(diag.ProsePrefix + a.Code),
				Message:  a.Message,
				File:     file,
				Location: location,
			})
		}
	}
	if m := b.Metadata; m != nil && m.Has(model.FieldDescription) {
		emit(diag.FileMetadata, diag.Line(m.Line(model.FieldDescription)), m.Description)
	}
	if w := b.Wiki; w != nil {
		for _, p := range w.Paragraphs {
			if ctx.Err() != nil {
				break
			}
			emit(diag.FileWiki, diag.Line(p.Line), p.Text)
		}
	}
	return out
}
