// Package expr scans the pipeline expression micro-language. An expression
// is written <+namespace.ident(.ident)*> and may appear anywhere inside a
// string; the scanner finds every occurrence and classifies what it refers
// to.
package expr

import (
	"strings"

	"github.com/viant/parsly"
)

const (
	Open  = "<+"
	Close = ">"
)

// Kind classifies an expression reference.
type Kind string

const (
	KindInput      Kind = "input"
	KindStepOutput Kind = "step-output"
	KindBuiltin    Kind = "builtin"
)

// Namespaces with dedicated resolution rules. Every other namespace is a
// platform built-in and is not validated further.
const (
	NamespaceInputs = "inputs"
	NamespaceSteps  = "steps"
)

// Token is one raw occurrence found in a string.
type Token struct {
	Raw    string
	Body   string
	Offset int
}

// Reference is a classified expression.
type Reference struct {
	Kind Kind
	Path []string
	Raw  string
}

// Namespace returns the first path element.
func (r Reference) Namespace() string {
	if len(r.Path) == 0 {
		return ""
	}
	return r.Path[0]
}

// Target returns the identifier the reference must resolve to: the input
// name for input references and the step name for step-output references.
func (r Reference) Target() string {
	if len(r.Path) < 2 {
		return ""
	}
	return r.Path[1]
}

// String renders the dotted path.
func (r Reference) String() string {
	return strings.Join(r.Path, ".")
}

// Scan returns every well-formed expression token in text plus the
// malformed ones: an opener without a closer, or an empty body.
func Scan(text string) (tokens []Token, malformed []Token) {
	if !strings.Contains(text, Open) {
		return nil, nil
	}
	cursor := parsly.NewCursor("", []byte(text), 0)
	for cursor.Pos < cursor.InputSize {
		start := cursor.Pos
		matched := cursor.MatchAny(expressionMatcher, textMatcher)
		switch matched.Code {
		case expressionToken:
			raw := matched.Text(cursor)
			tok := Token{Raw: raw, Body: strings.TrimSpace(raw[len(Open) : len(raw)-len(Close)]), Offset: start}
			if tok.Body == "" {
				malformed = append(malformed, tok)
				continue
			}
			tokens = append(tokens, tok)
		case textToken:
			if strings.HasPrefix(text[start:], Open) {
				malformed = append(malformed, Token{Raw: matched.Text(cursor), Offset: start})
			}
		default:
			return tokens, malformed
		}
	}
	return tokens, malformed
}

// Parse classifies a token by its leading identifier chain. Bodies that go
// on after the chain (method calls, operators) are classified by the chain
// alone. A body that does not start with an identifier is reported as not
// ok.
func Parse(tok Token) (Reference, bool) {
	path := identifierChain(tok.Body)
	if len(path) == 0 {
		return Reference{}, false
	}
	ref := Reference{Kind: KindBuiltin, Path: path, Raw: tok.Raw}
	if len(path) >= 2 {
		switch path[0] {
		case NamespaceInputs:
			ref.Kind = KindInput
		case NamespaceSteps:
			ref.Kind = KindStepOutput
		}
	}
	return ref, true
}

// Extract scans text and classifies every well-formed token. A token whose
// body holds further expressions, such as <+<+inputs.x>.trim()>, yields a
// builtin reference for the wrapper followed by the references inside it.
func Extract(text string) (refs []Reference, malformed []Token) {
	tokens, malformed := Scan(text)
	for _, tok := range tokens {
		if strings.Contains(tok.Body, Open) {
			inner, innerMalformed := Extract(tok.Body)
			refs = append(refs, Reference{Kind: KindBuiltin, Raw: tok.Raw})
			refs = append(refs, inner...)
			malformed = append(malformed, innerMalformed...)
			continue
		}
		if ref, ok := Parse(tok); ok {
			refs = append(refs, ref)
			continue
		}
		malformed = append(malformed, tok)
	}
	return refs, malformed
}

func identifierChain(body string) []string {
	var path []string
	i := 0
	for {
		start := i
		if i >= len(body) || !isIdentStart(body[i]) {
			break
		}
		for i < len(body) && isIdentPart(body[i]) {
			i++
		}
		path = append(path, body[start:i])
		if i+1 < len(body) && body[i] == '.' && isIdentStart(body[i+1]) {
			i++
			continue
		}
		break
	}
	return path
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '-'
}
