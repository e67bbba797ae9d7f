package parse

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/jacoelho/xsd/pkg/xmltext"
	"github.com/thisrohangupta/agents/internal/diag"
)

// XMLDocument summarises a well-formed XML document.
type XMLDocument struct {
	Root string
}

// XML checks that data is a well-formed XML document with a single root
// element. Content is not validated beyond that. A leading UTF-8 BOM and
// the declared encoding are handled by the decoder.
func XML(data []byte, file diag.File) (*XMLDocument, []diag.Diagnostic) {
	dec := xmltext.NewDecoder(bytes.NewReader(data), xmltext.Strict(true), xmltext.TrackLineColumn(true))

	doc := &XMLDocument{}
	for {
		_, err := dec.ReadToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, []diag.Diagnostic{xmlSyntaxError(file, err)}
		}
		// The first token that leaves one element open is the root start tag.
		if doc.Root == "" && dec.StackDepth() == 1 {
			doc.Root = rootName(dec.StackPointer())
		}
	}
	return doc, nil
}

// rootName strips the leading slash and ordinal from a one-element stack
// pointer such as "/svg[1]".
func rootName(pointer string) string {
	name := strings.TrimPrefix(pointer, "/")
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

func xmlSyntaxError(file diag.File, err error) diag.Diagnostic {
	var syntaxErr *xmltext.SyntaxError
	if errors.As(err, &syntaxErr) && syntaxErr.Line > 0 {
		return diag.New(file, diag.Error, diag.SyntaxError, diag.LineColumn(syntaxErr.Line, syntaxErr.Column),
			"Malformed XML: %v", syntaxErr.Err)
	}
	return diag.New(file, diag.Error, diag.SyntaxError, "", "Malformed XML: %v", err)
}
