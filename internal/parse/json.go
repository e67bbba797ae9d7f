package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/value"
)

// JSON parses a JSON document. Object keys keep their document order and
// every node records its line and column. A leading UTF-8 BOM is dropped.
func JSON(data []byte, file diag.File) (*value.Value, []diag.Diagnostic) {
	data = bytes.TrimPrefix(data, []byte("\uFEFF"))
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := decodeJSON(dec, data)
	if err == nil {
		offset := skipInsignificant(data, int(dec.InputOffset()))
		if _, trailing := dec.Token(); trailing != io.EOF {
			err = jsonTrailingError{offset: offset}
		}
	}
	if err != nil {
		return nil, []diag.Diagnostic{jsonSyntaxDiagnostic(data, file, err)}
	}
	return root, nil
}

type jsonTrailingError struct{ offset int }

func (e jsonTrailingError) Error() string { return "unexpected data after top-level value" }

func decodeJSON(dec *json.Decoder, src []byte) (*value.Value, error) {
	start := skipInsignificant(src, int(dec.InputOffset()))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	line, column := lineColumn(src, start)

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := value.NewMapping(line, column)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string")
				}
				child, err := decodeJSON(dec, src)
				if err != nil {
					return nil, err
				}
				obj.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			seq := &value.Value{Kind: value.Sequence, Line: line, Column: column}
			for dec.More() {
				child, err := decodeJSON(dec, src)
				if err != nil {
					return nil, err
				}
				seq.Items = append(seq.Items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return &value.Value{Kind: value.String, Text: t, Line: line, Column: column}, nil
	case json.Number:
		f, _ := t.Float64()
		return &value.Value{Kind: value.Number, Text: t.String(), Num: f, Line: line, Column: column}, nil
	case bool:
		return &value.Value{Kind: value.Bool, Bool: t, Line: line, Column: column}, nil
	case nil:
		return &value.Value{Kind: value.Null, Line: line, Column: column}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func jsonSyntaxDiagnostic(src []byte, file diag.File, err error) diag.Diagnostic {
	offset := -1
	var syntaxErr *json.SyntaxError
	var trailing jsonTrailingError
	switch {
	case errors.As(err, &syntaxErr):
		offset = int(syntaxErr.Offset)
	case errors.As(err, &trailing):
		offset = trailing.offset
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		offset = len(src)
		err = errors.New("unexpected end of JSON input")
	}
	location := ""
	if offset >= 0 {
		location = diag.LineColumn(lineColumn(src, offset))
	}
	return diag.New(file, diag.Error, diag.SyntaxError, location, "Invalid JSON syntax: %v", err)
}
