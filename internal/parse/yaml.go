package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/value"
	"go.yaml.in/yaml/v3"
)

// maxAliasDepth bounds alias expansion so that recursive anchors terminate.
const maxAliasDepth = 32

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// YAML parses the first document of a YAML stream. An empty stream yields a
// Null root.
func YAML(data []byte, file diag.File) (*value.Value, []diag.Diagnostic) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		location := ""
		if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
			n, _ := strconv.Atoi(m[1])
			location = diag.Line(n)
		}
		msg := strings.TrimPrefix(err.Error(), "yaml: ")
		return nil, []diag.Diagnostic{diag.New(file, diag.Error, diag.SyntaxError, location, "Invalid YAML syntax: %s", msg)}
	}
	if doc.Kind == 0 {
		return &value.Value{Kind: value.Null, Line: 1, Column: 1}, nil
	}
	return fromYAML(&doc, 0), nil
}

func fromYAML(n *yaml.Node, depth int) *value.Value {
	if n == nil || depth > maxAliasDepth {
		return &value.Value{Kind: value.Null}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &value.Value{Kind: value.Null, Line: n.Line, Column: n.Column}
		}
		return fromYAML(n.Content[0], depth)
	case yaml.AliasNode:
		return fromYAML(n.Alias, depth+1)
	case yaml.MappingNode:
		m := value.NewMapping(n.Line, n.Column)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m.Set(n.Content[i].Value, fromYAML(n.Content[i+1], depth))
		}
		return m
	case yaml.SequenceNode:
		seq := &value.Value{Kind: value.Sequence, Line: n.Line, Column: n.Column}
		for _, item := range n.Content {
			seq.Items = append(seq.Items, fromYAML(item, depth))
		}
		return seq
	}
	return yamlScalar(n)
}

func yamlScalar(n *yaml.Node) *value.Value {
	v := &value.Value{Kind: value.String, Text: n.Value, Line: n.Line, Column: n.Column}
	switch n.ShortTag() {
	case "!!null":
		v.Kind = value.Null
	case "!!bool":
		if b, err := strconv.ParseBool(strings.ToLower(n.Value)); err == nil {
			v.Kind, v.Bool = value.Bool, b
		}
	case "!!int", "!!float":
		text := strings.ReplaceAll(n.Value, "_", "")
		if i, err := strconv.ParseInt(text, 0, 64); err == nil {
			v.Kind, v.Num = value.Number, float64(i)
		} else if f, err := strconv.ParseFloat(text, 64); err == nil {
			v.Kind, v.Num = value.Number, f
		}
	}
	return v
}
