// Package value is a format-agnostic document tree. JSON and YAML parsers
// project their native nodes into it so that model builders and the
// expression scanner can walk every document the same way.
package value

import (
	"math"
	"strconv"
)

// Kind enumerates the node shapes a document can contain.
type Kind int

const (
	Null Kind = iota
	String
	Number
	Bool
	Sequence
	Mapping
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	}
	return "null"
}

// Value is one node. Scalars keep their source text in Text; mappings keep
// their keys in document order.
type Value struct {
	Kind   Kind
	Text   string
	Num    float64
	Bool   bool
	Items  []*Value
	Keys   []string
	Fields map[string]*Value
	Line   int
	Column int
}

// NewMapping returns an empty mapping positioned at line/column.
func NewMapping(line, column int) *Value {
	return &Value{Kind: Mapping, Fields: map[string]*Value{}, Line: line, Column: column}
}

// Set adds or replaces a mapping entry, keeping first-seen key order.
func (v *Value) Set(key string, child *Value) {
	if _, ok := v.Fields[key]; !ok {
		v.Keys = append(v.Keys, key)
	}
	v.Fields[key] = child
}

// Get returns the mapping entry for key, or nil. Safe on nil receivers and
// non-mappings.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != Mapping {
		return nil
	}
	return v.Fields[key]
}

// Has reports whether a mapping contains key, even when its value is null.
func (v *Value) Has(key string) bool {
	if v == nil || v.Kind != Mapping {
		return false
	}
	_, ok := v.Fields[key]
	return ok
}

// Is reports whether v is non-nil and of kind k.
func (v *Value) Is(k Kind) bool {
	return v != nil && v.Kind == k
}

// Str returns the string content of a String node.
func (v *Value) Str() (string, bool) {
	if v == nil || v.Kind != String {
		return "", false
	}
	return v.Text, true
}

// Int returns the integral value of a Number node.
func (v *Value) Int() (int, bool) {
	if v == nil || v.Kind != Number {
		return 0, false
	}
	if v.Num != math.Trunc(v.Num) || math.IsInf(v.Num, 0) {
		return 0, false
	}
	return int(v.Num), true
}

// Scalar renders any scalar as text. Containers and nil render as "".
func (v *Value) Scalar() string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case String, Number:
		return v.Text
	case Bool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

// IsScalar reports whether v is a non-null scalar.
func (v *Value) IsScalar() bool {
	return v != nil && (v.Kind == String || v.Kind == Number || v.Kind == Bool)
}
