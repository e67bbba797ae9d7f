package model

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/value"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/metadata.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Required metadata fields, in report order.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldVersion     = "version"
)

var requiredFields = []string{FieldName, FieldDescription, FieldVersion}

// Metadata is the semantic record of metadata.json.
type Metadata struct {
	Name        string
	Description string
	Version     string
	Fields      *value.Value
	Source      []byte
}

func (*Metadata) File() diag.File { return diag.FileMetadata }
func (*Metadata) model()          {}

// Has reports whether field is present as a non-empty string.
func (m *Metadata) Has(field string) bool {
	s, ok := m.Fields.Get(field).Str()
	return ok && strings.TrimSpace(s) != ""
}

// Line returns the source line of field, or 0.
func (m *Metadata) Line(field string) int {
	if v := m.Fields.Get(field); v != nil {
		return v.Line
	}
	return 0
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("metadata.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("metadata.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// BuildMetadata projects a parsed metadata.json tree. source is the raw file
// and must be the bytes tree was parsed from.
func BuildMetadata(tree *value.Value, source []byte) (*Metadata, []diag.Diagnostic) {
	if tree == nil {
		return nil, nil
	}
	if !tree.Is(value.Mapping) {
		return nil, []diag.Diagnostic{diag.New(diag.FileMetadata, diag.Error, diag.MetadataStructure,
			diag.Line(tree.Line), "Root must be a JSON object, got %s", tree.Kind)}
	}

	m := &Metadata{Fields: tree, Source: source}
	m.Name, _ = tree.Get(FieldName).Str()
	m.Description, _ = tree.Get(FieldDescription).Str()
	m.Version, _ = tree.Get(FieldVersion).Str()

	var diagnostics []diag.Diagnostic
	for _, field := range requiredFields {
		v := tree.Get(field)
		switch {
		case v == nil:
			diagnostics = append(diagnostics, diag.New(diag.FileMetadata, diag.Error, diag.MetadataFieldMissing,
				"", "Missing required field '%s'", field))
		case v.Is(value.Null), v.Is(value.String) && strings.TrimSpace(v.Text) == "":
			diagnostics = append(diagnostics, diag.New(diag.FileMetadata, diag.Error, diag.MetadataFieldMissing,
				diag.Line(v.Line), "Required field '%s' is empty", field))
		}
	}
	diagnostics = append(diagnostics, schemaDiagnostics(m)...)
	return m, diagnostics
}

// schemaDiagnostics validates the raw document against the embedded schema.
// Null fields are left to the required-field check.
func schemaDiagnostics(m *Metadata) []diag.Diagnostic {
	schema, err := getSchema()
	if err != nil {
		return []diag.Diagnostic{diag.New(diag.FileMetadata, diag.Info, diag.MetadataStructure, "",
			"Schema checks skipped: %v", err)}
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(m.Source))
	if err != nil {
		return nil
	}
	err = schema.Validate(inst)
	if err == nil {
		return nil
	}
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil
	}

	var diagnostics []diag.Diagnostic
	collectSchemaIssues(m, validationErr, &diagnostics)
	return diagnostics
}

// collectSchemaIssues walks the ValidationError tree and converts leaf errors.
func collectSchemaIssues(m *Metadata, ve *jsonschema.ValidationError, out *[]diag.Diagnostic) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectSchemaIssues(m, cause, out)
		}
		return
	}

	switch k := ve.ErrorKind.(type) {
	case *kind.AdditionalProperties:
		for _, prop := range k.Properties {
			*out = append(*out, diag.New(diag.FileMetadata, diag.Info, diag.UnknownMetadataField,
				diag.Line(m.Line(prop)), "Unknown field '%s'", prop))
		}
	case *kind.Type:
		path := strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 1 && m.Fields.Get(ve.InstanceLocation[0]).Is(value.Null) {
			return
		}
		field := path
		if len(ve.InstanceLocation) > 0 {
			field = ve.InstanceLocation[0]
		}
		*out = append(*out, diag.New(diag.FileMetadata, diag.Error, diag.MetadataFieldType,
			diag.Line(m.Line(field)), "Field '%s': %s", path, k.LocalizedString(printer)))
	}
}
