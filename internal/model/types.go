package model

import (
	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/value"
)

// Model is the closed set of per-file semantic records: *Metadata,
// *Pipeline or *Wiki.
type Model interface {
	File() diag.File
	model()
}

// Bundle is one template directory. It is built once per lint run and not
// modified afterwards.
type Bundle struct {
	Dir      string // directory name; empty when unknown
	Metadata *Metadata
	Pipeline *Pipeline
	Wiki     *Wiki
	HasIcon  bool
	Icon     *Icon // nil when logo.svg is absent or malformed
}

// Set stores m in the matching bundle slot.
func (b *Bundle) Set(m Model) {
	switch v := m.(type) {
	case *Metadata:
		b.Metadata = v
	case *Pipeline:
		b.Pipeline = v
	case *Wiki:
		b.Wiki = v
	}
}

// Models returns the models present, in file order.
func (b *Bundle) Models() []Model {
	var models []Model
	if b.Metadata != nil {
		models = append(models, b.Metadata)
	}
	if b.Pipeline != nil {
		models = append(models, b.Pipeline)
	}
	if b.Wiki != nil {
		models = append(models, b.Wiki)
	}
	return models
}

// Icon records the root element of a well-formed logo.svg.
type Icon struct {
	Root string
}

// Build dispatches a parsed tree to the builder for kind. tree must be a
// *value.Value for metadata and pipeline files and a *parse.Document for the
// wiki. A nil tree yields a nil model.
func Build(kind diag.File, tree any, source []byte) (Model, []diag.Diagnostic) {
	switch kind {
	case diag.FileMetadata:
		v, _ := tree.(*value.Value)
		m, diagnostics := BuildMetadata(v, source)
		if m == nil {
			return nil, diagnostics
		}
		return m, diagnostics
	case diag.FilePipeline:
		v, _ := tree.(*value.Value)
		p, diagnostics := BuildPipeline(v)
		if p == nil {
			return nil, diagnostics
		}
		return p, diagnostics
	case diag.FileWiki:
		w, diagnostics := buildWikiFrom(tree)
		if w == nil {
			return nil, diagnostics
		}
		return w, diagnostics
	}
	return nil, nil
}
