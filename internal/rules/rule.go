package rules

import (
	"fmt"

	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/model"
)

// Needs is a bitmask of the bundle parts a rule reads.
type Needs uint8

const (
	NeedsMetadata Needs = 1 << iota
	NeedsPipeline
	NeedsWiki
	NeedsIcon
)

// Finding is one rule hit: where it was found and the arguments for the
// rule's message template.
type Finding struct {
	Location string
	Args     []any
}

// Found is shorthand for a Finding.
func Found(location string, args ...any) Finding {
	return Finding{Location: location, Args: args}
}

// Rule is one data-described check.
type Rule struct {
	Code     diag.Code
	File     diag.File
	Severity diag.Severity
	Message  string // fmt template applied to Finding.Args
	Title    string // checklist line when the rule finds nothing; empty hides it
	Needs    Needs
	Check    func(b *model.Bundle) []Finding
}

// Applies reports whether every model the rule needs is present.
func (r Rule) Applies(b *model.Bundle) bool {
	switch {
	case r.Needs&NeedsMetadata != 0 && b.Metadata == nil,
		r.Needs&NeedsPipeline != 0 && b.Pipeline == nil,
		r.Needs&NeedsWiki != 0 && b.Wiki == nil,
		r.Needs&NeedsIcon != 0 && b.Icon == nil:
		return false
	}
	return true
}

// Evaluate runs the check and renders its findings. It returns nil when the
// rule does not apply.
func (r Rule) Evaluate(b *model.Bundle) []diag.Diagnostic {
	if b == nil || r.Check == nil || !r.Applies(b) {
		return nil
	}
	findings := r.Check(b)
	if len(findings) == 0 {
		return nil
	}
	out := make([]diag.Diagnostic, 0, len(findings))
	for _, f := range findings {
		out = append(out, diag.Diagnostic{
			Severity: r.Severity,
			Code:     r.Code,
			Message:  fmt.Sprintf(r.Message, f.Args...),
			File:     r.File,
			Location: f.Location,
		})
	}
	return out
}
