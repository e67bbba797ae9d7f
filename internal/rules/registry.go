package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/model"
)

// Override reconfigures one code. It applies to rule records and to the
// diagnostics produced by parsers and builders alike.
type Override struct {
	Severity *diag.Severity
	Disabled bool
}

// Registry is an ordered set of rules plus per-code overrides. Registration
// order is the documented evaluation order and only breaks ties in reports.
type Registry struct {
	rules     []Rule
	index     map[diag.Code]int
	overrides map[diag.Code]Override
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: map[diag.Code]int{}, overrides: map[diag.Code]Override{}}
}

// Register appends rules in order. Codes must be unique.
func (r *Registry) Register(rules ...Rule) error {
	for _, rule := range rules {
		if rule.Code == "" {
			return fmt.Errorf("rule with empty code")
		}
		if _, dup := r.index[rule.Code]; dup {
			return fmt.Errorf("rule %s already registered", rule.Code)
		}
		r.index[rule.Code] = len(r.rules)
		r.rules = append(r.rules, rule)
	}
	return nil
}

// MustRegister is Register for static rule tables.
func (r *Registry) MustRegister(rules ...Rule) *Registry {
	if err := r.Register(rules...); err != nil {
		panic(err)
	}
	return r
}

// WithOverrides returns a copy of r with overrides merged over its own.
func (r *Registry) WithOverrides(overrides map[diag.Code]Override) *Registry {
	out := &Registry{
		rules:     slices.Clone(r.rules),
		index:     make(map[diag.Code]int, len(r.index)),
		overrides: make(map[diag.Code]Override, len(r.overrides)+len(overrides)),
	}
	for code, i := range r.index {
		out.index[code] = i
	}
	for code, o := range r.overrides {
		out.overrides[code] = o
	}
	for code, o := range overrides {
		out.overrides[code] = o
	}
	return out
}

// Lookup returns the registered rule for code, with overrides applied.
func (r *Registry) Lookup(code diag.Code) (Rule, bool) {
	i, ok := r.index[code]
	if !ok {
		return Rule{}, false
	}
	return r.effective(r.rules[i]), true
}

// Rules returns every registered rule in order with overrides applied.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	for i, rule := range r.rules {
		out[i] = r.effective(rule)
	}
	return out
}

// Default returns the unmodified rule for code.
func (r *Registry) Default(code diag.Code) (Rule, bool) {
	i, ok := r.index[code]
	if !ok {
		return Rule{}, false
	}
	return r.rules[i], true
}

// Enabled reports whether code is not disabled.
func (r *Registry) Enabled(code diag.Code) bool {
	return !r.overrides[code].Disabled
}

func (r *Registry) effective(rule Rule) Rule {
	if o, ok := r.overrides[rule.Code]; ok && o.Severity != nil {
		rule.Severity = *o.Severity
	}
	return rule
}

// Outcome is the result of one rule on one bundle. Ran is false when the
// rule was disabled or its models were absent.
type Outcome struct {
	Rule        Rule
	Ran         bool
	Diagnostics []diag.Diagnostic
}

// Run evaluates every rule against b in registration order. All rules run;
// none short-circuits another.
func (r *Registry) Run(b *model.Bundle) []Outcome {
	out := make([]Outcome, 0, len(r.rules))
	for _, rule := range r.Rules() {
		o := Outcome{Rule: rule}
		if r.Enabled(rule.Code) && rule.Applies(b) {
			o.Ran = true
			o.Diagnostics = rule.Evaluate(b)
		}
		out = append(out, o)
	}
	return out
}

// Apply rewrites diagnostics from outside the registry (parsers, builders)
// according to the overrides. Disabled codes are dropped.
func (r *Registry) Apply(diagnostics []diag.Diagnostic) []diag.Diagnostic {
	if len(r.overrides) == 0 {
		return diagnostics
	}
	out := diagnostics[:0:0]
	for _, d := range diagnostics {
		o, ok := r.overrides[d.Code]
		if ok && o.Disabled {
			continue
		}
		if ok && o.Severity != nil {
			d.Severity = *o.Severity
		}
		out = append(out, d)
	}
	return out
}

// Fingerprint identifies the effective configuration: codes, severities,
// enablement and every override. extra is mixed in for settings that live
// outside the registry.
func (r *Registry) Fingerprint(extra ...string) string {
	h := sha256.New()
	for _, rule := range r.Rules() {
		fmt.Fprintf(h, "rule %s %s %s %t\n", rule.Code, rule.File, rule.Severity, r.Enabled(rule.Code))
	}
	codes := make([]string, 0, len(r.overrides))
	for code := range r.overrides {
		codes = append(codes, string(code))
	}
	slices.Sort(codes)
	for _, code := range codes {
		o := r.overrides[diag.Code(code)]
		severity := "-"
		if o.Severity != nil {
			severity = o.Severity.String()
		}
		fmt.Fprintf(h, "override %s %s %t\n", code, severity, o.Disabled)
	}
	fmt.Fprintf(h, "extra %s\n", strings.Join(extra, ","))
	return hex.EncodeToString(h.Sum(nil))
}
