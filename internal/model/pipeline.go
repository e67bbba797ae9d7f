package model

import (
	"fmt"
	"strings"

	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/expr"
	"github.com/thisrohangupta/agents/internal/value"
)

// SupportedVersion is the only pipeline schema version accepted.
const SupportedVersion = 1

// scriptKeys name the step fields that hold shell text, at step or run level.
var scriptKeys = []string{"script", "command", "commands", "args"}

// Pipeline is the semantic record of pipeline.yaml.
type Pipeline struct {
	Version    int
	HasVersion bool // version key present, regardless of value
	Clone      *value.Value
	Stages     []*Stage
	Steps      []*Step // all steps in document order; Steps[i].Ordinal == i
	HasInputs  bool
	Inputs     []*InputDef
	References []ExpressionReference
	Root       *value.Value
}

func (*Pipeline) File() diag.File { return diag.FilePipeline }
func (*Pipeline) model()          {}

// Input returns the declared input called name, or nil.
func (p *Pipeline) Input(name string) *InputDef {
	for _, in := range p.Inputs {
		if in.Name == name {
			return in
		}
	}
	return nil
}

// StepByName returns the first step whose id or name equals name, or nil.
func (p *Pipeline) StepByName(name string) *Step {
	for _, s := range p.Steps {
		if s.ID == name || s.Name == name {
			return s
		}
	}
	return nil
}

// Stage is one entry of pipeline.stages.
type Stage struct {
	Name     string
	Index    int
	Line     int
	Steps    []*Step
	Platform *Platform // nil when the stage has no platform block
	Node     *value.Value
}

// Platform is a stage's runtime platform block.
type Platform struct {
	OS   string
	Arch string
	Line int
}

// Step is one entry of a stage's steps list.
type Step struct {
	Name         string
	ID           string
	Line         int
	Ordinal      int // position among all steps of the pipeline
	Stage        *Stage
	HasContainer bool
	Image        string
	ImageLine    int
	With         *value.Value
	Env          []EnvVar
	Scripts      []Script
	Node         *value.Value
}

// Label names the step for locations: its name, else its id, else its index.
func (s *Step) Label() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.ID != "":
		return s.ID
	}
	return fmt.Sprintf("#%d", s.indexInStage()+1)
}

func (s *Step) indexInStage() int {
	if s.Stage == nil {
		return s.Ordinal
	}
	for i, other := range s.Stage.Steps {
		if other == s {
			return i
		}
	}
	return 0
}

// EnvVar is one scalar environment entry of a step.
type EnvVar struct {
	Name  string
	Value string
	Line  int
}

// Script is one piece of shell text attached to a step.
type Script struct {
	Text string
	Line int
}

// InputDef is one declared pipeline input.
type InputDef struct {
	Name        string
	Type        string
	HasType     bool
	Required    bool
	HasRequired bool
	Default     *value.Value
	Description string
	Label       string
	Line        int
	Node        *value.Value
}

// HasDefault reports whether a non-null default is declared.
func (in *InputDef) HasDefault() bool {
	return in.Default != nil && !in.Default.Is(value.Null)
}

// ExpressionReference is a <+...> reference found in the pipeline.
type ExpressionReference struct {
	expr.Reference
	Line  int
	Stage string
	Step  string // empty for references outside any step
	Field string
	// Visible bounds the steps a step-output reference may name: only steps
	// with Ordinal < Visible have run when the expression is evaluated.
	Visible int
}

// Location renders where the reference was found.
func (r ExpressionReference) Location() string {
	return StepLocation(r.Stage, r.Step, r.Line)
}

// StepLocation formats a stage/step/line location, omitting empty parts.
func StepLocation(stage, step string, line int) string {
	var parts []string
	if stage != "" {
		parts = append(parts, fmt.Sprintf("stage '%s'", stage))
	}
	if step != "" {
		parts = append(parts, fmt.Sprintf("step '%s'", step))
	}
	if l := diag.Line(line); l != "" {
		parts = append(parts, l)
	}
	return strings.Join(parts, ", ")
}

type pipelineBuilder struct {
	p           *Pipeline
	diagnostics []diag.Diagnostic
}

func (b *pipelineBuilder) add(severity diag.Severity, code diag.Code, line int, format string, args ...any) {
	b.diagnostics = append(b.diagnostics, diag.New(diag.FilePipeline, severity, code, diag.Line(line), format, args...))
}

// BuildPipeline projects a parsed pipeline.yaml tree. A pipeline without
// "version: 1" yields exactly one MISSING_VERSION diagnostic.
func BuildPipeline(tree *value.Value) (*Pipeline, []diag.Diagnostic) {
	if tree == nil {
		return nil, nil
	}
	b := &pipelineBuilder{p: &Pipeline{Root: tree}}

	if !tree.Is(value.Mapping) {
		b.add(diag.Error, diag.PipelineStructure, tree.Line, "Root must be a mapping, got %s", tree.Kind)
		b.add(diag.Error, diag.MissingVersion, 0, "Missing 'version' field at top level")
		return b.p, b.diagnostics
	}

	b.version(tree)

	section := tree.Get("pipeline")
	switch {
	case section == nil:
		b.add(diag.Error, diag.PipelineSectionMissing, 0, "Missing top-level 'pipeline' section")
		return b.p, b.diagnostics
	case !section.Is(value.Mapping):
		b.add(diag.Error, diag.PipelineStructure, section.Line, "'pipeline' must be a mapping, got %s", section.Kind)
		return b.p, b.diagnostics
	}

	b.p.Clone = section.Get("clone")
	b.inputs(section.Get("inputs"))
	b.stages(section)
	b.sectionReferences(section)
	return b.p, b.diagnostics
}

func (b *pipelineBuilder) version(tree *value.Value) {
	v := tree.Get("version")
	if v == nil {
		b.add(diag.Error, diag.MissingVersion, 0, "Missing 'version' field at top level")
		return
	}
	b.p.HasVersion = true
	if n, ok := v.Int(); ok {
		b.p.Version = n
		if n == SupportedVersion {
			return
		}
	}
	b.add(diag.Error, diag.MissingVersion, v.Line, "Expected 'version: %d', got '%s'", SupportedVersion, v.Scalar())
}

func (b *pipelineBuilder) inputs(node *value.Value) {
	if node == nil {
		return
	}
	b.p.HasInputs = true
	if !node.Is(value.Mapping) {
		if !node.Is(value.Null) {
			b.add(diag.Warning, diag.PipelineStructure, node.Line, "'inputs' must be a mapping, got %s", node.Kind)
		}
		return
	}
	for _, name := range node.Keys {
		def := node.Get(name)
		in := &InputDef{Name: name, Line: def.Line, Node: def}
		b.p.Inputs = append(b.p.Inputs, in)
		if !def.Is(value.Mapping) {
			if !def.Is(value.Null) {
				b.add(diag.Warning, diag.PipelineStructure, def.Line, "Input '%s' should be a mapping, got %s", name, def.Kind)
			}
			continue
		}
		if t := def.Get("type"); t != nil {
			in.HasType = true
			in.Type = strings.TrimSpace(t.Scalar())
		}
		if r := def.Get("required"); r != nil {
			in.HasRequired = true
			in.Required = r.Is(value.Bool) && r.Bool
			if !r.Is(value.Bool) {
				b.add(diag.Warning, diag.PipelineStructure, r.Line, "Input '%s': 'required' should be true or false, got '%s'", name, r.Scalar())
			}
		}
		in.Default = def.Get("default")
		in.Description, _ = def.Get("description").Str()
		in.Label, _ = def.Get("label").Str()
	}
}

func (b *pipelineBuilder) stages(section *value.Value) {
	stages := section.Get("stages")
	switch {
	case stages == nil:
		b.add(diag.Error, diag.StagesMissing, 0, "Missing 'pipeline.stages'")
		return
	case !stages.Is(value.Sequence):
		b.add(diag.Error, diag.PipelineStructure, stages.Line, "'pipeline.stages' must be a list, got %s", stages.Kind)
		return
	case len(stages.Items) == 0:
		b.add(diag.Error, diag.StagesMissing, stages.Line, "'pipeline.stages' is empty")
		return
	}

	for i, node := range stages.Items {
		if !node.Is(value.Mapping) {
			b.add(diag.Error, diag.PipelineStructure, node.Line, "Stage %d must be a mapping, got %s", i+1, node.Kind)
			continue
		}
		stage := &Stage{Index: i, Line: node.Line, Node: node}
		stage.Name, _ = node.Get("name").Str()
		stage.Platform = platform(node.Get("platform"))
		b.p.Stages = append(b.p.Stages, stage)
		b.stageReferences(stage)
		b.steps(stage, node.Get("steps"))
	}
}

func platform(node *value.Value) *Platform {
	if node == nil {
		return nil
	}
	p := &Platform{Line: node.Line}
	p.OS, _ = node.Get("os").Str()
	p.Arch, _ = node.Get("arch").Str()
	return p
}

func (b *pipelineBuilder) steps(stage *Stage, steps *value.Value) {
	if steps == nil {
		return
	}
	if !steps.Is(value.Sequence) {
		b.add(diag.Warning, diag.PipelineStructure, steps.Line, "Steps of stage %d must be a list, got %s", stage.Index+1, steps.Kind)
		return
	}
	for i, node := range steps.Items {
		if !node.Is(value.Mapping) {
			b.add(diag.Warning, diag.PipelineStructure, node.Line, "Step %d of stage %d must be a mapping, got %s", i+1, stage.Index+1, node.Kind)
			continue
		}
		step := &Step{Line: node.Line, Ordinal: len(b.p.Steps), Stage: stage, Node: node}
		step.Name, _ = node.Get("name").Str()
		step.ID, _ = node.Get("id").Str()
		run := node.Get("run")
		container(step, node, run)
		step.Env = envVars(node.Get("env"), run.Get("env"))
		if step.With = node.Get("with"); step.With == nil {
			step.With = run.Get("with")
		}
		step.Scripts = scripts(node, run)
		stage.Steps = append(stage.Steps, step)
		b.p.Steps = append(b.p.Steps, step)
		b.stepReferences(step)
	}
}

// container finds the step image at run.container or step.container, each
// either an image string or a mapping with an image key.
func container(step *Step, node, run *value.Value) {
	c := run.Get("container")
	if c == nil {
		c = node.Get("container")
	}
	if c == nil {
		return
	}
	step.HasContainer = true
	step.ImageLine = c.Line
	if c.Is(value.Mapping) {
		c = c.Get("image")
		if c == nil {
			return
		}
		step.ImageLine = c.Line
	}
	step.Image = strings.TrimSpace(c.Scalar())
}

func envVars(nodes ...*value.Value) []EnvVar {
	var env []EnvVar
	for _, node := range nodes {
		if !node.Is(value.Mapping) {
			continue
		}
		for _, name := range node.Keys {
			v := node.Get(name)
			if !v.IsScalar() {
				continue
			}
			env = append(env, EnvVar{Name: name, Value: v.Scalar(), Line: v.Line})
		}
	}
	return env
}

func scripts(node, run *value.Value) []Script {
	var out []Script
	if run.Is(value.String) {
		out = append(out, Script{Text: run.Text, Line: run.Line})
	}
	for _, holder := range []*value.Value{node, run} {
		if !holder.Is(value.Mapping) {
			continue
		}
		for _, key := range scriptKeys {
			v := holder.Get(key)
			switch {
			case v.Is(value.String):
				out = append(out, Script{Text: v.Text, Line: v.Line})
			case v.Is(value.Sequence):
				for _, item := range v.Items {
					if item.Is(value.String) {
						out = append(out, Script{Text: item.Text, Line: item.Line})
					}
				}
			}
		}
	}
	return out
}

// stepReferences extracts references from the whole step subtree. A step may
// read its own outputs and those of earlier steps.
func (b *pipelineBuilder) stepReferences(step *Step) {
	b.collect(step.Node, step.Stage.Name, step.Label(), step.Ordinal+1)
}

// stageReferences extracts references from stage fields outside the steps
// list. They are evaluated before the stage's first step runs, so it must be
// called before the stage's steps are added.
func (b *pipelineBuilder) stageReferences(stage *Stage) {
	visible := len(b.p.Steps)
	for _, key := range stage.Node.Keys {
		if key == "steps" {
			continue
		}
		b.collect(stage.Node.Get(key), stage.Name, "", visible, key)
	}
}

// sectionReferences extracts references from pipeline-level fields such as
// clone. No step has run when they are evaluated.
func (b *pipelineBuilder) sectionReferences(section *value.Value) {
	for _, key := range section.Keys {
		if key == "stages" || key == "inputs" {
			continue
		}
		b.collect(section.Get(key), "", "", 0, key)
	}
}

func (b *pipelineBuilder) collect(node *value.Value, stage, step string, visible int, prefix ...string) {
	value.Walk(node, func(path value.Path, leaf *value.Value) {
		field := value.Path(append(append([]string(nil), prefix...), path...)).String()
		refs, malformed := expr.Extract(leaf.Text)
		for _, tok := range malformed {
			b.diagnostics = append(b.diagnostics, diag.New(diag.FilePipeline, diag.Warning, diag.ExpressionMalformed,
				StepLocation(stage, step, leaf.Line), "Malformed expression '%s' in '%s'", tok.Raw, field))
		}
		for _, ref := range refs {
			b.p.References = append(b.p.References, ExpressionReference{
				Reference: ref,
				Line:      leaf.Line,
				Stage:     stage,
				Step:      step,
				Field:     field,
				Visible:   visible,
			})
		}
	})
}
