package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/expr"
	"github.com/thisrohangupta/agents/internal/model"
	"github.com/thisrohangupta/agents/internal/value"
)

// InputTypes are the accepted pipeline input types.
var InputTypes = []string{"string", "secret", "connector"}

func pipelineRules() []Rule {
	return []Rule{
		{
			Code:     diag.StageNameMissing,
			File:     diag.FilePipeline,
			Severity: diag.Error,
			Message:  "Stage %d missing 'name' field",
			Title:    "Every stage has a name",
			Needs:    NeedsPipeline,
			Check:    checkStageNames,
		},
		{
			Code:     diag.DuplicateStage,
			File:     diag.FilePipeline,
			Severity: diag.Error,
			Message:  "Duplicate stage name '%s'",
			Title:    "All stage names are unique",
			Needs:    NeedsPipeline,
			Check:    checkDuplicateStages,
		},
		{
			Code:     diag.StepNameMissing,
			File:     diag.FilePipeline,
			Severity: diag.Warning,
			Message:  "Step %d in stage '%s' missing 'name'",
			Title:    "Every step has a name",
			Needs:    NeedsPipeline,
			Check:    checkStepNames,
		},
		{
			Code:     diag.DuplicateStep,
			File:     diag.FilePipeline,
			Severity: diag.Error,
			Message:  "Duplicate step name '%s' in stage '%s'",
			Title:    "Step names are unique within each stage",
			Needs:    NeedsPipeline,
			Check:    checkDuplicateSteps,
		},
		{
			Code:     diag.PlatformIncomplete,
			File:     diag.FilePipeline,
			Severity: diag.Warning,
			Message:  "Stage '%s' platform missing '%s'",
			Title:    "Platform blocks declare os and arch",
			Needs:    NeedsPipeline,
			Check:    checkPlatforms,
		},
		{
			Code:     diag.ImageTag,
			File:     diag.FilePipeline,
			Severity: diag.Error,
			Message:  "Step '%s' image '%s' %s; pin an explicit version tag",
			Title:    "Container images pin a version tag",
			Needs:    NeedsPipeline,
			Check:    checkImageTags,
		},
		{
			Code:     diag.HardcodedSecret,
			File:     diag.FilePipeline,
			Severity: diag.Error,
			Message:  "Possible hardcoded secret in %s: '%s'",
			Title:    "No hardcoded secrets",
			Needs:    NeedsPipeline,
			Check:    checkHardcodedSecrets,
		},
		{
			Code:     diag.SecretLeak,
			File:     diag.FilePipeline,
			Severity: diag.Error,
			Message:  "Step '%s' prints secret input '%s'",
			Title:    "Secret inputs are never printed",
			Needs:    NeedsPipeline,
			Check:    checkSecretLeaks,
		},
		{
			Code:     diag.UndefinedInput,
			File:     diag.FilePipeline,
			Severity: diag.Error,
			Message:  "Reference '%s' names undefined input '%s'",
			Title:    "All input references resolve",
			Needs:    NeedsPipeline,
			Check:    checkUndefinedInputs,
		},
		{
			Code:     diag.UnresolvedStepRef,
			File:     diag.FilePipeline,
			Severity: diag.Error,
			Message:  "Reference '%s' %s",
			Title:    "All step output references resolve to earlier steps",
			Needs:    NeedsPipeline,
			Check:    checkStepReferences,
		},
		{
			Code:     diag.InputsMissing,
			File:     diag.FilePipeline,
			Severity: diag.Warning,
			Message:  "No 'inputs' section defined",
			Title:    "Inputs section defined",
			Needs:    NeedsPipeline,
			Check:    checkInputsPresent,
		},
		{
			Code:     diag.InputType,
			File:     diag.FilePipeline,
			Severity: diag.Warning,
			Message:  "Input '%s' %s",
			Title:    "Every input has a known type",
			Needs:    NeedsPipeline,
			Check:    checkInputTypes,
		},
		{
			Code:     diag.InputRequiredAmbiguous,
			File:     diag.FilePipeline,
			Severity: diag.Warning,
			Message:  "Input '%s' is not required and has no default; declare 'required: true' or a default",
			Title:    "Optional inputs declare defaults",
			Needs:    NeedsPipeline,
			Check:    checkRequiredAmbiguity,
		},
		{
			Code:     diag.InputDescriptionMissing,
			File:     diag.FilePipeline,
			Severity: diag.Warning,
			Message:  "Input '%s' missing description (recommended)",
			Title:    "Every input has a description",
			Needs:    NeedsPipeline,
			Check:    checkInputDescriptions,
		},
	}
}

func stageLabel(s *model.Stage) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("#%d", s.Index+1)
}

func checkStageNames(b *model.Bundle) []Finding {
	var out []Finding
	for _, s := range b.Pipeline.Stages {
		if strings.TrimSpace(s.Name) == "" {
			out = append(out, Found(diag.Line(s.Line), s.Index+1))
		}
	}
	return out
}

// duplicates returns the names occurring more than once, each reported at
// its second occurrence, in document order.
func duplicates[T any](items []T, name func(T) string, line func(T) int) []Finding {
	seen := map[string]int{}
	var out []Finding
	for _, item := range items {
		n := name(item)
		if n == "" {
			continue
		}
		seen[n]++
		if seen[n] == 2 {
			out = append(out, Found(diag.Line(line(item)), n))
		}
	}
	return out
}

func checkDuplicateStages(b *model.Bundle) []Finding {
	return duplicates(b.Pipeline.Stages,
		func(s *model.Stage) string { return s.Name },
		func(s *model.Stage) int { return s.Line })
}

func checkStepNames(b *model.Bundle) []Finding {
	var out []Finding
	for _, s := range b.Pipeline.Stages {
		for i, step := range s.Steps {
			if strings.TrimSpace(step.Name) == "" {
				out = append(out, Found(diag.Line(step.Line), i+1, stageLabel(s)))
			}
		}
	}
	return out
}

func checkDuplicateSteps(b *model.Bundle) []Finding {
	var out []Finding
	for _, s := range b.Pipeline.Stages {
		for _, f := range duplicates(s.Steps,
			func(st *model.Step) string { return st.Name },
			func(st *model.Step) int { return st.Line }) {
			f.Args = append(f.Args, stageLabel(s))
			out = append(out, f)
		}
	}
	return out
}

func checkPlatforms(b *model.Bundle) []Finding {
	var out []Finding
	for _, s := range b.Pipeline.Stages {
		if s.Platform == nil {
			continue
		}
		if s.Platform.OS == "" {
			out = append(out, Found(diag.Line(s.Platform.Line), stageLabel(s), "os"))
		}
		if s.Platform.Arch == "" {
			out = append(out, Found(diag.Line(s.Platform.Line), stageLabel(s), "arch"))
		}
	}
	return out
}

// ImageTagProblem describes what is wrong with an image reference's tag, or
// returns "" when the image is pinned by tag or digest. Images computed from
// expressions are not checked.
func ImageTagProblem(image string) string {
	if image == "" || strings.Contains(image, expr.Open) || strings.Contains(image, "@") {
		return ""
	}
	name := image
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	i := strings.LastIndex(name, ":")
	switch {
	case i < 0 || i == len(name)-1:
		return "has no tag"
	case name[i+1:] == "latest":
		return "uses the 'latest' tag"
	}
	return ""
}

func checkImageTags(b *model.Bundle) []Finding {
	var out []Finding
	for _, step := range b.Pipeline.Steps {
		if problem := ImageTagProblem(step.Image); problem != "" {
			out = append(out, Found(stepLocation(step, step.ImageLine), step.Label(), step.Image, problem))
		}
	}
	return out
}

func stepLocation(step *model.Step, line int) string {
	if line == 0 {
		line = step.Line
	}
	return model.StepLocation(stageLabel(step.Stage), step.Label(), line)
}

func checkHardcodedSecrets(b *model.Bundle) []Finding {
	var out []Finding
	for _, step := range b.Pipeline.Steps {
		for _, env := range step.Env {
			if match, ok := SecretLike(env.Value); ok {
				out = append(out, Found(stepLocation(step, env.Line), fmt.Sprintf("env '%s'", env.Name), redact(match)))
			}
		}
		for _, script := range step.Scripts {
			if match, ok := SecretLike(script.Text); ok {
				out = append(out, Found(stepLocation(step, script.Line), "script", redact(match)))
			}
		}
	}
	return out
}

func checkSecretLeaks(b *model.Bundle) []Finding {
	p := b.Pipeline
	secret := func(name string) bool {
		in := p.Input(name)
		return in != nil && strings.EqualFold(in.Type, "secret")
	}
	var out []Finding
	for _, step := range p.Steps {
		bound := map[string]string{}
		for _, env := range step.Env {
			refs, _ := expr.Extract(env.Value)
			for _, ref := range refs {
				if ref.Kind == expr.KindInput && secret(ref.Target()) {
					bound[env.Name] = ref.Target()
				}
			}
		}
		texts := make([]model.Script, 0, len(step.Scripts)+len(step.Env))
		texts = append(texts, step.Scripts...)
		for _, env := range step.Env {
			texts = append(texts, model.Script{Text: env.Value, Line: env.Line})
		}
		reported := map[string]bool{}
		for _, text := range texts {
			for _, input := range PrintedSecrets(text.Text, bound, secret) {
				if reported[input] {
					continue
				}
				reported[input] = true
				out = append(out, Found(stepLocation(step, text.Line), step.Label(), input))
			}
		}
	}
	return out
}

func checkUndefinedInputs(b *model.Bundle) []Finding {
	p := b.Pipeline
	var out []Finding
	for _, ref := range p.References {
		if ref.Kind != expr.KindInput || p.Input(ref.Target()) != nil {
			continue
		}
		out = append(out, Found(ref.Location(), ref.Raw, ref.Target()))
	}
	return out
}

func checkStepReferences(b *model.Bundle) []Finding {
	p := b.Pipeline
	var out []Finding
	for _, ref := range p.References {
		if ref.Kind != expr.KindStepOutput {
			continue
		}
		target := ref.Target()
		found, visible := false, false
		for _, step := range p.Steps {
			if step.Name != target && step.ID != target {
				continue
			}
			found = true
			if step.Ordinal < ref.Visible {
				visible = true
				break
			}
		}
		switch {
		case !found:
			out = append(out, Found(ref.Location(), ref.Raw, fmt.Sprintf("names unknown step '%s'", target)))
		case !visible:
			out = append(out, Found(ref.Location(), ref.Raw, fmt.Sprintf("points forward to step '%s', which runs later", target)))
		}
	}
	return out
}

func checkInputsPresent(b *model.Bundle) []Finding {
	if b.Pipeline.HasInputs {
		return nil
	}
	return []Finding{Found("")}
}

// inputDefs yields inputs declared as mappings; malformed ones are already
// reported by the builder.
func inputDefs(p *model.Pipeline) []*model.InputDef {
	var out []*model.InputDef
	for _, in := range p.Inputs {
		if in.Node.Is(value.Mapping) {
			out = append(out, in)
		}
	}
	return out
}

func checkInputTypes(b *model.Bundle) []Finding {
	var out []Finding
	for _, in := range inputDefs(b.Pipeline) {
		switch {
		case !in.HasType || in.Type == "":
			out = append(out, Found(diag.Line(in.Line), in.Name, "missing 'type' field"))
		case !slices.Contains(InputTypes, in.Type):
			out = append(out, Found(diag.Line(in.Line), in.Name,
				fmt.Sprintf("has unknown type '%s'; expected one of %s", in.Type, strings.Join(InputTypes, ", "))))
		}
	}
	return out
}

func checkRequiredAmbiguity(b *model.Bundle) []Finding {
	var out []Finding
	for _, in := range inputDefs(b.Pipeline) {
		if !in.Required && !in.HasDefault() {
			out = append(out, Found(diag.Line(in.Line), in.Name))
		}
	}
	return out
}

func checkInputDescriptions(b *model.Bundle) []Finding {
	var out []Finding
	for _, in := range inputDefs(b.Pipeline) {
		if strings.TrimSpace(in.Description) == "" {
			out = append(out, Found(diag.Line(in.Line), in.Name))
		}
	}
	return out
}
