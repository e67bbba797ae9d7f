package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/expr"
	"github.com/thisrohangupta/agents/internal/parse"
)

func buildPipeline(t *testing.T, src string) (*Pipeline, []diag.Diagnostic) {
	t.Helper()
	tree, ds := parse.YAML([]byte(src), diag.FilePipeline)
	require.Empty(t, ds)
	p, built := BuildPipeline(tree)
	require.NotNil(t, p)
	return p, built
}

const samplePipeline = `version: 1
pipeline:
  clone:
    depth: 1
  stages:
    - name: build
      platform:
        os: linux
        arch: amd64
      steps:
        - name: compile
          run:
            container:
              image: golang:1.22
            script: go build ./... -o <+inputs.output>
            env:
              TOKEN: <+inputs.token>
        - name: publish
          run:
            container: alpine:3.19
            script:
              - echo <+steps.compile.output.outputVariables.DIGEST>
    - name: deploy
      env:
        TARGET: <+steps.publish.output.outputVariables.URL>
      steps:
        - id: ship
          container: deployer:2.0
          with:
            nested:
              - <+pipeline.name> <+inputs.env>
  inputs:
    output:
      type: string
      required: true
      description: Output path.
    token:
      type: secret
    env:
      type: string
      default: prod
`

func TestBuildPipelineStructure(t *testing.T) {
	p, ds := buildPipeline(t, samplePipeline)
	assert.Empty(t, ds)
	assert.Equal(t, 1, p.Version)
	require.Len(t, p.Stages, 2)
	require.Len(t, p.Steps, 3)

	build := p.Stages[0]
	assert.Equal(t, "build", build.Name)
	require.NotNil(t, build.Platform)
	assert.Equal(t, "linux", build.Platform.OS)

	compile := p.Steps[0]
	assert.Equal(t, "golang:1.22", compile.Image)
	assert.True(t, compile.HasContainer)
	require.Len(t, compile.Env, 1)
	assert.Equal(t, "TOKEN", compile.Env[0].Name)
	assert.Equal(t, "<+inputs.token>", compile.Env[0].Value)
	require.Len(t, compile.Scripts, 1)

	publish := p.Steps[1]
	assert.Equal(t, "alpine:3.19", publish.Image)
	assert.Equal(t, 1, publish.Ordinal)

	ship := p.Steps[2]
	assert.Equal(t, "ship", ship.Label())
	assert.Equal(t, "deployer:2.0", ship.Image)
	assert.Equal(t, 2, ship.Ordinal)
	assert.Same(t, ship, p.StepByName("ship"))

	require.Len(t, p.Inputs, 3)
	assert.True(t, p.HasInputs)
	assert.True(t, p.Input("output").Required)
	assert.Equal(t, "secret", p.Input("token").Type)
	assert.True(t, p.Input("env").HasDefault())
	assert.False(t, p.Input("token").HasDefault())
	assert.Nil(t, p.Input("missing"))
}

func TestBuildPipelineReferences(t *testing.T) {
	p, _ := buildPipeline(t, samplePipeline)

	type ref struct {
		kind    expr.Kind
		target  string
		step    string
		visible int
	}
	var got []ref
	for _, r := range p.References {
		got = append(got, ref{r.Kind, r.Target(), r.Step, r.Visible})
	}
	assert.Equal(t, []ref{
		{expr.KindInput, "output", "compile", 1},
		{expr.KindInput, "token", "compile", 1},
		{expr.KindStepOutput, "compile", "publish", 2},
		{expr.KindStepOutput, "publish", "", 2},
		{expr.KindBuiltin, "name", "ship", 3},
		{expr.KindInput, "env", "ship", 3},
	}, got)
	assert.Equal(t, "stage 'deploy', line 25", p.References[3].Location())
	assert.Equal(t, "env.TARGET", p.References[3].Field)
	assert.Equal(t, "with.nested[0]", p.References[5].Field)
}

func TestBuildPipelineMissingVersionOnce(t *testing.T) {
	for name, src := range map[string]string{
		"absent": "pipeline:\n  stages:\n    - name: a\n",
		"two":    "version: 2\npipeline:\n  stages:\n    - name: a\n",
		"string": "version: \"1\"\npipeline:\n  stages:\n    - name: a\n",
		"scalar": "just text\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, ds := buildPipeline(t, src)
			n := 0
			for _, d := range ds {
				if d.Code == diag.MissingVersion {
					n++
					assert.Equal(t, diag.Error, d.Severity)
				}
			}
			assert.Equal(t, 1, n)
		})
	}
}

func TestBuildPipelineStructureDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"no pipeline", "version: 1\n", []diag.Code{diag.PipelineSectionMissing}},
		{"no stages", "version: 1\npipeline:\n  inputs: {}\n", []diag.Code{diag.StagesMissing}},
		{"stages not list", "version: 1\npipeline:\n  stages: x\n", []diag.Code{diag.PipelineStructure}},
		{"stage not mapping", "version: 1\npipeline:\n  stages:\n    - x\n", []diag.Code{diag.PipelineStructure}},
		{"input not mapping", "version: 1\npipeline:\n  stages:\n    - name: a\n  inputs:\n    x: 3\n", []diag.Code{diag.PipelineStructure}},
		{"malformed expression", "version: 1\npipeline:\n  stages:\n    - name: a\n      steps:\n        - name: s\n          run:\n            script: echo <+inputs.x\n", []diag.Code{diag.ExpressionMalformed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ds := buildPipeline(t, tt.src)
			assert.Equal(t, tt.want, codes(ds))
		})
	}
}

func TestBuildPipelineKeepsPartialModel(t *testing.T) {
	p, ds := buildPipeline(t, "pipeline:\n  stages:\n    - name: a\n  inputs:\n    x:\n      type: string\n")
	assert.Equal(t, []diag.Code{diag.MissingVersion}, codes(ds))
	assert.Len(t, p.Stages, 1)
	assert.NotNil(t, p.Input("x"))
}
