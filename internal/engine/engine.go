package engine

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/iter"
	"github.com/thisrohangupta/agents/internal/bundle"
	"github.com/thisrohangupta/agents/internal/crossfile"
	"github.com/thisrohangupta/agents/internal/ctxlog"
	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/model"
	"github.com/thisrohangupta/agents/internal/parse"
	"github.com/thisrohangupta/agents/internal/prose"
	"github.com/thisrohangupta/agents/internal/report"
	"github.com/thisrohangupta/agents/internal/rules"
	"github.com/thisrohangupta/agents/internal/store"
)

// Collector origins. They order diagnostics that tie on file, severity and
// code: parser and builder output first, then rules in registry order, then
// prose advice.
const (
	originFiles = 1
	originRules = 100
	originProse = 10000
)

// Cache stores reports by bundle digest and records lint runs.
type Cache interface {
	Get(ctx context.Context, digest string) (*report.Report, bool, error)
	Put(ctx context.Context, digest string, r *report.Report) error
	Record(ctx context.Context, run store.Run) error
}

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	Registry *rules.Registry
	Prose    prose.Checker // nil disables prose advice
	Loader   *bundle.Loader
	Cache    Cache
	Workers  int
	RunID    string
	Version  string // mixed into cache digests
}

// Engine lints bundles. It is safe for concurrent use.
type Engine struct {
	registry    *rules.Registry
	prose       prose.Checker
	loader      *bundle.Loader
	cache       Cache
	workers     int
	runID       string
	fingerprint string
}

// DefaultRegistry returns the single-file rules followed by the cross-file
// rules.
func DefaultRegistry() *rules.Registry {
	return rules.NewRegistry().
		MustRegister(rules.Builtin()...).
		MustRegister(crossfile.Rules()...)
}

func New(opts Options) *Engine {
	e := &Engine{
		registry: opts.Registry,
		prose:    opts.Prose,
		loader:   opts.Loader,
		cache:    opts.Cache,
		workers:  opts.Workers,
		runID:    opts.RunID,
	}
	if e.registry == nil {
		e.registry = DefaultRegistry()
	}
	if e.loader == nil {
		e.loader = bundle.NewLoader()
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	proseSetting := "prose=off"
	if e.prose != nil {
		proseSetting = "prose=on"
	}
	e.fingerprint = e.registry.Fingerprint(proseSetting, "version="+opts.Version)
	return e
}

// Registry returns the effective rule registry.
func (e *Engine) Registry() *rules.Registry { return e.registry }

// LintAll lints every bundle directory in paths on the worker pool. Reports
// are returned in the order of paths.
func (e *Engine) LintAll(ctx context.Context, paths []string) ([]*report.Report, error) {
	mapper := iter.Mapper[string, *report.Report]{MaxGoroutines: e.workers}
	return mapper.MapErr(paths, func(path *string) (*report.Report, error) {
		return e.LintPath(ctx, *path)
	})
}

// LintPath lints the bundle directory at path. The only errors are a path
// that does not exist or is not a directory.
func (e *Engine) LintPath(ctx context.Context, path string) (*report.Report, error) {
	files, err := e.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	log := ctxlog.FromContext(ctx).With("template", files.Dir)

	var digest string
	if e.cache != nil && cacheable(files) {
		digest = Digest(files, e.fingerprint)
		r, ok, err := e.cache.Get(ctx, digest)
		switch {
		case err != nil:
			log.Warn("cache lookup failed", "error", err)
		case ok:
			log.Debug("cache hit", "digest", digest)
			e.record(ctx, r, digest, true)
			return r, nil
		}
	}

	r := e.Lint(ctx, files)
	log.Debug("linted", "errors", r.Summary.Errors, "warnings", r.Summary.Warnings, "infos", r.Summary.Infos)

	if digest != "" {
		if err := e.cache.Put(ctx, digest, r); err != nil {
			log.Warn("cache store failed", "error", err)
		}
		e.record(ctx, r, digest, false)
	}
	return r, nil
}

func (e *Engine) record(ctx context.Context, r *report.Report, digest string, cached bool) {
	err := e.cache.Record(ctx, store.Run{
		RunID:    e.runID,
		Template: r.Template,
		Digest:   digest,
		Errors:   r.Summary.Errors,
		Warnings: r.Summary.Warnings,
		Infos:    r.Summary.Infos,
		Passed:   r.Passed,
		Cached:   cached,
	})
	if err != nil {
		ctxlog.FromContext(ctx).Warn("recording run failed", "template", r.Template, "error", err)
	}
}

// Lint produces the report for already-read bundle files.
func (e *Engine) Lint(ctx context.Context, files *bundle.Files) *report.Report {
	var c diag.Collector
	var checks []report.Check
	b := &model.Bundle{Dir: files.Dir}

	for i, f := range files.All() {
		origin := originFiles + i
		switch {
		case !f.Present:
			c.Add(origin, missing(f.Kind))
		case f.Err != nil:
			c.Add(origin, diag.New(f.Kind, diag.Error, unreadableCodes[f.Kind], "", "Cannot read file: %v", f.Err))
		default:
			ds, title := load(f, b)
			c.Add(origin, ds...)
			if title != "" {
				checks = append(checks, report.Check{File: f.Kind, Title: title})
			}
		}
	}

	for i, o := range e.registry.Run(b) {
		c.Add(originRules+i, o.Diagnostics...)
		if o.Ran && len(o.Diagnostics) == 0 && o.Rule.Title != "" {
			checks = append(checks, report.Check{File: o.Rule.File, Code: o.Rule.Code, Title: o.Rule.Title})
		}
	}

	if e.prose != nil {
		c.Add(originProse, prose.Diagnostics(ctx, e.prose, b)...)
	}

	ds := e.registry.Apply(c.Sorted())
	diag.Sort(ds)
	return report.New(files.Dir, ds, checks)
}

var unreadableCodes = map[diag.File]diag.Code{
	diag.FileMetadata: diag.MetadataFileUnreadable,
	diag.FilePipeline: diag.PipelineFileUnreadable,
	diag.FileWiki:     diag.WikiFileUnreadable,
	diag.FileIcon:     diag.IconFileUnreadable,
}

func missing(kind diag.File) diag.Diagnostic {
	switch kind {
	case diag.FileMetadata:
		return diag.New(kind, diag.Error, diag.MetadataFileMissing, "", "File not found (required)")
	case diag.FilePipeline:
		return diag.New(kind, diag.Error, diag.PipelineFileMissing, "", "File not found (required)")
	case diag.FileWiki:
		return diag.New(kind, diag.Warning, diag.WikiFileMissing, "", "File not found (optional but recommended)")
	}
	return diag.New(kind, diag.Info, diag.IconFileMissing, "", "File not found (optional)")
}

// load parses f, builds its model into b and returns the diagnostics plus
// the checklist title earned by a clean parse.
func load(f *bundle.File, b *model.Bundle) ([]diag.Diagnostic, string) {
	var tree any
	var parsed []diag.Diagnostic
	var title string

	switch f.Kind {
	case diag.FileMetadata:
		v, ds := parse.JSON(f.Data, f.Kind)
		if v != nil {
			tree = v
		}
		parsed, title = ds, "Valid JSON syntax"
	case diag.FilePipeline:
		v, ds := parse.YAML(f.Data, f.Kind)
		if v != nil {
			tree = v
		}
		parsed, title = ds, "Valid YAML syntax"
	case diag.FileWiki:
		doc, ds := parse.Markdown(f.Data, f.Kind)
		tree = doc
		parsed, title = ds, "File exists and is readable"
	case diag.FileIcon:
		b.HasIcon = true
		doc, ds := parse.XML(f.Data, f.Kind)
		if doc != nil {
			b.Icon = &model.Icon{Root: doc.Root}
		}
		if len(ds) > 0 {
			return ds, ""
		}
		return nil, "Well-formed XML"
	}

	if len(parsed) > 0 {
		title = ""
	}
	if tree == nil {
		return parsed, title
	}
	m, built := model.Build(f.Kind, tree, f.Data)
	if m != nil {
		b.Set(m)
	}
	return append(parsed, built...), title
}
