package report

import (
	"github.com/thisrohangupta/agents/internal/diag"
)

// Process exit codes.
const (
	ExitClean    = 0
	ExitWarnings = 1
	ExitFailed   = 2
)

// Check is a rule that ran and found nothing. It renders as a checklist
// line in its file's section.
type Check struct {
	File  diag.File `json:"file"`
	Code  diag.Code `json:"code,omitempty"`
	Title string    `json:"title"`
}

// Summary counts diagnostics per severity.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Report is the structured result of linting one bundle.
type Report struct {
	Template    string            `json:"template"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Checks      []Check           `json:"checks,omitempty"`
	Summary     Summary           `json:"summary"`
	Passed      bool              `json:"passed"`
}

// New builds a report. diagnostics must already be in report order.
func New(template string, diagnostics []diag.Diagnostic, checks []Check) *Report {
	if diagnostics == nil {
		diagnostics = []diag.Diagnostic{}
	}
	errors, warnings, infos := diag.Counts(diagnostics)
	return &Report{
		Template:    template,
		Diagnostics: diagnostics,
		Checks:      checks,
		Summary:     Summary{Errors: errors, Warnings: warnings, Infos: infos},
		Passed:      errors == 0,
	}
}

// ExitCode maps the report to a process exit code. Under strict, warnings
// fail the run as errors do.
func (r *Report) ExitCode(strict bool) int {
	switch {
	case r.Summary.Errors > 0:
		return ExitFailed
	case r.Summary.Warnings > 0 && strict:
		return ExitFailed
	case r.Summary.Warnings > 0:
		return ExitWarnings
	}
	return ExitClean
}

// ExitCode is the highest exit code over reports.
func ExitCode(reports []*Report, strict bool) int {
	code := ExitClean
	for _, r := range reports {
		code = max(code, r.ExitCode(strict))
	}
	return code
}

// Failed returns the templates whose reports did not pass.
func Failed(reports []*Report) []string {
	var out []string
	for _, r := range reports {
		if !r.Passed {
			out = append(out, r.Template)
		}
	}
	return out
}
