package report

import (
	"io"
	"strings"

	"github.com/thisrohangupta/agents/internal/diag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	rule       = "--------------------------------------------------"
	doubleRule = "============================================================"
)

var icons = map[diag.Severity]string{
	diag.Error:   "❌",
	diag.Warning: "⚠️ ",
	diag.Info:    "ℹ️ ",
}

// WriteText renders r as the per-template text report: a header, one
// section per file with its checklist and diagnostics, then the summary.
func WriteText(w io.Writer, r *Report) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	p.Fprintf(&b, "\n## Template: %s\n%s\n", r.Template, rule)
	for _, file := range diag.Files {
		var checks []Check
		for _, c := range r.Checks {
			if c.File == file {
				checks = append(checks, c)
			}
		}
		var ds []diag.Diagnostic
		for _, d := range r.Diagnostics {
			if d.File == file {
				ds = append(ds, d)
			}
		}
		if file == diag.FileBundle && len(ds) == 0 {
			continue
		}
		p.Fprintf(&b, "\n%s\n", file)
		for _, c := range checks {
			p.Fprintf(&b, "  ✅ %s\n", c.Title)
		}
		for _, d := range ds {
			p.Fprintf(&b, "  %s %s: %s", icons[d.Severity], d.Code, d.Message)
			if d.Location != "" {
				p.Fprintf(&b, " (%s)", d.Location)
			}
			b.WriteString("\n")
		}
		if len(checks) == 0 && len(ds) == 0 {
			b.WriteString("  (no checks ran)\n")
		}
	}

	s := r.Summary
	b.WriteString("\n  Summary\n")
	p.Fprintf(&b, "  Errors: %d (must fix)\n", s.Errors)
	p.Fprintf(&b, "  Warnings: %d (should fix)\n", s.Warnings)
	if s.Infos > 0 {
		p.Fprintf(&b, "  Info: %d\n", s.Infos)
	}
	switch {
	case !r.Passed:
		p.Fprintf(&b, "  ❌ Status: FAILED (%d error(s) must be fixed)\n", s.Errors)
	case s.Warnings > 0:
		p.Fprintf(&b, "  ✅ Status: PASSED with %d warning(s)\n", s.Warnings)
	default:
		b.WriteString("  ✅ Status: PASSED\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteBanner renders the run header shown before several template reports.
func WriteBanner(w io.Writer, title string, templates int) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder
	p.Fprintf(&b, "%s\n%s\n%s\n", doubleRule, title, doubleRule)
	p.Fprintf(&b, "\nValidating %d template(s)...\n", templates)
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSummary renders the run-level summary over several templates.
func WriteSummary(w io.Writer, reports []*Report) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	var errors, warnings int
	for _, r := range reports {
		errors += r.Summary.Errors
		warnings += r.Summary.Warnings
	}
	failed := Failed(reports)

	p.Fprintf(&b, "\n%s\nVALIDATION SUMMARY\n%s\n", doubleRule, doubleRule)
	p.Fprintf(&b, "\nTemplates validated: %d\n", len(reports))
	p.Fprintf(&b, "  Passed: %d\n", len(reports)-len(failed))
	p.Fprintf(&b, "  Failed: %d\n", len(failed))
	p.Fprintf(&b, "\nTotal errors: %d\n", errors)
	p.Fprintf(&b, "Total warnings: %d\n", warnings)
	if len(failed) > 0 {
		b.WriteString("\nFailed templates:\n")
		for _, name := range failed {
			p.Fprintf(&b, "  - %s\n", name)
		}
		b.WriteString("\n❌ Validation FAILED\n")
	} else {
		b.WriteString("\n✅ All templates passed validation\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
