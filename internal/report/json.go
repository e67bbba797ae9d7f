package report

import (
	"encoding/json"
	"io"

	"github.com/thisrohangupta/agents/internal/diag"
)

// jsonReport is the published JSON shape; checklist lines are text-only.
type jsonReport struct {
	Template    string            `json:"template"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Summary     Summary           `json:"summary"`
	Passed      bool              `json:"passed"`
}

func project(r *Report) jsonReport {
	ds := r.Diagnostics
	if ds == nil {
		ds = []diag.Diagnostic{}
	}
	return jsonReport{Template: r.Template, Diagnostics: ds, Summary: r.Summary, Passed: r.Passed}
}

// WriteJSON renders one report as an object, or several as an array.
func WriteJSON(w io.Writer, reports ...*Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if len(reports) == 1 {
		return enc.Encode(project(reports[0]))
	}
	out := make([]jsonReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, project(r))
	}
	return enc.Encode(out)
}
