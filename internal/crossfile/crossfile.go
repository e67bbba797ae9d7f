package crossfile

import (
	"strings"

	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/model"
	"github.com/thisrohangupta/agents/internal/rules"
	"golang.org/x/text/cases"
)

// folded case-folds s. Casers carry state, so each call gets its own.
func folded(s string) string {
	return cases.Fold().String(s)
}

// Rules returns the cross-file rules in their documented order.
func Rules() []rules.Rule {
	return []rules.Rule{
		{
			Code:     diag.NameDirectoryMismatch,
			File:     diag.FileMetadata,
			Severity: diag.Error,
			Message:  "'name' should match directory name: expected '%s', got '%s'",
			Title:    "'name' matches directory name",
			Needs:    rules.NeedsMetadata,
			Check:    checkNameDirectory,
		},
		{
			Code:     diag.NameDirectorySkipped,
			File:     diag.FileMetadata,
			Severity: diag.Info,
			Message:  "Directory name unknown; 'name' to directory check skipped",
			Needs:    rules.NeedsMetadata,
			Check: func(b *model.Bundle) []rules.Finding {
				if b.Dir != "" || !b.Metadata.Has(model.FieldName) {
					return nil
				}
				return []rules.Finding{rules.Found("")}
			},
		},
		{
			Code:     diag.WikiTitleMismatch,
			File:     diag.FileWiki,
			Severity: diag.Error,
			Message:  "Title '%s' does not match metadata name '%s'",
			Title:    "Title matches metadata name",
			Needs:    rules.NeedsMetadata | rules.NeedsWiki,
			Check:    checkWikiTitle,
		},
		{
			Code:     diag.InputsTableMissingInput,
			File:     diag.FileWiki,
			Severity: diag.Warning,
			Message:  "Inputs table missing '%s'",
			Title:    "Inputs table documents every pipeline input",
			Needs:    rules.NeedsPipeline | rules.NeedsWiki,
			Check:    checkMissingRows,
		},
		{
			Code:     diag.InputsTableStale,
			File:     diag.FileWiki,
			Severity: diag.Error,
			Message:  "Inputs table documents '%s', which pipeline.yaml does not declare (stale documentation)",
			Title:    "Inputs table has no stale rows",
			Needs:    rules.NeedsPipeline | rules.NeedsWiki,
			Check:    checkStaleRows,
		},
		{
			Code:     diag.InputsTableTypeMismatch,
			File:     diag.FileWiki,
			Severity: diag.Error,
			Message:  "Input '%s' has type '%s' in the inputs table but '%s' in pipeline.yaml",
			Title:    "Inputs table types match pipeline.yaml",
			Needs:    rules.NeedsPipeline | rules.NeedsWiki,
			Check: compareRows(model.ColumnType, func(row *model.InputRow, in *model.InputDef) []any {
				if row.Type == "" || !in.HasType || folded(row.Type) == folded(in.Type) {
					return nil
				}
				return []any{in.Name, row.Type, in.Type}
			}),
		},
		{
			Code:     diag.InputsTableRequiredMismatch,
			File:     diag.FileWiki,
			Severity: diag.Warning,
			Message:  "Input '%s' is %s in the inputs table but %s in pipeline.yaml",
			Title:    "Inputs table required flags match pipeline.yaml",
			Needs:    rules.NeedsPipeline | rules.NeedsWiki,
			Check: compareRows(model.ColumnRequired, func(row *model.InputRow, in *model.InputDef) []any {
				if row.Required == in.Required {
					return nil
				}
				return []any{in.Name, requiredWord(row.Required), requiredWord(in.Required)}
			}),
		},
		{
			Code:     diag.InputsTableDefaultMismatch,
			File:     diag.FileWiki,
			Severity: diag.Warning,
			Message:  "Input '%s' %s a default in the inputs table but %s one in pipeline.yaml",
			Title:    "Inputs table defaults match pipeline.yaml",
			Needs:    rules.NeedsPipeline | rules.NeedsWiki,
			Check: compareRows(model.ColumnDefault, func(row *model.InputRow, in *model.InputDef) []any {
				if row.HasDefault == in.HasDefault() {
					return nil
				}
				return []any{in.Name, hasWord(row.HasDefault), hasWord(in.HasDefault())}
			}),
		},
	}
}

// ExpectedDirectory is the directory name a metadata name maps to.
func ExpectedDirectory(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

func checkNameDirectory(b *model.Bundle) []rules.Finding {
	m := b.Metadata
	if b.Dir == "" || !m.Has(model.FieldName) || ExpectedDirectory(m.Name) == b.Dir {
		return nil
	}
	return []rules.Finding{rules.Found(diag.Line(m.Line(model.FieldName)), strings.ReplaceAll(b.Dir, "-", " "), m.Name)}
}

// SameTitle compares a wiki title with a metadata name ignoring case and
// runs of whitespace.
func SameTitle(title, name string) bool {
	return folded(strings.Join(strings.Fields(title), " ")) == folded(strings.Join(strings.Fields(name), " "))
}

func checkWikiTitle(b *model.Bundle) []rules.Finding {
	w, m := b.Wiki, b.Metadata
	if !w.HasTitle || !m.Has(model.FieldName) || SameTitle(w.Title, m.Name) {
		return nil
	}
	return []rules.Finding{rules.Found(diag.Line(w.TitleLine), w.Title, m.Name)}
}

func tableLocation(w *model.Wiki) string {
	if w.Inputs == nil {
		return ""
	}
	return "inputs table, " + diag.Line(w.Inputs.Line)
}

func checkMissingRows(b *model.Bundle) []rules.Finding {
	w := b.Wiki
	var out []rules.Finding
	for _, in := range b.Pipeline.Inputs {
		if w.Inputs != nil && w.Inputs.Row(in.Name) != nil {
			continue
		}
		out = append(out, rules.Found(tableLocation(w), in.Name))
	}
	return out
}

func checkStaleRows(b *model.Bundle) []rules.Finding {
	if b.Wiki.Inputs == nil {
		return nil
	}
	var out []rules.Finding
	seen := map[string]bool{}
	for _, row := range b.Wiki.Inputs.Rows {
		if seen[row.Name] || b.Pipeline.Input(row.Name) != nil {
			continue
		}
		seen[row.Name] = true
		out = append(out, rules.Found(diag.Line(row.Line), row.Name))
	}
	return out
}

// compareRows builds a check over the rows documenting declared inputs. It
// only runs when the table carries column; differ returns the message
// arguments for a mismatch, or nil.
func compareRows(column string, differ func(*model.InputRow, *model.InputDef) []any) func(*model.Bundle) []rules.Finding {
	return func(b *model.Bundle) []rules.Finding {
		table := b.Wiki.Inputs
		if table == nil || !table.HasColumn(column) {
			return nil
		}
		var out []rules.Finding
		for _, in := range b.Pipeline.Inputs {
			row := table.Row(in.Name)
			if row == nil {
				continue
			}
			if args := differ(row, in); args != nil {
				out = append(out, rules.Finding{Location: diag.Line(row.Line), Args: args})
			}
		}
		return out
	}
}

func requiredWord(required bool) string {
	if required {
		return "required"
	}
	return "optional"
}

func hasWord(has bool) string {
	if has {
		return "has"
	}
	return "does not have"
}
