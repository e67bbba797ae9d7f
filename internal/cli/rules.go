package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/thisrohangupta/agents/internal/config"
	"github.com/thisrohangupta/agents/internal/diag"
	"github.com/thisrohangupta/agents/internal/engine"
	"github.com/thisrohangupta/agents/internal/rules"
)

var rulesJSON bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List lint rules in evaluation order",
	Long: `List the registered rules in the order they run, with their default severity and
the effective severity after config overrides (rules.<CODE>.severity and
rules.<CODE>.disabled).`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(rulesCmd)
}

// ruleEntry represents a rule for display.
type ruleEntry struct {
	Code      diag.Code     `json:"code"`
	File      diag.File     `json:"file"`
	Default   diag.Severity `json:"default_severity"`
	Effective diag.Severity `json:"severity"`
	Enabled   bool          `json:"enabled"`
	Title     string        `json:"title,omitempty"`
}

// effectiveRegistry applies the configured overrides to the default rules.
// An override naming a code nothing emits is a config mistake.
func effectiveRegistry(s *config.Settings) (*rules.Registry, error) {
	registry := engine.DefaultRegistry()
	for code := range s.Overrides {
		if _, ok := registry.Lookup(code); ok {
			continue
		}
		if slices.Contains(diag.Unregistered, code) || strings.HasPrefix(string(code), diag.ProsePrefix) {
			continue
		}
		return nil, fmt.Errorf("config: unknown rule code %s", code)
	}
	return registry.WithOverrides(s.Overrides), nil
}

func runRules(cmd *cobra.Command, args []string) error {
	settings, err := config.Current()
	if err != nil {
		return err
	}
	registry, err := effectiveRegistry(settings)
	if err != nil {
		return err
	}

	var entries []ruleEntry
	for _, r := range registry.Rules() {
		def, _ := registry.Default(r.Code)
		entries = append(entries, ruleEntry{
			Code:      r.Code,
			File:      r.File,
			Default:   def.Severity,
			Effective: r.Severity,
			Enabled:   registry.Enabled(r.Code),
			Title:     r.Title,
		})
	}

	if rulesJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CODE\tFILE\tSEVERITY\tDEFAULT\tENABLED")
	for _, e := range entries {
		enabled := "yes"
		if !e.Enabled {
			enabled = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Code, e.File, e.Effective, e.Default, enabled)
	}
	return w.Flush()
}
