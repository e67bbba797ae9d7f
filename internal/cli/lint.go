package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/thisrohangupta/agents/internal/branding"
	"github.com/thisrohangupta/agents/internal/bundle"
	"github.com/thisrohangupta/agents/internal/config"
	"github.com/thisrohangupta/agents/internal/ctxlog"
	"github.com/thisrohangupta/agents/internal/engine"
	"github.com/thisrohangupta/agents/internal/prose"
	"github.com/thisrohangupta/agents/internal/report"
	"github.com/thisrohangupta/agents/internal/store"
)

var (
	lintFormat  string
	lintStrict  bool
	lintWorkers int
	lintCache   string
	lintNoProse bool
)

var lintCmd = &cobra.Command{
	Use:   "lint <path>",
	Short: "Lint a template bundle or every bundle under a directory",
	Long: `Lint one template directory, or every template directory directly under <path>.

A directory holding metadata.json or pipeline.yaml is a single bundle. Otherwise
each non-hidden subdirectory holding either file is linted, in name order.

Exit status is 0 when clean, 1 when only warnings were found, and 2 when any
bundle has errors (or warnings under --strict) or <path> cannot be linted.`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	f := lintCmd.Flags()
	f.StringVar(&lintFormat, "format", "text", "Output format (text or json)")
	f.BoolVar(&lintStrict, "strict", false, "Fail on warnings as well as errors")
	f.IntVar(&lintWorkers, "workers", 0, "Bundles linted in parallel (0 uses GOMAXPROCS)")
	f.StringVar(&lintCache, "cache", "", "SQLite database for cached reports and run history")
	f.BoolVar(&lintNoProse, "no-prose", false, "Skip text-quality advice")
	rootCmd.AddCommand(lintCmd)
}

// bindFlags layers changed flags over config file and environment values.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding %s flag: %w", name, err)
		}
	}
	return nil
}

func runLint(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	err := bindFlags(flags, map[string]string{
		"format":  config.KeyFormat,
		"strict":  config.KeyStrict,
		"workers": config.KeyWorkers,
		"cache":   config.KeyCache,
	})
	if err != nil {
		return err
	}
	if flags.Changed("no-prose") {
		viper.Set(config.KeyProse, !lintNoProse)
	}

	settings, err := config.Current()
	if err != nil {
		return err
	}
	registry, err := effectiveRegistry(settings)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log := ctxlog.FromContext(ctx)
	loader := bundle.NewLoader()
	paths, err := loader.Discover(ctx, args[0])
	if err != nil {
		return &ExitError{Code: report.ExitFailed, Message: fmt.Sprintf("Error: %v", err)}
	}

	out := cmd.OutOrStdout()
	if len(paths) == 0 {
		fmt.Fprintln(out, "No templates found to validate.")
		return nil
	}

	opts := engine.Options{
		Registry: registry,
		Loader:   loader,
		Workers:  settings.Workers,
		RunID:    runID,
		Version:  buildVersion,
	}
	if settings.Prose {
		opts.Prose = prose.Heuristic{}
	}
	if settings.Cache != "" {
		st, err := store.NewSQLiteStore(settings.Cache)
		if err != nil {
			return fmt.Errorf("opening cache %s: %w", settings.Cache, err)
		}
		defer st.Close()
		opts.Cache = st
	}

	log.Info("linting", "templates", len(paths), "workers", settings.Workers, "cache", settings.Cache != "")
	reports, err := engine.New(opts).LintAll(ctx, paths)
	if err != nil {
		return &ExitError{Code: report.ExitFailed, Message: fmt.Sprintf("Error: %v", err)}
	}

	if settings.Format == "json" {
		err = report.WriteJSON(out, reports...)
	} else {
		err = writeTextReports(out, reports)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if code := report.ExitCode(reports, settings.Strict); code != report.ExitClean {
		return &ExitError{Code: code}
	}
	return nil
}

func writeTextReports(w io.Writer, reports []*report.Report) error {
	if len(reports) > 1 {
		if err := report.WriteBanner(w, branding.DisplayName()+" Template Validation", len(reports)); err != nil {
			return err
		}
	}
	for _, r := range reports {
		if err := report.WriteText(w, r); err != nil {
			return err
		}
	}
	if len(reports) > 1 {
		return report.WriteSummary(w, reports)
	}
	return nil
}
