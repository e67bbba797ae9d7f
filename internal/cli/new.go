package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/thisrohangupta/agents/internal/branding"
	"github.com/thisrohangupta/agents/internal/scaffold"
)

var newOutputDir string

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a new template bundle",
	Long: `Create a template bundle directory holding metadata.json, pipeline.yaml, wiki.MD
and logo.svg. The generated bundle lints clean. <name> must be lower-case
letters and digits separated by hyphens; it becomes the directory name and,
with hyphens as spaces, the metadata name.`,
	Example: `  templint new flag-cleanup
  templint new flag-cleanup --output-dir ./templates`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVar(&newOutputDir, "output-dir", ".", "Parent directory for the new bundle")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	data, err := scaffold.NewData(args[0])
	if err != nil {
		return err
	}
	dir := filepath.Join(newOutputDir, data.Slug)
	result, err := scaffold.Generate(data, dir)
	if err != nil {
		return fmt.Errorf("scaffolding %s: %w", data.Slug, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	fmt.Fprintf(out, "\nNext: edit the files, then run '%s lint %s'.\n", branding.CLIName(), result.OutputDir)
	return nil
}
