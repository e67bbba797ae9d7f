package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thisrohangupta/agents/internal/branding"
	"github.com/thisrohangupta/agents/internal/config"
	"github.com/thisrohangupta/agents/internal/store"
)

var (
	historyCache string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history [template]",
	Short: "Show recent lint runs from the cache database",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyCache, "cache", "", "SQLite database written by 'lint --cache'")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd.Flags(), map[string]string{"cache": config.KeyCache}); err != nil {
		return err
	}
	path := viper.GetString(config.KeyCache)
	if path == "" {
		return fmt.Errorf("no cache database configured; pass --cache or run '%s config set cache <file>'", branding.CLIName())
	}

	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return fmt.Errorf("opening cache %s: %w", path, err)
	}
	defer st.Close()

	var template string
	if len(args) == 1 {
		template = args[0]
	}
	runs, err := st.History(cmd.Context(), template, historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No lint runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TIME\tTEMPLATE\tRESULT\tERRORS\tWARNINGS\tCACHED\tRUN")
	for _, r := range runs {
		result := "passed"
		if !r.Passed {
			result = "failed"
		}
		cached := "no"
		if r.Cached {
			cached = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime), r.Template, result, r.Errors, r.Warnings, cached, shortID(r.RunID))
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
