package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thisrohangupta/agents/internal/branding"
	"github.com/thisrohangupta/agents/internal/config"
	"github.com/thisrohangupta/agents/internal/ctxlog"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	configFile string
	logLevel   string
	logFormat  string

	// runID identifies this invocation in logs and the run history.
	runID string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` checks agent template bundles (metadata.json, pipeline.yaml,
wiki.MD, logo.svg) for structural errors, naming conventions, secret hygiene
and cross-file consistency before they are published.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Assigned here rather than in the literal: setup refers to rootCmd,
	// which would otherwise form an initialization cycle.
	rootCmd.PersistentPreRunE = setup

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default ~/"+branding.HomeDir()+"/config.yaml merged with ./"+branding.ProjectFile()+")")
	pf.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "Log format (text or json)")
}

// setup loads the configuration and attaches a run-scoped logger to the
// command context. Logs go to stderr; stdout carries only command output.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Load(configFile); err != nil {
		return err
	}
	pf := rootCmd.PersistentFlags()
	if err := viper.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level")); err != nil {
		return fmt.Errorf("binding log-level flag: %w", err)
	}
	if err := viper.BindPFlag(config.KeyLogFormat, pf.Lookup("log-format")); err != nil {
		return fmt.Errorf("binding log-format flag: %w", err)
	}

	runID = uuid.NewString()
	logger := ctxlog.New(viper.GetString(config.KeyLogLevel), viper.GetString(config.KeyLogFormat), cmd.ErrOrStderr()).
		With("run_id", runID)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(ctxlog.WithLogger(ctx, logger))
	logger.Debug("configuration loaded", "command", cmd.Name(), "config", viper.ConfigFileUsed())
	return nil
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.ExecuteContext(context.Background())
}
