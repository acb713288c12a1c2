// Package cmd implements the pawprint command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pawprint/pawprint/internal/config"
	"github.com/pawprint/pawprint/pkg/logging"
)

var (
	configFile string
	verbose    bool
	quiet      bool
	logLevel   string

	cfg *config.Config

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pawprint",
	Short: "Pet-food catalog reconciliation",
	Long: `Pawprint reconciles pet-food product records harvested from multiple
independent sources into a single canonical catalog: brands are
canonicalized against a curated alias map, records are merged under
deterministic product keys with full provenance, manual overrides are
layered on top, and guard invariants gate promotion from the preview
view to production.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the CLI with signal-aware cancellation.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./.pawprint.yaml or $HOME/.pawprint.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "warnings and errors only")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
}

// setup loads configuration and installs the logger before any
// subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	logger := newLogger()
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), &logger))
	return nil
}

// newLogger builds the CLI logger. Level precedence: --log-level, then
// --verbose/--quiet, then config (which already folds in LOG_LEVEL).
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case logLevel != "":
		parsed, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using info\n", logLevel)
		} else {
			level = parsed
		}
	case verbose && quiet:
		fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		level = zerolog.WarnLevel
	case verbose:
		level = zerolog.DebugLevel
	case quiet:
		level = zerolog.WarnLevel
	default:
		if cfg.LogLevel != "" {
			if parsed, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
				level = parsed
			}
		}
	}

	var logger zerolog.Logger
	if cfg.LogFormat == "json" {
		logger = logging.NewJSON(os.Stderr)
	} else {
		logger = logging.NewConsole()
	}
	return logger.Level(level)
}
