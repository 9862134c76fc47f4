package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/undokit/internal/config"
	"github.com/aretw0/undokit/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "undokit",
	Short: "undokit keeps grouped undo/redo histories for documents",
	Long: `undokit records field edits as commands. Edits pushed together are undone
and redone together. Use it interactively (repl), over HTTP (serve), or run
the walkthrough (demo).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to undokit.yaml")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
}

// setup loads the configuration and builds the logger for a command.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}

	logger := logging.NewWithWriter(os.Stderr, cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))
	return cfg, logger, nil
}
