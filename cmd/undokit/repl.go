package main

import (
	"os"

	"github.com/aretw0/undokit/internal/cli"
	"github.com/aretw0/undokit/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var replCmd = &cobra.Command{
	Use:   "repl [document]",
	Short: "Edit a document interactively",
	Long: `Reads editing commands from stdin, one per line. Type 'help' inside the
session for the list. Piped input is processed without prompts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		sessions, closer, err := newSessions(cfg, logger)
		if err != nil {
			return err
		}
		defer closer.Close()

		id := "default"
		if len(args) > 0 {
			id = args[0]
		}

		interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		opts := cli.REPLOptions{
			In:          os.Stdin,
			Out:         cmd.OutOrStdout(),
			DocumentID:  id,
			Sessions:    sessions,
			Interactive: interactive,
			Logger:      logger,
		}
		if plain, _ := cmd.Flags().GetBool("plain"); interactive && !plain {
			if render, err := tui.NewRenderer(); err == nil {
				opts.Render = render
			} else {
				logger.Warn("falling back to plain output", "err", err)
			}
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.RunREPL(ctx, opts)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().Bool("plain", false, "Print the document as plain markdown")
}
