package main

import (
	"github.com/aretw0/undokit/internal/cli"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through grouped undo and redo on a sample object",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		return cli.RunDemo(cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
