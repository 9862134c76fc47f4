package main

import (
	"fmt"

	"github.com/aretw0/undokit"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of undokit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "undokit version %s\n", undokit.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
