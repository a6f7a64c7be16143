package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"baseline/internal/syntax"
	"baseline/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		parser := "tree-sitter"
		if !syntax.Available {
			parser = "none (built without cgo, tree rules disabled)"
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.Full(parser))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
