package main

import (
	"github.com/spf13/cobra"

	"baseline/internal/mcpserver"
	"baseline/internal/version"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP tool server (stdio)",
	Long: `Start an MCP server on stdin/stdout exposing baseline_scan and
baseline_list_rules, so coding assistants can check code before writing it.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	env, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer env.closeLog()

	env.logger.Info("Starting MCP server", "config", env.settings.Config)
	return mcpserver.ServeIO(cmd.Context(), mcpserver.Options{
		ConfigPath: env.settings.Config,
		Version:    version.Version,
		Workers:    env.settings.Workers,
		Logger:     env.logger,
	}, cmd.InOrStdin(), cmd.OutOrStdout())
}
