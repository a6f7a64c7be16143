package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"baseline/internal/config"
)

var presetsCmd = &cobra.Command{
	Use:   "presets [name]",
	Short: "List built-in presets or the rules of one preset",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	if len(args) == 0 {
		for _, name := range config.AvailablePresets() {
			entries, err := config.PresetRules(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%-16s %d rules\n", name, len(entries))
		}
		return nil
	}

	entries, err := config.PresetRules(args[0])
	if err != nil {
		return err
	}
	for _, e := range entries {
		sev := e.Severity
		if sev == "" {
			sev = "warning"
		}
		fmt.Fprintf(w, "%-28s %-22s %-7s %s\n", e.ID, e.Type, sev, e.Message)
	}
	return nil
}
