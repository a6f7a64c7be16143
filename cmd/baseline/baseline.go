package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"baseline/internal/report"
)

var baselineOutput string

var baselineCmd = &cobra.Command{
	Use:   "baseline [paths...]",
	Short: "Record current ratchet counts",
	Long: `Count every ratchet rule's current matches and write a baseline snapshot.
A path ending in .zst is written zstd-compressed.

Examples:
  baseline baseline
  baseline baseline src --output .baseline/baseline.json.zst`,
	RunE: runBaseline,
}

func init() {
	baselineCmd.Flags().StringVarP(&baselineOutput, "output", "o", "", "Snapshot path (default: settings baseline)")
	rootCmd.AddCommand(baselineCmd)
}

func runBaseline(cmd *cobra.Command, args []string) error {
	env, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer env.closeLog()

	cfg, err := env.loadConfig()
	if err != nil {
		return err
	}
	specs, err := cfg.Specs()
	if err != nil {
		return err
	}
	eng, err := env.newEngine(cfg, nil)
	if err != nil {
		return err
	}
	res, err := eng.Count(cmd.Context(), specs, targets(args))
	if err != nil {
		return err
	}

	out := baselineOutput
	if out == "" {
		out = env.settings.Baseline
	}
	if err := report.WriteBaseline(out, res); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, e := range res.Entries {
		fmt.Fprintf(w, "  %-30s %d\n", e.RuleID, e.Count)
	}
	fmt.Fprintf(w, "Baseline written to %s (%d ratchet rules, %d files scanned)\n", out, len(res.Entries), res.FilesScanned)
	return nil
}
