package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"baseline/internal/ratchet"
	"baseline/internal/report"
)

var (
	ratchetID      string
	ratchetGlob    string
	ratchetRegex   bool
	ratchetMessage string
	ratchetFrom    string
)

var ratchetCmd = &cobra.Command{
	Use:   "ratchet",
	Short: "Manage ratchet rules",
	Long: `Ratchet rules allow a fixed number of legacy matches. The budget can only
be tightened, so new occurrences fail the scan while old ones are paid down.`,
}

var ratchetAddCmd = &cobra.Command{
	Use:   "add <pattern> [paths...]",
	Short: "Add a ratchet rule budgeted at the current count",
	Long: `Count the current matches of a pattern and append a ratchet rule with
max_count set to that count.

Examples:
  baseline ratchet add "legacyFetch("
  baseline ratchet add --regex --glob "**/*.tsx" "console\.(log|debug)\(" src`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRatchetAdd,
}

var ratchetDownCmd = &cobra.Command{
	Use:   "down <rule-id> [paths...]",
	Short: "Tighten a ratchet rule to its current count",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRatchetDown,
}

var ratchetFromCmd = &cobra.Command{
	Use:   "from",
	Short: "Add ratchet rules from a baseline snapshot",
	Args:  cobra.NoArgs,
	RunE:  runRatchetFrom,
}

func init() {
	ratchetAddCmd.Flags().StringVar(&ratchetID, "id", "", "Rule id (default: slug of the pattern)")
	ratchetAddCmd.Flags().StringVar(&ratchetGlob, "glob", ratchet.AnyFile, "Files the rule applies to")
	ratchetAddCmd.Flags().BoolVar(&ratchetRegex, "regex", false, "Treat the pattern as a regular expression")
	ratchetAddCmd.Flags().StringVarP(&ratchetMessage, "message", "m", "", "Rule message (default: \"N remaining\")")
	ratchetFromCmd.Flags().StringVar(&ratchetFrom, "baseline", "", "Snapshot path (default: settings baseline)")

	ratchetCmd.AddCommand(ratchetAddCmd, ratchetDownCmd, ratchetFromCmd)
	rootCmd.AddCommand(ratchetCmd)
}

func newRatchet(cmd *cobra.Command) (*ratchet.Ratchet, *runtimeEnv, error) {
	env, err := newRuntime(cmd)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := env.loadConfig()
	if err != nil {
		env.closeLog()
		return nil, nil, err
	}
	eng, err := env.newEngine(cfg, nil)
	if err != nil {
		env.closeLog()
		return nil, nil, err
	}
	return ratchet.New(env.settings.Config, eng, env.logger), env, nil
}

func runRatchetAdd(cmd *cobra.Command, args []string) error {
	r, env, err := newRatchet(cmd)
	if err != nil {
		return err
	}
	defer env.closeLog()

	rule, err := r.Add(cmd.Context(), ratchet.AddOptions{
		Pattern: args[0],
		ID:      ratchetID,
		Glob:    ratchetGlob,
		Regex:   ratchetRegex,
		Message: ratchetMessage,
	}, targets(args[1:]))
	if err != nil {
		return err
	}
	noun := "occurrences"
	if rule.MaxCount == 1 {
		noun = "occurrence"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added ratchet rule '%s' (max_count = %d, %d current %s)\n", rule.ID, rule.MaxCount, rule.MaxCount, noun)
	return nil
}

func runRatchetDown(cmd *cobra.Command, args []string) error {
	r, env, err := newRatchet(cmd)
	if err != nil {
		return err
	}
	defer env.closeLog()

	oldMax, newMax, err := r.Down(cmd.Context(), args[0], targets(args[1:]))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Ratcheted down '%s': %d -> %d\n", args[0], oldMax, newMax)
	return nil
}

func runRatchetFrom(cmd *cobra.Command, args []string) error {
	r, env, err := newRatchet(cmd)
	if err != nil {
		return err
	}
	defer env.closeLog()

	path := ratchetFrom
	if path == "" {
		path = env.settings.Baseline
	}
	snapshot, err := report.ReadBaseline(path)
	if err != nil {
		return err
	}
	added, skipped, err := r.From(snapshot)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, id := range skipped {
		fmt.Fprintf(w, "  skipped %s (rule already exists)\n", id)
	}
	for _, rule := range added {
		fmt.Fprintf(w, "  %s (max_count = %d)\n", rule.ID, rule.MaxCount)
	}
	fmt.Fprintf(w, "Added %d ratchet rules from %s\n", len(added), path)
	return nil
}
