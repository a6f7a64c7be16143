package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"baseline/internal/engine"
	"baseline/internal/report"
	"baseline/internal/version"
)

var (
	scanFormat   string
	scanExclude  []string
	scanStdin    bool
	scanFilename string
)

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Scan files for rule violations",
	Long: `Scan files and directories against the configured rules.

Exit status is 0 when clean, 1 when any error-severity violation is found or
a ratchet exceeds its budget, and 2 when the configuration cannot be used.

Examples:
  baseline scan                       # Scan the current directory
  baseline scan src apps/web          # Scan specific paths
  baseline scan --format sarif > out.sarif
  cat App.tsx | baseline scan --stdin --filename src/App.tsx`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "", "Output format: pretty, json, compact, github, sarif, markdown")
	scanCmd.Flags().StringSliceVarP(&scanExclude, "exclude", "e", nil, "Additional exclude globs")
	scanCmd.Flags().BoolVar(&scanStdin, "stdin", false, "Read a single file's content from stdin")
	scanCmd.Flags().StringVar(&scanFilename, "filename", "stdin.tsx", "Virtual filename for --stdin, used for glob matching")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	env, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer env.closeLog()

	format := env.settings.Format
	if scanFormat != "" {
		format = scanFormat
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	cfg, err := env.loadConfig()
	if err != nil {
		return err
	}
	specs, err := cfg.Specs()
	if err != nil {
		return err
	}
	eng, err := env.newEngine(cfg, scanExclude)
	if err != nil {
		return err
	}

	var res *engine.Result
	if scanStdin {
		content, err := readAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		res, err = eng.ScanSource(cmd.Context(), specs, scanFilename, content)
		if err != nil {
			return err
		}
	} else {
		res, err = eng.Scan(cmd.Context(), specs, targets(args))
		if err != nil {
			return err
		}
	}

	opts := report.Options{Version: version.Version}
	if root, err := filepath.Abs(cfg.Dir()); err == nil {
		opts.RepoRoot = root
	}
	if err := report.Write(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, f, opts); err != nil {
		return err
	}
	if res.HasErrors() || res.RatchetFailed() {
		return &exitError{code: exitViolations}
	}
	return nil
}
