package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"baseline/internal/config"
)

var (
	initForce   bool
	initPresets []string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a baseline.toml",
	Long: `Create a baseline.toml in the current directory and default runtime
settings in .baseline/settings.json.

Examples:
  baseline init
  baseline init --preset shadcn-strict --preset security`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing baseline.toml")
	initCmd.Flags().StringSliceVarP(&initPresets, "preset", "p", nil, "Presets to extend")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	for _, p := range initPresets {
		if _, err := config.PresetRules(p); err != nil {
			return err
		}
	}

	path := configFlag
	if path == "" {
		path = filepath.Join(cwd, config.DefaultConfigFile)
	}
	w := cmd.OutOrStdout()
	if _, err := os.Stat(path); err == nil && !initForce {
		// already initialized is success
		fmt.Fprintf(w, "%s already exists.\nRun 'baseline init --force' to overwrite it.\n", path)
		return nil
	}

	if err := os.WriteFile(path, []byte(initTemplate(filepath.Base(cwd), initPresets)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	settingsPath := filepath.Join(cwd, config.SettingsDir, "settings.json")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := config.DefaultSettings().Save(cwd); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}
	}

	fmt.Fprintf(w, "Configuration written to: %s\n", path)
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintln(w, "  1. Add rules or presets to baseline.toml")
	fmt.Fprintln(w, "  2. Run 'baseline scan' to check your code")
	fmt.Fprintln(w, "  3. Run 'baseline ratchet add <pattern>' to freeze legacy usage")
	return nil
}

// initTemplate renders a starter rule file.
func initTemplate(name string, presets []string) string {
	quoted := make([]string, len(presets))
	for i, p := range presets {
		quoted[i] = fmt.Sprintf("%q", p)
	}

	var b strings.Builder
	b.WriteString("[baseline]\n")
	fmt.Fprintf(&b, "name = %q\n", name)
	fmt.Fprintf(&b, "extends = [%s]\n", strings.Join(quoted, ", "))
	b.WriteString(`exclude = ["**/node_modules/**", "**/dist/**", "**/build/**", "**/.next/**"]

# Available presets: ` + strings.Join(config.AvailablePresets(), ", ") + `

# [[rule]]
# id = "no-console"
# type = "banned-pattern"
# severity = "warning"
# glob = "**/*.{ts,tsx}"
# pattern = "console.log("
# message = "Use the logger instead of console.log"
`)
	return b.String()
}
