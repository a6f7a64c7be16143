package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"baseline/internal/config"
	"baseline/internal/engine"
	"baseline/internal/slogutil"
	"baseline/internal/version"
)

// Exit codes.
const (
	exitClean      = 0
	exitViolations = 1
	exitConfig     = 2
)

var (
	configFlag  string
	verboseFlag int
	quietFlag   bool
	logFileFlag string
	workersFlag int
)

var rootCmd = &cobra.Command{
	Use:   "baseline",
	Short: "baseline - architectural lint engine for front-end code",
	Long: `baseline enforces architectural rules over TypeScript, JavaScript and JSX
sources: banned patterns and imports, Tailwind theming, React component
structure, and ratchets that let legacy violations only ever go down.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("baseline version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Rule file (default: settings config or baseline.toml)")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable logging")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Also write logs to this file")
	rootCmd.PersistentFlags().IntVarP(&workersFlag, "workers", "j", 0, "Parallel file workers (default: settings or GOMAXPROCS)")
}

// exitError carries a process exit code. An empty message prints nothing.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// exitCode maps a command error to the process exit code: 1 for findings,
// 2 for anything that prevented a clean run.
func exitCode(err error) int {
	if err == nil {
		return exitClean
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitConfig
}

// runtimeEnv bundles what every command needs once flags and settings are merged.
type runtimeEnv struct {
	settings *config.Settings
	logger   *slog.Logger
	closeLog func()
}

func newRuntime(cmd *cobra.Command) (*runtimeEnv, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	settings, err := config.LoadSettings(cwd)
	if err != nil {
		return nil, err
	}
	if configFlag != "" {
		settings.Config = configFlag
	}
	if workersFlag > 0 {
		settings.Workers = workersFlag
	}

	level := slogutil.LevelFromString(settings.LogLevel)
	if verboseFlag > 0 || quietFlag {
		level = slogutil.LevelFromVerbosity(verboseFlag, quietFlag)
	}
	env := &runtimeEnv{settings: settings, closeLog: func() {}}
	env.logger = slogutil.NewLogger(cmd.ErrOrStderr(), level)

	if logFileFlag != "" {
		fileLogger, f, err := slogutil.NewFileLogger(logFileFlag, slog.LevelDebug)
		if err != nil {
			return nil, err
		}
		env.logger = slog.New(slogutil.NewTeeHandler(env.logger.Handler(), fileLogger.Handler()))
		env.closeLog = func() { _ = f.Close() }
	}
	return env, nil
}

// loadConfig loads the rule file named by the merged settings.
func (r *runtimeEnv) loadConfig() (*config.File, error) {
	f, err := config.Load(r.settings.Config)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Loaded config", "path", f.Path(), "rules", len(f.Rules), "extends", f.Baseline.Extends)
	return f, nil
}

// newEngine creates an engine that honors the config's excludes plus extra.
func (r *runtimeEnv) newEngine(f *config.File, extra []string) (*engine.Engine, error) {
	exclude := append(append([]string(nil), f.Baseline.Exclude...), extra...)
	return engine.New(engine.Options{Workers: r.settings.Workers, Exclude: exclude, Logger: r.logger})
}

func targets(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	return string(data), err
}
