// Package engine runs rules over a file set: it groups rules by glob, walks
// the targets, evaluates files in parallel, filters suppressed violations and
// applies ratchet budgets.
package engine

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"baseline/internal/errors"
	"baseline/internal/glob"
	"baseline/internal/rules"
	"baseline/internal/slogutil"
	"baseline/internal/walk"
)

// MinifiedLineLength is the line length above which a file is treated as
// minified and skipped.
const MinifiedLineLength = 4096

// Options configures an Engine.
type Options struct {
	// Workers bounds per-file parallelism. Zero means GOMAXPROCS.
	Workers int
	// Exclude globs are matched against walk-relative paths and entry names.
	Exclude []string
	Logger  *slog.Logger
}

// Engine scans file sets. It is safe for concurrent use.
type Engine struct {
	workers int
	exclude *glob.Set
	logger  *slog.Logger
}

// New creates an Engine. It fails when an exclude glob is invalid.
func New(opts Options) (*Engine, error) {
	exclude, err := glob.Compile(opts.Exclude...)
	if err != nil {
		return nil, errors.New(errors.InvalidGlob, "invalid exclude glob", err)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{workers: workers, exclude: exclude, logger: slogutil.OrDiscard(opts.Logger)}, nil
}

// Result is the outcome of a scan.
type Result struct {
	RunID         string                  `json:"runId"`
	Violations    []rules.Violation       `json:"violations"`
	FilesScanned  int                     `json:"filesScanned"`
	RulesLoaded   int                     `json:"rulesLoaded"`
	RatchetCounts map[string]RatchetCount `json:"ratchetCounts"`
	Duration      time.Duration           `json:"durationNs"`
}

// HasErrors reports whether any violation has error severity.
func (r *Result) HasErrors() bool {
	for _, v := range r.Violations {
		if v.Severity == rules.SeverityError {
			return true
		}
	}
	return false
}

// RatchetFailed reports whether any ratchet rule exceeded its budget.
func (r *Result) RatchetFailed() bool {
	for _, c := range r.RatchetCounts {
		if !c.Passed() {
			return true
		}
	}
	return false
}

// Scan builds specs into rules and runs them over the files below roots.
// Construction errors are returned before any file is read; per-file read
// failures are logged and skipped.
func (e *Engine) Scan(ctx context.Context, specs []rules.Spec, roots []string) (*Result, error) {
	start := time.Now()
	p, err := buildPlan(specs)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Built rules", "rules", p.rulesLoaded, "groups", len(p.groups), "filePresence", len(p.presence))

	files, err := walk.New(e.exclude, e.logger).Collect(ctx, roots)
	if err != nil {
		return nil, err
	}

	perFile, scanned, err := e.run(ctx, p, files)
	if err != nil {
		return nil, err
	}

	var violations []rules.Violation
	for _, vs := range perFile {
		violations = append(violations, vs...)
	}
	for _, fp := range p.presence {
		violations = append(violations, fp.CheckPaths(roots)...)
	}

	violations, counts := ApplyRatchets(violations, p.thresholds)

	res := &Result{
		RunID:         uuid.NewString(),
		Violations:    violations,
		FilesScanned:  scanned,
		RulesLoaded:   p.rulesLoaded,
		RatchetCounts: counts,
		Duration:      time.Since(start),
	}
	e.logger.Info("Scan complete",
		"runId", res.RunID,
		"files", res.FilesScanned,
		"rules", res.RulesLoaded,
		"violations", len(res.Violations),
		"duration", res.Duration.String(),
	)
	return res, nil
}

// run evaluates every file on a bounded worker pool. Each file writes only its
// own result slot.
func (e *Engine) run(ctx context.Context, p *plan, files []string) ([][]rules.Violation, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	results := make([][]rules.Violation, len(files))
	var scanned atomic.Int64

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, path := range files {
		g.Go(func() error {
			vs, ok := e.processFile(p, path)
			if ok {
				scanned.Add(1)
			}
			results[i] = vs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return results, int(scanned.Load()), nil
}

// processFile runs every applicable group against one file. ok is false when
// the file was not scanned at all.
func (e *Engine) processFile(p *plan, path string) (_ []rules.Violation, ok bool) {
	if !p.applicable(path) {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Debug("Failed to read file", "file", path, "error", err)
		return nil, false
	}
	return e.checkContent(p, path, data)
}

// checkContent runs the applicable groups of p against one file's content.
func (e *Engine) checkContent(p *plan, path string, data []byte) (_ []rules.Violation, ok bool) {
	if !utf8.Valid(data) {
		e.logger.Debug("Skipping non-UTF-8 file", "file", path)
		return nil, false
	}

	ctx := rules.NewScanContext(path, string(data))
	defer ctx.Release()
	for _, line := range ctx.Lines() {
		if len(line) > MinifiedLineLength {
			e.logger.Debug("Skipping minified file", "file", path)
			return nil, false
		}
	}

	needles := newNeedleCache(ctx.Content, p.needles)
	var out []rules.Violation
	for _, g := range p.groups {
		if !g.matches(path) {
			continue
		}
		for i := range g.rules {
			gr := &g.rules[i]
			if !needles.admits(gr) {
				continue
			}
			for _, v := range gr.rule.CheckFile(ctx) {
				if !suppressed(ctx, v, gr) {
					out = append(out, v)
				}
			}
		}
	}
	return out, true
}

// ScanSource checks content as if it were the file at path, without touching
// the filesystem. File-presence rules are not evaluated.
func (e *Engine) ScanSource(ctx context.Context, specs []rules.Spec, path, content string) (*Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := buildPlan(specs)
	if err != nil {
		return nil, err
	}

	scanned := 0
	var violations []rules.Violation
	if p.applicable(path) {
		var ok bool
		violations, ok = e.checkContent(p, path, []byte(content))
		if ok {
			scanned = 1
		}
	}
	violations, counts := ApplyRatchets(violations, p.thresholds)

	return &Result{
		RunID:         uuid.NewString(),
		Violations:    violations,
		FilesScanned:  scanned,
		RulesLoaded:   p.rulesLoaded,
		RatchetCounts: counts,
		Duration:      time.Since(start),
	}, nil
}
