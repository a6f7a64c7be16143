// Package walk collects the files to scan from a list of target paths.
//
// Directories are walked recursively. Entries whose name starts with a dot
// are skipped, .gitignore and .ignore files are honored at every level, and
// caller exclude globs are matched against both the walk-relative path and
// the bare entry name. A target that is a regular file is taken as-is.
package walk

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"golang.org/x/sync/errgroup"

	"baseline/internal/glob"
	"baseline/internal/slogutil"
)

// ignoreFiles are read in every walked directory, in this order.
var ignoreFiles = []string{".gitignore", ".ignore"}

// Walker collects files below a set of roots.
type Walker struct {
	exclude *glob.Set
	logger  *slog.Logger
}

// New creates a Walker. exclude may be nil; a nil logger discards output.
func New(exclude *glob.Set, logger *slog.Logger) *Walker {
	return &Walker{exclude: exclude, logger: slogutil.OrDiscard(logger)}
}

// Collect walks every root concurrently and returns the collected file paths
// sorted and deduplicated. Paths keep the root as prefix.
func (w *Walker) Collect(ctx context.Context, roots []string) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, root := range roots {
		g.Go(func() error {
			found, err := w.collectRoot(ctx, root)
			if err != nil {
				return err
			}
			mu.Lock()
			files = append(files, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(files)
	out := make([]string, 0, len(files))
	for _, f := range files {
		if len(out) == 0 || out[len(out)-1] != f {
			out = append(out, f)
		}
	}
	w.logger.Debug("Collected files", "roots", len(roots), "files", len(out))
	return out, nil
}

func (w *Walker) collectRoot(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	rel, err := w.walkFS(ctx, osfs.New(root))
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	out := make([]string, len(rel))
	for i, r := range rel {
		out[i] = filepath.Join(root, filepath.FromSlash(r))
	}
	return out, nil
}

// walkFS returns the slash-separated paths of every file in fsys that is not
// hidden, ignored or excluded. The walk uses an explicit stack of directories.
func (w *Walker) walkFS(ctx context.Context, fsys billy.Filesystem) ([]string, error) {
	var (
		files    []string
		patterns []gitignore.Pattern
	)
	stack := [][]string{{}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, name := range ignoreFiles {
			ps, err := readIgnoreFile(fsys, dir, name)
			if err != nil {
				w.logger.Debug("Failed to read ignore file", "dir", strings.Join(dir, "/"), "file", name, "error", err)
				continue
			}
			patterns = append(patterns, ps...)
		}
		matcher := gitignore.NewMatcher(patterns)

		entries, err := fsys.ReadDir(fsys.Join(dir...))
		if err != nil {
			w.logger.Debug("Failed to read directory", "dir", strings.Join(dir, "/"), "error", err)
			continue
		}

		var subdirs [][]string
		for _, e := range entries {
			name := e.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			parts := append(append(make([]string, 0, len(dir)+1), dir...), name)
			if matcher.Match(parts, e.IsDir()) {
				continue
			}
			rel := strings.Join(parts, "/")
			if w.exclude.MatchEither(rel, name) {
				continue
			}
			switch {
			case e.IsDir():
				subdirs = append(subdirs, parts)
			case e.Mode().IsRegular():
				files = append(files, rel)
			}
		}
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return files, nil
}

// readIgnoreFile parses one ignore file in dir. A missing file is not an error.
func readIgnoreFile(fsys billy.Filesystem, dir []string, name string) ([]gitignore.Pattern, error) {
	f, err := fsys.Open(fsys.Join(append(append([]string(nil), dir...), name)...))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var ps []gitignore.Pattern
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, dir))
	}
	return ps, sc.Err()
}
