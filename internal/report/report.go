// Package report renders scan results for terminals, CI annotations and
// machine consumers, and stores baseline snapshots.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"baseline/internal/engine"
	"baseline/internal/rules"
)

// Format is an output format name.
type Format string

const (
	FormatPretty   Format = "pretty"
	FormatJSON     Format = "json"
	FormatCompact  Format = "compact"
	FormatGitHub   Format = "github"
	FormatSARIF    Format = "sarif"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatPretty, FormatJSON, FormatCompact, FormatGitHub, FormatSARIF, FormatMarkdown}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return "", fmt.Errorf("unsupported format: %s (want one of %s)", s, strings.Join(names, ", "))
}

// Options carries run metadata some formats embed.
type Options struct {
	// Version is the tool version reported by SARIF.
	Version string
	// RepoRoot makes SARIF artifact URIs relative.
	RepoRoot string
}

// Write renders res in format. Findings go to out; the compact and github
// formats write their summary to errOut so out stays machine-readable.
func Write(out, errOut io.Writer, res *engine.Result, format Format, opts Options) error {
	switch format {
	case FormatPretty:
		return writePretty(out, res)
	case FormatJSON:
		return writeJSON(out, res)
	case FormatCompact:
		return writeCompact(out, errOut, res)
	case FormatGitHub:
		return writeGitHub(out, errOut, res)
	case FormatSARIF:
		return writeSARIF(out, res, opts)
	case FormatMarkdown:
		return writeMarkdown(out, res)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// summary tallies violations by severity.
type summary struct {
	Total        int `json:"total"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	FilesScanned int `json:"filesScanned"`
	RulesLoaded  int `json:"rulesLoaded"`
}

func summarize(res *engine.Result) summary {
	s := summary{Total: len(res.Violations), FilesScanned: res.FilesScanned, RulesLoaded: res.RulesLoaded}
	for _, v := range res.Violations {
		if v.Severity == rules.SeverityError {
			s.Errors++
		} else {
			s.Warnings++
		}
	}
	return s
}

// String renders "2 errors, 1 warning (5 files scanned, 3 rules loaded)".
func (s summary) String() string {
	scope := fmt.Sprintf("(%d files scanned, %d rules loaded)", s.FilesScanned, s.RulesLoaded)
	if s.Total == 0 {
		return "No violations found " + scope
	}
	return s.counts() + " " + scope
}

func (s summary) counts() string {
	var parts []string
	if s.Errors > 0 {
		parts = append(parts, plural(s.Errors, "error"))
	}
	if s.Warnings > 0 {
		parts = append(parts, plural(s.Warnings, "warning"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// ratchetIDs returns the ratchet rule ids in sorted order.
func ratchetIDs(counts map[string]engine.RatchetCount) []string {
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// groupByFile groups violations by file, preserving their order within a file.
func groupByFile(vs []rules.Violation) ([]string, map[string][]rules.Violation) {
	byFile := make(map[string][]rules.Violation)
	var files []string
	for _, v := range vs {
		if _, ok := byFile[v.File]; !ok {
			files = append(files, v.File)
		}
		byFile[v.File] = append(byFile[v.File], v)
	}
	sort.Strings(files)
	return files, byFile
}

// position returns line and column, with missing positions reported as 1.
func position(v rules.Violation) (int, int) {
	line, col := v.Line, v.Column
	if line == 0 {
		line = 1
	}
	if col == 0 {
		col = 1
	}
	return line, col
}
