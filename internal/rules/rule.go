// Package rules defines the Rule interface, the rule factory, and every
// built-in rule implementation.
package rules

import (
	"strings"

	"baseline/internal/syntax"
)

// Severity is the level reported when a rule fires.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ParseSeverity maps "error" (case-insensitive) to SeverityError and anything else to SeverityWarning.
func ParseSeverity(s string) Severity {
	if strings.EqualFold(strings.TrimSpace(s), string(SeverityError)) {
		return SeverityError
	}
	return SeverityWarning
}

// Config is the immutable configuration of a single rule. The meaning of
// MaxCount depends on the rule type.
type Config struct {
	ID               string
	Severity         Severity
	Message          string
	Suggest          string
	Glob             string
	ExcludeGlob      []string
	Pattern          string
	ConditionPattern string
	MaxCount         *int
	Regex            bool
	SkipStrings      bool
	AllowedClasses   []string
	TokenMap         []string
	Packages         []string
	Manifest         string
	RequiredFiles    []string
	ForbiddenFiles   []string
	FileContains     string
	FileNotContains  string
}

// maxCountOr returns MaxCount, or def when unset.
func (c Config) maxCountOr(def int) int {
	if c.MaxCount == nil {
		return def
	}
	return *c.MaxCount
}

// Spec pairs a rule type tag with its configuration.
type Spec struct {
	Type   string
	Config Config
}

// Rule checks a single file and reports violations.
type Rule interface {
	// ID is the unique rule identifier.
	ID() string
	// Severity is reported on every violation.
	Severity() Severity
	// FileGlob restricts which files are scanned; "" means every file.
	FileGlob() string
	// CheckFile returns the violations found in one file.
	CheckFile(ctx *ScanContext) []Violation
}

// Fix is a machine-applicable replacement on the violation's line.
type Fix struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Violation is a single finding. Line and Column are 1-indexed; zero means
// the violation has no position (file-level findings).
type Violation struct {
	RuleID     string   `json:"ruleId"`
	Severity   Severity `json:"severity"`
	File       string   `json:"file"`
	Line       int      `json:"line,omitempty"`
	Column     int      `json:"column,omitempty"`
	Message    string   `json:"message"`
	Suggest    string   `json:"suggest,omitempty"`
	SourceLine string   `json:"sourceLine,omitempty"`
	Fix        *Fix     `json:"fix,omitempty"`
}

// ScanContext is the file currently being checked. It is owned by one worker
// and must not be retained after CheckFile returns.
type ScanContext struct {
	FilePath string
	Content  string

	lines      []string
	lineStarts []int
	tree       *syntax.Tree
	parsed     bool
}

// NewScanContext creates a context for path with content.
func NewScanContext(path, content string) *ScanContext {
	return &ScanContext{FilePath: path, Content: content}
}

// Tree parses the file on first use and shares the result with every tree
// rule run against the same context. It returns nil for unsupported files.
func (c *ScanContext) Tree() *syntax.Tree {
	if !c.parsed {
		c.parsed = true
		c.tree = syntax.ParseFile(c.FilePath, c.Content)
	}
	return c.tree
}

// Lines returns the file's lines without terminators. A trailing newline
// does not produce an empty final line, and "\r\n" endings are stripped.
func (c *ScanContext) Lines() []string {
	if c.lines == nil {
		c.lines, c.lineStarts = splitLines(c.Content)
	}
	return c.lines
}

// Line returns the 0-indexed line idx, or "" when out of range.
func (c *ScanContext) Line(idx int) string {
	lines := c.Lines()
	if idx < 0 || idx >= len(lines) {
		return ""
	}
	return lines[idx]
}

// LineStart returns the byte offset of the 0-indexed line idx.
func (c *ScanContext) LineStart(idx int) int {
	c.Lines()
	if idx < 0 || idx >= len(c.lineStarts) {
		return len(c.Content)
	}
	return c.lineStarts[idx]
}

// Release drops the parsed tree. The engine calls it once a file is done.
func (c *ScanContext) Release() {
	if c.tree != nil {
		c.tree.Close()
		c.tree = nil
	}
}

func splitLines(content string) ([]string, []int) {
	if content == "" {
		return []string{}, []int{}
	}
	n := strings.Count(content, "\n") + 1
	lines := make([]string, 0, n)
	starts := make([]int, 0, n)
	off := 0
	for off < len(content) {
		end := strings.IndexByte(content[off:], '\n')
		var line string
		next := len(content)
		if end < 0 {
			line = content[off:]
		} else {
			line = content[off : off+end]
			next = off + end + 1
		}
		lines = append(lines, strings.TrimSuffix(line, "\r"))
		starts = append(starts, off)
		off = next
	}
	return lines, starts
}

// base carries the fields shared by every rule.
type base struct {
	id       string
	severity Severity
	message  string
	suggest  string
	glob     string
}

func newBase(cfg Config, defaultGlob string) base {
	glob := cfg.Glob
	if glob == "" {
		glob = defaultGlob
	}
	sev := cfg.Severity
	if sev == "" {
		sev = SeverityWarning
	}
	return base{id: cfg.ID, severity: sev, message: cfg.Message, suggest: cfg.Suggest, glob: glob}
}

func (b base) ID() string         { return b.id }
func (b base) Severity() Severity { return b.severity }
func (b base) FileGlob() string   { return b.glob }

// at builds a violation at the 1-indexed line and column with the rule's message.
func (b base) at(ctx *ScanContext, line, col int) Violation {
	return Violation{
		RuleID:     b.id,
		Severity:   b.severity,
		File:       ctx.FilePath,
		Line:       line,
		Column:     col,
		Message:    b.message,
		Suggest:    b.suggest,
		SourceLine: ctx.Line(line - 1),
	}
}
