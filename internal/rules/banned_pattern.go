package rules

import (
	"baseline/internal/errors"
	"baseline/internal/syntax"
)

// BannedPatternRule reports every occurrence of a literal or regex pattern,
// line by line. With skip_strings, matches inside string and template
// literals are ignored for files the syntax parser understands.
type BannedPatternRule struct {
	base
	m           matcher
	skipStrings bool
}

// NewBannedPattern builds a banned-pattern rule. pattern is required.
func NewBannedPattern(cfg Config) (*BannedPatternRule, error) {
	if err := requirePattern(cfg, "pattern", cfg.Pattern); err != nil {
		return nil, err
	}
	m, err := newMatcher(cfg.ID, cfg.Pattern, cfg.Regex)
	if err != nil {
		return nil, err
	}
	return &BannedPatternRule{base: newBase(cfg, ""), m: m, skipStrings: cfg.SkipStrings}, nil
}

// Pattern returns the configured pattern.
func (r *BannedPatternRule) Pattern() string { return r.m.literal }

// CheckFile implements Rule.
func (r *BannedPatternRule) CheckFile(ctx *ScanContext) []Violation {
	var skip []syntax.Range
	if r.skipStrings {
		skip = ctx.Tree().StringRanges()
	}

	var out []Violation
	for idx, line := range ctx.Lines() {
		starts := r.m.find(line)
		if len(starts) == 0 {
			continue
		}
		lineStart := ctx.LineStart(idx)
		for _, col := range starts {
			if skip != nil && syntax.InAny(skip, lineStart+col) {
				continue
			}
			out = append(out, r.at(ctx, idx+1, col+1))
		}
	}
	return out
}

// RatchetRule counts occurrences of a pattern against a budget. It reports
// exactly what banned-pattern would; the engine drops the violations while
// the total stays within MaxCount.
type RatchetRule struct {
	*BannedPatternRule
	maxCount int
}

// NewRatchet builds a ratchet rule. pattern and max_count are required.
func NewRatchet(cfg Config) (*RatchetRule, error) {
	if cfg.MaxCount == nil {
		return nil, errors.NewMissingField(cfg.ID, "max_count")
	}
	inner, err := NewBannedPattern(cfg)
	if err != nil {
		return nil, err
	}
	return &RatchetRule{BannedPatternRule: inner, maxCount: *cfg.MaxCount}, nil
}

// MaxCount is the violation budget.
func (r *RatchetRule) MaxCount() int { return r.maxCount }
