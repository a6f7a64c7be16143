package rules

import (
	"fmt"
	"regexp"
	"strings"

	"baseline/internal/errors"
)

const defaultSourceGlob = "**/*.{ts,tsx,js,jsx,mjs,cjs}"

// BannedImportRule flags import, side-effect import, re-export and require()
// of any listed package, including subpath imports such as "lodash/debounce".
type BannedImportRule struct {
	base
	packages []string
	re       *regexp.Regexp
}

// NewBannedImport builds a banned-import rule. packages is required.
func NewBannedImport(cfg Config) (*BannedImportRule, error) {
	if len(cfg.Packages) == 0 {
		return nil, errors.NewMissingField(cfg.ID, "packages")
	}

	escaped := make([]string, len(cfg.Packages))
	for i, p := range cfg.Packages {
		escaped[i] = regexp.QuoteMeta(p)
	}
	pattern := `(?:import\s+.*?\s+from\s+|import\s+|export\s+.*?\s+from\s+|require\s*\(\s*)['"](` +
		strings.Join(escaped, "|") + `)(?:/[^'"]*)?['"]`

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.NewInvalidRegex(cfg.ID, pattern, err)
	}
	return &BannedImportRule{
		base:     newBase(cfg, defaultSourceGlob),
		packages: append([]string(nil), cfg.Packages...),
		re:       re,
	}, nil
}

// CheckFile implements Rule.
func (r *BannedImportRule) CheckFile(ctx *ScanContext) []Violation {
	var out []Violation
	for idx, line := range ctx.Lines() {
		for _, m := range r.re.FindAllStringSubmatchIndex(line, -1) {
			v := r.at(ctx, idx+1, m[0]+1)
			v.Message = fmt.Sprintf("%s: '%s'", r.message, line[m[2]:m[3]])
			out = append(out, v)
		}
	}
	return out
}
