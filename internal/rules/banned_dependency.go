package rules

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"baseline/internal/errors"
)

var dependencySections = []string{
	"dependencies",
	"devDependencies",
	"peerDependencies",
	"optionalDependencies",
}

// BannedDependencyRule flags banned packages declared in a package manifest.
type BannedDependencyRule struct {
	base
	packages map[string]bool
	manifest string
}

// NewBannedDependency builds a banned-dependency rule. packages is required;
// manifest defaults to package.json.
func NewBannedDependency(cfg Config) (*BannedDependencyRule, error) {
	if len(cfg.Packages) == 0 {
		return nil, errors.NewMissingField(cfg.ID, "packages")
	}
	manifest := cfg.Manifest
	if manifest == "" {
		manifest = "package.json"
	}
	pkgs := make(map[string]bool, len(cfg.Packages))
	for _, p := range cfg.Packages {
		pkgs[p] = true
	}
	return &BannedDependencyRule{
		base:     newBase(cfg, "**/"+manifest),
		packages: pkgs,
		manifest: manifest,
	}, nil
}

// CheckFile implements Rule. Malformed manifests yield no violations.
func (r *BannedDependencyRule) CheckFile(ctx *ScanContext) []Violation {
	if filepath.Base(ctx.FilePath) != r.manifest {
		return nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(ctx.Content), &doc); err != nil {
		return nil
	}

	var out []Violation
	for _, section := range dependencySections {
		raw, ok := doc[section]
		if !ok {
			continue
		}
		var deps map[string]json.RawMessage
		if err := json.Unmarshal(raw, &deps); err != nil {
			continue
		}
		names := make([]string, 0, len(deps))
		for name := range deps {
			if r.packages[name] {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		for _, name := range names {
			line := findDependencyLine(ctx.Lines(), name, section)
			v := Violation{
				RuleID:   r.id,
				Severity: r.severity,
				File:     ctx.FilePath,
				Line:     line,
				Message:  fmt.Sprintf("%s: '%s' in %s", r.message, name, section),
				Suggest:  r.suggest,
			}
			if line > 0 {
				v.SourceLine = ctx.Line(line - 1)
			}
			out = append(out, v)
		}
	}
	return out
}

// findDependencyLine locates "name" inside the given section by tracking brace
// depth after the section key, falling back to the first occurrence anywhere.
// It returns 0 when the name cannot be found.
func findDependencyLine(lines []string, name, section string) int {
	needle := `"` + name + `"`
	sectionNeedle := `"` + section + `"`

	inSection := false
	depth := 0
	for idx, line := range lines {
		if strings.Contains(line, sectionNeedle) {
			inSection = true
			depth = 0
			continue
		}
		if !inSection {
			continue
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			inSection = false
			continue
		}
		if strings.Contains(line, needle) {
			return idx + 1
		}
	}

	for idx, line := range lines {
		if strings.Contains(line, needle) {
			return idx + 1
		}
	}
	return 0
}
