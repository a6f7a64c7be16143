// Package glob compiles rule and exclude globs into matchers.
//
// Patterns are brace-expanded before compilation, and any pattern that names a
// directory ("src/**/*.ts") is anchored anywhere in the tree by prefixing it
// with "**/". A path matches a Set when any pattern matches either the whole
// slash-separated path or its base name.
//
// A single "*" never crosses a path separator: "src/components/*.tsx" matches
// files directly in src/components, and "src/components/**/*.tsx" is needed to
// reach nested directories.
package glob

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Set is a compiled list of glob patterns. A nil *Set matches nothing.
type Set struct {
	source   []string
	patterns []string
}

// Compile expands and validates patterns. It returns nil, nil for an empty list.
func Compile(patterns ...string) (*Set, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	s := &Set{source: append([]string(nil), patterns...)}
	for _, p := range patterns {
		for _, exp := range Expand(p) {
			exp = normalize(exp)
			if !doublestar.ValidatePattern(exp) {
				return nil, fmt.Errorf("%w: %q", doublestar.ErrBadPattern, p)
			}
			s.patterns = append(s.patterns, exp)
		}
	}
	return s, nil
}

// MustCompile is like Compile but panics on an invalid pattern.
func MustCompile(patterns ...string) *Set {
	s, err := Compile(patterns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Match reports whether p (OS or slash separated) matches any pattern.
func (s *Set) Match(p string) bool {
	if s == nil {
		return false
	}
	full := clean(p)
	base := path.Base(full)
	rel := strings.TrimLeft(full, "/")
	for _, pat := range s.patterns {
		target := full
		if !strings.HasPrefix(pat, "/") {
			target = rel
		}
		if doublestar.MatchUnvalidated(pat, target) {
			return true
		}
		if base != full && doublestar.MatchUnvalidated(pat, base) {
			return true
		}
	}
	return false
}

// MatchEither reports whether the set matches rel or name. Used by the walker,
// which knows the walk-relative path and the entry name separately.
func (s *Set) MatchEither(rel, name string) bool {
	return s.Match(rel) || s.Match(name)
}

// Patterns returns the expanded, normalized patterns.
func (s *Set) Patterns() []string {
	if s == nil {
		return nil
	}
	return s.patterns
}

// String returns the patterns as written by the caller.
func (s *Set) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(s.source, ",")
}

func clean(p string) string {
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

func normalize(p string) string {
	p = clean(p)
	if strings.Contains(p, "/") && !strings.HasPrefix(p, "**/") && !strings.HasPrefix(p, "/") {
		return "**/" + p
	}
	return p
}

// Expand expands brace alternatives, so "*.{ts,tsx}" becomes "*.ts" and "*.tsx".
// Nested braces are expanded recursively. Unbalanced braces are left as-is.
func Expand(pattern string) []string {
	open := strings.IndexByte(pattern, '{')
	if open < 0 {
		return []string{pattern}
	}

	depth := 0
	close := -1
	var commas []int
	for i := open; i < len(pattern) && close < 0; i++ {
		switch pattern[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				close = i
			}
		case ',':
			if depth == 1 {
				commas = append(commas, i)
			}
		}
	}
	if close < 0 {
		return []string{pattern}
	}

	prefix, suffix := pattern[:open], pattern[close+1:]
	var alts []string
	start := open + 1
	for _, c := range commas {
		alts = append(alts, pattern[start:c])
		start = c + 1
	}
	alts = append(alts, pattern[start:close])

	var out []string
	for _, alt := range alts {
		out = append(out, Expand(prefix+alt+suffix)...)
	}
	return out
}

var compiled, _ = lru.New[string, *Set](512)

// CompileCached compiles patterns, reusing a previous compilation of the same list.
func CompileCached(patterns ...string) (*Set, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	key := strings.Join(patterns, "\x00")
	if s, ok := compiled.Get(key); ok {
		return s, nil
	}
	s, err := Compile(patterns...)
	if err != nil {
		return nil, err
	}
	compiled.Add(key, s)
	return s, nil
}
