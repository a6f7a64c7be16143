// Package syntax parses JavaScript and TypeScript sources with tree-sitter and
// provides the node queries shared by the tree-based rules.
package syntax

import (
	"path/filepath"
	"strings"
)

// Language represents a supported grammar.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
)

// LanguageFromExtension returns the Language for a file extension.
func LanguageFromExtension(ext string) (Language, bool) {
	switch strings.ToLower(ext) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LangJavaScript, true // JSX uses JS parser
	case ".ts", ".mts", ".cts":
		return LangTypeScript, true
	case ".tsx":
		return LangTSX, true
	default:
		return "", false
	}
}

// LanguageFromPath returns the Language for a file path.
func LanguageFromPath(path string) (Language, bool) {
	return LanguageFromExtension(filepath.Ext(path))
}

// Range is a half-open byte range [Start, End) within a source file.
type Range struct {
	Start int
	End   int
}

// Contains reports whether off lies within r.
func (r Range) Contains(off int) bool {
	return off >= r.Start && off < r.End
}

// InAny reports whether off lies within any of ranges, which must be sorted by Start.
func InAny(ranges []Range, off int) bool {
	lo, hi := 0, len(ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		if ranges[mid].Start <= off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	// ranges[lo-1] is the last range starting at or before off.
	return lo > 0 && ranges[lo-1].Contains(off)
}
