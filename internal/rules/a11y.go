//go:build cgo

package rules

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"baseline/internal/syntax"
)

// ClickHandlerRule flags JSX elements of one tag that have an onClick handler
// but no role attribute.
type ClickHandlerRule struct {
	base
	tag string
}

// NewClickHandler builds a click-handler rule for tag.
func NewClickHandler(cfg Config, tag string) (*ClickHandlerRule, error) {
	return &ClickHandlerRule{base: newBase(cfg, ""), tag: tag}, nil
}

// Tag returns the element name the rule checks.
func (r *ClickHandlerRule) Tag() string { return r.tag }

func (r *ClickHandlerRule) CheckFile(ctx *ScanContext) []Violation {
	return treeCheck(ctx, func(t *syntax.Tree) []Violation {
		var out []Violation
		syntax.Walk(t.Root(), func(n *sitter.Node) bool {
			switch n.Type() {
			case "jsx_opening_element", "jsx_self_closing_element":
			default:
				return true
			}
			if tagName(n, t.Source) == r.tag && hasAttribute(n, t.Source, "onClick") && !hasAttribute(n, t.Source, "role") {
				out = append(out, r.atNode(ctx, n))
			}
			return true
		})
		return out
	})
}

func tagName(el *sitter.Node, src []byte) string {
	for i := 0; i < int(el.ChildCount()); i++ {
		c := el.Child(i)
		if c.Type() == "identifier" || c.Type() == "member_expression" {
			return c.Content(src)
		}
	}
	return ""
}

func hasAttribute(el *sitter.Node, src []byte, name string) bool {
	for i := 0; i < int(el.ChildCount()); i++ {
		c := el.Child(i)
		if c.Type() != "jsx_attribute" || c.ChildCount() == 0 {
			continue
		}
		if c.Child(0).Content(src) == name {
			return true
		}
	}
	return false
}

// NoOutlineNoneRule flags class attributes that remove the focus outline
// without providing a focus-visible ring or outline in its place.
type NoOutlineNoneRule struct {
	base
}

func NewNoOutlineNone(cfg Config) (*NoOutlineNoneRule, error) {
	return &NoOutlineNoneRule{base: newBase(cfg, "")}, nil
}

func isOutlineRemoval(tok string) bool { return tok == "outline-none" || tok == "outline-0" }

func (r *NoOutlineNoneRule) CheckFile(ctx *ScanContext) []Violation {
	return treeCheck(ctx, func(t *syntax.Tree) []Violation {
		var out []Violation
		for _, frags := range syntax.ClassAttributes(t) {
			removes, replaced := false, false
			for _, f := range frags {
				for _, tok := range strings.Fields(f.Value) {
					removes = removes || isOutlineRemoval(tok)
					replaced = replaced || strings.HasPrefix(tok, "focus-visible:ring") ||
						strings.HasPrefix(tok, "focus-visible:outline")
				}
			}
			if !removes || replaced {
				continue
			}
			for _, f := range frags {
				for _, tok := range strings.Fields(f.Value) {
					if isOutlineRemoval(tok) {
						out = append(out, r.at(ctx, f.Line+1, f.Col+strings.Index(f.Value, tok)+1))
						break
					}
				}
			}
		}
		return out
	})
}
