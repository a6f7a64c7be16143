//go:build cgo

package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"baseline/internal/syntax"
)

func registerTreeRules(m map[string]builder) {
	m[TypeMaxComponentSize] = build(NewMaxComponentSize)
	m[TypeNoNestedComponents] = build(NewNoNestedComponents)
	m[TypePreferUseReducer] = build(NewPreferUseReducer)
	m[TypeNoCascadingSetState] = build(NewNoCascadingSetState)
	m[TypeNoDerivedState] = build(NewNoDerivedStateEffect)
	m[TypeNoObjectDepArray] = build(NewNoObjectDepArray)
	m[TypeNoRegExpInRender] = build(NewNoRegExpInRender)
	m[TypeNoDivClickHandler] = build(func(cfg Config) (*ClickHandlerRule, error) {
		return NewClickHandler(cfg, "div")
	})
	m[TypeNoSpanClickHandler] = build(func(cfg Config) (*ClickHandlerRule, error) {
		return NewClickHandler(cfg, "span")
	})
	m[TypeNoClickHandler] = build(func(cfg Config) (*ClickHandlerRule, error) {
		tag := cfg.Pattern
		if tag == "" {
			tag = "div"
		}
		return NewClickHandler(cfg, tag)
	})
	m[TypeNoOutlineNone] = build(NewNoOutlineNone)
}

// treeCheck runs fn against the file's syntax tree, or reports nothing when
// the file cannot be parsed.
func treeCheck(ctx *ScanContext, fn func(t *syntax.Tree) []Violation) []Violation {
	t := ctx.Tree()
	if t == nil || t.Root() == nil {
		return nil
	}
	return fn(t)
}

// atNode builds a violation at the first token of n.
func (b base) atNode(ctx *ScanContext, n *sitter.Node) Violation {
	line, col := syntax.Position(n, ctx.Tree().Source)
	return b.at(ctx, line, col)
}

// hookCalls returns every call to one of names in the tree.
func hookCalls(t *syntax.Tree, names ...string) []*sitter.Node {
	var calls []*sitter.Node
	syntax.Walk(t.Root(), func(n *sitter.Node) bool {
		callee := syntax.CalleeName(n, t.Source)
		for _, name := range names {
			if callee == name {
				calls = append(calls, n)
				break
			}
		}
		return true
	})
	return calls
}

// components returns every component definition in the tree, outermost first.
func components(t *syntax.Tree) []*sitter.Node {
	var out []*sitter.Node
	syntax.Walk(t.Root(), func(n *sitter.Node) bool {
		if syntax.IsComponent(n, t.Source) {
			out = append(out, n)
		}
		return true
	})
	return out
}
