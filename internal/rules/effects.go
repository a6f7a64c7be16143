//go:build cgo

package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"baseline/internal/syntax"
)

// NoCascadingSetStateRule flags useEffect callbacks that call max_count
// (default 3) or more state setters. Setters inside nested components are
// not counted.
type NoCascadingSetStateRule struct {
	base
	max int
}

func NewNoCascadingSetState(cfg Config) (*NoCascadingSetStateRule, error) {
	return &NoCascadingSetStateRule{base: newBase(cfg, ""), max: cfg.maxCountOr(3)}, nil
}

func (r *NoCascadingSetStateRule) CheckFile(ctx *ScanContext) []Violation {
	return treeCheck(ctx, func(t *syntax.Tree) []Violation {
		var out []Violation
		for _, call := range hookCalls(t, "useEffect") {
			cb := syntax.CallArgument(call, 0)
			if cb == nil {
				continue
			}
			setters := 0
			syntax.WalkScope(cb, t.Source, func(n *sitter.Node) {
				if syntax.IsSetterName(syntax.CalleeName(n, t.Source)) {
					setters++
				}
			})
			if setters >= r.max {
				out = append(out, r.atNode(ctx, call))
			}
		}
		return out
	})
}

// NoDerivedStateEffectRule flags useEffect callbacks whose body does nothing
// but call state setters. Such state can be computed during render.
type NoDerivedStateEffectRule struct {
	base
}

func NewNoDerivedStateEffect(cfg Config) (*NoDerivedStateEffectRule, error) {
	return &NoDerivedStateEffectRule{base: newBase(cfg, "")}, nil
}

func (r *NoDerivedStateEffectRule) CheckFile(ctx *ScanContext) []Violation {
	return treeCheck(ctx, func(t *syntax.Tree) []Violation {
		var out []Violation
		for _, call := range hookCalls(t, "useEffect") {
			if cb := syntax.CallArgument(call, 0); cb != nil && onlySetsState(cb, t.Source) {
				out = append(out, r.atNode(ctx, call))
			}
		}
		return out
	})
}

func onlySetsState(cb *sitter.Node, src []byte) bool {
	switch cb.Type() {
	case "arrow_function", "function_expression", "function":
	default:
		return false
	}
	body := cb.ChildByFieldName("body")
	if body == nil {
		return false
	}
	if body.Type() != "statement_block" {
		return body.Type() == "call_expression" && syntax.IsSetterName(syntax.CalleeName(body, src))
	}

	setters := 0
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		if stmt.Type() == "comment" {
			continue
		}
		if stmt.Type() != "expression_statement" {
			return false
		}
		expr := stmt.NamedChild(0)
		if expr == nil || !syntax.IsSetterName(syntax.CalleeName(expr, src)) {
			return false
		}
		setters++
	}
	return setters > 0
}

var depArrayHooks = []string{"useEffect", "useMemo", "useCallback", "useLayoutEffect"}

// NoObjectDepArrayRule flags object and array literals in hook dependency
// arrays. A fresh literal has a new identity every render.
type NoObjectDepArrayRule struct {
	base
}

func NewNoObjectDepArray(cfg Config) (*NoObjectDepArrayRule, error) {
	return &NoObjectDepArrayRule{base: newBase(cfg, "")}, nil
}

func (r *NoObjectDepArrayRule) CheckFile(ctx *ScanContext) []Violation {
	return treeCheck(ctx, func(t *syntax.Tree) []Violation {
		var out []Violation
		for _, call := range hookCalls(t, depArrayHooks...) {
			deps := syntax.CallArgument(call, 1)
			if deps == nil || deps.Type() != "array" {
				continue
			}
			for i := 0; i < int(deps.NamedChildCount()); i++ {
				el := deps.NamedChild(i)
				if el.Type() == "object" || el.Type() == "array" {
					out = append(out, r.atNode(ctx, el))
				}
			}
		}
		return out
	})
}

// NoRegExpInRenderRule flags new RegExp(...) in a component body outside
// useMemo and useCallback.
type NoRegExpInRenderRule struct {
	base
}

func NewNoRegExpInRender(cfg Config) (*NoRegExpInRenderRule, error) {
	return &NoRegExpInRenderRule{base: newBase(cfg, "")}, nil
}

func (r *NoRegExpInRenderRule) CheckFile(ctx *ScanContext) []Violation {
	return treeCheck(ctx, func(t *syntax.Tree) []Violation {
		var out []Violation
		syntax.Walk(t.Root(), func(n *sitter.Node) bool {
			if !syntax.IsComponent(n, t.Source) {
				return true
			}
			out = append(out, r.checkComponent(ctx, t, n)...)
			return false
		})
		return out
	})
}

type memoFrame struct {
	node   *sitter.Node
	inMemo bool
}

func (r *NoRegExpInRenderRule) checkComponent(ctx *ScanContext, t *syntax.Tree, comp *sitter.Node) []Violation {
	var out []Violation
	stack := []memoFrame{{node: comp}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node

		inMemo := f.inMemo
		if callee := syntax.CalleeName(n, t.Source); callee == "useMemo" || callee == "useCallback" {
			inMemo = true
		}
		if n.Type() == "new_expression" && !inMemo {
			if ctor := n.ChildByFieldName("constructor"); ctor != nil && ctor.Content(t.Source) == "RegExp" {
				out = append(out, r.atNode(ctx, n))
			}
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			c := n.Child(i)
			if c == nil || syntax.IsComponent(c, t.Source) {
				continue
			}
			stack = append(stack, memoFrame{node: c, inMemo: inMemo})
		}
	}
	return out
}
