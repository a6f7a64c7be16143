//go:build cgo

package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ClassFragment is a literal piece of a class attribute value.
// Line and Col are 0-indexed, as reported by tree-sitter.
type ClassFragment struct {
	Value string
	Line  int
	Col   int
}

var classNameUtils = map[string]bool{
	"cn":         true,
	"clsx":       true,
	"classNames": true,
	"cva":        true,
	"twMerge":    true,
}

// ClassAttributes returns the literal fragments of every className/class JSX
// attribute in the tree, one slice per attribute. Attributes with no literal
// fragments are omitted.
func ClassAttributes(t *Tree) [][]ClassFragment {
	var result [][]ClassFragment
	Walk(t.Root(), func(n *sitter.Node) bool {
		if n.Type() != "jsx_attribute" {
			return true
		}
		name := n.NamedChild(0)
		if name == nil {
			return false
		}
		switch name.Content(t.Source) {
		case "className", "class":
		default:
			return true
		}
		if value := n.NamedChild(1); value != nil {
			if frags := ClassFragments(value, t.Source); len(frags) > 0 {
				result = append(result, frags)
			}
		}
		return false
	})
	return result
}

// ClassFragments collects the string literals reachable from an attribute value:
// plain strings, template literal text and substitutions, cn/clsx/classNames/cva/twMerge
// arguments, arrays, and both arms of ternary and binary expressions.
func ClassFragments(value *sitter.Node, src []byte) []ClassFragment {
	var frags []ClassFragment
	stack := []*sitter.Node{value}
	push := func(nodes ...*sitter.Node) {
		for i := len(nodes) - 1; i >= 0; i-- {
			if nodes[i] != nil {
				stack = append(stack, nodes[i])
			}
		}
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n.Type() {
		case "string":
			frags = append(frags, stringFragments(n, src)...)
		case "template_string":
			var parts []*sitter.Node
			for i := 0; i < int(n.ChildCount()); i++ {
				c := n.Child(i)
				switch c.Type() {
				case "string_fragment":
					if text := c.Content(src); text != "" {
						frags = append(frags, fragmentAt(c, text))
					}
				case "template_substitution":
					parts = append(parts, namedChildren(c)...)
				}
			}
			push(parts...)
		case "call_expression":
			if classNameUtils[CalleeName(n, src)] {
				push(n.ChildByFieldName("arguments"))
			}
		case "jsx_expression", "arguments", "array", "parenthesized_expression":
			push(namedChildren(n)...)
		case "binary_expression":
			push(n.ChildByFieldName("left"), n.ChildByFieldName("right"))
		case "ternary_expression":
			push(n.ChildByFieldName("consequence"), n.ChildByFieldName("alternative"))
		default:
			push(children(n)...)
		}
	}
	return frags
}

func stringFragments(n *sitter.Node, src []byte) []ClassFragment {
	var frags []ClassFragment
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() != "string_fragment" {
			continue
		}
		if text := c.Content(src); text != "" {
			frags = append(frags, fragmentAt(c, text))
		}
	}
	if len(frags) > 0 || n.ChildCount() > 2 {
		return frags
	}

	// Some grammar versions expose string contents without fragment children.
	raw := n.Content(src)
	if len(raw) < 2 {
		return nil
	}
	inner := raw[1 : len(raw)-1]
	if strings.TrimSpace(inner) == "" {
		return nil
	}
	p := n.StartPoint()
	return []ClassFragment{{Value: inner, Line: int(p.Row), Col: int(p.Column) + 1}}
}

func fragmentAt(n *sitter.Node, text string) ClassFragment {
	p := n.StartPoint()
	return ClassFragment{Value: text, Line: int(p.Row), Col: int(p.Column)}
}

func children(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		out = append(out, n.Child(i))
	}
	return out
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}
