//go:build cgo

package syntax

import (
	"bytes"

	sitter "github.com/smacker/go-tree-sitter"
)

// Walk visits root and its descendants in document order using an explicit
// stack. Returning false from visit skips the node's children.
func Walk(root *sitter.Node, visit func(n *sitter.Node) bool) {
	if root == nil {
		return
	}
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(n) {
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if c := n.Child(i); c != nil {
				stack = append(stack, c)
			}
		}
	}
}

// WalkScope walks the descendants of root without entering component
// definitions nested inside it. root itself is not visited.
func WalkScope(root *sitter.Node, src []byte, visit func(n *sitter.Node)) {
	first := true
	Walk(root, func(n *sitter.Node) bool {
		if first {
			first = false
			return true
		}
		if IsComponent(n, src) {
			return false
		}
		visit(n)
		return true
	})
}

// IsComponent reports whether n defines a component: a function or class
// declaration, or an arrow function bound by a variable declarator, whose name
// starts with an ASCII uppercase letter.
func IsComponent(n *sitter.Node, src []byte) bool {
	return ComponentName(n, src) != ""
}

// ComponentName returns the component name defined by n, or "" when n is not a component.
func ComponentName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	var name *sitter.Node
	switch n.Type() {
	case "function_declaration", "class_declaration":
		name = n.ChildByFieldName("name")
	case "arrow_function":
		p := n.Parent()
		if p == nil || p.Type() != "variable_declarator" {
			return ""
		}
		name = p.ChildByFieldName("name")
	default:
		return ""
	}
	if name == nil {
		return ""
	}
	s := name.Content(src)
	if !startsUpper(s) {
		return ""
	}
	return s
}

// HasComponentAncestor reports whether any ancestor of n is a component.
func HasComponentAncestor(n *sitter.Node, src []byte) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if IsComponent(p, src) {
			return true
		}
	}
	return false
}

// CalleeName returns the identifier called by a call_expression, or "" when
// n is not a call or its callee is not a plain identifier.
func CalleeName(n *sitter.Node, src []byte) string {
	if n == nil || n.Type() != "call_expression" {
		return ""
	}
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" {
		return ""
	}
	return fn.Content(src)
}

// CountCallsInScope counts calls to name within root, skipping nested component subtrees.
func CountCallsInScope(root *sitter.Node, src []byte, name string) int {
	count := 0
	WalkScope(root, src, func(n *sitter.Node) {
		if CalleeName(n, src) == name {
			count++
		}
	})
	return count
}

// IsSetterName reports whether name looks like a state setter: "set" followed
// by an ASCII uppercase letter.
func IsSetterName(name string) bool {
	return len(name) > 3 && name[:3] == "set" && startsUpper(name[3:])
}

// CallArgument returns the i-th named argument of a call_expression.
func CallArgument(call *sitter.Node, i int) *sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil || i >= int(args.NamedChildCount()) {
		return nil
	}
	return args.NamedChild(i)
}

// Position returns the 1-indexed line and byte column of the first
// non-whitespace byte of n. The TSX grammar folds the whitespace before a
// nested JSX element into the element's start, so the reported start point
// can sit on the previous line.
func Position(n *sitter.Node, src []byte) (line, col int) {
	off := int(n.StartByte())
	end := int(n.EndByte())
	if end > len(src) {
		end = len(src)
	}
	for off < end && isSpace(src[off]) {
		off++
	}
	if off == int(n.StartByte()) || off >= end {
		p := n.StartPoint()
		return int(p.Row) + 1, int(p.Column) + 1
	}
	line = 1 + bytes.Count(src[:off], []byte{'\n'})
	lineStart := bytes.LastIndexByte(src[:off], '\n') + 1
	return line, off - lineStart + 1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func startsUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
