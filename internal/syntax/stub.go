//go:build !cgo

package syntax

import (
	"context"
	"errors"
)

// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.New("syntax parsing requires CGO (tree-sitter)")

// Available reports whether tree-sitter parsing is compiled in.
const Available = false

// Tree is empty in non-CGO builds.
type Tree struct {
	Source []byte
	Lang   Language
}

// Parse always fails without CGO.
func Parse(ctx context.Context, source []byte, lang Language) (*Tree, error) {
	return nil, ErrNoCGO
}

// ParseFile returns nil without CGO, so tree rules report nothing.
func ParseFile(path, content string) *Tree {
	return nil
}

// Close is a no-op without CGO.
func (t *Tree) Close() {}

// StringRanges returns nil without CGO.
func (t *Tree) StringRanges() []Range {
	return nil
}
