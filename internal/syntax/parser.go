//go:build cgo

package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Available reports whether tree-sitter parsing is compiled in.
const Available = true

// Tree is a parsed source file. A nil *Tree is valid and behaves as an empty tree.
type Tree struct {
	tree   *sitter.Tree
	Source []byte
	Lang   Language
}

// Parse parses source code with the grammar for lang.
// A fresh parser is created per call; tree-sitter parsers are not safe for concurrent use.
func Parse(ctx context.Context, source []byte, lang Language) (*Tree, error) {
	tsLang, err := getLanguage(lang)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tsLang)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &Tree{tree: tree, Source: source, Lang: lang}, nil
}

// ParseFile parses content when path has a supported extension.
// It returns nil for unsupported extensions or parse failures.
func ParseFile(path, content string) *Tree {
	lang, ok := LanguageFromPath(path)
	if !ok {
		return nil
	}
	t, err := Parse(context.Background(), []byte(content), lang)
	if err != nil {
		return nil
	}
	return t
}

// Root returns the root node, or nil for a nil tree.
func (t *Tree) Root() *sitter.Node {
	if t == nil || t.tree == nil {
		return nil
	}
	return t.tree.RootNode()
}

// Text returns the source text spanned by n.
func (t *Tree) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(t.Source)
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// StringRanges returns the byte ranges of every string and template literal,
// outermost only, sorted by start offset.
func (t *Tree) StringRanges() []Range {
	var ranges []Range
	Walk(t.Root(), func(n *sitter.Node) bool {
		switch n.Type() {
		case "string", "template_string":
			ranges = append(ranges, Range{Start: int(n.StartByte()), End: int(n.EndByte())})
			return false
		}
		return true
	})
	return ranges
}

func getLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}
