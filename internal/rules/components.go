//go:build cgo

package rules

import (
	"baseline/internal/syntax"
)

// MaxComponentSizeRule flags components spanning more than max_count lines
// (default 150).
type MaxComponentSizeRule struct {
	base
	max int
}

func NewMaxComponentSize(cfg Config) (*MaxComponentSizeRule, error) {
	return &MaxComponentSizeRule{base: newBase(cfg, ""), max: cfg.maxCountOr(150)}, nil
}

func (r *MaxComponentSizeRule) CheckFile(ctx *ScanContext) []Violation {
	return treeCheck(ctx, func(t *syntax.Tree) []Violation {
		var out []Violation
		for _, c := range components(t) {
			start, end := int(c.StartPoint().Row), int(c.EndPoint().Row)
			if end-start+1 > r.max {
				out = append(out, r.at(ctx, start+1, 1))
			}
		}
		return out
	})
}

// NoNestedComponentsRule flags components defined inside another component.
type NoNestedComponentsRule struct {
	base
}

func NewNoNestedComponents(cfg Config) (*NoNestedComponentsRule, error) {
	return &NoNestedComponentsRule{base: newBase(cfg, "")}, nil
}

func (r *NoNestedComponentsRule) CheckFile(ctx *ScanContext) []Violation {
	return treeCheck(ctx, func(t *syntax.Tree) []Violation {
		var out []Violation
		for _, c := range components(t) {
			if syntax.HasComponentAncestor(c, t.Source) {
				out = append(out, r.atNode(ctx, c))
			}
		}
		return out
	})
}

// PreferUseReducerRule flags components with max_count (default 4) or more
// useState calls of their own.
type PreferUseReducerRule struct {
	base
	max int
}

func NewPreferUseReducer(cfg Config) (*PreferUseReducerRule, error) {
	return &PreferUseReducerRule{base: newBase(cfg, ""), max: cfg.maxCountOr(4)}, nil
}

func (r *PreferUseReducerRule) CheckFile(ctx *ScanContext) []Violation {
	return treeCheck(ctx, func(t *syntax.Tree) []Violation {
		var out []Violation
		for _, c := range components(t) {
			if syntax.CountCallsInScope(c, t.Source, "useState") >= r.max {
				out = append(out, r.at(ctx, int(c.StartPoint().Row)+1, 1))
			}
		}
		return out
	})
}
