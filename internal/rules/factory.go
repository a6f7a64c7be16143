package rules

import (
	"sort"

	"baseline/internal/errors"
)

// Rule type tags understood by Build.
const (
	TypeBannedPattern       = "banned-pattern"
	TypeRatchet             = "ratchet"
	TypeBannedImport        = "banned-import"
	TypeBannedDependency    = "banned-dependency"
	TypeRequiredPattern     = "required-pattern"
	TypeWindowPattern       = "window-pattern"
	TypeFilePresence        = "file-presence"
	TypeTailwindDarkMode    = "tailwind-dark-mode"
	TypeTailwindThemeTokens = "tailwind-theme-tokens"
	TypeMaxComponentSize    = "max-component-size"
	TypeNoNestedComponents  = "no-nested-components"
	TypePreferUseReducer    = "prefer-use-reducer"
	TypeNoCascadingSetState = "no-cascading-set-state"
	TypeNoDerivedState      = "no-derived-state-effect"
	TypeNoObjectDepArray    = "no-object-dep-array"
	TypeNoRegExpInRender    = "no-regexp-in-render"
	TypeNoDivClickHandler   = "no-div-click-handler"
	TypeNoSpanClickHandler  = "no-span-click-handler"
	TypeNoClickHandler      = "no-click-handler"
	TypeNoOutlineNone       = "no-outline-none"
)

type builder func(cfg Config) (Rule, error)

var builders = map[string]builder{
	TypeBannedPattern:       build(NewBannedPattern),
	TypeRatchet:             build(NewRatchet),
	TypeBannedImport:        build(NewBannedImport),
	TypeBannedDependency:    build(NewBannedDependency),
	TypeRequiredPattern:     build(NewRequiredPattern),
	TypeWindowPattern:       build(NewWindowPattern),
	TypeFilePresence:        build(NewFilePresence),
	TypeTailwindDarkMode:    build(NewTailwindDarkMode),
	TypeTailwindThemeTokens: build(NewTailwindThemeTokens),
}

// treeRuleTypes are registered by the tree-sitter backed implementation, or by
// a no-op fallback when parsing is not compiled in.
var treeRuleTypes = []string{
	TypeMaxComponentSize,
	TypeNoNestedComponents,
	TypePreferUseReducer,
	TypeNoCascadingSetState,
	TypeNoDerivedState,
	TypeNoObjectDepArray,
	TypeNoRegExpInRender,
	TypeNoDivClickHandler,
	TypeNoSpanClickHandler,
	TypeNoClickHandler,
	TypeNoOutlineNone,
}

func init() {
	registerTreeRules(builders)
}

// build adapts a typed constructor so a failed build never yields a non-nil Rule.
func build[T Rule](ctor func(Config) (T, error)) builder {
	return func(cfg Config) (Rule, error) {
		r, err := ctor(cfg)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// Build constructs the rule for ruleType. Errors are *errors.RuleError.
func Build(ruleType string, cfg Config) (Rule, error) {
	b, ok := builders[ruleType]
	if !ok {
		return nil, errors.NewUnknownRuleType(cfg.ID, ruleType)
	}
	return b(cfg)
}

// BuildAll constructs every spec in order, stopping at the first error.
func BuildAll(specs []Spec) ([]Rule, error) {
	out := make([]Rule, 0, len(specs))
	for _, s := range specs {
		r, err := Build(s.Type, s.Config)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Types returns every known rule type tag, sorted.
func Types() []string {
	types := make([]string, 0, len(builders))
	for t := range builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// IsTreeRule reports whether ruleType needs a syntax tree.
func IsTreeRule(ruleType string) bool {
	for _, t := range treeRuleTypes {
		if t == ruleType {
			return true
		}
	}
	return false
}
