package config

import (
	"fmt"
	"sort"
	"strings"

	"baseline/internal/errors"
	"baseline/internal/syntax"
)

const (
	jsxGlob    = "**/*.{tsx,jsx}"
	sourceGlob = "**/*.{ts,tsx,js,jsx}"
)

var testGlobs = []string{"**/*.test.*", "**/*.spec.*"}

func maxCount(n int) *int { return &n }

// presets is the built-in catalog. Rule order within a preset is the order
// violations are reported in.
var presets = map[string]func() []RuleEntry{
	"shadcn-strict":  shadcnStrict,
	"shadcn-migrate": shadcnMigrate,
	"ai-safety":      aiSafety,
	"security":       security,
	"react":          react,
}

// AvailablePresets returns the preset names, sorted.
func AvailablePresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetRules returns the rules of one preset.
func PresetRules(name string) ([]RuleEntry, error) {
	fn, ok := presets[name]
	if !ok {
		return nil, errors.New(errors.UnknownPreset,
			fmt.Sprintf("unknown preset '%s'. available presets: %s", name, strings.Join(AvailablePresets(), ", ")), nil)
	}
	return fn(), nil
}

// ResolveRules expands extends into preset rules, a later preset replacing
// rules of the same id from an earlier one, then merges user rules on top.
func ResolveRules(extends []string, user []RuleEntry) ([]RuleEntry, error) {
	if len(extends) == 0 {
		return append([]RuleEntry(nil), user...), nil
	}
	var all []RuleEntry
	for _, name := range extends {
		rs, err := PresetRules(name)
		if err != nil {
			return nil, err
		}
		all = mergeRules(all, rs)
	}
	return mergeRules(all, user), nil
}

// mergeRules replaces rules in base that share an id with a rule in over and
// appends the rest of over in order.
func mergeRules(base, over []RuleEntry) []RuleEntry {
	merged := append([]RuleEntry(nil), base...)
	index := make(map[string]int, len(merged))
	for i, r := range merged {
		index[r.ID] = i
	}
	for _, r := range over {
		if i, ok := index[r.ID]; ok {
			merged[i] = r
			continue
		}
		index[r.ID] = len(merged)
		merged = append(merged, r)
	}
	return merged
}

func darkModeRule() RuleEntry {
	return RuleEntry{
		ID:       "enforce-dark-mode",
		Type:     "tailwind-dark-mode",
		Severity: "error",
		Glob:     jsxGlob,
		Message:  "Missing dark: variant for color class",
		Suggest:  "Use a shadcn semantic token class or add an explicit dark: counterpart",
	}
}

func themeTokensRule(severity string) RuleEntry {
	return RuleEntry{
		ID:       "use-theme-tokens",
		Type:     "tailwind-theme-tokens",
		Severity: severity,
		Glob:     jsxGlob,
		Message:  "Use shadcn semantic token instead of raw color",
	}
}

func shadcnStrict() []RuleEntry {
	return []RuleEntry{
		darkModeRule(),
		themeTokensRule("error"),
		{
			ID:       "no-inline-styles",
			Type:     "banned-pattern",
			Severity: "warning",
			Glob:     jsxGlob,
			Pattern:  "style={{",
			Message:  "Avoid inline styles, use Tailwind utility classes instead",
			Suggest:  "Replace style={{ ... }} with Tailwind classes",
		},
		{
			ID:       "no-css-in-js",
			Type:     "banned-import",
			Severity: "error",
			Packages: []string{"styled-components", "@emotion/styled", "@emotion/css", "@emotion/react"},
			Message:  "CSS-in-JS libraries conflict with Tailwind, use utility classes instead",
		},
		{
			ID:       "no-competing-frameworks",
			Type:     "banned-dependency",
			Severity: "error",
			Packages: []string{"bootstrap", "bulma", "@mui/material", "antd"},
			Message:  "Competing CSS framework detected, this project uses Tailwind + shadcn/ui",
		},
	}
}

func shadcnMigrate() []RuleEntry {
	return []RuleEntry{darkModeRule(), themeTokensRule("warning")}
}

func aiSafety() []RuleEntry {
	return []RuleEntry{
		{
			ID:       "no-moment",
			Type:     "banned-dependency",
			Severity: "error",
			Packages: []string{"moment", "moment-timezone"},
			Message:  "moment.js is deprecated, use date-fns or Temporal API",
		},
		{
			ID:       "no-lodash",
			Type:     "banned-dependency",
			Severity: "error",
			Packages: []string{"lodash"},
			Message:  "lodash is unnecessary, use native JS methods",
		},
		{
			ID:       "no-deprecated-request",
			Type:     "banned-dependency",
			Severity: "error",
			Packages: []string{"request", "request-promise"},
			Message:  "The 'request' package is deprecated, use 'node-fetch' or 'undici'",
		},
	}
}

func security() []RuleEntry {
	return []RuleEntry{
		{
			ID:             "no-env-files",
			Type:           "file-presence",
			Severity:       "error",
			ForbiddenFiles: []string{".env", ".env.local", ".env.development", ".env.production", ".env.staging"},
			Message:        "Environment files must not be committed, add them to .gitignore",
		},
		{
			ID:          "no-hardcoded-secrets",
			Type:        "banned-pattern",
			Severity:    "error",
			Pattern:     `(?i)(?:api_key|apikey|secret_key|secretkey|auth_token|access_token|private_key|password|passwd|secret|client_secret)\s*[:=]\s*["'][a-zA-Z0-9_\-]{8,}`,
			Regex:       true,
			ExcludeGlob: testGlobs,
			Message:     "Hardcoded secret detected, use environment variables instead",
		},
		{
			ID:       "no-eval",
			Type:     "banned-pattern",
			Severity: "error",
			Pattern:  `\beval\s*\(`,
			Regex:    true,
			Message:  "eval() is a security risk, avoid arbitrary code execution",
		},
		{
			ID:       "no-dangerous-html",
			Type:     "banned-pattern",
			Severity: "error",
			Pattern:  "dangerouslySetInnerHTML",
			Message:  "dangerouslySetInnerHTML can lead to XSS, sanitize content or use a safe alternative",
		},
		{
			ID:       "no-innerhtml",
			Type:     "banned-pattern",
			Severity: "error",
			Pattern:  `\.innerHTML\s*\+?=`,
			Regex:    true,
			Message:  "Direct innerHTML assignment can lead to XSS, use textContent or a sanitizer",
		},
		{
			ID:          "no-console-log",
			Type:        "banned-pattern",
			Severity:    "warning",
			Pattern:     `console\.(log|debug)\(`,
			Regex:       true,
			ExcludeGlob: testGlobs,
			Message:     "Remove console.log/debug before deploying to production",
		},
		{
			ID:       "no-document-write",
			Type:     "banned-pattern",
			Severity: "error",
			Pattern:  `document\.write\s*\(`,
			Regex:    true,
			Message:  "document.write() is an XSS risk and blocks rendering, use DOM APIs instead",
		},
		{
			ID:       "no-postmessage-wildcard",
			Type:     "banned-pattern",
			Severity: "error",
			Pattern:  `\.postMessage\(.*,\s*['"]\*['"]`,
			Regex:    true,
			Message:  "postMessage with '*' origin exposes data to any window, specify the target origin",
		},
		{
			ID:       "no-outerhtml",
			Type:     "banned-pattern",
			Severity: "error",
			Pattern:  `\.outerHTML\s*\+?=`,
			Regex:    true,
			Message:  "Direct outerHTML assignment can lead to XSS, use DOM APIs or a sanitizer",
		},
		{
			ID:          "no-http-links",
			Type:        "banned-pattern",
			Severity:    "warning",
			Glob:        sourceGlob,
			Pattern:     `['"]http://`,
			Regex:       true,
			ExcludeGlob: testGlobs,
			Message:     "Insecure http:// URL, use https:// instead",
		},
	}
}

func react() []RuleEntry {
	rs := []RuleEntry{
		{
			ID:       "no-array-index-key",
			Type:     "banned-pattern",
			Severity: "error",
			Glob:     jsxGlob,
			Pattern:  `key=\{[a-zA-Z_]*[iI](?:ndex|dx)`,
			Regex:    true,
			Message:  "Don't use array index as key, it causes bugs on reorder/filter",
		},
		{
			ID:       "no-conditional-render-zero",
			Type:     "banned-pattern",
			Severity: "warning",
			Glob:     jsxGlob,
			Pattern:  `\{\s*\w+\.length\s*&&`,
			Regex:    true,
			Message:  "array.length && <JSX> renders '0' when empty, use array.length > 0",
		},
		nestedComponentRule(),
		{
			ID:       "no-dangerous-html",
			Type:     "banned-pattern",
			Severity: "warning",
			Glob:     jsxGlob,
			Pattern:  "dangerouslySetInnerHTML",
			Message:  "dangerouslySetInnerHTML can lead to XSS, sanitize content or use a safe alternative",
		},
		{
			ID:       "no-full-lodash-import",
			Type:     "banned-import",
			Severity: "warning",
			Packages: []string{"lodash"},
			Message:  "Importing all of lodash (~70kb), use lodash-es or per-function imports like lodash/debounce",
		},
		{
			ID:       "no-moment",
			Type:     "banned-import",
			Severity: "warning",
			Packages: []string{"moment", "moment-timezone"},
			Message:  "moment.js is 300kb+ and deprecated, use date-fns, dayjs, or Temporal API",
		},
		{
			ID:       "no-moment-dep",
			Type:     "banned-dependency",
			Severity: "warning",
			Packages: []string{"moment", "moment-timezone"},
			Message:  "moment.js is 300kb+ and deprecated, use date-fns, dayjs, or Temporal API",
		},
		{
			ID:       "no-new-function",
			Type:     "banned-pattern",
			Severity: "error",
			Pattern:  `\bnew\s+Function\s*\(`,
			Regex:    true,
			Message:  "new Function() is equivalent to eval(), avoid dynamic code execution",
		},
		{
			ID:               "no-sequential-await",
			Type:             "window-pattern",
			Severity:         "warning",
			Glob:             sourceGlob,
			Pattern:          `^\s*(?:const\s+\w+\s*=\s*)?await\s`,
			ConditionPattern: `^\s*(?:const\s+\w+\s*=\s*)?await\s`,
			MaxCount:         maxCount(3),
			Regex:            true,
			Message:          "Sequential await statements may run slower than necessary, use Promise.all() for independent operations",
		},
	}
	if !syntax.Available {
		return rs
	}
	return append(rs,
		RuleEntry{
			ID:       "no-derived-state-effect",
			Type:     "no-derived-state-effect",
			Severity: "warning",
			Glob:     jsxGlob,
			Message:  "useEffect that only calls setState is derived state, compute during render instead",
		},
		RuleEntry{
			ID:       "no-object-dep-array",
			Type:     "no-object-dep-array",
			Severity: "warning",
			Glob:     jsxGlob,
			Message:  "Object/array literal in dependency array creates a new reference every render, extract to useMemo or a ref",
		},
		RuleEntry{
			ID:       "max-component-size",
			Type:     "max-component-size",
			Severity: "warning",
			Glob:     jsxGlob,
			MaxCount: maxCount(150),
			Message:  "Component exceeds 150 lines, split into smaller components",
			Suggest:  "Extract logic into custom hooks or break into sub-components",
		},
		RuleEntry{
			ID:       "prefer-use-reducer",
			Type:     "prefer-use-reducer",
			Severity: "warning",
			Glob:     jsxGlob,
			MaxCount: maxCount(4),
			Message:  "Component has 4+ useState calls, consider useReducer for related state",
			Suggest:  "Group related state into a single useReducer",
		},
		RuleEntry{
			ID:       "no-cascading-set-state",
			Type:     "no-cascading-set-state",
			Severity: "warning",
			Glob:     jsxGlob,
			MaxCount: maxCount(3),
			Message:  "useEffect has 3+ setState calls, consider useReducer or derived state",
			Suggest:  "Combine state updates with useReducer or compute derived values",
		},
	)
}

// nestedComponentRule uses the syntax-aware check when the parser is built
// in and a line pattern otherwise.
func nestedComponentRule() RuleEntry {
	r := RuleEntry{
		ID:       "no-nested-component-def",
		Severity: "error",
		Glob:     jsxGlob,
		Message:  "Component defined inside another component causes remounting on every render",
	}
	if syntax.Available {
		r.Type = "no-nested-components"
		return r
	}
	r.Type = "banned-pattern"
	r.Pattern = `^\s+(?:const|let|function)\s+[A-Z][a-zA-Z0-9]*\s*(?::\s*React\.FC|=\s*(?:\([^)]*\)|[a-zA-Z_]\w*)\s*(?::\s*[A-Za-z<>\[\]|&, ]+)?\s*=>|=\s*function|\()`
	r.Regex = true
	return r
}
