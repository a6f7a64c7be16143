package rules

import (
	"fmt"
	"strings"
)

// defaultTokenMap maps raw Tailwind color classes to the semantic token class
// that should replace them.
var defaultTokenMap = map[string]string{
	"bg-white":       "bg-background",
	"bg-slate-50":    "bg-muted",
	"bg-gray-50":     "bg-muted",
	"bg-zinc-50":     "bg-muted",
	"bg-neutral-50":  "bg-muted",
	"bg-slate-100":   "bg-accent or bg-secondary",
	"bg-gray-100":    "bg-accent or bg-secondary",
	"bg-zinc-100":    "bg-muted",
	"bg-neutral-100": "bg-muted",
	"bg-slate-900":   "bg-primary",
	"bg-gray-900":    "bg-background",
	"bg-zinc-900":    "bg-background",
	"bg-neutral-900": "bg-background",
	"bg-slate-950":   "bg-background",
	"bg-gray-950":    "bg-background",
	"bg-zinc-950":    "bg-background",
	"bg-neutral-950": "bg-background",
	"bg-black":       "bg-foreground or bg-background",
	"bg-slate-200":   "bg-card or bg-muted",
	"bg-gray-200":    "bg-card or bg-muted",
	"bg-zinc-200":    "bg-card or bg-muted",

	"text-black":       "text-foreground",
	"text-white":       "text-foreground (in dark) or text-primary-foreground",
	"text-slate-900":   "text-foreground",
	"text-gray-900":    "text-foreground",
	"text-zinc-900":    "text-foreground",
	"text-neutral-900": "text-foreground",
	"text-slate-950":   "text-foreground",
	"text-gray-950":    "text-foreground",
	"text-zinc-950":    "text-foreground",
	"text-slate-400":   "text-muted-foreground",
	"text-gray-400":    "text-muted-foreground",
	"text-zinc-400":    "text-muted-foreground",
	"text-neutral-400": "text-muted-foreground",
	"text-slate-500":   "text-muted-foreground",
	"text-gray-500":    "text-muted-foreground",
	"text-zinc-500":    "text-muted-foreground",
	"text-neutral-500": "text-muted-foreground",
	"text-slate-600":   "text-muted-foreground",
	"text-gray-600":    "text-muted-foreground",
	"text-zinc-600":    "text-muted-foreground",
	"text-slate-50":    "text-primary-foreground",
	"text-gray-50":     "text-primary-foreground",

	"border-slate-200":   "border-border",
	"border-gray-200":    "border-border",
	"border-zinc-200":    "border-border",
	"border-neutral-200": "border-border",
	"border-slate-300":   "border-border",
	"border-gray-300":    "border-border",
	"border-zinc-300":    "border-border",
	"border-slate-700":   "border-border",
	"border-gray-700":    "border-border",
	"border-zinc-700":    "border-border",
	"border-slate-800":   "border-border",
	"border-gray-800":    "border-border",
	"border-zinc-800":    "border-border",

	"ring-slate-200": "ring-ring",
	"ring-gray-200":  "ring-ring",
	"ring-slate-400": "ring-ring",
	"ring-gray-400":  "ring-ring",
	"ring-slate-700": "ring-ring",

	"divide-slate-200": "divide-border",
	"divide-gray-200":  "divide-border",
	"divide-zinc-200":  "divide-border",

	"bg-red-500":     "bg-destructive",
	"bg-red-600":     "bg-destructive",
	"text-red-500":   "text-destructive",
	"text-red-600":   "text-destructive",
	"border-red-500": "border-destructive",
}

// TailwindThemeTokensRule flags raw color classes that have a semantic token
// replacement. Only lines that set classes are inspected, and dark: overrides
// are left alone.
type TailwindThemeTokensRule struct {
	base
	tokens map[string]string
}

// NewTailwindThemeTokens builds the rule. token_map entries ("raw=semantic")
// extend or override the defaults; allowed_classes removes entries.
func NewTailwindThemeTokens(cfg Config) (*TailwindThemeTokensRule, error) {
	tokens := make(map[string]string, len(defaultTokenMap)+len(cfg.TokenMap))
	for k, v := range defaultTokenMap {
		tokens[k] = v
	}
	for _, entry := range cfg.TokenMap {
		raw, repl, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		tokens[strings.TrimSpace(raw)] = strings.TrimSpace(repl)
	}
	for _, c := range cfg.AllowedClasses {
		delete(tokens, c)
	}
	return &TailwindThemeTokensRule{base: newBase(cfg, tailwindGlob), tokens: tokens}, nil
}

// Replacement returns the semantic token suggested for class.
func (r *TailwindThemeTokensRule) Replacement(class string) (string, bool) {
	repl, ok := r.tokens[class]
	return repl, ok
}

// CheckFile implements Rule.
func (r *TailwindThemeTokensRule) CheckFile(ctx *ScanContext) []Violation {
	var out []Violation
	for idx, line := range ctx.Lines() {
		if !classContextRe.MatchString(line) {
			continue
		}
		for _, loc := range colorUtilityRe.FindAllStringIndex(line, -1) {
			if strings.HasSuffix(line[:loc[0]], "dark:") {
				continue
			}
			raw := line[loc[0]:loc[1]]
			repl, ok := r.tokens[raw]
			if !ok {
				continue
			}
			v := r.at(ctx, idx+1, loc[0]+1)
			v.Message = fmt.Sprintf("Raw color class '%s', use semantic token '%s' for theme support", raw, repl)
			if r.message != "" {
				v.Message = fmt.Sprintf("%s: '%s' -> '%s'", r.message, raw, repl)
			}
			v.Suggest = fmt.Sprintf("Replace '%s' with '%s'", raw, repl)
			if !strings.Contains(repl, " ") {
				v.Fix = &Fix{Old: raw, New: repl}
			}
			out = append(out, v)
		}
	}
	return out
}
