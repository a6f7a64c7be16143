package rules

import (
	"fmt"
	"strconv"
	"strings"
)

var semanticSuffixes = []string{
	"background", "foreground", "card", "card-foreground", "popover",
	"popover-foreground", "primary", "primary-foreground", "secondary",
	"secondary-foreground", "muted", "muted-foreground", "accent",
	"accent-foreground", "destructive", "destructive-foreground", "border",
	"input", "ring", "chart-1", "chart-2", "chart-3", "chart-4", "chart-5",
	"sidebar-background", "sidebar-foreground", "sidebar-primary",
	"sidebar-primary-foreground", "sidebar-accent", "sidebar-accent-foreground",
	"sidebar-border", "sidebar-ring",
}

var alwaysAllowedSuffixes = []string{"transparent", "current", "inherit", "auto"}

// TailwindDarkModeRule flags hardcoded Tailwind color utilities that have no
// dark: variant for the same utility in the same class list. Semantic token
// classes adapt to the theme and are always allowed.
type TailwindDarkModeRule struct {
	base
	allowed map[string]struct{}
}

// NewTailwindDarkMode builds the rule. allowed_classes extends the built-in
// allow list.
func NewTailwindDarkMode(cfg Config) (*TailwindDarkModeRule, error) {
	allowed := make(map[string]struct{})
	for _, p := range colorPrefixes {
		for _, s := range semanticSuffixes {
			allowed[p+"-"+s] = struct{}{}
		}
		for _, s := range alwaysAllowedSuffixes {
			allowed[p+"-"+s] = struct{}{}
		}
	}
	for _, c := range cfg.AllowedClasses {
		allowed[c] = struct{}{}
	}
	return &TailwindDarkModeRule{base: newBase(cfg, tailwindGlob), allowed: allowed}, nil
}

// CheckFile implements Rule.
func (r *TailwindDarkModeRule) CheckFile(ctx *ScanContext) []Violation {
	var out []Violation
	for idx, line := range ctx.Lines() {
		lists := append(classAttrStrings(line), utilCallStrings(line)...)
		seen := make(map[string]bool)
		for _, list := range lists {
			for _, class := range r.missingDark(list) {
				// a cn() string inside className is extracted by both passes
				if seen[class] {
					continue
				}
				seen[class] = true
				col := 0
				if i := strings.Index(line, class); i >= 0 {
					col = i + 1
				}
				v := r.at(ctx, idx+1, col)
				v.Message = fmt.Sprintf("Class '%s' sets a color without a dark: variant", class)
				if r.message != "" {
					v.Message = fmt.Sprintf("%s: '%s'", r.message, class)
				}
				switch s := semanticSuggestion(class); {
				case s != "":
					v.Suggest = s
				case r.suggest != "":
					v.Suggest = r.suggest
				default:
					v.Suggest = fmt.Sprintf("Add 'dark:%s' or replace with a semantic token class", darkCounterpart(class))
				}
				out = append(out, v)
			}
		}
	}
	return out
}

func (r *TailwindDarkModeRule) missingDark(list string) []string {
	classes := strings.Fields(list)
	var dark []string
	for _, c := range classes {
		if d, ok := strings.CutPrefix(c, "dark:"); ok {
			dark = append(dark, d)
		}
	}

	var missing []string
	for _, c := range classes {
		if strings.HasPrefix(c, "dark:") || strings.HasPrefix(c, "hover:") || strings.HasPrefix(c, "focus:") {
			continue
		}
		if !colorUtilityRe.MatchString(c) {
			continue
		}
		if _, ok := r.allowed[c]; ok {
			continue
		}
		prefix := utilityPrefix(c)
		covered := false
		for _, d := range dark {
			if strings.HasPrefix(d, prefix) {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, c)
		}
	}
	return missing
}

// classAttrStrings returns the quoted values of class attributes on line.
func classAttrStrings(line string) []string {
	var out []string
	for _, m := range classAttrRe.FindAllStringSubmatchIndex(line, -1) {
		for g := 1; g <= 5; g++ {
			if m[2*g] >= 0 {
				out = append(out, line[m[2*g]:m[2*g+1]])
			}
		}
	}
	return out
}

// utilCallStrings returns the quoted strings following the first class
// utility call on line that look like class lists.
func utilCallStrings(line string) []string {
	loc := classUtilRe.FindStringIndex(line)
	if loc == nil {
		return nil
	}
	var out []string
	for _, m := range quotedRe.FindAllStringSubmatch(line[loc[1]:], -1) {
		if strings.ContainsAny(m[1], "- ") {
			out = append(out, m[1])
		}
	}
	return out
}

func semanticSuggestion(class string) string {
	prefix, color, ok := strings.Cut(class, "-")
	if !ok {
		return ""
	}
	var token string
	switch {
	case color == "white":
		switch prefix {
		case "bg":
			token = "bg-background"
		case "text":
			token = "text-foreground"
		}
	case color == "black":
		switch prefix {
		case "bg":
			token = "bg-foreground"
		case "text":
			token = "text-background"
		}
	case hasAnyPrefix(color, "gray", "slate", "zinc", "neutral"):
		shade := -1
		if parts := strings.Split(color, "-"); len(parts) > 1 {
			if n, err := strconv.Atoi(parts[1]); err == nil {
				shade = n
			}
		}
		switch {
		case prefix == "bg" && shade >= 50 && shade <= 200:
			token = "bg-muted"
		case prefix == "bg" && shade >= 800 && shade <= 950:
			token = "bg-background (in dark theme)"
		case prefix == "text" && shade >= 400 && shade <= 600:
			token = "text-muted-foreground"
		case prefix == "text" && shade >= 700 && shade <= 950:
			token = "text-foreground"
		case prefix == "border":
			token = "border-border"
		}
	}
	if token == "" {
		return ""
	}
	return fmt.Sprintf("Use '%s' instead, it adapts to light/dark automatically", token)
}

var invertedShades = map[int]int{
	50: 950, 100: 900, 200: 800, 300: 700, 400: 600, 500: 500,
	600: 400, 700: 300, 800: 200, 900: 100, 950: 50,
}

// darkCounterpart proposes the dark-theme class for a light-theme color class.
func darkCounterpart(class string) string {
	prefix, color, ok := strings.Cut(class, "-")
	if !ok {
		return class
	}
	switch color {
	case "white":
		return prefix + "-slate-950"
	case "black":
		return prefix + "-white"
	}
	if i := strings.LastIndexByte(color, '-'); i >= 0 {
		if shade, err := strconv.Atoi(color[i+1:]); err == nil {
			if inv, ok := invertedShades[shade]; ok {
				shade = inv
			}
			return fmt.Sprintf("%s-%s-%d", prefix, color[:i], shade)
		}
	}
	return prefix + "-" + color
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
