package rules

import (
	"regexp"
	"strings"
)

// colorPrefixes are the Tailwind utilities that take a color.
var colorPrefixes = []string{
	"bg", "text", "border", "ring", "outline", "shadow", "divide", "accent",
	"caret", "fill", "stroke", "decoration", "placeholder", "from", "via", "to",
}

var tailwindColors = []string{
	"slate", "gray", "zinc", "neutral", "stone", "red", "orange", "amber",
	"yellow", "lime", "green", "emerald", "teal", "cyan", "sky", "blue",
	"indigo", "violet", "purple", "fuchsia", "pink", "rose", "white", "black",
}

var (
	colorUtilityRe = regexp.MustCompile(`\b(` + strings.Join(colorPrefixes, "|") + `)-(` +
		strings.Join(tailwindColors, "|") + `)(?:-(\d{2,3}))?(?:/\d+)?\b`)
	classAttrRe    = regexp.MustCompile(`(?:className|class)\s*=\s*(?:"([^"]*?)"|'([^']*?)'|\{[^}]*?(?:` + "`([^`]*?)`" + `|"([^"]*?)"|'([^']*?)'))`)
	classUtilRe    = regexp.MustCompile(`(?:cn|clsx|classNames|cva|twMerge)\s*\(`)
	quotedRe       = regexp.MustCompile("['\"`]([^'\"`]+?)['\"`]")
	classContextRe = regexp.MustCompile(`(?:className|class)\s*=|(?:cn|clsx|classNames|cva|twMerge)\s*\(`)
)

const tailwindGlob = "**/*.{tsx,jsx,html}"

// utilityPrefix returns the part of a class before its first '-'.
func utilityPrefix(class string) string {
	if i := strings.IndexByte(class, '-'); i >= 0 {
		return class[:i]
	}
	return class
}
