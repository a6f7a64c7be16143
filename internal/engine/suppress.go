package engine

import (
	"strings"

	"baseline/internal/rules"
)

// suppressMarker prefixes every suppression comment.
const suppressMarker = "baseline"

const (
	allowAll     = suppressMarker + "-allow-all"
	allowNextAll = suppressMarker + "-allow-next-line all"
)

// suppressed reports whether v is silenced by a comment on its own line or
// on the line above. Violations without a line are never suppressed.
func suppressed(ctx *rules.ScanContext, v rules.Violation, gr *groupedRule) bool {
	if v.Line <= 0 {
		return false
	}
	line := ctx.Line(v.Line - 1)
	if hasMarker(line, allowAll) || hasMarker(line, gr.allow) {
		return true
	}
	if v.Line < 2 {
		return false
	}
	prev := ctx.Line(v.Line - 2)
	return hasMarker(prev, allowNextAll) || hasMarker(prev, gr.allowNext)
}

// hasMarker reports whether marker occurs in line followed by a character
// that cannot continue a rule id, so allow-no-console does not match no-con.
func hasMarker(line, marker string) bool {
	for from := 0; ; {
		i := strings.Index(line[from:], marker)
		if i < 0 {
			return false
		}
		end := from + i + len(marker)
		if end == len(line) || !isIDChar(line[end]) {
			return true
		}
		from += i + 1
	}
}

func isIDChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_'
}
