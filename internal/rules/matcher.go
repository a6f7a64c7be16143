package rules

import (
	"regexp"
	"strings"

	"baseline/internal/errors"
)

// matcher matches either a literal substring or a compiled regular expression.
type matcher struct {
	literal string
	re      *regexp.Regexp
}

func newMatcher(ruleID, pattern string, regex bool) (matcher, error) {
	if !regex {
		return matcher{literal: pattern}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return matcher{}, errors.NewInvalidRegex(ruleID, pattern, err)
	}
	return matcher{literal: pattern, re: re}, nil
}

func (m matcher) matches(s string) bool {
	if m.re != nil {
		return m.re.MatchString(s)
	}
	return strings.Contains(s, m.literal)
}

// find returns the byte offsets of every non-overlapping match in s.
func (m matcher) find(s string) []int {
	if m.re != nil {
		locs := m.re.FindAllStringIndex(s, -1)
		if len(locs) == 0 {
			return nil
		}
		out := make([]int, len(locs))
		for i, loc := range locs {
			out[i] = loc[0]
		}
		return out
	}

	var out []int
	for from := 0; from <= len(s); {
		i := strings.Index(s[from:], m.literal)
		if i < 0 {
			break
		}
		out = append(out, from+i)
		from += i + len(m.literal)
	}
	return out
}

func requirePattern(cfg Config, field, value string) error {
	if value == "" {
		return errors.NewMissingField(cfg.ID, field)
	}
	return nil
}
