package engine

import "baseline/internal/rules"

// RatchetCount is the outcome of one ratchet rule.
type RatchetCount struct {
	Found int `json:"found"`
	Max   int `json:"max"`
}

// Passed reports whether the rule stayed within its budget.
func (c RatchetCount) Passed() bool { return c.Found <= c.Max }

// ApplyRatchets removes the violations of every ratchet rule that stayed
// within budget and keeps all of them for rules that exceeded it. A count is
// recorded for every threshold, including those with no violations.
func ApplyRatchets(violations []rules.Violation, thresholds Thresholds) ([]rules.Violation, map[string]RatchetCount) {
	counts := make(map[string]RatchetCount, len(thresholds))
	if len(thresholds) == 0 {
		return violations, counts
	}

	found := make(map[string]int, len(thresholds))
	for _, v := range violations {
		if _, ok := thresholds[v.RuleID]; ok {
			found[v.RuleID]++
		}
	}
	for id, max := range thresholds {
		counts[id] = RatchetCount{Found: found[id], Max: max}
	}

	kept := make([]rules.Violation, 0, len(violations))
	for _, v := range violations {
		if c, ok := counts[v.RuleID]; ok && c.Passed() {
			continue
		}
		kept = append(kept, v)
	}
	return kept, counts
}
