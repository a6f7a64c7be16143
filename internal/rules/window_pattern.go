package rules

// WindowPatternRule requires that every line matching the trigger has a line
// matching the required pattern within max_count lines before or after it.
// The trigger line itself does not count.
type WindowPatternRule struct {
	base
	trigger  matcher
	required matcher
	window   int
}

// NewWindowPattern builds a window-pattern rule. pattern and
// condition_pattern are required; max_count defaults to 10.
func NewWindowPattern(cfg Config) (*WindowPatternRule, error) {
	if err := requirePattern(cfg, "pattern", cfg.Pattern); err != nil {
		return nil, err
	}
	if err := requirePattern(cfg, "condition_pattern", cfg.ConditionPattern); err != nil {
		return nil, err
	}
	trigger, err := newMatcher(cfg.ID, cfg.Pattern, cfg.Regex)
	if err != nil {
		return nil, err
	}
	required, err := newMatcher(cfg.ID, cfg.ConditionPattern, cfg.Regex)
	if err != nil {
		return nil, err
	}
	window := cfg.maxCountOr(10)
	if window < 0 {
		window = 0
	}
	return &WindowPatternRule{
		base:     newBase(cfg, ""),
		trigger:  trigger,
		required: required,
		window:   window,
	}, nil
}

// CheckFile implements Rule.
func (r *WindowPatternRule) CheckFile(ctx *ScanContext) []Violation {
	lines := ctx.Lines()
	var out []Violation
	for idx, line := range lines {
		if !r.trigger.matches(line) {
			continue
		}
		lo := max(idx-r.window, 0)
		hi := min(idx+r.window, len(lines)-1)
		found := false
		for i := lo; i <= hi && !found; i++ {
			found = i != idx && r.required.matches(lines[i])
		}
		if !found {
			out = append(out, r.at(ctx, idx+1, 1))
		}
	}
	return out
}
