package rules

// RequiredPatternRule reports a file that lacks a pattern. When a condition
// is configured, the requirement applies only to files matching it.
type RequiredPatternRule struct {
	base
	required  matcher
	condition *matcher
}

// NewRequiredPattern builds a required-pattern rule. pattern is required.
func NewRequiredPattern(cfg Config) (*RequiredPatternRule, error) {
	if err := requirePattern(cfg, "pattern", cfg.Pattern); err != nil {
		return nil, err
	}
	required, err := newMatcher(cfg.ID, cfg.Pattern, cfg.Regex)
	if err != nil {
		return nil, err
	}
	r := &RequiredPatternRule{base: newBase(cfg, ""), required: required}
	if cfg.ConditionPattern != "" {
		cond, err := newMatcher(cfg.ID, cfg.ConditionPattern, cfg.Regex)
		if err != nil {
			return nil, err
		}
		r.condition = &cond
	}
	return r, nil
}

// CheckFile implements Rule.
func (r *RequiredPatternRule) CheckFile(ctx *ScanContext) []Violation {
	if r.condition != nil && !r.condition.matches(ctx.Content) {
		return nil
	}
	if r.required.matches(ctx.Content) {
		return nil
	}
	return []Violation{r.at(ctx, 1, 1)}
}
