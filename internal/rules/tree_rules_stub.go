//go:build !cgo

package rules

// Without cgo there is no parser, so tree rules build but never report.
func registerTreeRules(m map[string]builder) {
	for _, t := range treeRuleTypes {
		m[t] = build(newInertTreeRule)
	}
}

type inertTreeRule struct{ base }

func newInertTreeRule(cfg Config) (*inertTreeRule, error) {
	return &inertTreeRule{base: newBase(cfg, "")}, nil
}

func (r *inertTreeRule) CheckFile(*ScanContext) []Violation { return nil }
