package engine

import (
	"strings"

	"baseline/internal/errors"
	"baseline/internal/glob"
	"baseline/internal/rules"
)

// Thresholds maps ratchet rule ids to their violation budget.
type Thresholds map[string]int

// groupedRule is a rule plus everything precomputed for it at plan time.
type groupedRule struct {
	rule rules.Rule
	// needle ids into plan.needles; -1 when unset
	contains    int
	notContains int
	allow       string
	allowNext   string
}

// ruleGroup holds the rules that share one (glob, exclude list) pair, so the
// glob sets are compiled and matched once per file for all of them.
type ruleGroup struct {
	include *glob.Set // nil matches every file
	exclude *glob.Set // nil excludes nothing
	rules   []groupedRule
}

func (g *ruleGroup) matches(path string) bool {
	if g.include != nil && !g.include.Match(path) {
		return false
	}
	return !g.exclude.Match(path)
}

// plan is the read-only state shared by every worker during a scan.
type plan struct {
	groups      []*ruleGroup
	presence    []*rules.FilePresenceRule
	thresholds  Thresholds
	needles     []string
	rulesLoaded int
}

type groupKey struct {
	glob    string
	exclude string
}

// buildPlan constructs every rule and groups content rules. It fails on the
// first rule or glob that cannot be built, before any file is read.
func buildPlan(specs []rules.Spec) (*plan, error) {
	p := &plan{thresholds: Thresholds{}}
	byKey := make(map[groupKey]*ruleGroup)
	needleIDs := make(map[string]int)

	needle := func(s string) int {
		if s == "" {
			return -1
		}
		if id, ok := needleIDs[s]; ok {
			return id
		}
		id := len(p.needles)
		needleIDs[s] = id
		p.needles = append(p.needles, s)
		return id
	}

	for _, spec := range specs {
		r, err := rules.Build(spec.Type, spec.Config)
		if err != nil {
			return nil, err
		}
		p.rulesLoaded++

		if fp, ok := r.(*rules.FilePresenceRule); ok {
			p.presence = append(p.presence, fp)
			continue
		}
		if rr, ok := r.(*rules.RatchetRule); ok {
			p.thresholds[rr.ID()] = rr.MaxCount()
		}

		key := groupKey{glob: r.FileGlob(), exclude: strings.Join(spec.Config.ExcludeGlob, "\x00")}
		g, ok := byKey[key]
		if !ok {
			g, err = newRuleGroup(r.ID(), r.FileGlob(), spec.Config.ExcludeGlob)
			if err != nil {
				return nil, err
			}
			byKey[key] = g
			p.groups = append(p.groups, g)
		}
		g.rules = append(g.rules, groupedRule{
			rule:        r,
			contains:    needle(spec.Config.FileContains),
			notContains: needle(spec.Config.FileNotContains),
			allow:       suppressMarker + "-allow-" + r.ID(),
			allowNext:   suppressMarker + "-allow-next-line " + r.ID(),
		})
	}
	return p, nil
}

func newRuleGroup(ruleID, include string, exclude []string) (*ruleGroup, error) {
	g := &ruleGroup{}
	if include != "" {
		set, err := glob.CompileCached(include)
		if err != nil {
			return nil, errors.NewInvalidGlob(ruleID, include, err)
		}
		g.include = set
	}
	if len(exclude) > 0 {
		set, err := glob.CompileCached(exclude...)
		if err != nil {
			return nil, errors.NewInvalidGlob(ruleID, strings.Join(exclude, ","), err)
		}
		g.exclude = set
	}
	return g, nil
}

// applicable reports whether any group would run against path.
func (p *plan) applicable(path string) bool {
	for _, g := range p.groups {
		if g.matches(path) {
			return true
		}
	}
	return false
}

// needleCache memoizes substring checks for one file.
type needleCache struct {
	content string
	needles []string
	state   []int8 // 0 unknown, 1 present, 2 absent
}

func newNeedleCache(content string, needles []string) *needleCache {
	return &needleCache{content: content, needles: needles, state: make([]int8, len(needles))}
}

func (c *needleCache) has(id int) bool {
	switch c.state[id] {
	case 1:
		return true
	case 2:
		return false
	}
	ok := strings.Contains(c.content, c.needles[id])
	c.state[id] = 2
	if ok {
		c.state[id] = 1
	}
	return ok
}

// admits reports whether the file's content gating lets gr run.
func (c *needleCache) admits(gr *groupedRule) bool {
	if gr.contains >= 0 && !c.has(gr.contains) {
		return false
	}
	if gr.notContains >= 0 && c.has(gr.notContains) {
		return false
	}
	return true
}
