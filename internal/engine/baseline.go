package engine

import (
	"context"

	"baseline/internal/rules"
	"baseline/internal/walk"
)

// BaselineEntry is the current match count of one ratchet rule.
type BaselineEntry struct {
	RuleID  string `json:"ruleId"`
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

// BaselineResult is the outcome of Count.
type BaselineResult struct {
	Entries      []BaselineEntry `json:"entries"`
	FilesScanned int             `json:"filesScanned"`
}

// Count builds only the ratchet rules in specs and counts their unsuppressed
// matches across the files below roots, without applying budgets. Entries
// follow the order of specs.
func (e *Engine) Count(ctx context.Context, specs []rules.Spec, roots []string) (*BaselineResult, error) {
	var ratchets []rules.Spec
	for _, s := range specs {
		if s.Type == rules.TypeRatchet {
			ratchets = append(ratchets, s)
		}
	}
	p, err := buildPlan(ratchets)
	if err != nil {
		return nil, err
	}

	files, err := walk.New(e.exclude, e.logger).Collect(ctx, roots)
	if err != nil {
		return nil, err
	}
	perFile, scanned, err := e.run(ctx, p, files)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(ratchets))
	for _, vs := range perFile {
		for _, v := range vs {
			counts[v.RuleID]++
		}
	}

	entries := make([]BaselineEntry, 0, len(ratchets))
	for _, s := range ratchets {
		entries = append(entries, BaselineEntry{
			RuleID:  s.Config.ID,
			Pattern: s.Config.Pattern,
			Count:   counts[s.Config.ID],
		})
	}
	e.logger.Info("Baseline counted", "rules", len(entries), "files", scanned)
	return &BaselineResult{Entries: entries, FilesScanned: scanned}, nil
}
