// Package ratchet edits ratchet rules in a baseline.toml: adding a rule
// budgeted at the current match count, tightening an existing budget, and
// seeding rules from a baseline snapshot.
package ratchet

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"baseline/internal/config"
	"baseline/internal/engine"
	"baseline/internal/errors"
	"baseline/internal/rules"
	"baseline/internal/slogutil"
)

// AnyFile is the glob of a ratchet with no file restriction. It is not
// written to the config.
const AnyFile = "**/*"

// Counter counts ratchet matches. *engine.Engine implements it.
type Counter interface {
	Count(ctx context.Context, specs []rules.Spec, roots []string) (*engine.BaselineResult, error)
}

// Rule is a ratchet rule as written to the config file.
type Rule struct {
	ID       string `toml:"id"`
	Type     string `toml:"type"`
	Severity string `toml:"severity"`
	Pattern  string `toml:"pattern"`
	Regex    bool   `toml:"regex,omitempty"`
	Glob     string `toml:"glob,omitempty"`
	MaxCount int    `toml:"max_count"`
	Message  string `toml:"message"`
}

// Slugify turns a pattern into a rule id: lowercase ASCII alphanumerics with
// runs of anything else collapsed to a single dash.
func Slugify(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return "ratchet-rule"
	}
	return s
}

// AppendRule appends r as a [[rule]] table to the end of configText.
func AppendRule(configText string, r Rule) (string, error) {
	r.Type = rules.TypeRatchet
	if r.Severity == "" {
		r.Severity = string(rules.SeverityWarning)
	}
	if r.Glob == AnyFile {
		r.Glob = ""
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(struct {
		Rule []Rule `toml:"rule"`
	}{Rule: []Rule{r}}); err != nil {
		return "", fmt.Errorf("failed to encode rule: %w", err)
	}

	var out strings.Builder
	out.WriteString(configText)
	if configText != "" && !strings.HasSuffix(configText, "\n") {
		out.WriteByte('\n')
	}
	if configText != "" {
		out.WriteByte('\n')
	}
	out.WriteString(strings.TrimLeft(buf.String(), "\n"))
	return out.String(), nil
}

var remainingRe = regexp.MustCompile(`\d+ remaining`)

// UpdateMaxCount rewrites max_count of the rule with id ruleID to newMax,
// leaving every other line untouched. A "N remaining" count in the rule's
// message is updated too.
func UpdateMaxCount(configText, ruleID string, newMax int) (string, error) {
	lines := strings.Split(configText, "\n")
	inTarget, found, updated := false, false, false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			if inTarget {
				break
			}
			continue
		}
		if !found {
			if id, ok := stringValue(trimmed, "id"); ok && id == ruleID {
				inTarget, found = true, true
			}
			continue
		}
		if !inTarget {
			continue
		}
		switch {
		case keyOf(trimmed) == "max_count":
			lines[i] = leadingSpace(line) + "max_count = " + strconv.Itoa(newMax)
			updated = true
		case keyOf(trimmed) == "message":
			lines[i] = remainingRe.ReplaceAllString(line, strconv.Itoa(newMax)+" remaining")
		}
	}

	if !found || !updated {
		return "", errors.New(errors.RuleNotFound, fmt.Sprintf("no ratchet rule found with id '%s'", ruleID), nil)
	}
	return strings.Join(lines, "\n"), nil
}

func keyOf(line string) string {
	k, _, ok := strings.Cut(line, "=")
	if !ok {
		return ""
	}
	return strings.TrimSpace(k)
}

// stringValue extracts the value of `key = "value"` or `key = 'value'`.
func stringValue(line, key string) (string, bool) {
	if keyOf(line) != key {
		return "", false
	}
	_, rest, _ := strings.Cut(line, "=")
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || (rest[0] != '"' && rest[0] != '\'') {
		return "", false
	}
	end := strings.IndexByte(rest[1:], rest[0])
	if end < 0 {
		return "", false
	}
	return rest[1 : 1+end], true
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// Ratchet performs ratchet edits against one config file.
type Ratchet struct {
	configPath string
	counter    Counter
	logger     *slog.Logger
}

// New creates a Ratchet for the config at configPath. A nil logger discards.
func New(configPath string, counter Counter, logger *slog.Logger) *Ratchet {
	return &Ratchet{configPath: configPath, counter: counter, logger: slogutil.OrDiscard(logger)}
}

// AddOptions describe a new ratchet rule.
type AddOptions struct {
	Pattern string
	ID      string
	Glob    string
	Regex   bool
	Message string
}

// Add counts the current matches of opts.Pattern under roots and appends a
// ratchet rule budgeted at that count.
func (r *Ratchet) Add(ctx context.Context, opts AddOptions, roots []string) (*Rule, error) {
	text, f, err := r.load()
	if err != nil {
		return nil, err
	}

	id := opts.ID
	if id == "" {
		id = Slugify(opts.Pattern)
	}
	for _, existing := range f.Rules {
		if existing.ID == id {
			return nil, errors.New(errors.RuleAlreadyExists, fmt.Sprintf("a rule with id '%s' already exists", id), nil)
		}
	}
	glob := opts.Glob
	if glob == "" {
		glob = AnyFile
	}

	count, err := r.count(ctx, opts.Pattern, glob, opts.Regex, roots)
	if err != nil {
		return nil, err
	}
	msg := opts.Message
	if msg == "" {
		msg = fmt.Sprintf("%d remaining", count)
	}

	rule := Rule{ID: id, Pattern: opts.Pattern, Glob: glob, Regex: opts.Regex, MaxCount: count, Message: msg}
	updated, err := AppendRule(text, rule)
	if err != nil {
		return nil, err
	}
	if err := r.write(updated); err != nil {
		return nil, err
	}
	r.logger.Info("Added ratchet rule", "id", id, "maxCount", count)
	return &rule, nil
}

// Down recounts the ratchet rule ruleID and lowers its max_count to the
// current count. It fails with NO_DECREASE when the count has not dropped.
func (r *Ratchet) Down(ctx context.Context, ruleID string, roots []string) (oldMax, newMax int, err error) {
	text, f, err := r.load()
	if err != nil {
		return 0, 0, err
	}

	var entry *config.RuleEntry
	for i := range f.Rules {
		if f.Rules[i].ID == ruleID && f.Rules[i].Type == rules.TypeRatchet {
			entry = &f.Rules[i]
			break
		}
	}
	if entry == nil {
		return 0, 0, errors.New(errors.RuleNotFound, fmt.Sprintf("no ratchet rule found with id '%s'", ruleID), nil)
	}
	if entry.MaxCount != nil {
		oldMax = *entry.MaxCount
	}
	glob := entry.Glob
	if glob == "" {
		glob = AnyFile
	}

	current, err := r.count(ctx, entry.Pattern, glob, entry.Regex, roots)
	if err != nil {
		return 0, 0, err
	}
	if current >= oldMax {
		return oldMax, current, errors.New(errors.NoDecrease,
			fmt.Sprintf("rule '%s': current count (%d) has not decreased below max_count (%d)", ruleID, current, oldMax), nil)
	}

	updated, err := UpdateMaxCount(text, ruleID, current)
	if err != nil {
		return 0, 0, err
	}
	if err := r.write(updated); err != nil {
		return 0, 0, err
	}
	r.logger.Info("Ratcheted down", "id", ruleID, "from", oldMax, "to", current)
	return oldMax, current, nil
}

// From appends one ratchet rule per baseline entry, skipping ids the config
// already defines. It returns the added rules and the skipped ids.
func (r *Ratchet) From(baseline *engine.BaselineResult) (added []Rule, skipped []string, err error) {
	text, f, err := r.load()
	if err != nil {
		return nil, nil, err
	}
	existing := make(map[string]bool, len(f.Rules))
	for _, e := range f.Rules {
		existing[e.ID] = true
	}

	for _, entry := range baseline.Entries {
		if existing[entry.RuleID] {
			r.logger.Warn("Skipping baseline entry, rule already exists", "id", entry.RuleID)
			skipped = append(skipped, entry.RuleID)
			continue
		}
		rule := Rule{
			ID:       entry.RuleID,
			Pattern:  entry.Pattern,
			Glob:     AnyFile,
			MaxCount: entry.Count,
			Message:  fmt.Sprintf("%d remaining", entry.Count),
		}
		if text, err = AppendRule(text, rule); err != nil {
			return nil, nil, err
		}
		existing[entry.RuleID] = true
		added = append(added, rule)
	}

	if len(added) > 0 {
		if err := r.write(text); err != nil {
			return nil, nil, err
		}
	}
	return added, skipped, nil
}

func (r *Ratchet) load() (string, *config.File, error) {
	f, err := config.Load(r.configPath)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(r.configPath)
	if err != nil {
		return "", nil, err
	}
	return string(data), f, nil
}

func (r *Ratchet) write(text string) error {
	if err := os.WriteFile(r.configPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.configPath, err)
	}
	return nil
}

// count runs a throwaway ratchet rule with an unlimited budget.
func (r *Ratchet) count(ctx context.Context, pattern, glob string, regex bool, roots []string) (int, error) {
	unlimited := math.MaxInt
	spec := rules.Spec{
		Type: rules.TypeRatchet,
		Config: rules.Config{
			ID:       "__ratchet_count__",
			Severity: rules.SeverityWarning,
			Pattern:  pattern,
			Glob:     glob,
			Regex:    regex,
			MaxCount: &unlimited,
			Message:  "counting",
		},
	}
	res, err := r.counter.Count(ctx, []rules.Spec{spec}, roots)
	if err != nil {
		return 0, err
	}
	if len(res.Entries) == 0 {
		return 0, nil
	}
	return res.Entries[0].Count, nil
}
