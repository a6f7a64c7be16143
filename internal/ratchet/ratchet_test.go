package ratchet

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"baseline/internal/config"
	"baseline/internal/engine"
	"baseline/internal/errors"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"legacyFetch(", "legacyfetch"},
		{"console.log(", "console-log"},
		{"  TODO: fix  ", "todo-fix"},
		{"a--b__c", "a-b-c"},
		{"(((", "ratchet-rule"},
		{"", "ratchet-rule"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAppendRule(t *testing.T) {
	base := "[baseline]\nname = \"web\""
	out, err := AppendRule(base, Rule{ID: "legacy", Pattern: `say "hi"`, Glob: AnyFile, MaxCount: 0, Message: "0 remaining"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, base+"\n\n[[rule]]\n"), out)
	assert.NotContains(t, out, "glob")
	assert.NotContains(t, out, "regex")

	f, err := config.Parse([]byte(out), config.FormatTOML)
	require.NoError(t, err)
	require.Len(t, f.Rules, 1)
	r := f.Rules[0]
	assert.Equal(t, "legacy", r.ID)
	assert.Equal(t, "ratchet", r.Type)
	assert.Equal(t, "warning", r.Severity)
	assert.Equal(t, `say "hi"`, r.Pattern)
	require.NotNil(t, r.MaxCount)
	assert.Equal(t, 0, *r.MaxCount)
}

func TestAppendRule_RegexAndGlob(t *testing.T) {
	out, err := AppendRule("", Rule{ID: "x", Pattern: `foo\(`, Regex: true, Glob: "**/*.ts", MaxCount: 3, Message: "m"})
	require.NoError(t, err)
	f, err := config.Parse([]byte(out), config.FormatTOML)
	require.NoError(t, err)
	require.Len(t, f.Rules, 1)
	assert.True(t, f.Rules[0].Regex)
	assert.Equal(t, "**/*.ts", f.Rules[0].Glob)
	assert.Equal(t, `foo\(`, f.Rules[0].Pattern)
}

func TestUpdateMaxCount(t *testing.T) {
	text := `[baseline]
name = "web"

[[rule]]
id = "a"
type = "ratchet"
pattern = "A"
max_count = 10
message = "10 remaining"

[[rule]]
id = 'b'
type = 'ratchet'
pattern = 'B'
  max_count = 7
message = '7 remaining in legacy code'
`
	out, err := UpdateMaxCount(text, "b", 4)
	require.NoError(t, err)
	assert.Contains(t, out, "max_count = 10\n")
	assert.Contains(t, out, "message = \"10 remaining\"\n")
	assert.Contains(t, out, "  max_count = 4\n")
	assert.Contains(t, out, "message = '4 remaining in legacy code'\n")
	assert.True(t, strings.HasSuffix(out, "\n"))

	out, err = UpdateMaxCount(text, "a", 9)
	require.NoError(t, err)
	assert.Contains(t, out, "max_count = 9\nmessage = \"9 remaining\"")
	assert.Contains(t, out, "  max_count = 7\n")
}

func TestUpdateMaxCount_NotFound(t *testing.T) {
	_, err := UpdateMaxCount("[[rule]]\nid = \"a\"\n", "b", 1)
	assert.Equal(t, errors.RuleNotFound, errors.CodeOf(err))

	// a rule without max_count cannot be tightened
	_, err = UpdateMaxCount("[[rule]]\nid = \"a\"\n[[rule]]\nid = \"b\"\nmax_count = 2\n", "a", 1)
	assert.Equal(t, errors.RuleNotFound, errors.CodeOf(err))
}

func TestStringValue(t *testing.T) {
	tests := []struct {
		line, key, want string
		ok              bool
	}{
		{`id = "abc"`, "id", "abc", true},
		{`id='abc'`, "id", "abc", true},
		{`idx = "abc"`, "id", "", false},
		{`id = 3`, "id", "", false},
		{`id = "open`, "id", "", false},
	}
	for _, tt := range tests {
		got, ok := stringValue(tt.line, tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("stringValue(%q, %q) = %q, %v, want %q, %v", tt.line, tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

type workspace struct {
	root   string
	config string
	r      *Ratchet
}

func newWorkspace(t *testing.T, configText string, files map[string]string) *workspace {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(content), 0o644))
	}
	cfg := filepath.Join(root, "baseline.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(configText), 0o644))

	e, err := engine.New(engine.Options{Workers: 2})
	require.NoError(t, err)
	return &workspace{root: src, config: cfg, r: New(cfg, e, nil)}
}

func (w *workspace) load(t *testing.T) *config.File {
	t.Helper()
	f, err := config.Load(w.config)
	require.NoError(t, err)
	return f
}

func TestRatchet_Add(t *testing.T) {
	w := newWorkspace(t, "[baseline]\nname = \"web\"\n", map[string]string{
		"a.ts": "legacyFetch(1)\nlegacyFetch(2)\n",
		"b.ts": "legacyFetch(3)\n",
		"c.md": "legacyFetch(4)\n",
	})

	rule, err := w.r.Add(context.Background(), AddOptions{Pattern: "legacyFetch(", Glob: "**/*.ts"}, []string{w.root})
	require.NoError(t, err)
	assert.Equal(t, "legacyfetch", rule.ID)
	assert.Equal(t, 3, rule.MaxCount)
	assert.Equal(t, "3 remaining", rule.Message)

	f := w.load(t)
	require.Len(t, f.Rules, 1)
	assert.Equal(t, "legacyfetch", f.Rules[0].ID)
	assert.Equal(t, 3, *f.Rules[0].MaxCount)
	assert.Equal(t, "web", f.Baseline.Name)

	_, err = w.r.Add(context.Background(), AddOptions{Pattern: "legacyFetch("}, []string{w.root})
	assert.Equal(t, errors.RuleAlreadyExists, errors.CodeOf(err))
}

func TestRatchet_Down(t *testing.T) {
	cfg := `[[rule]]
id = "legacy"
type = "ratchet"
pattern = "legacy("
max_count = 5
message = "5 remaining"
`
	w := newWorkspace(t, cfg, map[string]string{"a.ts": "legacy(1)\nlegacy(2)\n"})

	oldMax, newMax, err := w.r.Down(context.Background(), "legacy", []string{w.root})
	require.NoError(t, err)
	assert.Equal(t, 5, oldMax)
	assert.Equal(t, 2, newMax)

	f := w.load(t)
	assert.Equal(t, 2, *f.Rules[0].MaxCount)
	assert.Equal(t, "2 remaining", f.Rules[0].Message)

	_, _, err = w.r.Down(context.Background(), "legacy", []string{w.root})
	assert.Equal(t, errors.NoDecrease, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "current count (2) has not decreased below max_count (2)")

	_, _, err = w.r.Down(context.Background(), "missing", []string{w.root})
	assert.Equal(t, errors.RuleNotFound, errors.CodeOf(err))
}

func TestRatchet_From(t *testing.T) {
	w := newWorkspace(t, "[[rule]]\nid = \"kept\"\ntype = \"ratchet\"\npattern = \"k\"\nmax_count = 1\n", nil)

	added, skipped, err := w.r.From(&engine.BaselineResult{Entries: []engine.BaselineEntry{
		{RuleID: "kept", Pattern: "k", Count: 9},
		{RuleID: "fresh", Pattern: "f(", Count: 4},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, skipped)
	require.Len(t, added, 1)

	f := w.load(t)
	require.Len(t, f.Rules, 2)
	assert.Equal(t, 1, *f.Rules[0].MaxCount)
	assert.Equal(t, "fresh", f.Rules[1].ID)
	assert.Equal(t, 4, *f.Rules[1].MaxCount)
	assert.Equal(t, "4 remaining", f.Rules[1].Message)
	assert.Empty(t, f.Rules[1].Glob)
}

func TestRatchet_MissingConfig(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "baseline.toml"), nil, nil)
	_, err := r.Add(context.Background(), AddOptions{Pattern: "x"}, nil)
	assert.Equal(t, errors.ConfigNotFound, errors.CodeOf(err))
}
