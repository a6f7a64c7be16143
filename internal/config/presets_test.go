package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"baseline/internal/errors"
	"baseline/internal/rules"
)

func TestAvailablePresets(t *testing.T) {
	assert.Equal(t, []string{"ai-safety", "react", "security", "shadcn-migrate", "shadcn-strict"}, AvailablePresets())
}

func TestPresets_Build(t *testing.T) {
	for _, name := range AvailablePresets() {
		t.Run(name, func(t *testing.T) {
			entries, err := PresetRules(name)
			require.NoError(t, err)
			require.NotEmpty(t, entries)

			seen := map[string]bool{}
			for _, e := range entries {
				assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
				seen[e.ID] = true
				_, err := rules.Build(e.Type, e.Spec().Config)
				assert.NoError(t, err, e.ID)
			}
		})
	}
}

func TestPresets_Sizes(t *testing.T) {
	tests := map[string]int{
		"shadcn-strict":  5,
		"shadcn-migrate": 2,
		"ai-safety":      3,
		"security":       10,
	}
	for name, want := range tests {
		entries, err := PresetRules(name)
		require.NoError(t, err)
		assert.Len(t, entries, want, name)
	}
}

func TestResolveRules_UnknownPreset(t *testing.T) {
	_, err := ResolveRules([]string{"security", "nope"}, nil)
	require.Error(t, err)
	assert.Equal(t, errors.UnknownPreset, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "unknown preset 'nope'")
	assert.Contains(t, err.Error(), "shadcn-strict")
}

func TestResolveRules_LaterPresetWins(t *testing.T) {
	entries, err := ResolveRules([]string{"shadcn-strict", "shadcn-migrate"}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, "use-theme-tokens", entries[1].ID)
	assert.Equal(t, "warning", entries[1].Severity)
}

func TestResolveRules_UserOverride(t *testing.T) {
	user := []RuleEntry{
		{ID: "no-eval", Type: "banned-pattern", Severity: "warning", Pattern: "eval("},
		{ID: "extra", Type: "ratchet", Pattern: "x"},
	}
	entries, err := ResolveRules([]string{"security"}, user)
	require.NoError(t, err)
	require.Len(t, entries, 11)
	assert.Equal(t, "no-env-files", entries[0].ID)
	assert.Equal(t, "no-eval", entries[2].ID)
	assert.Equal(t, "warning", entries[2].Severity)
	assert.False(t, entries[2].Regex)
	assert.Equal(t, "extra", entries[10].ID)
}

func TestResolveRules_NoExtends(t *testing.T) {
	user := []RuleEntry{{ID: "a", Type: "ratchet"}}
	entries, err := ResolveRules(nil, user)
	require.NoError(t, err)
	assert.Equal(t, user, entries)
}

func TestMergeRules(t *testing.T) {
	base := []RuleEntry{{ID: "a", Pattern: "1"}, {ID: "b", Pattern: "1"}}
	over := []RuleEntry{{ID: "b", Pattern: "2"}, {ID: "c", Pattern: "2"}, {ID: "c", Pattern: "3"}}

	got := mergeRules(base, over)
	require.Len(t, got, 3)
	assert.Equal(t, "1", got[0].Pattern)
	assert.Equal(t, "2", got[1].Pattern)
	assert.Equal(t, "3", got[2].Pattern)
	assert.Equal(t, "1", base[1].Pattern)
}
