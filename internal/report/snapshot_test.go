package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"baseline/internal/engine"
)

func TestBaselineSnapshot(t *testing.T) {
	want := &engine.BaselineResult{
		Entries: []engine.BaselineEntry{
			{RuleID: "legacy-fetch", Pattern: "legacyFetch(", Count: 12},
			{RuleID: "any", Pattern: ": any", Count: 0},
		},
		FilesScanned: 40,
	}

	for _, name := range []string{"baseline.json", "baseline.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".baseline", name)
			require.NoError(t, WriteBaseline(path, want))

			got, err := ReadBaseline(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestBaselineSnapshot_Compressed(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "b.json")
	packed := filepath.Join(dir, "b.json.zst")
	b := &engine.BaselineResult{Entries: []engine.BaselineEntry{{RuleID: "x", Pattern: "y", Count: 1}}}
	require.NoError(t, WriteBaseline(plain, b))
	require.NoError(t, WriteBaseline(packed, b))

	raw, err := os.ReadFile(packed)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, raw[:4], "zstd magic")
}

func TestReadBaseline_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadBaseline(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = ReadBaseline(bad)
	assert.ErrorContains(t, err, "failed to parse baseline JSON")

	corrupt := filepath.Join(dir, "bad.json.zst")
	require.NoError(t, os.WriteFile(corrupt, []byte("not zstd"), 0o644))
	_, err = ReadBaseline(corrupt)
	assert.Error(t, err)
}
