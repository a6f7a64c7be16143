package version

import (
	"runtime"
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = v, c, d })
	Version, Commit, BuildDate = version, commit, date
}

func TestShort(t *testing.T) {
	tests := []struct {
		name   string
		commit string
		want   string
	}{
		{"unstamped", "unknown", "1.0.0"},
		{"short hash", "abc", "1.0.0"},
		{"exactly seven", "1234567", "1.0.0"},
		{"full hash", "abc1234567890", "1.0.0 (abc1234)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stamp(t, "1.0.0", tt.commit, "unknown")
			if got := Short(); got != tt.want {
				t.Errorf("Short() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	stamp(t, "1.2.3", "abcdef123456", "2024-01-15")

	got := Full("tree-sitter")
	for _, part := range []string{
		"baseline version 1.2.3",
		"Commit: abcdef123456",
		"Built: 2024-01-15",
		"Go: " + runtime.Version(),
		"Parser: tree-sitter",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("Full() = %q, want to contain %q", got, part)
		}
	}
}

func TestVersionIsSemver(t *testing.T) {
	if parts := strings.Split(Version, "."); len(parts) != 3 {
		t.Errorf("Version %q doesn't appear to be semver", Version)
	}
}
