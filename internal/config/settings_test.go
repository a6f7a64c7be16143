package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 1, s.Version)
	assert.Equal(t, "baseline.toml", s.Config)
	assert.Equal(t, "pretty", s.Format)
	assert.NoError(t, s.Validate())
}

func TestLoadSettings_Missing(t *testing.T) {
	s, err := LoadSettings(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, filepath.Join(".baseline", "baseline.json"), s.Baseline)
}

func TestLoadSettings_SaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	s := DefaultSettings()
	s.Format = "json"
	s.Workers = 3
	require.NoError(t, s.Save(root))

	got, err := LoadSettings(root)
	require.NoError(t, err)
	assert.Equal(t, "json", got.Format)
	assert.Equal(t, 3, got.Workers)
}

func TestLoadSettings_Env(t *testing.T) {
	t.Setenv("BASELINE_FORMAT", "sarif")
	t.Setenv("BASELINE_LOG_LEVEL", "debug")

	s, err := LoadSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "sarif", s.Format)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadSettings_Invalid(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, SettingsDir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`{"version": 1, "format": "xml"}`), 0644))

	_, err := LoadSettings(root)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "format", cfgErr.Field)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"bad version", func(s *Settings) { s.Version = 2 }, "version"},
		{"negative workers", func(s *Settings) { s.Workers = -1 }, "workers"},
		{"unknown format", func(s *Settings) { s.Format = "xml" }, "format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantErr, cfgErr.Field)
		})
	}
}
