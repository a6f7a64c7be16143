package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"baseline/internal/errors"
	"baseline/internal/rules"
)

// DefaultConfigFile is the rule file looked up when none is given.
const DefaultConfigFile = "baseline.toml"

// File is a parsed rule file.
type File struct {
	Baseline Section     `toml:"baseline" yaml:"baseline"`
	Rules    []RuleEntry `toml:"rule" yaml:"rule"`

	// path is the file the config was loaded from; plugins resolve against its directory.
	path string
}

// Section is the [baseline] table.
type Section struct {
	Name    string         `toml:"name" yaml:"name"`
	Include []string       `toml:"include" yaml:"include"`
	Exclude []string       `toml:"exclude" yaml:"exclude"`
	Extends []string       `toml:"extends" yaml:"extends"`
	Plugins []string       `toml:"plugins" yaml:"plugins"`
	Scoped  []ScopedPreset `toml:"scoped" yaml:"scoped"`
}

// ScopedPreset applies a preset to files under Path only.
type ScopedPreset struct {
	Preset       string   `toml:"preset" yaml:"preset"`
	Path         string   `toml:"path" yaml:"path"`
	ExcludeRules []string `toml:"exclude_rules" yaml:"exclude_rules"`
}

// RuleEntry is one [[rule]] table.
type RuleEntry struct {
	ID               string   `toml:"id" yaml:"id"`
	Type             string   `toml:"type" yaml:"type"`
	Severity         string   `toml:"severity,omitempty" yaml:"severity,omitempty"`
	Glob             string   `toml:"glob,omitempty" yaml:"glob,omitempty"`
	Message          string   `toml:"message,omitempty" yaml:"message,omitempty"`
	Suggest          string   `toml:"suggest,omitempty" yaml:"suggest,omitempty"`
	AllowedClasses   []string `toml:"allowed_classes,omitempty" yaml:"allowed_classes,omitempty"`
	TokenMap         []string `toml:"token_map,omitempty" yaml:"token_map,omitempty"`
	Pattern          string   `toml:"pattern,omitempty" yaml:"pattern,omitempty"`
	MaxCount         *int     `toml:"max_count,omitempty" yaml:"max_count,omitempty"`
	Packages         []string `toml:"packages,omitempty" yaml:"packages,omitempty"`
	Regex            bool     `toml:"regex,omitempty" yaml:"regex,omitempty"`
	Manifest         string   `toml:"manifest,omitempty" yaml:"manifest,omitempty"`
	ExcludeGlob      []string `toml:"exclude_glob,omitempty" yaml:"exclude_glob,omitempty"`
	FileContains     string   `toml:"file_contains,omitempty" yaml:"file_contains,omitempty"`
	FileNotContains  string   `toml:"file_not_contains,omitempty" yaml:"file_not_contains,omitempty"`
	RequiredFiles    []string `toml:"required_files,omitempty" yaml:"required_files,omitempty"`
	ForbiddenFiles   []string `toml:"forbidden_files,omitempty" yaml:"forbidden_files,omitempty"`
	ConditionPattern string   `toml:"condition_pattern,omitempty" yaml:"condition_pattern,omitempty"`
	SkipStrings      bool     `toml:"skip_strings,omitempty" yaml:"skip_strings,omitempty"`
}

// Spec converts the entry into a rule spec. A missing severity is a warning.
func (e RuleEntry) Spec() rules.Spec {
	return rules.Spec{
		Type: e.Type,
		Config: rules.Config{
			ID:               e.ID,
			Severity:         rules.ParseSeverity(e.Severity),
			Message:          e.Message,
			Suggest:          e.Suggest,
			Glob:             e.Glob,
			ExcludeGlob:      e.ExcludeGlob,
			Pattern:          e.Pattern,
			ConditionPattern: e.ConditionPattern,
			MaxCount:         e.MaxCount,
			Regex:            e.Regex,
			SkipStrings:      e.SkipStrings,
			AllowedClasses:   e.AllowedClasses,
			TokenMap:         e.TokenMap,
			Packages:         e.Packages,
			Manifest:         e.Manifest,
			RequiredFiles:    e.RequiredFiles,
			ForbiddenFiles:   e.ForbiddenFiles,
			FileContains:     e.FileContains,
			FileNotContains:  e.FileNotContains,
		},
	}
}

// Load reads a rule file. The format follows the extension: .yaml and .yml
// are YAML, anything else is TOML.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ConfigNotFound, fmt.Sprintf("config file not found: %s", path), err)
		}
		return nil, errors.New(errors.ConfigInvalid, fmt.Sprintf("reading %s", path), err)
	}
	f, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid, fmt.Sprintf("parsing %s", path), err)
	}
	f.path = path
	return f, nil
}

// Format is a rule file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Parse decodes a rule file and checks that every rule has an id and a type.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	}
	for i, r := range f.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rule #%d: missing 'id'", i+1)
		}
		if r.Type == "" {
			return nil, fmt.Errorf("rule '%s': missing 'type'", r.ID)
		}
	}
	return &f, nil
}

// Dir is the directory the file was loaded from, or "." for parsed input.
func (f *File) Dir() string {
	if f.path == "" {
		return "."
	}
	return filepath.Dir(f.path)
}

// Path is the file the config was loaded from.
func (f *File) Path() string { return f.path }

// Resolve flattens the file into the rule list the engine runs: preset
// rules from extends, then plugin rules, then the file's own rules, each
// layer replacing rules of the same id from the layers before it. Scoped
// presets are appended last with their globs limited to the scope path.
func (f *File) Resolve() ([]RuleEntry, error) {
	resolved, err := ResolveRules(f.Baseline.Extends, nil)
	if err != nil {
		return nil, err
	}

	for _, p := range f.Baseline.Plugins {
		if !filepath.IsAbs(p) {
			p = filepath.Join(f.Dir(), p)
		}
		plugin, err := Load(p)
		if err != nil {
			return nil, err
		}
		resolved = mergeRules(resolved, plugin.Rules)
	}
	resolved = mergeRules(resolved, f.Rules)

	for _, sc := range f.Baseline.Scoped {
		scoped, err := scopedRules(sc)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, scoped...)
	}
	return resolved, nil
}

// Specs resolves the file and converts every rule into a spec.
func (f *File) Specs() ([]rules.Spec, error) {
	entries, err := f.Resolve()
	if err != nil {
		return nil, err
	}
	specs := make([]rules.Spec, len(entries))
	for i, e := range entries {
		specs[i] = e.Spec()
	}
	return specs, nil
}

func scopedRules(sc ScopedPreset) ([]RuleEntry, error) {
	preset, err := ResolveRules([]string{sc.Preset}, nil)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]bool, len(sc.ExcludeRules))
	for _, id := range sc.ExcludeRules {
		skip[id] = true
	}
	base := strings.TrimSuffix(filepath.ToSlash(sc.Path), "/")

	var out []RuleEntry
	for _, r := range preset {
		if skip[r.ID] {
			continue
		}
		glob := r.Glob
		if glob == "" {
			glob = "**/*"
		}
		if !strings.HasPrefix(glob, "**/") {
			glob = "**/" + glob
		}
		r.Glob = base + "/" + glob
		out = append(out, r)
	}
	return out, nil
}
