package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"baseline/internal/engine"
	"baseline/internal/rules"
)

// SARIF 2.1.0 schema types
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// SARIFReport is the top-level SARIF document.
type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool              SARIFTool               `json:"tool"`
	AutomationDetails *SARIFAutomationDetails `json:"automationDetails,omitempty"`
	Results           []SARIFResult           `json:"results"`
	Invocations       []SARIFInvocation       `json:"invocations,omitempty"`
}

// SARIFAutomationDetails identifies the run.
type SARIFAutomationDetails struct {
	GUID string `json:"guid,omitempty"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes the primary analysis component.
type SARIFDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version,omitempty"`
	InformationURI  string      `json:"informationUri,omitempty"`
	Rules           []SARIFRule `json:"rules,omitempty"`
	SemanticVersion string      `json:"semanticVersion,omitempty"`
}

// SARIFRule describes a rule that detected an issue.
type SARIFRule struct {
	ID                   string                  `json:"id"`
	ShortDescription     *SARIFMessage           `json:"shortDescription,omitempty"`
	Help                 *SARIFMessage           `json:"help,omitempty"`
	DefaultConfiguration *SARIFRuleConfiguration `json:"defaultConfiguration,omitempty"`
}

// SARIFRuleConfiguration describes the default configuration for a rule.
type SARIFRuleConfiguration struct {
	Level string `json:"level,omitempty"` // error, warning, note, none
}

// SARIFResult represents a single finding.
type SARIFResult struct {
	RuleID       string            `json:"ruleId"`
	RuleIndex    int               `json:"ruleIndex"`
	Level        string            `json:"level,omitempty"`
	Message      SARIFMessage      `json:"message"`
	Locations    []SARIFLocation   `json:"locations,omitempty"`
	Fingerprints map[string]string `json:"fingerprints,omitempty"`
	Fixes        []SARIFFix        `json:"fixes,omitempty"`
}

// SARIFMessage contains text in various formats.
type SARIFMessage struct {
	Text string `json:"text,omitempty"`
}

// SARIFLocation describes where a result was found.
type SARIFLocation struct {
	PhysicalLocation *SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
}

// SARIFPhysicalLocation identifies a file and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation *SARIFArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *SARIFRegion           `json:"region,omitempty"`
}

// SARIFArtifactLocation identifies a file.
type SARIFArtifactLocation struct {
	URI       string `json:"uri,omitempty"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

// SARIFRegion identifies a region within a file.
type SARIFRegion struct {
	StartLine   int           `json:"startLine,omitempty"`
	StartColumn int           `json:"startColumn,omitempty"`
	EndColumn   int           `json:"endColumn,omitempty"`
	Snippet     *SARIFMessage `json:"snippet,omitempty"`
}

// SARIFFix is a proposed replacement.
type SARIFFix struct {
	Description     SARIFMessage          `json:"description"`
	ArtifactChanges []SARIFArtifactChange `json:"artifactChanges"`
}

// SARIFArtifactChange replaces regions of one file.
type SARIFArtifactChange struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Replacements     []SARIFReplacement    `json:"replacements"`
}

// SARIFReplacement replaces one region.
type SARIFReplacement struct {
	DeletedRegion   SARIFRegion  `json:"deletedRegion"`
	InsertedContent SARIFMessage `json:"insertedContent"`
}

// SARIFInvocation describes a single invocation of the tool.
type SARIFInvocation struct {
	ExecutionSuccessful bool                   `json:"executionSuccessful"`
	WorkingDirectory    *SARIFArtifactLocation `json:"workingDirectory,omitempty"`
	Machine             string                 `json:"machine,omitempty"`
}

// BuildSARIF converts a scan result to a SARIF report.
func BuildSARIF(res *engine.Result, opts Options) *SARIFReport {
	// Build rules from violations (deduplicated, first-seen order)
	var sarifRules []SARIFRule
	ruleIndex := make(map[string]int)
	for _, v := range res.Violations {
		if _, exists := ruleIndex[v.RuleID]; exists {
			continue
		}
		rule := SARIFRule{
			ID:                   v.RuleID,
			ShortDescription:     &SARIFMessage{Text: v.Message},
			DefaultConfiguration: &SARIFRuleConfiguration{Level: sarifLevel(v.Severity)},
		}
		if v.Suggest != "" {
			rule.Help = &SARIFMessage{Text: v.Suggest}
		}
		ruleIndex[v.RuleID] = len(sarifRules)
		sarifRules = append(sarifRules, rule)
	}

	results := make([]SARIFResult, 0, len(res.Violations))
	for _, v := range res.Violations {
		uri := toRelativeURI(v.File, opts.RepoRoot)
		region := &SARIFRegion{StartLine: v.Line, StartColumn: v.Column}
		if v.SourceLine != "" {
			region.Snippet = &SARIFMessage{Text: v.SourceLine}
		}
		if v.Line == 0 {
			region = nil
		}

		r := SARIFResult{
			RuleID:    v.RuleID,
			RuleIndex: ruleIndex[v.RuleID],
			Level:     sarifLevel(v.Severity),
			Message:   SARIFMessage{Text: v.Message},
			Locations: []SARIFLocation{{
				PhysicalLocation: &SARIFPhysicalLocation{
					ArtifactLocation: &SARIFArtifactLocation{URI: uri, URIBaseID: "%SRCROOT%"},
					Region:           region,
				},
			}},
			Fingerprints: map[string]string{"baseline/v1": fingerprint(v)},
		}
		if v.Fix != nil && v.Line > 0 && v.Column > 0 {
			r.Fixes = []SARIFFix{{
				Description: SARIFMessage{Text: fmt.Sprintf("Replace '%s' with '%s'", v.Fix.Old, v.Fix.New)},
				ArtifactChanges: []SARIFArtifactChange{{
					ArtifactLocation: SARIFArtifactLocation{URI: uri, URIBaseID: "%SRCROOT%"},
					Replacements: []SARIFReplacement{{
						DeletedRegion:   SARIFRegion{StartLine: v.Line, StartColumn: v.Column, EndColumn: v.Column + len(v.Fix.Old)},
						InsertedContent: SARIFMessage{Text: v.Fix.New},
					}},
				}},
			}}
		}
		results = append(results, r)
	}

	run := SARIFRun{
		Tool: SARIFTool{
			Driver: SARIFDriver{
				Name:            "baseline",
				Version:         opts.Version,
				SemanticVersion: opts.Version,
				Rules:           sarifRules,
			},
		},
		Results: results,
		Invocations: []SARIFInvocation{{
			ExecutionSuccessful: true,
			Machine:             runtime.GOOS + "/" + runtime.GOARCH,
		}},
	}
	if res.RunID != "" {
		run.AutomationDetails = &SARIFAutomationDetails{GUID: res.RunID}
	}
	if opts.RepoRoot != "" {
		run.Invocations[0].WorkingDirectory = &SARIFArtifactLocation{URI: opts.RepoRoot}
	}

	return &SARIFReport{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs:    []SARIFRun{run},
	}
}

func writeSARIF(out io.Writer, res *engine.Result, opts Options) error {
	data, err := json.MarshalIndent(BuildSARIF(res, opts), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal SARIF: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func sarifLevel(s rules.Severity) string {
	if s == rules.SeverityError {
		return "error"
	}
	return "warning"
}

// fingerprint creates a stable fingerprint for deduplication.
func fingerprint(v rules.Violation) string {
	data := fmt.Sprintf("%s:%s:%s", filepath.ToSlash(v.File), v.RuleID, v.SourceLine)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])[:16]
}

// toRelativeURI converts a path to a forward-slash URI relative to base.
func toRelativeURI(path, base string) string {
	if base == "" {
		return filepath.ToSlash(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
