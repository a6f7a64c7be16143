package rules

import (
	"fmt"
	"os"
	"path/filepath"

	"baseline/internal/errors"
)

// FilePresenceRule checks that required files exist, and forbidden files do
// not, relative to the scan roots. It never inspects file contents; the engine
// calls CheckPaths once per scan.
type FilePresenceRule struct {
	base
	required  []string
	forbidden []string
}

// NewFilePresence builds a file-presence rule. At least one of
// required_files or forbidden_files is required.
func NewFilePresence(cfg Config) (*FilePresenceRule, error) {
	if len(cfg.RequiredFiles) == 0 && len(cfg.ForbiddenFiles) == 0 {
		return nil, errors.NewMissingField(cfg.ID, "required_files")
	}
	return &FilePresenceRule{
		base:      newBase(cfg, ""),
		required:  append([]string(nil), cfg.RequiredFiles...),
		forbidden: append([]string(nil), cfg.ForbiddenFiles...),
	}, nil
}

// FileGlob is always empty; presence rules are not matched against files.
func (r *FilePresenceRule) FileGlob() string { return "" }

// CheckFile implements Rule and reports nothing.
func (r *FilePresenceRule) CheckFile(*ScanContext) []Violation { return nil }

// CheckPaths reports one violation per required file missing from every root
// and one per forbidden file present under any root. A root that is a file is
// resolved relative to its parent directory.
func (r *FilePresenceRule) CheckPaths(roots []string) []Violation {
	var out []Violation
	for _, f := range r.required {
		found := false
		for _, root := range roots {
			if exists(filepath.Join(anchor(root), f)) {
				found = true
				break
			}
		}
		if found {
			continue
		}
		msg := fmt.Sprintf("Required file '%s' is missing", f)
		if r.message != "" {
			msg = fmt.Sprintf("%s: '%s'", r.message, f)
		}
		out = append(out, r.fileViolation(f, msg))
	}

	for _, f := range r.forbidden {
		for _, root := range roots {
			p := filepath.Join(anchor(root), f)
			if !exists(p) {
				continue
			}
			msg := fmt.Sprintf("Forbidden file '%s' is present", f)
			if r.message != "" {
				msg = fmt.Sprintf("%s: '%s'", r.message, f)
			}
			out = append(out, r.fileViolation(p, msg))
			break
		}
	}
	return out
}

func (r *FilePresenceRule) fileViolation(file, msg string) Violation {
	return Violation{
		RuleID:   r.id,
		Severity: r.severity,
		File:     file,
		Message:  msg,
		Suggest:  r.suggest,
	}
}

func anchor(root string) string {
	info, err := os.Stat(root)
	if err == nil && !info.IsDir() {
		return filepath.Dir(root)
	}
	return root
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
