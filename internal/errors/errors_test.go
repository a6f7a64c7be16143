package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("underlying error")

	err := New(ConfigInvalid, "failed to parse baseline.toml", cause)

	if err.Code != ConfigInvalid {
		t.Errorf("Code = %v, want %v", err.Code, ConfigInvalid)
	}
	if err.Message != "failed to parse baseline.toml" {
		t.Errorf("Message = %q, want %q", err.Message, "failed to parse baseline.toml")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestBaselineError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      ConfigNotFound,
			message:   "no config at baseline.toml",
			cause:     errors.New("file does not exist"),
			wantParts: []string{"CONFIG_NOT_FOUND", "no config at baseline.toml", "file does not exist"},
		},
		{
			name:      "without cause",
			code:      RuleNotFound,
			message:   "no ratchet rule found with id 'legacy'",
			cause:     nil,
			wantParts: []string{"RULE_NOT_FOUND", "no ratchet rule found with id 'legacy'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.code, tt.message, tt.cause).Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestBaselineError_Suggestion(t *testing.T) {
	if got := New(UnknownPreset, "unknown preset 'x'", nil).Suggestion; got == "" {
		t.Error("Suggestion for UNKNOWN_PRESET is empty")
	}
	if got := New(InternalError, "boom", nil).Suggestion; got != "" {
		t.Errorf("Suggestion for INTERNAL_ERROR = %q, want empty", got)
	}
}

func TestRuleError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *RuleError
		want string
	}{
		{
			name: "unknown type",
			err:  NewUnknownRuleType("r1", "no-such-rule"),
			want: "unknown rule type: 'no-such-rule'",
		},
		{
			name: "missing field",
			err:  NewMissingField("r1", "pattern"),
			want: "rule 'r1': missing required field 'pattern'",
		},
		{
			name: "invalid regex",
			err:  NewInvalidRegex("r1", "(", errors.New("missing closing )")),
			want: "rule 'r1': invalid regex: missing closing )",
		},
		{
			name: "invalid glob",
			err:  NewInvalidGlob("r1", "[", errors.New("syntax error in pattern")),
			want: "rule 'r1': invalid glob '[': syntax error in pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRuleError_Is(t *testing.T) {
	err := fmt.Errorf("building rules: %w", NewMissingField("r1", "max_count"))

	if !errors.Is(err, &RuleError{Code: MissingField}) {
		t.Error("errors.Is did not match MissingField through wrapping")
	}
	if errors.Is(err, &RuleError{Code: InvalidRegex}) {
		t.Error("errors.Is matched a different code")
	}

	var re *RuleError
	if !errors.As(err, &re) {
		t.Fatal("errors.As did not find *RuleError")
	}
	if re.Field != "max_count" {
		t.Errorf("Field = %q, want %q", re.Field, "max_count")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, InternalError},
		{"plain", errors.New("x"), InternalError},
		{"baseline error", New(NoDecrease, "x", nil), NoDecrease},
		{"wrapped rule error", fmt.Errorf("ctx: %w", NewUnknownRuleType("a", "b")), UnknownRuleType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}
