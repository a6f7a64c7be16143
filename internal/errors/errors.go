package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// UnknownRuleType indicates a rule entry names a type the factory does not know
	UnknownRuleType ErrorCode = "UNKNOWN_RULE_TYPE"
	// MissingField indicates a rule is missing a field its type requires
	MissingField ErrorCode = "MISSING_FIELD"
	// InvalidRegex indicates a rule pattern failed to compile
	InvalidRegex ErrorCode = "INVALID_REGEX"
	// InvalidGlob indicates a glob or exclude pattern failed to compile
	InvalidGlob ErrorCode = "INVALID_GLOB"
	// ConfigNotFound indicates the rule file does not exist
	ConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	// ConfigInvalid indicates the rule file could not be decoded
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// UnknownPreset indicates an extends entry names no known preset
	UnknownPreset ErrorCode = "UNKNOWN_PRESET"
	// RuleNotFound indicates a ratchet rule id is not present in the config
	RuleNotFound ErrorCode = "RULE_NOT_FOUND"
	// RuleAlreadyExists indicates a ratchet rule id is already taken
	RuleAlreadyExists ErrorCode = "RULE_ALREADY_EXISTS"
	// NoDecrease indicates a ratchet cannot be tightened
	NoDecrease ErrorCode = "NO_DECREASE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// BaselineError represents an error with a stable code, message, and suggestion
type BaselineError struct {
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
	cause      error       // Underlying error (not exported to JSON)
}

// New creates a new BaselineError
func New(code ErrorCode, message string, cause error) *BaselineError {
	return &BaselineError{
		Code:       code,
		Message:    message,
		Suggestion: suggestionFor(code),
		cause:      cause,
	}
}

// Error implements the error interface
func (e *BaselineError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *BaselineError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *BaselineError) WithDetails(details interface{}) *BaselineError {
	e.Details = details
	return e
}

// Is matches any BaselineError carrying the same code.
func (e *BaselineError) Is(target error) bool {
	t, ok := target.(*BaselineError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func suggestionFor(code ErrorCode) string {
	switch code {
	case ConfigNotFound:
		return "run 'baseline init' or pass --config"
	case UnknownPreset:
		return "see 'baseline presets' for the available names"
	case RuleNotFound:
		return "check the rule id in baseline.toml"
	case NoDecrease:
		return "fix more occurrences before tightening the budget"
	default:
		return ""
	}
}

// RuleError is returned when a rule cannot be constructed from its config.
// Construction fails eagerly so no file is ever scanned with a broken rule set.
type RuleError struct {
	Code     ErrorCode `json:"code"`
	RuleID   string    `json:"ruleId"`
	RuleType string    `json:"ruleType,omitempty"`
	Field    string    `json:"field,omitempty"`
	Pattern  string    `json:"pattern,omitempty"`
	cause    error
}

// NewUnknownRuleType creates an error for a rule type the factory cannot build.
func NewUnknownRuleType(ruleID, ruleType string) *RuleError {
	return &RuleError{Code: UnknownRuleType, RuleID: ruleID, RuleType: ruleType}
}

// NewMissingField creates an error for a rule that lacks a required field.
func NewMissingField(ruleID, field string) *RuleError {
	return &RuleError{Code: MissingField, RuleID: ruleID, Field: field}
}

// NewInvalidRegex creates an error for a pattern that failed to compile.
func NewInvalidRegex(ruleID, pattern string, cause error) *RuleError {
	return &RuleError{Code: InvalidRegex, RuleID: ruleID, Pattern: pattern, cause: cause}
}

// NewInvalidGlob creates an error for a glob that failed to compile.
func NewInvalidGlob(ruleID, pattern string, cause error) *RuleError {
	return &RuleError{Code: InvalidGlob, RuleID: ruleID, Pattern: pattern, cause: cause}
}

// Error implements the error interface
func (e *RuleError) Error() string {
	switch e.Code {
	case UnknownRuleType:
		return fmt.Sprintf("unknown rule type: '%s'", e.RuleType)
	case MissingField:
		return fmt.Sprintf("rule '%s': missing required field '%s'", e.RuleID, e.Field)
	case InvalidRegex:
		return fmt.Sprintf("rule '%s': invalid regex: %v", e.RuleID, e.cause)
	case InvalidGlob:
		return fmt.Sprintf("rule '%s': invalid glob '%s': %v", e.RuleID, e.Pattern, e.cause)
	default:
		return fmt.Sprintf("rule '%s': %s", e.RuleID, e.Code)
	}
}

// Unwrap returns the underlying error
func (e *RuleError) Unwrap() error {
	return e.cause
}

// Is matches any RuleError carrying the same code.
func (e *RuleError) Is(target error) bool {
	t, ok := target.(*RuleError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf extracts the error code from err, or InternalError when err carries none.
func CodeOf(err error) ErrorCode {
	for err != nil {
		switch e := err.(type) {
		case *BaselineError:
			return e.Code
		case *RuleError:
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return InternalError
}
