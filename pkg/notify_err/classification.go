// pkg/notify_err/classification.go
//
// Error classification with integratord-compatible exit codes

package notify_err

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory classifies errors for appropriate handling
type ErrorCategory int

const (
	// CategorySystem - anything not classified below (exit 1)
	CategorySystem ErrorCategory = iota
	// CategoryArguments - wrong argument vector (exit 2)
	CategoryArguments
	// CategoryInputMissing - alert or options file not found (exit 3)
	CategoryInputMissing
	// CategoryInputMalformed - alert or options file is not usable JSON (exit 4)
	CategoryInputMalformed
	// CategoryEmptyMessage - generated payload serialized to nothing (exit 1)
	CategoryEmptyMessage
	// CategoryNetwork - webhook unreachable (exit 1)
	CategoryNetwork
	// CategoryValidation - operator supplied values that failed validation (exit 1)
	CategoryValidation
)

// Exit codes understood by integratord.
const (
	ExitSuccess        = 0
	ExitFailure        = 1
	ExitBadArguments   = 2
	ExitInputMissing   = 3
	ExitInputMalformed = 4
)

// ClassifiedError wraps an error with category and remediation info
type ClassifiedError struct {
	Category    ErrorCategory
	Message     string
	Cause       error
	Remediation []string
}

// Error implements the error interface
func (e *ClassifiedError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Message)

	if e.Cause != nil && e.Cause.Error() != e.Message {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	return sb.String()
}

// Unwrap returns the underlying error
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// Hint renders the remediation steps, or "" when there are none.
func (e *ClassifiedError) Hint() string {
	if len(e.Remediation) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("How to fix:")
	for i, step := range e.Remediation {
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, step))
	}
	return sb.String()
}

// ExitCode returns the appropriate exit code for this error category
func (e *ClassifiedError) ExitCode() int {
	switch e.Category {
	case CategoryArguments:
		return ExitBadArguments
	case CategoryInputMissing:
		return ExitInputMissing
	case CategoryInputMalformed:
		return ExitInputMalformed
	default:
		return ExitFailure
	}
}

// GetExitCode extracts exit code from any error
// Returns 0 for nil, the category code for classified errors, 1 for others
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.ExitCode()
	}

	return ExitFailure
}

// CategoryOf reports the category of err, or CategorySystem when unclassified.
func CategoryOf(err error) ErrorCategory {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return CategorySystem
}

// Is reports whether err carries the given category anywhere in its chain.
func Is(err error, category ErrorCategory) bool {
	return err != nil && CategoryOf(err) == category
}

// NewBadArgumentsError creates an error for an unusable argument vector
func NewBadArgumentsError(got int, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryArguments,
		Message:     fmt.Sprintf("Wrong arguments: expected at least 4, got %d", got),
		Remediation: remediation,
	}
}

// NewInputMissingError creates an error for an input file that does not exist
func NewInputMissingError(kind, path string, cause error) error {
	return &ClassifiedError{
		Category: CategoryInputMissing,
		Message:  fmt.Sprintf("%s file %s doesn't exist", kind, path),
		Cause:    cause,
		Remediation: []string{
			"Check the <integration> block in ossec.conf",
			"Verify integratord can read the file",
		},
	}
}

// NewInputMalformedError creates an error for an input file that is not valid JSON
func NewInputMalformedError(kind, path string, cause error) error {
	return &ClassifiedError{
		Category: CategoryInputMalformed,
		Message:  fmt.Sprintf("failed getting json %s from %s", kind, path),
		Cause:    cause,
		Remediation: []string{
			"Set <alert_format>json</alert_format> in the integration block",
		},
	}
}

// NewEmptyMessageError creates an error for a payload that serialized to nothing
func NewEmptyMessageError() error {
	return &ClassifiedError{
		Category: CategoryEmptyMessage,
		Message:  "ERR - Empty message",
	}
}

// NewNetworkError creates an error for webhook transport failures
func NewNetworkError(message string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryNetwork,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewValidationError creates an error for operator input validation failures
func NewValidationError(message string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryValidation,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	}
}
