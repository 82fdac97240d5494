// Package errors provides categorized CLI errors that carry usage text and
// remediation steps, plus helpers to format and print them.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies a CLI error for its heading.
type ErrorCategory int

const (
	// Argument errors come from invalid flags or arguments.
	Argument ErrorCategory = iota
	// Configuration errors come from config files or environment values.
	Configuration
	// Prerequisite errors mean the environment is not ready for a run.
	Prerequisite
	// Runtime errors happen while a run is in progress.
	Runtime
)

// String returns the heading shown for the category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is an error with a category, optional usage line and the steps
// a user can take to fix it.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Usage       string
	Remediation []string
	Err         error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewArgumentError creates an Argument error.
func NewArgumentError(msg string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: msg, Remediation: remediation}
}

// NewArgumentErrorWithUsage creates an Argument error with a usage line.
func NewArgumentErrorWithUsage(msg, usage string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: msg, Usage: usage, Remediation: remediation}
}

// NewConfigError creates a Configuration error.
func NewConfigError(msg string, remediation ...string) *CLIError {
	return &CLIError{Category: Configuration, Message: msg, Remediation: remediation}
}

// NewPrerequisiteError creates a Prerequisite error.
func NewPrerequisiteError(msg string, remediation ...string) *CLIError {
	return &CLIError{Category: Prerequisite, Message: msg, Remediation: remediation}
}

// NewRuntimeError creates a Runtime error.
func NewRuntimeError(msg string, remediation ...string) *CLIError {
	return &CLIError{Category: Runtime, Message: msg, Remediation: remediation}
}

// Wrap converts err into a CLIError of the given category, keeping its
// message. It returns nil for a nil error.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation, Err: err}
}

// WrapWithMessage is like Wrap but prefixes the message with msg.
func WrapWithMessage(err error, category ErrorCategory, msg string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %s", msg, err.Error()),
		Remediation: remediation,
		Err:         err,
	}
}

// IsCLIError reports whether err is or wraps a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError returns the CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
