package cli

import (
	"github.com/ariel-frischer/tracecheck/internal/cli/shared"
)

// Exit codes for the tracecheck CLI (re-exported from shared)
// These codes support CI/CD integration
const (
	// ExitSuccess indicates every traceability invariant holds
	ExitSuccess = shared.ExitSuccess

	// ExitValidationFailed indicates a violation, a structural failure,
	// or a configuration or argument error
	ExitValidationFailed = shared.ExitValidationFailed
)

// NewExitError creates a new exit error with the given code (re-exported from shared).
func NewExitError(code int) error {
	return shared.NewExitError(code)
}

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
