package errors

import (
	"fmt"
	"strings"
)

// ConfigFileNotFound is returned when an explicitly requested config file
// does not exist.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Check the path passed to --config",
		"Omit --config to use .tracecheck.json in the current directory",
	)
}

// ConfigParseError is returned when a config file cannot be loaded or fails
// validation.
func ConfigParseError(path string, err error) *CLIError {
	cliErr := WrapWithMessage(err, Configuration, fmt.Sprintf("failed to load config %s", path),
		"Check the file is valid JSON",
		"Check TRACECHECK_* environment variables for invalid values",
		"Run 'tracecheck --help' to see the accepted settings",
	)
	return cliErr
}

// InvalidFormat is returned for an unknown --format value.
func InvalidFormat(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown output format %q", value),
		"tracecheck --format text|json",
		"Use 'text' for CI logs or 'json' for machine-readable output",
	)
}

// UnexpectedArguments is returned when positional arguments are given to a
// command that takes none.
func UnexpectedArguments(command string, args []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("%s takes no arguments, got %q", command, strings.Join(args, " ")),
		fmt.Sprintf("%s [--specs-dir DIR] [--plans-dir DIR] [--tasks-dir DIR]", command),
		"Pass collection directories with the --specs-dir, --plans-dir and --tasks-dir flags",
	)
}

// NoAccessibleRoots is returned when none of the collection roots can be read.
func NoAccessibleRoots(err error) *CLIError {
	return WrapWithMessage(err, Prerequisite, "no collection directory could be read",
		"Check the directories exist and are readable by the current user",
		"Point --specs-dir, --plans-dir and --tasks-dir at the right locations",
	)
}

// ValidationAborted is returned when a run stops before the checks complete.
func ValidationAborted(err error) *CLIError {
	return WrapWithMessage(err, Runtime, "validation did not complete")
}

// ReportWriteError is returned when the report cannot be written.
func ReportWriteError(err error) *CLIError {
	return WrapWithMessage(err, Runtime, "failed to write report",
		"Check that stdout is writable",
	)
}
