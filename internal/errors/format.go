package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// FormatError renders a CLIError with coloured heading, usage and
// remediation. Colour follows color.NoColor.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	return format(err, red, cyan, yellow)
}

// FormatErrorPlain renders a CLIError without ANSI colour codes.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	plain := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return format(err, plain, plain, plain)
}

func format(err *CLIError, heading, usage, fix func(a ...interface{}) string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s\n", heading(err.Category.String()), err.Message))

	if err.Usage != "" {
		sb.WriteString(fmt.Sprintf("\n%s %s\n", usage("Usage:"), err.Usage))
	}

	if len(err.Remediation) > 0 {
		sb.WriteString(fmt.Sprintf("\n%s\n", fix("To fix this:")))
		for _, step := range err.Remediation {
			sb.WriteString(fmt.Sprintf("  - %s\n", step))
		}
	}
	return sb.String()
}

// FormatSimpleError formats any error under the given category heading.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return FormatError(cliErr)
	}
	return FormatError(&CLIError{Category: category, Message: err.Error()})
}

// PrintError writes a formatted CLIError to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError writes a formatted CLIError to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
