// Package report renders a validation result for people (text) and for
// machines (JSON) and maps it to the process exit status.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ariel-frischer/tracecheck/internal/artifact"
	"github.com/ariel-frischer/tracecheck/internal/progress"
	"github.com/ariel-frischer/tracecheck/internal/validation"
	"github.com/fatih/color"
)

// Exit statuses. No other codes are used.
const (
	ExitValid   = 0
	ExitInvalid = 1
)

// Summary holds the counts printed with every report.
type Summary struct {
	Specs     int `json:"specs"`
	Plans     int `json:"plans"`
	Tasks     int `json:"tasks"`
	Issues    int `json:"issues"`
	Documents int `json:"documents"`
}

// SummaryOf extracts the report counts from a result.
func SummaryOf(r *validation.Result) Summary {
	return Summary{
		Specs:     r.Counts.Specs,
		Plans:     r.Counts.Plans,
		Tasks:     r.Counts.Tasks,
		Issues:    r.Counts.Issues,
		Documents: r.Documents,
	}
}

// ExitCode returns ExitValid when every invariant holds, ExitInvalid otherwise.
func ExitCode(r *validation.Result) int {
	if r == nil || !r.Valid {
		return ExitInvalid
	}
	return ExitValid
}

// Options controls text rendering.
type Options struct {
	Color   bool
	Symbols progress.ProgressSymbols
	// Verbose adds expected/got/hint detail under each error line.
	Verbose bool
}

// Text writes the summary to out and, on failure, every error line to
// errOut followed by a failure line.
func Text(out, errOut io.Writer, r *validation.Result, opts Options) {
	if opts.Symbols.Checkmark == "" {
		opts.Symbols = progress.SelectSymbols(progress.TerminalCapabilities{})
	}
	green := painter(opts.Color, color.FgGreen)
	red := painter(opts.Color, color.FgRed)
	yellow := painter(opts.Color, color.FgYellow)
	bold := painter(opts.Color, color.Bold)

	s := SummaryOf(r)
	fmt.Fprintf(out, "%s\n", bold("Traceability summary:"))
	fmt.Fprintf(out, "  specs:     %d\n", s.Specs)
	fmt.Fprintf(out, "  plans:     %d\n", s.Plans)
	fmt.Fprintf(out, "  tasks:     %d\n", s.Tasks)
	fmt.Fprintf(out, "  issues:    %d\n", s.Issues)
	fmt.Fprintf(out, "  documents: %d\n", s.Documents)
	if len(r.Missing) > 0 {
		fmt.Fprintf(out, "  not found: %s\n", collections(r.Missing))
	}

	if r.Valid {
		fmt.Fprintf(out, "%s all traceability invariants hold\n", green(opts.Symbols.Checkmark))
		return
	}

	fmt.Fprintln(errOut)
	for _, e := range r.Errors {
		fmt.Fprintf(errOut, "%s\n", e.Error())
		if !opts.Verbose {
			continue
		}
		if e.Expected != "" {
			fmt.Fprintf(errOut, "    Expected: %s\n", e.Expected)
		}
		if e.Actual != "" {
			fmt.Fprintf(errOut, "    Got: %s\n", e.Actual)
		}
		if e.Hint != "" {
			fmt.Fprintf(errOut, "    %s %s\n", yellow("Hint:"), e.Hint)
		}
	}
	fmt.Fprintf(errOut, "\n%s traceability check failed: %d error(s)\n", red(opts.Symbols.Failure), len(r.Errors))
}

type jsonReport struct {
	Valid   bool        `json:"valid"`
	Summary Summary     `json:"summary"`
	Missing []string    `json:"missing,omitempty"`
	Errors  []jsonError `json:"errors"`
}

type jsonError struct {
	Category string `json:"category"`
	Rule     string `json:"rule"`
	Path     string `json:"path,omitempty"`
	Line     int    `json:"line,omitempty"`
	ID       string `json:"id,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Hint     string `json:"hint,omitempty"`
}

// JSON writes the result as one indented JSON object.
func JSON(out io.Writer, r *validation.Result) error {
	report := jsonReport{
		Valid:   r.Valid,
		Summary: SummaryOf(r),
		Errors:  make([]jsonError, 0, len(r.Errors)),
	}
	for _, k := range r.Missing {
		report.Missing = append(report.Missing, k.Collection())
	}
	for _, e := range r.Errors {
		report.Errors = append(report.Errors, jsonError{
			Category: e.Category.String(),
			Rule:     e.Rule,
			Path:     e.Path,
			Line:     e.Line,
			ID:       e.ID,
			Field:    e.Field,
			Message:  e.Message,
			Expected: e.Expected,
			Actual:   e.Actual,
			Hint:     e.Hint,
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// painter returns a colour function that honours enabled regardless of the
// package-level color.NoColor detection.
func painter(enabled bool, attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func collections(kinds []artifact.Kind) string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.Collection())
	}
	return strings.Join(names, ", ")
}
