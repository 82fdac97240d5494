package validation

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/tracecheck/internal/artifact"
	"github.com/ariel-frischer/tracecheck/internal/graph"
)

// Category is the error taxonomy: where in the pipeline a problem was found.
type Category int

const (
	CategoryRead Category = iota + 1
	CategoryParse
	CategoryField
	CategoryGraph
)

func (c Category) String() string {
	switch c {
	case CategoryRead:
		return "read"
	case CategoryParse:
		return "parse"
	case CategoryField:
		return "field"
	case CategoryGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Rule identifiers for read, parse and graph errors. Field rules live in
// the artifact package next to the normalizer that emits them.
const (
	RuleReadError       = "read-error"
	RuleNoHeader        = "no-header"
	RuleUnterminated    = "unterminated-header"
	RuleMalformedHeader = "malformed-header"

	RuleDuplicateID      = "duplicate-id"
	RuleUnresolvedParent = "unresolved-parent"
	RuleInvalidParent    = "invalid-parent"
	RuleWrongParentKind  = "wrong-parent-kind"
	RuleCycle            = "cycle"
	RuleOrphanIssue      = "orphan-issue"
)

// graphRuleOrder fixes the order graph errors are reported in.
var graphRuleOrder = map[string]int{
	RuleDuplicateID:      1,
	RuleUnresolvedParent: 2,
	RuleInvalidParent:    3,
	RuleWrongParentKind:  4,
	RuleCycle:            5,
	RuleOrphanIssue:      6,
}

// ValidationError represents a single validation error with location and context.
type ValidationError struct {
	Category Category
	Rule     string        // Stable rule identifier (e.g., "unresolved-parent")
	Kind     artifact.Kind // Collection of the offending document, if any
	Path     string        // Source document, or collection root for root read errors
	Line     int           // 1-based line in Path, 0 when not applicable
	ID       string        // Offending artifact id, if known
	Issue    int           // Issue number for orphan-issue errors
	Field    string        // Header field for field errors
	Message  string        // Human-readable error description
	Expected string        // What was expected
	Actual   string        // What was found
	Hint     string        // Suggestion for fixing the error
}

// Error implements the error interface. The format is one CI log line:
// location, message and rule.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	switch {
	case e.Path != "":
		sb.WriteString(e.Path)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf(":%d", e.Line))
		}
		sb.WriteString(": ")
	case e.ID != "":
		sb.WriteString(fmt.Sprintf("%s: ", e.ID))
	}
	sb.WriteString(e.Message)
	sb.WriteString(fmt.Sprintf(" [%s]", e.Rule))
	return sb.String()
}

// FormatFull returns a detailed formatted error message.
func (e *ValidationError) FormatFull() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  Rule: %s (%s)\n", e.Rule, e.Category))
	if e.Path != "" {
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("  Path: %s, Line %d\n", e.Path, e.Line))
		} else {
			sb.WriteString(fmt.Sprintf("  Path: %s\n", e.Path))
		}
	}
	if e.ID != "" {
		sb.WriteString(fmt.Sprintf("  ID: %s\n", e.ID))
	}
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf("  Field: %s\n", e.Field))
	}

	sb.WriteString(fmt.Sprintf("  Error: %s\n", e.Message))

	if e.Expected != "" {
		sb.WriteString(fmt.Sprintf("  Expected: %s\n", e.Expected))
	}
	if e.Actual != "" {
		sb.WriteString(fmt.Sprintf("  Got: %s\n", e.Actual))
	}
	if e.Hint != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", e.Hint))
	}

	return sb.String()
}

// key identifies an error for deduplication.
func (e *ValidationError) key() string {
	return strings.Join([]string{
		e.Category.String(), e.Rule, e.Path, fmt.Sprint(e.Line), e.ID, e.Field, e.Message,
	}, "\x00")
}

// Result represents the complete outcome of one validation run.
type Result struct {
	Valid  bool               // True if every invariant holds
	Errors []*ValidationError // Deduplicated, deterministically ordered
	Counts graph.Counts       // Records per kind and distinct issues
	// Documents is the number of candidate files read, valid or not.
	Documents int
	// Missing lists collections whose root does not exist.
	Missing []artifact.Kind
	// Forest is the indexed record set the checks ran against.
	Forest *graph.Forest
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// AddError adds a validation error to the result.
func (r *Result) AddError(err *ValidationError) {
	r.Errors = append(r.Errors, err)
	r.Valid = false
}

// ErrorsByCategory returns the errors of one category, in report order.
func (r *Result) ErrorsByCategory(c Category) []*ValidationError {
	var out []*ValidationError
	for _, e := range r.Errors {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}
