package artifact

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ariel-frischer/tracecheck/internal/header"
)

// Field rule identifiers reported by Normalize.
const (
	RuleMissingID     = "missing-id"
	RuleIDPrefix      = "id-prefix"
	RuleKindMismatch  = "kind-mismatch"
	RuleMissingIssue  = "missing-issue"
	RuleInvalidIssue  = "invalid-issue"
	RuleSpecParent    = "spec-parent"
	RuleMissingParent = "missing-parent"
)

// Header keys recognised by the normalizer. Everything else is ignored.
var (
	idKeys     = []string{"id"}
	kindKeys   = []string{"kind", "type"}
	issueKeys  = []string{"issue"}
	parentKeys = []string{"parentId", "parent_id", "parent"}
)

// FieldError is a present-but-invalid (or required-but-missing) header field.
type FieldError struct {
	Rule     string
	Field    string
	Line     int
	Message  string
	Expected string
	Actual   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Normalize turns a parsed header into a Record for the kind implied by the
// document's collection. All field problems are collected; the record is
// returned only when there are none. The declared id (possibly invalid) is
// always returned so duplicate detection can see it.
func Normalize(expected Kind, path string, h *header.Header) (*Record, string, []*FieldError) {
	n := &normalizer{expected: expected, h: h}

	rec := &Record{Kind: expected, SourcePath: path}
	rec.ID = n.id()
	n.kind()
	rec.Issue = n.issue()
	rec.ParentID = n.parent()

	if len(n.errs) > 0 {
		return nil, n.declared, n.errs
	}
	return rec, n.declared, nil
}

type normalizer struct {
	expected Kind
	h        *header.Header
	declared string
	errs     []*FieldError
}

func (n *normalizer) add(rule, field string, e FieldError) {
	e.Rule = rule
	e.Field = field
	e.Line = n.h.Line(field)
	n.errs = append(n.errs, &e)
}

// scalar looks up the first matching key, reporting non-scalar values.
func (n *normalizer) scalar(rule string, keys []string) (value, key string, ok bool) {
	value, key, ok = n.h.Lookup(keys...)
	if ok && n.h.Complex[key] {
		n.add(rule, key, FieldError{
			Message:  fmt.Sprintf("%s must be a single value, not a list or mapping", key),
			Expected: "scalar",
		})
		return "", key, false
	}
	return value, key, ok
}

func (n *normalizer) id() string {
	value, key, ok := n.scalar(RuleMissingID, idKeys)
	if key != "" && !ok {
		return ""
	}
	if value == "" {
		n.add(RuleMissingID, "id", FieldError{
			Message:  "id is required",
			Expected: n.expected.Prefix() + "<n>",
		})
		return ""
	}
	n.declared = value

	want := n.expected.Prefix()
	if !strings.HasPrefix(value, want) {
		n.add(RuleIDPrefix, key, FieldError{
			Message: fmt.Sprintf("id %q in %s collection must start with %q, found prefix %q",
				value, n.expected.Collection(), want, PrefixOf(value)),
			Expected: want,
			Actual:   PrefixOf(value),
		})
		return value
	}
	if strings.TrimSpace(value[len(want):]) == "" {
		n.add(RuleIDPrefix, key, FieldError{
			Message:  fmt.Sprintf("id %q has nothing after the %q prefix", value, want),
			Expected: want + "<n>",
			Actual:   value,
		})
	}
	return value
}

// kind checks a self-reported kind; absence is accepted.
func (n *normalizer) kind() {
	value, key, ok := n.scalar(RuleKindMismatch, kindKeys)
	if !ok || value == "" {
		return
	}
	got, err := ParseKind(value)
	if err != nil || got != n.expected {
		n.add(RuleKindMismatch, key, FieldError{
			Message: fmt.Sprintf("%s %q does not match the %s collection (expected %s)",
				key, value, n.expected.Collection(), n.expected),
			Expected: n.expected.String(),
			Actual:   value,
		})
	}
}

func (n *normalizer) issue() int {
	value, key, ok := n.scalar(RuleInvalidIssue, issueKeys)
	if key != "" && !ok {
		return 0
	}
	if value == "" {
		n.add(RuleMissingIssue, "issue", FieldError{
			Message:  "issue is required",
			Expected: "positive integer",
		})
		return 0
	}

	issue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		msg := fmt.Sprintf("issue %q is not a whole number", value)
		if errors.Is(err, strconv.ErrRange) {
			msg = fmt.Sprintf("issue %q is out of range", value)
		}
		n.add(RuleInvalidIssue, key, FieldError{
			Message:  msg,
			Expected: "positive integer",
			Actual:   value,
		})
		return 0
	}
	if issue <= 0 {
		n.add(RuleInvalidIssue, key, FieldError{
			Message:  fmt.Sprintf("issue %q must be a positive number", value),
			Expected: "positive integer",
			Actual:   value,
		})
		return 0
	}
	return issue
}

func (n *normalizer) parent() string {
	rule := RuleMissingParent
	if n.expected == Spec {
		rule = RuleSpecParent
	}
	value, key, ok := n.scalar(rule, parentKeys)
	if key != "" && !ok {
		return ""
	}

	if n.expected == Spec {
		if value != "" {
			n.add(RuleSpecParent, key, FieldError{
				Message:  fmt.Sprintf("specs must not declare a parent (found %q)", value),
				Expected: "no parent",
				Actual:   value,
			})
		}
		return ""
	}

	if value == "" {
		parentKind, _ := n.expected.Parent()
		n.add(RuleMissingParent, "parentId", FieldError{
			Message:  fmt.Sprintf("%s must have parentId referencing a %s", strings.ToLower(n.expected.String()), parentKind),
			Expected: parentKind.Prefix() + "<n>",
		})
		return ""
	}
	return value
}
