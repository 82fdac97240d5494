// Package artifact defines the canonical record model for traceability
// documents (specs, plans, tasks) and the normalizer that turns a parsed
// header block into a typed Record.
package artifact

import (
	"fmt"
	"strings"
)

// Kind is the closed set of artifact classes. The zero value is not a valid kind.
type Kind int

const (
	// Spec is an approved specification; specs are forest roots.
	Spec Kind = iota + 1
	// Plan is an implementation plan; its parent must be a Spec.
	Plan
	// Task is a unit of planned work; its parent must be a Plan.
	Task
)

// Kinds lists every valid kind in pipeline order.
var Kinds = []Kind{Spec, Plan, Task}

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case Spec:
		return "Spec"
	case Plan:
		return "Plan"
	case Task:
		return "Task"
	default:
		return "Unknown"
	}
}

// Prefix returns the mandated id prefix for the kind.
func (k Kind) Prefix() string {
	switch k {
	case Spec:
		return "SPEC-"
	case Plan:
		return "PLAN-"
	case Task:
		return "TASK-"
	default:
		return ""
	}
}

// Collection returns the logical collection name documents of this kind live in.
func (k Kind) Collection() string {
	switch k {
	case Spec:
		return "specs"
	case Plan:
		return "plans"
	case Task:
		return "tasks"
	default:
		return ""
	}
}

// Parent returns the kind a record's parentId must resolve to.
// Specs have no parent and return ok=false.
func (k Kind) Parent() (Kind, bool) {
	switch k {
	case Plan:
		return Spec, true
	case Task:
		return Plan, true
	default:
		return 0, false
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= Spec && k <= Task
}

// MarshalText renders the kind in lower case for JSON reports.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid artifact kind %d", int(k))
	}
	return []byte(strings.ToLower(k.String())), nil
}

// ParseKind maps a self-reported kind/type value to a Kind.
// Matching is case-insensitive and accepts the collection name as an alias
// ("spec", "Spec", "specs").
func ParseKind(s string) (Kind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if v == strings.ToLower(k.String()) || v == k.Collection() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown artifact kind: %q", s)
}

// PrefixOf returns the prefix portion of an id: everything up to and
// including the first '-', or the whole id when it has no '-'.
func PrefixOf(id string) string {
	if i := strings.IndexByte(id, '-'); i >= 0 {
		return id[:i+1]
	}
	return id
}
