package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ariel-frischer/tracecheck/internal/artifact"
	"github.com/ariel-frischer/tracecheck/internal/graph"
)

// Check evaluates every cross-document invariant against the forest and
// returns all violations. It never stops at the first problem and has no
// side effects.
func Check(f *graph.Forest) *Result {
	result := &Result{Valid: true, Counts: f.Counts(), Forest: f}

	checkDuplicates(f, result)
	broken := checkParents(f, result)
	checkCycles(f, result)
	checkOrphanIssues(f, broken, result)

	result.finalize()
	return result
}

func checkDuplicates(f *graph.Forest, result *Result) {
	for _, d := range f.Duplicates() {
		result.AddError(&ValidationError{
			Category: CategoryGraph,
			Rule:     RuleDuplicateID,
			Path:     d.Paths[0],
			ID:       d.ID,
			Message: fmt.Sprintf("id %q is declared by %d documents: %s",
				d.ID, len(d.Paths), strings.Join(d.Paths, ", ")),
			Hint: "ids must be unique across specs, plans and tasks",
		})
	}
}

// checkParents resolves every plan and task parent. It returns the ids whose
// parent could not be resolved at all.
func checkParents(f *graph.Forest, result *Result) map[string]bool {
	broken := make(map[string]bool)

	for _, r := range f.Records() {
		want, ok := r.Kind.Parent()
		if !ok {
			continue
		}

		parent, found := f.Lookup(r.ParentID)
		if !found {
			broken[r.ID] = true
			if paths, rejected := f.Rejected(r.ParentID); rejected {
				result.AddError(&ValidationError{
					Category: CategoryGraph,
					Rule:     RuleInvalidParent,
					Kind:     r.Kind,
					Path:     r.SourcePath,
					ID:       r.ID,
					Message: fmt.Sprintf("%s parentId %q refers to a document that failed validation (%s)",
						r.ID, r.ParentID, strings.Join(paths, ", ")),
					Hint: "fix the errors reported for the parent document",
				})
				continue
			}
			result.AddError(&ValidationError{
				Category: CategoryGraph,
				Rule:     RuleUnresolvedParent,
				Kind:     r.Kind,
				Path:     r.SourcePath,
				ID:       r.ID,
				Message:  fmt.Sprintf("%s parentId %q does not match any %s", r.ID, r.ParentID, strings.ToLower(want.String())),
				Expected: want.Prefix() + "<n>",
				Actual:   r.ParentID,
				Hint:     fmt.Sprintf("create the %s or correct the parentId", strings.ToLower(want.String())),
			})
			continue
		}

		if parent.Kind != want {
			result.AddError(&ValidationError{
				Category: CategoryGraph,
				Rule:     RuleWrongParentKind,
				Kind:     r.Kind,
				Path:     r.SourcePath,
				ID:       r.ID,
				Message: fmt.Sprintf("%s parentId %q is a %s, expected a %s",
					r.ID, r.ParentID, strings.ToLower(parent.Kind.String()), strings.ToLower(want.String())),
				Expected: want.String(),
				Actual:   parent.Kind.String(),
			})
		}
	}

	return broken
}

func checkCycles(f *graph.Forest, result *Result) {
	for _, c := range f.DetectCycles() {
		r, _ := f.Lookup(c[0])
		result.AddError(&ValidationError{
			Category: CategoryGraph,
			Rule:     RuleCycle,
			Kind:     r.Kind,
			Path:     r.SourcePath,
			ID:       r.ID,
			Message:  fmt.Sprintf("parent chain forms a cycle: %s", c),
		})
	}
}

// checkOrphanIssues reports issues that have plans or tasks but no spec.
// An issue whose every plan and task already has an unresolvable parent is
// skipped: the missing spec is reported through that chain.
func checkOrphanIssues(f *graph.Forest, broken map[string]bool, result *Result) {
	for _, g := range f.Issues() {
		if !g.HasWork() || len(g.Specs) > 0 {
			continue
		}

		work := append(append([]string{}, g.Plans...), g.Tasks...)
		explained := true
		for _, id := range work {
			if !broken[id] {
				explained = false
				break
			}
		}
		if explained {
			continue
		}

		first, _ := f.Lookup(work[0])
		result.AddError(&ValidationError{
			Category: CategoryGraph,
			Rule:     RuleOrphanIssue,
			Kind:     first.Kind,
			Path:     first.SourcePath,
			ID:       first.ID,
			Issue:    g.Issue,
			Message: fmt.Sprintf("issue %d has %s but no spec",
				g.Issue, strings.Join(work, ", ")),
			Hint: fmt.Sprintf("add a spec with issue: %d or correct the issue numbers", g.Issue),
		})
	}
}

// finalize deduplicates errors and puts them in report order: document
// errors by kind then path, then graph errors by rule then id.
func (r *Result) finalize() {
	seen := make(map[string]bool, len(r.Errors))
	unique := r.Errors[:0]
	for _, e := range r.Errors {
		k := e.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, e)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return less(unique[i], unique[j])
	})

	r.Errors = unique
	r.Valid = len(r.Errors) == 0
}

func less(a, b *ValidationError) bool {
	ag, bg := a.Category == CategoryGraph, b.Category == CategoryGraph
	if ag != bg {
		return bg
	}

	if !ag {
		if a.Kind != b.Kind {
			return kindRank(a.Kind) < kindRank(b.Kind)
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Line < b.Line
	}

	if a.Rule != b.Rule {
		return graphRuleOrder[a.Rule] < graphRuleOrder[b.Rule]
	}
	if a.Issue != b.Issue {
		return a.Issue < b.Issue
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return a.Path < b.Path
}

// kindRank orders documents spec, plan, task; errors without a kind sort last.
func kindRank(k artifact.Kind) int {
	if !k.Valid() {
		return len(artifact.Kinds) + 1
	}
	return int(k)
}
