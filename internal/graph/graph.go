// Package graph assembles normalized artifact records into a forest keyed by
// id, with edges from each record's parentId, and exposes the indices the
// invariant checker needs.
package graph

import (
	"sort"

	"github.com/ariel-frischer/tracecheck/internal/artifact"
)

// Duplicate is an id declared by more than one document.
type Duplicate struct {
	ID    string
	Paths []string // every declaring document, sorted
}

// IssueGroup lists the record ids that belong to one unit of work.
type IssueGroup struct {
	Issue int
	Specs []string
	Plans []string
	Tasks []string
}

// HasWork reports whether the issue has any plan or task.
func (g IssueGroup) HasWork() bool {
	return len(g.Plans) > 0 || len(g.Tasks) > 0
}

// Counts are the record totals shown in reports.
type Counts struct {
	Specs  int `json:"specs"`
	Plans  int `json:"plans"`
	Tasks  int `json:"tasks"`
	Issues int `json:"issues"`
}

// Forest is the indexed record set. It is immutable after Build.
type Forest struct {
	nodes      map[string]*artifact.Record // first record per id, by source path
	children   map[string][]string         // parentId -> child ids, sorted
	declared   map[string][]string         // id -> declaring paths, sorted
	issues     map[int]*IssueGroup
	duplicates []Duplicate
	order      []string // indexed ids sorted by kind then id
}

// Build indexes records and detects duplicate ids across declared. Records
// are added to declared automatically, so declared only needs the ids of
// documents that failed normalization.
func Build(records []*artifact.Record, declared []artifact.Declaration) *Forest {
	f := &Forest{
		nodes:    make(map[string]*artifact.Record),
		children: make(map[string][]string),
		declared: make(map[string][]string),
		issues:   make(map[int]*IssueGroup),
	}

	sorted := make([]*artifact.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SourcePath < sorted[j].SourcePath
	})

	// First pass: declarations, so duplicates cover rejected documents too
	seen := make(map[[2]string]bool)
	declare := func(id, path string) {
		key := [2]string{id, path}
		if id == "" || seen[key] {
			return
		}
		seen[key] = true
		f.declared[id] = append(f.declared[id], path)
	}
	for _, r := range sorted {
		declare(r.ID, r.SourcePath)
	}
	for _, d := range declared {
		declare(d.ID, d.Path)
	}
	for id, paths := range f.declared {
		sort.Strings(paths)
		if len(paths) > 1 {
			f.duplicates = append(f.duplicates, Duplicate{ID: id, Paths: paths})
		}
	}
	sort.Slice(f.duplicates, func(i, j int) bool {
		return f.duplicates[i].ID < f.duplicates[j].ID
	})

	// Second pass: index records; the first by source path wins an id
	for _, r := range sorted {
		if _, exists := f.nodes[r.ID]; exists {
			continue
		}
		f.nodes[r.ID] = r
		f.order = append(f.order, r.ID)
	}
	sort.Slice(f.order, func(i, j int) bool {
		a, b := f.nodes[f.order[i]], f.nodes[f.order[j]]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ID < b.ID
	})

	// Third pass: edges and issue grouping
	for _, id := range f.order {
		r := f.nodes[id]
		if r.ParentID != "" {
			f.children[r.ParentID] = append(f.children[r.ParentID], id)
		}

		group := f.issues[r.Issue]
		if group == nil {
			group = &IssueGroup{Issue: r.Issue}
			f.issues[r.Issue] = group
		}
		switch r.Kind {
		case artifact.Spec:
			group.Specs = append(group.Specs, id)
		case artifact.Plan:
			group.Plans = append(group.Plans, id)
		case artifact.Task:
			group.Tasks = append(group.Tasks, id)
		}
	}
	for _, kids := range f.children {
		sort.Strings(kids)
	}

	return f
}

// Lookup returns the indexed record for id.
func (f *Forest) Lookup(id string) (*artifact.Record, bool) {
	r, ok := f.nodes[id]
	return r, ok
}

// Records returns every indexed record ordered by kind, then id.
func (f *Forest) Records() []*artifact.Record {
	out := make([]*artifact.Record, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.nodes[id])
	}
	return out
}

// Children returns the ids whose parentId is id, sorted.
func (f *Forest) Children(id string) []string {
	return f.children[id]
}

// Roots returns the ids of records without a parent (specs), sorted.
func (f *Forest) Roots() []string {
	var roots []string
	for _, id := range f.order {
		if f.nodes[id].ParentID == "" {
			roots = append(roots, id)
		}
	}
	return roots
}

// Detached returns the ids of records whose parentId does not resolve to
// an indexed record, sorted by kind then id.
func (f *Forest) Detached() []string {
	var out []string
	for _, id := range f.order {
		p := f.nodes[id].ParentID
		if p == "" {
			continue
		}
		if _, ok := f.nodes[p]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Duplicates returns ids declared by more than one document, sorted by id.
func (f *Forest) Duplicates() []Duplicate {
	return f.duplicates
}

// Rejected returns the declaring paths of id when it was declared by some
// document but no record with that id was indexed.
func (f *Forest) Rejected(id string) ([]string, bool) {
	if _, ok := f.nodes[id]; ok {
		return nil, false
	}
	paths, ok := f.declared[id]
	return paths, ok
}

// Issues returns every issue group sorted by issue number.
func (f *Forest) Issues() []IssueGroup {
	out := make([]IssueGroup, 0, len(f.issues))
	for _, g := range f.issues {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Issue < out[j].Issue })
	return out
}

// Counts returns the per-kind record totals and the number of distinct issues.
func (f *Forest) Counts() Counts {
	var c Counts
	for _, id := range f.order {
		switch f.nodes[id].Kind {
		case artifact.Spec:
			c.Specs++
		case artifact.Plan:
			c.Plans++
		case artifact.Task:
			c.Tasks++
		}
	}
	c.Issues = len(f.issues)
	return c
}

// Size returns the number of indexed records.
func (f *Forest) Size() int {
	return len(f.nodes)
}
