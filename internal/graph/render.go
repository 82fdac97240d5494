package graph

import (
	"fmt"
	"strings"
)

// Render generates an ASCII representation of the forest: every spec with
// its plans and tasks, then records whose parent is unknown, then cycles.
// Uses portable ASCII characters only (no Unicode).
func (f *Forest) Render() string {
	if f.Size() == 0 {
		return "No artifacts found.\n"
	}

	var sb strings.Builder
	sb.WriteString("Traceability Forest\n")
	sb.WriteString("===================\n\n")

	seen := make(map[string]bool)
	for _, id := range f.Roots() {
		f.renderNode(&sb, id, f.label(id), "", "", seen)
	}

	if detached := f.Detached(); len(detached) > 0 {
		sb.WriteString("\nDetached (parent not found):\n")
		for i, id := range detached {
			label := fmt.Sprintf("%s -> %s [issue %d]", id, f.nodes[id].ParentID, f.nodes[id].Issue)
			f.renderNode(&sb, id, label, branch(i, len(detached))+" ", next("", i, len(detached)), seen)
		}
	}

	if cycles := f.DetectCycles(); len(cycles) > 0 {
		sb.WriteString("\nCycles:\n")
		for i, c := range cycles {
			sb.WriteString(fmt.Sprintf("%s %s\n", branch(i, len(cycles)), c))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(renderSummary(f.Counts()))
	return sb.String()
}

// renderNode writes label and the subtree below id. seen guards against
// revisiting a record reachable twice.
func (f *Forest) renderNode(sb *strings.Builder, id, label, lead, indent string, seen map[string]bool) {
	if seen[id] {
		return
	}
	seen[id] = true

	sb.WriteString(lead + label + "\n")

	kids := f.Children(id)
	for i, child := range kids {
		f.renderNode(sb, child, f.label(child), indent+branch(i, len(kids))+" ", next(indent, i, len(kids)), seen)
	}
}

func (f *Forest) label(id string) string {
	return fmt.Sprintf("%s [issue %d]", id, f.nodes[id].Issue)
}

// next returns the indent for the subtree of the i-th of n siblings.
func next(indent string, i, n int) string {
	if i == n-1 {
		return indent + "     "
	}
	return indent + "  |  "
}

func branch(i, n int) string {
	if i == n-1 {
		return "  +-"
	}
	return "  |-"
}

// renderSummary renders the summary statistics.
func renderSummary(c Counts) string {
	var sb strings.Builder
	sb.WriteString("Summary:\n")
	sb.WriteString(fmt.Sprintf("  Specs:  %d\n", c.Specs))
	sb.WriteString(fmt.Sprintf("  Plans:  %d\n", c.Plans))
	sb.WriteString(fmt.Sprintf("  Tasks:  %d\n", c.Tasks))
	sb.WriteString(fmt.Sprintf("  Issues: %d\n", c.Issues))
	return sb.String()
}
