package artifact

import "fmt"

// Record is the canonical, post-normalization representation of one document.
type Record struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"kind"`
	Issue      int    `json:"issue"`
	ParentID   string `json:"parentId,omitempty"`
	SourcePath string `json:"sourcePath"`
}

// String returns a compact description used in debug logs.
func (r *Record) String() string {
	if r.ParentID == "" {
		return fmt.Sprintf("%s %s (issue %d)", r.Kind, r.ID, r.Issue)
	}
	return fmt.Sprintf("%s %s (issue %d, parent %s)", r.Kind, r.ID, r.Issue, r.ParentID)
}

// Declaration records that a document claimed an id, whether or not the
// document normalized successfully. Duplicate detection runs over
// declarations so a collision is reported even when one side is invalid.
type Declaration struct {
	ID   string
	Kind Kind
	Path string
}
