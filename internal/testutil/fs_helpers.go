// Package testutil provides test utilities and helpers for tracecheck tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Workspace is a temporary repository layout with the three collection roots.
// The roots are not created until a document is written into them, so a
// fresh Workspace has all three collections missing.
type Workspace struct {
	Root  string
	Specs string
	Plans string
	Tasks string
}

// NewWorkspace creates a Workspace under t.TempDir().
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()

	root := t.TempDir()
	return &Workspace{
		Root:  root,
		Specs: filepath.Join(root, "specs"),
		Plans: filepath.Join(root, "plans"),
		Tasks: filepath.Join(root, "tasks"),
	}
}

// docConfig holds configuration for a written document.
type docConfig struct {
	fields   [][2]string
	fileName string
	subdir   string
	body     string
	raw      *string
}

// DocOption is a functional option for the Workspace document writers.
type DocOption func(*docConfig)

// WithField sets (or overrides) a header field. The value is written verbatim,
// so callers control quoting.
func WithField(key, value string) DocOption {
	return func(c *docConfig) {
		for i := range c.fields {
			if c.fields[i][0] == key {
				c.fields[i][1] = value
				return
			}
		}
		c.fields = append(c.fields, [2]string{key, value})
	}
}

// WithoutField removes a header field.
func WithoutField(key string) DocOption {
	return func(c *docConfig) {
		kept := c.fields[:0]
		for _, f := range c.fields {
			if f[0] != key {
				kept = append(kept, f)
			}
		}
		c.fields = kept
	}
}

// WithFileName overrides the default "<id>.md" file name.
func WithFileName(name string) DocOption {
	return func(c *docConfig) {
		c.fileName = name
	}
}

// WithSubdir places the document in a nested directory of the collection.
func WithSubdir(dir string) DocOption {
	return func(c *docConfig) {
		c.subdir = dir
	}
}

// WithBody sets the free-text body after the header block.
func WithBody(body string) DocOption {
	return func(c *docConfig) {
		c.body = body
	}
}

// WithRaw replaces the whole document content, header included.
func WithRaw(content string) DocOption {
	return func(c *docConfig) {
		c.raw = &content
	}
}

// Spec writes a spec document and returns its path.
func (w *Workspace) Spec(t *testing.T, id string, issue int, opts ...DocOption) string {
	t.Helper()
	return w.write(t, w.Specs, id, [][2]string{
		{"id", id},
		{"issue", fmt.Sprintf("%d", issue)},
	}, opts)
}

// Plan writes a plan document and returns its path.
func (w *Workspace) Plan(t *testing.T, id string, issue int, parent string, opts ...DocOption) string {
	t.Helper()
	return w.write(t, w.Plans, id, [][2]string{
		{"id", id},
		{"issue", fmt.Sprintf("%d", issue)},
		{"parentId", parent},
	}, opts)
}

// Task writes a task document and returns its path.
func (w *Workspace) Task(t *testing.T, id string, issue int, parent string, opts ...DocOption) string {
	t.Helper()
	return w.write(t, w.Tasks, id, [][2]string{
		{"id", id},
		{"issue", fmt.Sprintf("%d", issue)},
		{"parentId", parent},
	}, opts)
}

func (w *Workspace) write(t *testing.T, dir, id string, fields [][2]string, opts []DocOption) string {
	t.Helper()

	config := &docConfig{
		fields:   fields,
		fileName: strings.ToLower(id) + ".md",
		body:     "# " + id + "\n",
	}
	for _, opt := range opts {
		opt(config)
	}

	path := filepath.Join(dir, config.subdir, config.fileName)
	content := Document(config.fields, config.body)
	if config.raw != nil {
		content = *config.raw
	}
	WriteFile(t, path, content)
	return path
}

// Document renders a header block with the given fields followed by body.
func Document(fields [][2]string, body string) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	for _, f := range fields {
		sb.WriteString(fmt.Sprintf("%s: %s\n", f[0], f[1]))
	}
	sb.WriteString("---\n\n")
	sb.WriteString(body)
	return sb.String()
}

// WriteFile writes content to a file, creating parent directories if needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads file content, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}

	return string(content)
}

// BrokenLink creates a dangling symlink at path so that reading it fails
// regardless of the user the tests run as.
func BrokenLink(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.Symlink(filepath.Join(filepath.Dir(path), "does-not-exist"), path); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
}
