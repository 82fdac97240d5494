// Package locate enumerates traceability documents in the three collection
// roots (specs, plans, tasks) and returns their raw content.
package locate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ariel-frischer/tracecheck/internal/artifact"
	"github.com/ariel-frischer/tracecheck/internal/logging"
	"golang.org/x/sync/errgroup"
)

// ErrNoAccessibleRoots is returned when every collection root exists but
// none of them can be read. Missing roots never count towards this.
var ErrNoAccessibleRoots = errors.New("no collection root is accessible")

// Roots holds one directory per collection. An empty path disables the collection.
type Roots struct {
	Specs string
	Plans string
	Tasks string
}

// For returns the root directory for kind.
func (r Roots) For(k artifact.Kind) string {
	switch k {
	case artifact.Spec:
		return r.Specs
	case artifact.Plan:
		return r.Plans
	case artifact.Task:
		return r.Tasks
	default:
		return ""
	}
}

// Options controls which files count as documents.
type Options struct {
	// Extensions lists accepted file extensions, including the dot.
	Extensions []string
	// Ignore lists base-name glob patterns (filepath.Match syntax) to skip.
	Ignore []string
	Logger *slog.Logger
}

// DefaultOptions returns the conventional document-file rules.
func DefaultOptions() Options {
	return Options{
		Extensions: []string{".md"},
		Ignore:     []string{"README.md"},
	}
}

// isDocument reports whether a file's base name matches the convention.
func (o Options) isDocument(name string) bool {
	for _, pattern := range o.Ignore {
		if ok, _ := filepath.Match(pattern, name); ok {
			return false
		}
	}
	ext := filepath.Ext(name)
	for _, want := range o.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Document is one candidate file with its raw content.
type Document struct {
	Kind artifact.Kind
	Path string
	Raw  []byte
}

// ReadError is a file or root that could not be read. It never aborts a run.
type ReadError struct {
	Kind artifact.Kind
	Path string
	Root bool // true when the collection root itself is inaccessible
	Err  error
}

func (e *ReadError) Error() string {
	if e.Root {
		return fmt.Sprintf("%s root %s: %v", e.Kind.Collection(), e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Result is the merged output of all three collections, ordered by kind
// (spec, plan, task) and then by path.
type Result struct {
	Documents []Document
	Errors    []*ReadError
	// Missing lists collections whose root does not exist or is unset.
	Missing []artifact.Kind
}

// collection is the per-kind output of one walk.
type collection struct {
	docs    []Document
	errs    []*ReadError
	missing bool
	rootErr *ReadError
}

// Locate walks the three roots concurrently. Results are merged only after
// every walk has finished. It fails only on context cancellation or when
// every root is inaccessible.
func Locate(ctx context.Context, roots Roots, opts Options) (*Result, error) {
	logger := logging.OrDiscard(opts.Logger)
	start := time.Now()

	cols := make([]collection, len(artifact.Kinds))
	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range artifact.Kinds {
		g.Go(func() error {
			col, err := walkCollection(ctx, kind, roots.For(kind), opts)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", kind.Collection(), err)
			}
			cols[i] = col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	var rootErrs []error
	for i, kind := range artifact.Kinds {
		col := cols[i]
		logger.Debug("collection scanned",
			"collection", kind.Collection(),
			"root", roots.For(kind),
			"documents", len(col.docs),
			"errors", len(col.errs),
			"missing", col.missing)

		if col.missing {
			result.Missing = append(result.Missing, kind)
		}
		if col.rootErr != nil {
			rootErrs = append(rootErrs, col.rootErr)
			result.Errors = append(result.Errors, col.rootErr)
		}
		result.Documents = append(result.Documents, col.docs...)
		result.Errors = append(result.Errors, col.errs...)
	}

	if len(rootErrs) == len(artifact.Kinds) {
		return nil, fmt.Errorf("%w: %w", ErrNoAccessibleRoots, errors.Join(rootErrs...))
	}

	logger.Debug("locate finished", "documents", len(result.Documents), "elapsed", time.Since(start))
	return result, nil
}

// walkCollection performs a recursive depth-first walk of one root.
// Only context cancellation is returned as an error.
func walkCollection(ctx context.Context, kind artifact.Kind, root string, opts Options) (collection, error) {
	var col collection

	if root == "" {
		col.missing = true
		return col, nil
	}

	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if _, lerr := os.Lstat(root); lerr == nil {
			// The root is a symlink whose target is gone.
			col.rootErr = &ReadError{Kind: kind, Path: root, Root: true, Err: err}
			return col, nil
		}
		col.missing = true
		return col, nil
	case err != nil:
		col.rootErr = &ReadError{Kind: kind, Path: root, Root: true, Err: err}
		return col, nil
	case !info.IsDir():
		col.rootErr = &ReadError{Kind: kind, Path: root, Root: true, Err: errors.New("not a directory")}
		return col, nil
	}

	// WalkDir does not descend into a symlinked root, so walk its target and
	// report paths under the root as given.
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		col.rootErr = &ReadError{Kind: kind, Path: root, Root: true, Err: err}
		return col, nil
	}

	walkErr := filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		path = underRoot(root, resolved, path)
		if err != nil {
			if path == root {
				col.rootErr = &ReadError{Kind: kind, Path: root, Root: true, Err: err}
				return fs.SkipDir
			}
			col.errs = append(col.errs, &ReadError{Kind: kind, Path: path, Err: err})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !opts.isDocument(d.Name()) {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			col.errs = append(col.errs, &ReadError{Kind: kind, Path: path, Err: err})
			return nil
		}
		col.docs = append(col.docs, Document{Kind: kind, Path: path, Raw: raw})
		return nil
	})
	if walkErr != nil {
		return collection{}, walkErr
	}
	return col, nil
}

// underRoot rewrites a path found under resolved so it is relative to root.
func underRoot(root, resolved, path string) string {
	if resolved == root {
		return path
	}
	rel, err := filepath.Rel(resolved, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}
