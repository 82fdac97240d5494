// tracecheck - Traceability Graph Validation
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/tracecheck

// Package validation checks the traceability invariants across the spec,
// plan and task collections and runs the full locate, parse, normalize,
// build and check pipeline.
package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ariel-frischer/tracecheck/internal/artifact"
	"github.com/ariel-frischer/tracecheck/internal/graph"
	"github.com/ariel-frischer/tracecheck/internal/header"
	"github.com/ariel-frischer/tracecheck/internal/locate"
	"github.com/ariel-frischer/tracecheck/internal/logging"
)

// Options configures a validation run.
type Options struct {
	Locate locate.Options
	Logger *slog.Logger
}

// Run validates every document under roots. Document and graph problems are
// collected into the Result; an error is returned only when the run itself
// cannot proceed (cancellation, or no collection root is accessible).
func Run(ctx context.Context, roots locate.Roots, opts Options) (*Result, error) {
	logger := logging.OrDiscard(opts.Logger)
	if opts.Locate.Logger == nil {
		opts.Locate.Logger = logger
	}

	logger.Debug("validating",
		"specs", roots.Specs,
		"plans", roots.Plans,
		"tasks", roots.Tasks)

	start := time.Now()
	located, err := locate.Locate(ctx, roots, opts.Locate)
	if err != nil {
		return nil, fmt.Errorf("locating documents: %w", err)
	}
	logger.Debug("documents located", "count", len(located.Documents), "elapsed", time.Since(start))

	var docErrs []*ValidationError
	for _, re := range located.Errors {
		docErrs = append(docErrs, readError(re))
	}

	// Every document is parsed and normalized before the graph is built.
	start = time.Now()
	var (
		records  []*artifact.Record
		declared []artifact.Declaration
	)
	for _, doc := range located.Documents {
		h, err := header.Parse(doc.Raw)
		if err != nil {
			docErrs = append(docErrs, parseError(doc, err))
			continue
		}

		rec, id, fieldErrs := artifact.Normalize(doc.Kind, doc.Path, h)
		if id != "" {
			declared = append(declared, artifact.Declaration{ID: id, Kind: doc.Kind, Path: doc.Path})
		}
		for _, fe := range fieldErrs {
			docErrs = append(docErrs, fieldError(doc, id, fe))
		}
		if rec != nil {
			records = append(records, rec)
		}
	}
	logger.Debug("documents normalized",
		"records", len(records),
		"rejected", len(located.Documents)-len(records),
		"elapsed", time.Since(start))

	start = time.Now()
	forest := graph.Build(records, declared)
	result := Check(forest)
	logger.Debug("graph checked", "records", forest.Size(), "graphErrors", len(result.Errors), "elapsed", time.Since(start))

	result.Errors = append(docErrs, result.Errors...)
	result.Documents = len(located.Documents)
	result.Missing = located.Missing
	result.finalize()

	return result, nil
}

func readError(re *locate.ReadError) *ValidationError {
	msg := fmt.Sprintf("cannot read document: %v", re.Err)
	hint := ""
	if re.Root {
		msg = fmt.Sprintf("cannot read %s collection root: %v", re.Kind.Collection(), re.Err)
		hint = "check the directory exists and is readable, or point the flag at another directory"
	}
	return &ValidationError{
		Category: CategoryRead,
		Rule:     RuleReadError,
		Kind:     re.Kind,
		Path:     re.Path,
		Message:  msg,
		Hint:     hint,
	}
}

func parseError(doc locate.Document, err error) *ValidationError {
	ve := &ValidationError{
		Category: CategoryParse,
		Kind:     doc.Kind,
		Path:     doc.Path,
	}

	var syntaxErr *header.SyntaxError
	switch {
	case errors.Is(err, header.ErrNoHeader):
		ve.Rule = RuleNoHeader
		ve.Line = 1
		ve.Message = "no header block found"
		ve.Expected = "a header block opened and closed by --- lines"
		ve.Hint = "start the document with ---, then id/issue/parentId fields, then ---"
	case errors.Is(err, header.ErrUnterminated):
		ve.Rule = RuleUnterminated
		ve.Message = "header block is not terminated"
		ve.Expected = "closing --- line"
	case errors.As(err, &syntaxErr):
		ve.Rule = RuleMalformedHeader
		ve.Line = syntaxErr.Line
		ve.Message = fmt.Sprintf("malformed header: %s", syntaxErr.Msg)
	default:
		ve.Rule = RuleMalformedHeader
		ve.Message = fmt.Sprintf("malformed header: %v", err)
	}
	return ve
}

func fieldError(doc locate.Document, id string, fe *artifact.FieldError) *ValidationError {
	return &ValidationError{
		Category: CategoryField,
		Rule:     fe.Rule,
		Kind:     doc.Kind,
		Path:     doc.Path,
		Line:     fe.Line,
		ID:       id,
		Field:    fe.Field,
		Message:  fe.Message,
		Expected: fe.Expected,
		Actual:   fe.Actual,
	}
}
