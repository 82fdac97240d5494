// Package header extracts the leading key/value header block from a
// traceability document and returns its values as plain strings.
//
// A header block opens with a line containing only "---" (the first
// non-blank line of the document) and closes with the next line containing
// only "---" or "...". The block body is YAML; when it is not valid YAML but
// every line is still a flat "key: value" pair, a lenient line parser is
// used instead so that unquoted colons in human-written values do not reject
// the whole document.
//
// The parser never interprets types: every value is a string.
package header

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	openMarker = "---"
	endMarker  = "..."
)

// ErrNoHeader is returned when the document does not start with a header block.
var ErrNoHeader = errors.New("no header block found")

// ErrUnterminated is returned when the opening marker has no matching close.
var ErrUnterminated = errors.New("header block is not terminated")

// SyntaxError describes a header block that is malformed beyond quote and
// whitespace variance. Line is 1-based and relative to the whole document.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// Header is the flat key/value view of a document's header block.
type Header struct {
	// Fields holds every scalar value, keyed by its trimmed key.
	Fields map[string]string
	// Complex marks keys whose value is a list or mapping rather than a scalar.
	Complex map[string]bool
	// Lines maps each key to the 1-based document line it appears on.
	Lines map[string]int
	// StartLine is the 1-based line of the opening marker.
	StartLine int
	// Lenient is true when the block was read by the line parser, not YAML.
	Lenient bool
}

func newHeader(start int) *Header {
	return &Header{
		Fields:    make(map[string]string),
		Complex:   make(map[string]bool),
		Lines:     make(map[string]int),
		StartLine: start,
	}
}

// Lookup returns the value of the first key in keys that is present,
// along with the key that matched. Keys listed in Complex are reported as
// present with an empty value so callers can reject them.
func (h *Header) Lookup(keys ...string) (value, key string, ok bool) {
	for _, k := range keys {
		if v, found := h.Fields[k]; found {
			return v, k, true
		}
		if h.Complex[k] {
			return "", k, true
		}
	}
	return "", "", false
}

// Line returns the document line of key, or the header start line when the
// key is absent.
func (h *Header) Line(key string) int {
	if l, ok := h.Lines[key]; ok {
		return l
	}
	return h.StartLine
}

// Parse locates the header block at the top of raw and parses it.
// It returns ErrNoHeader, ErrUnterminated or a *SyntaxError on failure.
func Parse(raw []byte) (*Header, error) {
	start, body, err := extractBlock(raw)
	if err != nil {
		return nil, err
	}

	h, yamlErr := parseYAML(body, start)
	if yamlErr == nil {
		return h, nil
	}

	// Flat "key: value" blocks that YAML rejects (e.g. an unquoted colon in a
	// value) are still accepted.
	if lh, ok := parseLines(body, start); ok {
		return lh, nil
	}
	return nil, yamlErr
}

// extractBlock returns the 1-based line of the opening marker and the raw
// lines between the markers.
func extractBlock(raw []byte) (int, []string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed != openMarker {
			return 0, nil, ErrNoHeader
		}
		start = i
		break
	}
	if start < 0 {
		return 0, nil, ErrNoHeader
	}

	for i := start + 1; i < len(lines); i++ {
		trimmed := strings.TrimRight(lines[i], " \t")
		if trimmed == openMarker || trimmed == endMarker {
			return start + 1, lines[start+1 : i], nil
		}
	}
	return 0, nil, ErrUnterminated
}

// parseYAML decodes the block body as a YAML mapping of scalars.
func parseYAML(body []string, start int) (*Header, error) {
	h := newHeader(start)

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(strings.Join(body, "\n")), &doc); err != nil {
		line, _ := extractLineColumn(err.Error())
		if line > 0 {
			line += start
		}
		return nil, &SyntaxError{Line: line, Msg: cleanYAMLError(err.Error())}
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return h, nil
		}
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return h, nil // empty block
	}
	if root.Kind != yaml.MappingNode {
		return nil, &SyntaxError{
			Line: start + root.Line,
			Msg:  "header block must be a list of key: value pairs",
		}
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		key := strings.TrimSpace(keyNode.Value)
		line := start + keyNode.Line

		if _, dup := h.Lines[key]; dup {
			return nil, &SyntaxError{Line: line, Msg: fmt.Sprintf("duplicate key %q", key)}
		}
		h.Lines[key] = line

		if valNode.Kind == yaml.AliasNode && valNode.Alias != nil {
			valNode = valNode.Alias
		}
		if valNode.Kind != yaml.ScalarNode {
			h.Complex[key] = true
			continue
		}
		h.Fields[key] = scalarValue(valNode)
	}
	return h, nil
}

// scalarValue returns the literal text of a scalar. Quoting is already
// removed by the decoder for both quote styles; an unquoted null is empty.
func scalarValue(n *yaml.Node) string {
	if n.Tag == "!!null" && n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) == 0 {
		return ""
	}
	return strings.TrimSpace(n.Value)
}

// extractLineColumn pulls line/column from a yaml.v3 error message.
func extractLineColumn(errMsg string) (line, column int) {
	// yaml.v3 errors look like: "yaml: line 5: could not find expected ':'"
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError removes the "yaml: line X:" prefix from error messages.
func cleanYAMLError(errMsg string) string {
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 && strings.HasPrefix(errMsg, "yaml:") {
		return errMsg[idx+2:]
	}
	return errMsg
}
