package header

import (
	"regexp"
	"strings"
)

// flatKeyPattern matches the key part of a flat "key: value" line.
var flatKeyPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.-]*)[ \t]*:(.*)$`)

// parseLines reads a block in which every meaningful line is a flat
// "key: value" pair. It reports ok=false as soon as a line does not fit,
// leaving the YAML error to the caller.
func parseLines(body []string, start int) (*Header, bool) {
	h := newHeader(start)
	h.Lenient = true

	for i, raw := range body {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Indented lines are continuations or nested values; not flat.
		if raw != strings.TrimLeft(raw, " \t") {
			return nil, false
		}
		m := flatKeyPattern.FindStringSubmatch(line)
		if m == nil {
			return nil, false
		}
		key := m[1]
		if _, dup := h.Lines[key]; dup {
			return nil, false
		}
		h.Lines[key] = start + i + 1
		h.Fields[key] = unquote(strings.TrimSpace(m[2]))
	}
	return h, true
}

// unquote strips one matching pair of single or double quotes.
func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return strings.TrimSpace(v[1 : len(v)-1])
		}
	}
	return v
}
