package header

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Fields(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  map[string]string
	}{
		"unquoted values": {
			input: "---\nid: SPEC-10\nissue: 10\n---\n# Body\n",
			want:  map[string]string{"id": "SPEC-10", "issue": "10"},
		},
		"double quoted values": {
			input: "---\nid: \"PLAN-10\"\nparentId: \"SPEC-10\"\n---\n",
			want:  map[string]string{"id": "PLAN-10", "parentId": "SPEC-10"},
		},
		"single quoted values": {
			input: "---\nid: 'PLAN-10'\nparentId: 'SPEC-10'\n---\n",
			want:  map[string]string{"id": "PLAN-10", "parentId": "SPEC-10"},
		},
		"surrounding whitespace": {
			input: "---\nid:    SPEC-3   \nissue: \"  3 \"\n---\n",
			want:  map[string]string{"id": "SPEC-3", "issue": "3"},
		},
		"leading zero kept as text": {
			input: "---\nissue: 042\n---\n",
			want:  map[string]string{"issue": "042"},
		},
		"empty and null values": {
			input: "---\nparentId:\nother: ~\nquoted: \"~\"\n---\n",
			want:  map[string]string{"parentId": "", "other": "", "quoted": "~"},
		},
		"leading blank lines and BOM": {
			input: "\xef\xbb\xbf\n\n---\nid: TASK-1\n---\n",
			want:  map[string]string{"id": "TASK-1"},
		},
		"CRLF line endings": {
			input: "---\r\nid: SPEC-7\r\nissue: 7\r\n---\r\nbody\r\n",
			want:  map[string]string{"id": "SPEC-7", "issue": "7"},
		},
		"dots closing marker": {
			input: "---\nid: SPEC-8\n...\n",
			want:  map[string]string{"id": "SPEC-8"},
		},
		"empty block": {
			input: "---\n---\n",
			want:  map[string]string{},
		},
		"unquoted colon in value uses line parser": {
			input: "---\nid: TASK-4\ntitle: Fix: crash on start\n---\n",
			want:  map[string]string{"id": "TASK-4", "title": "Fix: crash on start"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.Fields)
		})
	}
}

func TestParse_QuoteStylesAgree(t *testing.T) {
	t.Parallel()

	single, err := Parse([]byte("---\nid: 'SPEC-1'\ntitle: 'a \"quoted\" word'\n---\n"))
	require.NoError(t, err)
	double, err := Parse([]byte("---\nid: \"SPEC-1\"\ntitle: \"a \\\"quoted\\\" word\"\n---\n"))
	require.NoError(t, err)

	assert.Equal(t, single.Fields["id"], double.Fields["id"])
	assert.Equal(t, "SPEC-1", single.Fields["id"])
	assert.NotContains(t, single.Fields["id"], "'")
	assert.NotContains(t, double.Fields["id"], "\"")
	assert.Equal(t, single.Fields["title"], double.Fields["title"])
}

func TestParse_LenientQuotes(t *testing.T) {
	t.Parallel()

	// The colon in title forces the line parser; quotes must still be stripped.
	h, err := Parse([]byte("---\nid: 'TASK-2'\nparentId: \"PLAN-2\"\ntitle: a: b\n---\n"))
	require.NoError(t, err)
	assert.True(t, h.Lenient)
	assert.Equal(t, "TASK-2", h.Fields["id"])
	assert.Equal(t, "PLAN-2", h.Fields["parentId"])
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input    string
		wantErr  error
		wantLine int
	}{
		"no header": {
			input:   "# Title\n\nid: SPEC-1\n",
			wantErr: ErrNoHeader,
		},
		"empty document": {
			input:   "",
			wantErr: ErrNoHeader,
		},
		"unterminated": {
			input:   "---\nid: SPEC-1\nissue: 1\n",
			wantErr: ErrUnterminated,
		},
		"duplicate key": {
			input:    "---\nid: SPEC-1\nid: SPEC-2\n---\n",
			wantLine: 3,
		},
		"scalar root": {
			input:    "---\njust text\n---\n",
			wantLine: 2,
		},
		"broken nesting": {
			input:    "---\nid: SPEC-1\n  issue: [1\n---\n",
			wantLine: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, h)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var syn *SyntaxError
			require.True(t, errors.As(err, &syn), "want *SyntaxError, got %T", err)
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, syn.Line)
			}
		})
	}
}

func TestParse_ComplexValues(t *testing.T) {
	t.Parallel()

	h, err := Parse([]byte("---\nid: SPEC-1\ntags:\n  - a\n  - b\nissue: {n: 1}\n---\n"))
	require.NoError(t, err)

	assert.True(t, h.Complex["tags"])
	assert.True(t, h.Complex["issue"])
	assert.NotContains(t, h.Fields, "issue")

	v, key, ok := h.Lookup("issue")
	assert.True(t, ok)
	assert.Equal(t, "issue", key)
	assert.Empty(t, v)
}

func TestHeader_LookupAndLine(t *testing.T) {
	t.Parallel()

	h, err := Parse([]byte("\n---\nid: PLAN-1\nparent_id: SPEC-1\n---\n"))
	require.NoError(t, err)

	v, key, ok := h.Lookup("parentId", "parent_id", "parent")
	assert.True(t, ok)
	assert.Equal(t, "parent_id", key)
	assert.Equal(t, "SPEC-1", v)

	_, _, ok = h.Lookup("kind", "type")
	assert.False(t, ok)

	assert.Equal(t, 2, h.StartLine)
	assert.Equal(t, 3, h.Line("id"))
	assert.Equal(t, 4, h.Line("parent_id"))
	assert.Equal(t, 2, h.Line("missing"))
}
