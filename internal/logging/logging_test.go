package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		debug     bool
		wantDebug bool
	}{
		"debug enabled":  {debug: true, wantDebug: true},
		"debug disabled": {debug: false, wantDebug: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := New(&buf, tt.debug)
			logger.Debug("scanning", "collection", "specs")
			logger.Warn("root inaccessible", "collection", "plans")

			out := buf.String()
			assert.Contains(t, out, "root inaccessible")
			if tt.wantDebug {
				assert.Contains(t, out, "collection=specs")
			} else {
				assert.NotContains(t, out, "scanning")
			}
		})
	}
}

func TestOrDiscard(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, OrDiscard(nil))

	l := Discard()
	assert.Same(t, l, OrDiscard(l))
	// Discarded records must not panic.
	l.Error("dropped", "k", "v")
}
