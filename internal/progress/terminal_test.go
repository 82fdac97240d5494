// Package progress_test tests terminal capability detection with environment variable overrides.
// Related: internal/progress/terminal.go
// Tags: progress, terminal, capabilities, env-vars, unicode, colors
package progress_test

import (
	"testing"

	"github.com/ariel-frischer/tracecheck/internal/progress"
	"github.com/stretchr/testify/assert"
)

// TestDetectTerminalCapabilities tests terminal capability detection.
// Not parallel: subtests modify the process environment.
func TestDetectTerminalCapabilities(t *testing.T) {
	tests := map[string]struct {
		env map[string]string
	}{
		"NO_COLOR disables color": {
			env: map[string]string{"NO_COLOR": "1"},
		},
		"TRACECHECK_ASCII forces ASCII": {
			env: map[string]string{"TRACECHECK_ASCII": "1"},
		},
		"both NO_COLOR and TRACECHECK_ASCII": {
			env: map[string]string{"NO_COLOR": "1", "TRACECHECK_ASCII": "1"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			caps := progress.DetectTerminalCapabilities()

			assert.GreaterOrEqual(t, caps.Width, 0)
			if _, ok := tt.env["NO_COLOR"]; ok {
				assert.False(t, caps.SupportsColor)
			}
			if _, ok := tt.env["TRACECHECK_ASCII"]; ok {
				assert.False(t, caps.SupportsUnicode)
			}
			if !caps.IsTTY {
				assert.False(t, caps.SupportsColor)
				assert.False(t, caps.SupportsUnicode)
			}
		})
	}
}

// TestSelectSymbols tests symbol selection based on capabilities
func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		capabilities  progress.TerminalCapabilities
		wantCheckmark string
		wantFailure   string
	}{
		"Unicode support enabled": {
			capabilities:  progress.TerminalCapabilities{IsTTY: true, SupportsUnicode: true, SupportsColor: true},
			wantCheckmark: "✓",
			wantFailure:   "✗",
		},
		"ASCII fallback mode": {
			capabilities:  progress.TerminalCapabilities{IsTTY: true},
			wantCheckmark: "[OK]",
			wantFailure:   "[FAIL]",
		},
		"non-TTY mode": {
			capabilities:  progress.TerminalCapabilities{},
			wantCheckmark: "[OK]",
			wantFailure:   "[FAIL]",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			symbols := progress.SelectSymbols(tt.capabilities)
			assert.Equal(t, tt.wantCheckmark, symbols.Checkmark)
			assert.Equal(t, tt.wantFailure, symbols.Failure)
			assert.GreaterOrEqual(t, symbols.SpinnerSet, 0)
			assert.Equal(t, tt.wantCheckmark, symbols.Mark(true))
			assert.Equal(t, tt.wantFailure, symbols.Mark(false))
		})
	}
}
