package progress

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// ProgressDisplay shows a spinner while a long step runs. Outside a
// terminal it stays silent so CI logs only carry the report.
type ProgressDisplay struct {
	capabilities TerminalCapabilities
	spinner      *spinner.Spinner
	symbols      ProgressSymbols
	writer       io.Writer
}

// NewProgressDisplay creates a display writing to w (normally stderr).
func NewProgressDisplay(caps TerminalCapabilities, w io.Writer) *ProgressDisplay {
	return &ProgressDisplay{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		writer:       w,
	}
}

// Symbols returns the symbol set selected for the terminal.
func (p *ProgressDisplay) Symbols() ProgressSymbols {
	return p.symbols
}

// Start begins the spinner with msg. Calling Start while a spinner is
// running replaces its message.
func (p *ProgressDisplay) Start(msg string) {
	if !p.capabilities.IsTTY {
		return
	}
	if p.spinner != nil {
		p.spinner.Lock()
		p.spinner.Suffix = " " + msg
		p.spinner.Unlock()
		return
	}

	p.spinner = spinner.New(
		spinner.CharSets[p.symbols.SpinnerSet],
		100*time.Millisecond,
		spinner.WithWriter(p.writer),
	)
	p.spinner.Suffix = " " + msg
	p.spinner.Start()
}

// Active reports whether the spinner is running.
func (p *ProgressDisplay) Active() bool {
	return p.spinner != nil
}

// StopSpinner stops the spinner without printing anything.
func (p *ProgressDisplay) StopSpinner() {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}
