package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Display shows install progress. On a terminal it animates a spinner whose
// text follows the latest update; otherwise each event is printed on its own line.
// It satisfies install.Reporter.
type Display struct {
	out          io.Writer
	capabilities TerminalCapabilities
	symbols      ProgressSymbols
	spinner      *spinner.Spinner
}

// NewDisplay creates a display writing to out with the given terminal capabilities.
func NewDisplay(out io.Writer, caps TerminalCapabilities) *Display {
	return &Display{
		out:          out,
		capabilities: caps,
		symbols:      SelectSymbols(caps),
	}
}

// Start begins a progress operation with the given message.
func (d *Display) Start(message string) {
	d.stopSpinner()

	if !d.capabilities.IsTTY {
		fmt.Fprintln(d.out, message)
		return
	}

	d.spinner = spinner.New(
		spinner.CharSets[d.symbols.SpinnerSet],
		100*time.Millisecond,
		spinner.WithWriter(d.out),
	)
	d.spinner.Suffix = " " + message
	d.spinner.Start()
}

// Update replaces the spinner text, or prints the message when there is no spinner.
func (d *Display) Update(message string) {
	if d.spinner == nil {
		fmt.Fprintf(d.out, "  %s\n", message)
		return
	}
	d.spinner.Lock()
	d.spinner.Suffix = " " + message
	d.spinner.Unlock()
}

// Succeed stops the spinner and prints a success line.
func (d *Display) Succeed(message string) {
	d.stopSpinner()
	fmt.Fprintf(d.out, "%s %s\n", d.paint(d.symbols.Checkmark, color.FgGreen), d.paint(message, color.FgGreen))
}

// Fail stops the spinner and prints a failure line.
func (d *Display) Fail(message string) {
	d.stopSpinner()
	fmt.Fprintf(d.out, "%s %s\n", d.paint(d.symbols.Failure, color.FgRed), d.paint(message, color.FgRed))
}

// StopSpinner stops the spinner without printing a status line.
func (d *Display) StopSpinner() {
	d.stopSpinner()
}

func (d *Display) stopSpinner() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

func (d *Display) paint(s string, attr color.Attribute) string {
	if !d.capabilities.SupportsColor {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}
