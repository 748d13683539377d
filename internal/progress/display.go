package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
)

// Display orchestrates progress indicators for a batch audit
type Display struct {
	capabilities TerminalCapabilities
	symbols      Symbols
	spinner      *spinner.Spinner
	out          io.Writer
}

// NewDisplay creates a new progress display with the given terminal capabilities
func NewDisplay(caps TerminalCapabilities) *Display {
	return &Display{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          os.Stdout,
	}
}

// StartFile begins displaying progress for one file
func (d *Display) StartFile(info FileInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	msg := buildFileMessage(info, "Auditing")

	if d.capabilities.IsTTY {
		d.spinner = spinner.New(
			spinner.CharSets[d.symbols.SpinnerSet],
			100*time.Millisecond,
		)
		d.spinner.Writer = os.Stderr // keep the animation off stdout so reports pipe cleanly
		d.spinner.Suffix = " " + msg
		d.spinner.Start()
	} else {
		fmt.Fprintln(d.out, msg)
	}

	return nil
}

// CompleteFile stops the spinner and displays the audit outcome for one file
func (d *Display) CompleteFile(info FileInfo, compliant bool, detail string) {
	d.StopSpinner()

	mark := d.symbols.Checkmark
	if !compliant {
		mark = d.symbols.Failure
	}
	msg := fmt.Sprintf("%s %s %s", mark, formatFileCounter(info.Number, info.TotalFiles), info.Name)
	if detail != "" {
		msg += " (" + detail + ")"
	}
	fmt.Fprintln(d.out, msg)
}

// StopSpinner stops the spinner without showing an outcome line
func (d *Display) StopSpinner() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

// formatFileCounter returns the [N/Total] counter string
func formatFileCounter(number, total int) string {
	return fmt.Sprintf("[%d/%d]", number, total)
}

// buildFileMessage constructs the progress message for one file
func buildFileMessage(info FileInfo, action string) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", formatFileCounter(info.Number, info.TotalFiles), action, info.Name))
}
