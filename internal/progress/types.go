// Package progress provides progress display for batch audits: terminal
// capability detection, spinner handling, and per-file status lines.
package progress

import "errors"

// FileInfo represents metadata about one audited file for progress display
type FileInfo struct {
	// Name is the display name of the file being audited
	Name string
	// Number is the current file number (1-based index)
	Number int
	// TotalFiles is the total number of files in the batch
	TotalFiles int
}

// Validate checks that all FileInfo fields meet validation requirements
func (f FileInfo) Validate() error {
	if f.Name == "" {
		return errors.New("file name cannot be empty")
	}
	if f.Number <= 0 {
		return errors.New("file number must be > 0")
	}
	if f.TotalFiles <= 0 {
		return errors.New("total files must be > 0")
	}
	if f.Number > f.TotalFiles {
		return errors.New("file number cannot exceed total files")
	}
	return nil
}

// TerminalCapabilities encapsulates detected terminal features
type TerminalCapabilities struct {
	// IsTTY indicates whether stdout is a terminal (vs pipe/redirect)
	IsTTY bool
	// SupportsColor indicates whether terminal supports ANSI color codes
	SupportsColor bool
	// SupportsUnicode indicates whether terminal supports Unicode characters
	SupportsUnicode bool
	// Width is the terminal width in columns (0 if unknown/pipe)
	Width int
}

// Symbols defines the character set for visual indicators
type Symbols struct {
	// Checkmark is the success indicator ("✓" or "[OK]")
	Checkmark string
	// Failure is the failure indicator ("✗" or "[FAIL]")
	Failure string
	// SpinnerSet is the index into spinner.CharSets
	SpinnerSet int
}
