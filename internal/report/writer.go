package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lucim-tools/lucimaudit/internal/artifact"
)

// Writer persists audit reports under a single output directory.
type Writer struct {
	OutDir string
}

// NewWriter creates a writer, creating the output directory if needed.
func NewWriter(outDir string) (*Writer, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{OutDir: outDir}, nil
}

// WriteJSON writes the audit document as <base>.audit.json and returns the
// written path.
func (w *Writer) WriteJSON(base string, doc *Document) (string, error) {
	data, err := doc.Encode()
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.OutDir, base+".audit.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// WriteMarkdown writes the derived Markdown report as <base>.audit.md and
// returns the written path.
func (w *Writer) WriteMarkdown(base string, doc *Document, kind artifact.Kind, source string) (string, error) {
	path := filepath.Join(w.OutDir, base+".audit.md")
	if err := os.WriteFile(path, []byte(Markdown(doc, kind, source)), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
