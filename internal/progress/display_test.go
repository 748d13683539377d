package progress

import (
	"testing"
)

func TestFormatFileCounter(t *testing.T) {
	if got := formatFileCounter(2, 5); got != "[2/5]" {
		t.Errorf("formatFileCounter(2, 5) = %q, want [2/5]", got)
	}
}

func TestBuildFileMessage(t *testing.T) {
	info := FileInfo{Name: "diagram_initial.puml", Number: 3, TotalFiles: 4}
	got := buildFileMessage(info, "Auditing")
	want := "[3/4] Auditing diagram_initial.puml"
	if got != want {
		t.Errorf("buildFileMessage() = %q, want %q", got, want)
	}
}

func TestStartFile_RejectsInvalidInfo(t *testing.T) {
	d := NewDisplay(TerminalCapabilities{})

	err := d.StartFile(FileInfo{Name: "", Number: 1, TotalFiles: 1})
	if err == nil {
		t.Fatal("expected validation error for empty name")
	}
	if d.spinner != nil {
		t.Error("spinner must not start for invalid file info")
	}
}
