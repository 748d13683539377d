// Package cli tests the audit command: argument parsing, kind inference,
// report writing, and exit codes.
// Related: internal/cli/audit.go
package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lucim-tools/lucimaudit/internal/artifact"
)

const testModelJSON = `{
  "system": "Boids",
  "actors": [
    {"name": "Bird", "operations": ["flock", "align"]},
    {"name": "Observer", "operations": ["setup", "go"]}
  ]
}`

const testDiagramPUML = `@startuml
title Boids
participant Bird
participant Observer
Observer -> Bird : flock
@enduml`

// isolate points HOME at a temp directory so a developer's real global
// config cannot leak into the test, and resets the companion flags.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	auditModelFlag = ""
	auditScenarioFlag = ""
	t.Cleanup(func() {
		auditModelFlag = ""
		auditScenarioFlag = ""
	})
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestParseAuditArgs(t *testing.T) {
	tests := map[string]struct {
		args     []string
		wantKind artifact.Kind
		wantPath string
		wantErr  bool
	}{
		"explicit kind":          {args: []string{"diagram", "out/final.txt"}, wantKind: artifact.KindDiagram, wantPath: "out/final.txt"},
		"explicit model":         {args: []string{"model", "m.json"}, wantKind: artifact.KindModel, wantPath: "m.json"},
		"invalid kind":           {args: []string{"blueprint", "x.json"}, wantErr: true},
		"inferred from puml":     {args: []string{"out/diagram_initial.puml"}, wantKind: artifact.KindDiagram, wantPath: "out/diagram_initial.puml"},
		"inferred from basename": {args: []string{"out/scenario.json"}, wantKind: artifact.KindScenario, wantPath: "out/scenario.json"},
		"uninferable":            {args: []string{"out/notes.txt"}, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			kind, path, err := parseAuditArgs(tt.args)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", kind, tt.wantKind)
			}
			if path != tt.wantPath {
				t.Errorf("path = %q, want %q", path, tt.wantPath)
			}
		})
	}
}

func TestAuditCommand_CompliantModel(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	modelPath := writeTestFile(t, dir, "model.json", testModelJSON)
	outDir := filepath.Join(dir, "reports")

	var stdout, stderr bytes.Buffer
	err := runAuditCommand([]string{modelPath}, "", outDir, &stdout, &stderr)

	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "is compliant") {
		t.Errorf("stdout should report compliance, got: %s", stdout.String())
	}

	// Both configured report formats land in the output directory.
	for _, name := range []string{"model.audit.json", "model.audit.md"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected report %s: %v", name, err)
		}
	}
}

func TestAuditCommand_NonCompliant(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	modelPath := writeTestFile(t, dir, "model.json", `{"system": "S", "actors": []}`)

	var stdout, stderr bytes.Buffer
	err := runAuditCommand([]string{modelPath}, "", dir, &stdout, &stderr)

	if code := ExitCode(err); code != ExitNonCompliant {
		t.Errorf("exit code = %d, want %d", code, ExitNonCompliant)
	}
	if !strings.Contains(stderr.String(), "non-compliant") {
		t.Errorf("stderr should report non-compliance, got: %s", stderr.String())
	}
	if !strings.Contains(stderr.String(), "R-MOD-002") {
		t.Errorf("stderr should name the violated rule, got: %s", stderr.String())
	}
}

func TestAuditCommand_ParseFailureIsNonCompliant(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	modelPath := writeTestFile(t, dir, "model.json", "this is not JSON")

	var stdout, stderr bytes.Buffer
	err := runAuditCommand([]string{modelPath}, "", dir, &stdout, &stderr)

	// A malformed artifact is a verdict, not a tool failure.
	if code := ExitCode(err); code != ExitNonCompliant {
		t.Errorf("exit code = %d, want %d", code, ExitNonCompliant)
	}
	if !strings.Contains(stderr.String(), "R-PARSE-000") {
		t.Errorf("stderr should carry the parse-failure rule, got: %s", stderr.String())
	}
}

func TestAuditCommand_MissingFile(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	err := runAuditCommand([]string{"model", "nonexistent.json"}, "", t.TempDir(), &stdout, &stderr)

	if code := ExitCode(err); code != ExitInvalidArguments {
		t.Errorf("exit code = %d, want %d", code, ExitInvalidArguments)
	}
	if !strings.Contains(stderr.String(), "reading artifact") {
		t.Errorf("stderr should report the read failure, got: %s", stderr.String())
	}
}

func TestAuditCommand_InvalidKind(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	err := runAuditCommand([]string{"blueprint", "x.json"}, "", t.TempDir(), &stdout, &stderr)

	if code := ExitCode(err); code != ExitInvalidArguments {
		t.Errorf("exit code = %d, want %d", code, ExitInvalidArguments)
	}
	if !strings.Contains(stderr.String(), "Valid kinds: model, scenario, diagram") {
		t.Errorf("stderr should list valid kinds, got: %s", stderr.String())
	}
}

func TestAuditCommand_CompanionEnablesCrossChecks(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeTestFile(t, dir, "model.json", testModelJSON)
	diagramPath := writeTestFile(t, dir, "diagram.puml", testDiagramPUML)
	auditModelFlag = filepath.Join(dir, "model.json")

	var stdout, stderr bytes.Buffer
	err := runAuditCommand([]string{diagramPath}, "", dir, &stdout, &stderr)

	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr.String())
	}

	// With the model supplied, the participant cross-check runs instead of
	// being skipped, so more rules are evaluated.
	data, readErr := os.ReadFile(filepath.Join(dir, "diagram.audit.json"))
	if readErr != nil {
		t.Fatalf("reading report: %v", readErr)
	}
	if !strings.Contains(string(data), "R-DIAG-012") {
		t.Errorf("report should show R-DIAG-012 evaluated, got: %s", data)
	}
}

func TestAuditCommand_ShowsOffendingSourceLine(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	// Fenced diagram with an undeclared endpoint: the echoed source line must
	// come from the unwrapped text, so fence lines cannot offset it.
	diagramPath := writeTestFile(t, dir, "diagram.puml",
		"```plantuml\n@startuml\ntitle X\nparticipant Bird\nBird -> Ghost : boo\n@enduml\n```")

	var stdout, stderr bytes.Buffer
	err := runAuditCommand([]string{diagramPath}, "", dir, &stdout, &stderr)

	if code := ExitCode(err); code != ExitNonCompliant {
		t.Errorf("exit code = %d, want %d", code, ExitNonCompliant)
	}
	if !strings.Contains(stderr.String(), "Location: line 4") {
		t.Errorf("stderr should locate the violation in the unwrapped text, got: %s", stderr.String())
	}
	if !strings.Contains(stderr.String(), "> Bird -> Ghost : boo") {
		t.Errorf("stderr should echo the offending source line, got: %s", stderr.String())
	}
}

func TestAuditCommand_FailOnWarnings(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	// Lowercase actor name: warning only, verdict stays compliant.
	modelPath := writeTestFile(t, dir, "model.json",
		`{"system": "S", "actors": [{"name": "bird", "operations": ["flock"]}]}`)

	var stdout, stderr bytes.Buffer
	err := runAuditCommand([]string{modelPath}, "", dir, &stdout, &stderr)
	if err != nil {
		t.Fatalf("warnings alone must not fail the audit: %v", err)
	}
	if !strings.Contains(stdout.String(), "warning") {
		t.Errorf("stdout should mention warnings, got: %s", stdout.String())
	}

	t.Setenv("LUCIMAUDIT_FAIL_ON_WARNINGS", "true")
	stdout.Reset()
	stderr.Reset()
	err = runAuditCommand([]string{modelPath}, "", dir, &stdout, &stderr)
	if code := ExitCode(err); code != ExitNonCompliant {
		t.Errorf("exit code = %d, want %d with fail_on_warnings", code, ExitNonCompliant)
	}

	// The recorded verdict stays compliant even when the exit code tightens.
	data, readErr := os.ReadFile(filepath.Join(dir, "model.audit.json"))
	if readErr != nil {
		t.Fatalf("reading report: %v", readErr)
	}
	if !strings.Contains(string(data), `"verdict": "compliant"`) {
		t.Errorf("verdict should stay compliant, got: %s", data)
	}
}

func TestAuditCommand_MaxViolationsTruncatesDisplay(t *testing.T) {
	isolate(t)
	t.Setenv("LUCIMAUDIT_MAX_VIOLATIONS", "1")
	dir := t.TempDir()
	// Missing system name and no actors: two error violations.
	modelPath := writeTestFile(t, dir, "model.json", `{"actors": []}`)

	var stdout, stderr bytes.Buffer
	err := runAuditCommand([]string{modelPath}, "", dir, &stdout, &stderr)

	if code := ExitCode(err); code != ExitNonCompliant {
		t.Errorf("exit code = %d, want %d", code, ExitNonCompliant)
	}
	if !strings.Contains(stderr.String(), "more (see report file)") {
		t.Errorf("stderr should note truncation, got: %s", stderr.String())
	}

	// The report file itself is never truncated.
	data, readErr := os.ReadFile(filepath.Join(dir, "model.audit.json"))
	if readErr != nil {
		t.Fatalf("reading report: %v", readErr)
	}
	for _, id := range []string{"R-MOD-001", "R-MOD-002"} {
		if !strings.Contains(string(data), id) {
			t.Errorf("report should contain %s, got: %s", id, data)
		}
	}
}
