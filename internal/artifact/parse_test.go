package artifact

import (
	"strings"
	"testing"
)

const validModelJSON = `{
  "system": "Boids",
  "actors": [
    {"name": "Bird", "type": "agent", "operations": ["flock", "align"]},
    {"name": "Observer", "type": "observer", "operations": ["setup", "go"]}
  ]
}`

func TestParse_ModelValid(t *testing.T) {
	a := Parse(validModelJSON, KindModel)

	if a.ParseFailed {
		t.Fatalf("unexpected parse failure: %s", a.ParseError)
	}
	if a.Model == nil {
		t.Fatal("expected Model to be populated")
	}
	if a.Model.System != "Boids" {
		t.Errorf("System = %q, want %q", a.Model.System, "Boids")
	}
	if len(a.Model.Actors) != 2 {
		t.Fatalf("len(Actors) = %d, want 2", len(a.Model.Actors))
	}
	if a.Model.Actors[0].Name != "Bird" {
		t.Errorf("Actors[0].Name = %q, want Bird", a.Model.Actors[0].Name)
	}
	if a.Model.Actors[1].Path != "actors[1]" {
		t.Errorf("Actors[1].Path = %q, want actors[1]", a.Model.Actors[1].Path)
	}
	if !a.Model.ActorOperation("Bird", "flock") {
		t.Error("expected Bird to declare operation flock")
	}
	if a.Model.ActorOperation("Bird", "setup") {
		t.Error("setup is declared on Observer, not Bird")
	}
}

func TestParse_ModelInMarkdownFence(t *testing.T) {
	raw := "Here is the model:\n\n```json\n" + validModelJSON + "\n```\n"
	a := Parse(raw, KindModel)

	if a.ParseFailed {
		t.Fatalf("unexpected parse failure: %s", a.ParseError)
	}
	if len(a.Model.Actors) != 2 {
		t.Errorf("len(Actors) = %d, want 2", len(a.Model.Actors))
	}
}

func TestParse_ModelInDelimiterMarkers(t *testing.T) {
	raw := "preamble\n[START_MODEL]\n" + validModelJSON + "\n[END_MODEL]\ntrailing prose"
	a := Parse(raw, KindModel)

	if a.ParseFailed {
		t.Fatalf("unexpected parse failure: %s", a.ParseError)
	}
	if a.Model.System != "Boids" {
		t.Errorf("System = %q, want Boids", a.Model.System)
	}
}

func TestParse_FenceInsideMarkers(t *testing.T) {
	raw := "[START_MODEL]\n```json\n" + validModelJSON + "\n```\n[END_MODEL]"
	a := Parse(raw, KindModel)

	if a.ParseFailed {
		t.Fatalf("unexpected parse failure: %s", a.ParseError)
	}
}

func TestParse_YAMLFallback(t *testing.T) {
	raw := "system: Boids\nactors:\n  - name: Bird\n    operations: [flock]\n"
	a := Parse(raw, KindModel)

	if a.ParseFailed {
		t.Fatalf("expected YAML fallback to succeed, got: %s", a.ParseError)
	}
	if len(a.Model.Actors) != 1 || a.Model.Actors[0].Name != "Bird" {
		t.Errorf("unexpected actors: %+v", a.Model.Actors)
	}
}

func TestParse_GarbageIsParseFailed(t *testing.T) {
	a := Parse("{{{ not json : at all", KindModel)

	if !a.ParseFailed {
		t.Fatal("expected ParseFailed for garbage input")
	}
	if a.ParseError == "" {
		t.Error("expected ParseError to carry the parse error message")
	}
	if a.Raw == "" {
		t.Error("expected Raw to retain the original text")
	}
}

func TestParse_EmptyIsParseFailed(t *testing.T) {
	a := Parse("   \n\n", KindScenario)

	if !a.ParseFailed {
		t.Fatal("expected ParseFailed for empty input")
	}
	if !strings.Contains(a.ParseError, "empty") {
		t.Errorf("ParseError = %q, want mention of empty document", a.ParseError)
	}
}

func TestParse_ScenarioMessagesKey(t *testing.T) {
	raw := `{"messages": [
	  {"seq": 1, "from": "Observer", "to": "Bird", "operation": "setup"},
	  {"seq": 2, "from": "Bird", "to": "Bird", "operation": "flock"}
	]}`
	a := Parse(raw, KindScenario)

	if a.ParseFailed {
		t.Fatalf("unexpected parse failure: %s", a.ParseError)
	}
	if len(a.Scenario.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(a.Scenario.Messages))
	}
	first := a.Scenario.Messages[0]
	if !first.HasSeq || first.Seq != 1 {
		t.Errorf("Messages[0].Seq = %d (HasSeq=%v), want 1", first.Seq, first.HasSeq)
	}
	if first.Path != "messages[0]" {
		t.Errorf("Messages[0].Path = %q, want messages[0]", first.Path)
	}
}

func TestParse_ScenarioTopLevelArray(t *testing.T) {
	raw := `[{"from": "A", "to": "B", "operation": "ping"}]`
	a := Parse(raw, KindScenario)

	if a.ParseFailed {
		t.Fatalf("unexpected parse failure: %s", a.ParseError)
	}
	if len(a.Scenario.Messages) != 1 {
		t.Fatalf("len(Messages) = %d, want 1", len(a.Scenario.Messages))
	}
	if a.Scenario.Messages[0].Operation != "ping" {
		t.Errorf("Operation = %q, want ping", a.Scenario.Messages[0].Operation)
	}
}

func TestParse_ScenarioMissingFieldsAreEmpty(t *testing.T) {
	raw := `{"messages": [{"from": "A"}]}`
	a := Parse(raw, KindScenario)

	msg := a.Scenario.Messages[0]
	if msg.To != "" || msg.Operation != "" {
		t.Errorf("expected missing fields to normalize to empty strings, got %+v", msg)
	}
	if msg.HasSeq {
		t.Error("expected HasSeq=false when seq is absent")
	}
}

func TestParse_LinesMatchReportedLineNumbers(t *testing.T) {
	// Fenced input: the lexer numbers lines in the unwrapped text, and Lines
	// must index the same way so "line N" locations resolve to the right
	// source line.
	raw := "The diagram:\n\n```plantuml\n@startuml\ntitle Boids\nparticipant Bird\n@enduml\n```\n"
	a := Parse(raw, KindDiagram)

	if a.Diagram.StartLine != 1 {
		t.Fatalf("StartLine = %d, want 1 (relative to unwrapped text)", a.Diagram.StartLine)
	}
	if got := a.Lines[a.Diagram.StartLine-1]; got != "@startuml" {
		t.Errorf("Lines[StartLine-1] = %q, want @startuml", got)
	}
	if len(a.Diagram.Participants) != 1 {
		t.Fatalf("len(Participants) = %d, want 1", len(a.Diagram.Participants))
	}
	p := a.Diagram.Participants[0]
	if got := a.Lines[p.Line-1]; got != "participant Bird" {
		t.Errorf("Lines[%d] = %q, want the participant declaration", p.Line-1, got)
	}
	if a.Raw != raw {
		t.Error("Raw must keep the original wrapped text")
	}
}

func TestInferKindFromFilename(t *testing.T) {
	tests := map[string]struct {
		filename string
		want     Kind
		wantErr  bool
	}{
		"model json":        {filename: "model.json", want: KindModel},
		"scenario json":     {filename: "out/scenario.json", want: KindScenario},
		"diagram puml":      {filename: "diagram_initial.puml", want: KindDiagram},
		"corrected diagram": {filename: "diagram_corrected.puml", want: KindDiagram},
		"plantuml ext":      {filename: "anything.plantuml", want: KindDiagram},
		"model variant":     {filename: "model_v2.json", want: KindModel},
		"unrelated":         {filename: "raw_response.json", wantErr: true},
		"no extension":      {filename: "README", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := InferKindFromFilename(tt.filename)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got kind %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("kind = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseKind_Invalid(t *testing.T) {
	if _, err := ParseKind("blueprint"); err == nil {
		t.Fatal("expected error for invalid kind")
	}
}
