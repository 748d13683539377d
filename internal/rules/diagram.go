package rules

import (
	"fmt"

	"github.com/lucim-tools/lucimaudit/internal/artifact"
)

// gatingFragments are the combined-fragment keywords outside the LUCIM
// subset. "else" and "end" are only reached inside one of these, so the
// opening keyword is the violation.
var gatingFragments = map[string]bool{
	"alt": true, "opt": true, "loop": true, "par": true,
	"break": true, "critical": true, "group": true,
}

func lineLoc(n int) string {
	return fmt.Sprintf("line %d", n)
}

// DiagramRules checks LUCIM PlantUML diagram artifacts. Marker and
// declaration rules first, then message rules, then LUCIM-subset rules,
// then cross-reference rules against the companion model and scenario.
var DiagramRules = []Rule{
	{
		ID:          "R-DIAG-001",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityError,
		Description: "diagram opens with @startuml",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			if !a.Diagram.HasStart {
				return Violated("", "missing @startuml marker")
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-DIAG-002",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityError,
		Description: "diagram closes with @enduml",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			if !a.Diagram.HasEnd {
				return Violated("", "missing @enduml terminal marker")
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-DIAG-003",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityError,
		Description: "diagram declares at least one participant",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			if len(a.Diagram.Participants) == 0 {
				return Violated("", "no participants declared")
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-DIAG-004",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityError,
		Description: "diagram contains at least one message",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			if len(a.Diagram.Messages) == 0 {
				return Violated("", "no message arrows found")
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-DIAG-005",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityError,
		Description: "every message endpoint is a declared participant",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			for _, msg := range a.Diagram.Messages {
				if !a.Diagram.HasParticipant(msg.From) {
					return Violated(lineLoc(msg.Line), fmt.Sprintf("undeclared participant: %s", msg.From))
				}
				if !a.Diagram.HasParticipant(msg.To) {
					return Violated(lineLoc(msg.Line), fmt.Sprintf("undeclared participant: %s", msg.To))
				}
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-DIAG-006",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityError,
		Description: "participants are declared before first use",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			for _, msg := range a.Diagram.Messages {
				for _, name := range []string{msg.From, msg.To} {
					decl := declarationLine(a.Diagram, name)
					if decl > 0 && decl > msg.Line {
						return Violated(lineLoc(msg.Line),
							fmt.Sprintf("participant %s used before its declaration on line %d", name, decl))
					}
				}
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-DIAG-007",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityError,
		Description: "every message carries a non-empty label",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			for _, msg := range a.Diagram.Messages {
				if msg.Label == "" {
					return Violated(lineLoc(msg.Line), fmt.Sprintf("message %s -> %s has no label", msg.From, msg.To))
				}
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-DIAG-008",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityError,
		Description: "activate and deactivate directives are balanced per participant",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			depth := make(map[string]int)
			for _, act := range a.Diagram.Activations {
				if act.Op == "activate" {
					depth[act.Target]++
					continue
				}
				depth[act.Target]--
				if depth[act.Target] < 0 {
					return Violated(lineLoc(act.Line), fmt.Sprintf("deactivate %s without matching activate", act.Target))
				}
			}
			// Report the first unbalanced activate in source order so the
			// violation is reproducible across runs.
			for _, act := range a.Diagram.Activations {
				if act.Op == "activate" && depth[act.Target] > 0 {
					return Violated(lineLoc(act.Line), fmt.Sprintf("activate %s is never deactivated", act.Target))
				}
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-DIAG-009",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityError,
		Description: "no combined fragments (alt/opt/loop/par/break/critical/group)",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			for _, frag := range a.Diagram.Fragments {
				if gatingFragments[frag.Keyword] {
					return Violated(lineLoc(frag.Line), fmt.Sprintf("combined fragment %q is outside the LUCIM subset", frag.Keyword))
				}
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-DIAG-010",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityWarning,
		Description: "no note constructs",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			if len(a.Diagram.Notes) > 0 {
				return Violated(lineLoc(a.Diagram.Notes[0]), "note constructs are outside the LUCIM subset")
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-DIAG-011",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityWarning,
		Description: "diagram declares a title",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			if a.Diagram.Title == "" {
				return Violated("", "missing title")
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-DIAG-012",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityError,
		Description: "every participant matches a declared model actor",
		Companions:  []artifact.Kind{artifact.KindModel},
		Check: func(a *artifact.Artifact, companions map[artifact.Kind]*artifact.Artifact) Outcome {
			model := companions[artifact.KindModel].Model
			for _, p := range a.Diagram.Participants {
				if !model.HasActor(p.Name) && !model.HasActor(p.Alias) {
					return Violated(lineLoc(p.Line), fmt.Sprintf("participant %q does not match any model actor", p.Name))
				}
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-DIAG-013",
		Kind:        artifact.KindDiagram,
		Severity:    SeverityError,
		Description: "message sequence matches the companion scenario",
		Companions:  []artifact.Kind{artifact.KindScenario},
		Check: func(a *artifact.Artifact, companions map[artifact.Kind]*artifact.Artifact) Outcome {
			expected := companions[artifact.KindScenario].Scenario.Messages
			got := a.Diagram.Messages

			n := len(got)
			if len(expected) < n {
				n = len(expected)
			}
			for i := 0; i < n; i++ {
				if got[i].Label != expected[i].Operation {
					return Violated(lineLoc(got[i].Line),
						fmt.Sprintf("message %d is %q, scenario expects %q", i+1, got[i].Label, expected[i].Operation))
				}
			}
			if len(got) != len(expected) {
				return Violated("", fmt.Sprintf("diagram has %d messages, scenario has %d", len(got), len(expected)))
			}
			return Satisfied()
		},
	},
}

// declarationLine returns the declaration line for a participant name or
// alias, or 0 if undeclared (R-DIAG-005's concern, not this one's).
func declarationLine(d *artifact.Diagram, name string) int {
	for _, p := range d.Participants {
		if p.Name == name || p.Alias == name {
			return p.Line
		}
	}
	return 0
}
