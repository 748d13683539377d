package rules

import (
	"fmt"

	"github.com/lucim-tools/lucimaudit/internal/artifact"
)

// ScenarioRules checks interaction scenario artifacts. Structural rules
// first, then cross-reference rules against the companion structural model.
var ScenarioRules = []Rule{
	{
		ID:          "R-SCN-001",
		Kind:        artifact.KindScenario,
		Severity:    SeverityError,
		Description: "scenario contains at least one message",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			if len(a.Scenario.Messages) == 0 {
				return Violated("messages", "no messages in scenario")
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-SCN-002",
		Kind:        artifact.KindScenario,
		Severity:    SeverityError,
		Description: "every message carries from, to, and operation fields",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			for _, msg := range a.Scenario.Messages {
				switch {
				case msg.From == "":
					return Violated(msg.Path, "message is missing a 'from' field")
				case msg.To == "":
					return Violated(msg.Path, "message is missing a 'to' field")
				case msg.Operation == "":
					return Violated(msg.Path, "message is missing an 'operation' field")
				}
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-SCN-003",
		Kind:        artifact.KindScenario,
		Severity:    SeverityWarning,
		Description: "messages carry explicit sequence numbers",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			for _, msg := range a.Scenario.Messages {
				if !msg.HasSeq {
					return Violated(msg.Path, "message has no 'seq' field")
				}
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-SCN-004",
		Kind:        artifact.KindScenario,
		Severity:    SeverityError,
		Description: "declared sequence numbers are dense and ascending from 1",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			next := 1
			for _, msg := range a.Scenario.Messages {
				if !msg.HasSeq {
					continue
				}
				if msg.Seq != next {
					return Violated(msg.Path, fmt.Sprintf("sequence number %d, expected %d", msg.Seq, next))
				}
				next++
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-SCN-005",
		Kind:        artifact.KindScenario,
		Severity:    SeverityError,
		Description: "message senders and receivers are declared in the structural model",
		Companions:  []artifact.Kind{artifact.KindModel},
		Check: func(a *artifact.Artifact, companions map[artifact.Kind]*artifact.Artifact) Outcome {
			model := companions[artifact.KindModel].Model
			for _, msg := range a.Scenario.Messages {
				if msg.From != "" && !model.HasActor(msg.From) {
					return Violated(msg.Path, fmt.Sprintf("sender %q is not a declared actor", msg.From))
				}
				if msg.To != "" && !model.HasActor(msg.To) {
					return Violated(msg.Path, fmt.Sprintf("receiver %q is not a declared actor", msg.To))
				}
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-SCN-006",
		Kind:        artifact.KindScenario,
		Severity:    SeverityError,
		Description: "message operations are declared on the receiving actor",
		Companions:  []artifact.Kind{artifact.KindModel},
		Check: func(a *artifact.Artifact, companions map[artifact.Kind]*artifact.Artifact) Outcome {
			model := companions[artifact.KindModel].Model
			for _, msg := range a.Scenario.Messages {
				if msg.To == "" || msg.Operation == "" || !model.HasActor(msg.To) {
					continue
				}
				if !model.ActorOperation(msg.To, msg.Operation) {
					return Violated(msg.Path, fmt.Sprintf("operation %q is not declared on actor %q", msg.Operation, msg.To))
				}
			}
			return Satisfied()
		},
	},
}
