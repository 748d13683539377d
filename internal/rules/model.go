package rules

import (
	"fmt"
	"regexp"

	"github.com/lucim-tools/lucimaudit/internal/artifact"
)

var (
	pascalCaseRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	lowerCamelRe = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)
)

// ModelRules checks structural model artifacts: declared system, actors, and
// their operations. Structural rules first, then naming rules.
var ModelRules = []Rule{
	{
		ID:          "R-MOD-001",
		Kind:        artifact.KindModel,
		Severity:    SeverityError,
		Description: "model declares a system name",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			if a.Model.System == "" {
				return Violated("system", "missing or empty 'system' field")
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-MOD-002",
		Kind:        artifact.KindModel,
		Severity:    SeverityError,
		Description: "model declares at least one actor",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			if len(a.Model.Actors) == 0 {
				return Violated("actors", "no actors declared")
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-MOD-003",
		Kind:        artifact.KindModel,
		Severity:    SeverityError,
		Description: "every actor has a name",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			for _, actor := range a.Model.Actors {
				if actor.Name == "" {
					return Violated(actor.Path, "actor is missing a 'name' field")
				}
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-MOD-004",
		Kind:        artifact.KindModel,
		Severity:    SeverityError,
		Description: "actor names are unique",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			seen := make(map[string]bool)
			for _, actor := range a.Model.Actors {
				if actor.Name == "" {
					continue
				}
				if seen[actor.Name] {
					return Violated(actor.Path, fmt.Sprintf("duplicate actor name: %s", actor.Name))
				}
				seen[actor.Name] = true
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-MOD-005",
		Kind:        artifact.KindModel,
		Severity:    SeverityWarning,
		Description: "actor names use PascalCase",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			for _, actor := range a.Model.Actors {
				if actor.Name != "" && !pascalCaseRe.MatchString(actor.Name) {
					return Violated(actor.Path, fmt.Sprintf("actor name %q is not PascalCase", actor.Name))
				}
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-MOD-006",
		Kind:        artifact.KindModel,
		Severity:    SeverityWarning,
		Description: "operation names use lowerCamelCase",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			for _, actor := range a.Model.Actors {
				for _, op := range actor.Operations {
					if !lowerCamelRe.MatchString(op) {
						return Violated(actor.Path, fmt.Sprintf("operation name %q is not lowerCamelCase", op))
					}
				}
			}
			return Satisfied()
		},
	},
	{
		ID:          "R-MOD-007",
		Kind:        artifact.KindModel,
		Severity:    SeverityWarning,
		Description: "every actor declares at least one operation",
		Check: func(a *artifact.Artifact, _ map[artifact.Kind]*artifact.Artifact) Outcome {
			for _, actor := range a.Model.Actors {
				if len(actor.Operations) == 0 {
					return Violated(actor.Path, fmt.Sprintf("actor %q declares no operations", actor.Name))
				}
			}
			return Satisfied()
		},
	},
}
