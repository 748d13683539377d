// Package artifact parses raw LUCIM pipeline artifacts (structural models,
// interaction scenarios, PlantUML diagrams) into normalized in-memory forms.
// Parsing is total: malformed input yields an Artifact in an explicit
// parse-failed state instead of an error, so the audit engine can still
// report a verdict for garbage input.
package artifact

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies the type of artifact being audited.
type Kind string

const (
	// KindModel represents a structural model artifact (JSON).
	KindModel Kind = "model"
	// KindScenario represents an interaction scenario artifact (JSON).
	KindScenario Kind = "scenario"
	// KindDiagram represents a LUCIM PlantUML diagram artifact (text markup).
	KindDiagram Kind = "diagram"
)

// Artifact is the normalized form of one parsed artifact. Exactly one of
// Model, Scenario, or Diagram is populated, matching Kind, unless
// ParseFailed is set.
type Artifact struct {
	Kind  Kind
	Raw   string // original input text, unmodified
	// Lines holds the unwrapped artifact text (fences and delimiter markers
	// stripped) split into lines. "line N" locations in rule outcomes are
	// 1-based indexes into this slice, not into Raw.
	Lines []string

	ParseFailed bool
	ParseError  string

	Model    *Model
	Scenario *Scenario
	Diagram  *Diagram
}

// Model is the normalized structural model: the declared system plus its
// actors and their operations.
type Model struct {
	System string
	Actors []ModelActor
}

// ModelActor is one declared actor with its attributes.
type ModelActor struct {
	Name       string
	Type       string
	Operations []string
	Path       string // JSON-path style location, e.g. "actors[2]"
}

// ActorNames returns the declared actor names in declaration order.
func (m *Model) ActorNames() []string {
	names := make([]string, 0, len(m.Actors))
	for _, a := range m.Actors {
		names = append(names, a.Name)
	}
	return names
}

// HasActor reports whether an actor with the given name is declared.
func (m *Model) HasActor(name string) bool {
	for _, a := range m.Actors {
		if a.Name == name {
			return true
		}
	}
	return false
}

// ActorOperation reports whether the named actor declares the operation.
func (m *Model) ActorOperation(actor, op string) bool {
	for _, a := range m.Actors {
		if a.Name != actor {
			continue
		}
		for _, o := range a.Operations {
			if o == op {
				return true
			}
		}
	}
	return false
}

// Scenario is the normalized interaction scenario: an ordered sequence of
// message records.
type Scenario struct {
	Messages []ScenarioMessage
}

// ScenarioMessage is one interaction record. Empty From/To/Operation means
// the field was missing or blank in the source document.
type ScenarioMessage struct {
	Seq       int
	HasSeq    bool
	From      string
	To        string
	Operation string
	Path      string // JSON-path style location, e.g. "messages[0]"
}

// ParseKind parses a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "model":
		return KindModel, nil
	case "scenario":
		return KindScenario, nil
	case "diagram":
		return KindDiagram, nil
	default:
		return "", fmt.Errorf("invalid artifact kind: %s (valid kinds: model, scenario, diagram)", s)
	}
}

// ValidKinds returns the list of valid artifact kind strings.
func ValidKinds() []string {
	return []string{"model", "scenario", "diagram"}
}

// InferKindFromFilename infers the artifact kind from a filename. Diagram
// sources carry a .puml/.plantuml extension; JSON artifacts are recognized
// by basename prefix (model.json, scenario.json, and the pipeline's
// audit companions like diagram_initial.puml).
func InferKindFromFilename(filename string) (Kind, error) {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)

	switch ext {
	case ".puml", ".plantuml":
		return KindDiagram, nil
	}

	name := strings.TrimSuffix(base, ext)
	switch {
	case name == "model" || strings.HasPrefix(name, "model_"):
		return KindModel, nil
	case name == "scenario" || strings.HasPrefix(name, "scenario_"):
		return KindScenario, nil
	case name == "diagram" || strings.HasPrefix(name, "diagram_"):
		return KindDiagram, nil
	}

	return "", fmt.Errorf("cannot infer artifact kind from filename: %s", base)
}
