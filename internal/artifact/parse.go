package artifact

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// markerRe matches the [START_X]/[END_X] delimiters the upstream conversion
// agent wraps around extracted artifacts.
var markerRe = regexp.MustCompile(`(?s)\[START_[A-Z_]+\](.*?)\[END_[A-Z_]+\]`)

// Parse converts raw artifact text into a normalized Artifact. It never
// returns an error: structural failures produce an Artifact with
// ParseFailed set and the parse error recorded.
func Parse(raw string, kind Kind) *Artifact {
	text := stripWrapping(raw)

	a := &Artifact{
		Kind:  kind,
		Raw:   raw,
		Lines: strings.Split(text, "\n"),
	}

	switch kind {
	case KindModel, KindScenario:
		doc, err := parseStructured(text)
		if err != nil {
			a.ParseFailed = true
			a.ParseError = err.Error()
			return a
		}
		if kind == KindModel {
			a.Model = normalizeModel(doc)
		} else {
			a.Scenario = normalizeScenario(doc)
		}
	case KindDiagram:
		a.Diagram = lexDiagram(text)
	default:
		a.ParseFailed = true
		a.ParseError = fmt.Sprintf("unknown artifact kind: %s", kind)
	}

	return a
}

// stripWrapping removes markdown code fences and agent delimiter markers,
// leaving the bare artifact text. Unwrapped input passes through unchanged.
func stripWrapping(raw string) string {
	text := strings.TrimSpace(raw)

	// Delimiter markers first: the agent wraps fenced blocks inside them.
	if m := markerRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	// Markdown code fence, with or without a language tag, possibly preceded
	// by prose. The first fenced block is taken as the artifact.
	if start := strings.Index(text, "```"); start >= 0 {
		body := text[start+3:]
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			// Drop the opening fence line (```json, ```plantuml, ...).
			body = body[nl+1:]
		}
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		text = strings.TrimSpace(body)
	}

	return text
}

// parseStructured parses JSON, falling back to YAML. JSON is a YAML subset,
// but models occasionally emit unquoted keys or trailing commas that the
// YAML parser tolerates; the JSON error is reported when both fail since
// JSON is the expected encoding.
func parseStructured(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty document")
	}

	var doc any
	jsonErr := json.Unmarshal([]byte(text), &doc)
	if jsonErr == nil {
		return doc, nil
	}

	var ydoc any
	if yamlErr := yaml.Unmarshal([]byte(text), &ydoc); yamlErr == nil {
		return normalizeYAML(ydoc), nil
	}

	return nil, fmt.Errorf("invalid JSON: %v", jsonErr)
}

// normalizeYAML converts yaml.v3's map[string]any/map[any]any trees into the
// same shape encoding/json produces, so downstream extraction is uniform.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	default:
		return v
	}
}

// normalizeModel extracts the structural model from a parsed document.
// Extraction is tolerant: missing sections yield empty fields, which the
// rule catalog flags, rather than a parse failure.
func normalizeModel(doc any) *Model {
	m := &Model{}

	root, ok := doc.(map[string]any)
	if !ok {
		return m
	}

	m.System = stringField(root, "system")

	actors, ok := root["actors"].([]any)
	if !ok {
		return m
	}

	for i, entry := range actors {
		actor := ModelActor{Path: fmt.Sprintf("actors[%d]", i)}
		obj, ok := entry.(map[string]any)
		if !ok {
			m.Actors = append(m.Actors, actor)
			continue
		}
		actor.Name = stringField(obj, "name")
		actor.Type = stringField(obj, "type")
		if ops, ok := obj["operations"].([]any); ok {
			for _, op := range ops {
				if s, ok := op.(string); ok {
					actor.Operations = append(actor.Operations, s)
				}
			}
		}
		m.Actors = append(m.Actors, actor)
	}

	return m
}

// normalizeScenario extracts the ordered message records. Accepts either a
// top-level array or an object with a "messages" (or legacy "interactions")
// array.
func normalizeScenario(doc any) *Scenario {
	s := &Scenario{}

	records, key := scenarioRecords(doc)
	for i, entry := range records {
		msg := ScenarioMessage{Path: fmt.Sprintf("%s[%d]", key, i)}
		obj, ok := entry.(map[string]any)
		if !ok {
			s.Messages = append(s.Messages, msg)
			continue
		}
		msg.From = stringField(obj, "from")
		msg.To = stringField(obj, "to")
		msg.Operation = stringField(obj, "operation")
		if seq, ok := numberField(obj, "seq"); ok {
			msg.Seq = seq
			msg.HasSeq = true
		}
		s.Messages = append(s.Messages, msg)
	}

	return s
}

func scenarioRecords(doc any) ([]any, string) {
	if arr, ok := doc.([]any); ok {
		return arr, "messages"
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, "messages"
	}
	if arr, ok := root["messages"].([]any); ok {
		return arr, "messages"
	}
	if arr, ok := root["interactions"].([]any); ok {
		return arr, "interactions"
	}
	return nil, "messages"
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func numberField(obj map[string]any, key string) (int, bool) {
	switch n := obj[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}
