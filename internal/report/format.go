// Package report renders audit results into the stable external schema
// consumed by downstream tooling, writes per-audit report files, and
// aggregates initial/final audit pairs into confusion-style metrics.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lucim-tools/lucimaudit/internal/audit"
)

// Verdict encodings in the stable schema. These strings and the Document
// field names are a contract with downstream aggregation; changing either
// requires a schema version bump.
const (
	VerdictCompliant    = "compliant"
	VerdictNonCompliant = "non-compliant"
)

// Document is the stable output schema for one audit. Field order is fixed
// by struct order, so serialized documents diff cleanly.
type Document struct {
	Verdict           string           `json:"verdict"`
	NonCompliantRules []string         `json:"non-compliant-rules"`
	Violations        []ViolationEntry `json:"violations"`
	Coverage          CoverageEntry    `json:"coverage"`
}

// ViolationEntry is one violation in the stable schema.
type ViolationEntry struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// CoverageEntry is the coverage record in the stable schema.
type CoverageEntry struct {
	TotalRulesInDSL int                  `json:"total_rules_in_dsl"`
	Evaluated       []string             `json:"evaluated"`
	NotApplicable   []NotApplicableEntry `json:"not_applicable"`
}

// NotApplicableEntry is one skipped rule with its reason.
type NotApplicableEntry struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// FromResult converts an audit result into the stable schema. Slices are
// always non-nil so empty lists serialize as [] rather than null.
func FromResult(r *audit.Result) *Document {
	doc := &Document{
		Verdict:           VerdictNonCompliant,
		NonCompliantRules: make([]string, 0, len(r.Violations)),
		Violations:        make([]ViolationEntry, 0, len(r.Violations)),
		Coverage: CoverageEntry{
			TotalRulesInDSL: r.Coverage.Total,
			Evaluated:       make([]string, 0, len(r.Coverage.Evaluated)),
			NotApplicable:   make([]NotApplicableEntry, 0, len(r.Coverage.NotApplicable)),
		},
	}
	if r.Compliant {
		doc.Verdict = VerdictCompliant
	}

	for _, v := range r.Violations {
		doc.NonCompliantRules = append(doc.NonCompliantRules, v.RuleID)
		doc.Violations = append(doc.Violations, ViolationEntry{
			ID:       v.RuleID,
			Location: v.Location,
			Message:  v.Message,
			Severity: string(v.Severity),
		})
	}

	doc.Coverage.Evaluated = append(doc.Coverage.Evaluated, r.Coverage.Evaluated...)
	for _, na := range r.Coverage.NotApplicable {
		doc.Coverage.NotApplicable = append(doc.Coverage.NotApplicable, NotApplicableEntry{
			ID:     na.RuleID,
			Reason: na.Reason,
		})
	}

	return doc
}

// Encode serializes the document with stable field order and two-space
// indentation.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding audit document: %w", err)
	}
	return append(data, '\n'), nil
}

// LoadDocument reads and validates an audit JSON document from disk.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading audit document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing audit document %s: %w", path, err)
	}

	if doc.Verdict != VerdictCompliant && doc.Verdict != VerdictNonCompliant {
		return nil, fmt.Errorf("audit document %s: invalid verdict %q (schema mismatch?)", path, doc.Verdict)
	}

	return &doc, nil
}
