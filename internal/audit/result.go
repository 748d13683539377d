// Package audit evaluates a rule catalog against a parsed artifact and
// produces a verdict with violations and coverage bookkeeping. Evaluation is
// pure and deterministic: identical input yields an identical Result, and
// auditing never fails for caller-supplied artifact content.
package audit

import (
	"github.com/lucim-tools/lucimaudit/internal/artifact"
	"github.com/lucim-tools/lucimaudit/internal/rules"
)

// Violation is one violated rule with its location in the artifact.
type Violation struct {
	RuleID   string
	Location string
	Message  string
	Severity rules.Severity
}

// NotApplicableEntry records a rule that was skipped and why.
type NotApplicableEntry struct {
	RuleID string
	Reason string
}

// Coverage records which rules were evaluated, skipped, or unreachable for
// one audit. Invariant: Total == len(Evaluated) + len(NotApplicable) +
// len(Missing), with Missing empty by construction.
type Coverage struct {
	Total         int
	Evaluated     []string
	NotApplicable []NotApplicableEntry
	Missing       []string
}

// Result is the outcome of one audit call. Immutable once returned.
type Result struct {
	Kind       artifact.Kind
	Compliant  bool
	Violations []Violation
	Coverage   Coverage
}

// ViolatedRuleIDs returns the IDs of violated rules in catalog order.
func (r *Result) ViolatedRuleIDs() []string {
	ids := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		ids = append(ids, v.RuleID)
	}
	return ids
}

// HasWarnings reports whether any warning-severity violation was recorded.
func (r *Result) HasWarnings() bool {
	for _, v := range r.Violations {
		if v.Severity == rules.SeverityWarning {
			return true
		}
	}
	return false
}
