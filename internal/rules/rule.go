// Package rules defines the LUCIM compliance rule catalog: an immutable,
// ordered set of rules, each a pure predicate over a parsed artifact and its
// companion artifacts. Rules are data; the evaluator in internal/audit never
// special-cases individual rules.
package rules

import "github.com/lucim-tools/lucimaudit/internal/artifact"

// Severity classifies a rule's weight in the verdict. Error violations gate
// compliance; warning violations are reported but never flip the verdict.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ParseFailureRuleID is the reserved ID used for the synthetic violation
// produced when the audited artifact itself failed to parse.
const ParseFailureRuleID = "R-PARSE-000"

// Status is the tagged result of one rule check.
type Status string

const (
	StatusSatisfied     Status = "satisfied"
	StatusViolated      Status = "violated"
	StatusNotApplicable Status = "not-applicable"
)

// Outcome is the result of evaluating one rule predicate.
type Outcome struct {
	Status   Status
	Location string // optional pointer into the artifact (line N / JSON path)
	Message  string // populated for violations
	Reason   string // populated for not-applicable outcomes
}

// Satisfied returns a satisfied outcome.
func Satisfied() Outcome {
	return Outcome{Status: StatusSatisfied}
}

// Violated returns a violated outcome with an optional location.
func Violated(location, message string) Outcome {
	return Outcome{Status: StatusViolated, Location: location, Message: message}
}

// NotApplicable returns a not-applicable outcome with the reason it was
// skipped.
func NotApplicable(reason string) Outcome {
	return Outcome{Status: StatusNotApplicable, Reason: reason}
}

// CheckFunc is a rule predicate. It must be pure: no I/O, no mutation of the
// artifact or companions, deterministic for identical input.
type CheckFunc func(a *artifact.Artifact, companions map[artifact.Kind]*artifact.Artifact) Outcome

// Rule is one compliance rule. Rules are immutable once the catalog is
// constructed.
type Rule struct {
	ID          string
	Kind        artifact.Kind
	Severity    Severity
	Description string
	// Companions lists artifact kinds the predicate needs. The evaluator
	// skips the rule as not-applicable when one is missing or parse-failed.
	Companions []artifact.Kind
	Check      CheckFunc
}
