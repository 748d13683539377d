package audit

import (
	"fmt"

	"github.com/lucim-tools/lucimaudit/internal/artifact"
	"github.com/lucim-tools/lucimaudit/internal/rules"
)

// Evaluate applies every catalog rule for the artifact's kind and returns
// the audit result. Companions are read-only context for cross-artifact
// rules; a missing or parse-failed companion skips the rules that need it,
// it never produces a violation.
func Evaluate(a *artifact.Artifact, companions map[artifact.Kind]*artifact.Artifact, catalog *rules.Catalog) *Result {
	kindRules := catalog.RulesFor(a.Kind)
	tracker := newCoverageTracker()

	allIDs := make([]string, 0, len(kindRules))
	for _, r := range kindRules {
		allIDs = append(allIDs, r.ID)
	}

	// A parse-failed artifact has no declarations to check: report the
	// single synthetic violation and mark every rule not-applicable.
	if a.ParseFailed {
		for _, r := range kindRules {
			tracker.markNotApplicable(r.ID, "artifact failed to parse")
		}
		return &Result{
			Kind:      a.Kind,
			Compliant: false,
			Violations: []Violation{{
				RuleID:   rules.ParseFailureRuleID,
				Message:  fmt.Sprintf("artifact could not be parsed: %s", a.ParseError),
				Severity: rules.SeverityError,
			}},
			Coverage: tracker.finalize(allIDs),
		}
	}

	var violations []Violation
	compliant := true

	for _, r := range kindRules {
		if reason, missing := missingCompanion(r, companions); missing {
			tracker.markNotApplicable(r.ID, reason)
			continue
		}

		outcome := runCheck(r, a, companions)

		switch outcome.Status {
		case rules.StatusSatisfied:
			tracker.markEvaluated(r.ID)
		case rules.StatusViolated:
			tracker.markEvaluated(r.ID)
			violations = append(violations, Violation{
				RuleID:   r.ID,
				Location: outcome.Location,
				Message:  outcome.Message,
				Severity: r.Severity,
			})
			if r.Severity == rules.SeverityError {
				compliant = false
			}
		case rules.StatusNotApplicable:
			tracker.markNotApplicable(r.ID, outcome.Reason)
		}
	}

	return &Result{
		Kind:       a.Kind,
		Compliant:  compliant,
		Violations: violations,
		Coverage:   tracker.finalize(allIDs),
	}
}

// missingCompanion reports whether a rule-required companion is absent or
// itself parse-failed.
func missingCompanion(r rules.Rule, companions map[artifact.Kind]*artifact.Artifact) (string, bool) {
	for _, kind := range r.Companions {
		c, ok := companions[kind]
		if !ok || c == nil {
			return fmt.Sprintf("missing companion: %s", kind), true
		}
		if c.ParseFailed {
			return fmt.Sprintf("companion %s failed to parse", kind), true
		}
	}
	return "", false
}

// runCheck executes a rule predicate, converting a panic in the rule's own
// logic into a violated outcome so one bad rule cannot blank out the rest of
// the report.
func runCheck(r rules.Rule, a *artifact.Artifact, companions map[artifact.Kind]*artifact.Artifact) (outcome rules.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = rules.Violated("", fmt.Sprintf("rule evaluation error: %v", rec))
		}
	}()
	return r.Check(a, companions)
}
