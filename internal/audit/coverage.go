package audit

// coverageTracker accumulates the disjoint rule ID sets during one
// evaluation pass.
type coverageTracker struct {
	evaluated     []string
	notApplicable []NotApplicableEntry
	seen          map[string]bool
}

func newCoverageTracker() *coverageTracker {
	return &coverageTracker{seen: make(map[string]bool)}
}

func (t *coverageTracker) markEvaluated(ruleID string) {
	t.evaluated = append(t.evaluated, ruleID)
	t.seen[ruleID] = true
}

func (t *coverageTracker) markNotApplicable(ruleID, reason string) {
	t.notApplicable = append(t.notApplicable, NotApplicableEntry{RuleID: ruleID, Reason: reason})
	t.seen[ruleID] = true
}

// finalize computes the coverage record against the full rule ID set for the
// artifact kind. Missing is the remainder: rules the pass never touched.
// Empty by construction, but computed rather than assumed so the
// total == evaluated + not_applicable + missing invariant is checkable.
func (t *coverageTracker) finalize(allIDs []string) Coverage {
	cov := Coverage{
		Total:         len(allIDs),
		Evaluated:     t.evaluated,
		NotApplicable: t.notApplicable,
	}
	for _, id := range allIDs {
		if !t.seen[id] {
			cov.Missing = append(cov.Missing, id)
		}
	}
	return cov
}
