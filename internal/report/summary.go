package report

import (
	"fmt"
	"strings"
)

// Metrics compares an initial audit against a final (post-correction) audit
// of the same artifact kind. "Compliant" is the positive label and the final
// audit is the reference: a rule the initial audit passed that the final
// audit also passes is a true positive; a rule the initial audit flagged
// that the final audit passes counts as fixed (false negative).
type Metrics struct {
	Rules          int // rules evaluated in both audits
	TruePositives  int // compliant in both
	FalsePositives int // compliant initially, violated finally (regressed)
	TrueNegatives  int // violated in both (never fixed)
	FalseNegatives int // violated initially, compliant finally (fixed)

	FixedRules     []string
	RegressedRules []string

	InitialVerdict string
	FinalVerdict   string
}

// Accuracy is the fraction of rules whose initial outcome matches the final
// outcome.
func (m *Metrics) Accuracy() float64 {
	if m.Rules == 0 {
		return 0
	}
	return float64(m.TruePositives+m.TrueNegatives) / float64(m.Rules)
}

// Precision is TP / (TP + FP).
func (m *Metrics) Precision() float64 {
	denom := m.TruePositives + m.FalsePositives
	if denom == 0 {
		return 0
	}
	return float64(m.TruePositives) / float64(denom)
}

// Recall is TP / (TP + FN).
func (m *Metrics) Recall() float64 {
	denom := m.TruePositives + m.FalseNegatives
	if denom == 0 {
		return 0
	}
	return float64(m.TruePositives) / float64(denom)
}

// Summarize computes confusion-style metrics over the rules both documents
// evaluated. The documents must share the stable schema and rule universe
// (same artifact kind); mismatched universes are a schema error.
func Summarize(initial, final *Document) (*Metrics, error) {
	if initial.Coverage.TotalRulesInDSL != final.Coverage.TotalRulesInDSL {
		return nil, fmt.Errorf("audit documents do not share a rule universe: %d vs %d rules",
			initial.Coverage.TotalRulesInDSL, final.Coverage.TotalRulesInDSL)
	}

	finalEvaluated := make(map[string]bool, len(final.Coverage.Evaluated))
	for _, id := range final.Coverage.Evaluated {
		finalEvaluated[id] = true
	}
	initialViolated := violatedSet(initial)
	finalViolated := violatedSet(final)

	m := &Metrics{
		InitialVerdict: initial.Verdict,
		FinalVerdict:   final.Verdict,
	}

	// Iterate the initial document's evaluated list so rule order is stable
	// across runs.
	for _, id := range initial.Coverage.Evaluated {
		if !finalEvaluated[id] {
			continue
		}
		m.Rules++

		switch {
		case !initialViolated[id] && !finalViolated[id]:
			m.TruePositives++
		case !initialViolated[id] && finalViolated[id]:
			m.FalsePositives++
			m.RegressedRules = append(m.RegressedRules, id)
		case initialViolated[id] && !finalViolated[id]:
			m.FalseNegatives++
			m.FixedRules = append(m.FixedRules, id)
		default:
			m.TrueNegatives++
		}
	}

	return m, nil
}

func violatedSet(doc *Document) map[string]bool {
	set := make(map[string]bool, len(doc.NonCompliantRules))
	for _, id := range doc.NonCompliantRules {
		set[id] = true
	}
	return set
}

// FormatText renders the metrics as a plain-text summary block.
func (m *Metrics) FormatText() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Initial verdict: %s\n", m.InitialVerdict)
	fmt.Fprintf(&sb, "Final verdict:   %s\n\n", m.FinalVerdict)
	fmt.Fprintf(&sb, "Rules compared:  %d\n", m.Rules)
	fmt.Fprintf(&sb, "  TP (compliant both):       %d\n", m.TruePositives)
	fmt.Fprintf(&sb, "  FP (regressed):            %d\n", m.FalsePositives)
	fmt.Fprintf(&sb, "  FN (fixed by correction):  %d\n", m.FalseNegatives)
	fmt.Fprintf(&sb, "  TN (still violated):       %d\n\n", m.TrueNegatives)
	fmt.Fprintf(&sb, "Accuracy:  %.2f\n", m.Accuracy())
	fmt.Fprintf(&sb, "Precision: %.2f\n", m.Precision())
	fmt.Fprintf(&sb, "Recall:    %.2f\n", m.Recall())

	if len(m.FixedRules) > 0 {
		fmt.Fprintf(&sb, "\nFixed rules: %s\n", strings.Join(m.FixedRules, ", "))
	}
	if len(m.RegressedRules) > 0 {
		fmt.Fprintf(&sb, "Regressed rules: %s\n", strings.Join(m.RegressedRules, ", "))
	}

	return sb.String()
}
