package report

import (
	"fmt"
	"strings"

	"github.com/lucim-tools/lucimaudit/internal/artifact"
)

// Markdown renders a human-readable report for one audit document: verdict,
// violations with line/location annotations, and the coverage record.
func Markdown(doc *Document, kind artifact.Kind, source string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# LUCIM Audit Report: %s\n\n", kind)
	if source != "" {
		fmt.Fprintf(&sb, "Source: `%s`\n\n", source)
	}
	fmt.Fprintf(&sb, "**Verdict:** %s\n\n", doc.Verdict)

	if len(doc.Violations) == 0 {
		sb.WriteString("No violations found.\n")
	} else {
		fmt.Fprintf(&sb, "## Violations (%d)\n\n", len(doc.Violations))
		sb.WriteString("| Rule | Severity | Location | Message |\n")
		sb.WriteString("|------|----------|----------|--------|\n")
		for _, v := range doc.Violations {
			loc := v.Location
			if loc == "" {
				loc = "-"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", v.ID, v.Severity, loc, escapeCell(v.Message))
		}
	}

	sb.WriteString("\n## Coverage\n\n")
	fmt.Fprintf(&sb, "- Rules in DSL: %d\n", doc.Coverage.TotalRulesInDSL)
	fmt.Fprintf(&sb, "- Evaluated: %d\n", len(doc.Coverage.Evaluated))
	fmt.Fprintf(&sb, "- Not applicable: %d\n", len(doc.Coverage.NotApplicable))

	if len(doc.Coverage.NotApplicable) > 0 {
		sb.WriteString("\n### Not applicable\n\n")
		for _, na := range doc.Coverage.NotApplicable {
			fmt.Fprintf(&sb, "- %s: %s\n", na.ID, na.Reason)
		}
	}

	return sb.String()
}

// escapeCell keeps pipe characters in messages from breaking table rows.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
