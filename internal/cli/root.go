// Package cli provides Cobra-based CLI commands for the lucimaudit tool.
// It defines the audit commands (audit, run), report commands (summary,
// rules), and utility commands (version).
package cli

import (
	"github.com/spf13/cobra"
)

// Command group IDs for organizing help output
const (
	GroupAuditing = "auditing"
	GroupReports  = "reports"
)

var rootCmd = &cobra.Command{
	Use:   "lucimaudit",
	Short: "Rule-based audits for LUCIM pipeline artifacts",
	Long: `Rule-based audits for LUCIM pipeline artifacts.

Audits structural models, interaction scenarios, and PlantUML diagrams
produced by the NetLogo-to-LUCIM conversion pipeline against the LUCIM
rule catalog, and writes JSON and Markdown reports with a compliance
verdict, violations, and rule coverage.`,
	Example: `  # Audit a single artifact (kind inferred from filename)
  lucimaudit audit out/diagram_initial.puml

  # Audit with companion artifacts for cross-reference rules
  lucimaudit audit out/diagram_initial.puml --model out/model.json --scenario out/scenario.json

  # Audit every artifact in a pipeline run directory
  lucimaudit run out/20250214_093011

  # Compare an initial audit against the post-correction final audit
  lucimaudit summary out/audit_initial.json out/audit_final.json

  # List the rule catalog
  lucimaudit rules diagram`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: GroupAuditing, Title: "Auditing:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupReports, Title: "Reports:"})

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", ".lucimaudit/config.json", "Path to config file")
	rootCmd.PersistentFlags().StringP("out", "o", "", "Output directory for reports (overrides config)")
}
