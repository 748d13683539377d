package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lucim-tools/lucimaudit/internal/artifact"
	"github.com/lucim-tools/lucimaudit/internal/audit"
	"github.com/lucim-tools/lucimaudit/internal/config"
	"github.com/lucim-tools/lucimaudit/internal/report"
	"github.com/lucim-tools/lucimaudit/internal/rules"
)

var (
	auditModelFlag    string
	auditScenarioFlag string
)

var auditCmd = &cobra.Command{
	Use:   "audit <kind|path> [path]",
	Short: "Audit one artifact against the LUCIM rule catalog",
	Long: `Audit one artifact against the LUCIM rule catalog.

Smart Detection:
  - Path only: lucimaudit audit out/diagram_initial.puml → infers kind from filename
  - Explicit: lucimaudit audit diagram out/some-diagram.txt

Kinds:
  model    - Structural model (JSON: system, actors, operations)
  scenario - Interaction scenario (JSON: ordered message records)
  diagram  - LUCIM PlantUML sequence diagram

Cross-reference rules need companion artifacts supplied with --model and
--scenario; rules whose companion is missing are reported as not applicable,
never as violations.

Exit Codes:
  0 - Artifact is compliant
  1 - Artifact is non-compliant
  3 - Invalid arguments or unreadable input`,
	Example: `  # Kind inferred from filename
  lucimaudit audit out/model.json
  lucimaudit audit out/diagram_corrected.puml

  # Explicit kind for nonstandard filenames
  lucimaudit audit diagram out/final.txt

  # Companions enable cross-reference rules
  lucimaudit audit out/scenario.json --model out/model.json
  lucimaudit audit out/diagram_initial.puml --model out/model.json --scenario out/scenario.json`,
	Args:          cobra.RangeArgs(1, 2),
	GroupID:       GroupAuditing,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		outFlag, _ := cmd.Flags().GetString("out")
		return runAuditCommand(args, configPath, outFlag, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().StringVar(&auditModelFlag, "model", "", "Path to the companion structural model")
	auditCmd.Flags().StringVar(&auditScenarioFlag, "scenario", "", "Path to the companion scenario")
}

// parseAuditArgs determines the artifact kind and path from the command
// arguments, inferring the kind from the filename for path-only invocations.
func parseAuditArgs(args []string) (artifact.Kind, string, error) {
	first := args[0]

	if len(args) == 2 {
		kind, err := artifact.ParseKind(first)
		if err != nil {
			return "", "", err
		}
		return kind, args[1], nil
	}

	// Path-only invocation: infer kind from filename
	kind, err := artifact.InferKindFromFilename(first)
	if err != nil {
		return "", "", fmt.Errorf("%w\nHint: pass the kind explicitly: lucimaudit audit <kind> <path>", err)
	}
	return kind, first, nil
}

// loadArtifact reads and parses one artifact file. Read errors are caller
// errors; parse failures are not (the parser is total).
func loadArtifact(path string, kind artifact.Kind) (*artifact.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	return artifact.Parse(string(data), kind), nil
}

// loadCompanions loads the companion artifacts named by the --model and
// --scenario flags.
func loadCompanions(modelPath, scenarioPath string) (map[artifact.Kind]*artifact.Artifact, error) {
	companions := make(map[artifact.Kind]*artifact.Artifact)

	if modelPath != "" {
		m, err := loadArtifact(modelPath, artifact.KindModel)
		if err != nil {
			return nil, err
		}
		companions[artifact.KindModel] = m
	}
	if scenarioPath != "" {
		s, err := loadArtifact(scenarioPath, artifact.KindScenario)
		if err != nil {
			return nil, err
		}
		companions[artifact.KindScenario] = s
	}

	return companions, nil
}

// runAuditCommand executes the audit command.
func runAuditCommand(args []string, configPath, outFlag string, out, errOut io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(errOut, "Error loading config: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}
	if outFlag != "" {
		cfg.OutDir = outFlag
	}

	kind, path, err := parseAuditArgs(args)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		if strings.Contains(err.Error(), "invalid artifact kind") {
			fmt.Fprintf(errOut, "Valid kinds: %s\n", strings.Join(artifact.ValidKinds(), ", "))
		}
		return NewExitError(ExitInvalidArguments)
	}

	a, err := loadArtifact(path, kind)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	companions, err := loadCompanions(auditModelFlag, auditScenarioFlag)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	result := audit.Evaluate(a, companions, rules.Default())
	doc := report.FromResult(result)

	if err := writeReports(cfg, path, kind, doc); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	displayDocument(doc, a, path, cfg.MaxViolations, out, errOut)

	return verdictExit(result, cfg.FailOnWarnings)
}

// writeReports persists the configured report formats for one audit.
func writeReports(cfg *config.Configuration, sourcePath string, kind artifact.Kind, doc *report.Document) error {
	writer, err := report.NewWriter(cfg.OutDir)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	for _, format := range cfg.ReportFormats {
		switch format {
		case "json":
			if _, err := writer.WriteJSON(base, doc); err != nil {
				return err
			}
		case "markdown":
			if _, err := writer.WriteMarkdown(base, doc, kind, sourcePath); err != nil {
				return err
			}
		}
	}

	return nil
}

// displayDocument prints the verdict and violations for one audit.
func displayDocument(doc *report.Document, a *artifact.Artifact, path string, maxViolations int, out, errOut io.Writer) {
	if doc.Verdict == report.VerdictCompliant && len(doc.Violations) == 0 {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(out, "%s %s is compliant\n", green("✓"), path)
		fmt.Fprintf(out, "  Rules evaluated: %d/%d\n", len(doc.Coverage.Evaluated), doc.Coverage.TotalRulesInDSL)
		return
	}

	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	if doc.Verdict == report.VerdictCompliant {
		// Compliant with warnings only.
		fmt.Fprintf(out, "%s %s is compliant (%d warning(s))\n\n", green("✓"), path, len(doc.Violations))
	} else {
		fmt.Fprintf(errOut, "%s %s is non-compliant (%d violation(s))\n\n", red("✗"), path, len(doc.Violations))
	}

	shown := doc.Violations
	truncated := 0
	if maxViolations > 0 && len(shown) > maxViolations {
		truncated = len(shown) - maxViolations
		shown = shown[:maxViolations]
	}

	for _, v := range shown {
		marker := red("✗")
		if v.Severity == "warning" {
			marker = yellow("!")
		}
		fmt.Fprintf(errOut, "%s [%s] %s\n", marker, v.ID, v.Message)
		if v.Location != "" {
			fmt.Fprintf(errOut, "    Location: %s\n", v.Location)
			if src := violationSourceLine(a, v.Location); src != "" {
				fmt.Fprintf(errOut, "    > %s\n", src)
			}
		}
	}
	if truncated > 0 {
		fmt.Fprintf(errOut, "  ... and %d more (see report file)\n", truncated)
	}

	fmt.Fprintf(errOut, "\nRules evaluated: %d/%d (%d not applicable)\n",
		len(doc.Coverage.Evaluated), doc.Coverage.TotalRulesInDSL, len(doc.Coverage.NotApplicable))
}

// violationSourceLine resolves a "line N" location to the offending line of
// the unwrapped artifact text; structured locations (JSON paths) yield "".
func violationSourceLine(a *artifact.Artifact, location string) string {
	var n int
	if _, err := fmt.Sscanf(location, "line %d", &n); err != nil {
		return ""
	}
	if n < 1 || n > len(a.Lines) {
		return ""
	}
	return strings.TrimSpace(a.Lines[n-1])
}

// verdictExit maps an audit result to the command's exit status. The engine
// verdict ignores warnings; fail_on_warnings tightens that at the CLI layer
// without touching the recorded verdict.
func verdictExit(result *audit.Result, failOnWarnings bool) error {
	if !result.Compliant {
		return NewExitError(ExitNonCompliant)
	}
	if failOnWarnings && result.HasWarnings() {
		return NewExitError(ExitNonCompliant)
	}
	return nil
}
