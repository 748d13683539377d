package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lucim-tools/lucimaudit/internal/artifact"
	"github.com/lucim-tools/lucimaudit/internal/audit"
	"github.com/lucim-tools/lucimaudit/internal/config"
	"github.com/lucim-tools/lucimaudit/internal/progress"
	"github.com/lucim-tools/lucimaudit/internal/report"
	"github.com/lucim-tools/lucimaudit/internal/rules"
)

var runCmd = &cobra.Command{
	Use:   "run <dir>",
	Short: "Audit every artifact in a pipeline run directory",
	Long: `Audit every artifact in a pipeline run directory.

Walks the directory for recognized artifact files (model*.json,
scenario*.json, diagram*.puml), resolves companion artifacts from siblings
in the same directory, audits each file, and writes reports to the output
directory. The run directory layout matches what the conversion agent
produces: model.json, scenario.json, diagram_initial.puml,
diagram_corrected.puml, and so on.

Exit Codes:
  0 - Every audited artifact is compliant
  1 - At least one artifact is non-compliant
  3 - Invalid arguments or no recognizable artifacts`,
	Example: `  lucimaudit run out/20250214_093011
  lucimaudit run out/20250214_093011 --out reports/`,
	Args:          cobra.ExactArgs(1),
	GroupID:       GroupAuditing,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		outFlag, _ := cmd.Flags().GetString("out")
		return runBatchCommand(args[0], configPath, outFlag, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// batchEntry is one recognized artifact file in a run directory.
type batchEntry struct {
	path string
	kind artifact.Kind
}

// discoverArtifacts lists the recognizable artifact files in a directory,
// sorted by name for reproducible batch order.
func discoverArtifacts(dir string) ([]batchEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading run directory: %w", err)
	}

	var entries []batchEntry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		kind, err := artifact.InferKindFromFilename(de.Name())
		if err != nil {
			continue // not an artifact file (logs, raw responses, reports)
		}
		entries = append(entries, batchEntry{path: filepath.Join(dir, de.Name()), kind: kind})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })
	return entries, nil
}

// resolveRunCompanions loads the canonical model and scenario artifacts from
// the run directory, preferring exact basenames over prefixed variants.
func resolveRunCompanions(entries []batchEntry) map[artifact.Kind]*artifact.Artifact {
	companions := make(map[artifact.Kind]*artifact.Artifact)

	for _, kind := range []artifact.Kind{artifact.KindModel, artifact.KindScenario} {
		var best string
		for _, e := range entries {
			if e.kind != kind {
				continue
			}
			base := strings.TrimSuffix(filepath.Base(e.path), filepath.Ext(e.path))
			if base == string(kind) {
				best = e.path
				break
			}
			if best == "" {
				best = e.path
			}
		}
		if best == "" {
			continue
		}
		if a, err := loadArtifact(best, kind); err == nil {
			companions[kind] = a
		}
	}

	return companions
}

// runBatchCommand executes the run command.
func runBatchCommand(dir, configPath, outFlag string, out, errOut io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(errOut, "Error loading config: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}
	if outFlag != "" {
		cfg.OutDir = outFlag
	} else if cfg.OutDir == "." {
		// Default batch reports next to the artifacts they describe.
		cfg.OutDir = dir
	}

	entries, err := discoverArtifacts(dir)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}
	if len(entries) == 0 {
		fmt.Fprintf(errOut, "Error: no recognizable artifacts in %s\n", dir)
		fmt.Fprintf(errOut, "Hint: expected model*.json, scenario*.json, or diagram*.puml files\n")
		return NewExitError(ExitInvalidArguments)
	}

	companions := resolveRunCompanions(entries)

	var display *progress.Display
	if cfg.ShowProgress {
		display = progress.NewDisplay(progress.DetectTerminalCapabilities())
	}

	catalog := rules.Default()
	nonCompliant := 0

	for i, entry := range entries {
		info := progress.FileInfo{
			Name:       filepath.Base(entry.path),
			Number:     i + 1,
			TotalFiles: len(entries),
		}
		if display != nil {
			if err := display.StartFile(info); err != nil {
				fmt.Fprintf(errOut, "Error: %v\n", err)
				return NewExitError(ExitInvalidArguments)
			}
		}

		a, err := loadArtifact(entry.path, entry.kind)
		if err != nil {
			if display != nil {
				display.StopSpinner()
			}
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return NewExitError(ExitInvalidArguments)
		}

		// An artifact is not its own companion.
		result := audit.Evaluate(a, companionsFor(entry, companions), catalog)
		doc := report.FromResult(result)

		if err := writeReports(cfg, entry.path, entry.kind, doc); err != nil {
			if display != nil {
				display.StopSpinner()
			}
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return NewExitError(ExitInvalidArguments)
		}

		detail := fmt.Sprintf("%s, %d violation(s)", doc.Verdict, len(doc.Violations))
		if display != nil {
			display.CompleteFile(info, result.Compliant, detail)
		} else {
			fmt.Fprintf(out, "%s: %s\n", entry.path, detail)
		}

		if !result.Compliant || (cfg.FailOnWarnings && result.HasWarnings()) {
			nonCompliant++
		}
	}

	printBatchSummary(len(entries), nonCompliant, out)

	if nonCompliant > 0 {
		return NewExitError(ExitNonCompliant)
	}
	return nil
}

// companionsFor filters the run-level companions so an artifact never
// serves as its own companion.
func companionsFor(entry batchEntry, companions map[artifact.Kind]*artifact.Artifact) map[artifact.Kind]*artifact.Artifact {
	filtered := make(map[artifact.Kind]*artifact.Artifact, len(companions))
	for kind, a := range companions {
		if kind == entry.kind {
			continue
		}
		filtered[kind] = a
	}
	return filtered
}

// printBatchSummary prints the closing compliant/non-compliant counts.
func printBatchSummary(total, nonCompliant int, out io.Writer) {
	fmt.Fprintf(out, "\nAudited %d artifact(s): ", total)
	if nonCompliant == 0 {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(out, "%s\n", green("all compliant"))
		return
	}
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(out, "%s\n", red(fmt.Sprintf("%d non-compliant", nonCompliant)))
}
