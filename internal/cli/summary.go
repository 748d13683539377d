package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lucim-tools/lucimaudit/internal/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <initial.json> <final.json>",
	Short: "Compare an initial audit against a final audit",
	Long: `Compare an initial audit against a final (post-correction) audit.

Both documents must be audit JSON files for the same artifact kind, as
written by the audit and run commands. The comparison treats "compliant" as
the positive label and reports confusion-style counts: rules compliant in
both audits (TP), rules the correction fixed (FN), rules that regressed
(FP), and rules still violated (TN), plus accuracy, precision, and recall.`,
	Example: `  lucimaudit summary out/diagram_initial.audit.json out/diagram_corrected.audit.json`,
	Args:          cobra.ExactArgs(2),
	GroupID:       GroupReports,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummaryCommand(args[0], args[1], cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// runSummaryCommand executes the summary command.
func runSummaryCommand(initialPath, finalPath string, out, errOut io.Writer) error {
	initial, err := report.LoadDocument(initialPath)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}
	final, err := report.LoadDocument(finalPath)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	metrics, err := report.Summarize(initial, final)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}

	fmt.Fprint(out, metrics.FormatText())
	return nil
}
