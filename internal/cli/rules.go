package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucim-tools/lucimaudit/internal/artifact"
	"github.com/lucim-tools/lucimaudit/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [kind]",
	Short: "Print the LUCIM rule catalog",
	Long: `Print the LUCIM rule catalog in evaluation order.

Without an argument, prints every rule. With a kind (model, scenario,
diagram), prints only the rules for that artifact kind. Rules that need
companion artifacts are marked with the companion kinds they require.`,
	Example: `  lucimaudit rules
  lucimaudit rules diagram`,
	Args:          cobra.MaximumNArgs(1),
	GroupID:       GroupReports,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRulesCommand(args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

// runRulesCommand executes the rules command.
func runRulesCommand(args []string, out, errOut io.Writer) error {
	catalog := rules.Default()

	ruleSet := catalog.Rules()
	heading := "LUCIM rule catalog"
	if len(args) == 1 {
		kind, err := artifact.ParseKind(args[0])
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return NewExitError(ExitInvalidArguments)
		}
		ruleSet = catalog.RulesFor(kind)
		heading = fmt.Sprintf("LUCIM rule catalog: %s", kind)
	}

	fmt.Fprintf(out, "%s (%d rules)\n", heading, len(ruleSet))
	fmt.Fprintf(out, "%s\n\n", strings.Repeat("=", 40))

	for _, r := range ruleSet {
		fmt.Fprintf(out, "%s [%s/%s]\n", r.ID, r.Kind, r.Severity)
		fmt.Fprintf(out, "  %s\n", r.Description)
		if len(r.Companions) > 0 {
			names := make([]string, 0, len(r.Companions))
			for _, c := range r.Companions {
				names = append(names, string(c))
			}
			fmt.Fprintf(out, "  Requires companion: %s\n", strings.Join(names, ", "))
		}
	}

	return nil
}
