package cli

import (
	"fmt"

	"github.com/alexanderramin/poap/internal/cli/formatter"
	"github.com/alexanderramin/poap/internal/export"
	"github.com/spf13/cobra"
)

func newMonthsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List the horizon months and the phase each belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMonths(app.Plan.Horizon()))
			return nil
		},
	}
}

func newSummaryCmd(app *App) *cobra.Command {
	var asJSON bool
	var edits scriptedEdits

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print phase totals, peaks, burn rates and the grand total",
		Long: `Print the plan summary. --set and --note apply edits first, each
routed to the phase that owns its month, exactly as the TUI would.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rejected, err := edits.apply(ctx, app)
			if err != nil {
				return err
			}
			summary, err := app.Summary.PlanSummary(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return export.Encode(cmd.OutOrStdout(), mapPlanSummaryToContract(app.Config, summary, rejected))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanSummary(app.Config.Title, app.Config.Caption, summary))
			if len(rejected) > 0 {
				fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatRejected(rejected))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	edits.bind(cmd)

	return cmd
}

// printSummary is the non-interactive fallback of the bare root command.
func printSummary(cmd *cobra.Command, app *App) error {
	summary, err := app.Summary.PlanSummary(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanSummary(app.Config.Title, app.Config.Caption, summary))
	return nil
}
