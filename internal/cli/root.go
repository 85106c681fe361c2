package cli

import (
	"fmt"

	"github.com/alexanderramin/poap/internal/app"
	"github.com/alexanderramin/poap/internal/config"
	"github.com/alexanderramin/poap/internal/service"
	"github.com/spf13/cobra"
)

// App holds the session configuration and every service the CLI and TUI use.
type App struct {
	Config config.Config

	Plan    service.PlanService
	Phases  service.PhaseService
	Summary service.SummaryService
	Export  service.ExportService

	// Optional use-case overrides. Nil falls back to Phases.
	ReconcileAllocations  app.ReconcileAllocationsUseCase
	ReconcileDeliverables app.ReconcileDeliverablesUseCase

	// Wire builds the services once flags have been parsed into Config.
	// Tests set the services directly and leave Wire nil.
	Wire func(cfg config.Config) error

	// IsInteractive reports whether the bare command should open the TUI.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "poap" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "poap",
		Short:         "Resource & delivery plan for a two-phase engagement",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.start(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(app)
			}
			return printSummary(cmd, app)
		},
	}

	app.Config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newMonthsCmd(app),
		newSummaryCmd(app),
		newExportCmd(app),
		newTUICmd(app),
	)

	return root
}

// start validates the parsed configuration, builds the services if needed,
// and seeds the session plan. Initialize is idempotent, so running it before
// every command is safe.
func (a *App) start(cmd *cobra.Command) error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	if a.Wire != nil {
		if err := a.Wire(a.Config); err != nil {
			return err
		}
	}
	if a.Plan == nil {
		return fmt.Errorf("plan service is not configured")
	}
	if _, err := a.Plan.Initialize(cmd.Context()); err != nil {
		return err
	}
	return nil
}
