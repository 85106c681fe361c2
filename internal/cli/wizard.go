package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/poap/internal/cli/formatter"
	"github.com/alexanderramin/poap/internal/domain"
	"github.com/alexanderramin/poap/internal/export"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// poapHuhTheme returns a huh theme built on the Gruvbox palette.
func poapHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// ── export dialog ────────────────────────────────────────────────────────────

func validateExportPath(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("enter a file name")
	}
	if strings.TrimSpace(s) == "-" {
		return fmt.Errorf("stdout is not available inside the editor")
	}
	return nil
}

// wizardExportFile asks for the export file name, prefilled from config.
func wizardExportFile(defaultPath string, result *string) *huh.Form {
	*result = defaultPath
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Export allocation table").
				Description("A .json extension writes JSON; anything else writes CSV.").
				Placeholder(defaultPath).
				Value(result).
				Validate(validateExportPath),
		),
	).WithTheme(poapHuhTheme()).WithShowHelp(false)
}

func startExportWizard(state *SharedState) tea.Cmd {
	path := new(string)
	form := wizardExportFile(state.App.Config.ExportFile, path)
	return startWizardCmd(state, "Export", form, func() tea.Cmd {
		return exportFromTUI(state.App, strings.TrimSpace(*path))
	})
}

// exportFromTUI writes the plan to path and reports the outcome as output.
func exportFromTUI(app *App, path string) tea.Cmd {
	return func() tea.Msg {
		format := export.FormatForPath(path)
		n, err := exportToFile(context.Background(), app, path, format)
		if err != nil {
			return cmdOutputMsg{output: formatter.Error(err)}
		}
		return cmdOutputMsg{output: formatter.StyleGreen.Render(exportedMessage(n, path, format))}
	}
}

// ── deliverables editor ──────────────────────────────────────────────────────

// monthsPerPage keeps each deliverables page short enough for small terminals.
const monthsPerPage = 4

// wizardDeliverables builds one text input per month of the phase, paged in
// groups. values[i] is bound to shown.Entries[i].
func wizardDeliverables(shown *domain.DeliverableProjection, values []string) *huh.Form {
	var groups []*huh.Group
	for start := 0; start < len(shown.Entries); start += monthsPerPage {
		end := min(start+monthsPerPage, len(shown.Entries))
		fields := make([]huh.Field, 0, end-start)
		for i := start; i < end; i++ {
			fields = append(fields, huh.NewInput().
				Title(shown.Entries[i].Month.String()).
				Placeholder(formatter.DescriptionColumn).
				Value(&values[i]))
		}
		groups = append(groups, huh.NewGroup(fields...))
	}
	return huh.NewForm(groups...).WithTheme(poapHuhTheme()).WithShowHelp(false)
}

func startDeliverablesEditor(state *SharedState, phase int, shown *domain.DeliverableProjection) tea.Cmd {
	if shown == nil || len(shown.Entries) == 0 {
		return nil
	}
	values := make([]string, len(shown.Entries))
	for i, e := range shown.Entries {
		values[i] = e.Text
	}
	form := wizardDeliverables(shown, values)
	title := fmt.Sprintf("%s · %s", formatter.DeliverablesHeading, shown.Phase.Name)
	return startWizardCmd(state, title, form, func() tea.Cmd {
		return saveDeliverables(state.App, phase, shown, values)
	})
}

// saveDeliverables reconciles the edited notes and refreshes every view
// when something changed.
func saveDeliverables(app *App, phase int, shown *domain.DeliverableProjection, values []string) tea.Cmd {
	edited := make([]domain.DeliverableEntry, len(shown.Entries))
	for i, e := range shown.Entries {
		edited[i] = domain.DeliverableEntry{Month: e.Month, Text: strings.TrimSpace(values[i])}
	}
	res, err := app.reconcileDeliverablesUseCase().ReconcileDeliverables(context.Background(), phase, shown, edited)
	if err != nil {
		return outputCmd(formatter.Error(err))
	}
	if !res.Changed {
		return outputCmd(formatter.FormatDeliverableReconcile(res))
	}
	return tea.Batch(outputCmd(formatter.FormatDeliverableReconcile(res)), refreshViews())
}
