package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/poap/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"
)

// cellEdit is one --set value of the form RESOURCE@MONTH=DAYS.
type cellEdit struct {
	Resource string
	Month    domain.MonthKey
	Raw      string
}

// noteEdit is one --note value of the form MONTH=TEXT.
type noteEdit struct {
	Month domain.MonthKey
	Text  string
}

// scriptedEdits collects the repeatable edit flags shared by summary and export.
type scriptedEdits struct {
	sets  []string
	notes []string
}

func (e *scriptedEdits) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&e.sets, "set", nil, `set a cell: "RESOURCE@MONTH=DAYS" (MONTH as 2025-07 or "Jul '25"); repeatable`)
	cmd.Flags().StringArrayVar(&e.notes, "note", nil, `set a deliverable: "MONTH=TEXT"; repeatable`)
}

func (e *scriptedEdits) empty() bool {
	return len(e.sets) == 0 && len(e.notes) == 0
}

// normalizeInput folds user text to NFC and straightens typographic
// apostrophes so "Jul ’25" parses like "Jul '25".
func normalizeInput(s string) string {
	s = norm.NFC.String(s)
	return strings.NewReplacer("’", "'", "‘", "'").Replace(s)
}

func parseCellEdit(s string) (cellEdit, error) {
	s = normalizeInput(s)
	target, raw, ok := strings.Cut(s, "=")
	if !ok {
		return cellEdit{}, fmt.Errorf("--set %q: expected RESOURCE@MONTH=DAYS", s)
	}
	at := strings.LastIndex(target, "@")
	if at <= 0 {
		return cellEdit{}, fmt.Errorf("--set %q: expected RESOURCE@MONTH=DAYS", s)
	}
	month, err := domain.ParseMonthKey(target[at+1:])
	if err != nil {
		return cellEdit{}, fmt.Errorf("--set %q: %w", s, err)
	}
	return cellEdit{Resource: strings.TrimSpace(target[:at]), Month: month, Raw: raw}, nil
}

func parseNoteEdit(s string) (noteEdit, error) {
	s = normalizeInput(s)
	monthText, text, ok := strings.Cut(s, "=")
	if !ok {
		return noteEdit{}, fmt.Errorf("--note %q: expected MONTH=TEXT", s)
	}
	month, err := domain.ParseMonthKey(monthText)
	if err != nil {
		return noteEdit{}, fmt.Errorf("--note %q: %w", s, err)
	}
	return noteEdit{Month: month, Text: strings.TrimSpace(text)}, nil
}

// phaseIndex returns the 1-based phase that owns m.
func phaseIndex(h domain.Horizon, m domain.MonthKey) (int, error) {
	for i, p := range h.Phases {
		if p.Contains(m) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%s is outside the plan horizon (%s - %s)", m, h.Months[0], h.Months[len(h.Months)-1])
}

// apply routes every edit to the phase that owns its month and reconciles
// it the same way the TUI does: project, edit the grid, reconcile. Cells
// that fail coercion are returned; everything else is an error.
func (e *scriptedEdits) apply(ctx context.Context, a *App) ([]*domain.ValidationError, error) {
	if e.empty() {
		return nil, nil
	}
	h := a.Plan.Horizon()

	cellsByPhase := make(map[int][]cellEdit)
	for _, s := range e.sets {
		edit, err := parseCellEdit(s)
		if err != nil {
			return nil, err
		}
		phase, err := phaseIndex(h, edit.Month)
		if err != nil {
			return nil, fmt.Errorf("--set %q: %w", s, err)
		}
		cellsByPhase[phase] = append(cellsByPhase[phase], edit)
	}
	notesByPhase := make(map[int][]noteEdit)
	for _, s := range e.notes {
		edit, err := parseNoteEdit(s)
		if err != nil {
			return nil, err
		}
		phase, err := phaseIndex(h, edit.Month)
		if err != nil {
			return nil, fmt.Errorf("--note %q: %w", s, err)
		}
		notesByPhase[phase] = append(notesByPhase[phase], edit)
	}

	var rejected []*domain.ValidationError
	for phase := 1; phase <= len(h.Phases); phase++ {
		if edits := cellsByPhase[phase]; len(edits) > 0 {
			r, err := applyCellEdits(ctx, a, phase, edits)
			if err != nil {
				return nil, err
			}
			rejected = append(rejected, r...)
		}
		if edits := notesByPhase[phase]; len(edits) > 0 {
			if err := applyNoteEdits(ctx, a, phase, edits); err != nil {
				return nil, err
			}
		}
	}
	return rejected, nil
}

func applyCellEdits(ctx context.Context, a *App, phase int, edits []cellEdit) ([]*domain.ValidationError, error) {
	shown, err := a.Phases.Project(ctx, phase)
	if err != nil {
		return nil, err
	}
	grid := shown.Grid()
	for _, edit := range edits {
		row := gridRowIndex(grid, edit.Resource)
		if row < 0 {
			return nil, fmt.Errorf("--set: unknown resource %q", edit.Resource)
		}
		grid.SetCell(row, edit.Month, edit.Raw)
	}
	res, err := a.reconcileAllocationsUseCase().ReconcileAllocations(ctx, phase, shown, grid)
	if err != nil {
		return nil, err
	}
	return res.Rejected, nil
}

func applyNoteEdits(ctx context.Context, a *App, phase int, edits []noteEdit) error {
	shown, err := a.Phases.ProjectDeliverables(ctx, phase)
	if err != nil {
		return err
	}
	edited := append([]domain.DeliverableEntry(nil), shown.Entries...)
	for _, edit := range edits {
		for i := range edited {
			if edited[i].Month == edit.Month {
				edited[i].Text = edit.Text
			}
		}
	}
	_, err = a.reconcileDeliverablesUseCase().ReconcileDeliverables(ctx, phase, shown, edited)
	return err
}

// gridRowIndex finds a resource row, ignoring case.
func gridRowIndex(g domain.Grid, resource string) int {
	for i, r := range g.Rows {
		if strings.EqualFold(r.Resource, resource) {
			return i
		}
	}
	return -1
}
