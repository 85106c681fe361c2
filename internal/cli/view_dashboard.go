package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	poapapp "github.com/alexanderramin/poap/internal/app"
	"github.com/alexanderramin/poap/internal/cli/formatter"
	"github.com/alexanderramin/poap/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── data types ───────────────────────────────────────────────────────────────

// dashboardData is everything one phase tab renders.
type dashboardData struct {
	phase      int
	shown      *domain.Projection
	notes      *domain.DeliverableProjection
	summary    poapapp.PhaseSummary
	grandTotal int
	yearSpan   string
}

// ── messages ─────────────────────────────────────────────────────────────────

type dashboardLoadedMsg struct {
	data dashboardData
	err  error
}

type reconciledMsg struct {
	result *poapapp.ReconcileResult
	err    error
}

// rejectedCell remembers what the user typed and the value the store kept.
type rejectedCell struct {
	input string
	kept  string
}

// ── view ─────────────────────────────────────────────────────────────────────

// dashboardView is the home screen: one phase of the allocation grid with
// inline cell editing, monthly totals, the phase summary and the footer.
type dashboardView struct {
	state   *SharedState
	data    *dashboardData
	grid    domain.Grid
	loading bool
	err     error

	cursorRow int
	cursorCol int
	colOffset int

	edit     domain.EditState
	editor   textinput.Model
	status   string
	rejected map[string]map[domain.MonthKey]rejectedCell
}

func newDashboardView(state *SharedState) *dashboardView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 12
	ti.Width = 6

	return &dashboardView{
		state:   state,
		loading: true,
		editor:  ti,
	}
}

func (v *dashboardView) ID() ViewID { return ViewDashboard }

func (v *dashboardView) Title() string {
	if v.data == nil {
		return ""
	}
	return v.data.shown.Phase.Title()
}

// CapturesInput is true while a cell editor is open.
func (v *dashboardView) CapturesInput() bool {
	return v.edit == domain.EditEditing
}

func (v *dashboardView) ShortHelp() []key.Binding {
	if v.edit == domain.EditEditing {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "phase")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter/0-9", "edit")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "deliverables")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (v *dashboardView) Init() tea.Cmd {
	return v.loadData()
}

// ── data loading ─────────────────────────────────────────────────────────────

func (v *dashboardView) loadData() tea.Cmd {
	app := v.state.App
	phase := v.state.Phase
	return func() tea.Msg {
		ctx := context.Background()

		shown, err := app.Phases.Project(ctx, phase)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}
		notes, err := app.Phases.ProjectDeliverables(ctx, phase)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}
		plan, err := app.Summary.PlanSummary(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		return dashboardLoadedMsg{
			data: dashboardData{
				phase:      phase,
				shown:      shown,
				notes:      notes,
				summary:    plan.Phases[phase-1],
				grandTotal: plan.GrandTotal,
				yearSpan:   plan.Horizon.YearSpan(),
			},
		}
	}
}

func (v *dashboardView) reconcile(grid domain.Grid) tea.Cmd {
	uc := v.state.App.reconcileAllocationsUseCase()
	phase, shown := v.data.phase, v.data.shown
	return func() tea.Msg {
		res, err := uc.ReconcileAllocations(context.Background(), phase, shown, grid)
		return reconciledMsg{result: res, err: err}
	}
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.data = &msg.data
		v.grid = msg.data.shown.Grid()
		v.pruneRejected()
		v.clampCursor()
		return v, nil

	case reconciledMsg:
		return v, v.handleReconciled(msg)

	case refreshViewMsg:
		v.loading = v.data == nil
		return v, v.loadData()

	case switchPhaseMsg:
		v.cancelEdit()
		v.status = ""
		v.rejected = nil
		v.cursorCol, v.colOffset = 0, 0
		v.loading = true
		v.err = nil
		return v, v.loadData()

	case tea.KeyMsg:
		if v.data == nil || v.edit == domain.EditReconciling {
			return v, nil
		}
		if v.edit == domain.EditEditing {
			return v, v.updateEditing(msg)
		}
		return v, v.updateIdle(msg)
	}

	if v.edit == domain.EditEditing {
		var cmd tea.Cmd
		v.editor, cmd = v.editor.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *dashboardView) updateIdle(msg tea.KeyMsg) tea.Cmd {
	months := v.data.shown.Phase.Months
	switch msg.String() {
	case "up", "k":
		if v.cursorRow > 0 {
			v.cursorRow--
		}
	case "down", "j":
		if v.cursorRow < len(v.grid.Rows)-1 {
			v.cursorRow++
		}
	case "left", "h":
		if v.cursorCol > 0 {
			v.cursorCol--
		}
	case "right", "l":
		if v.cursorCol < len(months)-1 {
			v.cursorCol++
		}
	case "home":
		v.cursorCol = 0
	case "end":
		v.cursorCol = len(months) - 1
	case "tab":
		return switchPhase(v.state.Phase%v.state.PhaseCount() + 1)
	case "shift+tab":
		return switchPhase((v.state.Phase+v.state.PhaseCount()-2)%v.state.PhaseCount() + 1)
	case "enter":
		return v.startEdit("")
	case "n":
		return startDeliverablesEditor(v.state, v.data.phase, v.data.notes)
	case "x":
		return startExportWizard(v.state)
	case "r":
		v.rejected = nil
		return v.loadData()
	default:
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '0' && msg.Runes[0] <= '9' {
			return v.startEdit(string(msg.Runes))
		}
	}
	return nil
}

func (v *dashboardView) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		v.cancelEdit()
		return nil
	case tea.KeyEnter:
		return v.commitEdit()
	}
	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return cmd
}

// startEdit opens the cell editor. A typed digit replaces the current value;
// enter edits it in place.
func (v *dashboardView) startEdit(initial string) tea.Cmd {
	row, month, ok := v.cursorCell()
	if !ok {
		return nil
	}
	if initial == "" {
		initial = v.grid.Rows[row].Cells[month]
	}
	v.edit = domain.EditEditing
	v.status = ""
	v.editor.SetValue(initial)
	v.editor.CursorEnd()
	return v.editor.Focus()
}

func (v *dashboardView) cancelEdit() {
	v.edit = domain.EditIdle
	v.editor.Blur()
	v.editor.Reset()
}

// commitEdit writes the editor value into a copy of the grid and hands it to
// reconciliation. The visible grid only changes once the store has accepted
// the edit and the view reloads.
func (v *dashboardView) commitEdit() tea.Cmd {
	row, month, ok := v.cursorCell()
	if !ok {
		v.cancelEdit()
		return nil
	}
	edited := v.grid.Clone()
	edited.SetCell(row, month, v.editor.Value())
	v.editor.Blur()
	v.edit = domain.EditReconciling
	return v.reconcile(edited)
}

func (v *dashboardView) handleReconciled(msg reconciledMsg) tea.Cmd {
	v.edit = domain.EditIdle
	v.editor.Reset()
	if msg.err != nil {
		if domain.IsStateConflict(msg.err) {
			v.err = msg.err
			return nil
		}
		v.status = formatter.Error(msg.err)
		return v.loadData()
	}
	res := msg.result
	if !res.Changed {
		v.status = formatter.Dim("No changes.")
		return nil
	}
	v.rejected = nil
	for _, r := range res.Rejected {
		if v.rejected == nil {
			v.rejected = make(map[string]map[domain.MonthKey]rejectedCell)
		}
		if v.rejected[r.Resource] == nil {
			v.rejected[r.Resource] = make(map[domain.MonthKey]rejectedCell)
		}
		v.rejected[r.Resource][r.Month] = rejectedCell{input: r.Input, kept: v.keptValue(r.Resource, r.Month)}
	}
	v.status = formatter.FormatReconcile(res)
	return refreshViews()
}

func (v *dashboardView) keptValue(resource string, m domain.MonthKey) string {
	for _, row := range v.grid.Rows {
		if row.Resource == resource {
			return row.Cells[m]
		}
	}
	return ""
}

// pruneRejected drops markers for cells the store has since changed.
func (v *dashboardView) pruneRejected() {
	for _, row := range v.grid.Rows {
		cells := v.rejected[row.Resource]
		for m, rc := range cells {
			if got, ok := row.Cells[m]; ok && got != rc.kept {
				delete(cells, m)
			}
		}
		if cells != nil && len(cells) == 0 {
			delete(v.rejected, row.Resource)
		}
	}
}

func (v *dashboardView) cursorCell() (int, domain.MonthKey, bool) {
	if v.data == nil || len(v.grid.Rows) == 0 || len(v.grid.Months) == 0 {
		return 0, domain.MonthKey{}, false
	}
	return v.cursorRow, v.grid.Months[v.cursorCol], true
}

func (v *dashboardView) clampCursor() {
	if v.cursorRow >= len(v.grid.Rows) {
		v.cursorRow = max(0, len(v.grid.Rows)-1)
	}
	if v.cursorCol >= len(v.grid.Months) {
		v.cursorCol = max(0, len(v.grid.Months)-1)
	}
}

func switchPhase(phase int) tea.Cmd {
	return func() tea.Msg { return switchPhaseMsg{phase: phase} }
}

// ── view rendering ───────────────────────────────────────────────────────────

const (
	cellWidth     = 7
	resourceWidth = 16
	roleWidth     = 16
	gradeWidth    = 5
	totalWidth    = 8
)

func (v *dashboardView) View() string {
	if v.err != nil {
		var conflict *domain.StateConflictError
		if errors.As(v.err, &conflict) {
			return "\n  " + formatter.StyleRed.Bold(true).Render("State conflict: "+conflict.Error()) +
				"\n  " + formatter.Dim("The session store was not changed. Press q to quit.")
		}
		return "\n  " + formatter.Error(v.err)
	}
	if v.loading || v.data == nil {
		return "\n  " + formatter.Dim("Loading...")
	}

	var b strings.Builder
	b.WriteString(v.renderTabs() + "\n\n")
	b.WriteString(formatter.StyleBold.Render(fmt.Sprintf("%s - %s", formatter.AllocationHeading, v.data.shown.Phase.Short)) + "\n")
	b.WriteString(v.renderGrid())
	if v.status != "" {
		b.WriteString("\n" + v.status + "\n")
	}
	b.WriteString("\n" + formatter.StyleBold.Render(formatter.PhaseSummaryHeading) + "\n")
	b.WriteString(v.renderMetrics() + "\n")
	b.WriteString(v.renderDeliverables())
	b.WriteString("\n" + formatter.StyleBlue.Render(formatter.FormatGrandTotal(v.data.yearSpan, v.data.grandTotal)))
	return b.String()
}

func (v *dashboardView) renderTabs() string {
	h := v.state.App.Plan.Horizon()
	tabs := make([]string, 0, len(h.Phases))
	for i, p := range h.Phases {
		label := " " + p.Title() + " "
		if i+1 == v.data.phase {
			tabs = append(tabs, formatter.StyleCursor.Render(label))
		} else {
			tabs = append(tabs, formatter.Dim(label))
		}
	}
	return strings.Join(tabs, " ")
}

// visibleMonths picks the window of month columns that fits the terminal
// and keeps the cursor column on screen.
func (v *dashboardView) visibleMonths(showRole bool) (int, int) {
	n := len(v.grid.Months)
	fixed := resourceWidth + gradeWidth + totalWidth + 4
	if showRole {
		fixed += roleWidth + 1
	}
	width := v.state.Width
	if width <= 0 {
		width = 120
	}
	fit := max(1, (width-fixed)/cellWidth)
	if fit >= n {
		v.colOffset = 0
		return 0, n
	}
	if v.cursorCol < v.colOffset {
		v.colOffset = v.cursorCol
	}
	if v.cursorCol >= v.colOffset+fit {
		v.colOffset = v.cursorCol - fit + 1
	}
	return v.colOffset, v.colOffset + fit
}

func (v *dashboardView) renderGrid() string {
	showRole := v.state.Width >= 150
	from, to := v.visibleMonths(showRole)
	months := v.grid.Months[from:to]
	heatMax := v.state.App.Config.HeatMax

	var b strings.Builder
	head := func(s string, w int, right bool) string {
		if right {
			return formatter.StyleHeader.Render(formatter.PadLeft(s, w))
		}
		return formatter.StyleHeader.Render(formatter.PadRight(s, w))
	}

	b.WriteString(head("Resource", resourceWidth, false) + " ")
	if showRole {
		b.WriteString(head("Role", roleWidth, false) + " ")
	}
	b.WriteString(head("Grade", gradeWidth, false))
	for _, m := range months {
		b.WriteString(head(m.String(), cellWidth, true))
	}
	b.WriteString(head("Total", totalWidth, true))
	if from > 0 || to < len(v.grid.Months) {
		b.WriteString(" " + formatter.Dim(fmt.Sprintf("%d-%d/%d", from+1, to, len(v.grid.Months))))
	}
	b.WriteString("\n")

	for i, r := range v.grid.Rows {
		b.WriteString(formatter.PadRight(formatter.Truncate(r.Resource, resourceWidth), resourceWidth) + " ")
		if showRole {
			b.WriteString(formatter.Dim(formatter.PadRight(formatter.Truncate(r.Role, roleWidth), roleWidth)) + " ")
		}
		b.WriteString(formatter.Dim(formatter.PadRight(r.Grade, gradeWidth)))
		for j, m := range months {
			b.WriteString(v.renderCell(i, from+j, r, m, heatMax))
		}
		b.WriteString(formatter.Bold(formatter.PadLeft(r.PhaseTotal, totalWidth)))
		b.WriteString("\n")
	}

	// Monthly totals across all resources.
	label := "Monthly Total"
	b.WriteString(formatter.Bold(formatter.PadRight(label, resourceWidth)) + " ")
	if showRole {
		b.WriteString(strings.Repeat(" ", roleWidth+1))
	}
	b.WriteString(strings.Repeat(" ", gradeWidth))
	totals := make(map[domain.MonthKey]int, len(v.data.summary.Months))
	for _, mt := range v.data.summary.Months {
		totals[mt.Month] = mt.Days
	}
	for _, m := range months {
		b.WriteString(formatter.Bold(formatter.PadLeft(formatter.FormatDays(totals[m]), cellWidth)))
	}
	b.WriteString(formatter.Bold(formatter.PadLeft(formatter.FormatDays(v.data.summary.Total), totalWidth)))
	b.WriteString("\n")
	return b.String()
}

func (v *dashboardView) renderCell(row, col int, r domain.GridRow, m domain.MonthKey, heatMax int) string {
	raw := r.Cells[m]
	if row == v.cursorRow && col == v.cursorCol {
		if v.edit == domain.EditEditing {
			return " " + lipgloss.NewStyle().Width(cellWidth-1).Render(v.editor.View())
		}
		return " " + formatter.StyleCursor.Render(formatter.PadLeft(raw, cellWidth-1))
	}
	if rc, bad := v.rejected[r.Resource][m]; bad {
		return " " + formatter.StyleRed.Render(formatter.PadLeft("!"+formatter.Truncate(rc.input, cellWidth-2), cellWidth-1))
	}
	days, _ := strconv.Atoi(raw)
	return " " + formatter.HeatStyle(days, heatMax).Render(formatter.PadLeft(raw, cellWidth-1))
}

func (v *dashboardView) renderMetrics() string {
	boxes := make([]string, 0, 3)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(formatter.ColorDim).
		Padding(0, 1).
		Width(28)
	for _, m := range formatter.PhaseMetrics(v.data.summary) {
		content := formatter.Dim(m.Label) + "\n" + formatter.Bold(m.Value)
		if m.Note != "" {
			content += "  " + formatter.StyleGreen.Render(m.Note)
		}
		boxes = append(boxes, box.Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (v *dashboardView) renderDeliverables() string {
	var b strings.Builder
	b.WriteString(formatter.StyleBold.Render(formatter.DeliverablesHeading) + "\n")
	written := 0
	for _, e := range v.data.notes.Entries {
		if e.Text == "" {
			continue
		}
		written++
		b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.StyleBlue.Render(formatter.PadRight(e.Month.String(), 7)), e.Text))
	}
	if written == 0 {
		b.WriteString("  " + formatter.Dim("No deliverables yet. Press n to add them.") + "\n")
	}
	return b.String()
}
