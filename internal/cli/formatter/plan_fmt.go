package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/poap/internal/app"
	"github.com/alexanderramin/poap/internal/domain"
)

// Section headings shared by the TUI and the plain-text summary.
const (
	AllocationHeading   = "Resource Allocation"
	DeliverablesHeading = "Key Deliverables & Milestones"
	DescriptionColumn   = "Deliverable Description"
	PhaseSummaryHeading = "Phase Summary"
)

// FormatTitle renders the plan title with its caption underneath.
func FormatTitle(title, caption string) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render(title))
	if caption != "" {
		b.WriteString("\n" + Dim(caption))
	}
	return b.String()
}

// FormatMonths lists every horizon month with its phase.
func FormatMonths(h domain.Horizon) string {
	rows := make([][]string, 0, len(h.Months))
	for i, m := range h.Months {
		phase, _ := h.PhaseOf(m)
		rows = append(rows, []string{strconv.Itoa(i + 1), m.String(), m.ISO(), phase.Name})
	}

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Horizon %s", h.YearSpan())) + "\n")
	for _, p := range h.Phases {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleBlue.Render(p.Title()), Dim(fmt.Sprintf("(%d months)", len(p.Months)))))
	}
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"#", "MONTH", "ISO", "PHASE"}, rows))
	return b.String()
}

// PhaseMetric is one labelled figure in a phase summary.
type PhaseMetric struct {
	Label string
	Value string
	Note  string
}

// PhaseMetrics returns the three summary figures for a phase.
func PhaseMetrics(ps app.PhaseSummary) []PhaseMetric {
	return []PhaseMetric{
		{Label: "Total Days (This Phase)", Value: FormatDays(ps.Total)},
		{Label: "Peak Activity Month", Value: ps.PeakMonth.String(), Note: fmt.Sprintf("%s days", FormatDays(ps.PeakDays))},
		{Label: "Avg. Burn Rate", Value: FormatBurnRate(ps.BurnRate)},
	}
}

// FormatPhaseMetrics renders PhaseMetrics as aligned label/value lines.
func FormatPhaseMetrics(ps app.PhaseSummary) string {
	var b strings.Builder
	for _, m := range PhaseMetrics(ps) {
		b.WriteString(Dim(PadRight(m.Label, 25)))
		b.WriteString(Bold(m.Value))
		if m.Note != "" {
			b.WriteString("  " + StyleGreen.Render(m.Note))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatGrandTotal renders the footer line for the whole horizon.
func FormatGrandTotal(yearSpan string, total int) string {
	return fmt.Sprintf("Grand Total Project Effort (%s): %s Days", yearSpan, FormatDays(total))
}

// FormatPlanSummary renders the non-interactive summary: per-phase metrics,
// per-resource totals, then the grand total.
func FormatPlanSummary(title, caption string, s *app.PlanSummary) string {
	var b strings.Builder
	b.WriteString(FormatTitle(title, caption) + "\n\n")

	for _, ps := range s.Phases {
		b.WriteString(Header(ps.Window.Title()) + "\n")
		b.WriteString(FormatPhaseMetrics(ps))
		b.WriteString("\n")
	}

	headers := []string{"RESOURCE", "ROLE", "GRADE"}
	for _, ps := range s.Phases {
		headers = append(headers, strings.ToUpper(ps.Window.Short))
	}
	headers = append(headers, "TOTAL")

	rows := make([][]string, 0, len(s.Resources))
	for _, r := range s.Resources {
		rows = append(rows, []string{
			r.Resource, r.Role, r.Grade,
			FormatDays(r.Phases[0]), FormatDays(r.Phases[1]), FormatDays(r.Total),
		})
	}
	footer := []string{"Total", "", "", FormatDays(s.Phases[0].Total), FormatDays(s.Phases[1].Total), FormatDays(s.GrandTotal)}

	b.WriteString(Header("Resource Totals") + "\n")
	b.WriteString(RenderTable(headers, rows, AlignRightFrom(3), WithFooter(footer)))
	b.WriteString("\n")
	b.WriteString(StyleBlue.Render(FormatGrandTotal(s.Horizon.YearSpan(), s.GrandTotal)) + "\n")
	return b.String()
}

// FormatRejected lists cells that were not applied.
func FormatRejected(rejected []*domain.ValidationError) string {
	if len(rejected) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleYellow.Render(fmt.Sprintf("%d cell(s) rejected, previous values kept:", len(rejected))) + "\n")
	for _, r := range rejected {
		b.WriteString(fmt.Sprintf("  %s %s / %s: %q %s\n",
			StyleYellow.Render("!"), r.Resource, r.Month, r.Input, Dim(r.Reason)))
	}
	return b.String()
}

// FormatReconcile summarizes a grid reconciliation in one or more lines.
func FormatReconcile(res *app.ReconcileResult) string {
	if res == nil || !res.Changed {
		return Dim("No changes.")
	}
	var b strings.Builder
	b.WriteString(StyleGreen.Render(fmt.Sprintf("%s: %s updated.", res.Phase, plural(len(res.Applied), "cell"))))
	if len(res.Rejected) > 0 {
		b.WriteString("\n" + strings.TrimRight(FormatRejected(res.Rejected), "\n"))
	}
	return b.String()
}

// FormatDeliverableReconcile is the notes counterpart of FormatReconcile.
func FormatDeliverableReconcile(res *app.DeliverableReconcileResult) string {
	if res == nil || !res.Changed {
		return Dim("No changes.")
	}
	return StyleGreen.Render(fmt.Sprintf("%s: %s updated.", res.Phase, plural(len(res.Applied), "deliverable")))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
