package formatter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/poap/internal/aggregate"
	"github.com/alexanderramin/poap/internal/app"
	"github.com/alexanderramin/poap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlanSummary(t *testing.T) *app.PlanSummary {
	t.Helper()
	h, err := domain.NewHorizon(2025, 7, 25, 12)
	require.NoError(t, err)
	table, err := domain.NewAllocationTable(domain.DefaultSeedRows(), h.Months)
	require.NoError(t, err)

	jul := domain.NewMonthKey(2025, time.July)
	table.Row("Sarah Jenkins").Days[jul] = 5
	table.Row("Analyst Pool").Days[jul] = 10
	table.Row("Analyst Pool").Days[domain.NewMonthKey(2027, time.January)] = 1200

	s := &app.PlanSummary{Horizon: h, GrandTotal: aggregate.GrandTotal(table)}
	for i, w := range h.Phases {
		s.Phases[i] = app.PhaseSummary{Window: w, Snapshot: aggregate.PhaseSnapshot(table, w)}
	}
	for _, r := range table.Rows {
		rt := app.ResourceTotal{Resource: r.Resource, Role: r.Role, Grade: r.Grade, Total: r.Sum(h.Months)}
		for i, w := range h.Phases {
			rt.Phases[i] = r.Sum(w.Months)
		}
		s.Resources = append(s.Resources, rt)
	}
	return s
}

func TestFormatGrandTotal(t *testing.T) {
	assert.Equal(t, "Grand Total Project Effort (2025-2027): 1,215 Days", FormatGrandTotal("2025-2027", 1215))
	assert.Equal(t, "Grand Total Project Effort (2026): 0 Days", FormatGrandTotal("2026", 0))
}

func TestPhaseMetrics_WorkedExample(t *testing.T) {
	s := samplePlanSummary(t)
	metrics := PhaseMetrics(s.Phases[0])
	require.Len(t, metrics, 3)

	assert.Equal(t, "Total Days (This Phase)", metrics[0].Label)
	assert.Equal(t, "15", metrics[0].Value)
	assert.Equal(t, "Jul '25", metrics[1].Value)
	assert.Equal(t, "15 days", metrics[1].Note)
	assert.Equal(t, "1.3 days/mo", metrics[2].Value)
}

func TestFormatPlanSummary(t *testing.T) {
	out := stripANSI(FormatPlanSummary("Project Phoenix: Resource & Delivery Plan", "Global Transformation Office", samplePlanSummary(t)))

	assert.True(t, strings.HasPrefix(out, "Project Phoenix: Resource & Delivery Plan\nGlobal Transformation Office\n"))
	assert.Contains(t, out, "PHASE 1: JUL '25 - JUN '26")
	assert.Contains(t, out, "PHASE 2: JUL '26 - JUL '27")
	assert.Contains(t, out, "Jan '27")
	assert.Contains(t, out, "1,200 days")
	assert.Contains(t, out, "92.3 days/mo")
	assert.Contains(t, out, "YEAR 1")
	assert.Contains(t, out, "Grand Total Project Effort (2025-2027): 1,215 Days")

	var poolLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Analyst Pool") {
			poolLine = line
		}
	}
	require.NotEmpty(t, poolLine)
	assert.Equal(t, []string{"Analyst", "Pool", "Analyst", "Support", "L6", "10", "1,200", "1,210"}, strings.Fields(poolLine))
}

func TestFormatMonths(t *testing.T) {
	h, err := domain.NewHorizon(2025, 11, 4, 2)
	require.NoError(t, err)
	out := stripANSI(FormatMonths(h))

	assert.Contains(t, out, "HORIZON 2025-2026")
	assert.Contains(t, out, "Phase 1: Nov '25 - Dec '25  (2 months)")
	assert.Contains(t, out, "Phase 2: Jan '26 - Feb '26  (2 months)")
	assert.Regexp(t, `3\s+Jan '26\s+2026-01\s+Phase 2`, out)
}

func TestFormatReconcile(t *testing.T) {
	assert.Equal(t, "No changes.", stripANSI(FormatReconcile(&app.ReconcileResult{Phase: "Phase 1"})))

	jul := domain.NewMonthKey(2025, time.July)
	out := stripANSI(FormatReconcile(&app.ReconcileResult{
		Phase:   "Phase 1",
		Changed: true,
		Applied: []domain.CellChange{{Resource: "David Chen", Month: jul, Old: 0, New: 4}},
		Rejected: []*domain.ValidationError{
			{Resource: "Priya Patel", Month: jul, Input: "-2", Reason: "must not be negative"},
		},
	}))
	assert.Contains(t, out, "Phase 1: 1 cell updated.")
	assert.Contains(t, out, "1 cell(s) rejected")
	assert.Contains(t, out, `Priya Patel / Jul '25: "-2" must not be negative`)
}

func TestFormatDeliverableReconcile(t *testing.T) {
	out := stripANSI(FormatDeliverableReconcile(&app.DeliverableReconcileResult{
		Phase:   "Phase 2",
		Changed: true,
		Applied: []domain.DeliverableChange{{}, {}},
	}))
	assert.Equal(t, "Phase 2: 2 deliverables updated.", out)
}

func TestError(t *testing.T) {
	assert.Equal(t, "Error: boom", stripANSI(Error(errors.New("boom"))))
}
