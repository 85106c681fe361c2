package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/alexanderramin/poap/internal/domain"
	"github.com/alexanderramin/poap/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkedExample_AnalystPoolFirstTwoMonths(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	jul := domain.NewMonthKey(2025, time.July)
	aug := domain.NewMonthKey(2025, time.August)

	ts.editPhase(t, 1, func(g domain.Grid) {
		i := rowIndex(t, g, "Analyst Pool")
		g.SetCell(i, jul, "10")
		g.SetCell(i, aug, "5")
	})

	p1, err := ts.summary.PhaseSummary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 15, p1.Total)
	assert.Equal(t, jul, p1.PeakMonth)
	assert.Equal(t, 10, p1.PeakDays)
	assert.InDelta(t, 1.25, p1.BurnRate, 1e-9)

	p2, err := ts.summary.PhaseSummary(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, p2.Total)
	assert.Equal(t, domain.NewMonthKey(2026, time.July), p2.PeakMonth)

	plan, err := ts.summary.PlanSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, plan.GrandTotal)
	assert.Equal(t, "2025-2027", plan.Horizon.YearSpan())

	pool := plan.Resources[4]
	assert.Equal(t, "Analyst Pool", pool.Resource)
	assert.Equal(t, [2]int{15, 0}, pool.Phases)
	assert.Equal(t, 15, pool.Total)

	shown, err := ts.phases.Project(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 15, shown.Rows[4].PhaseTotal)
}

func TestPlanSummary_PhaseTotalsAddUpToGrandTotal(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	ts.editPhase(t, 1, func(g domain.Grid) {
		for i := range g.Rows {
			g.SetCell(i, g.Months[i], "3")
		}
	})
	ts.editPhase(t, 2, func(g domain.Grid) {
		g.SetCell(0, g.Months[12], "22")
	})

	plan, err := ts.summary.PlanSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, plan.Phases[0].Total)
	assert.Equal(t, 22, plan.Phases[1].Total)
	assert.Equal(t, plan.Phases[0].Total+plan.Phases[1].Total, plan.GrandTotal)
	assert.Equal(t, domain.NewMonthKey(2027, time.July), plan.Phases[1].PeakMonth)
}

func TestPhaseSummary_UnknownPhase(t *testing.T) {
	ts := setupServices(t)
	_, err := ts.summary.PhaseSummary(context.Background(), 0)
	assert.Error(t, err)
}

func TestExport_CSVHasOneRowPerResource(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	ts.editPhase(t, 1, func(g domain.Grid) {
		g.SetCell(rowIndex(t, g, "Analyst Pool"), domain.NewMonthKey(2025, time.July), "10")
	})

	var buf bytes.Buffer
	n, err := ts.export.Write(ctx, &buf, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, []string{"Resource", "Role", "Grade", "Jul '25"}, records[0][:4])
	assert.Equal(t, []string{"Analyst Pool", "Analyst Support", "L6", "10"}, records[5][:4])
}

func TestExport_JSONCarriesDeliverables(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	shown, err := ts.phases.ProjectDeliverables(ctx, 1)
	require.NoError(t, err)
	edited := append([]domain.DeliverableEntry(nil), shown.Entries...)
	edited[2].Text = "Target operating model signed off"
	_, err = ts.phases.ReconcileDeliverables(ctx, 1, shown, edited)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = ts.export.Write(ctx, &buf, export.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"2025-09": "Target operating model signed off"`)
}

func TestExport_UnknownFormat(t *testing.T) {
	ts := setupServices(t)
	_, err := ts.export.Write(context.Background(), &bytes.Buffer{}, export.Format("xlsx"))
	require.Error(t, err)
	last := ts.observer.events[len(ts.observer.events)-1]
	assert.Equal(t, "export", last.Name)
	assert.False(t, last.Success)
}
