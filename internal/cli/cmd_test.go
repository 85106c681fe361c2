package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/poap/internal/config"
	"github.com/alexanderramin/poap/internal/contract"
	"github.com/alexanderramin/poap/internal/domain"
	"github.com/alexanderramin/poap/internal/repository"
	"github.com/alexanderramin/poap/internal/service"
	"github.com/alexanderramin/poap/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wireTestServices builds every service for cfg over a fresh in-memory store.
func wireTestServices(t *testing.T, app *App, cfg config.Config) {
	t.Helper()
	h, err := cfg.Horizon()
	require.NoError(t, err)

	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	alloc := repository.NewSQLiteAllocationRepo(database)
	notes := repository.NewSQLiteDeliverableRepo(database)
	meta := repository.NewSQLitePlanMetaRepo(database)

	app.Plan = service.NewPlanService(h, cfg.Resources, "cli-test", meta, alloc, notes, uow)
	app.Phases = service.NewPhaseService(h, alloc, notes, uow)
	app.Summary = service.NewSummaryService(h, alloc)
	app.Export = service.NewExportService(h, alloc, notes)
}

// testApp wires a full App backed by an in-memory DB with the default
// Project Phoenix plan already initialized.
func testApp(t *testing.T) *App {
	t.Helper()
	app := &App{Config: config.Default()}
	wireTestServices(t, app, app.Config)
	_, err := app.Plan.Initialize(context.Background())
	require.NoError(t, err)
	return app
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func cellValue(t *testing.T, app *App, resource string, m domain.MonthKey) int {
	t.Helper()
	table, err := app.Plan.Table(context.Background())
	require.NoError(t, err)
	row := table.Row(resource)
	require.NotNil(t, row, "resource %q", resource)
	return row.Value(m)
}

// --- months ---

func TestMonthsCmd_ListsHorizon(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "months")
	require.NoError(t, err)
	assert.Contains(t, out, "Phase 1: Jul '25 - Jun '26")
	assert.Contains(t, out, "Phase 2: Jul '26 - Jul '27")
	assert.Contains(t, out, "2027-07")
	assert.Contains(t, out, "(13 months)")
}

// --- summary ---

func TestSummaryCmd_Default(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Project Phoenix: Resource & Delivery Plan")
	assert.Contains(t, out, "Global Transformation Office")
	assert.Contains(t, out, "Grand Total Project Effort (2025-2027): 0 Days")
}

func TestSummaryCmd_SetEditsRouteToOwningPhase(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "summary",
		"--set", "Analyst Pool@2025-07=10",
		"--set", "Analyst Pool@Aug '25=5",
		"--set", "David Chen@2026-07=3",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Grand Total Project Effort (2025-2027): 18 Days")
	assert.Contains(t, out, "1.3 days/mo")

	assert.Equal(t, 10, cellValue(t, app, "Analyst Pool", domain.NewMonthKey(2025, time.July)))
	assert.Equal(t, 5, cellValue(t, app, "Analyst Pool", domain.NewMonthKey(2025, time.August)))
	assert.Equal(t, 3, cellValue(t, app, "David Chen", domain.NewMonthKey(2026, time.July)))
}

func TestSummaryCmd_JSONReportsRejectedCells(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "summary", "--json",
		"--set", "Analyst Pool@2025-07=10",
		"--set", "Analyst Pool@2025-08=5",
		"--set", "Priya Patel@2025-09=-2",
	)
	require.NoError(t, err)

	var resp contract.SummaryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "2025-2027", resp.YearSpan)
	assert.Equal(t, 15, resp.GrandTotal)
	require.Len(t, resp.Phases, 2)
	assert.Equal(t, 15, resp.Phases[0].TotalDays)
	assert.Equal(t, "2025-07", resp.Phases[0].PeakMonth)
	assert.Equal(t, 10, resp.Phases[0].PeakDays)
	assert.InDelta(t, 1.25, resp.Phases[0].BurnRate, 1e-9)
	assert.Len(t, resp.Phases[0].MonthTotals, 12)
	assert.Len(t, resp.Phases[1].MonthTotals, 13)

	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "Priya Patel", resp.Warnings[0].Resource)
	assert.Equal(t, "2025-09", resp.Warnings[0].Month)
	assert.Equal(t, "-2", resp.Warnings[0].Input)

	assert.Equal(t, 0, cellValue(t, app, "Priya Patel", domain.NewMonthKey(2025, time.September)))
}

func TestSummaryCmd_RejectsBadEdits(t *testing.T) {
	tests := []struct {
		name string
		arg  []string
		want string
	}{
		{"missing equals", []string{"--set", "Analyst Pool@2025-07"}, "RESOURCE@MONTH=DAYS"},
		{"missing month", []string{"--set", "Analyst Pool=4"}, "RESOURCE@MONTH=DAYS"},
		{"bad month", []string{"--set", "Analyst Pool@July=4"}, "use YYYY-MM"},
		{"outside horizon", []string{"--set", "Analyst Pool@2030-01=4"}, "outside the plan horizon"},
		{"unknown resource", []string{"--set", "Nobody@2025-07=4"}, `unknown resource "Nobody"`},
		{"note without text separator", []string{"--note", "2025-07"}, "MONTH=TEXT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testApp(t)
			_, err := executeCmd(t, app, append([]string{"summary"}, tt.arg...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseCellEdit_NormalizesInput(t *testing.T) {
	edit, err := parseCellEdit("  Analyst Pool @ Jul ’25 = 7 ")
	require.NoError(t, err)
	assert.Equal(t, "Analyst Pool", edit.Resource)
	assert.Equal(t, domain.NewMonthKey(2025, time.July), edit.Month)
	assert.Equal(t, " 7 ", edit.Raw)

	// Decomposed "e" + combining acute folds to the precomposed form.
	edit, err = parseCellEdit("Rene\u0301@2025-07=1")
	require.NoError(t, err)
	assert.Equal(t, "Ren\u00e9", edit.Resource)
}

// --- notes + export ---

func TestExportCmd_StdoutJSONIncludesNotes(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "export", "--out", "-", "--format", "json",
		"--note", "2025-08=Steering committee review",
		"--set", "Marcus Johnson@2026-01=8",
	)
	require.NoError(t, err)
	assert.Contains(t, out, `"2025-08": "Steering committee review"`)
	assert.Contains(t, out, `"2026-01": 8`)

	set, err := app.Plan.Deliverables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Steering committee review", set.Text(domain.NewMonthKey(2025, time.August)))
}

func TestExportCmd_WritesCSVFile(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "plan.csv")

	out, err := executeCmd(t, app, "export", "--out", path, "--set", "Sarah Jenkins@2025-07=2")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 5 resources to "+path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, []string{"Resource", "Role", "Grade", "Jul '25"}, records[0][:4])
	assert.Equal(t, []string{"Sarah Jenkins", "Partner", "L1", "2"}, records[1][:4])
}

func TestExportCmd_FormatFollowsExtension(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "plan.json")

	_, err := executeCmd(t, app, "export", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(data)), "{"))
}

func TestExportCmd_ExplicitFormatRenamesConfiguredFile(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	app.Config.ExportFile = filepath.Join(dir, "plan.csv")

	out, err := executeCmd(t, app, "export", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "plan.json"))

	data, err := os.ReadFile(filepath.Join(dir, "plan.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(data)), "{"))
	_, err = os.Stat(filepath.Join(dir, "plan.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "export", "--out", "-", "--format", "xlsx")
	require.Error(t, err)
}

// --- root ---

func TestRootCmd_NonInteractivePrintsSummary(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return false }

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "Grand Total Project Effort (2025-2027): 0 Days")
}

func TestRootCmd_InvalidConfigurationAborts(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "months", "--phase1-months", "25")
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestRootCmd_WireSeesParsedFlags(t *testing.T) {
	app := &App{Config: config.Default()}
	var wired config.Config
	app.Wire = func(cfg config.Config) error {
		wired = cfg
		wireTestServices(t, app, cfg)
		return nil
	}

	out, err := executeCmd(t, app, "months", "--start-year", "2026", "--start-month", "11", "--months", "4", "--phase1-months", "2")
	require.NoError(t, err)
	assert.Equal(t, 4, wired.Months)
	assert.Contains(t, out, "Phase 1: Nov '26 - Dec '26")
	assert.Contains(t, out, "Phase 2: Jan '27 - Feb '27")
}

func TestRootCmd_InitializeIsIdempotentAcrossCommands(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "summary", "--set", "Analyst Pool@2025-07=4")
	require.NoError(t, err)
	out, err := executeCmd(t, app, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Grand Total Project Effort (2025-2027): 4 Days")
}
