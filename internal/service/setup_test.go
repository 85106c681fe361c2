package service

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/poap/internal/db"
	"github.com/alexanderramin/poap/internal/domain"
	"github.com/alexanderramin/poap/internal/repository"
	"github.com/alexanderramin/poap/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	horizon  domain.Horizon
	plan     PlanService
	phases   PhaseService
	summary  SummaryService
	export   ExportService
	alloc    *repository.SQLiteAllocationRepo
	notes    *repository.SQLiteDeliverableRepo
	meta     *repository.SQLitePlanMetaRepo
	database *sql.DB
	uow      db.UnitOfWork
	observer *recordingObserver
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func (r *recordingObserver) names() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

// setupServices wires every service over a fresh session store and runs
// Initialize.
func setupServices(t *testing.T, opts ...testutil.HorizonOption) *testServices {
	t.Helper()
	database := testutil.NewTestDB(t)
	h := testutil.NewTestHorizon(t, opts...)
	uow := testutil.NewTestUoW(database)
	ts := &testServices{
		horizon:  h,
		alloc:    repository.NewSQLiteAllocationRepo(database),
		notes:    repository.NewSQLiteDeliverableRepo(database),
		meta:     repository.NewSQLitePlanMetaRepo(database),
		database: database,
		uow:      uow,
		observer: &recordingObserver{},
	}
	ts.plan = NewPlanService(h, testutil.NewTestSeeds(), "test-session", ts.meta, ts.alloc, ts.notes, uow, ts.observer)
	ts.phases = NewPhaseService(h, ts.alloc, ts.notes, uow, ts.observer)
	ts.summary = NewSummaryService(h, ts.alloc)
	ts.export = NewExportService(h, ts.alloc, ts.notes, ts.observer)

	created, err := ts.plan.Initialize(context.Background())
	require.NoError(t, err)
	require.True(t, created)
	return ts
}

// editPhase projects phase, lets edit change the grid, and reconciles.
func (ts *testServices) editPhase(t *testing.T, phase int, edit func(g domain.Grid)) {
	t.Helper()
	ctx := context.Background()
	shown, err := ts.phases.Project(ctx, phase)
	require.NoError(t, err)
	edited := shown.Grid().Clone()
	edit(edited)
	_, err = ts.phases.ReconcileAllocations(ctx, phase, shown, edited)
	require.NoError(t, err)
}

func rowIndex(t *testing.T, g domain.Grid, resource string) int {
	t.Helper()
	for i, r := range g.Rows {
		if r.Resource == resource {
			return i
		}
	}
	t.Fatalf("resource %q not in grid", resource)
	return -1
}

func newLogBuffer() (*bytes.Buffer, UseCaseObserver) {
	var buf bytes.Buffer
	return &buf, NewLogUseCaseObserver(&buf, "sess-42")
}
