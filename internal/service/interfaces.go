package service

import (
	"context"
	"io"

	"github.com/alexanderramin/poap/internal/app"
	"github.com/alexanderramin/poap/internal/domain"
	"github.com/alexanderramin/poap/internal/export"
)

type PlanService interface {
	Initialize(ctx context.Context) (created bool, err error)
	Meta(ctx context.Context) (*domain.PlanMeta, error)
	Horizon() domain.Horizon
	Table(ctx context.Context) (*domain.AllocationTable, error)
	Deliverables(ctx context.Context) (*domain.DeliverableSet, error)
}

type PhaseService interface {
	Project(ctx context.Context, phase int) (*domain.Projection, error)
	ReconcileAllocations(ctx context.Context, phase int, shown *domain.Projection, edited domain.Grid) (*app.ReconcileResult, error)
	ProjectDeliverables(ctx context.Context, phase int) (*domain.DeliverableProjection, error)
	ReconcileDeliverables(ctx context.Context, phase int, shown *domain.DeliverableProjection, edited []domain.DeliverableEntry) (*app.DeliverableReconcileResult, error)
}

type SummaryService interface {
	PhaseSummary(ctx context.Context, phase int) (*app.PhaseSummary, error)
	PlanSummary(ctx context.Context) (*app.PlanSummary, error)
}

type ExportService interface {
	// Write streams the whole plan to w and returns the number of resource
	// rows written.
	Write(ctx context.Context, w io.Writer, format export.Format) (int, error)
}
