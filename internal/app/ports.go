package app

import (
	"context"

	"github.com/alexanderramin/poap/internal/domain"
)

type InitializePlanUseCase interface {
	Initialize(ctx context.Context) (created bool, err error)
}

type ReconcileAllocationsUseCase interface {
	ReconcileAllocations(ctx context.Context, phase int, shown *domain.Projection, edited domain.Grid) (*ReconcileResult, error)
}

type ReconcileDeliverablesUseCase interface {
	ReconcileDeliverables(ctx context.Context, phase int, shown *domain.DeliverableProjection, edited []domain.DeliverableEntry) (*DeliverableReconcileResult, error)
}
