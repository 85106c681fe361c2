package repository

import (
	"context"

	"github.com/alexanderramin/poap/internal/domain"
)

type PlanMetaRepo interface {
	Get(ctx context.Context) (*domain.PlanMeta, error)
	Create(ctx context.Context, m *domain.PlanMeta) error
}

// AllocationRepo stores resource rows and their month cells.
type AllocationRepo interface {
	// CreateRow inserts the resource and one cell per month in row.Days.
	CreateRow(ctx context.Context, order int, row *domain.ResourceRow) error
	// LoadTable reads every resource in insertion order. Cells missing for
	// a month in months read as 0.
	LoadTable(ctx context.Context, months []domain.MonthKey) (*domain.AllocationTable, error)
	SetCell(ctx context.Context, resource string, month domain.MonthKey, days int) error
	CountRows(ctx context.Context) (int, error)
}

type DeliverableRepo interface {
	Create(ctx context.Context, e domain.DeliverableEntry) error
	LoadSet(ctx context.Context, months []domain.MonthKey) (*domain.DeliverableSet, error)
	SetText(ctx context.Context, month domain.MonthKey, text string) error
}
