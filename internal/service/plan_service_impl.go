package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/poap/internal/db"
	"github.com/alexanderramin/poap/internal/domain"
	"github.com/alexanderramin/poap/internal/repository"
)

type planService struct {
	horizon      domain.Horizon
	seeds        []domain.SeedRow
	sessionID    string
	meta         repository.PlanMetaRepo
	allocations  repository.AllocationRepo
	deliverables repository.DeliverableRepo
	uow          db.UnitOfWork
	observer     UseCaseObserver
}

func NewPlanService(
	horizon domain.Horizon,
	seeds []domain.SeedRow,
	sessionID string,
	meta repository.PlanMetaRepo,
	allocations repository.AllocationRepo,
	deliverables repository.DeliverableRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		horizon:      horizon,
		seeds:        seeds,
		sessionID:    sessionID,
		meta:         meta,
		allocations:  allocations,
		deliverables: deliverables,
		uow:          uow,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Horizon() domain.Horizon {
	return s.horizon
}

// Initialize seeds both tables once per session. A second call finds the
// plan_meta row and returns created=false without touching anything.
func (s *planService) Initialize(ctx context.Context) (created bool, err error) {
	fields := map[string]any{"months": len(s.horizon.Months), "resources": len(s.seeds)}
	defer observe(ctx, s.observer, "initialize-plan", fields, &err)()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMeta := repository.NewSQLitePlanMetaRepo(tx)
		txAllocations := repository.NewSQLiteAllocationRepo(tx)
		txDeliverables := repository.NewSQLiteDeliverableRepo(tx)

		existing, err := txMeta.Get(ctx)
		switch {
		case err == nil:
			return s.checkHorizon(existing)
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		table, err := domain.NewAllocationTable(s.seeds, s.horizon.Months)
		if err != nil {
			return err
		}
		for i, row := range table.Rows {
			if err := txAllocations.CreateRow(ctx, i, row); err != nil {
				return err
			}
		}
		for _, e := range domain.NewDeliverableSet(s.horizon.Months).Entries {
			if err := txDeliverables.Create(ctx, e); err != nil {
				return err
			}
		}
		if err := txMeta.Create(ctx, &domain.PlanMeta{
			ID:           domain.DefaultPlanID,
			SessionID:    s.sessionID,
			Start:        s.horizon.Months[0],
			MonthCount:   len(s.horizon.Months),
			Phase1Months: len(s.horizon.Phases[0].Months),
			CreatedAt:    time.Now().UTC(),
		}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("initializing plan: %w", err)
	}
	fields["created"] = created
	return created, nil
}

// checkHorizon refuses to reuse state seeded for a different calendar.
func (s *planService) checkHorizon(m *domain.PlanMeta) error {
	if m.Start != s.horizon.Months[0] || m.MonthCount != len(s.horizon.Months) || m.Phase1Months != len(s.horizon.Phases[0].Months) {
		return &domain.StateConflictError{Reason: fmt.Sprintf(
			"plan was initialized from %s for %d months (phase 1: %d)", m.Start, m.MonthCount, m.Phase1Months)}
	}
	return nil
}

func (s *planService) Meta(ctx context.Context) (*domain.PlanMeta, error) {
	return s.meta.Get(ctx)
}

func (s *planService) Table(ctx context.Context) (*domain.AllocationTable, error) {
	return s.allocations.LoadTable(ctx, s.horizon.Months)
}

func (s *planService) Deliverables(ctx context.Context) (*domain.DeliverableSet, error) {
	return s.deliverables.LoadSet(ctx, s.horizon.Months)
}
