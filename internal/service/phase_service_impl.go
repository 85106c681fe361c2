package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/poap/internal/app"
	"github.com/alexanderramin/poap/internal/db"
	"github.com/alexanderramin/poap/internal/domain"
	"github.com/alexanderramin/poap/internal/repository"
)

type phaseService struct {
	horizon      domain.Horizon
	allocations  repository.AllocationRepo
	deliverables repository.DeliverableRepo
	uow          db.UnitOfWork
	observer     UseCaseObserver
}

func NewPhaseService(
	horizon domain.Horizon,
	allocations repository.AllocationRepo,
	deliverables repository.DeliverableRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PhaseService {
	return &phaseService{
		horizon:      horizon,
		allocations:  allocations,
		deliverables: deliverables,
		uow:          uow,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *phaseService) Project(ctx context.Context, phase int) (*domain.Projection, error) {
	window, err := s.horizon.Phase(phase)
	if err != nil {
		return nil, err
	}
	table, err := s.allocations.LoadTable(ctx, s.horizon.Months)
	if err != nil {
		return nil, fmt.Errorf("projecting %s: %w", window.Name, err)
	}
	return domain.BuildProjection(table, window), nil
}

// ReconcileAllocations writes the cells the user changed in edited back to
// the session store. Only month cells are compared, so a recomputed Phase
// Total never counts as an edit. Cells outside the phase abort the whole
// batch; cells that fail coercion are skipped and reported.
func (s *phaseService) ReconcileAllocations(ctx context.Context, phase int, shown *domain.Projection, edited domain.Grid) (res *app.ReconcileResult, err error) {
	fields := map[string]any{"phase": phase}
	defer observe(ctx, s.observer, "reconcile-allocations", fields, &err)()

	window, err := s.resolveShown(phase, shown)
	if err != nil {
		return nil, err
	}
	base := shown.Grid()
	res = &app.ReconcileResult{Phase: window.Name}
	if edited.EqualValues(base) {
		fields["changed"] = false
		return res, nil
	}
	res.Changed = true
	patch := edited.Diff(base)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAllocations := repository.NewSQLiteAllocationRepo(tx)

		table, err := txAllocations.LoadTable(ctx, s.horizon.Months)
		if err != nil {
			return err
		}
		result, err := domain.ApplyPatch(table, window, patch)
		if err != nil {
			return err
		}
		for _, c := range result.Changes {
			if err := txAllocations.SetCell(ctx, c.Resource, c.Month, c.New); err != nil {
				return err
			}
		}
		res.Applied, res.Rejected = result.Changes, result.Rejected
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconciling %s: %w", window.Name, err)
	}
	fields["changed"] = true
	fields["applied"] = len(res.Applied)
	fields["rejected"] = len(res.Rejected)
	return res, nil
}

func (s *phaseService) resolveShown(phase int, shown *domain.Projection) (domain.PhaseWindow, error) {
	window, err := s.horizon.Phase(phase)
	if err != nil {
		return domain.PhaseWindow{}, err
	}
	if shown == nil {
		return domain.PhaseWindow{}, fmt.Errorf("reconciling %s: no projection was shown", window.Name)
	}
	if shown.Phase.Name != window.Name {
		return domain.PhaseWindow{}, &domain.StateConflictError{
			Phase:  window.Name,
			Reason: fmt.Sprintf("grid was projected for %s", shown.Phase.Name),
		}
	}
	return window, nil
}

func (s *phaseService) ProjectDeliverables(ctx context.Context, phase int) (*domain.DeliverableProjection, error) {
	window, err := s.horizon.Phase(phase)
	if err != nil {
		return nil, err
	}
	set, err := s.deliverables.LoadSet(ctx, s.horizon.Months)
	if err != nil {
		return nil, fmt.Errorf("projecting %s deliverables: %w", window.Name, err)
	}
	return domain.BuildDeliverableProjection(set, window), nil
}

func (s *phaseService) ReconcileDeliverables(ctx context.Context, phase int, shown *domain.DeliverableProjection, edited []domain.DeliverableEntry) (res *app.DeliverableReconcileResult, err error) {
	fields := map[string]any{"phase": phase}
	defer observe(ctx, s.observer, "reconcile-deliverables", fields, &err)()

	window, err := s.horizon.Phase(phase)
	if err != nil {
		return nil, err
	}
	if shown == nil {
		return nil, fmt.Errorf("reconciling %s deliverables: no projection was shown", window.Name)
	}
	if shown.Phase.Name != window.Name {
		return nil, &domain.StateConflictError{Phase: window.Name, Reason: fmt.Sprintf("notes were projected for %s", shown.Phase.Name)}
	}
	res = &app.DeliverableReconcileResult{Phase: window.Name}
	patch := shown.Diff(edited)
	if len(patch) == 0 {
		fields["changed"] = false
		return res, nil
	}
	res.Changed = true

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txDeliverables := repository.NewSQLiteDeliverableRepo(tx)

		set, err := txDeliverables.LoadSet(ctx, s.horizon.Months)
		if err != nil {
			return err
		}
		changes, err := domain.ApplyDeliverablePatch(set, window, patch)
		if err != nil {
			return err
		}
		for _, c := range changes {
			if err := txDeliverables.SetText(ctx, c.Month, c.New); err != nil {
				return err
			}
		}
		res.Applied = changes
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconciling %s deliverables: %w", window.Name, err)
	}
	fields["changed"] = true
	fields["applied"] = len(res.Applied)
	return res, nil
}
