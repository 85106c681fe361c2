package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/poap/internal/aggregate"
	"github.com/alexanderramin/poap/internal/app"
	"github.com/alexanderramin/poap/internal/domain"
	"github.com/alexanderramin/poap/internal/repository"
)

type summaryService struct {
	horizon     domain.Horizon
	allocations repository.AllocationRepo
}

func NewSummaryService(horizon domain.Horizon, allocations repository.AllocationRepo) SummaryService {
	return &summaryService{horizon: horizon, allocations: allocations}
}

func (s *summaryService) PhaseSummary(ctx context.Context, phase int) (*app.PhaseSummary, error) {
	window, err := s.horizon.Phase(phase)
	if err != nil {
		return nil, err
	}
	table, err := s.allocations.LoadTable(ctx, s.horizon.Months)
	if err != nil {
		return nil, fmt.Errorf("summarizing %s: %w", window.Name, err)
	}
	return &app.PhaseSummary{Window: window, Snapshot: aggregate.PhaseSnapshot(table, window)}, nil
}

func (s *summaryService) PlanSummary(ctx context.Context) (*app.PlanSummary, error) {
	table, err := s.allocations.LoadTable(ctx, s.horizon.Months)
	if err != nil {
		return nil, fmt.Errorf("summarizing plan: %w", err)
	}
	return summarize(table, s.horizon), nil
}

func summarize(table *domain.AllocationTable, h domain.Horizon) *app.PlanSummary {
	out := &app.PlanSummary{Horizon: h, GrandTotal: aggregate.GrandTotal(table)}
	for i, window := range h.Phases {
		out.Phases[i] = app.PhaseSummary{Window: window, Snapshot: aggregate.PhaseSnapshot(table, window)}
	}
	for _, r := range table.Rows {
		rt := app.ResourceTotal{Resource: r.Resource, Role: r.Role, Grade: r.Grade}
		for i, window := range h.Phases {
			rt.Phases[i] = aggregate.RowTotal(r, window.Months)
		}
		rt.Total = aggregate.RowTotal(r, h.Months)
		out.Resources = append(out.Resources, rt)
	}
	return out
}
