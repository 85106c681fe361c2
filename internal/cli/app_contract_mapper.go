package cli

import (
	poapapp "github.com/alexanderramin/poap/internal/app"
	"github.com/alexanderramin/poap/internal/config"
	"github.com/alexanderramin/poap/internal/contract"
	"github.com/alexanderramin/poap/internal/domain"
)

func mapPlanSummaryToContract(cfg config.Config, s *poapapp.PlanSummary, rejected []*domain.ValidationError) contract.SummaryResponse {
	resp := contract.SummaryResponse{
		Title:      cfg.Title,
		Caption:    cfg.Caption,
		YearSpan:   s.Horizon.YearSpan(),
		GrandTotal: s.GrandTotal,
	}
	for _, ps := range s.Phases {
		resp.Phases = append(resp.Phases, mapPhaseSummaryToContract(ps))
	}
	for _, r := range s.Resources {
		resp.Resources = append(resp.Resources, contract.ResourceSummary{
			Resource: r.Resource,
			Role:     r.Role,
			Grade:    r.Grade,
			Phase1:   r.Phases[0],
			Phase2:   r.Phases[1],
			Total:    r.Total,
		})
	}
	for _, v := range rejected {
		resp.Warnings = append(resp.Warnings, contract.RejectedCellView{
			Resource: v.Resource,
			Month:    v.Month.ISO(),
			Input:    v.Input,
			Reason:   v.Reason,
		})
	}
	return resp
}

func mapPhaseSummaryToContract(ps poapapp.PhaseSummary) contract.PhaseSummary {
	out := contract.PhaseSummary{
		Name:       ps.Window.Name,
		Title:      ps.Window.Title(),
		FirstMonth: ps.Window.First().ISO(),
		LastMonth:  ps.Window.Last().ISO(),
		TotalDays:  ps.Total,
		PeakMonth:  ps.PeakMonth.ISO(),
		PeakDays:   ps.PeakDays,
		BurnRate:   ps.BurnRate,
	}
	for _, mt := range ps.Months {
		out.MonthTotals = append(out.MonthTotals, contract.MonthTotals{Month: mt.Month.ISO(), Days: mt.Days})
	}
	return out
}
