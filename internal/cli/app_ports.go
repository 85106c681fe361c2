package cli

import "github.com/alexanderramin/poap/internal/app"

func (a *App) reconcileAllocationsUseCase() app.ReconcileAllocationsUseCase {
	if a.ReconcileAllocations != nil {
		return a.ReconcileAllocations
	}
	return a.Phases
}

func (a *App) reconcileDeliverablesUseCase() app.ReconcileDeliverablesUseCase {
	if a.ReconcileDeliverables != nil {
		return a.ReconcileDeliverables
	}
	return a.Phases
}
