package app

import (
	"github.com/alexanderramin/poap/internal/aggregate"
	"github.com/alexanderramin/poap/internal/domain"
)

// ReconcileResult reports what reconciling one phase grid did.
// Changed is false when the edited grid matched what was shown; nothing was
// written in that case.
type ReconcileResult struct {
	Phase    string
	Changed  bool
	Applied  []domain.CellChange
	Rejected []*domain.ValidationError
}

// DeliverableReconcileResult is the notes-table counterpart of ReconcileResult.
type DeliverableReconcileResult struct {
	Phase   string
	Changed bool
	Applied []domain.DeliverableChange
}

// PhaseSummary pairs a phase window with its aggregate snapshot.
type PhaseSummary struct {
	Window domain.PhaseWindow
	aggregate.Snapshot
}

// ResourceTotal is one resource's effort per phase and overall.
type ResourceTotal struct {
	Resource string
	Role     string
	Grade    string
	Phases   [2]int
	Total    int
}

// PlanSummary is everything the summary screens show.
type PlanSummary struct {
	Horizon    domain.Horizon
	Phases     [2]PhaseSummary
	Resources  []ResourceTotal
	GrandTotal int
}
