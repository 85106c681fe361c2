package testutil

import (
	"testing"
	"time"

	"github.com/alexanderramin/poap/internal/domain"
	"github.com/google/uuid"
)

type horizonSpec struct {
	year, month, count, phase1 int
}

// Horizon options
type HorizonOption func(*horizonSpec)

func WithStart(year, month int) HorizonOption {
	return func(s *horizonSpec) {
		s.year, s.month = year, month
	}
}

func WithMonths(count, phase1 int) HorizonOption {
	return func(s *horizonSpec) {
		s.count, s.phase1 = count, phase1
	}
}

// NewTestHorizon returns the standard Jul '25 horizon split 12/13 unless
// options say otherwise.
func NewTestHorizon(t *testing.T, opts ...HorizonOption) domain.Horizon {
	t.Helper()
	s := horizonSpec{year: 2025, month: 7, count: 25, phase1: 12}
	for _, o := range opts {
		o(&s)
	}
	h, err := domain.NewHorizon(s.year, s.month, s.count, s.phase1)
	if err != nil {
		t.Fatalf("building test horizon: %v", err)
	}
	return h
}

// NewTestSeeds returns seed rows for names, or the default five resources
// when no names are given.
func NewTestSeeds(names ...string) []domain.SeedRow {
	if len(names) == 0 {
		return domain.DefaultSeedRows()
	}
	seeds := make([]domain.SeedRow, len(names))
	for i, n := range names {
		seeds[i] = domain.SeedRow{Resource: n, Role: "Consultant", Grade: "L4"}
	}
	return seeds
}

// Plan meta options
type PlanMetaOption func(*domain.PlanMeta)

func WithSessionID(id string) PlanMetaOption {
	return func(m *domain.PlanMeta) {
		m.SessionID = id
	}
}

func NewTestPlanMeta(h domain.Horizon, opts ...PlanMetaOption) *domain.PlanMeta {
	m := &domain.PlanMeta{
		ID:           domain.DefaultPlanID,
		SessionID:    uuid.New().String(),
		Start:        h.Months[0],
		MonthCount:   len(h.Months),
		Phase1Months: len(h.Phases[0].Months),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}
