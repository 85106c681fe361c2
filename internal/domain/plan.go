package domain

import "time"

// PlanMeta marks a session's plan as initialized and records the horizon it
// was created with.
type PlanMeta struct {
	ID           string
	SessionID    string
	Start        MonthKey
	MonthCount   int
	Phase1Months int
	CreatedAt    time.Time
}

// DefaultPlanID is the single plan row held by a session store.
const DefaultPlanID = "default"
