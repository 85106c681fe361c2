package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ResourceRow is one staff line of the allocation table.
type ResourceRow struct {
	Resource string
	Role     string
	Grade    string
	Days     map[MonthKey]int
}

// Value returns the effort days for m; missing cells read as 0.
func (r *ResourceRow) Value(m MonthKey) int {
	if r == nil || r.Days == nil {
		return 0
	}
	return r.Days[m]
}

// AllocationTable is the authoritative resource × month grid of effort days.
type AllocationTable struct {
	Months []MonthKey
	Rows   []*ResourceRow
}

// SeedRow is the static metadata used to create a ResourceRow.
type SeedRow struct {
	Resource string `yaml:"resource" validate:"required"`
	Role     string `yaml:"role"`
	Grade    string `yaml:"grade"`
}

// DefaultSeedRows returns the five resources every new plan starts with.
func DefaultSeedRows() []SeedRow {
	return []SeedRow{
		{Resource: "Sarah Jenkins", Role: "Partner", Grade: "L1"},
		{Resource: "David Chen", Role: "Engagement Mgr", Grade: "L3"},
		{Resource: "Priya Patel", Role: "Senior Associate", Grade: "L4"},
		{Resource: "Marcus Johnson", Role: "Associate", Grade: "L5"},
		{Resource: "Analyst Pool", Role: "Analyst Support", Grade: "L6"},
	}
}

// NewAllocationTable builds a table with every seed row at 0 for every month.
// Resource names must be unique and non-empty.
func NewAllocationTable(seeds []SeedRow, months []MonthKey) (*AllocationTable, error) {
	seen := make(map[string]bool, len(seeds))
	t := &AllocationTable{Months: append([]MonthKey(nil), months...)}
	for _, s := range seeds {
		name := strings.TrimSpace(s.Resource)
		if name == "" {
			return nil, &ConfigurationError{Field: "resources", Reason: "resource name is required"}
		}
		if seen[name] {
			return nil, &ConfigurationError{Field: "resources", Reason: fmt.Sprintf("duplicate resource %q", name)}
		}
		seen[name] = true

		row := &ResourceRow{Resource: name, Role: s.Role, Grade: s.Grade, Days: make(map[MonthKey]int, len(months))}
		for _, m := range months {
			row.Days[m] = 0
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Row returns the row for resource, or nil.
func (t *AllocationTable) Row(resource string) *ResourceRow {
	for _, r := range t.Rows {
		if r.Resource == resource {
			return r
		}
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *AllocationTable) Clone() *AllocationTable {
	c := &AllocationTable{Months: append([]MonthKey(nil), t.Months...)}
	for _, r := range t.Rows {
		days := make(map[MonthKey]int, len(r.Days))
		for k, v := range r.Days {
			days[k] = v
		}
		c.Rows = append(c.Rows, &ResourceRow{Resource: r.Resource, Role: r.Role, Grade: r.Grade, Days: days})
	}
	return c
}

// Patch holds raw user input keyed by resource, then month.
type Patch map[string]map[MonthKey]string

// Set records raw input for one cell.
func (p Patch) Set(resource string, month MonthKey, raw string) {
	if p[resource] == nil {
		p[resource] = make(map[MonthKey]string)
	}
	p[resource][month] = raw
}

// CellChange records one cell that ApplyPatch actually changed.
type CellChange struct {
	Resource string
	Month    MonthKey
	Old      int
	New      int
}

// PatchResult summarizes an applied patch.
type PatchResult struct {
	Changes  []CellChange
	Rejected []*ValidationError
}

// CoerceDays converts raw cell input into non-negative whole days.
// Integral decimals ("5.0") are accepted.
func CoerceDays(raw string) (int, string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, "is empty", false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, "is negative", false
		}
		if n > math.MaxInt32 {
			return 0, "is too large", false
		}
		return n, "", true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, "is not a number", false
	}
	if f < 0 {
		return 0, "is negative", false
	}
	if f != math.Trunc(f) {
		return 0, "is not a whole number of days", false
	}
	if f > math.MaxInt32 {
		return 0, "is too large", false
	}
	return int(f), "", true
}

// ApplyPatch writes patch into t, touching only cells whose month is in
// columns. A cell outside columns or for an unknown resource aborts the whole
// patch with a *StateConflictError before anything changes. Cells that fail
// coercion keep their prior value and are reported in PatchResult.Rejected.
func ApplyPatch(t *AllocationTable, columns PhaseWindow, patch Patch) (PatchResult, error) {
	allowed := make(map[MonthKey]bool, len(columns.Months))
	for _, m := range columns.Months {
		allowed[m] = true
	}

	for resource, cells := range patch {
		if t.Row(resource) == nil {
			return PatchResult{}, &StateConflictError{Resource: resource, Phase: columns.Name, Reason: "unknown resource"}
		}
		for m := range cells {
			if !allowed[m] {
				return PatchResult{}, &StateConflictError{Resource: resource, Month: m, Phase: columns.Name, Reason: "month is outside the phase being edited"}
			}
		}
	}

	var res PatchResult
	// Walk rows and months in table order so results are deterministic.
	for _, row := range t.Rows {
		cells, ok := patch[row.Resource]
		if !ok {
			continue
		}
		for _, m := range columns.Months {
			raw, ok := cells[m]
			if !ok {
				continue
			}
			n, reason, valid := CoerceDays(raw)
			if !valid {
				res.Rejected = append(res.Rejected, &ValidationError{Resource: row.Resource, Month: m, Input: raw, Reason: reason})
				continue
			}
			old := row.Value(m)
			if old == n {
				continue
			}
			if row.Days == nil {
				row.Days = make(map[MonthKey]int)
			}
			row.Days[m] = n
			res.Changes = append(res.Changes, CellChange{Resource: row.Resource, Month: m, Old: old, New: n})
		}
	}
	return res, nil
}
