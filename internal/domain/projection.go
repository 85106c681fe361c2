package domain

import "strconv"

// EditState is the per-tab editing lifecycle.
type EditState int

const (
	EditIdle EditState = iota
	EditEditing
	EditReconciling
)

func (s EditState) String() string {
	switch s {
	case EditEditing:
		return "editing"
	case EditReconciling:
		return "reconciling"
	default:
		return "idle"
	}
}

// Sum returns the row's total across months.
func (r *ResourceRow) Sum(months []MonthKey) int {
	total := 0
	for _, m := range months {
		total += r.Value(m)
	}
	return total
}

// ProjectionRow is one read-only row of a phase projection.
type ProjectionRow struct {
	Resource   string
	Role       string
	Grade      string
	Days       map[MonthKey]int
	PhaseTotal int
}

// Projection is the display view of the allocation table for one phase.
// It is derived on every render and never written back directly.
type Projection struct {
	Phase PhaseWindow
	Rows  []ProjectionRow
}

// BuildProjection restricts t to phase and computes each row's Phase Total
// over exactly the phase's months.
func BuildProjection(t *AllocationTable, phase PhaseWindow) *Projection {
	p := &Projection{Phase: phase, Rows: make([]ProjectionRow, 0, len(t.Rows))}
	for _, r := range t.Rows {
		days := make(map[MonthKey]int, len(phase.Months))
		for _, m := range phase.Months {
			days[m] = r.Value(m)
		}
		p.Rows = append(p.Rows, ProjectionRow{
			Resource:   r.Resource,
			Role:       r.Role,
			Grade:      r.Grade,
			Days:       days,
			PhaseTotal: r.Sum(phase.Months),
		})
	}
	return p
}

// Grid returns an editable copy of the projection with cells as text.
func (p *Projection) Grid() Grid {
	g := Grid{Months: append([]MonthKey(nil), p.Phase.Months...), Rows: make([]GridRow, len(p.Rows))}
	for i, r := range p.Rows {
		cells := make(map[MonthKey]string, len(p.Phase.Months))
		for _, m := range p.Phase.Months {
			cells[m] = strconv.Itoa(r.Days[m])
		}
		g.Rows[i] = GridRow{
			Resource:   r.Resource,
			Role:       r.Role,
			Grade:      r.Grade,
			Cells:      cells,
			PhaseTotal: strconv.Itoa(r.PhaseTotal),
		}
	}
	return g
}

// GridRow is one editable row. PhaseTotal is display-only.
type GridRow struct {
	Resource   string
	Role       string
	Grade      string
	Cells      map[MonthKey]string
	PhaseTotal string
}

// Grid is the user's working copy of a phase projection.
type Grid struct {
	Months []MonthKey
	Rows   []GridRow
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	c := Grid{Months: append([]MonthKey(nil), g.Months...), Rows: make([]GridRow, len(g.Rows))}
	for i, r := range g.Rows {
		cells := make(map[MonthKey]string, len(r.Cells))
		for k, v := range r.Cells {
			cells[k] = v
		}
		r.Cells = cells
		c.Rows[i] = r
	}
	return c
}

// SetCell stores raw input for the cell at row index i and month m.
func (g Grid) SetCell(i int, m MonthKey, raw string) {
	if i < 0 || i >= len(g.Rows) {
		return
	}
	if g.Rows[i].Cells == nil {
		g.Rows[i].Cells = make(map[MonthKey]string)
	}
	g.Rows[i].Cells[m] = raw
}

// EqualValues compares the editable month cells of g and other. Metadata
// and the computed Phase Total are ignored.
func (g Grid) EqualValues(other Grid) bool {
	if len(g.Months) != len(other.Months) || len(g.Rows) != len(other.Rows) {
		return false
	}
	for i := range g.Months {
		if g.Months[i] != other.Months[i] {
			return false
		}
	}
	for i := range g.Rows {
		a, b := g.Rows[i], other.Rows[i]
		if a.Resource != b.Resource || len(a.Cells) != len(b.Cells) {
			return false
		}
		for m, v := range a.Cells {
			if w, ok := b.Cells[m]; !ok || w != v {
				return false
			}
		}
	}
	return true
}

// Diff returns the month cells of g that differ from base. Rows absent from
// base contribute every cell.
func (g Grid) Diff(base Grid) Patch {
	baseRows := make(map[string]GridRow, len(base.Rows))
	for _, r := range base.Rows {
		baseRows[r.Resource] = r
	}
	patch := make(Patch)
	for _, r := range g.Rows {
		prior, known := baseRows[r.Resource]
		for m, v := range r.Cells {
			if known {
				if old, ok := prior.Cells[m]; ok && old == v {
					continue
				}
			}
			patch.Set(r.Resource, m, v)
		}
	}
	return patch
}

// DeliverableProjection is the transposed, month-per-row notes view of a phase.
type DeliverableProjection struct {
	Phase   PhaseWindow
	Entries []DeliverableEntry
}

// BuildDeliverableProjection restricts s to phase.
func BuildDeliverableProjection(s *DeliverableSet, phase PhaseWindow) *DeliverableProjection {
	return &DeliverableProjection{Phase: phase, Entries: s.Restrict(phase)}
}

// Diff returns the months whose text in edited differs from the projection.
func (p *DeliverableProjection) Diff(edited []DeliverableEntry) map[MonthKey]string {
	shown := make(map[MonthKey]string, len(p.Entries))
	for _, e := range p.Entries {
		shown[e.Month] = e.Text
	}
	out := make(map[MonthKey]string)
	for _, e := range edited {
		if old, ok := shown[e.Month]; ok && old == e.Text {
			continue
		}
		out[e.Month] = e.Text
	}
	return out
}
