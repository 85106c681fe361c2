package domain

// DeliverablesLabel is the row heading of the deliverables table.
const DeliverablesLabel = "Key Deliverables"

// DeliverableEntry is the free-text milestone note for one month.
type DeliverableEntry struct {
	Month MonthKey
	Text  string
}

// DeliverableSet holds exactly one entry per horizon month, in order.
type DeliverableSet struct {
	Entries []DeliverableEntry
}

// NewDeliverableSet returns an empty-text entry for every month.
func NewDeliverableSet(months []MonthKey) *DeliverableSet {
	s := &DeliverableSet{Entries: make([]DeliverableEntry, len(months))}
	for i, m := range months {
		s.Entries[i] = DeliverableEntry{Month: m}
	}
	return s
}

// Text returns the note for m.
func (s *DeliverableSet) Text(m MonthKey) string {
	for _, e := range s.Entries {
		if e.Month == m {
			return e.Text
		}
	}
	return ""
}

// Restrict returns the entries that fall inside phase, in month order.
func (s *DeliverableSet) Restrict(phase PhaseWindow) []DeliverableEntry {
	out := make([]DeliverableEntry, 0, len(phase.Months))
	for _, m := range phase.Months {
		out = append(out, DeliverableEntry{Month: m, Text: s.Text(m)})
	}
	return out
}

// DeliverableChange records one note that was rewritten.
type DeliverableChange struct {
	Month MonthKey
	Old   string
	New   string
}

// ApplyDeliverablePatch writes patch into s for months inside phase.
// A month outside phase, or one the set does not hold, aborts with a
// *StateConflictError before anything changes.
func ApplyDeliverablePatch(s *DeliverableSet, phase PhaseWindow, patch map[MonthKey]string) ([]DeliverableChange, error) {
	index := make(map[MonthKey]int, len(s.Entries))
	for i, e := range s.Entries {
		index[e.Month] = i
	}
	for m := range patch {
		if !phase.Contains(m) {
			return nil, &StateConflictError{Month: m, Phase: phase.Name, Reason: "deliverable month is outside the phase being edited"}
		}
		if _, ok := index[m]; !ok {
			return nil, &StateConflictError{Month: m, Phase: phase.Name, Reason: "month is not in the plan"}
		}
	}

	var changes []DeliverableChange
	for _, m := range phase.Months {
		text, ok := patch[m]
		if !ok {
			continue
		}
		i := index[m]
		if s.Entries[i].Text == text {
			continue
		}
		changes = append(changes, DeliverableChange{Month: m, Old: s.Entries[i].Text, New: text})
		s.Entries[i].Text = text
	}
	return changes, nil
}
