package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// labelLayout is the display format for month columns, e.g. "Jul '25".
const labelLayout = "Jan '06"

// isoLayout is the storage format for month columns, e.g. "2025-07".
const isoLayout = "2006-01"

// MonthKey identifies one calendar month in the planning horizon.
type MonthKey struct {
	Year  int
	Month time.Month
}

// NewMonthKey returns the MonthKey for year and month.
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey{Year: year, Month: month}
}

func (m MonthKey) time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String returns the display label, e.g. "Jul '25".
func (m MonthKey) String() string {
	if m.IsZero() {
		return ""
	}
	return m.time().Format(labelLayout)
}

// ISO returns the storage form, e.g. "2025-07".
func (m MonthKey) ISO() string {
	return m.time().Format(isoLayout)
}

// IsZero reports whether m is the zero MonthKey.
func (m MonthKey) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Index returns a chronological ordinal; consecutive months differ by one.
func (m MonthKey) Index() int {
	return m.Year*12 + int(m.Month) - 1
}

// Next returns the following calendar month.
func (m MonthKey) Next() MonthKey {
	if m.Month == time.December {
		return MonthKey{Year: m.Year + 1, Month: time.January}
	}
	return MonthKey{Year: m.Year, Month: m.Month + 1}
}

// Before reports whether m is chronologically before other.
func (m MonthKey) Before(other MonthKey) bool {
	return m.Index() < other.Index()
}

// ParseMonthKey accepts either the storage form ("2025-07") or the display
// label ("Jul '25"), case-insensitively for the label.
func ParseMonthKey(s string) (MonthKey, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(isoLayout, s); err == nil {
		return MonthKey{Year: t.Year(), Month: t.Month()}, nil
	}
	if len(s) >= 3 {
		normalized := strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
		if t, err := time.Parse(labelLayout, normalized); err == nil {
			return MonthKey{Year: t.Year(), Month: t.Month()}, nil
		}
	}
	return MonthKey{}, fmt.Errorf("month %q: use YYYY-MM or \"Jul '25\"", s)
}

// GenerateMonths enumerates count consecutive months starting at
// (startYear, startMonth), rolling over December into January.
func GenerateMonths(startYear, startMonth, count int) ([]MonthKey, error) {
	if startMonth < 1 || startMonth > 12 {
		return nil, &ConfigurationError{Field: "start_month", Reason: fmt.Sprintf("%d is outside 1-12", startMonth)}
	}
	if count <= 0 {
		return nil, &ConfigurationError{Field: "months", Reason: "must be positive, got " + strconv.Itoa(count)}
	}
	if startYear < 1 || startYear > 9999 {
		return nil, &ConfigurationError{Field: "start_year", Reason: fmt.Sprintf("%d is out of range", startYear)}
	}
	// Labels and stored keys are four-digit years.
	if lastYear := startYear + (startMonth-1+count-1)/12; count > 12*9999 || lastYear > 9999 {
		return nil, &ConfigurationError{Field: "months", Reason: fmt.Sprintf("%d months from %04d-%02d run past year 9999", count, startYear, startMonth)}
	}

	months := make([]MonthKey, 0, count)
	cur := NewMonthKey(startYear, time.Month(startMonth))
	for i := 0; i < count; i++ {
		months = append(months, cur)
		cur = cur.Next()
	}
	return months, nil
}

// PhaseWindow is a contiguous, ordered slice of the horizon.
type PhaseWindow struct {
	Name   string // "Phase 1"
	Short  string // "Year 1"
	Months []MonthKey
}

// Contains reports whether m belongs to the window.
func (p PhaseWindow) Contains(m MonthKey) bool {
	if len(p.Months) == 0 {
		return false
	}
	idx := m.Index()
	return idx >= p.Months[0].Index() && idx <= p.Months[len(p.Months)-1].Index()
}

// First returns the first month of the window.
func (p PhaseWindow) First() MonthKey {
	if len(p.Months) == 0 {
		return MonthKey{}
	}
	return p.Months[0]
}

// Last returns the last month of the window.
func (p PhaseWindow) Last() MonthKey {
	if len(p.Months) == 0 {
		return MonthKey{}
	}
	return p.Months[len(p.Months)-1]
}

// Title returns the tab title, e.g. "Phase 1: Jul '25 - Jun '26".
func (p PhaseWindow) Title() string {
	return fmt.Sprintf("%s: %s - %s", p.Name, p.First(), p.Last())
}

// SplitPhases cuts months at firstPhaseLength into two contiguous windows.
// Both windows must be non-empty.
func SplitPhases(months []MonthKey, firstPhaseLength int) (PhaseWindow, PhaseWindow, error) {
	if firstPhaseLength <= 0 || firstPhaseLength >= len(months) {
		return PhaseWindow{}, PhaseWindow{}, &ConfigurationError{
			Field:  "phase1_months",
			Reason: fmt.Sprintf("split at %d leaves an empty phase in a %d-month horizon", firstPhaseLength, len(months)),
		}
	}
	first := make([]MonthKey, firstPhaseLength)
	copy(first, months[:firstPhaseLength])
	second := make([]MonthKey, len(months)-firstPhaseLength)
	copy(second, months[firstPhaseLength:])

	return PhaseWindow{Name: "Phase 1", Short: "Year 1", Months: first},
		PhaseWindow{Name: "Phase 2", Short: "Year 2", Months: second},
		nil
}

// Horizon is the full planning horizon and its two phases.
type Horizon struct {
	Months []MonthKey
	Phases [2]PhaseWindow
}

// NewHorizon generates the months and splits them into phases.
func NewHorizon(startYear, startMonth, count, phase1Months int) (Horizon, error) {
	months, err := GenerateMonths(startYear, startMonth, count)
	if err != nil {
		return Horizon{}, err
	}
	p1, p2, err := SplitPhases(months, phase1Months)
	if err != nil {
		return Horizon{}, err
	}
	return Horizon{Months: months, Phases: [2]PhaseWindow{p1, p2}}, nil
}

// Phase returns the window at 1-based position n.
func (h Horizon) Phase(n int) (PhaseWindow, error) {
	if n < 1 || n > len(h.Phases) {
		return PhaseWindow{}, fmt.Errorf("phase %d does not exist (use 1 or 2)", n)
	}
	return h.Phases[n-1], nil
}

// PhaseOf returns the window that owns m.
func (h Horizon) PhaseOf(m MonthKey) (PhaseWindow, bool) {
	for _, p := range h.Phases {
		if p.Contains(m) {
			return p, true
		}
	}
	return PhaseWindow{}, false
}

// Contains reports whether m is inside the horizon.
func (h Horizon) Contains(m MonthKey) bool {
	_, ok := h.PhaseOf(m)
	return ok
}

// YearSpan returns "2025-2027" style text for the horizon.
func (h Horizon) YearSpan() string {
	if len(h.Months) == 0 {
		return ""
	}
	first, last := h.Months[0].Year, h.Months[len(h.Months)-1].Year
	if first == last {
		return strconv.Itoa(first)
	}
	return fmt.Sprintf("%d-%d", first, last)
}
