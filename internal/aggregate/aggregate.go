// Package aggregate computes totals over an allocation table snapshot.
// Every function is pure: it reads the table and never mutates it.
package aggregate

import "github.com/alexanderramin/poap/internal/domain"

// MonthTotal is the sum across all rows for one month.
type MonthTotal struct {
	Month domain.MonthKey
	Days  int
}

// Snapshot is the per-render summary of one phase.
type Snapshot struct {
	Phase     string
	Months    []MonthTotal
	Total     int
	PeakMonth domain.MonthKey
	PeakDays  int
	BurnRate  float64
}

// MonthTotals sums each month across every row, in the order of months.
func MonthTotals(t *domain.AllocationTable, months []domain.MonthKey) []MonthTotal {
	out := make([]MonthTotal, len(months))
	for i, m := range months {
		out[i].Month = m
		for _, r := range t.Rows {
			out[i].Days += r.Value(m)
		}
	}
	return out
}

// PhaseTotal is the sum of all cells in months.
func PhaseTotal(t *domain.AllocationTable, months []domain.MonthKey) int {
	total := 0
	for _, r := range t.Rows {
		total += r.Sum(months)
	}
	return total
}

// RowTotal is one resource's total across months.
func RowTotal(r *domain.ResourceRow, months []domain.MonthKey) int {
	return r.Sum(months)
}

// GrandTotal sums every cell in the table's full horizon.
func GrandTotal(t *domain.AllocationTable) int {
	return PhaseTotal(t, t.Months)
}

// PeakMonth returns the month with the highest total. Ties go to the
// earliest month; an empty input yields the zero MonthKey.
func PeakMonth(totals []MonthTotal) (domain.MonthKey, int) {
	if len(totals) == 0 {
		return domain.MonthKey{}, 0
	}
	best := totals[0]
	for _, mt := range totals[1:] {
		if mt.Days > best.Days {
			best = mt
		}
	}
	return best.Month, best.Days
}

// BurnRate is total divided by the number of months, at full precision.
func BurnRate(total, monthCount int) float64 {
	if monthCount <= 0 {
		return 0
	}
	return float64(total) / float64(monthCount)
}

// PhaseSnapshot computes the summary for phase from t.
func PhaseSnapshot(t *domain.AllocationTable, phase domain.PhaseWindow) Snapshot {
	totals := MonthTotals(t, phase.Months)
	sum := 0
	for _, mt := range totals {
		sum += mt.Days
	}
	peak, peakDays := PeakMonth(totals)
	return Snapshot{
		Phase:     phase.Name,
		Months:    totals,
		Total:     sum,
		PeakMonth: peak,
		PeakDays:  peakDays,
		BurnRate:  BurnRate(sum, len(phase.Months)),
	}
}
