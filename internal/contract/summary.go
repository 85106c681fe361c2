// Package contract holds the JSON documents printed by scripted commands.
package contract

// SummaryResponse is the output of `poap summary --json`.
type SummaryResponse struct {
	Title      string             `json:"title"`
	Caption    string             `json:"caption,omitempty"`
	YearSpan   string             `json:"year_span"`
	Phases     []PhaseSummary     `json:"phases"`
	Resources  []ResourceSummary  `json:"resources"`
	GrandTotal int                `json:"grand_total_days"`
	Warnings   []RejectedCellView `json:"rejected_cells,omitempty"`
}

type PhaseSummary struct {
	Name        string        `json:"name"`
	Title       string        `json:"title"`
	FirstMonth  string        `json:"first_month"`
	LastMonth   string        `json:"last_month"`
	TotalDays   int           `json:"total_days"`
	PeakMonth   string        `json:"peak_month"`
	PeakDays    int           `json:"peak_days"`
	BurnRate    float64       `json:"burn_rate"`
	MonthTotals []MonthTotals `json:"month_totals"`
}

type MonthTotals struct {
	Month string `json:"month"`
	Days  int    `json:"days"`
}

type ResourceSummary struct {
	Resource string `json:"resource"`
	Role     string `json:"role"`
	Grade    string `json:"grade"`
	Phase1   int    `json:"phase1_days"`
	Phase2   int    `json:"phase2_days"`
	Total    int    `json:"total_days"`
}

// RejectedCellView reports a scripted edit that failed coercion.
type RejectedCellView struct {
	Resource string `json:"resource"`
	Month    string `json:"month"`
	Input    string `json:"input"`
	Reason   string `json:"reason"`
}
