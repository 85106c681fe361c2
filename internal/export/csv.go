// Package export serializes the allocation table for use outside a session.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/alexanderramin/poap/internal/domain"
)

// DefaultFileName is the file name offered for CSV downloads.
const DefaultFileName = "consultancy_poap.csv"

// Header returns the CSV header row: metadata columns then month labels.
func Header(months []domain.MonthKey) []string {
	header := make([]string, 0, 3+len(months))
	header = append(header, "Resource", "Role", "Grade")
	for _, m := range months {
		header = append(header, m.String())
	}
	return header
}

// WriteCSV writes the whole table, header first, one row per resource.
func WriteCSV(w io.Writer, t *domain.AllocationTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(t.Months)); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	record := make([]string, 3+len(t.Months))
	for _, r := range t.Rows {
		record[0], record[1], record[2] = r.Resource, r.Role, r.Grade
		for i, m := range t.Months {
			record[3+i] = strconv.Itoa(r.Value(m))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %q: %w", r.Resource, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
