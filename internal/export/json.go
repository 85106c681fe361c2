package export

import (
	"fmt"
	"io"

	"github.com/alexanderramin/poap/internal/domain"
	"github.com/bytedance/sonic"
)

// Document is the JSON form of a plan.
type Document struct {
	Months       []string          `json:"months"`
	Resources    []ResourceRecord  `json:"resources"`
	Deliverables map[string]string `json:"deliverables,omitempty"`
}

// ResourceRecord is one resource row keyed by month label.
type ResourceRecord struct {
	Resource string         `json:"resource"`
	Role     string         `json:"role"`
	Grade    string         `json:"grade"`
	Days     map[string]int `json:"days"`
	Total    int            `json:"total"`
}

// NewDocument builds the JSON document. Months are keyed by ISO form so the
// output sorts chronologically.
func NewDocument(t *domain.AllocationTable, deliverables *domain.DeliverableSet) Document {
	doc := Document{Months: make([]string, len(t.Months))}
	for i, m := range t.Months {
		doc.Months[i] = m.ISO()
	}
	for _, r := range t.Rows {
		rec := ResourceRecord{Resource: r.Resource, Role: r.Role, Grade: r.Grade, Days: make(map[string]int, len(t.Months))}
		for _, m := range t.Months {
			rec.Days[m.ISO()] = r.Value(m)
		}
		rec.Total = r.Sum(t.Months)
		doc.Resources = append(doc.Resources, rec)
	}
	if deliverables != nil {
		for _, e := range deliverables.Entries {
			if e.Text == "" {
				continue
			}
			if doc.Deliverables == nil {
				doc.Deliverables = make(map[string]string)
			}
			doc.Deliverables[e.Month.ISO()] = e.Text
		}
	}
	return doc
}

// WriteJSON writes the plan as indented JSON.
func WriteJSON(w io.Writer, t *domain.AllocationTable, deliverables *domain.DeliverableSet) error {
	return Encode(w, NewDocument(t, deliverables))
}

// Encode writes v as indented JSON followed by a newline.
func Encode(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}
