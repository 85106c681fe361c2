package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/poap/internal/db"
	"github.com/alexanderramin/poap/internal/domain"
)

// SQLiteDeliverableRepo implements DeliverableRepo using a SQLite database.
type SQLiteDeliverableRepo struct {
	db db.DBTX
}

// NewSQLiteDeliverableRepo creates a new SQLiteDeliverableRepo.
func NewSQLiteDeliverableRepo(conn db.DBTX) *SQLiteDeliverableRepo {
	return &SQLiteDeliverableRepo{db: conn}
}

func (r *SQLiteDeliverableRepo) Create(ctx context.Context, e domain.DeliverableEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO deliverables (month, description) VALUES (?, ?)`,
		monthToValue(e.Month), e.Text)
	if err != nil {
		return fmt.Errorf("inserting deliverable %s: %w", e.Month, err)
	}
	return nil
}

func (r *SQLiteDeliverableRepo) LoadSet(ctx context.Context, months []domain.MonthKey) (*domain.DeliverableSet, error) {
	set := domain.NewDeliverableSet(months)
	index := make(map[domain.MonthKey]int, len(months))
	for i, m := range months {
		index[m] = i
	}

	rows, err := r.db.QueryContext(ctx, `SELECT month, description FROM deliverables`)
	if err != nil {
		return nil, fmt.Errorf("listing deliverables: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var month, text string
		if err := rows.Scan(&month, &text); err != nil {
			return nil, fmt.Errorf("scanning deliverable: %w", err)
		}
		m, err := scanMonth(month)
		if err != nil {
			return nil, err
		}
		if i, ok := index[m]; ok {
			set.Entries[i].Text = text
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deliverables: %w", err)
	}
	return set, nil
}

func (r *SQLiteDeliverableRepo) SetText(ctx context.Context, month domain.MonthKey, text string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE deliverables SET description = ? WHERE month = ?`,
		text, monthToValue(month))
	if err != nil {
		return fmt.Errorf("updating deliverable %s: %w", month, err)
	}
	return requireAffected(res, fmt.Sprintf("deliverable %s", month))
}
