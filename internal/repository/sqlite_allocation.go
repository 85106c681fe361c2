package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/poap/internal/db"
	"github.com/alexanderramin/poap/internal/domain"
)

// SQLiteAllocationRepo implements AllocationRepo using a SQLite database.
type SQLiteAllocationRepo struct {
	db db.DBTX
}

// NewSQLiteAllocationRepo creates a new SQLiteAllocationRepo.
func NewSQLiteAllocationRepo(conn db.DBTX) *SQLiteAllocationRepo {
	return &SQLiteAllocationRepo{db: conn}
}

func (r *SQLiteAllocationRepo) CreateRow(ctx context.Context, order int, row *domain.ResourceRow) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resources (name, role, grade, order_index) VALUES (?, ?, ?, ?)`,
		row.Resource, row.Role, row.Grade, order)
	if err != nil {
		return fmt.Errorf("inserting resource %q: %w", row.Resource, err)
	}
	for m, days := range row.Days {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO allocations (resource, month, days) VALUES (?, ?, ?)`,
			row.Resource, monthToValue(m), days)
		if err != nil {
			return fmt.Errorf("inserting allocation %s/%s: %w", row.Resource, m, err)
		}
	}
	return nil
}

func (r *SQLiteAllocationRepo) LoadTable(ctx context.Context, months []domain.MonthKey) (*domain.AllocationTable, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, role, grade FROM resources ORDER BY order_index`)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	t := &domain.AllocationTable{Months: append([]domain.MonthKey(nil), months...)}
	byName := make(map[string]*domain.ResourceRow)
	for rows.Next() {
		row := &domain.ResourceRow{Days: make(map[domain.MonthKey]int, len(months))}
		if err := rows.Scan(&row.Resource, &row.Role, &row.Grade); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning resource: %w", err)
		}
		for _, m := range months {
			row.Days[m] = 0
		}
		t.Rows = append(t.Rows, row)
		byName[row.Resource] = row
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating resources: %w", err)
	}
	rows.Close()

	cells, err := r.db.QueryContext(ctx, `SELECT resource, month, days FROM allocations`)
	if err != nil {
		return nil, fmt.Errorf("listing allocations: %w", err)
	}
	defer cells.Close()
	if err := scanCells(cells, byName); err != nil {
		return nil, err
	}
	return t, nil
}

// scanCells fills byName from allocation rows. Months outside the loaded
// horizon are kept so a reload never silently drops data.
func scanCells(rows *sql.Rows, byName map[string]*domain.ResourceRow) error {
	for rows.Next() {
		var (
			resource, month string
			days            int
		)
		if err := rows.Scan(&resource, &month, &days); err != nil {
			return fmt.Errorf("scanning allocation: %w", err)
		}
		m, err := scanMonth(month)
		if err != nil {
			return err
		}
		if row, ok := byName[resource]; ok {
			row.Days[m] = days
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating allocations: %w", err)
	}
	return nil
}

func (r *SQLiteAllocationRepo) SetCell(ctx context.Context, resource string, month domain.MonthKey, days int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE allocations SET days = ? WHERE resource = ? AND month = ?`,
		days, resource, monthToValue(month))
	if err != nil {
		return fmt.Errorf("updating allocation %s/%s: %w", resource, month, err)
	}
	return requireAffected(res, fmt.Sprintf("allocation %s/%s", resource, month))
}

func (r *SQLiteAllocationRepo) CountRows(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting resources: %w", err)
	}
	return n, nil
}
