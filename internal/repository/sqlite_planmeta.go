package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/poap/internal/db"
	"github.com/alexanderramin/poap/internal/domain"
)

// SQLitePlanMetaRepo implements PlanMetaRepo using a SQLite database.
type SQLitePlanMetaRepo struct {
	db db.DBTX
}

// NewSQLitePlanMetaRepo creates a new SQLitePlanMetaRepo.
func NewSQLitePlanMetaRepo(conn db.DBTX) *SQLitePlanMetaRepo {
	return &SQLitePlanMetaRepo{db: conn}
}

func (r *SQLitePlanMetaRepo) Get(ctx context.Context) (*domain.PlanMeta, error) {
	query := `SELECT id, session_id, start_month, month_count, phase1_months, created_at
		FROM plan_meta WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, domain.DefaultPlanID)

	var (
		m         domain.PlanMeta
		start     string
		createdAt string
	)
	err := row.Scan(&m.ID, &m.SessionID, &start, &m.MonthCount, &m.Phase1Months, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan meta: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan meta: %w", err)
	}
	if m.Start, err = scanMonth(start); err != nil {
		return nil, fmt.Errorf("scanning plan meta: %w", err)
	}
	if m.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("scanning plan meta created_at: %w", err)
	}
	return &m, nil
}

func (r *SQLitePlanMetaRepo) Create(ctx context.Context, m *domain.PlanMeta) error {
	query := `INSERT INTO plan_meta (id, session_id, start_month, month_count, phase1_months, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.SessionID,
		monthToValue(m.Start),
		m.MonthCount,
		m.Phase1Months,
		timeToValue(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting plan meta: %w", err)
	}
	return nil
}
