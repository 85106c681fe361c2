package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/poap/internal/domain"
)

// monthToValue converts a MonthKey to its stored ISO form.
func monthToValue(m domain.MonthKey) string {
	return m.ISO()
}

// scanMonth parses a stored ISO month.
func scanMonth(s string) (domain.MonthKey, error) {
	m, err := domain.ParseMonthKey(s)
	if err != nil {
		return domain.MonthKey{}, fmt.Errorf("stored month %q: %w", s, err)
	}
	return m, nil
}

// timeToValue formats t in UTC as RFC3339 for SQLite storage.
func timeToValue(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// requireAffected turns a zero-row update into ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: reading rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
