package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plan_meta (
		id            TEXT PRIMARY KEY,
		session_id    TEXT NOT NULL,
		start_month   TEXT NOT NULL,
		month_count   INTEGER NOT NULL CHECK(month_count >= 2),
		phase1_months INTEGER NOT NULL CHECK(phase1_months >= 1 AND phase1_months < month_count),
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS resources (
		name        TEXT PRIMARY KEY,
		role        TEXT NOT NULL DEFAULT '',
		grade       TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_resources_order ON resources(order_index)`,

	`CREATE TABLE IF NOT EXISTS allocations (
		resource TEXT NOT NULL REFERENCES resources(name) ON DELETE CASCADE,
		month    TEXT NOT NULL,
		days     INTEGER NOT NULL DEFAULT 0 CHECK(days >= 0),
		PRIMARY KEY (resource, month)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_allocations_month ON allocations(month)`,

	`CREATE TABLE IF NOT EXISTS deliverables (
		month       TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT ''
	)`,
}
