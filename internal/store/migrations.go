package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all studyplan tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id                TEXT PRIMARY KEY,
		title             TEXT NOT NULL,
		subject           TEXT NOT NULL DEFAULT '',
		priority          INTEGER NOT NULL DEFAULT 3,
		deadline          TEXT NOT NULL DEFAULT '',
		estimated_minutes INTEGER NOT NULL,
		status            TEXT NOT NULL DEFAULT 'pending',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS time_blocks (
		id               TEXT PRIMARY KEY,
		task_id          TEXT NOT NULL DEFAULT '',
		date             TEXT NOT NULL,
		start_minutes    INTEGER NOT NULL,
		duration_minutes INTEGER NOT NULL,
		type             TEXT NOT NULL DEFAULT 'task',
		title            TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_deadline ON tasks(deadline)`,
	// The conflict detector loads a whole day at once.
	`CREATE INDEX IF NOT EXISTS idx_time_blocks_date ON time_blocks(date)`,
	`CREATE INDEX IF NOT EXISTS idx_time_blocks_task_id ON time_blocks(task_id)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
