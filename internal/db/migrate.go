package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ... ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Table names shared with the stores and tests.
const (
	TableObjectives = "objectives"
	TableHistory    = "objective_history"
	TableComments   = "comments"
)

var migrations = []string{
	// parent_id uses RESTRICT: removing a parent while children still point at
	// it is refused by the store; cascading deletes remove children first.
	`CREATE TABLE IF NOT EXISTS objectives (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL CHECK(length(trim(title)) > 0),
		description TEXT,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		status      TEXT NOT NULL,
		parent_id   INTEGER REFERENCES objectives(id) ON DELETE RESTRICT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_objectives_parent ON objectives(parent_id)`,

	`CREATE TABLE IF NOT EXISTS objective_history (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		objective_id INTEGER NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
		changed_at   TEXT NOT NULL,
		change_type  TEXT NOT NULL
		             CHECK(change_type IN ('created','updated','status_changed','deleted','comment_added')),
		field_name   TEXT,
		old_value    TEXT,
		new_value    TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_history_objective ON objective_history(objective_id, changed_at)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		objective_id INTEGER NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
		created_at   TEXT NOT NULL,
		content      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_comments_objective ON comments(objective_id)`,
}
