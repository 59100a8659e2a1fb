package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/objectives/internal/db"
	"github.com/alexanderramin/objectives/internal/domain"
)

const historyColumns = `id, objective_id, changed_at, change_type, field_name, old_value, new_value`

// SQLiteHistoryRepo implements HistoryRepo. Append never commits; it joins
// whatever transaction the DBTX belongs to.
type SQLiteHistoryRepo struct {
	db db.DBTX
}

func NewSQLiteHistoryRepo(db db.DBTX) *SQLiteHistoryRepo {
	return &SQLiteHistoryRepo{db: db}
}

func (r *SQLiteHistoryRepo) Append(ctx context.Context, e *domain.HistoryEntry) error {
	query := `INSERT INTO objective_history (objective_id, changed_at, change_type,
		field_name, old_value, new_value)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.ObjectiveID,
		formatTimestamp(e.Timestamp),
		string(e.ChangeType),
		stringPtrValue(e.FieldName),
		stringPtrValue(e.OldValue),
		stringPtrValue(e.NewValue),
	)
	if err != nil {
		return fmt.Errorf("appending history: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading history id: %w", err)
	}
	e.ID = id
	return nil
}

// ListByObjective returns the entries for one objective, newest first. Ties
// on the timestamp keep insertion order reversed.
func (r *SQLiteHistoryRepo) ListByObjective(ctx context.Context, objectiveID int64) ([]*domain.HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM objective_history
		WHERE objective_id = ? ORDER BY changed_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, objectiveID)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []*domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var changedAt, changeType string
		var field, oldV, newV sql.NullString
		if err := rows.Scan(&e.ID, &e.ObjectiveID, &changedAt, &changeType, &field, &oldV, &newV); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if e.Timestamp, err = parseTimestamp(changedAt); err != nil {
			return nil, fmt.Errorf("parsing changed_at: %w", err)
		}
		e.ChangeType = domain.ChangeType(changeType)
		e.FieldName = nullStringPtr(field)
		e.OldValue = nullStringPtr(oldV)
		e.NewValue = nullStringPtr(newV)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return entries, nil
}
