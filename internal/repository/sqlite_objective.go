package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/objectives/internal/db"
	"github.com/alexanderramin/objectives/internal/domain"
)

// objectiveColumns is the canonical SELECT column list for objectives.
const objectiveColumns = `id, title, description, start_date, end_date, status, parent_id,
		created_at, updated_at`

// SQLiteObjectiveRepo implements ObjectiveRepo on any DBTX, so it works both
// on the pool and inside a unit of work.
type SQLiteObjectiveRepo struct {
	db db.DBTX
}

func NewSQLiteObjectiveRepo(db db.DBTX) *SQLiteObjectiveRepo {
	return &SQLiteObjectiveRepo{db: db}
}

func (r *SQLiteObjectiveRepo) Create(ctx context.Context, o *domain.Objective) error {
	query := `INSERT INTO objectives (title, description, start_date, end_date, status,
		parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		o.Title,
		nullableText(o.Description),
		formatDate(o.StartDate),
		formatDate(o.EndDate),
		o.Status,
		nullableID(o.ParentID),
		formatTimestamp(o.CreatedAt),
		formatTimestamp(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting objective: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading objective id: %w", err)
	}
	o.ID = id
	return nil
}

func (r *SQLiteObjectiveRepo) GetByID(ctx context.Context, id int64) (*domain.Objective, error) {
	query := `SELECT ` + objectiveColumns + ` FROM objectives WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	o, err := scanObjective(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("objective %d: %w", id, ErrNotFound)
	}
	return o, err
}

func (r *SQLiteObjectiveRepo) List(ctx context.Context) ([]*domain.Objective, error) {
	query := `SELECT ` + objectiveColumns + ` FROM objectives ORDER BY id`
	return r.query(ctx, "listing objectives", query)
}

func (r *SQLiteObjectiveRepo) ListRoots(ctx context.Context) ([]*domain.Objective, error) {
	query := `SELECT ` + objectiveColumns + ` FROM objectives WHERE parent_id IS NULL ORDER BY id`
	return r.query(ctx, "listing root objectives", query)
}

func (r *SQLiteObjectiveRepo) ListChildren(ctx context.Context, parentID int64) ([]*domain.Objective, error) {
	query := `SELECT ` + objectiveColumns + ` FROM objectives WHERE parent_id = ? ORDER BY id`
	return r.query(ctx, "listing child objectives", query, parentID)
}

func (r *SQLiteObjectiveRepo) Update(ctx context.Context, o *domain.Objective) error {
	query := `UPDATE objectives SET title = ?, description = ?, start_date = ?, end_date = ?,
		status = ?, parent_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		o.Title,
		nullableText(o.Description),
		formatDate(o.StartDate),
		formatDate(o.EndDate),
		o.Status,
		nullableID(o.ParentID),
		formatTimestamp(o.UpdatedAt),
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("updating objective: %w", classify(err))
	}
	return requireAffected(res, fmt.Sprintf("objective %d", o.ID))
}

// Delete removes a single objective. The schema refuses the delete while
// children still reference it; history and comments go with it.
func (r *SQLiteObjectiveRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM objectives WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting objective: %w", classify(err))
	}
	return requireAffected(res, fmt.Sprintf("objective %d", id))
}

func (r *SQLiteObjectiveRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.Objective, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*domain.Objective
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObjective(row rowScanner) (*domain.Objective, error) {
	var o domain.Objective
	var description sql.NullString
	var parent sql.NullInt64
	var startStr, endStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&o.ID, &o.Title, &description, &startStr, &endStr, &o.Status, &parent,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning objective: %w", err)
	}

	o.Description = description.String
	if parent.Valid {
		pid := parent.Int64
		o.ParentID = &pid
	}
	if o.StartDate, err = parseDate("start_date", startStr); err != nil {
		return nil, err
	}
	if o.EndDate, err = parseDate("end_date", endStr); err != nil {
		return nil, err
	}
	if o.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if o.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &o, nil
}
