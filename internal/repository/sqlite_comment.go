package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/objectives/internal/db"
	"github.com/alexanderramin/objectives/internal/domain"
)

const commentColumns = `id, objective_id, created_at, content`

type SQLiteCommentRepo struct {
	db db.DBTX
}

func NewSQLiteCommentRepo(db db.DBTX) *SQLiteCommentRepo {
	return &SQLiteCommentRepo{db: db}
}

func (r *SQLiteCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (objective_id, created_at, content) VALUES (?, ?, ?)`,
		c.ObjectiveID, formatTimestamp(c.CreatedAt), c.Content,
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading comment id: %w", err)
	}
	c.ID = id
	return nil
}

func (r *SQLiteCommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	return c, err
}

// ListByObjective returns comments newest first.
func (r *SQLiteCommentRepo) ListByObjective(ctx context.Context, objectiveID int64) ([]*domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE objective_id = ? ORDER BY created_at DESC, id DESC`,
		objectiveID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}
	return comments, nil
}

func (r *SQLiteCommentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("comment %d", id))
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var c domain.Comment
	var createdAt string
	if err := row.Scan(&c.ID, &c.ObjectiveID, &createdAt, &c.Content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning comment: %w", err)
	}
	var err error
	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}
