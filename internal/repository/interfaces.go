package repository

import (
	"context"

	"github.com/alexanderramin/objectives/internal/domain"
)

// ObjectiveRepo persists objectives. Create assigns the new id to o.ID.
type ObjectiveRepo interface {
	Create(ctx context.Context, o *domain.Objective) error
	GetByID(ctx context.Context, id int64) (*domain.Objective, error)
	List(ctx context.Context) ([]*domain.Objective, error)
	ListRoots(ctx context.Context) ([]*domain.Objective, error)
	ListChildren(ctx context.Context, parentID int64) ([]*domain.Objective, error)
	Update(ctx context.Context, o *domain.Objective) error
	Delete(ctx context.Context, id int64) error
}

// HistoryRepo is an append-only audit log. ListByObjective returns newest first.
type HistoryRepo interface {
	Append(ctx context.Context, e *domain.HistoryEntry) error
	ListByObjective(ctx context.Context, objectiveID int64) ([]*domain.HistoryEntry, error)
}

type CommentRepo interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByObjective(ctx context.Context, objectiveID int64) ([]*domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}
