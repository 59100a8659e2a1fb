package service

import (
	"context"

	"github.com/alexanderramin/objectives/internal/domain"
	"github.com/alexanderramin/objectives/internal/importer"
)

// ObjectiveService is the hierarchy engine. Every mutation runs in one unit
// of work together with its history entries and ancestor rollups.
type ObjectiveService interface {
	Create(ctx context.Context, in domain.ObjectiveInput) (*domain.Objective, error)
	Get(ctx context.Context, id int64) (*domain.Objective, error)
	List(ctx context.Context) ([]*domain.Objective, error)
	ListTree(ctx context.Context) ([]*domain.ObjectiveNode, error)
	GetTree(ctx context.Context, id int64) (*domain.ObjectiveNode, error)
	History(ctx context.Context, id int64) ([]*domain.HistoryEntry, error)
	Replace(ctx context.Context, id int64, in domain.ObjectiveInput) (*domain.Objective, error)
	PatchStatus(ctx context.Context, id int64, status *string) (*domain.Objective, error)
	// Delete returns the ids removed, children before parents.
	Delete(ctx context.Context, id int64, cascade bool) ([]int64, error)
	Rollup(ctx context.Context, id int64) (*domain.Objective, error)
}

type CommentService interface {
	Add(ctx context.Context, objectiveID int64, content string) (*domain.Comment, error)
	List(ctx context.Context, objectiveID int64) ([]*domain.Comment, error)
	Delete(ctx context.Context, commentID int64) error
}

// ImportService creates a planned objective tree in one unit of work: every
// objective is created, with history and rolled-up ancestors, or none is.
type ImportService interface {
	Import(ctx context.Context, steps []importer.Step) (*ImportResult, error)
}
