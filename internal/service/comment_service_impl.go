package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/objectives/internal/db"
	"github.com/alexanderramin/objectives/internal/domain"
	"github.com/alexanderramin/objectives/internal/history"
	"github.com/alexanderramin/objectives/internal/repository"
)

const fieldComment = "comment"

type commentService struct {
	objectives repository.ObjectiveRepo
	comments   repository.CommentRepo
	uow        db.UnitOfWork
	now        func() time.Time
	observer   UseCaseObserver
}

func NewCommentService(
	objectives repository.ObjectiveRepo,
	comments repository.CommentRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) CommentService {
	return &commentService{
		objectives: objectives,
		comments:   comments,
		uow:        uow,
		now:        func() time.Time { return time.Now().UTC() },
		observer:   useCaseObserverOrNoop(observers),
	}
}

// Add stores a comment and records comment_added in the same transaction.
func (s *commentService) Add(ctx context.Context, objectiveID int64, content string) (c *domain.Comment, err error) {
	ctx, uc := startUseCase(ctx, s.observer, "add-comment", map[string]any{"objective_id": objectiveID})
	defer func() { uc.finish(ctx, err) }()

	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	c = &domain.Comment{ObjectiveID: objectiveID, CreatedAt: s.now(), Content: content}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteObjectiveRepo(tx).GetByID(ctx, objectiveID); err != nil {
			return err
		}
		if err := repository.NewSQLiteCommentRepo(tx).Create(ctx, c); err != nil {
			return err
		}
		rec := history.NewRecorder(repository.NewSQLiteHistoryRepo(tx), s.now)
		field := fieldComment
		return rec.Record(ctx, objectiveID, domain.ChangeCommentAdded, &field, nil, &content)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *commentService) List(ctx context.Context, objectiveID int64) ([]*domain.Comment, error) {
	if _, err := s.objectives.GetByID(ctx, objectiveID); err != nil {
		return nil, err
	}
	return s.comments.ListByObjective(ctx, objectiveID)
}

func (s *commentService) Delete(ctx context.Context, commentID int64) (err error) {
	ctx, uc := startUseCase(ctx, s.observer, "delete-comment", map[string]any{"comment_id": commentID})
	defer func() { uc.finish(ctx, err) }()

	return s.comments.Delete(ctx, commentID)
}
