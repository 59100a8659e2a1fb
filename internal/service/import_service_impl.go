package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/objectives/internal/db"
	"github.com/alexanderramin/objectives/internal/domain"
	"github.com/alexanderramin/objectives/internal/importer"
)

// ImportResult maps every imported ref to its new objective.
type ImportResult struct {
	Created []*domain.Objective
	IDs     map[string]int64
}

type importService struct {
	uow      db.UnitOfWork
	now      func() time.Time
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

func NewImportServiceWithClock(uow db.UnitOfWork, now func() time.Time, observers ...UseCaseObserver) ImportService {
	s := NewImportService(uow, observers...).(*importService)
	if now != nil {
		s.now = now
	}
	return s
}

func (s *importService) Import(ctx context.Context, steps []importer.Step) (res *ImportResult, err error) {
	ctx, uc := startUseCase(ctx, s.observer, "import-objectives", map[string]any{"steps": len(steps)})
	defer func() { uc.finish(ctx, err) }()

	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: nothing to import", ErrInvalidInput)
	}
	for _, step := range steps {
		if err := validateInput(step.Input); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Ref, err)
		}
	}

	res = &ImportResult{IDs: make(map[string]int64, len(steps))}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := txStores{
			objectives: repositoryFor(tx),
			recorder:   recorderFor(tx, s.now),
		}
		now := s.now()

		// Parents in file order, deepest last, so rollups run bottom-up.
		var parents []int64
		seen := make(map[int64]bool)
		for _, step := range steps {
			in := step.Input
			if step.ParentRef != "" {
				id, ok := res.IDs[step.ParentRef]
				if !ok {
					return fmt.Errorf("%w: %s: parent ref %q is not created before it", ErrInvalidInput, step.Ref, step.ParentRef)
				}
				in.ParentID = &id
			}
			o := domain.NewObjective(in, now)
			if err := st.insert(ctx, o); err != nil {
				return fmt.Errorf("%s: %w", step.Ref, err)
			}
			res.IDs[step.Ref] = o.ID
			res.Created = append(res.Created, o)
			if o.ParentID != nil && !seen[*o.ParentID] {
				seen[*o.ParentID] = true
				parents = append(parents, *o.ParentID)
			}
		}

		for i := len(parents) - 1; i >= 0; i-- {
			if err := rollupAncestors(ctx, st.objectives, parents[i], now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.fields["created"] = len(res.Created)
	return res, nil
}
