package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/objectives/internal/db"
	"github.com/alexanderramin/objectives/internal/domain"
	"github.com/alexanderramin/objectives/internal/history"
	"github.com/alexanderramin/objectives/internal/repository"
)

// fieldChildren names the field of a deleted entry left on a surviving parent.
const fieldChildren = "children"

type objectiveService struct {
	objectives repository.ObjectiveRepo
	history    repository.HistoryRepo
	uow        db.UnitOfWork
	now        func() time.Time
	observer   UseCaseObserver
}

// txStores are the stores bound to one transaction.
type txStores struct {
	objectives repository.ObjectiveRepo
	recorder   *history.Recorder
}

// NewObjectiveService builds the hierarchy engine. objectives and history
// serve reads outside a transaction; writes use stores bound to the unit of
// work's transaction.
func NewObjectiveService(
	objectives repository.ObjectiveRepo,
	historyRepo repository.HistoryRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ObjectiveService {
	return &objectiveService{
		objectives: objectives,
		history:    historyRepo,
		uow:        uow,
		now:        func() time.Time { return time.Now().UTC() },
		observer:   useCaseObserverOrNoop(observers),
	}
}

// NewObjectiveServiceWithClock is NewObjectiveService with an injected clock.
func NewObjectiveServiceWithClock(
	objectives repository.ObjectiveRepo,
	historyRepo repository.HistoryRepo,
	uow db.UnitOfWork,
	now func() time.Time,
	observers ...UseCaseObserver,
) ObjectiveService {
	s := NewObjectiveService(objectives, historyRepo, uow, observers...).(*objectiveService)
	if now != nil {
		s.now = now
	}
	return s
}

func (s *objectiveService) stores(tx db.DBTX) txStores {
	return txStores{
		objectives: repositoryFor(tx),
		recorder:   recorderFor(tx, s.now),
	}
}

func repositoryFor(tx db.DBTX) repository.ObjectiveRepo {
	return repository.NewSQLiteObjectiveRepo(tx)
}

func recorderFor(tx db.DBTX, now func() time.Time) *history.Recorder {
	return history.NewRecorder(repository.NewSQLiteHistoryRepo(tx), now)
}

// insert stores o under an existing parent and records its creation.
func (st txStores) insert(ctx context.Context, o *domain.Objective) error {
	if o.ParentID != nil {
		if _, err := st.objectives.GetByID(ctx, *o.ParentID); err != nil {
			return fmt.Errorf("parent: %w", err)
		}
	}
	if err := st.objectives.Create(ctx, o); err != nil {
		return err
	}
	return st.recorder.Record(ctx, o.ID, domain.ChangeCreated, nil, nil, nil)
}

func (s *objectiveService) Create(ctx context.Context, in domain.ObjectiveInput) (o *domain.Objective, err error) {
	ctx, uc := startUseCase(ctx, s.observer, "create-objective", map[string]any{"title": in.Title})
	defer func() { uc.finish(ctx, err) }()

	if err = validateInput(in); err != nil {
		return nil, err
	}
	o = domain.NewObjective(in, s.now())

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := s.stores(tx)
		if err := st.insert(ctx, o); err != nil {
			return err
		}
		if o.ParentID != nil {
			return rollupAncestors(ctx, st.objectives, *o.ParentID, s.now())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.fields["objective_id"] = o.ID
	return o, nil
}

func (s *objectiveService) Get(ctx context.Context, id int64) (*domain.Objective, error) {
	return s.objectives.GetByID(ctx, id)
}

func (s *objectiveService) List(ctx context.Context) ([]*domain.Objective, error) {
	return s.objectives.List(ctx)
}

// ListTree returns one snapshot per root. Roots and children both come from
// a single listing instead of ListRoots plus one query per node. Objectives
// that no root reaches can only sit on a stored cycle and fail with ErrCycle.
func (s *objectiveService) ListTree(ctx context.Context) ([]*domain.ObjectiveNode, error) {
	all, err := s.objectives.List(ctx)
	if err != nil {
		return nil, err
	}
	children := indexChildren(all)
	var forest []*domain.ObjectiveNode
	reached := 0
	for _, o := range all {
		if !o.IsRoot() {
			continue
		}
		node, err := buildTree(ctx, children, o)
		if err != nil {
			return nil, err
		}
		node.Walk(func(*domain.ObjectiveNode, int) { reached++ })
		forest = append(forest, node)
	}
	if reached < len(all) {
		return nil, fmt.Errorf("%d objectives unreachable from any root: %w", len(all)-reached, ErrCycle)
	}
	return forest, nil
}

func (s *objectiveService) GetTree(ctx context.Context, id int64) (*domain.ObjectiveNode, error) {
	root, err := s.objectives.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildTree(ctx, s.objectives.ListChildren, root)
}

func (s *objectiveService) History(ctx context.Context, id int64) ([]*domain.HistoryEntry, error) {
	if _, err := s.objectives.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.history.ListByObjective(ctx, id)
}

// Replace applies in as a full replacement. An objective with children keeps
// the span of its children, so only the values actually stored are diffed
// and recorded. Rollup then runs upward from the objective when it has
// children, otherwise from its new parent, and then from a vacated parent.
func (s *objectiveService) Replace(ctx context.Context, id int64, in domain.ObjectiveInput) (o *domain.Objective, err error) {
	ctx, uc := startUseCase(ctx, s.observer, "replace-objective", map[string]any{"objective_id": id})
	defer func() { uc.finish(ctx, err) }()

	if err = validateInput(in); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := s.stores(tx)
		var err error
		o, err = st.objectives.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.ParentID != nil {
			if _, err := st.objectives.GetByID(ctx, *in.ParentID); err != nil {
				return fmt.Errorf("parent: %w", err)
			}
			if err := checkReparent(ctx, st.objectives, id, *in.ParentID); err != nil {
				return err
			}
		}

		kids, err := st.objectives.ListChildren(ctx, id)
		if err != nil {
			return err
		}
		if start, end, ok := domain.ChildrenSpan(kids); ok {
			in.StartDate, in.EndDate = start, end
		}

		oldParent := o.ParentID
		changes := o.Diff(in)
		uc.fields["changes"] = len(changes)
		if len(changes) > 0 {
			if err := st.recorder.RecordChanges(ctx, id, domain.ChangeUpdated, changes); err != nil {
				return err
			}
			o.Apply(in, s.now())
			if err := st.objectives.Update(ctx, o); err != nil {
				return err
			}
		}

		switch {
		case len(kids) > 0:
			if err := rollupAncestors(ctx, st.objectives, id, s.now()); err != nil {
				return err
			}
		case o.ParentID != nil:
			if err := rollupAncestors(ctx, st.objectives, *o.ParentID, s.now()); err != nil {
				return err
			}
		}
		if oldParent != nil && (o.ParentID == nil || *oldParent != *o.ParentID) {
			uc.fields["old_parent_id"] = *oldParent
			if err := rollupAncestors(ctx, st.objectives, *oldParent, s.now()); err != nil {
				return err
			}
		}

		o, err = st.objectives.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *objectiveService) PatchStatus(ctx context.Context, id int64, status *string) (o *domain.Objective, err error) {
	ctx, uc := startUseCase(ctx, s.observer, "patch-status", map[string]any{"objective_id": id})
	defer func() { uc.finish(ctx, err) }()

	if err = validateStatus(status); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := s.stores(tx)
		var err error
		o, err = st.objectives.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o.Status == *status {
			uc.fields["changed"] = false
			return nil
		}
		uc.fields["changed"] = true
		field, old := domain.FieldStatus, o.Status
		if err := st.recorder.Record(ctx, id, domain.ChangeStatusChanged, &field, &old, status); err != nil {
			return err
		}
		o.Status = *status
		o.UpdatedAt = s.now()
		return st.objectives.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Delete removes id, or id and its whole subtree when cascade is set. A
// surviving parent gets a deleted entry and a fresh rollup.
func (s *objectiveService) Delete(ctx context.Context, id int64, cascade bool) (deleted []int64, err error) {
	ctx, uc := startUseCase(ctx, s.observer, "delete-objective", map[string]any{
		"objective_id": id,
		"cascade":      cascade,
	})
	defer func() { uc.finish(ctx, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := s.stores(tx)
		target, err := st.objectives.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if cascade {
			deleted, err = subtreePostOrder(ctx, st.objectives.ListChildren, id)
			if err != nil {
				return err
			}
		} else {
			kids, err := st.objectives.ListChildren(ctx, id)
			if err != nil {
				return err
			}
			if len(kids) > 0 {
				return fmt.Errorf("objective %d has %d children: %w", id, len(kids), ErrHasChildren)
			}
			deleted = []int64{id}
		}

		for _, d := range deleted {
			if err := st.objectives.Delete(ctx, d); err != nil {
				if errors.Is(err, repository.ErrConstraint) {
					return fmt.Errorf("deleting objective %d: %w", d, ErrHasChildren)
				}
				return err
			}
		}

		if target.ParentID == nil {
			return nil
		}
		parent := *target.ParentID
		field, old := fieldChildren, strconv.FormatInt(id, 10)
		if err := st.recorder.Record(ctx, parent, domain.ChangeDeleted, &field, &old, nil); err != nil {
			return err
		}
		return rollupAncestors(ctx, st.objectives, parent, s.now())
	})
	if err != nil {
		return nil, err
	}
	uc.fields["deleted"] = len(deleted)
	return deleted, nil
}

// Rollup re-establishes the spans of id and its ancestors.
func (s *objectiveService) Rollup(ctx context.Context, id int64) (o *domain.Objective, err error) {
	ctx, uc := startUseCase(ctx, s.observer, "rollup", map[string]any{"objective_id": id})
	defer func() { uc.finish(ctx, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := s.stores(tx)
		if _, err := st.objectives.GetByID(ctx, id); err != nil {
			return err
		}
		if err := rollupAncestors(ctx, st.objectives, id, s.now()); err != nil {
			return err
		}
		var err error
		o, err = st.objectives.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}
