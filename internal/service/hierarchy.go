package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/objectives/internal/domain"
	"github.com/alexanderramin/objectives/internal/repository"
)

// childLister loads the direct children of an objective.
type childLister func(ctx context.Context, parentID int64) ([]*domain.Objective, error)

// rollupAncestors recomputes the span of id from its children, then walks up
// through each parent until a root is reached. A missing objective or one
// without children ends the walk; a childless node keeps its own dates.
func rollupAncestors(ctx context.Context, objectives repository.ObjectiveRepo, id int64, now time.Time) error {
	visited := make(map[int64]bool)
	next := &id
	for next != nil {
		cur := *next
		if visited[cur] {
			return fmt.Errorf("rolling up objective %d: %w", cur, ErrCycle)
		}
		visited[cur] = true

		o, err := objectives.GetByID(ctx, cur)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		children, err := objectives.ListChildren(ctx, cur)
		if err != nil {
			return err
		}
		start, end, ok := domain.ChildrenSpan(children)
		if !ok {
			return nil
		}
		if o.SetSpan(start, end, now) {
			if err := objectives.Update(ctx, o); err != nil {
				return err
			}
		}
		next = o.ParentID
	}
	return nil
}

// subtreePostOrder returns root and all of its descendants with every child
// listed before its parent, so deleting in order never strands a child.
func subtreePostOrder(ctx context.Context, children childLister, root int64) ([]int64, error) {
	type frame struct {
		id       int64
		expanded bool
	}
	var order []int64
	visited := map[int64]bool{root: true}
	stack := []frame{{id: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.expanded {
			order = append(order, top.id)
			stack = stack[:len(stack)-1]
			continue
		}
		top.expanded = true
		id := top.id
		kids, err := children(ctx, id)
		if err != nil {
			return nil, err
		}
		for i := len(kids) - 1; i >= 0; i-- {
			if visited[kids[i].ID] {
				return nil, fmt.Errorf("walking subtree of %d: %w", root, ErrCycle)
			}
			visited[kids[i].ID] = true
			stack = append(stack, frame{id: kids[i].ID})
		}
	}
	return order, nil
}

// checkReparent rejects moving id under newParent when newParent is id or
// one of its descendants.
func checkReparent(ctx context.Context, objectives repository.ObjectiveRepo, id, newParent int64) error {
	visited := make(map[int64]bool)
	cur := &newParent
	for cur != nil {
		if *cur == id {
			return fmt.Errorf("objective %d cannot be placed under %d: %w", id, newParent, ErrCycle)
		}
		if visited[*cur] {
			return fmt.Errorf("ancestors of %d: %w", newParent, ErrCycle)
		}
		visited[*cur] = true
		o, err := objectives.GetByID(ctx, *cur)
		if err != nil {
			return err
		}
		cur = o.ParentID
	}
	return nil
}

// buildTree materializes the snapshot rooted at root, loading children level
// by level with an explicit stack.
func buildTree(ctx context.Context, children childLister, root *domain.Objective) (*domain.ObjectiveNode, error) {
	top := &domain.ObjectiveNode{Objective: *root}
	visited := map[int64]bool{root.ID: true}
	stack := []*domain.ObjectiveNode{top}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		kids, err := children(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		if len(kids) > 0 {
			n.Children = make([]*domain.ObjectiveNode, 0, len(kids))
		}
		for _, k := range kids {
			if visited[k.ID] {
				return nil, fmt.Errorf("building tree of %d: %w", root.ID, ErrCycle)
			}
			visited[k.ID] = true
			child := &domain.ObjectiveNode{Objective: *k}
			n.Children = append(n.Children, child)
			stack = append(stack, child)
		}
	}
	return top, nil
}

// indexChildren answers childLister calls from one flat listing.
func indexChildren(all []*domain.Objective) childLister {
	byParent := make(map[int64][]*domain.Objective)
	for _, o := range all {
		if o.ParentID != nil {
			byParent[*o.ParentID] = append(byParent[*o.ParentID], o)
		}
	}
	return func(_ context.Context, parentID int64) ([]*domain.Objective, error) {
		return byParent[parentID], nil
	}
}
