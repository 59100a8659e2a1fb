package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/objectives/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(pairs ...[2]int64) []*domain.Objective {
	var out []*domain.Objective
	for _, p := range pairs {
		o := &domain.Objective{ID: p[0]}
		if p[1] != 0 {
			pid := p[1]
			o.ParentID = &pid
		}
		out = append(out, o)
	}
	return out
}

func TestSubtreePostOrder(t *testing.T) {
	// 1 -> {2 -> {4, 5}, 3}
	children := indexChildren(flat([2]int64{1, 0}, [2]int64{2, 1}, [2]int64{3, 1}, [2]int64{4, 2}, [2]int64{5, 2}))

	order, err := subtreePostOrder(context.Background(), children, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 2, 3, 1}, order)

	leaf, err := subtreePostOrder(context.Background(), children, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, leaf)
}

func TestBuildTree_DeepChainStaysIterative(t *testing.T) {
	const depth = 5000
	pairs := make([][2]int64, 0, depth)
	pairs = append(pairs, [2]int64{1, 0})
	for id := int64(2); id <= depth; id++ {
		pairs = append(pairs, [2]int64{id, id - 1})
	}
	all := flat(pairs...)

	node, err := buildTree(context.Background(), indexChildren(all), all[0])
	require.NoError(t, err)
	assert.Equal(t, depth, node.Count())
}

func TestBuildTree_DetectsCycle(t *testing.T) {
	// 2 and 3 are each other's child below root 1.
	edges := map[int64][]int64{1: {2}, 2: {3}, 3: {2}}
	children := func(_ context.Context, parentID int64) ([]*domain.Objective, error) {
		var out []*domain.Objective
		for _, id := range edges[parentID] {
			out = append(out, &domain.Objective{ID: id})
		}
		return out, nil
	}

	_, err := buildTree(context.Background(), children, &domain.Objective{ID: 1})
	assert.ErrorIs(t, err, ErrCycle)

	_, err = subtreePostOrder(context.Background(), children, 1)
	assert.ErrorIs(t, err, ErrCycle)
}
