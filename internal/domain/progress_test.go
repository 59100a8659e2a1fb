package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func leaf(status string) *ObjectiveNode {
	return &ObjectiveNode{Objective: Objective{Status: status}}
}

func TestProgress_Leaf(t *testing.T) {
	cases := []struct {
		status string
		want   float64
	}{
		{StatusDone, 100},
		{"Done", 100},
		{StatusInProgress, 50},
		{StatusOpen, 0},
		{"blocked", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Progress(leaf(tc.status)), "status=%s", tc.status)
	}
}

func TestProgress_MeanOfChildren(t *testing.T) {
	inner := &ObjectiveNode{Children: []*ObjectiveNode{leaf(StatusDone), leaf(StatusOpen)}}
	root := &ObjectiveNode{
		Objective: Objective{Status: StatusDone},
		Children:  []*ObjectiveNode{inner, leaf(StatusInProgress)},
	}

	assert.InDelta(t, 50.0, Progress(inner), 0.001)
	assert.InDelta(t, 50.0, Progress(root), 0.001, "own status is ignored once children exist")
	assert.Equal(t, float64(0), Progress(nil))
}

func TestCompletedChildren(t *testing.T) {
	root := &ObjectiveNode{Children: []*ObjectiveNode{leaf(StatusDone), leaf(StatusOpen), leaf(StatusDone)}}
	done, total := CompletedChildren(root)
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)

	done, total = CompletedChildren(leaf(StatusDone))
	assert.Zero(t, done)
	assert.Zero(t, total)
}

func TestNextStatus(t *testing.T) {
	assert.Equal(t, StatusInProgress, NextStatus(StatusOpen))
	assert.Equal(t, StatusDone, NextStatus(StatusInProgress))
	assert.Equal(t, StatusOpen, NextStatus(StatusDone))
	assert.Equal(t, StatusOpen, NextStatus("whatever"))
}

func TestWalk_PreOrder(t *testing.T) {
	a := &ObjectiveNode{Objective: Objective{ID: 1}}
	b := &ObjectiveNode{Objective: Objective{ID: 2}}
	c := &ObjectiveNode{Objective: Objective{ID: 3}}
	d := &ObjectiveNode{Objective: Objective{ID: 4}}
	a.Children = []*ObjectiveNode{b, d}
	b.Children = []*ObjectiveNode{c}

	var ids []int64
	var depths []int
	a.Walk(func(n *ObjectiveNode, depth int) {
		ids = append(ids, n.ID)
		depths = append(depths, depth)
	})

	assert.Equal(t, []int64{1, 2, 3, 4}, ids)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
	assert.Equal(t, 4, a.Count())
}
