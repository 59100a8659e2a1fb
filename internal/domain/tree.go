package domain

// ObjectiveNode is a read-only nested snapshot of an objective and its
// fully materialized descendants.
type ObjectiveNode struct {
	Objective
	Children []*ObjectiveNode
}

// Walk visits n and every descendant in depth-first pre-order.
func (n *ObjectiveNode) Walk(fn func(node *ObjectiveNode, depth int)) {
	type frame struct {
		node  *ObjectiveNode
		depth int
	}
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(f.node, f.depth)
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], depth: f.depth + 1})
		}
	}
}

// Count returns the number of nodes in the snapshot, n included.
func (n *ObjectiveNode) Count() int {
	count := 0
	n.Walk(func(*ObjectiveNode, int) { count++ })
	return count
}
