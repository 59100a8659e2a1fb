package domain

import "strings"

// Well-known status values. Status is free-form; these are the ones progress understands.
const (
	StatusOpen       = "open"
	StatusInProgress = "in progress"
	StatusDone       = "done"
)

// StatusCycle is the order the interactive browser steps through.
var StatusCycle = []string{StatusOpen, StatusInProgress, StatusDone}

// NextStatus returns the status following s in StatusCycle. Unknown values restart at open.
func NextStatus(s string) string {
	for i, v := range StatusCycle {
		if strings.EqualFold(v, s) {
			return StatusCycle[(i+1)%len(StatusCycle)]
		}
	}
	return StatusOpen
}

// Progress returns completion in percent. A leaf scores from its own status
// (done 100, in progress 50, anything else 0); a node with children is the
// mean of its children's progress.
func Progress(n *ObjectiveNode) float64 {
	if n == nil {
		return 0
	}
	if len(n.Children) == 0 {
		return StatusProgress(n.Status)
	}
	var total float64
	for _, c := range n.Children {
		total += Progress(c)
	}
	return total / float64(len(n.Children))
}

// CompletedChildren counts the direct children marked done.
func CompletedChildren(n *ObjectiveNode) (completed, total int) {
	if n == nil {
		return 0, 0
	}
	for _, c := range n.Children {
		if strings.EqualFold(c.Status, StatusDone) {
			completed++
		}
	}
	return completed, len(n.Children)
}

// StatusProgress scores a single status: done 100, in progress 50, otherwise 0.
func StatusProgress(status string) float64 {
	switch {
	case strings.EqualFold(status, StatusDone):
		return 100
	case strings.EqualFold(status, StatusInProgress):
		return 50
	default:
		return 0
	}
}
