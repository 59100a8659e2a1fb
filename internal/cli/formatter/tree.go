package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/objectives/internal/domain"
)

// TreeItem is one flattened row of an objective tree.
type TreeItem struct {
	ID     int64
	Title  string
	Status string
	Detail string
	Depth  int
	IsLast bool
	// Guides holds, for each ancestor below the root level, whether its
	// vertical connector continues past this row.
	Guides []bool
	// Children is the number of direct children, collapsed or not.
	Children  int
	Collapsed bool
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeSpace  = "   "
)

// FlattenForest walks the forest in pre-order and returns one TreeItem per
// visible node. Descendants of ids in collapsed are skipped.
func FlattenForest(forest []*domain.ObjectiveNode, collapsed map[int64]bool) []TreeItem {
	progress := ProgressByID(forest)

	type frame struct {
		node   *domain.ObjectiveNode
		depth  int
		last   bool
		guides []bool
	}
	stack := make([]frame, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: forest[i], last: i == len(forest)-1})
	}

	var items []TreeItem
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := f.node
		item := TreeItem{
			ID:        n.ID,
			Title:     n.Title,
			Status:    n.Status,
			Depth:     f.depth,
			IsLast:    f.last,
			Guides:    f.guides,
			Children:  len(n.Children),
			Collapsed: collapsed[n.ID] && len(n.Children) > 0,
		}
		item.Detail = nodeDetail(n, progress[n.ID])
		items = append(items, item)

		if item.Collapsed {
			continue
		}
		var childGuides []bool
		if f.depth > 0 {
			childGuides = append(append(make([]bool, 0, len(f.guides)+1), f.guides...), !f.last)
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node:   n.Children[i],
				depth:  f.depth + 1,
				last:   i == len(n.Children)-1,
				guides: childGuides,
			})
		}
	}
	return items
}

func nodeDetail(n *domain.ObjectiveNode, progress float64) string {
	detail := fmt.Sprintf("%s  %3.0f%%", Span(n.StartDate, n.EndDate), progress)
	if len(n.Children) > 0 {
		done, total := domain.CompletedChildren(n)
		detail += fmt.Sprintf("  %d/%d", done, total)
	}
	return detail
}

// ProgressByID computes every node's progress bottom-up in a single pass.
func ProgressByID(forest []*domain.ObjectiveNode) map[int64]float64 {
	out := make(map[int64]float64)
	type frame struct {
		node     *domain.ObjectiveNode
		expanded bool
	}
	stack := make([]frame, 0, len(forest))
	for _, root := range forest {
		stack = append(stack, frame{node: root})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node
		if len(n.Children) == 0 {
			out[n.ID] = domain.StatusProgress(n.Status)
			continue
		}
		if !f.expanded {
			stack = append(stack, frame{node: n, expanded: true})
			for _, c := range n.Children {
				stack = append(stack, frame{node: c})
			}
			continue
		}
		var total float64
		for _, c := range n.Children {
			total += out[c.ID]
		}
		out[n.ID] = total / float64(len(n.Children))
	}
	return out
}

func treePrefix(item TreeItem) string {
	if item.Depth == 0 {
		return ""
	}
	var b strings.Builder
	for _, cont := range item.Guides {
		if cont {
			b.WriteString(treePipe)
		} else {
			b.WriteString(treeSpace)
		}
	}
	if item.IsLast {
		b.WriteString(treeCorner)
	} else {
		b.WriteString(treeBranch)
	}
	return b.String()
}

// TreeLine renders the left part of a row: connectors, status marker, id and title.
func TreeLine(item TreeItem) string {
	title := item.Title
	if item.Collapsed {
		title += Dim(fmt.Sprintf(" (+%d)", item.Children))
	}

	marker := ""
	switch {
	case isDone(item.Status):
		marker = StyleGreen.Render("✔ ")
		title = Dim(title)
	case isActive(item.Status):
		marker = StyleYellowBold.Render("▶ ")
		title = StyleYellowBold.Render(title)
	}

	id := ""
	if item.ID > 0 {
		id = ObjectiveID(item.ID) + " "
	}
	return treePrefix(item) + marker + id + title
}

// RenderTree renders items as an indented tree with box-drawing connectors.
// Detail badges are right-aligned in a shared column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	lines := make([]string, len(items))
	width := 0
	for i, item := range items {
		lines[i] = TreeLine(item)
		if w := lipgloss.Width(lines[i]); w > width {
			width = w
		}
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(lines[i])
		if item.Detail != "" {
			pad := width - lipgloss.Width(lines[i])
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleBlue.Render("[ "+item.Detail+" ]"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
