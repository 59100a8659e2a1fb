package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/objectives/internal/domain"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// FormatObjective renders the detail card for one objective. node, when
// non-nil, is its subtree and adds progress and the direct children.
func FormatObjective(o *domain.Objective, node *domain.ObjectiveNode) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n\n", Bold(o.Title), StatusPill(o.Status))
	fmt.Fprintf(&b, "  %s  #%d\n", Dim("ID     "), o.ID)
	fmt.Fprintf(&b, "  %s  %s\n", Dim("SPAN   "), Span(o.StartDate, o.EndDate))
	if o.ParentID != nil {
		fmt.Fprintf(&b, "  %s  #%d\n", Dim("PARENT "), *o.ParentID)
	}
	if o.Description != "" {
		fmt.Fprintf(&b, "  %s  %s\n", Dim("DESC   "), o.Description)
	}
	fmt.Fprintf(&b, "  %s  %s\n", Dim("CREATED"), o.CreatedAt.UTC().Format(historyTimeLayout))
	fmt.Fprintf(&b, "  %s  %s\n", Dim("UPDATED"), HumanTimestamp(o.UpdatedAt))

	if node != nil && len(node.Children) > 0 {
		progress := ProgressByID([]*domain.ObjectiveNode{node})
		done, total := domain.CompletedChildren(node)
		fmt.Fprintf(&b, "  %s  %s  %s\n", Dim("DONE   "), RenderProgress(progress[node.ID], 20),
			Dim(fmt.Sprintf("%d/%d children done", done, total)))

		b.WriteString("\n")
		b.WriteString(Header("Children"))
		b.WriteString("\n")
		rows := make([][]string, 0, len(node.Children))
		for _, c := range node.Children {
			rows = append(rows, []string{
				strconv.FormatInt(c.ID, 10),
				Truncate(c.Title, 40),
				StatusPill(c.Status),
				Span(c.StartDate, c.EndDate),
				fmt.Sprintf("%3.0f%%", progress[c.ID]),
			})
		}
		b.WriteString(RenderTable([]string{"ID", "TITLE", "STATUS", "SPAN", "DONE"}, rows))
	}

	return RenderBox("Objective", strings.TrimRight(b.String(), "\n"))
}

// FormatObjectiveList renders objectives as a flat table.
func FormatObjectiveList(objs []*domain.Objective) string {
	if len(objs) == 0 {
		return Dim("No objectives.") + "\n"
	}
	rows := make([][]string, 0, len(objs))
	for _, o := range objs {
		parent := "—"
		if o.ParentID != nil {
			parent = strconv.FormatInt(*o.ParentID, 10)
		}
		rows = append(rows, []string{
			strconv.FormatInt(o.ID, 10),
			Truncate(o.Title, 48),
			StatusPill(o.Status),
			o.StartDate.Format(domain.DateLayout),
			o.EndDate.Format(domain.DateLayout),
			parent,
		})
	}
	return RenderTable([]string{"ID", "TITLE", "STATUS", "START", "END", "PARENT"}, rows)
}

// FormatForest renders one or more trees with span and progress badges.
func FormatForest(forest []*domain.ObjectiveNode) string {
	if len(forest) == 0 {
		return Dim("No objectives.") + "\n"
	}
	return RenderTree(FlattenForest(forest, nil))
}

// FormatHistory renders history entries in the order given.
func FormatHistory(entries []*domain.HistoryEntry) string {
	if len(entries) == 0 {
		return Dim("No history.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Timestamp.UTC().Format(historyTimeLayout),
			changeLabel(e.ChangeType),
			valueOrDash(e.FieldName),
			Truncate(valueOrDash(e.OldValue), 32),
			Truncate(valueOrDash(e.NewValue), 32),
		})
	}
	return RenderTable([]string{"WHEN", "CHANGE", "FIELD", "OLD", "NEW"}, rows)
}

func changeLabel(c domain.ChangeType) string {
	switch c {
	case domain.ChangeCreated:
		return StyleGreen.Render(string(c))
	case domain.ChangeDeleted:
		return StyleRed.Render(string(c))
	case domain.ChangeStatusChanged:
		return StyleYellow.Render(string(c))
	case domain.ChangeCommentAdded:
		return StylePurple.Render(string(c))
	default:
		return StyleBlue.Render(string(c))
	}
}

// FormatComments renders comments newest first, each under its own header line.
func FormatComments(comments []*domain.Comment, now time.Time) string {
	if len(comments) == 0 {
		return Dim("No comments.") + "\n"
	}
	var b strings.Builder
	for i, c := range comments {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s\n", ObjectiveID(c.ID), Dim(HumanTimestampFrom(c.CreatedAt, now)))
		for _, line := range strings.Split(c.Content, "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	return b.String()
}

// FormatDeleted summarizes a delete, listing ids in removal order.
func FormatDeleted(ids []int64) string {
	if len(ids) == 1 {
		return fmt.Sprintf("Deleted objective #%d\n", ids[0])
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("Deleted %d objectives: %s\n", len(ids), strings.Join(parts, ", "))
}
