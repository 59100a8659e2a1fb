package api

import (
	"time"

	"github.com/alexanderramin/objectives/internal/domain"
)

// ObjectiveRequest is the body of POST /objectives and PUT /objectives/:id.
// Dates are calendar dates in YYYY-MM-DD form.
type ObjectiveRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	StartDate   string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" binding:"required,datetime=2006-01-02"`
	Status      string  `json:"status" binding:"required"`
	ParentID    *int64  `json:"parent_id" binding:"omitempty,gt=0"`
}

// StatusRequest is the body of PATCH /objectives/:id. A missing status is
// reported by the service, not by binding.
type StatusRequest struct {
	Status *string `json:"status"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type ObjectiveResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Status      string    `json:"status"`
	ParentID    *int64    `json:"parent_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ObjectiveNodeResponse is one node of a tree response. Progress is the
// completion percentage derived from the node's leaves.
type ObjectiveNodeResponse struct {
	ObjectiveResponse
	Progress float64                 `json:"progress"`
	Children []ObjectiveNodeResponse `json:"children"`
}

type HistoryEntryResponse struct {
	ID          int64     `json:"id"`
	ObjectiveID int64     `json:"objective_id"`
	ChangedAt   time.Time `json:"changed_at"`
	ChangeType  string    `json:"change_type"`
	FieldName   *string   `json:"field_name"`
	OldValue    *string   `json:"old_value"`
	NewValue    *string   `json:"new_value"`
}

type CommentResponse struct {
	ID          int64     `json:"id"`
	ObjectiveID int64     `json:"objective_id"`
	CreatedAt   time.Time `json:"created_at"`
	Content     string    `json:"content"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (r ObjectiveRequest) toInput() (domain.ObjectiveInput, error) {
	start, err := domain.ParseDate(r.StartDate)
	if err != nil {
		return domain.ObjectiveInput{}, err
	}
	end, err := domain.ParseDate(r.EndDate)
	if err != nil {
		return domain.ObjectiveInput{}, err
	}
	in := domain.ObjectiveInput{
		Title:     r.Title,
		StartDate: start,
		EndDate:   end,
		Status:    r.Status,
		ParentID:  r.ParentID,
	}
	if r.Description != nil {
		in.Description = *r.Description
	}
	return in, nil
}

func toObjectiveResponse(o *domain.Objective) ObjectiveResponse {
	resp := ObjectiveResponse{
		ID:        o.ID,
		Title:     o.Title,
		StartDate: o.StartDate.Format(domain.DateLayout),
		EndDate:   o.EndDate.Format(domain.DateLayout),
		Status:    o.Status,
		ParentID:  o.ParentID,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.Description != "" {
		d := o.Description
		resp.Description = &d
	}
	return resp
}

func toObjectiveResponses(objs []*domain.Objective) []ObjectiveResponse {
	out := make([]ObjectiveResponse, 0, len(objs))
	for _, o := range objs {
		out = append(out, toObjectiveResponse(o))
	}
	return out
}

// toNodeResponse converts a snapshot, computing progress bottom-up once per node.
func toNodeResponse(n *domain.ObjectiveNode) ObjectiveNodeResponse {
	resp := ObjectiveNodeResponse{
		ObjectiveResponse: toObjectiveResponse(&n.Objective),
		Children:          make([]ObjectiveNodeResponse, 0, len(n.Children)),
	}
	if len(n.Children) == 0 {
		resp.Progress = domain.StatusProgress(n.Status)
		return resp
	}
	var total float64
	for _, c := range n.Children {
		child := toNodeResponse(c)
		total += child.Progress
		resp.Children = append(resp.Children, child)
	}
	resp.Progress = total / float64(len(n.Children))
	return resp
}

func toForestResponse(forest []*domain.ObjectiveNode) []ObjectiveNodeResponse {
	out := make([]ObjectiveNodeResponse, 0, len(forest))
	for _, n := range forest {
		out = append(out, toNodeResponse(n))
	}
	return out
}

func toHistoryResponses(entries []*domain.HistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntryResponse{
			ID:          e.ID,
			ObjectiveID: e.ObjectiveID,
			ChangedAt:   e.Timestamp,
			ChangeType:  string(e.ChangeType),
			FieldName:   e.FieldName,
			OldValue:    e.OldValue,
			NewValue:    e.NewValue,
		})
	}
	return out
}

func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{ID: c.ID, ObjectiveID: c.ObjectiveID, CreatedAt: c.CreatedAt, Content: c.Content}
}
