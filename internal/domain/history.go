package domain

import "time"

type ChangeType string

const (
	ChangeCreated       ChangeType = "created"
	ChangeUpdated       ChangeType = "updated"
	ChangeStatusChanged ChangeType = "status_changed"
	ChangeDeleted       ChangeType = "deleted"
	ChangeCommentAdded  ChangeType = "comment_added"
)

// Valid reports whether c is one of the change types the history log accepts.
func (c ChangeType) Valid() bool {
	switch c {
	case ChangeCreated, ChangeUpdated, ChangeStatusChanged, ChangeDeleted, ChangeCommentAdded:
		return true
	}
	return false
}

// HistoryEntry is one immutable audit record. Values are stored as text
// regardless of the original field type.
type HistoryEntry struct {
	ID          int64
	ObjectiveID int64
	Timestamp   time.Time
	ChangeType  ChangeType
	FieldName   *string
	OldValue    *string
	NewValue    *string
}
