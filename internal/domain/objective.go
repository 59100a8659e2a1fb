package domain

import (
	"strconv"
	"time"
)

// DateLayout is the calendar-date format used for storage, history values and the wire.
const DateLayout = "2006-01-02"

type Objective struct {
	ID          int64
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Status      string
	ParentID    *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ObjectiveInput is the full field set accepted by create and replace.
type ObjectiveInput struct {
	Title       string    `validate:"notblank"`
	Description string
	StartDate   time.Time `validate:"required"`
	EndDate     time.Time `validate:"required"`
	Status      string    `validate:"notblank"`
	ParentID    *int64    `validate:"omitempty,gt=0"`
}

// FieldChange is one observed difference between a stored objective and an input.
type FieldChange struct {
	Field    string
	OldValue *string
	NewValue *string
}

// Updatable field names, in comparison order.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldStatus      = "status"
	FieldParentID    = "parent_id"
)

// NewObjective builds an unsaved objective from input.
func NewObjective(in ObjectiveInput, now time.Time) *Objective {
	o := &Objective{CreatedAt: now}
	o.Apply(in, now)
	return o
}

// IsRoot reports whether the objective has no parent.
func (o *Objective) IsRoot() bool {
	return o.ParentID == nil
}

// Diff compares every updatable field against in and returns one change per
// differing field. Values are stringified the way history stores them.
func (o *Objective) Diff(in ObjectiveInput) []FieldChange {
	var changes []FieldChange
	add := func(field string, oldV, newV *string) {
		if !equalPtr(oldV, newV) {
			changes = append(changes, FieldChange{Field: field, OldValue: oldV, NewValue: newV})
		}
	}
	add(FieldTitle, &o.Title, &in.Title)
	add(FieldDescription, optionalText(o.Description), optionalText(in.Description))
	add(FieldStartDate, FormatDatePtr(o.StartDate), FormatDatePtr(in.StartDate))
	add(FieldEndDate, FormatDatePtr(o.EndDate), FormatDatePtr(in.EndDate))
	add(FieldStatus, &o.Status, &in.Status)
	add(FieldParentID, FormatIDPtr(o.ParentID), FormatIDPtr(in.ParentID))
	return changes
}

// Apply replaces every updatable field with the values from in.
func (o *Objective) Apply(in ObjectiveInput, now time.Time) {
	o.Title = in.Title
	o.Description = in.Description
	o.StartDate = TruncateDate(in.StartDate)
	o.EndDate = TruncateDate(in.EndDate)
	o.Status = in.Status
	if in.ParentID != nil {
		pid := *in.ParentID
		o.ParentID = &pid
	} else {
		o.ParentID = nil
	}
	o.UpdatedAt = now
}

// SetSpan sets the date span and reports whether anything changed.
func (o *Objective) SetSpan(start, end time.Time, now time.Time) bool {
	if o.StartDate.Equal(start) && o.EndDate.Equal(end) {
		return false
	}
	o.StartDate = start
	o.EndDate = end
	o.UpdatedAt = now
	return true
}

// Input returns the objective's current field set.
func (o *Objective) Input() ObjectiveInput {
	in := ObjectiveInput{
		Title:       o.Title,
		Description: o.Description,
		StartDate:   o.StartDate,
		EndDate:     o.EndDate,
		Status:      o.Status,
	}
	if o.ParentID != nil {
		pid := *o.ParentID
		in.ParentID = &pid
	}
	return in
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// TruncateDate drops the time-of-day part, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDatePtr formats a calendar date for history, nil for the zero time.
func FormatDatePtr(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// FormatIDPtr formats an optional id as decimal text.
func FormatIDPtr(id *int64) *string {
	if id == nil {
		return nil
	}
	s := strconv.FormatInt(*id, 10)
	return &s
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ChildrenSpan returns the earliest start and latest end across objectives.
// ok is false when the slice is empty.
func ChildrenSpan(children []*Objective) (start, end time.Time, ok bool) {
	for i, c := range children {
		if i == 0 || c.StartDate.Before(start) {
			start = c.StartDate
		}
		if i == 0 || c.EndDate.After(end) {
			end = c.EndDate
		}
	}
	return start, end, len(children) > 0
}
