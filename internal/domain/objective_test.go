package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func baseInput() ObjectiveInput {
	return ObjectiveInput{
		Title:     "Launch",
		StartDate: day("2024-01-01"),
		EndDate:   day("2024-01-31"),
		Status:    StatusOpen,
	}
}

func TestNewObjective_CopiesInput(t *testing.T) {
	in := baseInput()
	in.ParentID = Int64Ptr(7)

	o := NewObjective(in, testNow)

	assert.Equal(t, "Launch", o.Title)
	assert.Equal(t, day("2024-01-01"), o.StartDate)
	require.NotNil(t, o.ParentID)
	assert.Equal(t, int64(7), *o.ParentID)
	assert.Equal(t, testNow, o.CreatedAt)
	assert.Equal(t, testNow, o.UpdatedAt)

	*in.ParentID = 9
	assert.Equal(t, int64(7), *o.ParentID, "objective must not alias the input parent pointer")
}

func TestDiff_NoChanges(t *testing.T) {
	o := NewObjective(baseInput(), testNow)
	assert.Empty(t, o.Diff(baseInput()))
}

func TestDiff_ReportsEachChangedFieldInOrder(t *testing.T) {
	o := NewObjective(baseInput(), testNow)

	in := baseInput()
	in.Title = "Launch v2"
	in.Description = "ship it"
	in.EndDate = day("2024-02-15")
	in.ParentID = Int64Ptr(3)

	changes := o.Diff(in)
	require.Len(t, changes, 4)

	assert.Equal(t, FieldTitle, changes[0].Field)
	assert.Equal(t, "Launch", *changes[0].OldValue)
	assert.Equal(t, "Launch v2", *changes[0].NewValue)

	assert.Equal(t, FieldDescription, changes[1].Field)
	assert.Nil(t, changes[1].OldValue)
	assert.Equal(t, "ship it", *changes[1].NewValue)

	assert.Equal(t, FieldEndDate, changes[2].Field)
	assert.Equal(t, "2024-01-31", *changes[2].OldValue)
	assert.Equal(t, "2024-02-15", *changes[2].NewValue)

	assert.Equal(t, FieldParentID, changes[3].Field)
	assert.Nil(t, changes[3].OldValue)
	assert.Equal(t, "3", *changes[3].NewValue)
}

func TestDiff_ClearingParent(t *testing.T) {
	in := baseInput()
	in.ParentID = Int64Ptr(12)
	o := NewObjective(in, testNow)

	changes := o.Diff(baseInput())
	require.Len(t, changes, 1)
	assert.Equal(t, FieldParentID, changes[0].Field)
	assert.Equal(t, "12", *changes[0].OldValue)
	assert.Nil(t, changes[0].NewValue)
}

func TestApply_FullReplacement(t *testing.T) {
	in := baseInput()
	in.Description = "old"
	in.ParentID = Int64Ptr(2)
	o := NewObjective(in, testNow)

	later := testNow.Add(time.Hour)
	o.Apply(baseInput(), later)

	assert.Empty(t, o.Description, "replace semantics clear omitted optional fields")
	assert.Nil(t, o.ParentID)
	assert.Equal(t, later, o.UpdatedAt)
	assert.Equal(t, testNow, o.CreatedAt)
}

func TestSetSpan(t *testing.T) {
	o := NewObjective(baseInput(), testNow)

	assert.False(t, o.SetSpan(day("2024-01-01"), day("2024-01-31"), testNow.Add(time.Minute)))
	assert.Equal(t, testNow, o.UpdatedAt)

	assert.True(t, o.SetSpan(day("2024-01-05"), day("2024-01-20"), testNow.Add(time.Minute)))
	assert.Equal(t, day("2024-01-05"), o.StartDate)
	assert.Equal(t, day("2024-01-20"), o.EndDate)
}

func TestTruncateDate(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	got := TruncateDate(time.Date(2024, 3, 9, 23, 15, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), got)
	assert.True(t, TruncateDate(time.Time{}).IsZero())
}

func TestInput_RoundTrip(t *testing.T) {
	in := baseInput()
	in.Description = "d"
	in.ParentID = Int64Ptr(4)
	o := NewObjective(in, testNow)

	assert.Empty(t, o.Diff(o.Input()))
}

func TestChildrenSpan(t *testing.T) {
	_, _, ok := ChildrenSpan(nil)
	assert.False(t, ok)

	children := []*Objective{
		{StartDate: day("2024-01-15"), EndDate: day("2024-01-20")},
		{StartDate: day("2024-01-05"), EndDate: day("2024-01-10")},
		{StartDate: day("2024-01-08"), EndDate: day("2024-02-02")},
	}
	start, end, ok := ChildrenSpan(children)
	require.True(t, ok)
	assert.Equal(t, day("2024-01-05"), start)
	assert.Equal(t, day("2024-02-02"), end)
}

func TestChangeType_Valid(t *testing.T) {
	for _, c := range []ChangeType{ChangeCreated, ChangeUpdated, ChangeStatusChanged, ChangeDeleted, ChangeCommentAdded} {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, ChangeType("renamed").Valid())
	assert.False(t, ChangeType("").Valid())
}
