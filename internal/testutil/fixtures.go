package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/objectives/internal/domain"
)

// FixedNow is the reference instant used by fixtures and fake clocks.
var FixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// Date returns the calendar date y-m-d at UTC midnight.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Clock returns a clock that advances by one second per call, starting at
// FixedNow, so consecutive writes get distinct ordered timestamps.
func Clock() func() time.Time {
	next := FixedNow
	return func() time.Time {
		t := next
		next = next.Add(time.Second)
		return t
	}
}

// Objective input options
type InputOption func(*domain.ObjectiveInput)

func WithDescription(d string) InputOption {
	return func(in *domain.ObjectiveInput) {
		in.Description = d
	}
}

func WithSpan(start, end time.Time) InputOption {
	return func(in *domain.ObjectiveInput) {
		in.StartDate = start
		in.EndDate = end
	}
}

func WithStatus(s string) InputOption {
	return func(in *domain.ObjectiveInput) {
		in.Status = s
	}
}

func WithParent(id int64) InputOption {
	return func(in *domain.ObjectiveInput) {
		in.ParentID = &id
	}
}

// NewTestInput returns a valid input spanning 2024-01-01..2024-01-31 with
// status "open".
func NewTestInput(title string, opts ...InputOption) domain.ObjectiveInput {
	in := domain.ObjectiveInput{
		Title:     title,
		StartDate: Date(2024, 1, 1),
		EndDate:   Date(2024, 1, 31),
		Status:    domain.StatusOpen,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// NewTestObjective returns an unsaved objective built from NewTestInput.
func NewTestObjective(title string, opts ...InputOption) *domain.Objective {
	return domain.NewObjective(NewTestInput(title, opts...), FixedNow)
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := database.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}
