// Package history appends audit entries for objective mutations.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/objectives/internal/domain"
	"github.com/alexanderramin/objectives/internal/repository"
)

// Recorder writes one entry per observed change. It never commits; entries
// become durable with the caller's transaction.
type Recorder struct {
	log repository.HistoryRepo
	now func() time.Time
}

// NewRecorder builds a Recorder over log. A nil now uses the UTC wall clock.
func NewRecorder(log repository.HistoryRepo, now func() time.Time) *Recorder {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Recorder{log: log, now: now}
}

// Record appends a single entry stamped with the current time.
func (r *Recorder) Record(ctx context.Context, objectiveID int64, change domain.ChangeType, field, oldValue, newValue *string) error {
	if !change.Valid() {
		return fmt.Errorf("recording objective %d: unknown change type %q", objectiveID, change)
	}
	entry := &domain.HistoryEntry{
		ObjectiveID: objectiveID,
		Timestamp:   r.now(),
		ChangeType:  change,
		FieldName:   field,
		OldValue:    oldValue,
		NewValue:    newValue,
	}
	if err := r.log.Append(ctx, entry); err != nil {
		return fmt.Errorf("recording %s for objective %d: %w", change, objectiveID, err)
	}
	return nil
}

// RecordChanges appends one entry per field change, in order, all sharing
// one timestamp.
func (r *Recorder) RecordChanges(ctx context.Context, objectiveID int64, change domain.ChangeType, changes []domain.FieldChange) error {
	if !change.Valid() {
		return fmt.Errorf("recording objective %d: unknown change type %q", objectiveID, change)
	}
	at := r.now()
	for _, c := range changes {
		field := c.Field
		entry := &domain.HistoryEntry{
			ObjectiveID: objectiveID,
			Timestamp:   at,
			ChangeType:  change,
			FieldName:   &field,
			OldValue:    c.OldValue,
			NewValue:    c.NewValue,
		}
		if err := r.log.Append(ctx, entry); err != nil {
			return fmt.Errorf("recording %s of %s for objective %d: %w", change, field, objectiveID, err)
		}
	}
	return nil
}
