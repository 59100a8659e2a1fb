package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/objectives/internal/domain"
)

// timestampLayout is fixed-width so that lexical order on the TEXT column
// matches chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		// Rows written by hand or older tools may carry plain RFC3339.
		t, err = time.Parse(time.RFC3339Nano, s)
	}
	return t, err
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return t, nil
}

// nullableText stores the empty string as SQL NULL.
func nullableText(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// nullableID converts a *int64 to a value suitable for SQLite storage.
func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func stringPtrValue(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// requireAffected turns a zero-row write into ErrNotFound.
func requireAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows for %s: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}
