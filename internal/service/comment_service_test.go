package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/objectives/internal/db"
	"github.com/alexanderramin/objectives/internal/domain"
	"github.com/alexanderramin/objectives/internal/repository"
	"github.com/alexanderramin/objectives/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentService(f *engineFixture) CommentService {
	return NewCommentService(f.objs, repository.NewSQLiteCommentRepo(f.db), testutil.NewTestUoW(f.db))
}

func TestCommentService_AddRecordsHistory(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	o := f.create(t, "Discussed")
	svc := newCommentService(f)

	c, err := svc.Add(ctx, o.ID, "looks good")
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	entries := f.historyOf(t, o.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ChangeCommentAdded, entries[0].ChangeType)
	assert.Equal(t, "comment", *entries[0].FieldName)
	assert.Nil(t, entries[0].OldValue)
	assert.Equal(t, "looks good", *entries[0].NewValue)
}

func TestCommentService_ListNewestFirst(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	o := f.create(t, "Discussed")
	svc := newCommentService(f)

	_, err := svc.Add(ctx, o.ID, "first")
	require.NoError(t, err)
	_, err = svc.Add(ctx, o.ID, "second")
	require.NoError(t, err)

	list, err := svc.List(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Content)
	assert.Equal(t, "first", list[1].Content)
}

func TestCommentService_Errors(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	o := f.create(t, "Discussed")
	svc := newCommentService(f)

	_, err := svc.Add(ctx, o.ID, " \n ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Add(ctx, o.ID+1, "hello")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.List(ctx, o.ID+1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 12345), repository.ErrNotFound)
	assert.Equal(t, 0, testutil.CountRows(t, f.db, db.TableComments))
}

func TestCommentService_Delete(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()
	o := f.create(t, "Discussed")
	svc := newCommentService(f)

	c, err := svc.Add(ctx, o.ID, "temporary")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, c.ID))

	list, err := svc.List(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
