package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/objectives/internal/db"
	"github.com/alexanderramin/objectives/internal/domain"
	"github.com/alexanderramin/objectives/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepo_CRUD(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	objRepo := NewSQLiteObjectiveRepo(database)
	repo := NewSQLiteCommentRepo(database)

	o := testutil.NewTestObjective("Discussed")
	require.NoError(t, objRepo.Create(ctx, o))

	older := &domain.Comment{ObjectiveID: o.ID, CreatedAt: testutil.FixedNow, Content: "first"}
	newer := &domain.Comment{ObjectiveID: o.ID, CreatedAt: testutil.FixedNow.Add(time.Hour), Content: "second"}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	got, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Content)
	assert.Equal(t, o.ID, got.ObjectiveID)

	list, err := repo.ListByObjective(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Content)
	assert.Equal(t, "first", list[1].Content)

	require.NoError(t, repo.Delete(ctx, older.ID))
	_, err = repo.GetByID(ctx, older.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, older.ID), ErrNotFound)
}

func TestCommentRepo_UnknownObjective(t *testing.T) {
	repo := NewSQLiteCommentRepo(testutil.NewTestDB(t))

	err := repo.Create(context.Background(), &domain.Comment{ObjectiveID: 9, CreatedAt: testutil.FixedNow, Content: "x"})
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestCommentRepo_DeletedWithObjective(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	objRepo := NewSQLiteObjectiveRepo(database)
	repo := NewSQLiteCommentRepo(database)

	o := testutil.NewTestObjective("Discussed")
	require.NoError(t, objRepo.Create(ctx, o))
	require.NoError(t, repo.Create(ctx, &domain.Comment{ObjectiveID: o.ID, CreatedAt: testutil.FixedNow, Content: "bye"}))

	require.NoError(t, objRepo.Delete(ctx, o.ID))
	assert.Equal(t, 0, testutil.CountRows(t, database, db.TableComments))
}
