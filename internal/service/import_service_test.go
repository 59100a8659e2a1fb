package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/objectives/internal/db"
	"github.com/alexanderramin/objectives/internal/domain"
	"github.com/alexanderramin/objectives/internal/importer"
	"github.com/alexanderramin/objectives/internal/repository"
	"github.com/alexanderramin/objectives/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importSteps(t *testing.T, doc string) []importer.Step {
	t.Helper()
	f, err := importer.Parse([]byte(doc))
	require.NoError(t, err)
	require.Empty(t, importer.Validate(f))
	steps, err := importer.Plan(f)
	require.NoError(t, err)
	return steps
}

const launchDoc = `
defaults:
  status: open
objectives:
  - ref: launch
    title: Launch
    start_date: 2024-02-01
    end_date: 2024-02-02
  - ref: design
    parent_ref: launch
    title: Design
    start_date: 2024-01-10
    end_date: 2024-01-20
  - ref: wireframes
    parent_ref: design
    title: Wireframes
    start_date: 2024-01-05
    end_date: 2024-01-08
  - ref: build
    parent_ref: launch
    title: Build
    start_date: 2024-01-21
    end_date: 2024-03-15
    status: in progress
`

func TestImport_CreatesTreeAndRollsUp(t *testing.T) {
	f := newEngine(t)
	svc := NewImportServiceWithClock(testutil.NewTestUoW(f.db), testutil.Clock())

	res, err := svc.Import(context.Background(), importSteps(t, launchDoc))
	require.NoError(t, err)
	require.Len(t, res.Created, 4)
	assert.Len(t, res.IDs, 4)

	design := f.get(t, res.IDs["design"])
	require.NotNil(t, design.ParentID)
	assert.Equal(t, res.IDs["launch"], *design.ParentID)
	assertSpan(t, design, "2024-01-05", "2024-01-08")

	launch := f.get(t, res.IDs["launch"])
	assertSpan(t, launch, "2024-01-05", "2024-03-15")
	assert.Equal(t, domain.StatusInProgress, f.get(t, res.IDs["build"]).Status)

	for ref, id := range res.IDs {
		entries := f.historyOf(t, id)
		require.NotEmpty(t, entries, ref)
		assert.Equal(t, domain.ChangeCreated, entries[0].ChangeType, ref)
	}
}

func TestImport_UnderExistingParent(t *testing.T) {
	f := newEngine(t)
	parent := f.create(t, "Existing", span("2024-05-01", "2024-05-31"))
	svc := NewImportServiceWithClock(testutil.NewTestUoW(f.db), testutil.Clock())

	doc := fmt.Sprintf(`{"objectives": [{"ref": "a", "parent_id": %d, "title": "A",
		"start_date": "2024-04-01", "end_date": "2024-04-10", "status": "open"}]}`, parent.ID)
	res, err := svc.Import(context.Background(), importSteps(t, doc))
	require.NoError(t, err)

	assertSpan(t, f.get(t, parent.ID), "2024-04-01", "2024-04-10")
	assert.Equal(t, parent.ID, *f.get(t, res.IDs["a"]).ParentID)
}

func TestImport_MissingParentIDRollsBack(t *testing.T) {
	f := newEngine(t)
	svc := NewImportServiceWithClock(testutil.NewTestUoW(f.db), testutil.Clock())

	doc := `
objectives:
  - {ref: a, title: A, start_date: 2024-01-01, end_date: 2024-01-02, status: open}
  - {ref: b, parent_id: 99, title: B, start_date: 2024-01-01, end_date: 2024-01-02, status: open}
`
	_, err := svc.Import(context.Background(), importSteps(t, doc))
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, err.Error(), "b:")
	assert.Equal(t, 0, testutil.CountRows(t, f.db, db.TableObjectives))
	assert.Equal(t, 0, testutil.CountRows(t, f.db, db.TableHistory))
}

func TestImport_RollbackAtEachWrite(t *testing.T) {
	steps := importSteps(t, launchDoc)
	// Four inserts and four created entries precede the rollup updates.
	for failOn := int32(1); failOn <= 9; failOn++ {
		t.Run(fmt.Sprintf("exec_%d", failOn), func(t *testing.T) {
			f := newEngine(t)
			uow := &testutil.FailOnNthExecUoW{
				DB:     f.db,
				FailOn: failOn,
				Err:    fmt.Errorf("injected failure on exec %d", failOn),
			}
			_, err := NewImportServiceWithClock(uow, testutil.Clock()).Import(context.Background(), steps)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "injected failure")
			assert.Equal(t, 0, testutil.CountRows(t, f.db, db.TableObjectives))
			assert.Equal(t, 0, testutil.CountRows(t, f.db, db.TableHistory))
		})
	}
}

func TestImport_RejectsInvalidSteps(t *testing.T) {
	f := newEngine(t)
	svc := NewImportServiceWithClock(testutil.NewTestUoW(f.db), testutil.Clock())

	_, err := svc.Import(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad := []importer.Step{{Ref: "x", Input: testutil.NewTestInput("X", testutil.WithStatus(""))}}
	_, err = svc.Import(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	orphan := []importer.Step{{Ref: "x", ParentRef: "nope", Input: testutil.NewTestInput("X")}}
	_, err = svc.Import(context.Background(), orphan)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, testutil.CountRows(t, f.db, db.TableObjectives))
}
