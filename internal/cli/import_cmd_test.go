package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImportFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const importDoc = `
defaults: {status: open}
objectives:
  - {ref: launch, title: Launch, start_date: 2024-01-01, end_date: 2024-01-02}
  - {ref: design, parent_ref: launch, title: Design, start_date: 2024-01-05, end_date: 2024-01-10}
  - {ref: build, parent_ref: launch, title: Build, start_date: 2024-01-11, end_date: 2024-02-20}
`

func TestImportCmd(t *testing.T) {
	app := testApp(t)
	path := writeImportFile(t, importDoc)

	output := mustExec(t, app, "import", path)
	assert.Contains(t, output, "Imported 3 objectives")
	assert.Contains(t, output, "launch")
	assert.Contains(t, output, "#3")

	launch, err := app.Objectives.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", launch.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2024-02-20", launch.EndDate.Format("2006-01-02"))
}

func TestImportCmd_DryRunWritesNothing(t *testing.T) {
	app := testApp(t)
	path := writeImportFile(t, importDoc)

	output := mustExec(t, app, "import", "--dry-run", path)
	assert.Contains(t, output, "Would create 3 objectives")
	assert.Contains(t, output, "2024-01-05 → 2024-01-10")

	all, err := app.Objectives.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportCmd_ReportsProblems(t *testing.T) {
	app := testApp(t)
	path := writeImportFile(t, `
objectives:
  - {ref: a, title: A, start_date: 2024-01-01, end_date: nope}
  - {ref: b, parent_ref: ghost, title: B, start_date: 2024-01-01, end_date: 2024-01-02, status: open}
`)

	output, err := executeCmd(t, app, "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 problem(s) found")
	assert.Contains(t, output, "objectives[0].status is required")
	assert.Contains(t, output, `unknown ref "ghost"`)
}
