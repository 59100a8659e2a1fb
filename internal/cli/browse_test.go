package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/objectives/internal/teatest"
)

func newBrowser(t *testing.T) (*App, *teatest.Driver) {
	t.Helper()
	app := testApp(t)
	seedTree(t, app)
	d := teatest.New(t, newBrowserModel(context.Background(), app.Objectives), teatest.WithSize(100, 30))
	return app, d
}

func browser(d *teatest.Driver) *browserModel {
	return d.Model.(*browserModel)
}

func TestBrowser_LoadsForest(t *testing.T) {
	_, d := newBrowser(t)

	m := browser(d)
	assert.False(t, m.loading)
	require.Len(t, m.items, 3)
	view := stripANSI(d.View())
	assert.Contains(t, view, "> #1 R")
	assert.Contains(t, view, "├─ #2 C1")
	assert.Contains(t, view, "└─ #3 C2")
	assert.Contains(t, view, "quit")
}

func TestBrowser_Navigation(t *testing.T) {
	_, d := newBrowser(t)

	d.PressKey('j')
	d.PressDown()
	assert.Equal(t, 2, browser(d).cursor)
	d.PressKey('j')
	assert.Equal(t, 2, browser(d).cursor, "stops at the last row")

	d.PressKey('k')
	d.PressUp()
	d.PressUp()
	assert.Equal(t, 0, browser(d).cursor, "stops at the first row")
}

func TestBrowser_CollapseKeepsCursor(t *testing.T) {
	_, d := newBrowser(t)

	d.PressSpace()
	m := browser(d)
	require.Len(t, m.items, 1)
	assert.True(t, m.items[0].Collapsed)
	assert.Contains(t, stripANSI(d.View()), "#1 R (+2)")

	d.PressSpace()
	assert.Len(t, browser(d).items, 3)

	d.PressKey('j')
	d.PressSpace()
	assert.Len(t, browser(d).items, 3, "leaves do not collapse")
}

func TestBrowser_CycleStatusPersists(t *testing.T) {
	app, d := newBrowser(t)

	d.PressKey('j')
	d.PressKey('d')
	o, err := app.Objectives.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "in progress", o.Status)
	assert.Contains(t, stripANSI(d.View()), "#2 is now in progress")

	d.PressKey('d')
	d.PressKey('d')
	o, err = app.Objectives.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "open", o.Status, "done wraps around to open")
	assert.Equal(t, 1, browser(d).cursor, "cursor stays on the edited row after reload")

	entries, err := app.Objectives.History(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "created plus three status changes")
}

func TestBrowser_HelpAndQuit(t *testing.T) {
	_, d := newBrowser(t)

	d.PressKey('?')
	assert.True(t, browser(d).help.ShowAll)
	assert.Contains(t, d.View(), "refresh")

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestBrowser_Empty(t *testing.T) {
	app := testApp(t)
	d := teatest.New(t, newBrowserModel(context.Background(), app.Objectives))
	assert.Contains(t, stripANSI(d.View()), "No objectives yet")

	d.PressKey('d')
	d.PressSpace()
	d.PressCtrlC()
	assert.True(t, d.Quitting)
}
