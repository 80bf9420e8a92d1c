package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/pdcaflow/internal/engine"
	"github.com/julianstephens/pdcaflow/internal/planner"
	"github.com/julianstephens/pdcaflow/internal/storage/sqlite"
)

const date = "2024-01-10"

func newTestModel(t *testing.T) (Model, *planner.Planner) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "pdcaflow.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	anchors, err := engine.Anchors("00:00", "23:00", 60)
	require.NoError(t, err)
	p := planner.New(store, anchors,
		planner.WithClock(func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, p.SetTimezone("UTC"))

	m := NewModel(p, date)
	require.NoError(t, m.Err())
	return m, p
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	for _, r := range keys {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func moveTo(t *testing.T, m Model, ref string) Model {
	t.Helper()
	id, err := engine.FindBlock(m.record, ref)
	require.NoError(t, err)
	m.cursor = m.record.BlockIndex(id)
	return m
}

func TestNewModelOpensDay(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, date, m.Date())
	assert.Len(t, m.Record().TimeBlocks, 25)
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, engine.ColumnPlan, m.Column())
}

func TestCursorMovement(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "jjj")
	assert.Equal(t, 3, m.Cursor())
	m = press(t, m, "k")
	assert.Equal(t, 2, m.Cursor())
	m = press(t, m, "kkkk")
	assert.Equal(t, 0, m.Cursor())
}

func TestMergeAndUnmerge(t *testing.T) {
	m, _ := newTestModel(t)
	m = moveTo(t, m, "09:00")

	m = press(t, m, "m")
	require.NoError(t, m.Err())
	b, _ := m.selected()
	assert.Equal(t, 2, b.Plan.Span)
	assert.Equal(t, 1, b.Do.Span)
	assert.Contains(t, m.status, "09:00")

	m = press(t, m, "u")
	require.NoError(t, m.Err())
	b, _ = m.selected()
	assert.Equal(t, 1, b.Plan.Span)
}

func TestColumnToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m = moveTo(t, m, "09:00")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, engine.ColumnDo, m.Column())

	m = press(t, m, "m")
	require.NoError(t, m.Err())
	b, _ := m.selected()
	assert.Equal(t, 1, b.Plan.Span)
	assert.Equal(t, 2, b.Do.Span)
}

func TestUnmergeSingleBlockReportsError(t *testing.T) {
	m, _ := newTestModel(t)
	m = moveTo(t, m, "09:00")

	m = press(t, m, "u")
	assert.ErrorIs(t, m.Err(), engine.ErrNothingToSplit)
}

func TestEditLockedPlanRefused(t *testing.T) {
	m, _ := newTestModel(t)
	m = moveTo(t, m, "12:00")

	m = press(t, m, "e")
	assert.ErrorIs(t, m.Err(), engine.ErrPlanLocked)
	assert.Equal(t, StateGrid, m.state)
}

func TestDayNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "l")
	assert.Equal(t, "2024-01-11", m.Date())
	m = press(t, m, "hh")
	assert.Equal(t, "2024-01-09", m.Date())
	m = press(t, m, "t")
	assert.Equal(t, "2024-03-01", m.Date())
}

func TestResetConfirmation(t *testing.T) {
	m, p := newTestModel(t)
	_, err := p.SetPrimaryTasks(date, [2]string{"Ship it", ""})
	require.NoError(t, err)

	m = press(t, m, "R")
	assert.Equal(t, StateConfirmReset, m.state)
	m = press(t, m, "n")
	assert.Equal(t, StateGrid, m.state)

	m = press(t, m, "Ry")
	require.NoError(t, m.Err())
	assert.Equal(t, StateGrid, m.state)
	assert.Empty(t, m.Record().PrimaryTasks[0])
}

func TestStoreChangeReloads(t *testing.T) {
	m, p := newTestModel(t)

	content := "Deep work"
	_, err := p.EditPlan(date, "09:00", planner.PlanEdit{Content: &content})
	require.NoError(t, err)

	next, cmd := m.Update(storeChangedMsg{})
	m = next.(Model)
	assert.Nil(t, cmd)

	id, err := engine.FindBlock(m.Record(), "09:00")
	require.NoError(t, err)
	assert.Equal(t, "Deep work", m.Record().TimeBlocks[m.Record().BlockIndex(id)].Plan.Content)
	assert.Contains(t, m.View(), "Deep work")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Empty(t, next.(Model).View())
}
