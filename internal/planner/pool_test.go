package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
)

func TestTaskPool(t *testing.T) {
	p, _ := newTestPlanner(t)

	_, err := p.AddTask("   ", models.TaskSourceManual)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	report, err := p.AddTask(" Write report ", models.TaskSourceManual)
	require.NoError(t, err)
	assert.Equal(t, "Write report", report.Title)
	assert.Equal(t, today, report.CreatedDate)
	assert.Equal(t, models.TaskStatusPending, report.Status)
	assert.Len(t, report.ID, 36)

	bank, err := p.AddTask("Call bank", models.TaskSourceManual)
	require.NoError(t, err)

	found, err := p.FindTask(report.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, report, found)

	done, err := p.SetTaskStatus(bank.ID, models.TaskStatusDone)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, done.Status)

	open, err := p.Tasks(false)
	require.NoError(t, err)
	assert.Equal(t, []models.TaskItem{report}, open)
	all, err := p.Tasks(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = p.SetTaskStatus(report.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	removed, err := p.RemoveTask(report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, removed.ID)
	_, err = p.FindTask(report.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = p.FindTask("")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFindTaskAmbiguousPrefix(t *testing.T) {
	p, _ := newTestPlanner(t)
	for _, id := range []string{"abc-1", "abc-2"} {
		require.NoError(t, p.Store().AddTask(models.TaskItem{ID: id, Title: id, CreatedDate: today, Source: models.TaskSourceManual, Status: models.TaskStatusPending}))
	}

	_, err := p.FindTask("abc")
	assert.ErrorContains(t, err, "ambiguous")
	got, err := p.FindTask("abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-2", got.ID)
}

func TestAct(t *testing.T) {
	p, _ := newTestPlanner(t)
	pooled, err := p.AddTask("Write report", models.TaskSourceManual)
	require.NoError(t, err)

	res, err := p.Act(today, " Good day ", [2]string{pooled.ID[:6], "Fix the flaky test"})
	require.NoError(t, err)

	assert.Equal(t, "Good day", res.Today.DaySummary)
	assert.Equal(t, "2024-01-11", res.Tomorrow.Date)
	assert.Equal(t, [2]string{"Write report", "Fix the flaky test"}, res.Tomorrow.PrimaryTasks)
	require.Len(t, res.Scheduled, 2)
	assert.Equal(t, pooled.ID, res.Scheduled[0].ID)
	assert.Equal(t, models.TaskStatusScheduled, res.Scheduled[0].Status)
	assert.Equal(t, models.TaskSourceCarryOver, res.Scheduled[1].Source)
	assert.Equal(t, models.TaskStatusScheduled, res.Scheduled[1].Status)

	all, err := p.Tasks(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestActWithoutNextTasksKeepsPresets(t *testing.T) {
	p, _ := newTestPlanner(t)
	_, err := p.SetPreset("2024-01-11", [2]string{"Preset A", "Preset B"})
	require.NoError(t, err)

	res, err := p.Act(today, "done", [2]string{"", " "})
	require.NoError(t, err)
	assert.Empty(t, res.Scheduled)
	assert.Equal(t, [2]string{"Preset A", "Preset B"}, res.Tomorrow.PrimaryTasks)
}
