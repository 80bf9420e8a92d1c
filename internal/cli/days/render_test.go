package days

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/pdcaflow/internal/engine"
	"github.com/julianstephens/pdcaflow/internal/models"
)

const date = "2024-01-10"

func sampleDay(t *testing.T) models.DailyRecord {
	t.Helper()
	anchors, err := engine.Anchors("00:00", "23:00", 60)
	require.NoError(t, err)
	r := engine.NewDailyRecord(date, anchors, models.DefaultBioClockConfig(), nil)
	r.PrimaryTasks = [2]string{"Write report", ""}
	r.Revision = 4

	i := r.BlockIndex(engine.BlockID(date, "09:00"))
	r.TimeBlocks[i].Plan.Content = "Focus [09:15] standup"
	r, err = engine.SetSpan(r, engine.BlockID(date, "09:00"), engine.ColumnPlan, engine.SpanMerge)
	require.NoError(t, err)

	i = r.BlockIndex(engine.BlockID(date, "14:00"))
	r.TimeBlocks[i].Do.Status = models.StatusCompleted
	r.TimeBlocks[i].Do.ActualContent = "ran"
	r.TimeBlocks[i].Check.Efficiency = models.EfficiencyHigh
	r.TimeBlocks[i].Check.Tags = []string{"health"}
	return r
}

func TestRenderDay(t *testing.T) {
	out := RenderDay(sampleDay(t), RenderOptions{Fold: true})

	for _, want := range []string{
		"Wed 2024-01-10",
		"rev 4",
		"Write report",
		"(not set)",
		"Lunch",
		"Wake up",
		"↓2",
		"✓ ran",
		"high #health",
		"Sleep (7 blocks, ⋯06:00)",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "↳", "segments are only listed on request")
}

func TestRenderDayWithoutFold(t *testing.T) {
	out := RenderDay(sampleDay(t), RenderOptions{})
	assert.NotContains(t, out, "blocks, ⋯")
	assert.Contains(t, out, "03:00")
}

func TestRenderDayFoldFollowsPinnedConfig(t *testing.T) {
	r := sampleDay(t)
	r.BioConfig.EnableSleepFold = false
	out := RenderDay(r, RenderOptions{Fold: true})
	assert.NotContains(t, out, "blocks, ⋯")
}

func TestRenderDaySegments(t *testing.T) {
	out := RenderDay(sampleDay(t), RenderOptions{Segments: true})
	assert.Contains(t, out, "↳ plan 09:15 standup")
}

func TestSleepRunStopsAtUserData(t *testing.T) {
	r := sampleDay(t)
	i := r.BlockIndex(engine.BlockID(date, "03:00"))
	r.TimeBlocks[i].Do.ActualContent = "woke up early"

	assert.Equal(t, 3, sleepRun(r.TimeBlocks))
	assert.Equal(t, 0, sleepRun(r.TimeBlocks[r.BlockIndex(engine.BlockID(date, "09:00")):]))
}

func TestFormatPrimary(t *testing.T) {
	assert.Equal(t, "(none)", formatPrimary([2]string{}))
	assert.Equal(t, "a, b", formatPrimary([2]string{"a", "b"}))
	assert.Equal(t, "b", formatPrimary([2]string{"", "b"}))
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a / b", oneLine(" a\nb "))
	assert.True(t, strings.HasPrefix(withSpan("x", 3), "x ↓3"))
	assert.Equal(t, "x", withSpan("x", 1))
}
