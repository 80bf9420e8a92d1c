package planner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/pdcaflow/internal/engine"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage/sqlite"
)

const today = "2024-01-10"

// newTestPlanner returns a planner over a fresh SQLite store whose clock reads
// 2024-01-10 10:00 UTC. Hooks run by the planner are counted in *changes.
func newTestPlanner(t *testing.T) (*Planner, *[]string) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "pdcaflow.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	anchors, err := engine.Anchors("00:00", "23:00", 60)
	require.NoError(t, err)

	var changes []string
	p := New(store, anchors,
		WithClock(func() time.Time { return time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC) }),
		WithBeforeChange(func(reason string) { changes = append(changes, reason) }),
		WithRepinWorkers(2),
	)
	require.NoError(t, p.SetTimezone("UTC"))
	return p, &changes
}

func ptr[T any](v T) *T { return &v }

func blockAt(t *testing.T, r models.DailyRecord, ref string) models.TimeBlock {
	t.Helper()
	id, err := engine.FindBlock(r, ref)
	require.NoError(t, err)
	return r.TimeBlocks[r.BlockIndex(id)]
}

func TestGetDailyRecordCreatesDay(t *testing.T) {
	p, _ := newTestPlanner(t)

	r, err := p.GetDailyRecord(today)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Revision)
	assert.Len(t, r.TimeBlocks, 25)
	require.NotNil(t, r.BioConfig)
	assert.Equal(t, models.DefaultBioClockConfig(), *r.BioConfig)
	assert.Empty(t, engine.Validate(r))

	assert.Equal(t, "Sleep", blockAt(t, r, "03:00").Plan.Content)
	assert.Equal(t, "Lunch", blockAt(t, r, "12:00").Plan.Content)
	assert.Equal(t, "Wake up", blockAt(t, r, "wake").Plan.Content)
}

func TestGetDailyRecordDoesNotRewriteUnchangedDays(t *testing.T) {
	p, _ := newTestPlanner(t)

	_, err := p.GetDailyRecord(today)
	require.NoError(t, err)
	again, err := p.GetDailyRecord(today)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Revision)
}

func TestGetDailyRecordReconcilesStoredDrift(t *testing.T) {
	p, _ := newTestPlanner(t)
	r, err := p.GetDailyRecord(today)
	require.NoError(t, err)

	// Simulate a record written by an older build that lost its lock on 12:00.
	drifted := r.Clone()
	idx := drifted.BlockIndex(engine.BlockID(today, "12:00"))
	drifted.TimeBlocks[idx].Plan.IsBioLocked = false
	drifted.TimeBlocks[idx].Plan.Content = ""
	require.NoError(t, p.Store().SaveRecord(drifted))

	got, err := p.GetDailyRecord(today)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Revision)
	assert.True(t, blockAt(t, got, "12:00").Plan.IsBioLocked)
	assert.Equal(t, "Lunch", blockAt(t, got, "12:00").Plan.Content)
}

func TestGetDailyRecordUsesWeeklyPreset(t *testing.T) {
	p, _ := newTestPlanner(t)
	_, err := p.SetPreset(today, [2]string{"Ship v1", " Write docs "})
	require.NoError(t, err)

	r, err := p.GetDailyRecord(today)
	require.NoError(t, err)
	assert.Equal(t, [2]string{"Ship v1", "Write docs"}, r.PrimaryTasks)
}

func TestGetDailyRecordRejectsBadDates(t *testing.T) {
	p, _ := newTestPlanner(t)
	_, err := p.GetDailyRecord("2024-13-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestResolveDate(t *testing.T) {
	p, _ := newTestPlanner(t)

	tests := map[string]string{
		"":           "2024-01-10",
		"today":      "2024-01-10",
		"yesterday":  "2024-01-09",
		"tomorrow":   "2024-01-11",
		"2023-02-28": "2023-02-28",
	}
	for in, want := range tests {
		got, err := p.ResolveDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := p.ResolveDate("next friday")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestTodayFollowsTimezone(t *testing.T) {
	p, _ := newTestPlanner(t)
	p.now = func() time.Time { return time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC) }

	require.NoError(t, p.SetTimezone("Asia/Tokyo"))
	got, err := p.Today()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-11", got)

	assert.Error(t, p.SetTimezone("Mars/Olympus"))
}

func TestSplitAndSpanPersist(t *testing.T) {
	p, _ := newTestPlanner(t)
	_, err := p.EditPlan(today, "09:00", PlanEdit{Content: ptr("[09:15] Write report\nOther stuff")})
	require.NoError(t, err)

	r, err := p.Split(today, "09:00", "09:15")
	require.NoError(t, err)
	assert.Equal(t, "Other stuff", blockAt(t, r, "09:00").Plan.Content)
	assert.Equal(t, "Write report", blockAt(t, r, "09:15").Plan.Content)

	r, err = p.SetSpan(today, "09:00", engine.ColumnPlan, engine.SpanMerge)
	require.NoError(t, err)
	assert.Equal(t, 2, blockAt(t, r, "09:00").Plan.Span)
	assert.Equal(t, 0, blockAt(t, r, "09:15").Plan.Span)

	stored, err := p.Store().GetRecord(today)
	require.NoError(t, err)
	assert.Equal(t, r, stored)
	assert.Empty(t, engine.Validate(stored))
}

func TestFailedEditsLeaveRecordAlone(t *testing.T) {
	p, _ := newTestPlanner(t)
	before, err := p.GetDailyRecord(today)
	require.NoError(t, err)

	_, err = p.Split(today, "09:00", "08:30")
	assert.ErrorIs(t, err, engine.ErrInvalidSplitTime)
	_, err = p.SetSpan(today, "09:00", engine.ColumnDo, engine.SpanSplit)
	assert.ErrorIs(t, err, engine.ErrNothingToSplit)
	_, err = p.EditPlan(today, "12:00", PlanEdit{Content: ptr("Meeting")})
	assert.ErrorIs(t, err, engine.ErrPlanLocked)
	_, err = p.EditDo(today, "09:00", DoEdit{Status: ptr(models.ExecutionStatus("done"))})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = p.EditCheck(today, "09:00", CheckEdit{Efficiency: ptr(models.Efficiency("great"))})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = p.EditPlan(today, "09:00", PlanEdit{StartTime: ptr("9am")})
	assert.ErrorIs(t, err, engine.ErrInvalidTime)
	_, err = p.EditPlan(today, "09:30", PlanEdit{Content: ptr("x")})
	assert.ErrorIs(t, err, engine.ErrBlockNotFound)

	after, err := p.Store().GetRecord(today)
	require.NoError(t, err)
	assert.Equal(t, before.Revision, after.Revision)
}

func TestEditTracks(t *testing.T) {
	p, _ := newTestPlanner(t)

	_, err := p.EditPlan(today, "09:00", PlanEdit{Content: ptr(" Deep work "), StartTime: ptr("9:05"), IsPrimary: ptr(true)})
	require.NoError(t, err)
	_, err = p.EditDo(today, "09:00", DoEdit{Status: ptr(models.StatusPartial), ActualContent: ptr("Half done"), EndTime: ptr("09:50")})
	require.NoError(t, err)
	r, err := p.EditCheck(today, "09:00", CheckEdit{
		Efficiency: ptr(models.EfficiencyHigh),
		Tags:       []string{"focus", " focus", "", "writing"},
		Comment:    ptr("quiet morning"),
	})
	require.NoError(t, err)

	b := blockAt(t, r, "09:00")
	assert.Equal(t, models.PlanTrack{Content: "Deep work", StartTime: "09:05", IsPrimary: true, Span: 1}, b.Plan)
	assert.Equal(t, models.DoTrack{Status: models.StatusPartial, ActualContent: "Half done", EndTime: "09:50", Span: 1}, b.Do)
	assert.Equal(t, models.CheckTrack{Efficiency: models.EfficiencyHigh, Tags: []string{"focus", "writing"}, Comment: "quiet morning"}, b.Check)
	assert.Equal(t, 4, r.Revision)

	// Re-applying the same edit is not a change.
	r, err = p.EditPlan(today, "09:00", PlanEdit{Content: ptr("Deep work")})
	require.NoError(t, err)
	assert.Equal(t, 4, r.Revision)

	r, err = p.EditPlan(today, "09:00", PlanEdit{StartTime: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, blockAt(t, r, "09:00").Plan.StartTime)
}

func TestWakeUpBlockIsEditable(t *testing.T) {
	p, _ := newTestPlanner(t)

	r, err := p.EditPlan(today, "wake", PlanEdit{Content: ptr("Wake up + stretch")})
	require.NoError(t, err)
	assert.Equal(t, "Wake up + stretch", blockAt(t, r, "wake").Plan.Content)

	r, err = p.GetDailyRecord(today)
	require.NoError(t, err)
	assert.Equal(t, "Wake up + stretch", blockAt(t, r, "wake").Plan.Content)
}

func TestReset(t *testing.T) {
	p, changes := newTestPlanner(t)
	_, err := p.EditPlan(today, "09:00", PlanEdit{Content: ptr("Deep work")})
	require.NoError(t, err)
	_, err = p.SetSummary(today, "meh")
	require.NoError(t, err)

	r, err := p.Reset(today)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Revision)
	assert.Empty(t, r.DaySummary)
	assert.Empty(t, blockAt(t, r, "09:00").Plan.Content)
	assert.Equal(t, []string{"reset " + today}, *changes)

	// Resetting a day that was never stored just creates it.
	r, err = p.Reset("2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Revision)
}

func TestUpdateBioClockRepinsTodayAndLater(t *testing.T) {
	p, changes := newTestPlanner(t)
	for _, d := range []string{"2024-01-09", "2024-01-10", "2024-01-12"} {
		_, err := p.GetDailyRecord(d)
		require.NoError(t, err)
	}
	_, err := p.EditPlan("2024-01-12", "13:00", PlanEdit{Content: ptr("Gym")})
	require.NoError(t, err)

	cfg := models.BioClockConfig{
		SleepWindow: [2]string{"22:00", "06:00"},
		Meals:       []models.Meal{{Name: "Brunch", Time: "11:00", DurationMin: 120}},
	}
	n, err := p.UpdateBioClock(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"re-pin bio clock"}, *changes)

	settings, err := p.Settings()
	require.NoError(t, err)
	assert.Equal(t, cfg, settings.BioClock)

	past, err := p.GetDailyRecord("2024-01-09")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBioClockConfig(), *past.BioConfig)
	assert.Equal(t, "Lunch", blockAt(t, past, "12:00").Plan.Content)

	future, err := p.GetDailyRecord("2024-01-12")
	require.NoError(t, err)
	assert.Equal(t, cfg, *future.BioConfig)
	assert.Equal(t, "Brunch", blockAt(t, future, "12:00").Plan.Content)
	assert.Equal(t, "Gym", blockAt(t, future, "13:00").Plan.Content)
	assert.False(t, blockAt(t, future, "18:00").Plan.IsBioLocked)
	assert.Empty(t, blockAt(t, future, "18:00").Plan.Content)
	assert.Equal(t, "Sleep", blockAt(t, future, "22:00").Plan.Content)
	assert.Equal(t, engine.WakeUpBlockID("2024-01-12", "06:00"), blockAt(t, future, "wake").ID)
	assert.Empty(t, engine.Validate(future))

	n, err = p.RepinFuture(context.Background(), cfg)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateBioClockValidates(t *testing.T) {
	p, _ := newTestPlanner(t)

	tests := []struct {
		name string
		cfg  models.BioClockConfig
	}{
		{name: "bad sleep time", cfg: models.BioClockConfig{SleepWindow: [2]string{"late", "07:00"}}},
		{name: "empty meal", cfg: models.BioClockConfig{SleepWindow: [2]string{"23:00", "07:00"}, Meals: []models.Meal{{Time: "12:00", DurationMin: 30}}}},
		{name: "reserved meal", cfg: models.BioClockConfig{SleepWindow: [2]string{"23:00", "07:00"}, Meals: []models.Meal{{Name: "Sleep", Time: "12:00", DurationMin: 30}}}},
		{name: "duplicate meal", cfg: models.BioClockConfig{SleepWindow: [2]string{"23:00", "07:00"}, Meals: []models.Meal{
			{Name: "Lunch", Time: "12:00", DurationMin: 30}, {Name: "Lunch", Time: "13:00", DurationMin: 30},
		}}},
		{name: "zero duration", cfg: models.BioClockConfig{SleepWindow: [2]string{"23:00", "07:00"}, Meals: []models.Meal{{Name: "Lunch", Time: "12:00"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.UpdateBioClock(context.Background(), tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidBioClock)
		})
	}

	settings, err := p.Settings()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBioClockConfig(), settings.BioClock)
}

func TestUpdateBioClockReleasesRunAcrossNewWakeTime(t *testing.T) {
	p, _ := newTestPlanner(t)
	_, err := p.EditDo(today, "06:00", DoEdit{ActualContent: ptr("Long run")})
	require.NoError(t, err)
	for range 3 {
		_, err = p.SetSpan(today, "06:00", engine.ColumnDo, engine.SpanMerge)
		require.NoError(t, err)
	}
	_, err = p.SetSpan(today, "10:00", engine.ColumnPlan, engine.SpanMerge)
	require.NoError(t, err)

	r, err := p.GetDailyRecord(today)
	require.NoError(t, err)
	require.Equal(t, 4, blockAt(t, r, "06:00").Do.Span)
	require.Equal(t, 0, blockAt(t, r, "08:00").Do.Span)

	cfg := models.DefaultBioClockConfig()
	cfg.SleepWindow = [2]string{"23:00", "06:30"}
	n, err := p.UpdateBioClock(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	r, err = p.GetDailyRecord(today)
	require.NoError(t, err)
	assert.Empty(t, engine.Validate(r))
	assert.Equal(t, "06:30", blockAt(t, r, "wake").Time)

	// The new wake-up block cuts the run, and the blocks it claimed become visible again.
	for _, ref := range []string{"06:00", "wake", "07:00", "08:00"} {
		assert.Equal(t, 1, blockAt(t, r, ref).Do.Span, ref)
	}
	assert.Equal(t, "Long run", blockAt(t, r, "06:00").Do.ActualContent)
	assert.Equal(t, 2, blockAt(t, r, "10:00").Plan.Span)
}

func TestRepinFutureHonoursCancellation(t *testing.T) {
	p, _ := newTestPlanner(t)
	_, err := p.GetDailyRecord(today)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.RepinFuture(ctx, models.BioClockConfig{SleepWindow: [2]string{"22:00", "06:00"}})
	assert.ErrorIs(t, err, context.Canceled)

	r, err := p.Store().GetRecord(today)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBioClockConfig(), *r.BioConfig)
}

func TestDiagnose(t *testing.T) {
	p, _ := newTestPlanner(t)
	_, err := p.GetDailyRecord(today)
	require.NoError(t, err)

	problems, n, err := p.Diagnose()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, problems)

	broken := storageRecord(t, p, today)
	broken.TimeBlocks[3].Plan.Span = 0
	require.NoError(t, p.Store().SaveRecord(broken))

	problems, _, err = p.Diagnose()
	require.NoError(t, err)
	assert.NotEmpty(t, problems)
	assert.Contains(t, problems[0].String(), today)
}

func storageRecord(t *testing.T, p *Planner, date string) models.DailyRecord {
	t.Helper()
	r, err := p.Store().GetRecord(date)
	require.NoError(t, err)
	return r
}
