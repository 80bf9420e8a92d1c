package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/pdcaflow/internal/models"
)

const testDate = "2024-01-10"

func hourlyAnchors(t *testing.T) []string {
	t.Helper()
	anchors, err := Anchors("00:00", "23:00", 60)
	require.NoError(t, err)
	return anchors
}

func newTestDay(t *testing.T) models.DailyRecord {
	t.Helper()
	return NewDailyRecord(testDate, hourlyAnchors(t), models.DefaultBioClockConfig(), nil)
}

func blockAt(t *testing.T, r models.DailyRecord, timeOfDay string) models.TimeBlock {
	t.Helper()
	id, err := FindBlock(r, timeOfDay)
	require.NoError(t, err)
	return r.TimeBlocks[r.BlockIndex(id)]
}

func countWakeUps(r models.DailyRecord) int {
	n := 0
	for _, b := range r.TimeBlocks {
		if b.IsWakeUp() {
			n++
		}
	}
	return n
}

func TestNewDailyRecord(t *testing.T) {
	r := newTestDay(t)

	require.Len(t, r.TimeBlocks, 25)
	assert.Empty(t, Validate(r))
	require.NotNil(t, r.BioConfig)
	assert.Equal(t, models.DefaultBioClockConfig(), *r.BioConfig)
	assert.Equal(t, [2]string{"", ""}, r.PrimaryTasks)

	wake := r.TimeBlocks[7]
	assert.True(t, wake.IsWakeUp())
	assert.Equal(t, "2024-01-10-07:00-WAKEUP", wake.ID)
	assert.Equal(t, "Wake up", wake.Plan.Content)
	assert.False(t, wake.Plan.IsBioLocked)
	assert.Equal(t, 1, wake.Plan.Span)
	assert.Equal(t, 1, wake.Do.Span)

	grid7 := r.TimeBlocks[8]
	assert.Equal(t, "2024-01-10-07:00", grid7.ID)
	assert.False(t, grid7.Plan.IsBioLocked)
	assert.Empty(t, grid7.Plan.Content)

	midnight := blockAt(t, r, "00:00")
	assert.True(t, midnight.Plan.IsBioLocked)
	assert.Equal(t, "Sleep", midnight.Plan.Content)

	lunch := blockAt(t, r, "12:00")
	assert.True(t, lunch.Plan.IsBioLocked)
	assert.Equal(t, "Lunch", lunch.Plan.Content)

	late := blockAt(t, r, "23:00")
	assert.Equal(t, "Sleep", late.Plan.Content)
}

func TestNewDailyRecordSkipsBadAnchors(t *testing.T) {
	r := NewDailyRecord(testDate, []string{"09:00", "9:00", "bogus", "10:00"}, models.DefaultBioClockConfig(), nil)

	// wake-up, 09:00, 10:00
	require.Len(t, r.TimeBlocks, 3)
	assert.Empty(t, Validate(r))
}

func TestNewDailyRecordUsesWeeklyPreset(t *testing.T) {
	weekly := &models.WeeklyPlan{
		WeekID:       "2024-W02",
		DailyPresets: map[string][2]string{"2024-01-10": {"Ship v1", "Write docs"}},
	}

	r := NewDailyRecord("2024-01-10", hourlyAnchors(t), models.DefaultBioClockConfig(), weekly)
	assert.Equal(t, [2]string{"Ship v1", "Write docs"}, r.PrimaryTasks)

	other := NewDailyRecord("2024-01-11", hourlyAnchors(t), models.DefaultBioClockConfig(), weekly)
	assert.Equal(t, [2]string{"", ""}, other.PrimaryTasks)
}

func TestAnchors(t *testing.T) {
	anchors, err := Anchors("07:00", "09:00", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"07:00", "07:30", "08:00", "08:30", "09:00"}, anchors)

	_, err = Anchors("09:00", "07:00", 30)
	assert.Error(t, err)

	_, err = Anchors("07:00", "09:00", 0)
	assert.Error(t, err)

	_, err = Anchors("7am", "09:00", 30)
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestReconcileIsIdempotent(t *testing.T) {
	r := newTestDay(t)
	r.TimeBlocks[r.BlockIndex(BlockID(testDate, "09:00"))].Plan.Content = "[09:15] Standup\nDeep work"
	r.TimeBlocks[r.BlockIndex(BlockID(testDate, "12:00"))].Plan.Content = "tampered"

	once := Reconcile(r)
	twice := Reconcile(once)

	assert.Equal(t, once, twice)
	assert.Empty(t, Validate(once))
	assert.Equal(t, "Lunch", blockAt(t, once, "12:00").Plan.Content)
	assert.Equal(t, "[09:15] Standup\nDeep work", blockAt(t, once, "09:00").Plan.Content)
}

func TestReconcileLeavesLegacyRecordsAlone(t *testing.T) {
	legacy := models.DailyRecord{
		Date: testDate,
		TimeBlocks: []models.TimeBlock{
			{ID: BlockID(testDate, "10:00"), Time: "10:00", Plan: models.PlanTrack{Content: "Sleep", Span: 1}, Do: models.DoTrack{Span: 1}},
			{ID: BlockID(testDate, "09:00"), Time: "09:00", Plan: models.PlanTrack{Span: 1}, Do: models.DoTrack{Span: 1}},
		},
	}

	assert.Equal(t, legacy, Reconcile(legacy))
}

func TestReconcileUsesPinnedConfig(t *testing.T) {
	r := newTestDay(t)

	live := models.DefaultBioClockConfig()
	live.SleepWindow = [2]string{"21:00", "09:00"}
	live.Meals = nil

	reconciled := Reconcile(r)
	for i, b := range reconciled.TimeBlocks {
		assert.Equal(t, r.TimeBlocks[i].Plan.IsBioLocked, b.Plan.IsBioLocked, "lock state changed for %s", b.ID)
	}
	assert.NotEqual(t, ReconcileWith(r, live), reconciled)
}

func TestRepinMovesWakeUpBlock(t *testing.T) {
	r := newTestDay(t)
	r.TimeBlocks[r.BlockIndex(BlockID(testDate, "07:00"))].Plan.Content = "Run"

	cfg := models.DefaultBioClockConfig()
	cfg.SleepWindow = [2]string{"23:00", "06:00"}
	repinned := Repin(r, cfg)

	assert.Empty(t, Validate(repinned))
	assert.Equal(t, 1, countWakeUps(repinned))
	wake, ok := repinned.WakeUpBlock()
	require.True(t, ok)
	assert.Equal(t, "06:00", wake.Time)
	assert.Equal(t, "2024-01-10-06:00-WAKEUP", wake.ID)
	assert.Equal(t, cfg, *repinned.BioConfig)

	six := blockAt(t, repinned, "06:00")
	assert.False(t, six.Plan.IsBioLocked)
	assert.Empty(t, six.Plan.Content)

	assert.Equal(t, "Run", blockAt(t, repinned, "07:00").Plan.Content)
	assert.Equal(t, -1, repinned.BlockIndex("2024-01-10-07:00-WAKEUP"))
}

func TestReconcileClearsRenamedMealLabel(t *testing.T) {
	r := newTestDay(t)

	cfg := models.DefaultBioClockConfig()
	cfg.Meals[0] = models.Meal{Name: "Brunch", Time: "10:00", DurationMin: 60}
	repinned := Repin(r, cfg)

	noon := blockAt(t, repinned, "12:00")
	assert.False(t, noon.Plan.IsBioLocked)
	assert.Empty(t, noon.Plan.Content)
	assert.Equal(t, "Brunch", blockAt(t, repinned, "10:00").Plan.Content)
}

func TestReconcileKeepsUserContentOnUnlock(t *testing.T) {
	r := newTestDay(t)
	idx := r.BlockIndex(BlockID(testDate, "12:00"))
	r.TimeBlocks[idx].Plan.Content = "Team lunch with Sam"

	cfg := models.DefaultBioClockConfig()
	cfg.Meals = cfg.Meals[1:]
	repinned := Repin(r, cfg)

	noon := blockAt(t, repinned, "12:00")
	assert.False(t, noon.Plan.IsBioLocked)
	assert.Equal(t, "Team lunch with Sam", noon.Plan.Content)
}

func TestReconcileKeepsWakeUpEdits(t *testing.T) {
	r := newTestDay(t)
	wake, _ := r.WakeUpBlock()
	idx := r.BlockIndex(wake.ID)
	r.TimeBlocks[idx].Plan.Content = "Wake up and stretch"
	r.TimeBlocks[idx].Do.Status = models.StatusCompleted

	got, ok := Reconcile(r).WakeUpBlock()
	require.True(t, ok)
	assert.Equal(t, "Wake up and stretch", got.Plan.Content)
	assert.Equal(t, models.StatusCompleted, got.Do.Status)
}

func TestEnsureWakeUpBlockCollapsesDuplicates(t *testing.T) {
	r := newTestDay(t)
	wake, _ := r.WakeUpBlock()
	dup := wake.Clone()
	dup.Plan.Content = "second"
	r.TimeBlocks = append(r.TimeBlocks, dup)

	got := EnsureWakeUpBlock(r, *r.BioConfig)
	assert.Equal(t, 1, countWakeUps(got))
	assert.Empty(t, Validate(got))
}

func TestEnsureWakeUpBlockRepairsSpanAcrossInsertion(t *testing.T) {
	cfg := models.BioClockConfig{SleepWindow: [2]string{"23:00", "07:00"}}
	r := NewDailyRecord(testDate, []string{"06:00", "07:00", "08:00"}, cfg, nil)

	six := r.BlockIndex(BlockID(testDate, "06:00"))
	merged, err := SetSpan(r, r.TimeBlocks[six].ID, ColumnDo, SpanMerge)
	require.NoError(t, err)

	// The merged run absorbed the 07:00 wake-up block; moving the wake time drops it
	// and puts a visible block inside the run.
	cfg.SleepWindow = [2]string{"23:00", "06:30"}
	moved := Repin(merged, cfg)
	cfg.SleepWindow = [2]string{"23:00", "07:00"}
	back := Repin(moved, cfg)

	assert.Empty(t, Validate(moved))
	assert.Empty(t, Validate(back))
	assert.Equal(t, 1, blockAt(t, back, "06:00").Do.Span)
}
