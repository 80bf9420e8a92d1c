// Package storagetest holds the behaviour every storage.Provider must share. Each
// backend's tests call Run with a constructor for a fresh, initialized store.
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
)

// Factory returns an initialized store. Cleanup is the factory's job.
type Factory func(t *testing.T) storage.Provider

func Run(t *testing.T, newStore Factory) {
	t.Run("DefaultSettings", func(t *testing.T) { testDefaultSettings(t, newStore(t)) })
	t.Run("SettingsRoundTrip", func(t *testing.T) { testSettingsRoundTrip(t, newStore(t)) })
	t.Run("RecordRoundTrip", func(t *testing.T) { testRecordRoundTrip(t, newStore(t)) })
	t.Run("LegacyRecord", func(t *testing.T) { testLegacyRecord(t, newStore(t)) })
	t.Run("RecordRevision", func(t *testing.T) { testRecordRevision(t, newStore(t)) })
	t.Run("DeleteRecord", func(t *testing.T) { testDeleteRecord(t, newStore(t)) })
	t.Run("RecordsFrom", func(t *testing.T) { testRecordsFrom(t, newStore(t)) })
	t.Run("WeeklyPlans", func(t *testing.T) { testWeeklyPlans(t, newStore(t)) })
	t.Run("Tasks", func(t *testing.T) { testTasks(t, newStore(t)) })
}

// SampleRecord is a small day with a merged plan run, a pinned config and
// check data, enough to exercise every stored column.
func SampleRecord(date string) models.DailyRecord {
	cfg := models.DefaultBioClockConfig()
	return models.DailyRecord{
		Date:         date,
		PrimaryTasks: [2]string{"Ship v1", "Write docs"},
		DaySummary:   "Good focus in the morning",
		BioConfig:    &cfg,
		TimeBlocks: []models.TimeBlock{
			{
				ID:   date + "-07:00-WAKEUP",
				Time: "07:00",
				Plan: models.PlanTrack{Content: "Wake up", Span: 1},
				Do:   models.DoTrack{Status: models.StatusCompleted, Span: 1},
				Check: models.CheckTrack{
					Tags: []string{},
				},
			},
			{
				ID:   date + "-09:00",
				Time: "09:00",
				Plan: models.PlanTrack{Content: "[09:30] Review\nDeep work", IsPrimary: true, Span: 2, StartTime: "09:05"},
				Do:   models.DoTrack{Status: models.StatusPartial, ActualContent: "Deep work", Span: 2, EndTime: "10:40"},
				Check: models.CheckTrack{
					Efficiency: models.EfficiencyHigh,
					Tags:       []string{"focus", "writing"},
					Comment:    "no meetings",
				},
			},
			{
				ID:    date + "-10:00",
				Time:  "10:00",
				Plan:  models.PlanTrack{Span: 0},
				Do:    models.DoTrack{Status: models.StatusNone, Span: 0},
				Check: models.CheckTrack{Tags: []string{}},
			},
			{
				ID:    date + "-12:00",
				Time:  "12:00",
				Plan:  models.PlanTrack{Content: "Lunch", IsBioLocked: true, Span: 1},
				Do:    models.DoTrack{Status: models.StatusSkipped, Span: 1},
				Check: models.CheckTrack{Efficiency: models.EfficiencyLow, Tags: []string{}},
			},
		},
	}
}

func stripStoreFields(r models.DailyRecord) models.DailyRecord {
	r.Revision = 0
	r.UpdatedAt = ""
	return r
}

func testDefaultSettings(t *testing.T, s storage.Provider) {
	got, err := s.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)
}

func testSettingsRoundTrip(t *testing.T, s storage.Provider) {
	want := models.Settings{
		BioClock: models.BioClockConfig{
			SleepWindow:     [2]string{"22:30", "06:30"},
			Meals:           []models.Meal{{Name: "Brunch", Time: "10:30", DurationMin: 45}},
			EnableSleepFold: false,
		},
		Timezone: "Europe/London",
	}
	require.NoError(t, s.SaveSettings(want))

	got, err := s.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func testRecordRoundTrip(t *testing.T, s storage.Provider) {
	want := SampleRecord("2024-01-10")
	require.NoError(t, s.SaveRecord(want))

	got, err := s.GetRecord("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Revision)
	assert.NotEmpty(t, got.UpdatedAt)
	assert.Equal(t, want, stripStoreFields(got))

	_, err = s.GetRecord("2024-01-11")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testLegacyRecord(t *testing.T, s storage.Provider) {
	legacy := SampleRecord("2023-12-31")
	legacy.BioConfig = nil
	require.NoError(t, s.SaveRecord(legacy))

	got, err := s.GetRecord("2023-12-31")
	require.NoError(t, err)
	assert.Nil(t, got.BioConfig)
}

func testRecordRevision(t *testing.T, s storage.Provider) {
	r := SampleRecord("2024-01-10")
	require.NoError(t, s.SaveRecord(r))

	r.DaySummary = "changed"
	r.TimeBlocks = r.TimeBlocks[:1]
	r.Revision = 42
	require.NoError(t, s.SaveRecord(r))

	got, err := s.GetRecord("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Revision)
	assert.Equal(t, "changed", got.DaySummary)
	assert.Len(t, got.TimeBlocks, 1)
}

func testDeleteRecord(t *testing.T, s storage.Provider) {
	require.NoError(t, s.SaveRecord(SampleRecord("2024-01-10")))
	require.NoError(t, s.DeleteRecord("2024-01-10"))

	_, err := s.GetRecord("2024-01-10")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteRecord("2024-01-10"), storage.ErrNotFound)

	// A recreated day starts from revision 1 with no leftover blocks.
	fresh := SampleRecord("2024-01-10")
	fresh.TimeBlocks = fresh.TimeBlocks[:1]
	require.NoError(t, s.SaveRecord(fresh))
	got, err := s.GetRecord("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Revision)
	assert.Len(t, got.TimeBlocks, 1)
}

func testRecordsFrom(t *testing.T, s storage.Provider) {
	for _, d := range []string{"2024-01-12", "2024-01-09", "2024-01-10"} {
		require.NoError(t, s.SaveRecord(SampleRecord(d)))
	}

	from, err := s.GetRecordsFrom("2024-01-10")
	require.NoError(t, err)
	require.Len(t, from, 2)
	assert.Equal(t, "2024-01-10", from[0].Date)
	assert.Equal(t, "2024-01-12", from[1].Date)
	assert.Len(t, from[1].TimeBlocks, 4)

	all, err := s.GetAllRecords()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-01-09", all[0].Date)
}

func testWeeklyPlans(t *testing.T, s storage.Provider) {
	_, err := s.GetWeeklyPlan("2024-W02")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	want := models.WeeklyPlan{
		ID:        "week-1",
		WeekID:    "2024-W02",
		Theme:     "Launch",
		StartDate: "2024-01-08",
		DailyPresets: map[string][2]string{
			"2024-01-10": {"Ship v1", "Write docs"},
			"2024-01-11": {"Fix bugs", ""},
		},
		WeeklySummary: "",
	}
	require.NoError(t, s.SaveWeeklyPlan(want))

	got, err := s.GetWeeklyPlan("2024-W02")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want.Theme = "Polish"
	delete(want.DailyPresets, "2024-01-11")
	require.NoError(t, s.SaveWeeklyPlan(want))
	got, err = s.GetWeeklyPlan("2024-W02")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	earlier := models.WeeklyPlan{ID: "week-0", WeekID: "2024-W01", StartDate: "2024-01-01", DailyPresets: map[string][2]string{}}
	require.NoError(t, s.SaveWeeklyPlan(earlier))
	all, err := s.GetAllWeeklyPlans()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2024-W01", all[0].WeekID)
}

func testTasks(t *testing.T, s storage.Provider) {
	all, err := s.GetAllTasks()
	require.NoError(t, err)
	assert.Empty(t, all)

	a := models.TaskItem{ID: "a", Title: "Write report", CreatedDate: "2024-01-09", Source: models.TaskSourceManual, Status: models.TaskStatusPending}
	b := models.TaskItem{ID: "b", Title: "Call bank", CreatedDate: "2024-01-10", Source: models.TaskSourceCarryOver, Status: models.TaskStatusPending}
	require.NoError(t, s.AddTask(b))
	require.NoError(t, s.AddTask(a))
	assert.Error(t, s.AddTask(a))

	got, err := s.GetTask("a")
	require.NoError(t, err)
	assert.Equal(t, a, got)

	all, err = s.GetAllTasks()
	require.NoError(t, err)
	assert.Equal(t, []models.TaskItem{a, b}, all)

	a.Status = models.TaskStatusDone
	require.NoError(t, s.UpdateTask(a))
	got, err = s.GetTask("a")
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, got.Status)

	require.NoError(t, s.DeleteTask("a"))
	_, err = s.GetTask("a")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTask("a"), storage.ErrNotFound)
	assert.ErrorIs(t, s.UpdateTask(models.TaskItem{ID: "zzz"}), storage.ErrNotFound)
}
