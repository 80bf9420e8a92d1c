package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/pdcaflow/internal/models"
)

func TestLockMidnightWrap(t *testing.T) {
	cfg := models.BioClockConfig{SleepWindow: [2]string{"23:00", "07:00"}}

	tests := []struct {
		time   string
		locked bool
	}{
		{"23:30", true},
		{"23:00", true},
		{"00:00", true},
		{"06:59", true},
		{"07:00", false},
		{"12:00", false},
		{"22:59", false},
	}

	for _, tt := range tests {
		t.Run(tt.time, func(t *testing.T) {
			got := Lock(tt.time, cfg)
			assert.Equal(t, tt.locked, got.Locked)
			if tt.locked {
				assert.Equal(t, "Sleep", got.Label)
			} else {
				assert.Empty(t, got.Label)
			}
		})
	}
}

func TestLockSameDaySleepWindow(t *testing.T) {
	cfg := models.BioClockConfig{SleepWindow: [2]string{"01:00", "09:00"}}

	assert.False(t, Lock("00:30", cfg).Locked)
	assert.True(t, Lock("01:00", cfg).Locked)
	assert.True(t, Lock("08:59", cfg).Locked)
	assert.False(t, Lock("09:00", cfg).Locked)
	assert.False(t, Lock("23:00", cfg).Locked)
}

func TestLockMeals(t *testing.T) {
	cfg := models.DefaultBioClockConfig()

	assert.Equal(t, LockState{Locked: true, Label: "Lunch"}, Lock("12:00", cfg))
	assert.Equal(t, LockState{Locked: true, Label: "Lunch"}, Lock("12:59", cfg))
	assert.Equal(t, LockState{}, Lock("13:00", cfg))
	assert.Equal(t, LockState{Locked: true, Label: "Dinner"}, Lock("18:30", cfg))
}

func TestLockFirstMealWins(t *testing.T) {
	cfg := models.BioClockConfig{
		SleepWindow: [2]string{"23:00", "07:00"},
		Meals: []models.Meal{
			{Name: "Brunch", Time: "11:00", DurationMin: 90},
			{Name: "Lunch", Time: "12:00", DurationMin: 60},
		},
	}

	assert.Equal(t, "Brunch", Lock("12:15", cfg).Label)
	assert.Equal(t, "Lunch", Lock("12:30", cfg).Label)
}

func TestLockMealBeatsSleep(t *testing.T) {
	cfg := models.BioClockConfig{
		SleepWindow: [2]string{"22:00", "07:00"},
		Meals:       []models.Meal{{Name: "Supper", Time: "22:00", DurationMin: 30}},
	}

	assert.Equal(t, "Supper", Lock("22:15", cfg).Label)
	assert.Equal(t, "Sleep", Lock("22:30", cfg).Label)
}

func TestLockMalformedTimeIsTotal(t *testing.T) {
	cfg := models.DefaultBioClockConfig()

	assert.NotPanics(t, func() {
		got := Lock("not-a-time", cfg)
		assert.Equal(t, Lock("00:00", cfg), got)
	})
}
