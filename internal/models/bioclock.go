package models

import "github.com/julianstephens/pdcaflow/internal/constants"

// Meal is a recurring window during which plan cells are locked under the meal's name.
type Meal struct {
	Name        string `json:"name"`
	Time        string `json:"time"`     // start of the window, HH:MM
	DurationMin int    `json:"duration"` // length of the window in minutes
}

// BioClockConfig describes the user's biological clock: when they sleep and when they eat.
type BioClockConfig struct {
	SleepWindow     [2]string `json:"sleepWindow"` // start, end; may wrap midnight
	Meals           []Meal    `json:"meals"`
	EnableSleepFold bool      `json:"enableSleepFold"` // display only
}

// SleepStart returns the time the sleep window opens.
func (c BioClockConfig) SleepStart() string {
	return c.SleepWindow[0]
}

// WakeTime returns the end of the sleep window, which anchors the wake-up block.
func (c BioClockConfig) WakeTime() string {
	return c.SleepWindow[1]
}

// Clone returns a deep copy so that pinned snapshots never share the meals slice.
func (c BioClockConfig) Clone() BioClockConfig {
	out := c
	if c.Meals != nil {
		out.Meals = make([]Meal, len(c.Meals))
		copy(out.Meals, c.Meals)
	}
	return out
}

// IsSystemLabel reports whether content is a label this config would write into a locked cell.
func (c BioClockConfig) IsSystemLabel(content string) bool {
	if content == constants.SleepLabel {
		return true
	}
	for _, meal := range c.Meals {
		if meal.Name == content {
			return true
		}
	}
	return false
}

// DefaultBioClockConfig returns the configuration used until the user sets their own.
func DefaultBioClockConfig() BioClockConfig {
	return BioClockConfig{
		SleepWindow: [2]string{constants.DefaultSleepStart, constants.DefaultSleepEnd},
		Meals: []Meal{
			{Name: "Lunch", Time: "12:00", DurationMin: constants.DefaultMealDurationMin},
			{Name: "Dinner", Time: "18:00", DurationMin: constants.DefaultMealDurationMin},
		},
		EnableSleepFold: constants.DefaultEnableSleepFold,
	}
}
