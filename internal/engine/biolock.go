package engine

import (
	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

// LockState is the outcome of checking a time of day against a bio clock.
type LockState struct {
	Locked bool
	Label  string
}

// Lock reports whether timeOfDay falls inside a meal or the sleep window of cfg.
// Meals are checked first, in configuration order. The wake time itself is never
// sleep-locked. Malformed times are read as midnight.
func Lock(timeOfDay string, cfg models.BioClockConfig) LockState {
	t := minutes(timeOfDay)

	for _, meal := range cfg.Meals {
		start := minutes(meal.Time)
		if t >= start && t < start+meal.DurationMin {
			return LockState{Locked: true, Label: meal.Name}
		}
	}

	start, end := minutes(cfg.SleepStart()), minutes(cfg.WakeTime())
	if start > end {
		if t >= start || t < end {
			return LockState{Locked: true, Label: constants.SleepLabel}
		}
	} else if t >= start && t < end {
		return LockState{Locked: true, Label: constants.SleepLabel}
	}

	return LockState{}
}

func minutes(timeOfDay string) int {
	m, err := utils.ParseTimeToMinutes(timeOfDay)
	if err != nil {
		return 0
	}
	return m
}
