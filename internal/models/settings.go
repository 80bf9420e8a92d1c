package models

import "github.com/julianstephens/pdcaflow/internal/constants"

// Settings represents application-wide settings kept alongside the data
type Settings struct {
	BioClock BioClockConfig `json:"bio_clock"` // the live biological clock, pinned into each new day
	Timezone string         `json:"timezone"`  // IANA timezone name (e.g. "Europe/London", or "Local" for system timezone)
}

// DefaultSettings returns the settings written on first initialization.
func DefaultSettings() Settings {
	return Settings{
		BioClock: DefaultBioClockConfig(),
		Timezone: constants.DefaultTimezone,
	}
}
