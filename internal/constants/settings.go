package constants

const (
	// Settings keys
	SettingBioClock = "bio_clock"
	SettingTimezone = "timezone"

	// Default Settings Values
	DefaultSleepStart      = "23:00"
	DefaultSleepEnd        = "07:00"
	DefaultMealDurationMin = 60
	DefaultEnableSleepFold = true
	DefaultTimezone        = "Local" // Use system local timezone by default

	// Default time grid: hourly anchors for the whole day
	DefaultGridStart       = "00:00"
	DefaultGridEnd         = "23:00"
	DefaultGridIntervalMin = 60
	MaxGridIntervalMin     = 12 * 60
)
