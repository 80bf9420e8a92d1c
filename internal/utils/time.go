package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/pdcaflow/internal/constants"
)

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
// This ensures that "today" is determined by the user's configured timezone, not the system timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes renders minutes since midnight as HH:MM, wrapping past midnight.
func FormatMinutes(minutes int) string {
	minutes = ((minutes % constants.MinutesPerDay) + constants.MinutesPerDay) % constants.MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeTime parses and re-renders a time so "9:05" and "09:05" compare equal.
func NormalizeTime(timeStr string) (string, error) {
	m, err := ParseTimeToMinutes(timeStr)
	if err != nil {
		return "", err
	}
	return FormatMinutes(m), nil
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}

// ValidateDateFormat checks if the string is a YYYY-MM-DD calendar date.
func ValidateDateFormat(dateStr string) bool {
	_, err := time.Parse(constants.DateFormat, dateStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(dateStr string, n int) (string, error) {
	d, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return d.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// WeekID returns the ISO-8601 week identifier (YYYY-Www) containing t.
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WeekIDForDate returns the ISO week identifier for a YYYY-MM-DD date.
func WeekIDForDate(dateStr string) (string, error) {
	d, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return WeekID(d), nil
}

// MondayOfWeek returns the Monday (YYYY-MM-DD) of the ISO week containing t.
func MondayOfWeek(t time.Time) string {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return t.AddDate(0, 0, -offset).Format(constants.DateFormat)
}

// MondayOfWeekID returns the Monday of an ISO week identifier such as "2024-W02".
func MondayOfWeekID(weekID string) (string, error) {
	var year, week int
	if _, err := fmt.Sscanf(weekID, "%d-W%d", &year, &week); err != nil {
		return "", fmt.Errorf("invalid week id %q: %w", weekID, err)
	}
	if week < 1 || week > 53 {
		return "", fmt.Errorf("invalid week id %q: week out of range", weekID)
	}
	// January 4th is always in week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday, err := time.Parse(constants.DateFormat, MondayOfWeek(jan4))
	if err != nil {
		return "", err
	}
	d := monday.AddDate(0, 0, (week-1)*7)
	if WeekID(d) != fmt.Sprintf("%d-W%02d", year, week) {
		return "", fmt.Errorf("invalid week id %q: year has no such week", weekID)
	}
	return d.Format(constants.DateFormat), nil
}

// WeekDates returns the seven dates (Monday first) of an ISO week identifier.
func WeekDates(weekID string) ([]string, error) {
	monday, err := MondayOfWeekID(weekID)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		d, err := AddDays(monday, i)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}
