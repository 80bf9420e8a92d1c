package models

// WeeklyPlan holds a week's theme and the default primary tasks for each of its days.
type WeeklyPlan struct {
	ID            string               `json:"id"`
	WeekID        string               `json:"weekId"` // ISO week, YYYY-Www
	Theme         string               `json:"theme"`
	StartDate     string               `json:"startDate"` // Monday of the week
	DailyPresets  map[string][2]string `json:"dailyPresets"`
	WeeklySummary string               `json:"weeklySummary"`
}

// Preset returns the primary tasks preset for date, if one is set.
func (w WeeklyPlan) Preset(date string) ([2]string, bool) {
	if w.DailyPresets == nil {
		return [2]string{}, false
	}
	p, ok := w.DailyPresets[date]
	return p, ok
}

// SetPreset stores the primary tasks preset for date. Setting two empty strings removes it.
func (w *WeeklyPlan) SetPreset(date string, tasks [2]string) {
	if tasks[0] == "" && tasks[1] == "" {
		delete(w.DailyPresets, date)
		return
	}
	if w.DailyPresets == nil {
		w.DailyPresets = make(map[string][2]string)
	}
	w.DailyPresets[date] = tasks
}
