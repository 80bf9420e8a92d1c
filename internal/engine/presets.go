package engine

import "github.com/julianstephens/pdcaflow/internal/models"

// ResolvePrimaryTasks returns the weekly plan's preset for date, or two empty tasks.
func ResolvePrimaryTasks(date string, plan *models.WeeklyPlan) [2]string {
	if plan == nil {
		return [2]string{"", ""}
	}
	if preset, ok := plan.Preset(date); ok {
		return preset
	}
	return [2]string{"", ""}
}
