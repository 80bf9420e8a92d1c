package models

// TaskSource records how an item entered the task pool.
type TaskSource string

// TaskStatus tracks an item through the pool.
type TaskStatus string

const (
	TaskSourceManual       TaskSource = "manual"
	TaskSourceCarryOver    TaskSource = "carry_over"
	TaskSourceWeeklyPreset TaskSource = "weekly_preset"

	TaskStatusPending   TaskStatus = "pending"
	TaskStatusScheduled TaskStatus = "scheduled"
	TaskStatusDone      TaskStatus = "done"
)

// TaskItem is a backlog entry that can be promoted to a day's primary task.
type TaskItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	CreatedDate string     `json:"createdDate"`
	Source      TaskSource `json:"source"`
	Status      TaskStatus `json:"status"`
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusScheduled, TaskStatusDone:
		return true
	}
	return false
}
