package planner

import (
	"errors"
	"strings"

	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

// ActResult is what the daily Act step produced.
type ActResult struct {
	Today     models.DailyRecord
	Tomorrow  models.DailyRecord
	Scheduled []models.TaskItem
}

// Act closes date: it stores the day summary and sets the next day's primary tasks.
// Each entry of next is either a pool task reference, which is marked scheduled, or
// free text, which enters the pool as a scheduled carry-over. When both entries are
// empty the next day is left as it is.
func (p *Planner) Act(date, summary string, next [2]string) (ActResult, error) {
	today, err := p.SetSummary(date, summary)
	if err != nil {
		return ActResult{}, err
	}
	tomorrow, err := utils.AddDays(date, 1)
	if err != nil {
		return ActResult{}, err
	}

	var titles [2]string
	var scheduled []models.TaskItem
	for i, entry := range next {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		task, err := p.scheduleEntry(entry)
		if err != nil {
			return ActResult{}, err
		}
		titles[i] = task.Title
		scheduled = append(scheduled, task)
	}

	var record models.DailyRecord
	if len(scheduled) == 0 {
		record, err = p.GetDailyRecord(tomorrow)
	} else {
		record, err = p.SetPrimaryTasks(tomorrow, titles)
	}
	if err != nil {
		return ActResult{}, err
	}
	return ActResult{Today: today, Tomorrow: record, Scheduled: scheduled}, nil
}

func (p *Planner) scheduleEntry(entry string) (models.TaskItem, error) {
	task, err := p.FindTask(entry)
	switch {
	case err == nil:
		return p.SetTaskStatus(task.ID, models.TaskStatusScheduled)
	case !errors.Is(err, storage.ErrNotFound):
		return models.TaskItem{}, err
	}

	task, err = p.AddTask(entry, models.TaskSourceCarryOver)
	if err != nil {
		return models.TaskItem{}, err
	}
	return p.SetTaskStatus(task.ID, models.TaskStatusScheduled)
}
