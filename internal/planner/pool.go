package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
)

func (p *Planner) AddTask(title string, source models.TaskSource) (models.TaskItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.TaskItem{}, ErrEmptyTitle
	}
	today, err := p.Today()
	if err != nil {
		return models.TaskItem{}, err
	}
	task := models.TaskItem{
		ID:          uuid.New().String(),
		Title:       title,
		CreatedDate: today,
		Source:      source,
		Status:      models.TaskStatusPending,
	}
	if err := p.store.AddTask(task); err != nil {
		return models.TaskItem{}, err
	}
	return task, nil
}

// Tasks lists the pool, hiding finished items unless all is set.
func (p *Planner) Tasks(all bool) ([]models.TaskItem, error) {
	tasks, err := p.store.GetAllTasks()
	if err != nil {
		return nil, fmt.Errorf("failed to load task pool: %w", err)
	}
	if all {
		return tasks, nil
	}
	open := tasks[:0:0]
	for _, t := range tasks {
		if t.Status != models.TaskStatusDone {
			open = append(open, t)
		}
	}
	return open, nil
}

// FindTask resolves a full id or a unique id prefix.
func (p *Planner) FindTask(ref string) (models.TaskItem, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.TaskItem{}, fmt.Errorf("%w: empty task reference", storage.ErrNotFound)
	}
	if t, err := p.store.GetTask(ref); err == nil {
		return t, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.TaskItem{}, err
	}

	tasks, err := p.store.GetAllTasks()
	if err != nil {
		return models.TaskItem{}, err
	}
	var match []models.TaskItem
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, ref) {
			match = append(match, t)
		}
	}
	switch len(match) {
	case 0:
		return models.TaskItem{}, fmt.Errorf("%w: task %s", storage.ErrNotFound, ref)
	case 1:
		return match[0], nil
	}
	return models.TaskItem{}, fmt.Errorf("task reference %q is ambiguous (%d matches)", ref, len(match))
}

func (p *Planner) SetTaskStatus(ref string, status models.TaskStatus) (models.TaskItem, error) {
	if !status.Valid() {
		return models.TaskItem{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	task, err := p.FindTask(ref)
	if err != nil {
		return models.TaskItem{}, err
	}
	task.Status = status
	if err := p.store.UpdateTask(task); err != nil {
		return models.TaskItem{}, err
	}
	return task, nil
}

func (p *Planner) RemoveTask(ref string) (models.TaskItem, error) {
	task, err := p.FindTask(ref)
	if err != nil {
		return models.TaskItem{}, err
	}
	if err := p.store.DeleteTask(task.ID); err != nil {
		return models.TaskItem{}, err
	}
	return task, nil
}
