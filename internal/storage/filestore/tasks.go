package filestore

import (
	"fmt"
	"sort"

	"github.com/julianstephens/pdcaflow/internal/models"
)

func (s *Store) AddTask(task models.TaskItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.d.Has(taskPrefix + task.ID) {
		return fmt.Errorf("failed to add task: task %s already exists", task.ID)
	}
	return s.writeJSON(taskPrefix+task.ID, task)
}

func (s *Store) GetTask(id string) (models.TaskItem, error) {
	var t models.TaskItem
	if err := s.readJSON(taskPrefix+id, &t); err != nil {
		return models.TaskItem{}, err
	}
	return t, nil
}

func (s *Store) GetAllTasks() ([]models.TaskItem, error) {
	tasks := []models.TaskItem{}
	for _, id := range s.names(taskPrefix) {
		t, err := s.GetTask(id)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedDate != tasks[j].CreatedDate {
			return tasks[i].CreatedDate < tasks[j].CreatedDate
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

func (s *Store) UpdateTask(task models.TaskItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetTask(task.ID); err != nil {
		return err
	}
	return s.writeJSON(taskPrefix+task.ID, task)
}

func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.erase(taskPrefix + id)
}
