package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
)

func (s *Store) AddTask(task models.TaskItem) error {
	_, err := s.db.Exec(
		"INSERT INTO tasks (id, title, created_date, source, status) VALUES ($1, $2, $3, $4, $5)",
		task.ID, task.Title, task.CreatedDate, string(task.Source), string(task.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(id string) (models.TaskItem, error) {
	var t models.TaskItem
	err := s.db.QueryRow(
		"SELECT id, title, created_date, source, status FROM tasks WHERE id = $1", id,
	).Scan(&t.ID, &t.Title, &t.CreatedDate, &t.Source, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TaskItem{}, fmt.Errorf("%w: task %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return models.TaskItem{}, err
	}
	return t, nil
}

func (s *Store) GetAllTasks() ([]models.TaskItem, error) {
	rows, err := s.db.Query("SELECT id, title, created_date, source, status FROM tasks ORDER BY created_date, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.TaskItem{}
	for rows.Next() {
		var t models.TaskItem
		if err := rows.Scan(&t.ID, &t.Title, &t.CreatedDate, &t.Source, &t.Status); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(task models.TaskItem) error {
	res, err := s.db.Exec(
		"UPDATE tasks SET title = $1, created_date = $2, source = $3, status = $4 WHERE id = $5",
		task.Title, task.CreatedDate, string(task.Source), string(task.Status), task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(res, "task "+task.ID)
}

func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(res, "task "+id)
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, what)
	}
	return nil
}
