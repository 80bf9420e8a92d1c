package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
)

func (s *Store) AddTask(task models.TaskItem) error {
	_, err := s.db.Exec(
		"INSERT INTO tasks (id, title, created_date, source, status) VALUES (?, ?, ?, ?, ?)",
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
		"SELECT id, title, created_date, source, status FROM tasks WHERE id = ?", id,
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
	rows, err := s.db.Query("SELECT id, title, created_date, source, status FROM tasks ORDER BY created_date, rowid")
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
		"UPDATE tasks SET title = ?, created_date = ?, source = ?, status = ? WHERE id = ?",
		task.Title, task.CreatedDate, string(task.Source), string(task.Status), task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(res, "task "+task.ID)
}

func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
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
