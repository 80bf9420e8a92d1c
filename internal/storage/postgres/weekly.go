package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
)

func (s *Store) GetWeeklyPlan(weekID string) (models.WeeklyPlan, error) {
	plan := models.WeeklyPlan{WeekID: weekID, DailyPresets: map[string][2]string{}}
	err := s.db.QueryRow(
		"SELECT id, theme, start_date, weekly_summary FROM weekly_plans WHERE week_id = $1", weekID,
	).Scan(&plan.ID, &plan.Theme, &plan.StartDate, &plan.WeeklySummary)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WeeklyPlan{}, fmt.Errorf("%w: no weekly plan for %s", storage.ErrNotFound, weekID)
	}
	if err != nil {
		return models.WeeklyPlan{}, fmt.Errorf("failed to read weekly plan %s: %w", weekID, err)
	}

	rows, err := s.db.Query("SELECT date, task_a, task_b FROM weekly_presets WHERE week_id = $1", weekID)
	if err != nil {
		return models.WeeklyPlan{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var date string
		var tasks [2]string
		if err := rows.Scan(&date, &tasks[0], &tasks[1]); err != nil {
			return models.WeeklyPlan{}, err
		}
		plan.DailyPresets[date] = tasks
	}
	return plan, rows.Err()
}

func (s *Store) SaveWeeklyPlan(plan models.WeeklyPlan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO weekly_plans (week_id, id, theme, start_date, weekly_summary) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (week_id) DO UPDATE SET
			id = EXCLUDED.id,
			theme = EXCLUDED.theme,
			start_date = EXCLUDED.start_date,
			weekly_summary = EXCLUDED.weekly_summary`,
		plan.WeekID, plan.ID, plan.Theme, plan.StartDate, plan.WeeklySummary,
	)
	if err != nil {
		return fmt.Errorf("failed to save weekly plan %s: %w", plan.WeekID, err)
	}

	if _, err := tx.Exec("DELETE FROM weekly_presets WHERE week_id = $1", plan.WeekID); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO weekly_presets (week_id, date, task_a, task_b) VALUES ($1, $2, $3, $4)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	dates := make([]string, 0, len(plan.DailyPresets))
	for d := range plan.DailyPresets {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		tasks := plan.DailyPresets[d]
		if _, err := stmt.Exec(plan.WeekID, d, tasks[0], tasks[1]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetAllWeeklyPlans() ([]models.WeeklyPlan, error) {
	ids, err := s.queryStrings("SELECT week_id FROM weekly_plans ORDER BY start_date")
	if err != nil {
		return nil, err
	}
	plans := make([]models.WeeklyPlan, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetWeeklyPlan(id)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}
