package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

// WeeklyPlan returns the stored plan for weekID, or an empty template starting on
// the week's Monday.
func (p *Planner) WeeklyPlan(weekID string) (models.WeeklyPlan, error) {
	monday, err := utils.MondayOfWeekID(weekID)
	if err != nil {
		return models.WeeklyPlan{}, err
	}
	plan, err := p.store.GetWeeklyPlan(weekID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.WeeklyPlan{
			WeekID:       weekID,
			StartDate:    monday,
			DailyPresets: map[string][2]string{},
		}, nil
	}
	if err != nil {
		return models.WeeklyPlan{}, fmt.Errorf("failed to load weekly plan %s: %w", weekID, err)
	}
	return plan, nil
}

// ResolveWeek maps "" and "this" to the current week, "next"/"last" to its neighbours,
// a date to its week, and checks anything else is an ISO week id.
func (p *Planner) ResolveWeek(s string) (string, error) {
	switch s {
	case "", "this", "next", "last":
		today, err := p.Today()
		if err != nil {
			return "", err
		}
		offset := map[string]int{"": 0, "this": 0, "next": 7, "last": -7}[s]
		d, err := utils.AddDays(today, offset)
		if err != nil {
			return "", err
		}
		return utils.WeekIDForDate(d)
	}
	if utils.ValidateDateFormat(s) {
		return utils.WeekIDForDate(s)
	}
	if _, err := utils.MondayOfWeekID(s); err != nil {
		return "", err
	}
	return s, nil
}

// SaveWeeklyPlan checks that every preset falls inside the week, fills in the id and
// start date, and stores the plan. Existing daily records keep their primary tasks.
func (p *Planner) SaveWeeklyPlan(plan models.WeeklyPlan) (models.WeeklyPlan, error) {
	dates, err := utils.WeekDates(plan.WeekID)
	if err != nil {
		return models.WeeklyPlan{}, err
	}
	inWeek := make(map[string]bool, len(dates))
	for _, d := range dates {
		inWeek[d] = true
	}
	for d := range plan.DailyPresets {
		if !inWeek[d] {
			return models.WeeklyPlan{}, fmt.Errorf("preset date %s is not in week %s", d, plan.WeekID)
		}
	}

	if plan.ID == "" {
		if existing, err := p.store.GetWeeklyPlan(plan.WeekID); err == nil {
			plan.ID = existing.ID
		} else {
			plan.ID = uuid.New().String()
		}
	}
	plan.StartDate = dates[0]
	if plan.DailyPresets == nil {
		plan.DailyPresets = map[string][2]string{}
	}
	if err := p.store.SaveWeeklyPlan(plan); err != nil {
		return models.WeeklyPlan{}, fmt.Errorf("failed to save weekly plan %s: %w", plan.WeekID, err)
	}
	return plan, nil
}

// SetPreset sets or clears the primary-task preset for one date.
func (p *Planner) SetPreset(date string, tasks [2]string) (models.WeeklyPlan, error) {
	weekID, err := utils.WeekIDForDate(date)
	if err != nil {
		return models.WeeklyPlan{}, err
	}
	plan, err := p.WeeklyPlan(weekID)
	if err != nil {
		return models.WeeklyPlan{}, err
	}
	plan.SetPreset(date, [2]string{strings.TrimSpace(tasks[0]), strings.TrimSpace(tasks[1])})
	return p.SaveWeeklyPlan(plan)
}

// DescribeWeek sets the theme and summary that are non-nil.
func (p *Planner) DescribeWeek(weekID string, theme, summary *string) (models.WeeklyPlan, error) {
	plan, err := p.WeeklyPlan(weekID)
	if err != nil {
		return models.WeeklyPlan{}, err
	}
	if theme != nil {
		plan.Theme = strings.TrimSpace(*theme)
	}
	if summary != nil {
		plan.WeeklySummary = strings.TrimSpace(*summary)
	}
	return p.SaveWeeklyPlan(plan)
}
