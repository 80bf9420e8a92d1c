package planner

import (
	"fmt"
	"strings"

	"github.com/julianstephens/pdcaflow/internal/engine"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

// PlanEdit changes the fields that are set; nil leaves a field alone.
type PlanEdit struct {
	Content   *string
	StartTime *string
	EndTime   *string
	IsPrimary *bool
}

type DoEdit struct {
	Status        *models.ExecutionStatus
	ActualContent *string
	StartTime     *string
	EndTime       *string
}

type CheckEdit struct {
	Efficiency *models.Efficiency
	Tags       []string // replaces the tags when non-nil
	Comment    *string
}

// Split cuts the block referenced by ref at newTime. ref is anything
// engine.FindBlock accepts.
func (p *Planner) Split(date, ref, newTime string) (models.DailyRecord, error) {
	return p.update(date, func(r models.DailyRecord) (models.DailyRecord, error) {
		id, err := engine.FindBlock(r, ref)
		if err != nil {
			return r, err
		}
		return engine.Split(r, id, newTime)
	})
}

// SetSpan merges or un-merges the run starting at ref in column.
func (p *Planner) SetSpan(date, ref string, column engine.Column, action engine.SpanAction) (models.DailyRecord, error) {
	return p.update(date, func(r models.DailyRecord) (models.DailyRecord, error) {
		id, err := engine.FindBlock(r, ref)
		if err != nil {
			return r, err
		}
		return engine.SetSpan(r, id, column, action)
	})
}

// editBlock applies fn to a copy of the referenced block.
func (p *Planner) editBlock(date, ref string, fn func(b *models.TimeBlock) error) (models.DailyRecord, error) {
	return p.update(date, func(r models.DailyRecord) (models.DailyRecord, error) {
		id, err := engine.FindBlock(r, ref)
		if err != nil {
			return r, err
		}
		out := r.Clone()
		if err := fn(&out.TimeBlocks[out.BlockIndex(id)]); err != nil {
			return r, err
		}
		return out, nil
	})
}

func (p *Planner) EditPlan(date, ref string, edit PlanEdit) (models.DailyRecord, error) {
	return p.editBlock(date, ref, func(b *models.TimeBlock) error {
		if edit.Content != nil && *edit.Content != b.Plan.Content {
			if b.Plan.IsBioLocked {
				return fmt.Errorf("%w: %s is %q", engine.ErrPlanLocked, b.Time, b.Plan.Content)
			}
			b.Plan.Content = strings.TrimSpace(*edit.Content)
		}
		if err := setClock(&b.Plan.StartTime, edit.StartTime); err != nil {
			return err
		}
		if err := setClock(&b.Plan.EndTime, edit.EndTime); err != nil {
			return err
		}
		if edit.IsPrimary != nil {
			b.Plan.IsPrimary = *edit.IsPrimary
		}
		return nil
	})
}

func (p *Planner) EditDo(date, ref string, edit DoEdit) (models.DailyRecord, error) {
	return p.editBlock(date, ref, func(b *models.TimeBlock) error {
		if edit.Status != nil {
			if !edit.Status.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidStatus, *edit.Status)
			}
			b.Do.Status = *edit.Status
		}
		if edit.ActualContent != nil {
			b.Do.ActualContent = strings.TrimSpace(*edit.ActualContent)
		}
		if err := setClock(&b.Do.StartTime, edit.StartTime); err != nil {
			return err
		}
		return setClock(&b.Do.EndTime, edit.EndTime)
	})
}

func (p *Planner) EditCheck(date, ref string, edit CheckEdit) (models.DailyRecord, error) {
	return p.editBlock(date, ref, func(b *models.TimeBlock) error {
		if edit.Efficiency != nil {
			if !edit.Efficiency.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidRating, *edit.Efficiency)
			}
			b.Check.Efficiency = *edit.Efficiency
		}
		if edit.Tags != nil {
			b.Check.Tags = normalizeTags(edit.Tags)
		}
		if edit.Comment != nil {
			b.Check.Comment = strings.TrimSpace(*edit.Comment)
		}
		return nil
	})
}

// setClock stores an HH:MM value, or clears the field for an empty string.
func setClock(field *string, value *string) error {
	if value == nil {
		return nil
	}
	if strings.TrimSpace(*value) == "" {
		*field = ""
		return nil
	}
	t, err := utils.NormalizeTime(*value)
	if err != nil {
		return fmt.Errorf("%w: %q", engine.ErrInvalidTime, *value)
	}
	*field = t
	return nil
}

// normalizeTags trims, drops empties and de-duplicates while keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func (p *Planner) SetPrimaryTasks(date string, tasks [2]string) (models.DailyRecord, error) {
	return p.update(date, func(r models.DailyRecord) (models.DailyRecord, error) {
		out := r.Clone()
		out.PrimaryTasks = [2]string{strings.TrimSpace(tasks[0]), strings.TrimSpace(tasks[1])}
		return out, nil
	})
}

func (p *Planner) SetSummary(date, summary string) (models.DailyRecord, error) {
	return p.update(date, func(r models.DailyRecord) (models.DailyRecord, error) {
		out := r.Clone()
		out.DaySummary = strings.TrimSpace(summary)
		return out, nil
	})
}
