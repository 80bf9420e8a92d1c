package engine

import (
	"fmt"

	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

// Anchors lists the anchor times from start to end inclusive, every intervalMin minutes.
func Anchors(start, end string, intervalMin int) ([]string, error) {
	if intervalMin < 1 || intervalMin > constants.MaxGridIntervalMin {
		return nil, fmt.Errorf("grid interval must be between 1 and %d minutes, got %d", constants.MaxGridIntervalMin, intervalMin)
	}
	s, err := utils.ParseTimeToMinutes(start)
	if err != nil {
		return nil, fmt.Errorf("%w: grid start %q", ErrInvalidTime, start)
	}
	e, err := utils.ParseTimeToMinutes(end)
	if err != nil {
		return nil, fmt.Errorf("%w: grid end %q", ErrInvalidTime, end)
	}
	if s > e {
		return nil, fmt.Errorf("grid start %s is after grid end %s", start, end)
	}

	var anchors []string
	for m := s; m <= e; m += intervalMin {
		anchors = append(anchors, utils.FormatMinutes(m))
	}
	return anchors, nil
}

// NewDailyRecord builds the skeleton of a new day: one block per anchor, locks from
// cfg, primary tasks from the weekly plan, the wake-up block, and cfg pinned as the
// record's snapshot. Invalid or repeated anchors are skipped.
func NewDailyRecord(date string, anchors []string, cfg models.BioClockConfig, weekly *models.WeeklyPlan) models.DailyRecord {
	pinned := cfg.Clone()
	record := models.DailyRecord{
		Date:         date,
		PrimaryTasks: ResolvePrimaryTasks(date, weekly),
		TimeBlocks:   make([]models.TimeBlock, 0, len(anchors)+1),
		BioConfig:    &pinned,
	}

	seen := make(map[string]bool, len(anchors))
	for _, anchor := range anchors {
		t, err := utils.NormalizeTime(anchor)
		if err != nil || seen[t] {
			continue
		}
		seen[t] = true

		state := Lock(t, cfg)
		record.TimeBlocks = append(record.TimeBlocks, models.TimeBlock{
			ID:   BlockID(date, t),
			Time: t,
			Plan: models.PlanTrack{
				Content:     state.Label,
				IsBioLocked: state.Locked,
				Span:        1,
			},
			Do: models.DoTrack{
				Status: models.StatusNone,
				Span:   1,
			},
			Check: models.CheckTrack{Tags: []string{}},
		})
	}

	return EnsureWakeUpBlock(record, cfg)
}
