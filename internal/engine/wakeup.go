package engine

import (
	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/models"
)

// EnsureWakeUpBlock guarantees exactly one wake-up block at cfg's wake time. Wake-up
// blocks at any other time are dropped; a matching block keeps the user's edits.
func EnsureWakeUpBlock(record models.DailyRecord, cfg models.BioClockConfig) models.DailyRecord {
	out := record.Clone()
	wake := minutes(cfg.WakeTime())

	blocks := make([]models.TimeBlock, 0, len(out.TimeBlocks)+1)
	found := false
	for _, b := range out.TimeBlocks {
		if b.IsWakeUp() {
			if found || minutes(b.Time) != wake {
				continue
			}
			found = true
		}
		blocks = append(blocks, b)
	}
	if !found {
		blocks = append(blocks, newWakeUpBlock(out.Date, cfg.WakeTime()))
	}

	SortBlocks(blocks)
	normalizeSpans(blocks)
	out.TimeBlocks = blocks
	return out
}

func newWakeUpBlock(date, wakeTime string) models.TimeBlock {
	return models.TimeBlock{
		ID:   WakeUpBlockID(date, wakeTime),
		Time: wakeTime,
		Plan: models.PlanTrack{
			Content: constants.WakeUpLabel,
			Span:    1,
		},
		Do: models.DoTrack{
			Status: models.StatusNone,
			Span:   1,
		},
		Check: models.CheckTrack{Tags: []string{}},
	}
}
