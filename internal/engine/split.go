package engine

import (
	"fmt"

	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

// Split inserts a new block at newTime after the block blockID, moving any
// "[newTime] text" segments of the target's Plan and Do content into it. On error
// the record is returned unchanged.
func Split(record models.DailyRecord, blockID, newTime string) (models.DailyRecord, error) {
	newMin, err := utils.ParseTimeToMinutes(newTime)
	if err != nil {
		return record, fmt.Errorf("%w: %q", ErrInvalidTime, newTime)
	}
	newTime = utils.FormatMinutes(newMin)

	idx := record.BlockIndex(blockID)
	if idx < 0 {
		return record, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	target := record.TimeBlocks[idx]
	if newMin <= minutes(target.Time) {
		return record, fmt.Errorf("%w: %s is not after %s", ErrInvalidSplitTime, newTime, target.Time)
	}
	for _, b := range record.TimeBlocks {
		if minutes(b.Time) == newMin {
			return record, fmt.Errorf("%w: %s", ErrDuplicateTimePoint, newTime)
		}
	}

	out := record.Clone()
	t := &out.TimeBlocks[idx]

	// Records without a pinned config can only inherit the target's lock.
	lock := LockState{Locked: t.Plan.IsBioLocked, Label: t.Plan.Content}
	if out.BioConfig != nil {
		lock = Lock(newTime, *out.BioConfig)
	}

	block := models.TimeBlock{
		ID:   BlockID(out.Date, newTime),
		Time: newTime,
		Plan: models.PlanTrack{
			IsBioLocked: lock.Locked,
			Span:        1,
		},
		Do: models.DoTrack{
			Status: models.StatusNone,
			Span:   1,
		},
		Check: models.CheckTrack{Tags: []string{}},
	}

	if lock.Locked {
		block.Plan.Content = lock.Label
	} else if text, rest, ok := ExtractSegment(t.Plan.Content, newTime); ok {
		block.Plan.Content = text
		t.Plan.Content = rest
	}
	if text, rest, ok := ExtractSegment(t.Do.ActualContent, newTime); ok {
		block.Do.ActualContent = text
		t.Do.ActualContent = rest
	}

	out.TimeBlocks = append(out.TimeBlocks, block)
	SortBlocks(out.TimeBlocks)
	normalizeSpans(out.TimeBlocks)
	return out, nil
}
