package engine

import (
	"fmt"

	"github.com/julianstephens/pdcaflow/internal/models"
)

// Validate checks a record against the day invariants and returns every violation.
// Lock labels are checked only when the record carries a pinned config.
func Validate(record models.DailyRecord) []error {
	var errs []error

	seen := make(map[string]bool, len(record.TimeBlocks))
	wakeUps := 0
	for i, b := range record.TimeBlocks {
		if seen[b.ID] {
			errs = append(errs, fmt.Errorf("duplicate block id %s", b.ID))
		}
		seen[b.ID] = true

		if b.IsWakeUp() {
			wakeUps++
		}
		if i > 0 {
			prev := record.TimeBlocks[i-1]
			pm, cm := minutes(prev.Time), minutes(b.Time)
			if pm > cm || (pm == cm && b.IsWakeUp() && !prev.IsWakeUp()) {
				errs = append(errs, fmt.Errorf("block %s is out of order after %s", b.ID, prev.ID))
			}
		}
		if b.Plan.Span < 0 || b.Do.Span < 0 {
			errs = append(errs, fmt.Errorf("block %s has a negative span", b.ID))
		}
	}

	if wakeUps != 1 {
		errs = append(errs, fmt.Errorf("expected exactly one wake-up block, found %d", wakeUps))
	}

	errs = append(errs, validateColumn(record.TimeBlocks, ColumnPlan, planSpan)...)
	errs = append(errs, validateColumn(record.TimeBlocks, ColumnDo, doSpan)...)

	if cfg := record.BioConfig; cfg != nil {
		if wake, ok := record.WakeUpBlock(); ok && minutes(wake.Time) != minutes(cfg.WakeTime()) {
			errs = append(errs, fmt.Errorf("wake-up block at %s does not match wake time %s", wake.Time, cfg.WakeTime()))
		}
		for _, b := range record.TimeBlocks {
			if b.IsWakeUp() || !b.Plan.IsBioLocked {
				continue
			}
			if state := Lock(b.Time, *cfg); !state.Locked || state.Label != b.Plan.Content {
				errs = append(errs, fmt.Errorf("locked block %s holds %q instead of its system label", b.ID, b.Plan.Content))
			}
		}
	}

	return errs
}

func validateColumn(blocks []models.TimeBlock, column Column, span spanColumn) []error {
	var errs []error
	remaining := 0
	for i := range blocks {
		s := *span(&blocks[i])
		switch {
		case s == 0 && remaining == 0:
			errs = append(errs, fmt.Errorf("block %s is absorbed in %s column without a visible predecessor", blocks[i].ID, column))
		case s == 0:
			remaining--
		case remaining > 0:
			errs = append(errs, fmt.Errorf("block %s interrupts a merged run in %s column", blocks[i].ID, column))
			remaining = s - 1
		default:
			remaining = s - 1
		}
	}
	if remaining > 0 {
		errs = append(errs, fmt.Errorf("a merged run in %s column extends past the last block", column))
	}
	return errs
}
