package engine

import (
	"sort"

	"github.com/julianstephens/pdcaflow/internal/models"
)

// SortBlocks orders blocks by minute of day, with the wake-up block first among
// blocks sharing a minute. The sort is stable.
func SortBlocks(blocks []models.TimeBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		mi, mj := minutes(blocks[i].Time), minutes(blocks[j].Time)
		if mi != mj {
			return mi < mj
		}
		return blocks[i].IsWakeUp() && !blocks[j].IsWakeUp()
	})
}

type spanColumn func(*models.TimeBlock) *int

func planSpan(b *models.TimeBlock) *int { return &b.Plan.Span }
func doSpan(b *models.TimeBlock) *int   { return &b.Do.Span }

// normalizeSpans repairs span runs after blocks are inserted or removed. A visible
// block truncates the claim of the run before it, and an absorbed block outside any
// claim is released as visible with span 1. Valid runs are left untouched.
func normalizeSpans(blocks []models.TimeBlock) {
	normalizeColumn(blocks, planSpan)
	normalizeColumn(blocks, doSpan)
}

func normalizeColumn(blocks []models.TimeBlock, span spanColumn) {
	owner, remaining := -1, 0
	truncate := func() {
		if owner >= 0 && remaining > 0 {
			*span(&blocks[owner]) -= remaining
		}
	}

	for i := range blocks {
		s := span(&blocks[i])
		if *s < 0 {
			*s = 1
		}
		if *s == 0 {
			if owner >= 0 && remaining > 0 {
				remaining--
				continue
			}
			*s = 1
		}
		truncate()
		owner, remaining = i, *s-1
	}
	truncate()
}
