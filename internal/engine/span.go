package engine

import (
	"fmt"
	"strings"

	"github.com/julianstephens/pdcaflow/internal/models"
)

// Column selects which span a span operation acts on. Check follows Do.
type Column string

// SpanAction is either a merge or an un-merge.
type SpanAction string

const (
	ColumnPlan Column = "plan"
	ColumnDo   Column = "do"

	SpanMerge SpanAction = "merge"
	SpanSplit SpanAction = "split"
)

// ParseColumn accepts plan, do or check. Check maps to the Do column.
func ParseColumn(s string) (Column, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plan":
		return ColumnPlan, nil
	case "do", "check":
		return ColumnDo, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidColumn, s)
}

func (c Column) span() (spanColumn, error) {
	switch c {
	case ColumnPlan:
		return planSpan, nil
	case ColumnDo:
		return doSpan, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidColumn, string(c))
}

// SetSpan grows or shrinks the run starting at blockID in one column. Merging absorbs
// the next visible block, together with any run it already owns. Un-merging releases
// the last absorbed block. Content is never touched. On error the record is returned
// unchanged.
func SetSpan(record models.DailyRecord, blockID string, column Column, action SpanAction) (models.DailyRecord, error) {
	span, err := column.span()
	if err != nil {
		return record, err
	}
	idx := record.BlockIndex(blockID)
	if idx < 0 {
		return record, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}

	out := record.Clone()
	current := *span(&out.TimeBlocks[idx])
	if current == 0 {
		return record, fmt.Errorf("%w: %s in %s column", ErrBlockAbsorbed, blockID, column)
	}

	switch action {
	case SpanMerge:
		next := idx + current
		if next >= len(out.TimeBlocks) {
			return record, fmt.Errorf("%w: %s is the last block in %s column", ErrNoMoreBlocks, blockID, column)
		}
		absorbed := *span(&out.TimeBlocks[next])
		if absorbed < 1 {
			absorbed = 1
		}
		*span(&out.TimeBlocks[idx]) = current + absorbed
		*span(&out.TimeBlocks[next]) = 0
	case SpanSplit:
		if current <= 1 {
			return record, fmt.Errorf("%w: %s in %s column", ErrNothingToSplit, blockID, column)
		}
		newSpan := current - 1
		*span(&out.TimeBlocks[idx]) = newSpan
		*span(&out.TimeBlocks[idx+newSpan]) = 1
	default:
		return record, fmt.Errorf("%w: %q", ErrInvalidAction, string(action))
	}

	return out, nil
}
