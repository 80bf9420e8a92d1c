package engine

import "errors"

var (
	ErrInvalidSplitTime   = errors.New("split time must be later than the block's anchor time")
	ErrDuplicateTimePoint = errors.New("a block already exists at that time")
	ErrNoMoreBlocks       = errors.New("no more blocks to merge")
	ErrNothingToSplit     = errors.New("block is not merged")

	ErrBlockNotFound = errors.New("block not found")
	ErrBlockAbsorbed = errors.New("block is absorbed into a preceding span")
	ErrInvalidTime   = errors.New("invalid time, expected HH:MM")
	ErrInvalidColumn = errors.New("invalid column, expected plan or do")
	ErrInvalidAction = errors.New("invalid span action, expected merge or split")
	ErrPlanLocked    = errors.New("plan cell is bio-locked")
)
