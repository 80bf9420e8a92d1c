package engine

import (
	"fmt"
	"strings"

	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

// BlockID derives the identity of an ordinary block from its date and anchor time.
func BlockID(date, timeOfDay string) string {
	return date + "-" + timeOfDay
}

// WakeUpBlockID derives the identity of the wake-up block for date.
func WakeUpBlockID(date, wakeTime string) string {
	return BlockID(date, wakeTime) + constants.WakeUpIDSuffix
}

// FindBlock resolves a user-supplied reference to a block id. The reference may be a
// full id, "wake" for the wake-up block, or an HH:MM time, which prefers the ordinary
// block at that time over the wake-up block.
func FindBlock(record models.DailyRecord, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if record.BlockIndex(ref) >= 0 {
		return ref, nil
	}

	if strings.EqualFold(ref, "wake") || strings.EqualFold(ref, "wakeup") {
		if b, ok := record.WakeUpBlock(); ok {
			return b.ID, nil
		}
		return "", fmt.Errorf("%w: no wake-up block on %s", ErrBlockNotFound, record.Date)
	}

	m, err := utils.ParseTimeToMinutes(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBlockNotFound, ref)
	}
	var wake string
	for _, b := range record.TimeBlocks {
		if minutes(b.Time) != m {
			continue
		}
		if !b.IsWakeUp() {
			return b.ID, nil
		}
		wake = b.ID
	}
	if wake != "" {
		return wake, nil
	}
	return "", fmt.Errorf("%w: nothing at %s on %s", ErrBlockNotFound, utils.FormatMinutes(m), record.Date)
}
