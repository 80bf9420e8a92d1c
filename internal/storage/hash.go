package storage

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/julianstephens/pdcaflow/internal/models"
)

// HashRecord fingerprints the user-visible content of a record. Revision and
// UpdatedAt are excluded, so two records that differ only in store bookkeeping
// hash the same.
func HashRecord(r models.DailyRecord) (uint64, error) {
	h, err := hashstructure.Hash(r, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to hash record %s: %w", r.Date, err)
	}
	return h, nil
}
