package engine

import "github.com/julianstephens/pdcaflow/internal/models"

// Reconcile recomputes lock state and system labels from the record's pinned bio
// clock. Records without a pinned config are returned unchanged. Reconcile is
// idempotent.
func Reconcile(record models.DailyRecord) models.DailyRecord {
	if record.BioConfig == nil {
		return record
	}
	return ReconcileWith(record, *record.BioConfig)
}

// ReconcileWith applies cfg to every ordinary block without pinning it. Locked cells
// take the system label; a cell leaving a lock is cleared only when it still holds a
// system label of cfg or of the record's pinned config.
func ReconcileWith(record models.DailyRecord, cfg models.BioClockConfig) models.DailyRecord {
	out := record.Clone()

	for i := range out.TimeBlocks {
		b := &out.TimeBlocks[i]
		if b.IsWakeUp() {
			continue
		}

		state := Lock(b.Time, cfg)
		switch {
		case state.Locked:
			b.Plan.Content = state.Label
			b.Plan.IsBioLocked = true
		case b.Plan.IsBioLocked:
			if isSystemLabel(b.Plan.Content, cfg, record.BioConfig) {
				b.Plan.Content = ""
			}
			b.Plan.IsBioLocked = false
		}
	}

	return EnsureWakeUpBlock(out, cfg)
}

// Repin applies cfg to the record and pins it as the record's snapshot.
func Repin(record models.DailyRecord, cfg models.BioClockConfig) models.DailyRecord {
	out := ReconcileWith(record, cfg)
	pinned := cfg.Clone()
	out.BioConfig = &pinned
	return out
}

func isSystemLabel(content string, cfg models.BioClockConfig, pinned *models.BioClockConfig) bool {
	if cfg.IsSystemLabel(content) {
		return true
	}
	return pinned != nil && pinned.IsSystemLabel(content)
}
