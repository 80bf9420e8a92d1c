package planner

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/engine"
	"github.com/julianstephens/pdcaflow/internal/logger"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

// ValidateBioClock checks times, meal durations and that meal names are unique
// and do not collide with the built-in labels.
func ValidateBioClock(cfg models.BioClockConfig) error {
	for i, t := range cfg.SleepWindow {
		if !utils.ValidateTimeFormat(t) {
			return fmt.Errorf("%w: sleep window[%d] %q is not HH:MM", ErrInvalidBioClock, i, t)
		}
	}
	names := make(map[string]bool, len(cfg.Meals))
	for _, m := range cfg.Meals {
		name := strings.TrimSpace(m.Name)
		switch {
		case name == "":
			return fmt.Errorf("%w: meal name cannot be empty", ErrInvalidBioClock)
		case name != m.Name:
			return fmt.Errorf("%w: meal name %q has surrounding spaces", ErrInvalidBioClock, m.Name)
		case name == constants.SleepLabel || name == constants.WakeUpLabel:
			return fmt.Errorf("%w: meal name %q is reserved", ErrInvalidBioClock, name)
		case names[name]:
			return fmt.Errorf("%w: duplicate meal %q", ErrInvalidBioClock, name)
		case !utils.ValidateTimeFormat(m.Time):
			return fmt.Errorf("%w: meal %q time %q is not HH:MM", ErrInvalidBioClock, name, m.Time)
		case m.DurationMin < 1 || m.DurationMin > constants.MinutesPerDay:
			return fmt.Errorf("%w: meal %q duration must be between 1 and %d minutes", ErrInvalidBioClock, name, constants.MinutesPerDay)
		}
		names[name] = true
	}
	return nil
}

// UpdateBioClock stores cfg as the live bio clock and re-pins today and every later
// record to it. Past records keep their snapshots. It returns how many records changed.
func (p *Planner) UpdateBioClock(ctx context.Context, cfg models.BioClockConfig) (int, error) {
	if err := ValidateBioClock(cfg); err != nil {
		return 0, err
	}
	settings, err := p.Settings()
	if err != nil {
		return 0, err
	}
	settings.BioClock = cfg.Clone()
	if err := p.store.SaveSettings(settings); err != nil {
		return 0, fmt.Errorf("failed to save settings: %w", err)
	}
	return p.RepinFuture(ctx, cfg)
}

// SetTimezone stores an IANA timezone name, or "Local".
func (p *Planner) SetTimezone(tz string) error {
	if !utils.ValidateTimezone(tz) {
		return fmt.Errorf("invalid timezone %q", tz)
	}
	settings, err := p.Settings()
	if err != nil {
		return err
	}
	settings.Timezone = tz
	if err := p.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// RepinFuture applies cfg to every record dated today or later and pins it. Records
// are re-pinned concurrently and saved one at a time; unchanged records are skipped.
func (p *Planner) RepinFuture(ctx context.Context, cfg models.BioClockConfig) (int, error) {
	today, err := p.Today()
	if err != nil {
		return 0, err
	}
	records, err := p.store.GetRecordsFrom(today)
	if err != nil {
		return 0, fmt.Errorf("failed to load records from %s: %w", today, err)
	}
	if len(records) == 0 {
		return 0, nil
	}
	p.beforeChange("re-pin bio clock")

	type result struct {
		changed bool
		record  models.DailyRecord
	}
	results := make([]result, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.repinWorkers)
	for i, r := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			repinned := engine.Repin(r, cfg)
			before, err := storage.HashRecord(r)
			if err != nil {
				return err
			}
			after, err := storage.HashRecord(repinned)
			if err != nil {
				return err
			}
			results[i] = result{changed: before != after, record: repinned}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	changed := 0
	for _, res := range results {
		if !res.changed {
			continue
		}
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		if err := p.store.SaveRecord(res.record); err != nil {
			return changed, fmt.Errorf("failed to save record %s: %w", res.record.Date, err)
		}
		changed++
	}
	logger.Info("re-pinned bio clock", "from", today, "records", len(records), "changed", changed)
	return changed, nil
}
