// Package planner is the application service over the day engine: it loads or creates
// daily records, reconciles them on read, applies edits and persists only real changes.
package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/engine"
	"github.com/julianstephens/pdcaflow/internal/logger"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

var (
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidBioClock = errors.New("invalid bio clock")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidRating   = errors.New("invalid efficiency, expected high, normal, low or empty")
	ErrEmptyTitle      = errors.New("task title cannot be empty")
)

type Planner struct {
	store   storage.Provider
	anchors []string
	now     func() time.Time

	// called before destructive operations such as reset and re-pinning
	beforeChange func(reason string)

	repinWorkers int
}

type Option func(*Planner)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithBeforeChange registers a hook run before reset and re-pinning, typically an
// automatic backup.
func WithBeforeChange(fn func(reason string)) Option {
	return func(p *Planner) { p.beforeChange = fn }
}

func WithRepinWorkers(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.repinWorkers = n
		}
	}
}

// New returns a planner that lays out new days on anchors.
func New(store storage.Provider, anchors []string, opts ...Option) *Planner {
	p := &Planner{
		store:        store,
		anchors:      anchors,
		now:          time.Now,
		beforeChange: func(string) {},
		repinWorkers: 4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) Store() storage.Provider {
	return p.store
}

func (p *Planner) Settings() (models.Settings, error) {
	settings, err := p.store.GetSettings()
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// Today returns the current date in the configured timezone.
func (p *Planner) Today() (string, error) {
	settings, err := p.Settings()
	if err != nil {
		return "", err
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	return p.now().In(loc).Format(constants.DateFormat), nil
}

// ResolveDate maps "", "today", "yesterday" and "tomorrow" to dates and checks
// anything else is YYYY-MM-DD.
func (p *Planner) ResolveDate(s string) (string, error) {
	offset := 0
	switch s {
	case "", "today":
	case "yesterday":
		offset = -1
	case "tomorrow":
		offset = 1
	default:
		if !utils.ValidateDateFormat(s) {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return s, nil
	}
	today, err := p.Today()
	if err != nil {
		return "", err
	}
	return utils.AddDays(today, offset)
}

// GetDailyRecord returns the record for date. A missing record is created from the
// live bio clock and the week's presets; an existing one is reconciled against its
// pinned config. Either way the result is saved only if it differs from what is stored.
func (p *Planner) GetDailyRecord(date string) (models.DailyRecord, error) {
	if !utils.ValidateDateFormat(date) {
		return models.DailyRecord{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	stored, err := p.store.GetRecord(date)
	if errors.Is(err, storage.ErrNotFound) {
		return p.create(date)
	}
	if err != nil {
		return models.DailyRecord{}, fmt.Errorf("failed to load record %s: %w", date, err)
	}

	return p.saveIfChanged(stored, engine.Reconcile(stored))
}

func (p *Planner) create(date string) (models.DailyRecord, error) {
	settings, err := p.Settings()
	if err != nil {
		return models.DailyRecord{}, err
	}
	weekly, err := p.storedWeeklyPlan(date)
	if err != nil {
		return models.DailyRecord{}, err
	}

	record := engine.NewDailyRecord(date, p.anchors, settings.BioClock, weekly)
	logger.Debug("creating daily record", "date", date, "blocks", len(record.TimeBlocks))
	return p.save(record)
}

// storedWeeklyPlan returns the plan of the week containing date, or nil if there is none.
func (p *Planner) storedWeeklyPlan(date string) (*models.WeeklyPlan, error) {
	weekID, err := utils.WeekIDForDate(date)
	if err != nil {
		return nil, err
	}
	plan, err := p.store.GetWeeklyPlan(weekID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly plan %s: %w", weekID, err)
	}
	return &plan, nil
}

// saveIfChanged persists updated unless it hashes the same as before.
func (p *Planner) saveIfChanged(before, updated models.DailyRecord) (models.DailyRecord, error) {
	old, err := storage.HashRecord(before)
	if err != nil {
		return models.DailyRecord{}, err
	}
	cur, err := storage.HashRecord(updated)
	if err != nil {
		return models.DailyRecord{}, err
	}
	if old == cur {
		return before, nil
	}
	return p.save(updated)
}

// save writes record and reads it back so the caller sees the stored revision.
func (p *Planner) save(record models.DailyRecord) (models.DailyRecord, error) {
	if err := p.store.SaveRecord(record); err != nil {
		return models.DailyRecord{}, fmt.Errorf("failed to save record %s: %w", record.Date, err)
	}
	saved, err := p.store.GetRecord(record.Date)
	if err != nil {
		return models.DailyRecord{}, fmt.Errorf("failed to reload record %s: %w", record.Date, err)
	}
	return saved, nil
}

// update loads date, applies fn and saves the result if anything changed.
func (p *Planner) update(date string, fn func(models.DailyRecord) (models.DailyRecord, error)) (models.DailyRecord, error) {
	record, err := p.GetDailyRecord(date)
	if err != nil {
		return models.DailyRecord{}, err
	}
	updated, err := fn(record)
	if err != nil {
		return record, err
	}
	return p.saveIfChanged(record, updated)
}

// Reset discards the stored record for date and builds it again from the current
// bio clock and weekly plan.
func (p *Planner) Reset(date string) (models.DailyRecord, error) {
	if !utils.ValidateDateFormat(date) {
		return models.DailyRecord{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	p.beforeChange("reset " + date)

	if err := p.store.DeleteRecord(date); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return models.DailyRecord{}, fmt.Errorf("failed to delete record %s: %w", date, err)
	}
	logger.Info("reset daily record", "date", date)
	return p.create(date)
}
