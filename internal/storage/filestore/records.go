package filestore

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/pdcaflow/internal/logger"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
)

func (s *Store) GetSettings() (models.Settings, error) {
	var settings models.Settings
	if err := s.readJSON(settingsKey, &settings); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	return s.writeJSON(settingsKey, settings)
}

func (s *Store) GetRecord(date string) (models.DailyRecord, error) {
	var record models.DailyRecord
	if err := s.readJSON(recordPrefix+date, &record); err != nil {
		return models.DailyRecord{}, err
	}
	for i := range record.TimeBlocks {
		if record.TimeBlocks[i].Check.Tags == nil {
			record.TimeBlocks[i].Check.Tags = []string{}
		}
	}
	return record, nil
}

func (s *Store) SaveRecord(record models.DailyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	revision := 0
	existing, err := s.GetRecord(record.Date)
	switch {
	case err == nil:
		revision = existing.Revision
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("failed to check existing record: %w", err)
	}

	record = record.Clone()
	record.Revision = revision + 1
	record.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if record.TimeBlocks == nil {
		record.TimeBlocks = []models.TimeBlock{}
	}
	if err := s.writeJSON(recordPrefix+record.Date, record); err != nil {
		return err
	}
	logger.Debug("saved record", "date", record.Date, "revision", record.Revision, "blocks", len(record.TimeBlocks))
	return nil
}

func (s *Store) DeleteRecord(date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.erase(recordPrefix + date)
}

func (s *Store) GetRecordsFrom(date string) ([]models.DailyRecord, error) {
	var records []models.DailyRecord
	for _, d := range s.names(recordPrefix) {
		if d < date {
			continue
		}
		r, err := s.GetRecord(d)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *Store) GetAllRecords() ([]models.DailyRecord, error) {
	return s.GetRecordsFrom("")
}

func (s *Store) GetWeeklyPlan(weekID string) (models.WeeklyPlan, error) {
	var plan models.WeeklyPlan
	if err := s.readJSON(weeklyPrefix+weekID, &plan); err != nil {
		return models.WeeklyPlan{}, err
	}
	if plan.DailyPresets == nil {
		plan.DailyPresets = map[string][2]string{}
	}
	return plan, nil
}

func (s *Store) SaveWeeklyPlan(plan models.WeeklyPlan) error {
	return s.writeJSON(weeklyPrefix+plan.WeekID, plan)
}

// GetAllWeeklyPlans orders by week id, which sorts the same as start date for ISO weeks.
func (s *Store) GetAllWeeklyPlans() ([]models.WeeklyPlan, error) {
	var plans []models.WeeklyPlan
	for _, id := range s.names(weeklyPrefix) {
		p, err := s.GetWeeklyPlan(id)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}
