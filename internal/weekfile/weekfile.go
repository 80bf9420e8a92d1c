// Package weekfile reads and writes a weekly plan as a small YAML document:
//
//	week: 2024-W02
//	theme: Launch
//	days:
//	  "2024-01-10": [Ship v1, Write docs]
package weekfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

type document struct {
	Week    string              `yaml:"week"`
	Theme   string              `yaml:"theme,omitempty"`
	Summary string              `yaml:"summary,omitempty"`
	Days    map[string][]string `yaml:"days,omitempty"`
}

// Decode parses a weekly plan. Every day must fall inside the named week and carry
// at most two primary tasks. The returned plan has no ID.
func Decode(r io.Reader) (models.WeeklyPlan, error) {
	var doc document
	dec := yamlv3.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return models.WeeklyPlan{}, errors.New("weekly plan file is empty")
		}
		return models.WeeklyPlan{}, fmt.Errorf("yaml decode: %w", err)
	}

	monday, err := utils.MondayOfWeekID(doc.Week)
	if err != nil {
		return models.WeeklyPlan{}, fmt.Errorf("week %q: %w", doc.Week, err)
	}
	dates, err := utils.WeekDates(doc.Week)
	if err != nil {
		return models.WeeklyPlan{}, err
	}
	inWeek := make(map[string]bool, len(dates))
	for _, d := range dates {
		inWeek[d] = true
	}

	plan := models.WeeklyPlan{
		WeekID:        doc.Week,
		Theme:         doc.Theme,
		StartDate:     monday,
		WeeklySummary: doc.Summary,
		DailyPresets:  map[string][2]string{},
	}
	for date, tasks := range doc.Days {
		if !inWeek[date] {
			return models.WeeklyPlan{}, fmt.Errorf("day %s is not in week %s", date, doc.Week)
		}
		if len(tasks) > 2 {
			return models.WeeklyPlan{}, fmt.Errorf("day %s has %d primary tasks, at most 2 allowed", date, len(tasks))
		}
		var pair [2]string
		copy(pair[:], tasks)
		plan.SetPreset(date, pair)
	}
	return plan, nil
}

// Encode renders plan in the format Decode accepts, days in date order.
func Encode(plan models.WeeklyPlan) ([]byte, error) {
	doc := document{
		Week:    plan.WeekID,
		Theme:   plan.Theme,
		Summary: plan.WeeklySummary,
	}
	if len(plan.DailyPresets) > 0 {
		doc.Days = make(map[string][]string, len(plan.DailyPresets))
		dates := make([]string, 0, len(plan.DailyPresets))
		for d := range plan.DailyPresets {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		for _, d := range dates {
			p := plan.DailyPresets[d]
			tasks := []string{p[0]}
			if p[1] != "" {
				tasks = append(tasks, p[1])
			}
			doc.Days[d] = tasks
		}
	}
	out, err := yamlv3.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return out, nil
}

func Read(path string) (models.WeeklyPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.WeeklyPlan{}, err
	}
	defer f.Close()
	plan, err := Decode(f)
	if err != nil {
		return models.WeeklyPlan{}, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// Write replaces path atomically. An existing file is kept as path.bak.
func Write(path string, plan models.WeeklyPlan) error {
	content, err := Encode(plan)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pdcaflow-week-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if _, err := Read(tmpName); err != nil {
		return fmt.Errorf("written file does not read back: %w", err)
	}

	if existing, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".bak", existing, 0o644); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}
