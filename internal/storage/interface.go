package storage

import (
	"errors"

	"github.com/julianstephens/pdcaflow/internal/models"
)

// ErrNotFound is returned (wrapped) when a record, weekly plan, task or the settings
// row set does not exist.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Daily records. SaveRecord replaces the record and all of its blocks and bumps
	// the stored revision; the revision on the argument is ignored.
	GetRecord(date string) (models.DailyRecord, error)
	SaveRecord(models.DailyRecord) error
	DeleteRecord(date string) error
	// GetRecordsFrom returns every record dated on or after date, oldest first.
	GetRecordsFrom(date string) ([]models.DailyRecord, error)
	GetAllRecords() ([]models.DailyRecord, error)

	// Weekly plans
	GetWeeklyPlan(weekID string) (models.WeeklyPlan, error)
	SaveWeeklyPlan(models.WeeklyPlan) error
	GetAllWeeklyPlans() ([]models.WeeklyPlan, error)

	// Task pool
	AddTask(models.TaskItem) error
	GetTask(id string) (models.TaskItem, error)
	GetAllTasks() ([]models.TaskItem, error)
	UpdateTask(models.TaskItem) error
	DeleteTask(id string) error

	// Utils
	GetConfigPath() string
}
