package system

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/julianstephens/pdcaflow/internal/cli"
	"github.com/julianstephens/pdcaflow/internal/storage"
	"github.com/julianstephens/pdcaflow/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing SQLite database before initialization."`
	Source string `help:"Database to copy data from: a SQLite path, PostgreSQL connection string, keyring or file:// directory."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized pdcaflow storage at: %s\n", ctx.Store.GetConfigPath())
	fmt.Printf("Config file: %s\n", ctx.Config.Path())

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		source, err := cli.OpenStore(c.Source)
		if err != nil {
			return err
		}
		if err := source.Load(); err != nil {
			return fmt.Errorf("failed to load source database: %w", err)
		}
		defer source.Close()

		counts, err := CopyData(source, ctx.Store)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("    Migrated %d records, %d weekly plans, %d tasks\n", counts.Records, counts.WeeklyPlans, counts.Tasks)
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

// removeExisting deletes the SQLite file behind the store. Other backends are never
// dropped from here.
func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("--force is only supported for SQLite databases")
	}
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, err1 := filepath.Abs(dbPath)
		absSource, err2 := filepath.Abs(c.Source)
		if err1 == nil && err2 == nil && absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	_, err := os.Stat(dbPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	fmt.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

type CopyCounts struct {
	Records     int
	WeeklyPlans int
	Tasks       int
}

// CopyData copies settings, weekly plans, tasks and daily records from src into dst.
// Records, plans and tasks that already exist in dst are overwritten.
func CopyData(src, dst storage.Provider) (CopyCounts, error) {
	var counts CopyCounts

	fmt.Println("  Migrating settings...")
	settings, err := src.GetSettings()
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return counts, fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err == nil {
		if err := dst.SaveSettings(settings); err != nil {
			return counts, fmt.Errorf("failed to save settings to destination: %w", err)
		}
	}

	fmt.Println("  Migrating weekly plans...")
	plans, err := src.GetAllWeeklyPlans()
	if err != nil {
		return counts, fmt.Errorf("failed to get weekly plans from source: %w", err)
	}
	for _, plan := range plans {
		if err := dst.SaveWeeklyPlan(plan); err != nil {
			return counts, fmt.Errorf("failed to save weekly plan %s: %w", plan.WeekID, err)
		}
		counts.WeeklyPlans++
	}

	fmt.Println("  Migrating tasks...")
	tasks, err := src.GetAllTasks()
	if err != nil {
		return counts, fmt.Errorf("failed to get tasks from source: %w", err)
	}
	for _, task := range tasks {
		err := dst.AddTask(task)
		if err != nil {
			if _, getErr := dst.GetTask(task.ID); getErr != nil {
				return counts, fmt.Errorf("failed to add task %s: %w", task.ID, err)
			}
			if err := dst.UpdateTask(task); err != nil {
				return counts, fmt.Errorf("failed to update task %s: %w", task.ID, err)
			}
		}
		counts.Tasks++
	}

	fmt.Println("  Migrating daily records...")
	records, err := src.GetAllRecords()
	if err != nil {
		return counts, fmt.Errorf("failed to get records from source: %w", err)
	}
	for _, record := range records {
		if err := dst.SaveRecord(record); err != nil {
			return counts, fmt.Errorf("failed to save record %s: %w", record.Date, err)
		}
		counts.Records++
	}
	return counts, nil
}

type MigrateCmd struct{}

type migrator interface {
	Migrate() (int, error)
	SchemaVersion() (int, int, error)
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		fmt.Println("This storage backend has no schema to migrate.")
		return nil
	}
	applied, err := m.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	current, _, err := m.SchemaVersion()
	if err != nil {
		return err
	}
	if applied == 0 {
		fmt.Printf("✓ Schema is up to date (version %d)\n", current)
		return nil
	}
	fmt.Printf("✓ Applied %d migration(s), schema version %d\n", applied, current)
	return nil
}
