package backups

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/julianstephens/pdcaflow/internal/backup"
	"github.com/julianstephens/pdcaflow/internal/cli"
)

var errUnsupported = errors.New("backups are only managed for SQLite databases; use your database's own tooling")

func manager(ctx *cli.Context) (*backup.Manager, error) {
	mgr, ok := ctx.BackupManager()
	if !ok {
		return nil, errUnsupported
	}
	return mgr, nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), ctx.Config.Backup.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		fmt.Printf("  %s  %s  (%.1f KB)\n", timestamp, filepath.Base(b.Path), sizeKB)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

// resolve looks for the backup as given, then by name in the backup directory.
func resolve(mgr *backup.Manager, name string) (string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		candidates = append(candidates, filepath.Join(mgr.Dir(), name))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return filepath.Abs(p)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to access %s: %w", p, err)
		}
	}
	return "", fmt.Errorf("backup file not found: %s", name)
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := resolve(mgr, c.BackupFile)
	if err != nil {
		return err
	}

	fmt.Printf("Restoring from: %s\n", filepath.Base(backupPath))
	fmt.Println("This will replace your current database; a safety backup is taken first.")
	if !c.Yes && !cli.Confirm(os.Stdin, os.Stdout, "Continue?") {
		fmt.Println("Restore cancelled.")
		return nil
	}

	// The store holds the database open; release it before the file is swapped.
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	if safety != "" {
		fmt.Printf("✓ Safety backup of the previous database: %s\n", filepath.Base(safety))
	}
	fmt.Println("✓ Database restored successfully")
	return nil
}
