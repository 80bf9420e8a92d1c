package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/pdcaflow/internal/backup"
	"github.com/julianstephens/pdcaflow/internal/config"
	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/keyring"
	"github.com/julianstephens/pdcaflow/internal/logger"
	"github.com/julianstephens/pdcaflow/internal/planner"
	"github.com/julianstephens/pdcaflow/internal/storage"
	"github.com/julianstephens/pdcaflow/internal/storage/filestore"
	"github.com/julianstephens/pdcaflow/internal/storage/postgres"
	"github.com/julianstephens/pdcaflow/internal/storage/sqlite"
)

const filePrefix = "file://"

type Context struct {
	Store   storage.Provider
	Planner *planner.Planner
	Config  config.Config
}

// NewContext wires a planner over store using the grid from cfg. Destructive planner
// operations take an automatic backup first.
func NewContext(cfg config.Config, store storage.Provider) (*Context, error) {
	anchors, err := cfg.Anchors()
	if err != nil {
		return nil, err
	}
	c := &Context{Store: store, Config: cfg}
	c.Planner = planner.New(store, anchors, planner.WithBeforeChange(c.backupBefore))
	return c, nil
}

func isPostgres(database string) bool {
	return strings.HasPrefix(database, "postgres://") || strings.HasPrefix(database, "postgresql://") ||
		strings.Contains(database, "host=")
}

// OpenStore picks a storage backend for database: a PostgreSQL URL or DSN, "keyring"
// for a connection string kept in the OS keyring, a file:// directory, or otherwise
// a SQLite file path. A connection string in PDCAFLOW_DB_CONNECTION wins over all of them.
func OpenStore(database string) (storage.Provider, error) {
	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		logger.Debug("using connection string from environment", "var", constants.EnvDBConnection)
		return trustedPostgres(env)
	}

	switch {
	case database == constants.KeyringDatabase:
		connStr, err := keyring.GetConnectionString()
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, errors.New("no connection string in keyring, store one with 'pdcaflow config set-connection'")
		}
		if err != nil {
			return nil, err
		}
		return trustedPostgres(connStr)
	case isPostgres(database):
		if _, err := postgres.ValidateConnString(database); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; use 'pdcaflow config set-connection', %s or .pgpass instead",
					err, constants.EnvDBConnection)
			}
			return nil, err
		}
		return postgres.New(database), nil
	case strings.HasPrefix(database, filePrefix):
		dir, err := config.Expand(strings.TrimPrefix(database, filePrefix))
		if err != nil {
			return nil, err
		}
		return filestore.NewStore(dir), nil
	default:
		path, err := config.Expand(database)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}
}

// trustedPostgres accepts embedded passwords, since the keyring and the environment
// are where they are supposed to live.
func trustedPostgres(connStr string) (storage.Provider, error) {
	if _, err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return nil, err
	}
	return postgres.New(connStr), nil
}

// BackupManager returns a backup manager for SQLite stores. Other backends keep their
// own backups.
func (c *Context) BackupManager() (*backup.Manager, bool) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil, false
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	mgr.SetKeep(c.Config.Backup.MaxBackups)
	return mgr, true
}

// PerformAutomaticBackup takes the first backup of the day and only warns on failure.
func (c *Context) PerformAutomaticBackup() {
	if !c.Config.Backup.Automatic {
		return
	}
	mgr, ok := c.BackupManager()
	if !ok {
		return
	}
	path, err := mgr.CreateDailyBackup()
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	if path != "" {
		logger.Info("created daily backup", "path", path)
	}
}

func (c *Context) backupBefore(reason string) {
	if !c.Config.Backup.Automatic {
		return
	}
	mgr, ok := c.BackupManager()
	if !ok {
		return
	}
	path, err := mgr.CreateBackup()
	if err != nil {
		logger.Warn("backup before change failed", "reason", reason, "error", err)
		return
	}
	logger.Info("created backup before change", "reason", reason, "path", path)
}

// Confirm asks a y/N question on out and reads the answer from in.
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
