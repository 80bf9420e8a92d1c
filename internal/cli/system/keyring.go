package system

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/julianstephens/pdcaflow/internal/cli"
	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/keyring"
	"github.com/julianstephens/pdcaflow/internal/storage/postgres"
)

// SetConnectionCmd stores a PostgreSQL connection string in the OS keyring and points
// the config at it.
type SetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the keyring."`
}

func (cmd *SetConnectionCmd) Run(ctx *cli.Context) error {
	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	fmt.Println("✓ Connection string stored in OS keyring")

	if ctx.Config.Database != constants.KeyringDatabase {
		cfg := ctx.Config
		cfg.Database = constants.KeyringDatabase
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ %s now reads the database from the keyring\n", cfg.Path())
	}
	return nil
}

type ShowConnectionCmd struct{}

func (cmd *ShowConnectionCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string found in keyring, use 'pdcaflow config set-connection' to store one")
	}
	if err != nil {
		return err
	}
	fmt.Println(MaskPassword(connStr))
	return nil
}

type DeleteConnectionCmd struct{}

func (cmd *DeleteConnectionCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	fmt.Println("✓ Connection string deleted from OS keyring")
	if ctx.Config.Database == constants.KeyringDatabase {
		fmt.Printf("  %s still points at the keyring; set 'database' before the next run\n", ctx.Config.Path())
	}
	return nil
}

type ConnectionStatusCmd struct{}

func (cmd *ConnectionStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.Default.Available() {
		fmt.Println("❌ OS keyring is not available")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring is available")
	if _, err := keyring.GetConnectionString(); err == nil {
		fmt.Println("✓ A connection string is stored")
	} else {
		fmt.Println("⊘ No connection string stored")
	}
	return nil
}

var dsnPassword = regexp.MustCompile(`(?i)(password=)(\S+)`)

// MaskPassword hides the password in a URL or key=value connection string.
func MaskPassword(connStr string) string {
	if u, err := url.Parse(connStr); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
			return u.String()
		}
		return connStr
	}
	return dsnPassword.ReplaceAllString(connStr, "${1}xxxxx")
}
