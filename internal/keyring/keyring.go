// Package keyring keeps the PostgreSQL connection string in the OS credential store
// so that it never has to be written to config.toml.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/pdcaflow/internal/constants"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Credentials addresses one secret in the OS keyring.
type Credentials struct {
	Service string
	User    string
}

// Default is where the database connection string lives.
var Default = Credentials{Service: constants.AppName, User: constants.DefaultKeyringUser}

func (c Credentials) Get() (string, error) {
	secret, err := keyring.Get(c.Service, c.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func (c Credentials) Set(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(c.Service, c.User, secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func (c Credentials) Delete() error {
	err := keyring.Delete(c.Service, c.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Available reports whether the keyring answers at all; an empty keyring counts.
func (c Credentials) Available() bool {
	_, err := keyring.Get(c.Service, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

func GetConnectionString() (string, error) { return Default.Get() }

func SetConnectionString(connStr string) error { return Default.Set(connStr) }

func DeleteConnectionString() error { return Default.Delete() }
