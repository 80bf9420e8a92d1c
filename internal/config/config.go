// Package config loads ~/.config/pdcaflow/config.toml, writing defaults on first run.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/engine"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

type Grid struct {
	Start       string   `toml:"start"`
	End         string   `toml:"end"`
	IntervalMin int      `toml:"interval_min"`
	Anchors     []string `toml:"anchors,omitempty"` // overrides start/end/interval when set
}

type Backup struct {
	MaxBackups int  `toml:"max_backups"`
	Automatic  bool `toml:"automatic"`
}

type Config struct {
	// Database is a SQLite path, a postgres:// URL, a file:// directory, or
	// "keyring" to read a connection string from the OS keyring.
	Database string `toml:"database"`
	Debug    bool   `toml:"debug"`
	Grid     Grid   `toml:"grid"`
	Backup   Backup `toml:"backup"`

	path string
}

func Default() Config {
	return Config{
		Database: filepath.Join(constants.DefaultConfigDir, constants.DefaultDBName),
		Grid: Grid{
			Start:       constants.DefaultGridStart,
			End:         constants.DefaultGridEnd,
			IntervalMin: constants.DefaultGridIntervalMin,
		},
		Backup: Backup{
			MaxBackups: constants.MaxBackups,
			Automatic:  true,
		},
	}
}

// Expand resolves a leading ~ in path.
func Expand(path string) (string, error) {
	out, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return out, nil
}

// LoadOrCreate reads the config at path, creating it with defaults if it is missing.
// Unset fields fall back to their defaults.
func LoadOrCreate(path string) (Config, error) {
	expanded, err := Expand(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.path = expanded
	data, err := os.ReadFile(expanded)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, cfg.Save()
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", expanded, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", expanded, err)
	}
	return cfg, nil
}

func (c Config) Path() string {
	return c.path
}

// Dir is the directory holding the config file, logs and the default database.
func (c Config) Dir() string {
	return filepath.Dir(c.path)
}

func (c Config) Save() error {
	if c.path == "" {
		return errors.New("config has no file path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the grid and backup sections.
func (c Config) Validate() error {
	if _, err := c.Anchors(); err != nil {
		return err
	}
	if c.Backup.MaxBackups < 1 {
		return fmt.Errorf("backup.max_backups must be at least 1, got %d", c.Backup.MaxBackups)
	}
	return nil
}

// Anchors returns the block times every new day starts with.
func (c Config) Anchors() ([]string, error) {
	if len(c.Grid.Anchors) == 0 {
		return engine.Anchors(c.Grid.Start, c.Grid.End, c.Grid.IntervalMin)
	}
	out := make([]string, 0, len(c.Grid.Anchors))
	seen := make(map[string]bool, len(c.Grid.Anchors))
	for _, a := range c.Grid.Anchors {
		t, err := utils.NormalizeTime(a)
		if err != nil {
			return nil, fmt.Errorf("grid.anchors: %w", err)
		}
		if seen[t] {
			return nil, fmt.Errorf("grid.anchors: duplicate anchor %s", t)
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

// DatabasePath returns Database with ~ expanded; URLs are returned unchanged.
func (c Config) DatabasePath() (string, error) {
	return Expand(c.Database)
}
