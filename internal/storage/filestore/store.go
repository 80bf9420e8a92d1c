// Package filestore keeps every record, weekly plan, task and the settings as one
// JSON document per key in a diskv tree, for setups that want plain files on disk.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
)

const (
	settingsKey    = "settings/current"
	recordPrefix   = "records/"
	weeklyPrefix   = "weekly/"
	taskPrefix     = "tasks/"
	fileSuffix     = ".json"
	cacheSizeBytes = 1024 * 1024
)

type Store struct {
	path string
	d    *diskv.Diskv

	// guards read-modify-write sequences such as revision bumps
	mu sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// keyToPath maps "records/2024-01-10" to <base>/records/2024-01-10.json.
func keyToPath(key string) *diskv.PathKey {
	dir, name, _ := strings.Cut(key, "/")
	return &diskv.PathKey{
		Path:     []string{dir},
		FileName: name + fileSuffix,
	}
}

func pathToKey(pk *diskv.PathKey) string {
	return strings.Join(pk.Path, "/") + "/" + strings.TrimSuffix(pk.FileName, fileSuffix)
}

func (s *Store) open() error {
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	s.d = diskv.New(diskv.Options{
		BasePath:          s.path,
		TempDir:           tmp,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      cacheSizeBytes,
	})
	return nil
}

func (s *Store) Init() error {
	if err := os.MkdirAll(s.path, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := s.open(); err != nil {
		return err
	}

	if _, err := s.GetSettings(); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	return nil
}

func (s *Store) Load() error {
	if s.d != nil {
		return nil
	}
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("data directory not found at %s, run 'pdcaflow init' first", s.path)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.path)
	}
	return s.open()
}

func (s *Store) Close() error {
	s.d = nil
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// readJSON decodes key into v, mapping a missing file to storage.ErrNotFound.
func (s *Store) readJSON(key string, v any) error {
	data, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return nil
}

func (s *Store) writeJSON(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) erase(key string) error {
	if !s.d.Has(key) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return s.d.Erase(key)
}

// names returns the sorted key suffixes stored under prefix.
func (s *Store) names(prefix string) []string {
	cancel := make(chan struct{})
	defer close(cancel)

	var out []string
	for key := range s.d.KeysPrefix(prefix, cancel) {
		out = append(out, strings.TrimPrefix(key, prefix))
	}
	sort.Strings(out)
	return out
}

var _ storage.Provider = (*Store)(nil)

