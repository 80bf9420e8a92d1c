package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/pdcaflow/internal/storage"
	"github.com/julianstephens/pdcaflow/internal/storage/storagetest"
)

func setupTestFileStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestProvider(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return setupTestFileStore(t)
	})
}

func TestKeyTransformRoundTrip(t *testing.T) {
	for _, key := range []string{"records/2024-01-10", "weekly/2024-W02", "tasks/6f1c", settingsKey} {
		assert.Equal(t, key, pathToKey(keyToPath(key)))
	}
}

func TestRecordsAreReadableFiles(t *testing.T) {
	store := setupTestFileStore(t)
	require.NoError(t, store.SaveRecord(storagetest.SampleRecord("2024-01-10")))

	data, err := os.ReadFile(filepath.Join(store.GetConfigPath(), "records", "2024-01-10.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date": "2024-01-10"`)
	assert.Contains(t, string(data), `"revision": 1`)
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"))
	err := store.Load()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "pdcaflow init"), err.Error())
}

func TestLoadSeesExistingData(t *testing.T) {
	first := setupTestFileStore(t)
	require.NoError(t, first.SaveRecord(storagetest.SampleRecord("2024-01-10")))

	second := NewStore(first.GetConfigPath())
	require.NoError(t, second.Load())
	got, err := second.GetRecord("2024-01-10")
	require.NoError(t, err)
	assert.Len(t, got.TimeBlocks, 4)
}
