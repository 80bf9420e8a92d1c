package tui

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/pdcaflow/internal/storage"
	"github.com/julianstephens/pdcaflow/internal/storage/filestore"
	"github.com/julianstephens/pdcaflow/internal/storage/sqlite"
)

type storeChangedMsg struct{}

type watchErrMsg struct{ err error }

// Watch returns a watcher on the files behind store so that edits made by another
// pdcaflow process show up. It returns nil for stores that are not local files.
func Watch(store storage.Provider) (*fsnotify.Watcher, error) {
	var dir string
	switch store.(type) {
	case *sqlite.Store:
		dir = filepath.Dir(store.GetConfigPath())
	case *filestore.Store:
		dir = filepath.Join(store.GetConfigPath(), "records")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	default:
		return nil, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return w, nil
}

// relevant ignores events that cannot change stored data, such as reads and chmods.
func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

func waitForChange(w *fsnotify.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if relevant(ev) {
					return storeChangedMsg{}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}
