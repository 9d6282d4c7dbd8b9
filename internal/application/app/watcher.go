package app

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-breathfree/internal/data/store"
	"github.com/penwyp/go-breathfree/internal/util"
)

// FileEvent is a change to a data file.
type FileEvent struct {
	Path      string
	Operation string
}

// Watcher reports writes to the data files in a directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan FileEvent
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches dir, which is created if missing.
func NewWatcher(dir string) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		events:  make(chan FileEvent, 16),
		done:    make(chan struct{}),
	}
	go w.processEvents()
	return w, nil
}

// isDataFile matches value files and the SQLite database with its
// journal files. Temp files written before a rename are skipped.
func isDataFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return filepath.Ext(base) == ".json" || strings.HasPrefix(base, store.SQLiteFileName)
}

func (w *Watcher) processEvents() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !isDataFile(event.Name) {
				continue
			}
			// Drop the event if the reader is behind; one pending
			// notification is enough to trigger a reload.
			select {
			case w.events <- FileEvent{Path: event.Name, Operation: event.Op.String()}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// Events delivers changes.
func (w *Watcher) Events() <-chan FileEvent { return w.events }

// Close stops watching and waits for the event goroutine.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.watcher.Close()
		<-w.done
	})
	return err
}
