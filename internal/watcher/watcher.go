// Package watcher watches corpus files for changes with debouncing, backing
// the re-check-on-save mode of the CLI.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileFilter determines if a changed path is interesting.
type FileFilter func(path string) bool

// ChangeHandler handles a debounced batch of changed paths.
type ChangeHandler func(paths []string)

// POFileFilter accepts gettext corpus files.
func POFileFilter(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	return ext == ".po" || ext == ".pot"
}

// FileWatcher watches files for changes and delivers debounced batches to a
// handler. Rapid consecutive writes (editors typically write a file several
// times on save) collapse into one notification.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	delay    time.Duration
	filter   FileFilter
	handler  ChangeHandler
	mu       sync.Mutex
	pending  map[string]bool
	timer    *time.Timer
	stopOnce sync.Once
}

// New creates a file watcher with the given debounce delay.
func New(debounceDelay time.Duration, filter FileFilter, handler ChangeHandler) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher: w,
		delay:   debounceDelay,
		filter:  filter,
		handler: handler,
		pending: map[string]bool{},
	}, nil
}

// Add watches a file. The containing directory is registered because many
// editors replace files on save, which delivers rename/create events on the
// directory rather than write events on the original inode.
func (fw *FileWatcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	return fw.watcher.Add(filepath.Dir(abs))
}

// Start processes events until the context is canceled.
func (fw *FileWatcher) Start(ctx context.Context) error {
	defer fw.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if fw.filter != nil && !fw.filter(event.Name) {
				continue
			}
			fw.enqueue(event.Name)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

// Stop closes the underlying watcher.
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() {
		fw.mu.Lock()
		if fw.timer != nil {
			fw.timer.Stop()
		}
		fw.mu.Unlock()
		fw.watcher.Close()
	})
}

func (fw *FileWatcher) enqueue(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.pending[path] = true

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.delay, fw.flush)
}

func (fw *FileWatcher) flush() {
	fw.mu.Lock()
	paths := make([]string, 0, len(fw.pending))
	for p := range fw.pending {
		paths = append(paths, p)
	}
	fw.pending = map[string]bool{}
	fw.mu.Unlock()

	if len(paths) > 0 && fw.handler != nil {
		fw.handler(paths)
	}
}
