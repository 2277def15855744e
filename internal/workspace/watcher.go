package workspace

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ManifestNames trigger a refresh when written
var ManifestNames = map[string]bool{
	"package.json":     true,
	"requirements.txt": true,
	"pom.xml":          true,
	"Cargo.toml":       true,
	"go.mod":           true,
}

// Watcher calls OnChange whenever a manifest is written or a directory is
// created or removed under Root. Events are not debounced.
type Watcher struct {
	Root     string
	Logger   *slog.Logger
	OnChange func(path string)

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	dirs    map[string]bool
	started bool
	done    chan struct{}
}

// NewWatcher creates a watcher; call Start to begin receiving events
func NewWatcher(root string, logger *slog.Logger, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		Root:     root,
		Logger:   logger,
		OnChange: onChange,
		watcher:  fw,
		dirs:     map[string]bool{},
		done:     make(chan struct{}),
	}, nil
}

// Start registers the directory tree and processes events until ctx is
// cancelled or Close is called
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.Root); err != nil {
		return err
	}
	w.started = true
	go w.loop(ctx)
	return nil
}

// Close stops the watcher and waits for the event loop to exit
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if w.started {
		<-w.done
	}
	return err
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || ignoredDirs[name]) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.debug("Cannot watch directory", "path", path, "error", err)
			return nil
		}
		w.mu.Lock()
		w.dirs[path] = true
		w.mu.Unlock()
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.debug("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	base := filepath.Base(event.Name)

	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			w.fire(event.Name)
			return
		}
		if ManifestNames[base] {
			w.fire(event.Name)
		}
	case event.Has(fsnotify.Write):
		if ManifestNames[base] {
			w.fire(event.Name)
		}
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.mu.Lock()
		wasDir := w.dirs[event.Name]
		delete(w.dirs, event.Name)
		w.mu.Unlock()
		if wasDir {
			w.fire(event.Name)
		}
	}
}

func (w *Watcher) fire(path string) {
	w.debug("Workspace change detected", "path", path)
	if w.OnChange != nil {
		w.OnChange(path)
	}
}

func (w *Watcher) debug(msg string, args ...any) {
	if w.Logger != nil {
		w.Logger.Debug(msg, args...)
	}
}
