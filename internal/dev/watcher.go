package dev

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	ChangeTemplate ChangeType = iota
	ChangeCSS
	ChangeData
	ChangeAsset
)

func (t ChangeType) String() string {
	switch t {
	case ChangeTemplate:
		return "template"
	case ChangeCSS:
		return "css"
	case ChangeData:
		return "data"
	default:
		return "asset"
	}
}

// Change represents a detected file change.
type Change struct {
	Path    string
	Type    ChangeType
	Removed bool
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the files and directories to watch. Directories are watched
	// recursively.
	Paths []string

	// Ignore patterns to skip (globs or path segments).
	Ignore []string

	// Debounce is how long the watcher waits for changes to settle before
	// reporting them.
	Debounce time.Duration

	// Logger receives watch errors. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher reports batches of file changes.
type Watcher struct {
	config   WatcherConfig
	fs       *fsnotify.Watcher
	logger   *slog.Logger
	mu       sync.Mutex
	onChange func([]Change)
	running  bool
	stopCh   chan struct{}
	closed   sync.Once
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		config: config,
		fs:     fsw,
		logger: logger.With("component", "watcher"),
	}, nil
}

// OnChange sets the callback for file changes. It is called from the
// watcher goroutine with every change seen during one debounce window.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start adds the configured paths and reports changes until ctx is done or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	for _, p := range w.config.Paths {
		if err := w.add(p); err != nil {
			w.logger.Warn("cannot watch path", "path", p, "error", err)
		}
	}

	timer := time.NewTimer(w.config.Debounce)
	timer.Stop()
	defer timer.Stop()

	pending := make(map[string]Change)
	var order []string

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()

		case <-stopCh:
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.shouldIgnore(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.add(event.Name); err != nil {
						w.logger.Warn("cannot watch directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			if _, seen := pending[event.Name]; !seen {
				order = append(order, event.Name)
			}
			pending[event.Name] = Change{
				Path:    event.Name,
				Type:    classifyChange(event.Name),
				Removed: event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename),
			}
			timer.Reset(w.config.Debounce)

		case <-timer.C:
			changes := make([]Change, 0, len(order))
			for _, p := range order {
				changes = append(changes, pending[p])
			}
			pending = make(map[string]Change)
			order = nil
			w.report(changes)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) report(changes []Change) {
	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()

	if callback != nil && len(changes) > 0 {
		callback(changes)
	}
}

// add watches p and, for directories, every subdirectory not ignored.
func (w *Watcher) add(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		// Editors replace files on save, so watch the parent directory.
		return w.fs.Add(filepath.Dir(p))
	}

	return filepath.WalkDir(p, func(sub string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if sub != p && w.shouldIgnore(sub) {
			return filepath.SkipDir
		}
		return w.fs.Add(sub)
	})
}

// Stop stops the watcher and releases the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
	w.closed.Do(func() { w.fs.Close() })
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// shouldIgnore checks if a path should be ignored.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	name := filepath.Base(fullPath)
	normalized := filepath.ToSlash(fullPath)

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}

		hasPathSep := strings.Contains(pattern, "/")
		if strings.ContainsAny(pattern, "*?[") {
			target := name
			if hasPathSep {
				target = normalized
			}
			if matched, _ := path.Match(pattern, target); matched {
				return true
			}
			continue
		}
		if !hasPathSep && pathHasSegment(normalized, pattern) {
			return true
		}
	}
	return false
}

func pathHasSegment(p, segment string) bool {
	for _, part := range strings.Split(p, "/") {
		if part == segment {
			return true
		}
	}
	return false
}

// classifyChange determines the type of change based on file extension.
func classifyChange(p string) ChangeType {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".html", ".htm":
		return ChangeTemplate
	case ".css":
		return ChangeCSS
	case ".yaml", ".yml", ".json":
		return ChangeData
	default:
		return ChangeAsset
	}
}
