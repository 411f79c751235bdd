package dev

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/vango-dev/enhance/internal/errors"
)

// LiveOptions configures a Live session.
type LiveOptions struct {
	// Paths are watched for changes.
	Paths []string

	// Reload rebuilds whatever depends on the changed files, typically the
	// element registry and the store. Its error is shown in the browser.
	Reload func(changes []Change) error

	// Debounce is passed to the watcher.
	Debounce time.Duration

	// Logger receives reload logs. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Live watches project files, reloads on change and tells connected
// browsers to refresh.
type Live struct {
	options LiveOptions
	watcher *Watcher
	reload  *ReloadServer
	logger  *slog.Logger
}

// NewLive creates a Live session. Call Start to begin watching.
func NewLive(options LiveOptions) (*Live, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "dev")

	watcher, err := NewWatcher(WatcherConfig{
		Paths:    options.Paths,
		Debounce: options.Debounce,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	l := &Live{
		options: options,
		watcher: watcher,
		reload:  NewReloadServer(logger),
		logger:  logger,
	}
	watcher.OnChange(l.handleChanges)
	return l, nil
}

// Start watches until ctx is done.
func (l *Live) Start(ctx context.Context) error {
	l.logger.Info("watching for changes", "paths", l.options.Paths)
	return l.watcher.Start(ctx)
}

// Stop stops watching and disconnects browsers.
func (l *Live) Stop() {
	l.watcher.Stop()
	l.reload.Close()
}

// HandleWebSocket serves ReloadPath.
func (l *Live) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	l.reload.HandleWebSocket(w, r)
}

// Reloader returns the underlying reload server.
func (l *Live) Reloader() *ReloadServer {
	return l.reload
}

func (l *Live) handleChanges(changes []Change) {
	cssOnly := true
	for _, c := range changes {
		l.logger.Info("changed", "path", c.Path, "type", c.Type.String(), "removed", c.Removed)
		if c.Type != ChangeCSS {
			cssOnly = false
		}
	}

	if cssOnly {
		for _, c := range changes {
			l.reload.NotifyCSS(c.Path)
		}
		return
	}

	if l.options.Reload != nil {
		if err := l.options.Reload(changes); err != nil {
			l.logger.Error("reload failed", "error", err)
			l.reload.NotifyError(errorText(err))
			return
		}
	}
	l.reload.NotifyReload()
}

func errorText(err error) string {
	var ee *errors.EnhanceError
	if errors.As(err, &ee) {
		text := ee.FormatCompact()
		if ee.Wrapped != nil {
			text += "\n\n" + ee.Wrapped.Error()
		}
		return text
	}
	return err.Error()
}
