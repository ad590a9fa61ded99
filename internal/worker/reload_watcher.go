// Package worker provides background workers for the matching API.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"
)

// CatalogReloader defines the interface for catalog reloads.
type CatalogReloader interface {
	Reload(ctx context.Context) (int, error)
}

// ReloadWatcher is a background worker that polls the catalog source file
// and rebuilds the snapshot when the file changes. Requests keep serving
// the previous snapshot while a reload is in flight.
type ReloadWatcher struct {
	service      CatalogReloader
	path         string
	pollInterval time.Duration

	lastModTime time.Time
	lastSize    int64
}

// NewReloadWatcher creates a new reload watcher.
func NewReloadWatcher(service CatalogReloader, path string, pollInterval time.Duration) *ReloadWatcher {
	if pollInterval <= 0 {
		pollInterval = 1 * time.Minute
	}

	return &ReloadWatcher{
		service:      service,
		path:         path,
		pollInterval: pollInterval,
	}
}

// Start begins the watch loop. It runs until the context is cancelled.
// The current file state is recorded up front, so a fresh startup does not
// build the catalog twice.
func (w *ReloadWatcher) Start(ctx context.Context) {
	slog.Info("catalog reload watcher started",
		"path", w.path,
		"poll_interval", w.pollInterval,
	)

	if info, err := os.Stat(w.path); err == nil {
		w.lastModTime = info.ModTime()
		w.lastSize = info.Size()
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("catalog reload watcher stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce reloads the catalog when the source file changed since the last
// poll. A failed reload leaves the recorded state alone so the next tick
// retries.
func (w *ReloadWatcher) runOnce(ctx context.Context) {
	info, err := os.Stat(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("catalog source missing, keeping current snapshot", "path", w.path)
			return
		}

		slog.Error("failed to stat catalog source", "path", w.path, "error", err)

		return
	}

	if info.ModTime().Equal(w.lastModTime) && info.Size() == w.lastSize {
		return
	}

	slog.Info("catalog source changed, reloading",
		"path", w.path,
		"mod_time", info.ModTime(),
		"size_bytes", info.Size(),
	)

	size, err := w.service.Reload(ctx)
	if err != nil {
		slog.Error("failed to reload catalog", "error", err)
		return
	}

	w.lastModTime = info.ModTime()
	w.lastSize = info.Size()

	slog.Info("catalog reloaded", "investors", size)
}
