package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/TFMV/echoflow/models"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a topology file whenever it changes on disk
type Watcher struct {
	path    string
	format  string
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	updates chan *models.Topology
}

// NewWatcher creates a watcher for the topology file at path. The parent
// directory is watched so that editors replacing the file are noticed.
func NewWatcher(path, format string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	return &Watcher{
		path:    abs,
		format:  format,
		logger:  logger,
		watcher: fw,
		updates: make(chan *models.Topology, 1),
	}, nil
}

// Updates returns the channel reloaded topologies are delivered on. It is
// closed when Run returns.
func (w *Watcher) Updates() <-chan *models.Topology {
	return w.updates
}

// Run monitors the file until ctx is canceled. Files that fail to parse are
// logged and skipped; the previous topology stays in effect.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.updates)
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("topology watcher error", "path", w.path, "error", err)
		}
	}
}

// Close stops watching without waiting for Run
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) reload(ctx context.Context) {
	topology, err := ProcessFile(w.path, w.format)
	if err != nil {
		w.logger.Warn("topology reload failed", "path", w.path, "error", err)
		return
	}
	w.logger.Info("topology reloaded",
		"path", w.path,
		"points", len(topology.Points),
		"links", len(topology.Links))

	// Keep only the newest pending topology
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- topology:
	case <-ctx.Done():
	}
}
