// Package trigger implements the cross-process wake-up protocol: another
// process requests an immediate refresh of monitor M by creating an
// empty marker file named M in the running instance's per-target watch
// directory. The watcher polls the directory, deletes each marker, and
// wakes the matching monitor.
package trigger

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/s-ajensen/bb/internal/errors"
	"github.com/s-ajensen/bb/internal/logger"
	"github.com/s-ajensen/bb/internal/monitor"
)

// DefaultPollInterval bounds the wake latency of the trigger protocol.
const DefaultPollInterval = 200 * time.Millisecond

// Watcher polls a watch directory for marker files and routes each one
// to the matching monitor's Wake.
type Watcher struct {
	dir      string
	interval time.Duration
	monitors map[string]monitor.Monitor
	log      logger.Logger
}

// NewWatcher creates a Watcher over dir for the given monitors, keyed by
// id. A zero interval falls back to DefaultPollInterval.
func NewWatcher(dir string, interval time.Duration, monitors []monitor.Monitor, log logger.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = logger.Noop()
	}
	byID := make(map[string]monitor.Monitor, len(monitors))
	for _, m := range monitors {
		byID[m.ID()] = m
	}
	return &Watcher{
		dir:      dir,
		interval: interval,
		monitors: byID,
		log:      log,
	}
}

// Run polls until ctx is cancelled. Scan problems are logged, never
// fatal: a missing or unreadable watch directory must not take the bar
// down.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// scan consumes every marker currently in the watch directory.
func (w *Watcher) scan() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			w.log.Warn("trigger scan: %v", err)
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id := entry.Name()
		if err := os.Remove(filepath.Join(w.dir, id)); err != nil {
			w.log.Warn("trigger marker %s: %v", id, err)
			continue
		}
		w.dispatch(id)
	}
}

// dispatch wakes the monitor named by a marker. Unknown ids and monitor
// types that don't support external wake-up are warnings, not errors.
func (w *Watcher) dispatch(id string) {
	m, ok := w.monitors[id]
	if !ok {
		w.log.Warn("trigger for unknown monitor '%s' dropped", id)
		return
	}
	if !m.Triggerable() {
		w.log.Warn("monitor '%s' doesn't support triggering", id)
		return
	}
	w.log.Debug("triggering monitor %s", id)
	m.Wake()
}

// CreateMarkers writes an empty marker file for each monitor id into
// dir, creating the directory if needed. Used by the trigger CLI to
// signal a running instance.
func CreateMarkers(dir string, ids []string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrTrigger,
			"Couldn't create watch directory "+dir,
			"Check your permissions.")
	}
	for _, id := range ids {
		path := filepath.Join(dir, id)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrTrigger,
				"Couldn't create trigger marker "+path,
				"Check your permissions.")
		}
		f.Close()
	}
	return nil
}
