package engine

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tsbridge/tsbridge/resolver"
	"github.com/tsbridge/tsbridge/tserrors"
)

// Watch runs the regeneration daemon until ctx is cancelled. The given
// paths are watched for file-system changes; with none given, the schema
// file of a file-backed source is watched. Manual Trigger calls also start
// cycles.
//
// Notifications are debounced: edits arriving within the coalescing window
// collapse into one cycle, and notifications arriving while a cycle is in
// flight are queued and coalesced rather than starting a second cycle. A
// failed cycle keeps the previous output on disk and the daemon alive.
func (e *Engine) Watch(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		fs, ok := e.source.(*resolver.FileSource)
		if !ok {
			return &tserrors.ConfigError{
				Option:  "watch",
				Message: "no watch paths given and the schema source is not a file",
			}
		}
		paths = []string{fs.Path}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &tserrors.IOError{Op: "watch", Message: "creating watcher", Cause: err}
	}
	defer func() { _ = watcher.Close() }()

	// Watch each path's directory and filter events by name: editors often
	// replace files via rename, which drops a watch on the file itself.
	watched := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return &tserrors.IOError{Op: "watch", Target: p, Cause: err}
		}
		watched[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return &tserrors.IOError{Op: "watch", Target: filepath.Dir(abs), Cause: err}
		}
	}

	e.logger.Info("watching for schema changes",
		"paths", paths, "debounce", e.cfg.Debounce.Std())

	// Initial cycle so the output exists before the first edit.
	if _, err := e.runCycle(ctx, true); err != nil {
		e.logger.Warn("initial generation failed; watching for a fixed revision", "error", err)
	}

	debounce := e.cfg.Debounce.Std()
	var timer *time.Timer
	var timerC <-chan time.Time

	arm := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !e.relevantEvent(event, watched) {
				continue
			}
			e.logger.Debug("schema change detected", "event", event.String())
			arm()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watcher error", "error", err)

		case <-e.trigger:
			arm()

		case <-timerC:
			timerC = nil
			// Cycle errors are reported, not fatal: the daemon keeps the
			// last good output and waits for the next revision.
			if _, err := e.runCycle(ctx, true); err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
}

// relevantEvent reports whether a file-system event concerns a watched
// schema path and mutates it.
func (e *Engine) relevantEvent(event fsnotify.Event, watched map[string]bool) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if !watched[abs] {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename) || event.Op.Has(fsnotify.Remove)
}
