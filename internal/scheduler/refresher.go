// Package scheduler re-runs the dashboard on a cron schedule and when the
// portfolio file changes on disk.
package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const defaultDebounce = 300 * time.Millisecond

// RefreshFunc recomputes and publishes the dashboard.
type RefreshFunc func(ctx context.Context) error

// Refresher triggers RefreshFunc periodically and on file changes.
// At most one refresh runs at a time; triggers arriving meanwhile are dropped.
type Refresher struct {
	cron      *cron.Cron
	schedule  string
	watchPath string
	debounce  time.Duration
	refresh   RefreshFunc
	running   atomic.Bool
	log       zerolog.Logger
}

// New creates a refresher. An empty watchPath disables file watching.
func New(schedule, watchPath string, refresh RefreshFunc, log zerolog.Logger) *Refresher {
	return &Refresher{
		cron:      cron.New(),
		schedule:  schedule,
		watchPath: watchPath,
		debounce:  defaultDebounce,
		refresh:   refresh,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Run registers the schedule and the file watcher, then blocks until ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	if _, err := r.cron.AddFunc(r.schedule, func() { r.Trigger(ctx, "schedule") }); err != nil {
		return fmt.Errorf("register refresh schedule %q: %w", r.schedule, err)
	}

	var watcher *fsnotify.Watcher
	if r.watchPath != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		if err := w.Add(filepath.Dir(r.watchPath)); err != nil {
			_ = w.Close()
			return fmt.Errorf("watch %s: %w", filepath.Dir(r.watchPath), err)
		}
		watcher = w
	}

	r.cron.Start()
	r.log.Info().
		Str("schedule", r.schedule).
		Str("watch", r.watchPath).
		Msg("Refresher started")
	defer func() {
		<-r.cron.Stop().Done()
		r.log.Info().Msg("Refresher stopped")
	}()

	if watcher == nil {
		<-ctx.Done()
		return nil
	}
	r.watchLoop(ctx, watcher)
	return nil
}

// Trigger runs a refresh now unless one is already in progress.
// It reports whether the refresh ran.
func (r *Refresher) Trigger(ctx context.Context, reason string) bool {
	if ctx.Err() != nil {
		return false
	}
	if !r.running.CompareAndSwap(false, true) {
		r.log.Debug().Str("reason", reason).Msg("Refresh already running, trigger dropped")
		return false
	}
	defer r.running.Store(false)

	r.log.Debug().Str("reason", reason).Msg("Refreshing")
	if err := r.refresh(ctx); err != nil {
		r.log.Error().Err(err).Str("reason", reason).Msg("Refresh failed")
	}
	return true
}

func (r *Refresher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var timerMu sync.Mutex
	var timer *time.Timer
	trigger := func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(r.debounce, func() { r.Trigger(ctx, "file change") })
		timerMu.Unlock()
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if r.isStoreEvent(evt) {
				trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				r.log.Warn().Err(err).Msg("Watcher error")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *Refresher) isStoreEvent(evt fsnotify.Event) bool {
	if filepath.Clean(evt.Name) != filepath.Clean(r.watchPath) {
		return false
	}
	return evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
