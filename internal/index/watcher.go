package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// syncDebounce coalesces bursts of file events into one Sync pass.
const syncDebounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher over the store directories and
// keeps the index in sync until ctx is cancelled. Record collections
// are small, so every relevant event schedules a debounced full Sync
// rather than per-file incremental indexing; Sync already skips
// unchanged records by digest.
func Watch(ctx context.Context, db *DB, src Sources, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	roots := []string{src.Protocols.Root(), src.Experiments.Root()}
	// Samples live in one ledger file; watch its parent directory.
	roots = append(roots, filepath.Dir(src.Samples.Path()))
	for _, root := range roots {
		if err := w.Add(root); err != nil {
			return err
		}
	}

	logger.Info("watcher: started", slog.Int("roots", len(roots)))

	var syncTimer *time.Timer
	var syncCh <-chan time.Time

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(syncDebounce)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(syncDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-syncCh:
			if err := Sync(db, src, logger); err != nil {
				logger.Warn("watcher: sync failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				scheduleSync()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
