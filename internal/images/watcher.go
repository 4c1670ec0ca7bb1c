package images

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SizeCallback is invoked with the recomputed directory size after the
// watcher observes a change.
type SizeCallback func(bytes int64)

// Watch observes the managed directory with fsnotify and reports storage
// size changes until ctx is cancelled. Bursts of file events (a cleanup
// pass deleting many files) are coalesced behind a short debounce so the
// size is recomputed once per burst.
func Watch(ctx context.Context, m *Manager, logger *slog.Logger, cb SizeCallback) error {
	if err := m.ensureDir(); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(m.dir); err != nil {
		return err
	}
	logger.Info("images: watcher started", slog.String("dir", m.dir))

	var recomputeTimer *time.Timer
	var recomputeCh <-chan time.Time

	scheduleRecompute := func() {
		if recomputeTimer == nil {
			recomputeTimer = time.NewTimer(200 * time.Millisecond)
			recomputeCh = recomputeTimer.C
		} else {
			recomputeTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if recomputeTimer != nil {
				recomputeTimer.Stop()
			}
			logger.Info("images: watcher stopped")
			return nil

		case <-recomputeCh:
			size := m.StorageSize()
			logger.Debug("images: storage size recomputed", slog.Int64("bytes", size))
			if cb != nil {
				cb(size)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				scheduleRecompute()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("images: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
