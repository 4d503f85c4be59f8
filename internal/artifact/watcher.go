package artifact

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/deedscan/deedscan/constants"
)

// Watch observes dir for new or rewritten artifact files and emits one
// signal per settled burst of changes. Captures arrive as bursts (a page
// per file, written while the capture tool is still running), so events
// are debounced and coalesced; the consumer reprocesses the whole
// directory, not individual paths.
func Watch(ctx context.Context, dir string, debounce time.Duration, logger *slog.Logger) (<-chan struct{}, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("artifact.watch.create_failed", "error", err)
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		logger.Error("artifact.watch.add_failed", "dir", dir, "error", err)
		_ = w.Close()
		return nil, err
	}

	signal := make(chan struct{}, 1)

	go func() {
		defer close(signal)
		defer func() {
			if cerr := w.Close(); cerr != nil {
				logger.Warn("artifact.watch.close_failed", "error", cerr)
			}
		}()

		// The debounce timer's callback runs on its own goroutine, which
		// may fire after this goroutine has closed signal on shutdown. So
		// the callback only ticks an internal channel; signal is sent to
		// and closed by this goroutine alone.
		tick := make(chan struct{}, 1)
		schedule := func() {
			select {
			case tick <- struct{}{}:
			default:
			}
		}
		var timer *time.Timer

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case <-tick:
				select {
				case signal <- struct{}{}:
				default:
				}
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if !watchRelevant(e) {
					continue
				}
				logger.Debug("artifact.watch.event", "path", e.Name, "op", e.Op.String())
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, schedule)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("artifact.watch.error", "error", err)
			}
		}
	}()

	logger.Info("artifact.watch.started", "dir", dir, "debounce", debounce)
	return signal, nil
}

func watchRelevant(e fsnotify.Event) bool {
	if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	ext := constants.NormalizeExt(filepath.Ext(e.Name))
	_, ok := constants.AllowedExtensions[ext]
	return ok
}
