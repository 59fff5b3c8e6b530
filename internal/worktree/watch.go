package worktree

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch signals on the returned channel whenever worktrees are added to or
// removed from the repository whose git common dir is commonDir. Bursts of
// filesystem events within debounce collapse into one signal. The watcher
// stops when ctx is done.
func Watch(ctx context.Context, commonDir string, debounce time.Duration) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	worktrees := filepath.Join(commonDir, "worktrees")
	// The worktrees dir appears with the first linked worktree; watch the
	// common dir too so its creation is seen.
	if err := w.Add(commonDir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", commonDir, err)
	}
	if _, err := os.Stat(worktrees); err == nil {
		if err := w.Add(worktrees); err != nil {
			slog.Debug("watch worktrees dir failed", "dir", worktrees, "err", err)
		}
	}

	out := make(chan struct{}, 1)
	go func() {
		defer w.Close()
		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !isWorktreeEvent(worktrees, ev) {
					continue
				}
				if ev.Name == worktrees && ev.Has(fsnotify.Create) {
					_ = w.Add(worktrees)
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				timerC = timer.C
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Debug("worktree watcher error", "err", err)
			case <-timerC:
				timerC = nil
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}

func isWorktreeEvent(worktrees string, ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return ev.Name == worktrees || filepath.Dir(ev.Name) == worktrees
}
