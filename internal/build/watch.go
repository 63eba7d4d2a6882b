package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for a burst of file events to
// settle before rebuilding.
const DefaultDebounce = 100 * time.Millisecond

// WatchFunc receives the outcome of every build Watch runs.
type WatchFunc func(out *Output, err error)

// Watch builds once, then rebuilds whenever the master document, the schema
// override or the README changes, until ctx is cancelled. Build errors are
// handed to fn and do not stop the loop.
func (b *Builder) Watch(ctx context.Context, debounce time.Duration, fn WatchFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch parent directories: editors often replace files by rename, which
	// drops a watch placed on the file itself.
	inputs := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range []string{b.opts.MasterPath, b.opts.SchemaPath, b.opts.ReadmePath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		inputs[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	fn(b.Build(ctx))

	rebuild := make(chan string, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !inputs[abs] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := filepath.Base(event.Name)
			debounceTimer = time.AfterFunc(debounce, func() {
				select {
				case rebuild <- name:
				default:
				}
			})
		case name := <-rebuild:
			b.logger.Info("change detected, rebuilding", slog.String("file", name))
			fn(b.Build(ctx))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
