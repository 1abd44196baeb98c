package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the catalog file whenever it changes and swaps the rebuilt
// index into the holder. A broken edit keeps the previous index serving.
// Blocks until ctx is cancelled.
func Watch(ctx context.Context, log *zap.Logger, path string, fuzzyThreshold int, holder *Holder) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating catalog watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files, which drops the watch on
	// the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching catalog dir: %w", err)
	}

	var debounce *time.Timer
	reload := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("catalog watcher error", zap.Error(err))
		case <-reload:
			snap, err := Load(path)
			if err != nil {
				log.Error("catalog reload failed, keeping previous index",
					zap.String("path", path), zap.Error(err))
				continue
			}
			holder.Swap(NewIndex(snap, fuzzyThreshold))
			log.Info("catalog reloaded", zap.Int("items", len(snap.Items)))
		}
	}
}
