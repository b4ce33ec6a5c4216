package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/Carmen-Shannon/hyperray/common"
	"github.com/fsnotify/fsnotify"
)

// Watch delivers a freshly loaded Config every time the file at path is written or replaced.
//
// The parent directory is watched rather than the file so that editors which save through a
// rename keep triggering reloads. A reload that fails to load is logged and skipped. The channel
// holds at most one pending Config; a newer one replaces an unconsumed older one. The channel is
// closed when ctx is done.
//
// Parameters:
//   - ctx: stops the watcher when cancelled
//   - path: the configuration file
//
// Returns:
//   - <-chan Config: reloaded configurations
//   - error: an error if the watcher could not be started
func Watch(ctx context.Context, path string) (<-chan Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}

	out := make(chan Config, 1)
	go func() {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				c, err := Load(abs)
				if err != nil {
					log.Printf("[Config] reload skipped: %v", err)
					continue
				}
				log.Printf("[Config] reloaded %s", abs)
				common.Offer(out, c)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[Config] watcher error: %v", err)
			}
		}
	}()
	return out, nil
}
