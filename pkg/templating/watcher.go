package templating

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay groups the bursts of events editors produce on save.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the templates whenever a template or partial in the
// template directory is written, created, removed or renamed. It returns
// once the watcher is set up; watching stops when ctx is done.
func (tm *TemplateManager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create template watcher: %w", err)
	}
	dir := tm.GetTemplateDir()
	if err = watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go func() {
		defer func() {
			_ = watcher.Close()
		}()

		timer := time.NewTimer(reloadDelay)
		timer.Stop()
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 && tm.isTemplateFile(event.Name) {
					tm.logger.Debug("Template changed", "file", event.Name, "op", event.Op.String())
					timer.Reset(reloadDelay)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				tm.logger.Error("template watcher error", "error", err)
			case <-timer.C:
				if err := tm.Refresh(); err != nil {
					tm.logger.Error("failed to reload templates", "error", err)
				} else {
					tm.logger.Info("Templates reloaded")
				}
			}
		}
	}()

	return nil
}

func (tm *TemplateManager) isTemplateFile(name string) bool {
	config := tm.GetConfig()
	return strings.HasSuffix(name, config.TemplateExt) || strings.HasSuffix(name, config.PartialExt)
}
