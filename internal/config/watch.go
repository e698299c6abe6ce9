package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
)

// WatchTables monitors the threshold-tables file and calls onChange with the
// newly loaded tables each time the file is written. It runs until ctx is
// cancelled.
//
// If a reload fails (invalid YAML or non-monotonic thresholds), the error is
// logged and the previous tables remain active; WatchTables does not call
// onChange.
func WatchTables(ctx context.Context, path string, logger *slog.Logger, onChange func(models.Tables)) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	logger.Info("watching threshold tables", slog.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename, so catch Create as well as Write.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			tables, err := LoadTables(path)
			if err != nil {
				logger.Error("tables reload failed, keeping previous tables",
					slog.String("path", path), slog.Any("error", err))
				continue
			}

			logger.Info("threshold tables reloaded", slog.String("path", path))
			onChange(tables)

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("tables watcher error", slog.Any("error", err))
		}
	}
}
