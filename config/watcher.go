package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/piddemo/logging"
)

// Watch calls onChange with the re-read config every time the file at filePath is written or
// replaced, until ctx is done. Files that fail to read or validate are logged and skipped. The
// parent directory is watched so editors that replace the file are picked up too.
func Watch(ctx context.Context, logger logging.Logger, filePath string, onChange func(*Config)) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create config watcher")
	}
	defer func() {
		err = multierr.Combine(err, watcher.Close())
	}()

	target := filepath.Clean(filePath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", target)
	}
	logger.Debugw("watching config", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Read(target)
			if err != nil {
				logger.Warnw("ignoring config change", "path", target, "error", err)
				continue
			}
			logger.Infow("config changed", "path", target)
			onChange(cfg)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("config watcher error", "error", werr)
		}
	}
}
