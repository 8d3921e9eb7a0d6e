package walk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	Logger  *zap.Logger   // Defaults to a no-op logger
	Timeout time.Duration // 0 means watch until ctx is done
	Known   MatchList     // Paths already handled; they are not reported again
	Stats   *Stats        // Filled in when non-nil
}

// WatchHandler is called once for every newly matching path. A non-nil
// error ends the watch and is returned by Watch.
type WatchHandler func(ctx context.Context, path string) error

// Watch monitors the tree under root and calls handler for each regular file
// that is created or written and matches filter. Each path is handled at most
// once. Handlers run one at a time on the calling goroutine.
func Watch(ctx context.Context, root string, filter FilterSet, opts WatchOptions, handler WatchHandler) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	stats := opts.Stats
	if stats == nil {
		stats = &Stats{}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	w := &treeWatcher{
		watcher: watcher,
		filter:  filter,
		logger:  logger,
		stats:   stats,
		seen:    make(map[string]struct{}, len(opts.Known)),
	}
	for _, path := range opts.Known {
		w.seen[path] = struct{}{}
	}

	if err := w.addTree(root); err != nil {
		return err
	}

	logger.Info("watching for changes", zap.String("root", root))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if err := w.handleEvent(ctx, event, handler); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logger.Debug("watch timeout reached", zap.String("root", root))
			}
			return nil
		}
	}
}

type treeWatcher struct {
	watcher *fsnotify.Watcher
	filter  FilterSet
	logger  *zap.Logger
	stats   *Stats
	seen    map[string]struct{}
}

// addTree registers root and every directory below it.
func (w *treeWatcher) addTree(root string) error {
	_, _, dir, err := statPath(root)
	if err != nil {
		return fmt.Errorf("error watching %s: %w", root, err)
	}
	if !dir {
		if err := w.watcher.Add(root); err != nil {
			return fmt.Errorf("error watching %s: %w", root, err)
		}
		return nil
	}

	err = godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			if err := w.watcher.Add(path); err != nil {
				w.logger.Warn("error watching directory", zap.String("path", path), zap.Error(err))
			}
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			w.logger.Debug("skipping directory", zap.String("path", path), zap.Error(err))
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		return fmt.Errorf("error walking directory tree: %w", err)
	}
	return nil
}

func (w *treeWatcher) handleEvent(ctx context.Context, event fsnotify.Event, handler WatchHandler) error {
	path := event.Name
	st, regular, dir, err := statPath(path)
	if err != nil {
		// The file may already be gone again.
		w.logger.Debug("ignoring event", zap.String("path", path), zap.Error(err))
		return nil
	}

	if dir {
		if !event.Has(fsnotify.Create) {
			return nil
		}
		if err := w.addTree(path); err != nil {
			w.logger.Warn("error watching new directory", zap.String("path", path), zap.Error(err))
			return nil
		}
		// Files may have landed in the directory before it was watched.
		matches, err := Traverse(path, w.filter, Options{Logger: w.logger, Stats: &Stats{}})
		if err != nil {
			w.logger.Warn("error scanning new directory", zap.String("path", path), zap.Error(err))
			return nil
		}
		for _, m := range matches {
			if err := w.report(ctx, m, handler); err != nil {
				return err
			}
		}
		return nil
	}

	if !regular {
		return nil
	}
	w.stats.FilesExamined++
	if !w.filter.Match(baseName(path), st) {
		return nil
	}
	return w.report(ctx, path, handler)
}

func (w *treeWatcher) report(ctx context.Context, path string, handler WatchHandler) error {
	if _, ok := w.seen[path]; ok {
		return nil
	}
	w.seen[path] = struct{}{}
	w.stats.Matches++
	w.logger.Debug("new match", zap.String("path", path))
	return handler(ctx, path)
}
