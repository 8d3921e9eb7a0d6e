// Package walk implements the depth-first search that collects the regular
// files matching a FilterSet.
package walk

import (
	"strings"
	"time"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// MatchList holds matching paths in discovery order: depth-first, pre-order,
// siblings in the order the directory returns them.
type MatchList []string

// Stats holds traversal statistics.
type Stats struct {
	DirsVisited     int64         // Directories opened and enumerated
	FilesExamined   int64         // Regular files whose status was queried
	PermissionSkips int64         // Files and directories skipped for lack of access
	Matches         int64         // Files that passed the filter
	ElapsedTime     time.Duration // Total time elapsed
}

// Options configures a traversal.
type Options struct {
	Logger *zap.Logger // Defaults to a no-op logger
	Stats  *Stats      // Filled in when non-nil
}

// Traverse searches root for regular files matching filter.
//
// A root that is a regular file is tested on its own. Anything else is
// walked as a directory. Entries that are neither regular files nor
// directories are ignored, and permission-denied files and directories are
// skipped. Every other failure stops the walk with a *FatalError and no
// matches.
func Traverse(root string, filter FilterSet, opts Options) (MatchList, error) {
	w := &walker{
		filter:  filter,
		logger:  opts.Logger,
		stats:   opts.Stats,
		matches: MatchList{},
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	if w.stats == nil {
		w.stats = &Stats{}
	}

	startTime := time.Now()
	defer func() {
		w.stats.ElapsedTime = time.Since(startTime)
	}()

	w.logger.Debug("starting traversal", zap.String("root", root))

	st, regular, dir, err := statPath(root)
	if err != nil {
		if ferr := statError(root, err); ferr != nil {
			return nil, ferr
		}
		w.skipped(root, err)
		return w.matches, nil
	}

	if regular {
		w.test(root, baseName(root), st)
		return w.matches, nil
	}
	if !dir {
		// opendir would refuse it; opening a fifo here could block forever.
		return nil, openError(root, unix.ENOTDIR)
	}

	if err := w.walkDir(root); err != nil {
		return nil, err
	}

	w.logger.Debug("traversal finished",
		zap.String("root", root),
		zap.Int64("dirs", w.stats.DirsVisited),
		zap.Int64("files", w.stats.FilesExamined),
		zap.Int64("matches", w.stats.Matches),
	)
	return w.matches, nil
}

type walker struct {
	filter  FilterSet
	logger  *zap.Logger
	stats   *Stats
	matches MatchList
}

func (w *walker) walkDir(dir string) error {
	scanner, err := godirwalk.NewScanner(dir)
	if err != nil {
		if ferr := openError(dir, err); ferr != nil {
			return ferr
		}
		w.skipped(dir, err)
		return nil
	}
	// Err closes the directory handle; it is safe to call more than once.
	defer func() { _ = scanner.Err() }()

	w.stats.DirsVisited++

	for scanner.Scan() {
		de, err := scanner.Dirent()
		name := scanner.Name()
		path := joinEntry(dir, name)
		if err != nil {
			if ferr := statError(path, err); ferr != nil {
				return ferr
			}
			w.skipped(path, err)
			continue
		}
		if name == "." || name == ".." {
			continue
		}

		switch {
		case de.IsRegular():
			if err := w.check(path, name); err != nil {
				return err
			}
		case de.IsDir():
			if err := w.walkDir(path); err != nil {
				return err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return readError(dir, err)
	}
	return nil
}

// check queries the status of a regular file and tests it.
func (w *walker) check(path, name string) error {
	st, _, _, err := statPath(path)
	if err != nil {
		if ferr := statError(path, err); ferr != nil {
			return ferr
		}
		w.skipped(path, err)
		return nil
	}
	w.test(path, name, st)
	return nil
}

func (w *walker) test(path, name string, st FileStat) {
	w.stats.FilesExamined++
	if !w.filter.Match(name, st) {
		return
	}
	w.stats.Matches++
	w.matches = append(w.matches, path)
}

func (w *walker) skipped(path string, err error) {
	w.stats.PermissionSkips++
	w.logger.Debug("skipping inaccessible path", zap.String("path", path), zap.Error(err))
}

// joinEntry builds dir/name without doubling a trailing separator. Unlike
// filepath.Join it keeps the root exactly as given ("./a" stays "./a").
func joinEntry(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

// baseName returns the text after the last '/'.
func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
