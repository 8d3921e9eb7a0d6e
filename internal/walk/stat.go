package walk

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// statPath queries the status of path, following symlinks, and reports
// whether it names a regular file or a directory.
func statPath(path string) (st FileStat, regular, dir bool, err error) {
	var raw unix.Stat_t
	if err := unix.Stat(path, &raw); err != nil {
		return FileStat{}, false, false, &fs.PathError{Op: "stat", Path: path, Err: err}
	}

	st = FileStat{
		Inode: uint64(raw.Ino),
		Links: uint64(raw.Nlink),
		Size:  int64(raw.Size),
	}
	switch uint32(raw.Mode) & unix.S_IFMT {
	case unix.S_IFREG:
		regular = true
	case unix.S_IFDIR:
		dir = true
	}
	return st, regular, dir, nil
}
