package walk

import (
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/sys/unix"
)

// FatalError is an error that ends the run. Its message is the one-line
// diagnostic printed to standard error.
type FatalError struct {
	Op   string // "stat", "open" or "read"
	Path string
	Err  error
	msg  string
}

func (e *FatalError) Error() string { return e.msg }

func (e *FatalError) Unwrap() error { return e.Err }

// IsFatal reports whether err carries a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// isPermission reports whether err is a permission-denied failure, which the
// walk skips silently.
func isPermission(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}

// describe returns the system's text for the errno inside err, or err itself.
func describe(err error) string {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno.Error()
	}
	return err.Error()
}

// statError classifies a failed status query. It returns nil for
// permission-denied.
func statError(path string, err error) error {
	if isPermission(err) {
		return nil
	}

	var class string
	switch {
	case errors.Is(err, unix.ENAMETOOLONG):
		class = "Pathname is too long"
	case errors.Is(err, unix.ENOENT):
		class = "A component of pathname does not exist, or pathname is an empty string"
	case errors.Is(err, unix.ENOTDIR):
		class = "A component of the path prefix of pathname is not a directory"
	case errors.Is(err, unix.EFAULT):
		class = "Bad address"
	default:
		class = "Something strange has happened with file"
	}
	return &FatalError{Op: "stat", Path: path, Err: err, msg: fmt.Sprintf("%s: %s", class, describe(err))}
}

// openError classifies a failed directory open. It returns nil for
// permission-denied.
func openError(path string, err error) error {
	if isPermission(err) {
		return nil
	}

	var class string
	switch {
	case errors.Is(err, unix.ENOENT):
		class = "Directory does not exist, or dir_name is an empty string"
	case errors.Is(err, unix.ENOTDIR):
		class = "dir_name is not a directory"
	case errors.Is(err, unix.ENOMEM):
		class = "Insufficient memory to complete the operation"
	default:
		class = "Something strange happened while opening"
	}
	return &FatalError{Op: "open", Path: path, Err: err, msg: fmt.Sprintf("%s: %s", class, describe(err))}
}

// readError classifies a failure while enumerating an opened directory.
// Reading something that is not a directory counts as an open failure.
func readError(path string, err error) error {
	if errors.Is(err, unix.ENOTDIR) {
		return openError(path, err)
	}
	return &FatalError{
		Op:   "read",
		Path: path,
		Err:  err,
		msg:  fmt.Sprintf("Something strange happened with directory: %s", describe(err)),
	}
}
